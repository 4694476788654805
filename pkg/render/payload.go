package render

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

//go:embed schema.json
var payloadSchema []byte

// ErrInvalidPayload is returned when a payload does not match the publish schema.
var ErrInvalidPayload = errors.New("invalid publish payload")

// Payload is the body POSTed to the cloud publish endpoint.
type Payload struct {
	Username string              `json:"username"`
	RepoName string              `json:"repoName"`
	Stats    []pulse.PulseReport `json:"stats"`
}

// NewPayload builds the publish body. RepoName is the first report's name.
func NewPayload(username string, reports []pulse.PulseReport) Payload {
	p := Payload{Username: username, Stats: reports}
	if len(reports) > 0 {
		p.RepoName = reports[0].Name
	}

	return p
}

// Encode returns the JSON body.
func (p Payload) Encode() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	return data, nil
}

// Validate checks the encoded payload against the embedded JSON schema.
func (p Payload) Validate() error {
	data, err := p.Encode()
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(payloadSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate payload: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		problems = append(problems, resultErr.Field()+": "+resultErr.Description())
	}

	return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(problems, "; "))
}
