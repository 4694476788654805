package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

const (
	// DefaultCloudURL is the publish service base URL.
	DefaultCloudURL = "https://commitpulse.pxxl.click"
	// DefaultTimeout bounds the whole publish request.
	DefaultTimeout = 30 * time.Second

	publishPath     = "/api/publish"
	maxResponseBody = 1 << 20
	maxErrorSnippet = 200
)

var errNoURL = errors.New("response has no url")

// Cloud uploads payloads to the publish service.
type Cloud struct {
	// BaseURL defaults to DefaultCloudURL.
	BaseURL string
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// Opener defaults to SystemOpener.
	Opener Opener
	// NoOpen skips opening the shareable URL.
	NoOpen bool
	Logger *slog.Logger
}

type publishResponse struct {
	URL string `json:"url"`
}

// Endpoint returns the full publish URL.
func (c Cloud) Endpoint() string {
	base := c.BaseURL
	if base == "" {
		base = DefaultCloudURL
	}

	return strings.TrimRight(base, "/") + publishPath
}

// Publish POSTs body as JSON and returns the shareable URL from the response.
// Every failure wraps pulse.ErrNetwork.
func (c Cloud) Publish(ctx context.Context, body []byte) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shareURL, err := c.post(ctx, body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", pulse.ErrNetwork, err)
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("dashboard published", "url", shareURL)

	if c.NoOpen {
		return shareURL, nil
	}

	opener := c.Opener
	if opener == nil {
		opener = SystemOpener{}
	}

	if openErr := opener.Open(ctx, shareURL); openErr != nil {
		logger.Warn("could not open browser", "url", shareURL, "error", openErr)
	}

	return shareURL, nil
}

func (c Cloud) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", c.Endpoint(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("publish failed with status %d: %s", resp.StatusCode, snippet(data))
	}

	var parsed publishResponse

	err = json.Unmarshal(data, &parsed)
	if err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if parsed.URL == "" {
		return "", errNoURL
	}

	return parsed.URL, nil
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > maxErrorSnippet {
		s = s[:maxErrorSnippet] + "..."
	}

	return s
}
