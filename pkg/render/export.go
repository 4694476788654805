package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for an export format other than json or yaml.
var ErrUnknownFormat = errors.New("unknown export format")

// FormatFromPath picks the export format from a file extension. Anything
// other than .yaml or .yml is JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Export writes reports to w in the given format.
func Export(w io.Writer, reports []pulse.PulseReport, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(reports)
		if err != nil {
			return fmt.Errorf("export json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(reports)
		if err != nil {
			return fmt.Errorf("export yaml: %w", err)
		}

		err = enc.Close()
		if err != nil {
			return fmt.Errorf("export yaml: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return nil
}
