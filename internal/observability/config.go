// Package observability provides OpenTelemetry tracing of pipeline stages and
// structured logging setup for the commitpulse CLI.
package observability

import (
	"io"
	"log/slog"
	"os"
)

// defaultServiceName is the tracer and logger name.
const defaultServiceName = "commitpulse"

// Config holds logging configuration.
type Config struct {
	// ServiceName tags every log record.
	ServiceName string

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON enables JSON-formatted log output.
	LogJSON bool

	// Output receives log records. Defaults to stderr.
	Output io.Writer
}

// DefaultConfig returns a quiet configuration: only warnings and errors
// reach stderr.
func DefaultConfig() Config {
	return Config{
		ServiceName: defaultServiceName,
		LogLevel:    slog.LevelWarn,
		Output:      os.Stderr,
	}
}

// LevelFor maps the CLI verbosity flags to a log level. quiet wins over verbose.
func LevelFor(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelError
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelWarn
	}
}

// NewLogger builds a slog logger from cfg. Records logged with a context that
// carries a span get its trace_id and span_id.
func NewLogger(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.LogJSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	name := cfg.ServiceName
	if name == "" {
		name = defaultServiceName
	}

	return slog.New(spanHandler{inner: handler}).With("service", name)
}
