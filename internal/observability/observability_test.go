package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRunStageRecordsSpans(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := Tracer(tp)

	err := RunStage(context.Background(), tracer, StageRead, func(context.Context) error {
		return nil
	}, attribute.String("repo", "demo"))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = RunStage(context.Background(), tracer, StagePublish, func(context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, StageRead, spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("repo", "demo"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, StagePublish, spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, TracerName, spans[1].InstrumentationScope().Name)
}

func TestTracerDefaultsToGlobal(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, Tracer(nil))
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelWarn, LevelFor(false, false))
	assert.Equal(t, slog.LevelDebug, LevelFor(true, false))
	assert.Equal(t, slog.LevelError, LevelFor(true, true))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := DefaultConfig()
	cfg.Output = &buf
	cfg.LogJSON = true
	cfg.LogLevel = slog.LevelInfo

	logger := NewLogger(cfg)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"service":"commitpulse"`)
}

func TestLoggerAddsSpanContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := DefaultConfig()
	cfg.Output = &buf
	cfg.LogJSON = true
	cfg.LogLevel = slog.LevelDebug

	logger := NewLogger(cfg)
	tp := sdktrace.NewTracerProvider()

	err := RunStage(context.Background(), Tracer(tp), StageAggregate, func(ctx context.Context) error {
		logger.DebugContext(ctx, "inside")

		return nil
	})
	require.NoError(t, err)

	logger.Debug("outside")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `"trace_id":`)
	assert.Contains(t, string(lines[0]), `"span_id":`)
	assert.NotContains(t, string(lines[1]), "trace_id")
}
