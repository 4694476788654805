package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of all commitpulse spans.
const TracerName = defaultServiceName

// Pipeline stage span names.
const (
	StageRead      = "commitpulse.read"
	StageClassify  = "commitpulse.classify"
	StageAggregate = "commitpulse.aggregate"
	StageRender    = "commitpulse.render"
	StagePublish   = "commitpulse.publish"
)

// Tracer returns the commitpulse tracer from tp, or from the global provider
// when tp is nil. The global provider is a no-op unless one is installed.
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return tp.Tracer(TracerName)
}

// StartStage opens a span for one pipeline stage. The returned function ends
// the span and records err on it when non-nil.
func StartStage(ctx context.Context, tracer trace.Tracer, stage string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
	ctx, span := tracer.Start(ctx, stage, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}
}

// RunStage runs fn inside a stage span.
func RunStage(ctx context.Context, tracer trace.Tracer, stage string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, end := StartStage(ctx, tracer, stage, attrs...)

	err := fn(ctx)
	end(err)

	return err
}
