package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one traced unit of work: a REST call or a command run.
type Operation struct {
	span      trace.Span
	startTime time.Time
}

// StartOperation starts a span named spanName carrying attrs.
func StartOperation(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, spanName, trace.WithAttributes(attrs...))
	return ctx, &Operation{span: span, startTime: time.Now()}
}

// SetAttributes adds attributes to the operation span.
func (op *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	op.span.SetAttributes(attrs...)
}

// End records err (if any) and the elapsed time, then ends the span.
func (op *Operation) End(ctx context.Context, err error) {
	if err != nil {
		SetSpanError(trace.ContextWithSpan(ctx, op.span), err)
	}
	op.span.SetAttributes(attribute.Int64(AttrDurationMs, op.Duration().Milliseconds()))
	op.span.End()
}

// Duration returns the elapsed time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.startTime)
}
