package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one traced unit of work, such as a transcription job or
// an evaluation run.
type Operation struct {
	Name      string
	RunID     string
	StartTime time.Time

	span trace.Span
}

// operationKey is the context key for Operation.
type operationKey struct{}

// StartOperation starts a span named name and stores the resulting Operation
// in the returned context.
func StartOperation(ctx context.Context, name, runID string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, name, trace.WithAttributes(attrs...))
	if runID != "" {
		span.SetAttributes(attribute.String(AttrRunID, runID))
	}
	op := &Operation{Name: name, RunID: runID, StartTime: time.Now(), span: span}
	return context.WithValue(ctx, operationKey{}, op), op
}

// OperationFromContext retrieves the innermost Operation, or nil.
func OperationFromContext(ctx context.Context) *Operation {
	if op, ok := ctx.Value(operationKey{}).(*Operation); ok {
		return op
	}
	return nil
}

// End records err (if any) and the elapsed time, then ends the span.
func (op *Operation) End(err error) {
	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
		op.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	op.span.SetAttributes(attribute.Int64(AttrDurationMs, op.Duration().Milliseconds()))
	op.span.End()
}

// Duration returns the elapsed time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.StartTime)
}
