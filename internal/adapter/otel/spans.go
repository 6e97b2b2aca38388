package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "followup"

// StartPassSpan starts a span for a reminder or escalation pass.
func StartPassSpan(ctx context.Context, pass, runID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "pass."+pass,
		trace.WithAttributes(
			attribute.String("pass.name", pass),
			attribute.String("run.id", runID),
		),
	)
}

// StartTaskSpan starts a span for work on a single task.
func StartTaskSpan(ctx context.Context, op, taskID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "task."+op,
		trace.WithAttributes(attribute.String("task.id", taskID)),
	)
}

// StartReplySpan starts a span for applying an inbound reply.
func StartReplySpan(ctx context.Context, from string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "reply.apply",
		trace.WithAttributes(attribute.String("reply.from", from)),
	)
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
