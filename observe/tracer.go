package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ModelMeta contains metadata about a model call for telemetry purposes.
type ModelMeta struct {
	Provider string // Provider name, e.g. "openai" (required)
	Model    string // Model identifier (required)
	Task     string // Dispatch task that selected the model (optional)
	Tier     string // Complexity tier the task mapped to (optional)
	Stream   bool   // Whether the call used streaming delivery
}

// SpanName returns the deterministic span name for this model call.
// Format: model.call.<provider>.<model> or model.call.<model>
func (m ModelMeta) SpanName() string {
	if m.Provider != "" {
		return "model.call." + m.Provider + "." + m.Model
	}
	return "model.call." + m.Model
}

// ModelID returns the fully qualified model identifier.
func (m ModelMeta) ModelID() string {
	if m.Provider != "" {
		return m.Provider + "." + m.Model
	}
	return m.Model
}

// Tracer wraps OpenTelemetry tracing with model-call span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a model call.
	StartSpan(ctx context.Context, meta ModelMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with model metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta ModelMeta) (context.Context, trace.Span) {
	spanName := meta.SpanName()

	// Build attributes
	attrs := []attribute.KeyValue{
		attribute.String("model.id", meta.ModelID()),
		attribute.String("model.name", meta.Model),
		attribute.Bool("model.error", false), // Will be updated in EndSpan if error
	}

	// Add provider if present
	if meta.Provider != "" {
		attrs = append(attrs, attribute.String("model.provider", meta.Provider))
	}

	// Add optional attributes if present
	if meta.Task != "" {
		attrs = append(attrs, attribute.String("model.task", meta.Task))
	}
	if meta.Tier != "" {
		attrs = append(attrs, attribute.String("model.tier", meta.Tier))
	}
	if meta.Stream {
		attrs = append(attrs, attribute.Bool("model.stream", true))
	}

	ctx, span := t.tracer.Start(ctx, spanName,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("model.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta ModelMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
