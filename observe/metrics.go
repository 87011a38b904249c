package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/modelops/fault"
)

// Metrics records model call and circuit breaker metrics.
//
// RecordCall matches the provider package's CallRecorder signature, so a
// Metrics instance can be handed directly to provider constructors.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records a single model call with duration and error status.
	RecordCall(ctx context.Context, provider, model string, elapsed time.Duration, err error)

	// RecordBreakerTransition records a circuit breaker state change.
	RecordBreakerTransition(ctx context.Context, service, from, to string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	transitions  metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"model.call.total",
		metric.WithDescription("Total number of model calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"model.call.errors",
		metric.WithDescription("Total number of failed model calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"model.call.duration_ms",
		metric.WithDescription("Model call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"model.breaker.transitions",
		metric.WithDescription("Total number of circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		transitions:  transitions,
	}, nil
}

// RecordCall records metrics for a single model call.
func (m *metricsImpl) RecordCall(ctx context.Context, provider, model string, elapsed time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("model.provider", provider),
		attribute.String("model.name", model),
	}

	opt := metric.WithAttributes(attrs...)

	// Always increment total counter
	m.totalCount.Add(ctx, 1, opt)

	// Increment error counter on failure, tagged with the fault kind
	if err != nil {
		errAttrs := append(attrs, attribute.String("error.kind", fault.KindOf(err).String()))
		m.errorCount.Add(ctx, 1, metric.WithAttributes(errAttrs...))
	}

	// Record duration in milliseconds
	elapsedMs := float64(elapsed.Milliseconds())
	m.durationHist.Record(ctx, elapsedMs, opt)
}

// RecordBreakerTransition records a circuit breaker state change.
func (m *metricsImpl) RecordBreakerTransition(ctx context.Context, service, from, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("breaker.service", service),
		attribute.String("breaker.from", from),
		attribute.String("breaker.to", to),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordCall(ctx context.Context, provider, model string, elapsed time.Duration, err error) {
}

func (m *noopMetrics) RecordBreakerTransition(ctx context.Context, service, from, to string) {}
