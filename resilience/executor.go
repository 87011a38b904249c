package resilience

import (
	"context"
	"time"
)

// Operation is a single logical call to a model backend.
type Operation func(context.Context) error

// WrapWithBreaker returns op gated by the circuit breaker.
func WrapWithBreaker(cb *CircuitBreaker, op Operation) Operation {
	return func(ctx context.Context) error {
		return cb.Call(ctx, op)
	}
}

// WrapWithRetry returns op executed under the retry policy.
func WrapWithRetry(r *Retry, op Operation) Operation {
	return func(ctx context.Context) error {
		return r.Execute(ctx, op)
	}
}

// Executor composes the resilience patterns for one call site. Composition
// is explicit: each pattern is a higher-order wrapper, not an annotation.
type Executor struct {
	pacer    *Pacer
	bulkhead *Bulkhead
	retry    *Retry
	breaker  *CircuitBreaker
	timeout  *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an executor from the given patterns.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker gates the operation with a circuit breaker.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.breaker = cb
	}
}

// WithRetry retries the gated operation on retryable failures.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithPacer paces requests against the provider's rate limits.
func WithPacer(p *Pacer) ExecutorOption {
	return func(e *Executor) {
		e.pacer = p
	}
}

// WithBulkhead caps concurrent in-flight operations.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) {
		e.bulkhead = b
	}
}

// WithTimeout bounds each attempt. Redundant when the breaker already
// enforces a call timeout.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// Execute runs the operation through all configured patterns.
//
// Order, outermost first: pacer, bulkhead, retry, circuit breaker, timeout.
// Retry wraps the breaker so each attempt re-consults breaker state; a
// breaker that opens mid-loop stops the remaining attempts cold, because a
// CircuitOpenError is never retryable.
func (e *Executor) Execute(ctx context.Context, op Operation) error {
	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.breaker != nil {
		execute = WrapWithBreaker(e.breaker, execute)
	}

	if e.retry != nil {
		execute = WrapWithRetry(e.retry, execute)
	}

	if e.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}

	if e.pacer != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.pacer.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}
