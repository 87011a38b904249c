package resilience

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/modelops/fault"
	"github.com/jonwraymond/modelops/observe"
)

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	// Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	// Default: 100ms
	BaseDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the exponential backoff base.
	// Default: 2.0
	Multiplier float64

	// Jitter perturbs delays by up to ±25% to prevent thundering herd.
	Jitter bool

	// RetryableKinds are the failure kinds that trigger another attempt.
	// Default: connection, timeout, rate_limit
	RetryableKinds fault.KindSet

	// OnRetry is called before each retry. Panics in the callback are logged
	// and swallowed; they never abort the retry loop.
	OnRetry func(attempt int, err error, delay time.Duration)

	// Logger reports OnRetry callback panics. Optional.
	Logger observe.Logger
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
		Jitter:      true,
	}
}

// Retry retries a single logical operation with exponential backoff.
//
// Holds no mutable state; safe for concurrent use, and concurrent retry
// loops of independent call sites interleave freely.
type Retry struct {
	config  RetryConfig
	backoff Backoff
}

// NewRetry creates a retry executor.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryableKinds == nil {
		config.RetryableKinds = fault.Kinds(fault.KindConnection, fault.KindTimeout, fault.KindRateLimit)
	}

	return &Retry{
		config: config,
		backoff: Backoff{
			Base:       config.BaseDelay,
			Max:        config.MaxDelay,
			Multiplier: config.Multiplier,
			Jitter:     config.Jitter,
		},
	}
}

// Execute runs the operation with retry.
//
// Attempts are 1-based. A failure whose kind is not retryable propagates
// immediately and unwrapped; so does a caller-initiated cancellation. When
// the attempt budget is exhausted after at least one retry, the last error
// is wrapped in a *RetryExhaustedError. The sleep between attempts is
// context-aware and never blocks unrelated operations.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	retried := false

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		kind := fault.KindOf(err)
		if kind == fault.KindCanceled || !r.config.RetryableKinds.Has(kind) {
			return err
		}

		if attempt >= r.config.MaxAttempts {
			break
		}
		retried = true

		delay := r.backoff.DelayFor(attempt)
		r.notifyRetry(ctx, attempt, err, delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if retried {
		return &RetryExhaustedError{Attempts: r.config.MaxAttempts, LastErr: lastErr}
	}
	return lastErr
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}

func (r *Retry) notifyRetry(ctx context.Context, attempt int, err error, delay time.Duration) {
	if r.config.OnRetry == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil && r.config.Logger != nil {
			r.config.Logger.Warn(ctx, "retry callback panicked",
				observe.Field{Key: "attempt", Value: attempt},
				observe.Field{Key: "panic", Value: fmt.Sprint(rec)},
			)
		}
	}()
	r.config.OnRetry(attempt, err, delay)
}
