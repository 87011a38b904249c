// Package resilience protects calls to external AI model backends from
// cascading failure.
//
// The package provides the following building blocks:
//
//   - Circuit Breaker: per-service failure accounting with a Closed / Open /
//     Half-Open state machine. An Open breaker rejects calls without invoking
//     the backend; after a recovery timeout it probes with trial calls.
//
//   - Retry: exponential backoff with jitter, driven by fault kinds rather
//     than error types. Only failure kinds configured as retryable trigger
//     another attempt.
//
//   - Timeout: bounds a single backend call.
//
//   - Pacer: token-bucket request pacing against provider rate limits.
//
//   - Bulkhead: caps concurrent in-flight generations per backend.
//
// Breakers are process-wide, one per named service, owned by a Registry at
// the composition root. Failure accounting is driven by the fault package:
// only classified kinds (connection, timeout, I/O by default) count toward a
// breaker; everything else propagates without touching its counters.
//
// # Usage
//
//	reg := resilience.NewRegistry()
//	cb := reg.Add("primary-model", resilience.Config{
//	    FailureThreshold: 5,
//	    RecoveryTimeout:  time.Minute,
//	})
//
//	retry := resilience.NewRetry(resilience.DefaultRetryConfig())
//
//	err := retry.Execute(ctx, resilience.WrapWithBreaker(cb, func(ctx context.Context) error {
//	    return callModelBackend(ctx)
//	}))
//
// The Executor composes the patterns explicitly at a call site:
//
//	exec := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithRetry(retry),
//	    resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{MaxInFlight: 8})),
//	)
//	err := exec.Execute(ctx, op)
package resilience
