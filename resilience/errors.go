package resilience

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when a circuit breaker is open.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrRetriesExhausted is returned when all retry attempts failed.
	ErrRetriesExhausted = errors.New("resilience: retries exhausted")

	// ErrCallTimeout is returned when a backend call exceeds its deadline.
	ErrCallTimeout = errors.New("resilience: call timed out")

	// ErrRateLimited is returned when the pacer rejects a request.
	ErrRateLimited = errors.New("resilience: request rate exceeded")

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")
)

// CircuitOpenError reports a call rejected by an open breaker. The wrapped
// operation was never invoked.
type CircuitOpenError struct {
	// Service is the name of the protected service.
	Service string

	// Failures is the breaker's failure count at rejection time.
	Failures int

	// RecoveryIn is the estimated time until the breaker probes again.
	RecoveryIn time.Duration
}

// Error implements the error interface.
func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("resilience: circuit breaker for %q is open (%d failures, recovery in %s)",
		e.Service, e.Failures, e.RecoveryIn)
}

// Is reports whether target is ErrCircuitOpen.
func (e *CircuitOpenError) Is(target error) bool {
	return target == ErrCircuitOpen
}

// RetryExhaustedError reports that every permitted attempt failed with a
// retryable error. It is only produced after at least one retry was
// attempted; a non-retryable failure on the first attempt propagates
// unwrapped.
type RetryExhaustedError struct {
	// Attempts is the number of attempts made.
	Attempts int

	// LastErr is the error from the final attempt.
	LastErr error
}

// Error implements the error interface.
func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("resilience: %d attempts exhausted: %v", e.Attempts, e.LastErr)
}

// Unwrap returns the final attempt's error.
func (e *RetryExhaustedError) Unwrap() error {
	return e.LastErr
}

// Is reports whether target is ErrRetriesExhausted.
func (e *RetryExhaustedError) Is(target error) bool {
	return target == ErrRetriesExhausted
}
