package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/modelops/fault"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is rejecting all calls.
	StateOpen
	// StateHalfOpen means the circuit is probing whether the service recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// NoCallTimeout disables per-call timeout enforcement.
const NoCallTimeout time.Duration = -1

// Config configures a circuit breaker.
type Config struct {
	// FailureThreshold is the number of classified failures before opening.
	// The count is cumulative while closed; it resets only when the breaker
	// closes from half-open or is explicitly reset.
	// Default: 5
	FailureThreshold int

	// RecoveryTimeout is how long the breaker stays open before probing.
	// Default: 60 seconds
	RecoveryTimeout time.Duration

	// SuccessThreshold is the number of consecutive successful probes in
	// half-open required to close.
	// Default: 3
	SuccessThreshold int

	// ClassifiedKinds are the failure kinds that count toward the breaker.
	// Failures outside this set propagate without touching breaker state.
	// Default: connection, timeout, io
	ClassifiedKinds fault.KindSet

	// CallTimeout bounds each wrapped call. The timeout elapsing counts as a
	// classified timeout failure. NoCallTimeout disables enforcement.
	// Default: 30 seconds
	CallTimeout time.Duration

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)
}

// CircuitBreaker gates and measures calls to one external service.
//
// One instance per named service, created at process start and shared by all
// callers. The mutex is held only across state reads and writes, never for
// the duration of the wrapped call.
type CircuitBreaker struct {
	name    string
	config  Config
	timeout *Timeout

	mu            sync.Mutex
	state         State
	failures      int
	successes     int // consecutive successes while half-open
	lastFailure   time.Time
	lastSuccess   time.Time
	calls         int64
	callFailures  int64
	openSince     time.Time
	openTotal     time.Duration
	created       time.Time
}

// NewCircuitBreaker creates a circuit breaker for the named service.
func NewCircuitBreaker(name string, config Config) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 60 * time.Second
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 3
	}
	if config.ClassifiedKinds == nil {
		config.ClassifiedKinds = fault.Kinds(fault.KindConnection, fault.KindTimeout, fault.KindIO)
	}
	if config.CallTimeout == 0 {
		config.CallTimeout = 30 * time.Second
	}

	cb := &CircuitBreaker{
		name:    name,
		config:  config,
		state:   StateClosed,
		created: time.Now(),
	}
	if config.CallTimeout > 0 {
		cb.timeout = NewTimeout(TimeoutConfig{Timeout: config.CallTimeout, Service: name})
	}
	return cb
}

// Name returns the protected service name.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Call runs the operation through the circuit breaker.
//
// When the breaker is open the operation is never invoked and a
// *CircuitOpenError is returned. A classified failure is counted; an
// unclassified failure propagates without touching breaker state. Either way
// the original error is returned unchanged.
func (cb *CircuitBreaker) Call(ctx context.Context, op func(context.Context) error) error {
	if err := cb.admit(); err != nil {
		return err
	}

	var err error
	if cb.timeout != nil {
		err = cb.timeout.Execute(ctx, op)
	} else {
		err = op(ctx)
	}

	cb.record(err)
	return err
}

// State returns the effective circuit state.
//
// Reading the state is what moves an expired Open breaker to HalfOpen; there
// is no background timer. The transition resets the half-open success count.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.effectiveStateLocked(time.Now())
}

// Available reports whether a call would currently be admitted.
func (cb *CircuitBreaker) Available() bool {
	return cb.State() != StateOpen
}

// Reset forces the breaker closed and zeroes its counters. Administrative;
// the counters do not decay on their own.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	from := cb.state
	if from == StateOpen {
		cb.openTotal += now.Sub(cb.openSince)
	}
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0

	if from != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, StateClosed)
	}
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	if cb.effectiveStateLocked(now) == StateOpen {
		recoveryIn := cb.config.RecoveryTimeout - now.Sub(cb.lastFailure)
		if recoveryIn < 0 {
			recoveryIn = 0
		}
		return &CircuitOpenError{
			Service:    cb.name,
			Failures:   cb.failures,
			RecoveryIn: recoveryIn,
		}
	}

	cb.calls++
	return nil
}

func (cb *CircuitBreaker) record(err error) {
	if err == nil {
		cb.success()
		return
	}
	kind := fault.KindOf(err)
	// Caller cancellation is accounted like a timeout; the retry layer is
	// what keeps it from being retried.
	if kind == fault.KindCanceled || cb.config.ClassifiedKinds.Has(kind) {
		cb.failure()
	}
}

func (cb *CircuitBreaker) success() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	cb.lastSuccess = now

	if cb.state == StateHalfOpen {
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.transitionLocked(StateClosed, now)
			cb.failures = 0
			cb.successes = 0
		}
	}
	// A success while closed does not decay the failure count.
}

func (cb *CircuitBreaker) failure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	cb.failures++
	cb.callFailures++
	cb.lastFailure = now

	switch {
	case cb.state == StateHalfOpen:
		// A single failed probe reopens, independent of the threshold.
		cb.transitionLocked(StateOpen, now)
	case cb.state != StateOpen && cb.failures >= cb.config.FailureThreshold:
		cb.transitionLocked(StateOpen, now)
	}
}

// effectiveStateLocked computes the effective state at now, performing the
// timer-free Open -> HalfOpen transition when the recovery timeout elapsed.
func (cb *CircuitBreaker) effectiveStateLocked(now time.Time) State {
	if cb.state == StateOpen && now.Sub(cb.lastFailure) > cb.config.RecoveryTimeout {
		cb.transitionLocked(StateHalfOpen, now)
		cb.successes = 0
	}
	return cb.state
}

func (cb *CircuitBreaker) transitionLocked(to State, now time.Time) {
	from := cb.state
	if from == to {
		return
	}
	if from == StateOpen {
		cb.openTotal += now.Sub(cb.openSince)
	}
	if to == StateOpen {
		cb.openSince = now
	}
	cb.state = to

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}

// HealthStatus is a read-only snapshot of a breaker, intended for an
// operator-facing status endpoint.
type HealthStatus struct {
	Service     string
	State       State
	Failures    int
	Calls       int64
	SuccessRate float64 // fraction of invoked calls that did not fail classified
	LastFailure time.Time
	LastSuccess time.Time
	Uptime      float64 // percentage of lifetime not spent open
}

// Health returns a snapshot of the breaker's reliability accounting.
func (cb *CircuitBreaker) Health() HealthStatus {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	state := cb.effectiveStateLocked(now)

	successRate := 1.0
	if cb.calls > 0 {
		successRate = float64(cb.calls-cb.callFailures) / float64(cb.calls)
	}

	open := cb.openTotal
	if state == StateOpen {
		open += now.Sub(cb.openSince)
	}
	uptime := 100.0
	if lifetime := now.Sub(cb.created); lifetime > 0 {
		uptime = 100.0 * (1.0 - float64(open)/float64(lifetime))
	}

	return HealthStatus{
		Service:     cb.name,
		State:       state,
		Failures:    cb.failures,
		Calls:       cb.calls,
		SuccessRate: successRate,
		LastFailure: cb.lastFailure,
		LastSuccess: cb.lastSuccess,
		Uptime:      uptime,
	}
}
