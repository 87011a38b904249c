package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/modelops/fault"
)

func connErr(msg string) error {
	return fault.New(fault.KindConnection, "test-model", msg)
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker("svc", Config{})

	if cb.config.FailureThreshold != 5 {
		t.Errorf("FailureThreshold = %d, want 5", cb.config.FailureThreshold)
	}
	if cb.config.RecoveryTimeout != 60*time.Second {
		t.Errorf("RecoveryTimeout = %v, want 60s", cb.config.RecoveryTimeout)
	}
	if cb.config.SuccessThreshold != 3 {
		t.Errorf("SuccessThreshold = %d, want 3", cb.config.SuccessThreshold)
	}
	if cb.config.CallTimeout != 30*time.Second {
		t.Errorf("CallTimeout = %v, want 30s", cb.config.CallTimeout)
	}
	if !cb.config.ClassifiedKinds.Has(fault.KindConnection) ||
		!cb.config.ClassifiedKinds.Has(fault.KindTimeout) ||
		!cb.config.ClassifiedKinds.Has(fault.KindIO) {
		t.Error("default classified kinds should include connection, timeout, io")
	}
	if cb.State() != StateClosed {
		t.Errorf("initial state = %v, want closed", cb.State())
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("svc", Config{
		FailureThreshold: 3,
		RecoveryTimeout:  time.Minute,
		CallTimeout:      NoCallTimeout,
	})

	invocations := 0
	op := func(ctx context.Context) error {
		invocations++
		return connErr("refused")
	}

	// k failures open the circuit.
	for i := 0; i < 3; i++ {
		if err := cb.Call(context.Background(), op); fault.KindOf(err) != fault.KindConnection {
			t.Fatalf("call %d: unexpected error %v", i+1, err)
		}
	}
	if cb.State() != StateOpen {
		t.Fatalf("state after 3 failures = %v, want open", cb.State())
	}

	// The (k+1)-th call never invokes the operation.
	err := cb.Call(context.Background(), op)
	var openErr *CircuitOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("call while open = %v, want CircuitOpenError", err)
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Error("CircuitOpenError should match ErrCircuitOpen")
	}
	if openErr.Service != "svc" {
		t.Errorf("Service = %q, want svc", openErr.Service)
	}
	if openErr.Failures != 3 {
		t.Errorf("Failures = %d, want 3", openErr.Failures)
	}
	if openErr.RecoveryIn <= 0 || openErr.RecoveryIn > time.Minute {
		t.Errorf("RecoveryIn = %v, want in (0, 1m]", openErr.RecoveryIn)
	}
	if invocations != 3 {
		t.Errorf("invocations = %d, want 3", invocations)
	}
}

func TestCircuitBreaker_OpenBlocksConcurrentCallers(t *testing.T) {
	cb := NewCircuitBreaker("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Hour,
		CallTimeout:      NoCallTimeout,
	})

	var mu sync.Mutex
	invocations := 0
	op := func(ctx context.Context) error {
		mu.Lock()
		invocations++
		mu.Unlock()
		return connErr("refused")
	}

	_ = cb.Call(context.Background(), op)
	if cb.State() != StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := cb.Call(context.Background(), op)
			if !errors.Is(err, ErrCircuitOpen) {
				t.Errorf("concurrent call = %v, want ErrCircuitOpen", err)
			}
		}()
	}
	wg.Wait()

	if invocations != 1 {
		t.Errorf("invocations = %d, want 1", invocations)
	}
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	cb := NewCircuitBreaker("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  20 * time.Millisecond,
		CallTimeout:      NoCallTimeout,
	})

	_ = cb.Call(context.Background(), func(ctx context.Context) error {
		return connErr("refused")
	})
	if cb.State() != StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}

	time.Sleep(30 * time.Millisecond)

	// The read itself performs the transition.
	if cb.State() != StateHalfOpen {
		t.Fatalf("state = %v, want half-open", cb.State())
	}

	invoked := false
	err := cb.Call(context.Background(), func(ctx context.Context) error {
		invoked = true
		return nil
	})
	if err != nil {
		t.Errorf("probe call error = %v", err)
	}
	if !invoked {
		t.Error("probe call should invoke the operation")
	}
}

func TestCircuitBreaker_ClosesAfterSuccessThreshold(t *testing.T) {
	cb := NewCircuitBreaker("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  10 * time.Millisecond,
		SuccessThreshold: 2,
		CallTimeout:      NoCallTimeout,
	})

	_ = cb.Call(context.Background(), func(ctx context.Context) error {
		return connErr("refused")
	})
	time.Sleep(20 * time.Millisecond)

	ok := func(ctx context.Context) error { return nil }

	_ = cb.Call(context.Background(), ok)
	if cb.State() != StateHalfOpen {
		t.Fatalf("state after 1 success = %v, want half-open", cb.State())
	}

	_ = cb.Call(context.Background(), ok)
	if cb.State() != StateClosed {
		t.Fatalf("state after 2 successes = %v, want closed", cb.State())
	}
	if got := cb.Health().Failures; got != 0 {
		t.Errorf("failures after close = %d, want 0", got)
	}
}

func TestCircuitBreaker_SingleProbeFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("svc", Config{
		FailureThreshold: 5,
		RecoveryTimeout:  10 * time.Millisecond,
		CallTimeout:      NoCallTimeout,
	})

	// Drive to open.
	for i := 0; i < 5; i++ {
		_ = cb.Call(context.Background(), func(ctx context.Context) error {
			return connErr("refused")
		})
	}
	time.Sleep(20 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Fatalf("state = %v, want half-open", cb.State())
	}

	// One failure in half-open reopens regardless of threshold.
	_ = cb.Call(context.Background(), func(ctx context.Context) error {
		return connErr("still down")
	})
	if cb.State() != StateOpen {
		t.Errorf("state = %v, want open", cb.State())
	}
}

func TestCircuitBreaker_UnclassifiedErrorsDoNotCount(t *testing.T) {
	cb := NewCircuitBreaker("svc", Config{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Minute,
		CallTimeout:      NoCallTimeout,
	})

	badRequest := fault.New(fault.KindInvalid, "test-model", "prompt rejected")

	for i := 0; i < 5; i++ {
		err := cb.Call(context.Background(), func(ctx context.Context) error {
			return badRequest
		})
		if !errors.Is(err, badRequest) {
			t.Fatalf("error = %v, want propagated original", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("state = %v, want closed", cb.State())
	}
	if got := cb.Health().Failures; got != 0 {
		t.Errorf("failures = %d, want 0", got)
	}
}

func TestCircuitBreaker_FailureCountIsCumulativeWhileClosed(t *testing.T) {
	cb := NewCircuitBreaker("svc", Config{
		FailureThreshold: 3,
		RecoveryTimeout:  time.Minute,
		CallTimeout:      NoCallTimeout,
	})

	fail := func(ctx context.Context) error { return connErr("refused") }
	ok := func(ctx context.Context) error { return nil }

	// Successes between failures do not decay the count.
	_ = cb.Call(context.Background(), fail)
	_ = cb.Call(context.Background(), ok)
	_ = cb.Call(context.Background(), fail)
	_ = cb.Call(context.Background(), ok)
	_ = cb.Call(context.Background(), fail)

	if cb.State() != StateOpen {
		t.Errorf("state = %v, want open (cumulative count reached threshold)", cb.State())
	}
}

func TestCircuitBreaker_CallTimeoutCountsAsFailure(t *testing.T) {
	cb := NewCircuitBreaker("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Minute,
		CallTimeout:      10 * time.Millisecond,
	})

	err := cb.Call(context.Background(), func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if !errors.Is(err, ErrCallTimeout) {
		t.Fatalf("error = %v, want ErrCallTimeout", err)
	}
	if fault.KindOf(err) != fault.KindTimeout {
		t.Errorf("kind = %v, want timeout", fault.KindOf(err))
	}
	if cb.State() != StateOpen {
		t.Errorf("state = %v, want open", cb.State())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Hour,
		CallTimeout:      NoCallTimeout,
	})

	_ = cb.Call(context.Background(), func(ctx context.Context) error {
		return connErr("refused")
	})
	if cb.State() != StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}

	cb.Reset()

	if cb.State() != StateClosed {
		t.Errorf("state after reset = %v, want closed", cb.State())
	}
	if got := cb.Health().Failures; got != 0 {
		t.Errorf("failures after reset = %d, want 0", got)
	}
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var mu sync.Mutex
	var transitions []struct{ from, to State }

	cb := NewCircuitBreaker("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  10 * time.Millisecond,
		SuccessThreshold: 1,
		CallTimeout:      NoCallTimeout,
		OnStateChange: func(from, to State) {
			mu.Lock()
			transitions = append(transitions, struct{ from, to State }{from, to})
			mu.Unlock()
		},
	})

	_ = cb.Call(context.Background(), func(ctx context.Context) error {
		return connErr("refused")
	})
	time.Sleep(20 * time.Millisecond)
	_ = cb.State()
	_ = cb.Call(context.Background(), func(ctx context.Context) error { return nil })

	mu.Lock()
	defer mu.Unlock()

	want := []struct{ from, to State }{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i, tr := range want {
		if transitions[i] != tr {
			t.Errorf("transition %d = %v, want %v", i, transitions[i], tr)
		}
	}
}

func TestCircuitBreaker_Health(t *testing.T) {
	cb := NewCircuitBreaker("primary-model", Config{
		FailureThreshold: 5,
		CallTimeout:      NoCallTimeout,
	})

	_ = cb.Call(context.Background(), func(ctx context.Context) error { return nil })
	_ = cb.Call(context.Background(), func(ctx context.Context) error { return connErr("refused") })

	h := cb.Health()

	if h.Service != "primary-model" {
		t.Errorf("Service = %q, want primary-model", h.Service)
	}
	if h.State != StateClosed {
		t.Errorf("State = %v, want closed", h.State)
	}
	if h.Failures != 1 {
		t.Errorf("Failures = %d, want 1", h.Failures)
	}
	if h.Calls != 2 {
		t.Errorf("Calls = %d, want 2", h.Calls)
	}
	if h.SuccessRate != 0.5 {
		t.Errorf("SuccessRate = %f, want 0.5", h.SuccessRate)
	}
	if h.LastFailure.IsZero() {
		t.Error("LastFailure should be set")
	}
	if h.Uptime <= 0 || h.Uptime > 100 {
		t.Errorf("Uptime = %f, want in (0, 100]", h.Uptime)
	}
}

// Recovery scenario: threshold 3, recovery 100ms, two successes to close.
func TestCircuitBreaker_RecoveryScenario(t *testing.T) {
	cb := NewCircuitBreaker("svc", Config{
		FailureThreshold: 3,
		RecoveryTimeout:  100 * time.Millisecond,
		SuccessThreshold: 2,
		CallTimeout:      NoCallTimeout,
	})

	for i := 0; i < 3; i++ {
		_ = cb.Call(context.Background(), func(ctx context.Context) error {
			return connErr("down")
		})
	}
	if cb.State() != StateOpen {
		t.Fatalf("state after failures = %v, want open", cb.State())
	}

	time.Sleep(150 * time.Millisecond)

	if err := cb.Call(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("success 1: %v", err)
	}
	if cb.State() != StateHalfOpen {
		t.Fatalf("state after success 1 = %v, want half-open", cb.State())
	}

	if err := cb.Call(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("success 2: %v", err)
	}
	if cb.State() != StateClosed {
		t.Fatalf("state after success 2 = %v, want closed", cb.State())
	}
	if got := cb.Health().Failures; got != 0 {
		t.Errorf("failures = %d, want 0", got)
	}
}

func TestCircuitBreaker_ConcurrentCallsDoNotRace(t *testing.T) {
	cb := NewCircuitBreaker("svc", Config{
		FailureThreshold: 1000,
		RecoveryTimeout:  time.Minute,
		CallTimeout:      NoCallTimeout,
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = cb.Call(context.Background(), func(ctx context.Context) error {
				if n%2 == 0 {
					return connErr("flaky")
				}
				return nil
			})
			_ = cb.State()
			_ = cb.Health()
		}(i)
	}
	wg.Wait()

	h := cb.Health()
	if h.Calls != 100 {
		t.Errorf("Calls = %d, want 100", h.Calls)
	}
	if h.Failures != 50 {
		t.Errorf("Failures = %d, want 50", h.Failures)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
