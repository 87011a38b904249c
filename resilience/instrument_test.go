package resilience

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordedTransition struct {
	service, from, to string
}

type transitionRecorder struct {
	mu          sync.Mutex
	transitions []recordedTransition
}

func (r *transitionRecorder) RecordCall(ctx context.Context, provider, model string, elapsed time.Duration, err error) {
}

func (r *transitionRecorder) RecordBreakerTransition(ctx context.Context, service, from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, recordedTransition{service, from, to})
}

// TestInstrumentBreaker verifies state transitions reach the metrics sink.
func TestInstrumentBreaker(t *testing.T) {
	rec := &transitionRecorder{}

	cb := NewCircuitBreaker("gpt-4o", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Minute,
		CallTimeout:      NoCallTimeout,
		OnStateChange:    InstrumentBreaker("gpt-4o", rec),
	})

	_ = cb.Call(context.Background(), func(ctx context.Context) error {
		return connErr("refused")
	})

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.transitions) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(rec.transitions))
	}
	got := rec.transitions[0]
	if got.service != "gpt-4o" || got.from != "closed" || got.to != "open" {
		t.Errorf("unexpected transition recorded: %+v", got)
	}
}
