package resilience

import (
	"context"
	"testing"
	"time"
)

func TestRegistry_AddAndGet(t *testing.T) {
	reg := NewRegistry()

	cb := reg.Add("primary-model", Config{FailureThreshold: 2, CallTimeout: NoCallTimeout})
	if cb == nil {
		t.Fatal("Add returned nil")
	}

	got, ok := reg.Get("primary-model")
	if !ok || got != cb {
		t.Error("Get should return the registered breaker")
	}

	if _, ok := reg.Get("unknown"); ok {
		t.Error("Get(unknown) should report missing")
	}
}

func TestRegistry_AddReplaces(t *testing.T) {
	reg := NewRegistry()

	first := reg.Add("svc", Config{CallTimeout: NoCallTimeout})
	second := reg.Add("svc", Config{CallTimeout: NoCallTimeout})

	got, _ := reg.Get("svc")
	if got == first || got != second {
		t.Error("Add with an existing name should replace the breaker")
	}
}

func TestRegistry_Available(t *testing.T) {
	reg := NewRegistry()
	reg.Add("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Hour,
		CallTimeout:      NoCallTimeout,
	})

	if !reg.Available("svc") {
		t.Error("fresh breaker should be available")
	}
	if !reg.Available("unguarded") {
		t.Error("unregistered service should be reported available")
	}

	cb, _ := reg.Get("svc")
	_ = cb.Call(context.Background(), func(ctx context.Context) error {
		return connErr("refused")
	})

	if reg.Available("svc") {
		t.Error("open breaker should report unavailable")
	}
}

func TestRegistry_Reset(t *testing.T) {
	reg := NewRegistry()
	cb := reg.Add("svc", Config{
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

	if !reg.Reset("svc") {
		t.Error("Reset(svc) should report the breaker existed")
	}
	if cb.State() != StateClosed {
		t.Errorf("state after reset = %v, want closed", cb.State())
	}
	if reg.Reset("unknown") {
		t.Error("Reset(unknown) should report missing")
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	reg.Add("gamma", Config{CallTimeout: NoCallTimeout})
	reg.Add("alpha", Config{CallTimeout: NoCallTimeout})
	reg.Add("beta", Config{CallTimeout: NoCallTimeout})

	names := reg.Names()
	want := []string{"alpha", "beta", "gamma"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestRegistry_Health(t *testing.T) {
	reg := NewRegistry()
	reg.Add("a", Config{CallTimeout: NoCallTimeout})
	cb := reg.Add("b", Config{FailureThreshold: 5, CallTimeout: NoCallTimeout})

	_ = cb.Call(context.Background(), func(ctx context.Context) error {
		return connErr("refused")
	})

	health := reg.Health()
	if len(health) != 2 {
		t.Fatalf("Health() has %d entries, want 2", len(health))
	}
	if health["a"].Failures != 0 {
		t.Errorf("a.Failures = %d, want 0", health["a"].Failures)
	}
	if health["b"].Failures != 1 {
		t.Errorf("b.Failures = %d, want 1", health["b"].Failures)
	}
}
