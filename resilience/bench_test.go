package resilience

import (
	"context"
	"testing"
	"time"
)

func BenchmarkCircuitBreaker_Call(b *testing.B) {
	cb := NewCircuitBreaker("bench", Config{CallTimeout: NoCallTimeout})
	op := func(ctx context.Context) error { return nil }
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Call(ctx, op)
	}
}

func BenchmarkCircuitBreaker_CallParallel(b *testing.B) {
	cb := NewCircuitBreaker("bench", Config{CallTimeout: NoCallTimeout})
	op := func(ctx context.Context) error { return nil }

	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			_ = cb.Call(ctx, op)
		}
	})
}

func BenchmarkBackoff_DelayFor(b *testing.B) {
	bo := Backoff{
		Base:       100 * time.Millisecond,
		Max:        30 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bo.DelayFor(i%10 + 1)
	}
}

func BenchmarkPacer_Allow(b *testing.B) {
	p := NewPacer(PacerConfig{RequestsPerMinute: 1e9, Burst: 1000})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Allow()
	}
}

func BenchmarkBulkhead_Execute(b *testing.B) {
	bh := NewBulkhead(BulkheadConfig{MaxInFlight: 64})
	op := func(ctx context.Context) error { return nil }
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bh.Execute(ctx, op)
	}
}
