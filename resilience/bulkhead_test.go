package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewBulkhead_Defaults(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{})
	if b.config.MaxInFlight != 8 {
		t.Errorf("MaxInFlight = %d, want 8", b.config.MaxInFlight)
	}
}

func TestBulkhead_AcquireRelease(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxInFlight: 2})

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire 1 = %v", err)
	}
	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire 2 = %v", err)
	}
	if err := b.Acquire(context.Background()); !errors.Is(err, ErrBulkheadFull) {
		t.Fatalf("Acquire 3 = %v, want ErrBulkheadFull", err)
	}

	b.Release()
	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire after release = %v", err)
	}
}

func TestBulkhead_ExecuteCapsConcurrency(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxInFlight: 3})

	var mu sync.Mutex
	inFlight, peak := 0, 0
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- b.Execute(context.Background(), func(ctx context.Context) error {
				mu.Lock()
				inFlight++
				if inFlight > peak {
					peak = inFlight
				}
				mu.Unlock()
				<-release
				mu.Lock()
				inFlight--
				mu.Unlock()
				return nil
			})
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	admitted, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, ErrBulkheadFull):
			rejected++
		default:
			t.Errorf("unexpected error %v", err)
		}
	}

	if peak > 3 {
		t.Errorf("peak concurrency = %d, want at most 3", peak)
	}
	if admitted != 3 || rejected != 7 {
		t.Errorf("admitted/rejected = %d/%d, want 3/7", admitted, rejected)
	}
}

func TestBulkhead_WaitForSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxInFlight: 1, MaxWait: time.Second})

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		b.Release()
	}()

	if err := b.Acquire(context.Background()); err != nil {
		t.Errorf("Acquire with wait = %v, want nil once the slot frees", err)
	}
}

func TestBulkhead_AcquireHonorsContext(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxInFlight: 1, MaxWait: time.Minute})

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := b.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire = %v, want context.DeadlineExceeded", err)
	}
}

func TestBulkhead_Metrics(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxInFlight: 2})

	_ = b.Acquire(context.Background())
	_ = b.Acquire(context.Background())
	_ = b.Acquire(context.Background()) // rejected

	m := b.Metrics()
	if m.InFlight != 2 {
		t.Errorf("InFlight = %d, want 2", m.InFlight)
	}
	if m.Peak != 2 {
		t.Errorf("Peak = %d, want 2", m.Peak)
	}
	if m.Available != 0 {
		t.Errorf("Available = %d, want 0", m.Available)
	}
	if m.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", m.Rejected)
	}

	b.Release()
	m = b.Metrics()
	if m.InFlight != 1 || m.Available != 1 {
		t.Errorf("after release InFlight/Available = %d/%d, want 1/1", m.InFlight, m.Available)
	}
}
