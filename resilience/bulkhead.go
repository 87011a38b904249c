package resilience

import (
	"context"
	"sync"
	"time"
)

// BulkheadConfig configures concurrent call isolation for one backend.
type BulkheadConfig struct {
	// MaxInFlight is the maximum number of concurrent generations.
	// Default: 8
	MaxInFlight int

	// MaxWait is the maximum time to wait for a slot.
	// Default: 0 (no waiting, fail immediately)
	MaxWait time.Duration
}

// Bulkhead caps in-flight generations so one slow backend cannot absorb
// every worker in the process.
type Bulkhead struct {
	config BulkheadConfig
	slots  chan struct{}

	mu       sync.Mutex
	inFlight int
	peak     int
	rejected int64
}

// NewBulkhead creates a bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxInFlight <= 0 {
		config.MaxInFlight = 8
	}

	return &Bulkhead{
		config: config,
		slots:  make(chan struct{}, config.MaxInFlight),
	}
}

// Acquire claims a slot, returning ErrBulkheadFull when none is available
// within MaxWait.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		b.claimed()
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		b.reject()
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.slots <- struct{}{}:
		b.claimed()
		return nil
	case <-timer.C:
		b.reject()
		return ErrBulkheadFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot claimed by Acquire.
func (b *Bulkhead) Release() {
	select {
	case <-b.slots:
		b.mu.Lock()
		b.inFlight--
		b.mu.Unlock()
	default:
	}
}

// Execute runs the operation within the bulkhead.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()

	return op(ctx)
}

// BulkheadMetrics contains bulkhead statistics.
type BulkheadMetrics struct {
	InFlight    int
	Peak        int
	Available   int
	MaxInFlight int
	Rejected    int64
}

// Metrics returns current bulkhead statistics.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BulkheadMetrics{
		InFlight:    b.inFlight,
		Peak:        b.peak,
		Available:   b.config.MaxInFlight - b.inFlight,
		MaxInFlight: b.config.MaxInFlight,
		Rejected:    b.rejected,
	}
}

func (b *Bulkhead) claimed() {
	b.mu.Lock()
	b.inFlight++
	if b.inFlight > b.peak {
		b.peak = b.inFlight
	}
	b.mu.Unlock()
}

func (b *Bulkhead) reject() {
	b.mu.Lock()
	b.rejected++
	b.mu.Unlock()
}
