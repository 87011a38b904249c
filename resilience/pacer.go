package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/modelops/fault"
)

// PacerConfig configures request pacing against a provider's rate limits.
type PacerConfig struct {
	// RequestsPerMinute is the sustained request rate. Model APIs publish
	// their limits per minute, so the pacer does too.
	// Default: 60
	RequestsPerMinute float64

	// Burst is the number of requests that may be issued back to back.
	// Default: 5
	Burst int

	// WaitOnLimit waits for capacity instead of failing immediately.
	WaitOnLimit bool

	// MaxWait is the longest a paced request will wait for capacity.
	// Default: 2 seconds
	MaxWait time.Duration

	// Service labels pacing rejections with the provider name.
	Service string
}

// Pacer is a token bucket that spaces requests to one provider.
type Pacer struct {
	config PacerConfig

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewPacer creates a request pacer.
func NewPacer(config PacerConfig) *Pacer {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}
	if config.Burst <= 0 {
		config.Burst = 5
	}
	if config.MaxWait <= 0 {
		config.MaxWait = 2 * time.Second
	}

	return &Pacer{
		config:     config,
		tokens:     float64(config.Burst),
		lastRefill: time.Now(),
	}
}

// Allow reports whether a request may be issued now, consuming a token if so.
func (p *Pacer) Allow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.refillLocked()
	if p.tokens >= 1 {
		p.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available, MaxWait elapses, or the context is
// canceled.
func (p *Pacer) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if p.Allow() {
		return nil
	}

	p.mu.Lock()
	needed := 1 - p.tokens
	perSecond := p.config.RequestsPerMinute / 60
	waitTime := time.Duration(needed / perSecond * float64(time.Second))
	p.mu.Unlock()

	if waitTime > p.config.MaxWait {
		waitTime = p.config.MaxWait
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(waitTime):
		if p.Allow() {
			return nil
		}
		return fault.Wrap(fault.KindRateLimit, p.config.Service, ErrRateLimited)
	}
}

// Execute runs the operation if the pacer admits it.
func (p *Pacer) Execute(ctx context.Context, op func(context.Context) error) error {
	if p.config.WaitOnLimit {
		if err := p.Wait(ctx); err != nil {
			return err
		}
	} else if !p.Allow() {
		return fault.Wrap(fault.KindRateLimit, p.config.Service, ErrRateLimited)
	}

	return op(ctx)
}

// Tokens returns the currently available capacity.
func (p *Pacer) Tokens() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refillLocked()
	return p.tokens
}

func (p *Pacer) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(p.lastRefill)
	p.lastRefill = now

	p.tokens += elapsed.Seconds() * p.config.RequestsPerMinute / 60
	if p.tokens > float64(p.config.Burst) {
		p.tokens = float64(p.config.Burst)
	}
}
