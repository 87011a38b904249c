package resilience

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff computes retry delays. It is pure: no state, no I/O.
type Backoff struct {
	// Base is the delay before the first retry.
	Base time.Duration

	// Max caps the computed delay before jitter.
	Max time.Duration

	// Multiplier is the exponential growth factor between attempts.
	Multiplier float64

	// Jitter perturbs each delay by a uniform offset in [-25%, +25%] to
	// avoid synchronized retry storms.
	Jitter bool
}

// DelayFor returns the delay after the given failed attempt.
//
// Attempts are 1-based: DelayFor(1) is the delay between the first and
// second attempt. The undithered delay is min(Base * Multiplier^(n-1), Max);
// with jitter enabled the result lands in [0.75d, 1.25d], clamped to be
// non-negative.
func (b Backoff) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	d := float64(b.Base) * math.Pow(b.Multiplier, float64(attempt-1))
	if b.Max > 0 && d > float64(b.Max) {
		d = float64(b.Max)
	}

	if b.Jitter && d > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		d += (rand.Float64() - 0.5) * 0.5 * d
	}

	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
