package contextcache

import "time"

// Policy configures context retention.
type Policy struct {
	// DefaultTTL is the TTL to use when none is specified.
	// If zero, caching is disabled by default.
	DefaultTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Override TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// DefaultPolicy returns the default retention policy.
// DefaultTTL: 15 minutes, MaxTTL: 2 hours.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: 15 * time.Minute,
		MaxTTL:     2 * time.Hour,
	}
}

// NoCachePolicy returns a policy that disables retention entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if retention is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}
