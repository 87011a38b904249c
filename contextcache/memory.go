package contextcache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-memory context store.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	policy  Policy
}

type entry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory context store with the given policy.
func NewMemoryCache(policy Policy) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*entry),
		policy:  policy,
	}
}

// Get retrieves a context blob. Returns ("", false) on miss or expiry.
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if time.Now().After(e.expiresAt) {
		// Expired, clean up lazily.
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}

	return e.value, true
}

// Put stores a context blob. The policy supplies the default TTL and clamps
// oversized overrides; a policy with retention disabled makes Put a no-op.
func (c *MemoryCache) Put(_ context.Context, key, value string, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	ttl = c.policy.EffectiveTTL(ttl)
	if ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	c.entries[key] = &entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()

	return nil
}

// Delete removes a blob. Idempotent, no error on miss.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including not-yet-collected
// expired ones.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ Cache = (*MemoryCache)(nil)
