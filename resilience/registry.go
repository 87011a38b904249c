package resilience

import (
	"sort"
	"sync"
)

// Registry owns the process-wide set of circuit breakers, one per named
// external service. It is created once at the composition root and injected
// into whatever routes calls to the services it guards; there are no
// module-level breaker globals.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*CircuitBreaker
}

// NewRegistry creates an empty breaker registry.
func NewRegistry() *Registry {
	return &Registry{breakers: make(map[string]*CircuitBreaker)}
}

// Add creates and registers a breaker for the named service. Adding a name
// twice replaces the previous breaker; lifecycle is process start to process
// exit, so in practice this happens once per service.
func (r *Registry) Add(name string, config Config) *CircuitBreaker {
	cb := NewCircuitBreaker(name, config)

	r.mu.Lock()
	r.breakers[name] = cb
	r.mu.Unlock()

	return cb
}

// Get returns the breaker for the named service.
func (r *Registry) Get(name string) (*CircuitBreaker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cb, ok := r.breakers[name]
	return cb, ok
}

// Available reports whether the named service would currently admit a call.
// A service without a registered breaker is unguarded and reported available.
func (r *Registry) Available(name string) bool {
	cb, ok := r.Get(name)
	if !ok {
		return true
	}
	return cb.Available()
}

// Reset forces the named breaker closed and zeroes its counters. Returns
// whether a breaker for the name existed.
func (r *Registry) Reset(name string) bool {
	cb, ok := r.Get(name)
	if !ok {
		return false
	}
	cb.Reset()
	return true
}

// Names returns the registered service names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.breakers))
	for name := range r.breakers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Health returns a status snapshot for every registered breaker.
func (r *Registry) Health() map[string]HealthStatus {
	r.mu.RLock()
	breakers := make([]*CircuitBreaker, 0, len(r.breakers))
	for _, cb := range r.breakers {
		breakers = append(breakers, cb)
	}
	r.mu.RUnlock()

	out := make(map[string]HealthStatus, len(breakers))
	for _, cb := range breakers {
		out[cb.Name()] = cb.Health()
	}
	return out
}
