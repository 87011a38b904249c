package provider

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps provider names to instances. It is owned by the composition
// root and injected into the dispatch layer; there is no package-level
// default registry.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	prefixes  map[string]string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		prefixes:  make(map[string]string),
	}
}

// Register adds a provider under its own name. Registering the same name
// twice is an error; provider lifecycle matches process lifecycle.
func (r *Registry) Register(p Provider) error {
	if p == nil {
		return errors.New("provider: cannot register nil provider")
	}
	name := p.Name()
	if name == "" {
		return errors.New("provider: cannot register unnamed provider")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider: %q already registered", name)
	}
	r.providers[name] = p
	return nil
}

// RegisterPrefix maps a model id prefix to a provider name, so ForModel can
// route "gpt-4o" to "openai" without an explicit per-model table.
func (r *Registry) RegisterPrefix(prefix, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; !exists {
		return fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	r.prefixes[prefix] = name
	return nil
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return p, nil
}

// ForModel returns the provider responsible for the given model id, by the
// longest matching registered prefix.
func (r *Registry) ForModel(model string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bestName string
	bestLen := -1
	for prefix, name := range r.prefixes {
		if strings.HasPrefix(model, prefix) && len(prefix) > bestLen {
			bestName, bestLen = name, len(prefix)
		}
	}
	if bestLen < 0 {
		return nil, fmt.Errorf("%w: no provider for model %q", ErrNotRegistered, model)
	}
	return r.providers[bestName], nil
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Providers returns the registered providers in name order.
func (r *Registry) Providers() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Provider, 0, len(names))
	for _, name := range names {
		out = append(out, r.providers[name])
	}
	return out
}
