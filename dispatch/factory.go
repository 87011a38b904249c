package dispatch

import (
	"context"
	"fmt"

	"github.com/jonwraymond/modelops/contextcache"
	"github.com/jonwraymond/modelops/observe"
	"github.com/jonwraymond/modelops/resilience"
)

// Instruction is a resolved model assignment for a profile.
type Instruction struct {
	// Model is the backend model identifier, which doubles as the circuit
	// breaker service name.
	Model string

	// InstructionID correlates the resolution for monitoring. Opaque.
	InstructionID string
}

// InstructionResolver maps an execution profile to a model assignment. The
// production implementation lives outside this module; dispatch only needs
// the two resolution paths.
type InstructionResolver interface {
	// Resolve returns the preferred assignment for the profile.
	Resolve(ctx context.Context, profile Profile) (Instruction, error)

	// ResolveFallback returns the secondary assignment used when the
	// preferred backend is unavailable.
	ResolveFallback(ctx context.Context, profile Profile) (Instruction, error)
}

// Result is a usable provider handle.
type Result struct {
	// Model is the selected backend model identifier.
	Model string

	// InstructionID is the correlation id from the resolver.
	InstructionID string

	// Fallback reports whether the secondary assignment was selected.
	Fallback bool

	// CachedContext is a reusable context blob, when one was cached for
	// the instruction. Best effort; empty on miss.
	CachedContext string
}

// FactoryConfig configures the dispatch factory.
type FactoryConfig struct {
	// Resolver maps profiles to model assignments. Required.
	Resolver InstructionResolver

	// Breakers is the per-service circuit breaker registry. Required.
	Breakers *resilience.Registry

	// Context supplies cached context blobs. Optional.
	Context contextcache.Cache

	// Logger reports failovers. Optional.
	Logger observe.Logger
}

// Factory resolves tasks to currently usable backends. It holds no mutable
// state of its own; all methods are safe for concurrent use.
type Factory struct {
	config FactoryConfig
}

// NewFactory creates a dispatch factory.
func NewFactory(config FactoryConfig) (*Factory, error) {
	if config.Resolver == nil {
		return nil, fmt.Errorf("dispatch: resolver is required")
	}
	if config.Breakers == nil {
		return nil, fmt.Errorf("dispatch: breaker registry is required")
	}
	return &Factory{config: config}, nil
}

// Resolve translates a task category into a provider handle, falling back
// to the secondary assignment when the primary backend's breaker reports
// unavailable. Resolution failures are always raised, never defaulted to an
// empty handle.
func (f *Factory) Resolve(ctx context.Context, task string) (*Result, error) {
	profile := ProfileFor(task)

	primary, err := f.config.Resolver.Resolve(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("dispatch: resolving task %q: %w", task, err)
	}

	if f.config.Breakers.Available(primary.Model) {
		return f.result(ctx, primary, false), nil
	}

	fallback, err := f.config.Resolver.ResolveFallback(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("dispatch: resolving fallback for task %q: %w", task, err)
	}

	if !f.config.Breakers.Available(fallback.Model) {
		return nil, &ModelUnavailableError{
			Model:  fallback.Model,
			Reason: fmt.Sprintf("primary %q and fallback %q circuit breakers are open", primary.Model, fallback.Model),
		}
	}

	if f.config.Logger != nil {
		f.config.Logger.Warn(ctx, "primary model unavailable, using fallback",
			observe.Field{Key: "task", Value: task},
			observe.Field{Key: "primary", Value: primary.Model},
			observe.Field{Key: "fallback", Value: fallback.Model},
		)
	}
	return f.result(ctx, fallback, true), nil
}

// AvailableProviders returns the names of services whose breakers would
// currently admit a call. Pure read over breaker state; no I/O.
func (f *Factory) AvailableProviders() []string {
	var out []string
	for _, name := range f.config.Breakers.Names() {
		if f.config.Breakers.Available(name) {
			out = append(out, name)
		}
	}
	return out
}

// result builds the handle and attaches cached context. Attachment has no
// failure mode: a cache miss leaves the field empty.
func (f *Factory) result(ctx context.Context, instr Instruction, fallback bool) *Result {
	r := &Result{
		Model:         instr.Model,
		InstructionID: instr.InstructionID,
		Fallback:      fallback,
	}
	if f.config.Context != nil && instr.InstructionID != "" {
		if blob, ok := f.config.Context.Get(ctx, instr.InstructionID); ok {
			r.CachedContext = blob
		}
	}
	return r
}
