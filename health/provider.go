package health

import (
	"context"

	"github.com/jonwraymond/modelops/provider"
)

// ProviderChecker reports whether a model provider responds to availability
// probes. The probe cost is bounded by the provider's own probe timeout, so
// this checker is safe to run on every readiness poll.
type ProviderChecker struct {
	provider provider.Provider
}

// NewProviderChecker creates a checker over the given provider.
func NewProviderChecker(p provider.Provider) *ProviderChecker {
	return &ProviderChecker{provider: p}
}

// Name returns the name of this checker.
func (c *ProviderChecker) Name() string {
	return "provider." + c.provider.Name()
}

// Check probes the provider's upstream API.
func (c *ProviderChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	if !c.provider.Available(ctx) {
		return Unhealthy("provider unreachable", ErrCheckFailed).WithDetails(map[string]any{
			"provider": c.provider.Name(),
		})
	}

	return Healthy("provider reachable").WithDetails(map[string]any{
		"provider": c.provider.Name(),
	})
}
