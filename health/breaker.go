package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/modelops/resilience"
)

// BreakerChecker reports the health of the circuit breakers in a registry.
// An open breaker makes the check unhealthy, a half-open breaker degrades it,
// and an empty registry is healthy.
type BreakerChecker struct {
	registry *resilience.Registry
}

// NewBreakerChecker creates a checker over the given breaker registry.
func NewBreakerChecker(registry *resilience.Registry) *BreakerChecker {
	return &BreakerChecker{registry: registry}
}

// Name returns the name of this checker.
func (b *BreakerChecker) Name() string {
	return "breakers"
}

// Check inspects every breaker's state snapshot.
func (b *BreakerChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	statuses := b.registry.Health()
	if len(statuses) == 0 {
		return Healthy("no breakers registered")
	}

	details := make(map[string]any, len(statuses))
	var open, probing []string

	for service, status := range statuses {
		details[service] = map[string]any{
			"state":        status.State.String(),
			"failures":     status.Failures,
			"calls":        status.Calls,
			"success_rate": status.SuccessRate,
			"uptime_pct":   status.Uptime,
		}

		switch status.State {
		case resilience.StateOpen:
			open = append(open, service)
		case resilience.StateHalfOpen:
			probing = append(probing, service)
		}
	}

	switch {
	case len(open) > 0:
		result := Unhealthy(fmt.Sprintf("%d of %d breakers open", len(open), len(statuses)), nil)
		return result.WithDetails(details)
	case len(probing) > 0:
		result := Degraded(fmt.Sprintf("%d of %d breakers probing recovery", len(probing), len(statuses)))
		return result.WithDetails(details)
	default:
		result := Healthy(fmt.Sprintf("all %d breakers closed", len(statuses)))
		return result.WithDetails(details)
	}
}
