// Package health provides health checking primitives for model dispatch.
//
// This package implements a generic health checking framework used to monitor
// the components of a model serving system: circuit breakers, provider
// availability, and process-level resources. It provides interfaces for
// defining health checks, aggregating results from multiple checkers, and
// exposing health status via HTTP endpoints.
//
// # Core Concepts
//
// A Checker is any component that can report its health status. The Status
// type represents the health state: Healthy, Degraded, or Unhealthy.
//
// # Basic Usage
//
//	// Create a breaker checker over the dispatch registry
//	breakerCheck := health.NewBreakerChecker(registry)
//
//	// Check health
//	result := breakerCheck.Check(ctx)
//	if result.Status == health.StatusUnhealthy {
//	    log.Printf("Breakers open: %s", result.Message)
//	}
//
// # Aggregating Health Checks
//
// Use Aggregator to combine multiple health checks into a single composite check:
//
//	agg := health.NewAggregator()
//	agg.Register("breakers", health.NewBreakerChecker(registry))
//	agg.Register("provider.openai", health.NewProviderChecker(openaiProvider))
//	agg.Register("memory", memChecker)
//
//	// Check all components
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP Endpoints
//
// The package provides HTTP handlers for common health check patterns:
//
//	// Liveness probe (for Kubernetes)
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Readiness probe with component checks
//	http.Handle("/readyz", health.ReadinessHandler(aggregator))
//
//	// Detailed health status
//	http.Handle("/health", health.DetailedHandler(aggregator))
package health
