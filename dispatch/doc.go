// Package dispatch routes logical tasks to concrete model backends.
//
// The Factory translates a task category into an execution profile, asks an
// instruction resolver for the model that serves the profile, and consults
// circuit breaker state before handing the model out. When the primary
// backend's breaker is open it falls back to a secondary resolution; when
// both are down resolution fails with a ModelUnavailableError. Dispatch
// itself is never retried; retry applies to the use of the resolved handle.
package dispatch
