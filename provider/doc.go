// Package provider abstracts AI model backends behind a capability
// interface.
//
// A Provider exposes synchronous generation, streaming generation, and an
// availability probe. The Registry maps provider names to instances so the
// dispatch layer can select backends without knowing their concrete types.
// Backend-specific error details are normalized to fault kinds at the
// provider boundary; callers never inspect SDK error types.
package provider
