package provider

import "errors"

// Sentinel errors for provider operations.
var (
	// ErrNotImplemented is returned by declared providers whose backend
	// integration has not been built.
	ErrNotImplemented = errors.New("provider: not implemented")

	// ErrNotRegistered is returned when a named provider is not in the
	// registry.
	ErrNotRegistered = errors.New("provider: not registered")

	// ErrEmptyCompletion is returned when the backend responds without
	// any choices.
	ErrEmptyCompletion = errors.New("provider: backend returned no completion")
)
