package dispatch

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable is returned when neither the primary nor the fallback
// backend can take the request.
var ErrModelUnavailable = errors.New("dispatch: no model available")

// ModelUnavailableError reports a failed resolution. Terminal for this
// attempt; the caller decides whether to surface or degrade.
type ModelUnavailableError struct {
	// Model is the last model considered before giving up.
	Model string

	// Reason describes why resolution failed.
	Reason string
}

// Error implements the error interface.
func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("dispatch: model %q unavailable: %s", e.Model, e.Reason)
}

// Is reports whether target is ErrModelUnavailable.
func (e *ModelUnavailableError) Is(target error) bool {
	return target == ErrModelUnavailable
}
