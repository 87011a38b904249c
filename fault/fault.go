package fault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
)

// Kind classifies a failure mode of a model backend call.
type Kind int

const (
	// KindUnknown is an unclassified failure.
	KindUnknown Kind = iota
	// KindConnection is a network-level connection failure.
	KindConnection
	// KindTimeout is an elapsed deadline, either local or remote.
	KindTimeout
	// KindIO is an OS-level I/O failure.
	KindIO
	// KindRateLimit is a backend-reported rate or quota rejection.
	KindRateLimit
	// KindAuth is a credential or permission rejection.
	KindAuth
	// KindInvalid is a malformed or rejected request.
	KindInvalid
	// KindCanceled is a caller-initiated cancellation.
	KindCanceled
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindIO:
		return "io"
	case KindRateLimit:
		return "rate_limit"
	case KindAuth:
		return "auth"
	case KindInvalid:
		return "invalid"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// KindSet is a set of failure kinds.
type KindSet map[Kind]bool

// Kinds builds a set from the given kinds.
func Kinds(kinds ...Kind) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	return s[k]
}

// Error is an error tagged with a failure kind and the service it came from.
type Error struct {
	Kind    Kind
	Service string
	Err     error
}

// New creates a tagged error with a message.
func New(kind Kind, service, msg string) *Error {
	return &Error{Kind: kind, Service: service, Err: errors.New(msg)}
}

// Wrap tags an existing error with a kind. Returns nil if err is nil.
func Wrap(kind Kind, service string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Service: service, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err.
//
// Tagged errors report their own kind. Untagged errors are classified from
// the standard library types they wrap; unrecognized errors are KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE):
		return KindConnection
	case errors.Is(err, io.ErrUnexpectedEOF):
		return KindIO
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindConnection
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return KindIO
	}

	return KindUnknown
}
