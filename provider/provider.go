package provider

import "context"

// Provider is a single AI model backend.
//
// Implementations must be safe for concurrent use. All methods that reach
// the network honor context cancellation.
type Provider interface {
	// Name returns the stable provider identifier, e.g. "openai".
	Name() string

	// Generate performs a blocking completion request.
	Generate(ctx context.Context, req Request) (*Response, error)

	// GenerateStream starts a streaming completion. The returned stream is
	// a finite sequence of chunks and cannot be restarted; callers must
	// Close it when done.
	GenerateStream(ctx context.Context, req Request) (Stream, error)

	// Available reports whether the backend is currently reachable. It is
	// a health signal, not a reservation: a true result does not guarantee
	// the next call succeeds.
	Available(ctx context.Context) bool
}

// Stream is a finite sequence of generation chunks.
//
// The iteration contract follows the database/sql rows pattern: Next
// advances, Current reads, Err reports what terminated the iteration.
type Stream interface {
	// Next advances to the next chunk, returning false at end of stream
	// or on error.
	Next() bool

	// Current returns the chunk at the current position. Only valid after
	// a true Next.
	Current() Chunk

	// Err returns the error that terminated iteration, if any.
	Err() error

	// Close releases the underlying connection. Safe to call more than
	// once.
	Close() error
}
