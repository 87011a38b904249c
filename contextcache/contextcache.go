package contextcache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a context key.
const MaxKeyLength = 512

// Sentinel errors for context cache operations.
var (
	ErrInvalidKey = errors.New("contextcache: key is invalid")
	ErrKeyTooLong = errors.New("contextcache: key exceeds max length")
)

// Cache stores context blobs keyed by instruction id.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns ("", false) on miss.
type Cache interface {
	// Get retrieves a cached context blob. Returns ("", false) on miss.
	Get(ctx context.Context, key string) (string, bool)

	// Put stores a context blob with the given TTL. TTL=0 falls back to
	// the policy default.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a cached blob. Idempotent, no error on miss.
	Delete(ctx context.Context, key string) error
}

// ValidateKey checks whether a key is usable as a cache key.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
