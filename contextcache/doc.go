// Package contextcache stores reusable model context blobs.
//
// The dispatch layer attaches a cached context to resolved provider handles
// when one exists for the instruction; entries expire on a TTL policy and
// are evicted lazily on read. Attachment is best effort: a miss is never an
// error.
package contextcache
