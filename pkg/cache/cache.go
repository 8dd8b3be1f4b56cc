// Package cache provides pluggable byte caches for the rendering pipeline.
//
// Rendering a document runs through three cacheable stages: the parsed
// document, the laid-out geometry, and the encoded artifact. Each stage
// addresses its output with a [Keyer]-generated key, so a later run with the
// same inputs skips straight to the cached bytes.
//
// Three backends cover the deployment spectrum: [FileCache] for the CLI,
// [RedisCache] for server deployments, and [NullCache] to disable caching
// entirely.
package cache

import (
	"context"
	"time"
)

// Stage time-to-lives. Documents and layouts re-derive cheaply, so they
// expire daily; artifacts are deterministic functions of their layout and
// keep longer.
const (
	TTLDocument = 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys with optional
// expiration. Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was found; an expired or missing entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl stores it without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
