// Package cache provides byte-level caching for computed layouts and
// rendered artifacts.
//
// Packing is cheap and deterministic, so the cache is purely an optimization:
// a miss always recomputes the same bytes a hit would have returned. Entries
// are keyed by content hashes produced by a [Keyer].
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry, for the CLI
//   - [RedisCache]: shared cache for the API server
//
// [Instrumented] wraps any backend and reports hits, misses, and writes to
// the registered observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Entry lifetimes.
const (
	// TTLLayout is how long packed layouts are kept.
	TTLLayout = 24 * time.Hour

	// TTLArtifact is how long rendered SVG/JSON artifacts are kept.
	TTLArtifact = 7 * 24 * time.Hour
)
