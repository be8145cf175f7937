// Package cache stores rasterized page tiles between runs.
//
// Rasterizing a source PDF is by far the slowest stage of an
// imposition, so the pipeline caches the rendered pages keyed by the
// source document's content digest and the render DPI. Backends:
//   - file: per-user cache directory for CLI usage
//   - redis: shared cache for server deployments
//   - null: caching disabled
package cache

import (
	"context"
	"time"
)

// DefaultTileTTL is how long rasterized tiles stay valid. Tiles are
// keyed by content digest, so entries never go stale; the TTL only
// bounds disk usage.
const DefaultTileTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
