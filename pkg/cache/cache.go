// Package cache provides content-addressed caching for pipeline results.
//
// Layout computation is cheap, but a full generation run also parses input
// files and renders artifacts; caching lets repeated runs over an unchanged
// tool table and parameter set return immediately. Keys are derived from
// hashes of the inputs, so any edit to the CSV or parameters naturally
// invalidates the entry.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind. Results are fully content-addressed, so these
// mostly bound disk growth rather than staleness.
const (
	TTLResult   = 30 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache is the storage interface for pipeline results. Implementations must
// be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
