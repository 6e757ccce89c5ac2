package cache

import (
	"time"
)

// CacheService represents a generic cache with expiring keys. The tracker
// uses it for cross-run block keys: when a site rate limits a run, a block
// key suppresses fetches until it expires.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
