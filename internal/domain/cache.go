package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache defines the port for the narrative cache. Adapters exist for Redis
// and for an in-process LRU.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key for expiration. Zero means no expiry where
	// the adapter supports it.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete does not fail on a missing key.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}
