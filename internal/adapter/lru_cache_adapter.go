package adapter

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"quiz-diagnosis/internal/domain"
)

// LRUCacheAdapter is an in-process domain.Cache for single-instance
// deployments. Entries expire after the TTL given at construction; the
// per-call expiration passed to Set is ignored.
type LRUCacheAdapter struct {
	entries *expirable.LRU[string, string]
}

// NewLRUCacheAdapter keeps at most size entries for ttl each. A ttl of zero
// disables expiry.
func NewLRUCacheAdapter(size int, ttl time.Duration) domain.Cache {
	if size <= 0 {
		size = 1
	}
	return &LRUCacheAdapter{entries: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *LRUCacheAdapter) Get(_ context.Context, key string) (string, error) {
	val, ok := c.entries.Get(key)
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return val, nil
}

func (c *LRUCacheAdapter) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.entries.Add(key, value)
	return nil
}

func (c *LRUCacheAdapter) Delete(_ context.Context, key string) error {
	c.entries.Remove(key)
	return nil
}

func (c *LRUCacheAdapter) Ping(context.Context) error { return nil }
