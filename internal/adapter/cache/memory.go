package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemoryCacheSize bounds the in-process cache when no size is configured
const DefaultMemoryCacheSize = 10000

// MemoryCache is an in-process ResultCache used when no Redis address is configured.
// Least recently used entries are evicted beyond its size and expired entries are
// swept in the background.
type MemoryCache struct {
	lru *expirable.LRU[string, string]
}

// NewMemoryCache creates a cache holding at most size entries that expire after ttl.
// A size <= 0 uses DefaultMemoryCacheSize; a ttl <= 0 never expires.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultMemoryCacheSize
	}
	return &MemoryCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool) {
	return c.lru.Get(key)
}

func (c *MemoryCache) Set(ctx context.Context, key string, value string) error {
	c.lru.Add(key, value)
	return nil
}

// Len returns the number of stored entries
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
