// ABOUTME: In-memory cache implementation backed by patrickmn/go-cache
// ABOUTME: Provides TTL expiry, glob-pattern deletion and automatic cleanup

package memory

import (
	"context"
	"errors"
	"time"

	"github.com/gobwas/glob"
	gocache "github.com/patrickmn/go-cache"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

// MemoryCache implements the Cache interface using in-memory storage.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache instance. defaultTTL is the
// store's default expiry window; Set with a zero TTL stores without expiry.
// Expired items are purged every cleanupInterval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.store.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}

	stored := value.([]byte)
	result := make([]byte, len(stored))
	copy(result, stored)
	return result, nil
}

// Set stores a value in the cache with the given TTL.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	if ttl == 0 {
		c.store.Set(key, valueCopy, gocache.NoExpiration)
		return nil
	}
	c.store.Set(key, valueCopy, ttl)
	return nil
}

// Delete removes a key from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.store.Delete(key)
	return nil
}

// DeletePattern removes every key matching the glob pattern and returns how
// many were removed.
func (c *MemoryCache) DeletePattern(ctx context.Context, pattern string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	matcher, err := glob.Compile(pattern)
	if err != nil {
		return 0, err
	}

	removed := 0
	for key := range c.store.Items() {
		if matcher.Match(key) {
			c.store.Delete(key)
			removed++
		}
	}
	return removed, nil
}

// Entries counts live entries whose keys match the glob pattern.
func (c *MemoryCache) Entries(ctx context.Context, pattern string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	matcher, err := glob.Compile(pattern)
	if err != nil {
		return 0, err
	}

	count := 0
	for key := range c.store.Items() {
		if matcher.Match(key) {
			count++
		}
	}
	return count, nil
}
