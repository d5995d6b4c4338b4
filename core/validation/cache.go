// ABOUTME: Validation result cache keyed by URL with TTL freshness windows
// ABOUTME: Wraps the cache backend with serialization and hit/miss accounting

package validation

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"feedcheck-api/core/domain"
	"feedcheck-api/core/interfaces"
)

// keyPrefix namespaces validation entries in a shared cache backend.
const keyPrefix = "validate:"

// CacheStats reports cache effectiveness counters.
type CacheStats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Sets          int64 `json:"sets"`
	Invalidations int64 `json:"invalidations"`
	Entries       int   `json:"entries"`
}

// ResultCache stores ValidationResults in a Cache backend. A miss and an
// expired entry are indistinguishable to callers.
type ResultCache struct {
	backend interfaces.Cache
	logger  interfaces.Logger
	ttl     time.Duration

	hits          atomic.Int64
	misses        atomic.Int64
	sets          atomic.Int64
	invalidations atomic.Int64
}

// NewResultCache creates a result cache with the given freshness window.
func NewResultCache(backend interfaces.Cache, logger interfaces.Logger, ttl time.Duration) *ResultCache {
	return &ResultCache{backend: backend, logger: logger, ttl: ttl}
}

// Key returns the backend key for a URL.
func (c *ResultCache) Key(url string) string {
	return keyPrefix + url
}

// Get returns the cached result for url, or nil on a miss.
func (c *ResultCache) Get(ctx context.Context, url string) *domain.ValidationResult {
	if c.backend == nil {
		return nil
	}

	data, err := c.backend.Get(ctx, c.Key(url))
	if err != nil {
		c.misses.Add(1)
		return nil
	}

	var result domain.ValidationResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.misses.Add(1)
		_ = c.backend.Delete(ctx, c.Key(url))
		return nil
	}

	c.hits.Add(1)
	return &result
}

// Set stores a result under its URL. Cache write failures are logged and
// swallowed; a failed write only costs a future revalidation.
func (c *ResultCache) Set(ctx context.Context, result *domain.ValidationResult) {
	if result == nil {
		return
	}
	c.SetFor(ctx, result.URL, result)
}

// SetFor stores a result under an explicit URL key. Discovery adoption uses
// this to make the originally requested URL resolve to the adopted feed.
func (c *ResultCache) SetFor(ctx context.Context, url string, result *domain.ValidationResult) {
	if c.backend == nil || result == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}

	if err := c.backend.Set(ctx, c.Key(url), data, c.ttl); err != nil {
		if c.logger != nil {
			c.logger.Warn("failed to cache validation result", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
		}
		return
	}
	c.sets.Add(1)
}

// Invalidate drops the entry for url.
func (c *ResultCache) Invalidate(ctx context.Context, url string) error {
	if c.backend == nil {
		return nil
	}
	c.invalidations.Add(1)
	return c.backend.Delete(ctx, c.Key(url))
}

// InvalidatePattern drops every entry whose URL matches the glob pattern.
func (c *ResultCache) InvalidatePattern(ctx context.Context, pattern string) (int, error) {
	if c.backend == nil {
		return 0, nil
	}
	n, err := c.backend.DeletePattern(ctx, keyPrefix+pattern)
	c.invalidations.Add(int64(n))
	return n, err
}

// InvalidateAll drops every validation entry.
func (c *ResultCache) InvalidateAll(ctx context.Context) (int, error) {
	return c.InvalidatePattern(ctx, "*")
}

// Stats returns the current counters plus the backend entry count.
func (c *ResultCache) Stats(ctx context.Context) CacheStats {
	stats := CacheStats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Sets:          c.sets.Load(),
		Invalidations: c.invalidations.Load(),
	}
	if c.backend != nil {
		if n, err := c.backend.Entries(ctx, keyPrefix+"*"); err == nil {
			stats.Entries = n
		}
	}
	return stats
}
