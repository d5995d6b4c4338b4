// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"time"
)

// Cache defines the interface for validation result cache backends.
// Implementations can be in-memory, Redis, SQLite or any other store that
// supports TTL expiry and glob-pattern deletion.
//
// Example usage:
//
//	cache := someCache // implements Cache interface
//
//	// Store a value with a freshness window
//	err := cache.Set(ctx, "validate:https://example.com/feed.xml", data, 15*time.Minute)
//
//	// Retrieve a value; expired entries behave like misses
//	data, err := cache.Get(ctx, "validate:https://example.com/feed.xml")
//
//	// Drop every validation entry at once
//	n, err := cache.DeletePattern(ctx, "validate:*")
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached data as []byte or an error if the key doesn't
	// exist or has expired. A miss and an expiry are indistinguishable.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// DeletePattern removes every key matching the glob pattern and
	// returns the number of keys removed.
	DeletePattern(ctx context.Context, pattern string) (int, error)

	// Entries returns the number of live entries whose keys match the
	// glob pattern. Scoping the count to a pattern keeps stats honest on
	// backends shared with other applications.
	Entries(ctx context.Context, pattern string) (int, error)
}
