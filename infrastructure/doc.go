// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as caching, HTTP communication, and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache backed by patrickmn/go-cache
// - cache/redis: Redis-based cache implementation
// - cache/sqlite: File-backed cache that survives restarts
// - http/standard: Single-shot HTTP client; retries belong to the orchestrator
// - logger/logrus: Structured JSON logger
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache(15*time.Minute, 30*time.Minute)
//	err := cache.Set(ctx, "key", []byte("value"), time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{
//	    Address: "localhost:6379",
//	})
//
// # HTTP Client
//
// The HTTP client issues exactly one request per call. The validation
// orchestrator owns the retry policy, so transient failures surface
// immediately:
//
//	client := standard.NewStandardHTTPClient(30 * time.Second)
//	resp, err := client.Get(ctx, "https://example.com/feed.xml")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
// The logger supports structured logging with fields:
//
//	logger := logrus.NewLogger("info")
//	logger.Info("validation complete", map[string]interface{}{
//	    "url":    "https://example.com/feed.xml",
//	    "status": "valid",
//	})
package infrastructure
