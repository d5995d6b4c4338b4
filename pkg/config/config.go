// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, cache, validation and relay settings

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Validation contains validator tuning
	Validation ValidationConfig

	// Relay contains the relay pool configuration
	Relay RelayConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// LogLevel sets the logger verbosity
	LogLevel string
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite)
	Type string

	// TTLSeconds is the freshness window for validation results
	TTLSeconds int

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file location
	Path string
}

// ValidationConfig holds validator tuning. None of these values are
// hard-coded into the algorithms.
type ValidationConfig struct {
	// InitialTimeoutMS is the first attempt's timeout in milliseconds
	InitialTimeoutMS int

	// MaxAttempts bounds the direct attempt loop
	MaxAttempts int

	// BaseRetryDelayMS seeds the backoff schedule
	BaseRetryDelayMS int

	// RetryCapMS bounds any single backoff delay
	RetryCapMS int

	// OriginHost, when set, routes fetches of other hosts through relays
	OriginHost string
}

// RelayConfig holds the ordered relay pool. Each entry is a URL template
// with a %s placeholder receiving the escaped target URL.
type RelayConfig struct {
	Endpoints []string
}

// defaultRelays are public CORS-bypass relays tried in priority order.
var defaultRelays = []string{
	"https://api.allorigins.win/raw?url=%s",
	"https://corsproxy.io/?%s",
	"https://api.codetabs.com/v1/proxy?quest=%s",
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnvOrDefault("PORT", "8000"),
			LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Cache: CacheConfig{
			Type:       getEnvOrDefault("CACHE_TYPE", "memory"),
			TTLSeconds: getEnvAsIntOrDefault("CACHE_TTL", 900),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "validation-cache.db"),
			},
		},
		Validation: ValidationConfig{
			InitialTimeoutMS: getEnvAsIntOrDefault("VALIDATION_TIMEOUT_MS", 5000),
			MaxAttempts:      getEnvAsIntOrDefault("VALIDATION_MAX_ATTEMPTS", 3),
			BaseRetryDelayMS: getEnvAsIntOrDefault("VALIDATION_RETRY_DELAY_MS", 1000),
			RetryCapMS:       getEnvAsIntOrDefault("VALIDATION_RETRY_CAP_MS", 10000),
			OriginHost:       getEnvOrDefault("VALIDATION_ORIGIN_HOST", ""),
		},
		Relay: RelayConfig{
			Endpoints: getEnvAsListOrDefault("RELAY_ENDPOINTS", defaultRelays),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsListOrDefault parses a comma-separated environment variable
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	switch c.Cache.Type {
	case "memory", "redis", "sqlite":
	default:
		return errors.New("cache type must be 'memory', 'redis' or 'sqlite'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Validation.MaxAttempts < 1 {
		return errors.New("validation max attempts must be at least 1")
	}

	if c.Validation.InitialTimeoutMS < 1 {
		return errors.New("validation timeout must be positive")
	}

	for _, ep := range c.Relay.Endpoints {
		if !strings.Contains(ep, "%s") {
			return errors.New("relay endpoint must contain a %s placeholder: " + ep)
		}
	}

	return nil
}
