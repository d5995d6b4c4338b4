// ABOUTME: Main entry point for the Feedcheck API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedcheck-api/api"
	"feedcheck-api/api/handlers"
	"feedcheck-api/core/discovery"
	"feedcheck-api/core/feedparse"
	"feedcheck-api/core/interfaces"
	"feedcheck-api/core/relay"
	"feedcheck-api/core/validation"
	"feedcheck-api/infrastructure/cache/memory"
	"feedcheck-api/infrastructure/cache/redis"
	"feedcheck-api/infrastructure/cache/sqlite"
	stdhttp "feedcheck-api/infrastructure/http/standard"
	logruslogger "feedcheck-api/infrastructure/logger/logrus"
	"feedcheck-api/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create logger
	logger := logruslogger.NewLogger(cfg.Server.LogLevel)
	logger.Info("Starting Feedcheck API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"relays":     len(cfg.Relay.Endpoints),
	})

	// Create cache
	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	var cache interfaces.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			cache = memory.NewMemoryCache(cacheTTL, 5*time.Minute)
		} else {
			cache = redisCache
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
		}
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.Cache.SQLite.Path)
		if err != nil {
			logger.Error("Failed to create SQLite cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			cache = memory.NewMemoryCache(cacheTTL, 5*time.Minute)
		} else {
			cache = sqliteCache
			logger.Info("Using SQLite cache", map[string]interface{}{
				"path": cfg.Cache.SQLite.Path,
			})
		}
	default:
		cache = memory.NewMemoryCache(cacheTTL, 5*time.Minute)
		logger.Info("Using memory cache", nil)
	}

	// Create HTTP client; the outer timeout is a safety net above the
	// validator's own escalating per-attempt timeouts
	httpClient := stdhttp.NewStandardHTTPClient(30 * time.Second)

	// Create dependencies container
	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	// Create services
	parser := feedparse.NewParser()
	relayClient := relay.NewClient(deps, relay.PoolFromTemplates(cfg.Relay.Endpoints))
	discoveryEngine := discovery.NewEngine(deps, parser)

	validatorCfg := validation.Config{
		InitialTimeout: time.Duration(cfg.Validation.InitialTimeoutMS) * time.Millisecond,
		MaxAttempts:    cfg.Validation.MaxAttempts,
		BaseRetryDelay: time.Duration(cfg.Validation.BaseRetryDelayMS) * time.Millisecond,
		RetryCap:       time.Duration(cfg.Validation.RetryCapMS) * time.Millisecond,
		CacheTTL:       cacheTTL,
		OriginHost:     cfg.Validation.OriginHost,
	}
	validator := validation.NewService(deps, validatorCfg, parser, relayClient, discoveryEngine)

	// Create API with middleware
	apiConfig := api.APIConfig{
		Logger:     logger,
		RateLimit:  100, // 100 requests per minute
		RateWindow: time.Minute,
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	// Create and register handlers
	validateHandler := handlers.NewValidateHandler(validator, validator.Cache())
	validateHandler.RegisterRoutes(humaAPI)

	discoverHandler := handlers.NewDiscoverHandler(discoveryEngine)
	discoverHandler.RegisterRoutes(humaAPI)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped", nil)
}
