// Package core contains the business logic for the Feedcheck API.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure domain models (ValidationResult, ValidationAttempt, etc.)
// - validation: The validator orchestrator with retry, backoff and caching
// - discovery: Multi-strategy feed discovery from website URLs
// - relay: Failover client for fetching through CORS-bypass relays
// - feedparse: Feed parsing with content cleanup fallback
// - errors: Error classification into actionable kinds
// - interfaces: Contracts for external dependencies (cache, HTTP, logger)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No web framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "feedcheck-api/core/interfaces"
//	    "feedcheck-api/core/validation"
//	)
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	validator := validation.NewService(deps, validation.DefaultConfig(), parser, relays, engine)
//
//	result := validator.Validate(ctx, "https://example.com/feed.rss")
//	if result.IsValid {
//	    // feed confirmed
//	}
package core
