// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines contracts for services used throughout the application

package interfaces

import (
	"context"

	"feedcheck-api/core/domain"
)

// ProgressFunc receives advisory progress percentages during validation.
// It is purely for UI feedback and must never affect control flow.
type ProgressFunc func(percent int, stage string)

// Validator is the orchestrator callers invoke to validate feed URLs.
// It never returns Go errors across this boundary; every path terminates
// in a ValidationResult with a populated status.
type Validator interface {
	// Validate checks whether url is a syndication feed.
	Validate(ctx context.Context, url string) *domain.ValidationResult

	// ValidateWithDiscovery falls back to feed discovery when direct
	// validation fails. onProgress may be nil.
	ValidateWithDiscovery(ctx context.Context, url string, onProgress ProgressFunc) *domain.ValidationResult

	// ValidateMany validates urls concurrently, returning results in
	// input order.
	ValidateMany(ctx context.Context, urls []string) []*domain.ValidationResult

	// Revalidate bypasses the cache and validates url afresh.
	Revalidate(ctx context.Context, url string) *domain.ValidationResult

	// ClearCache drops every cached validation result.
	ClearCache(ctx context.Context) error

	// Summary aggregates cached validation state for urls.
	Summary(ctx context.Context, urls []string) domain.ValidationSummary
}

// DiscoveryOutcome is the product of one discovery engine invocation.
type DiscoveryOutcome struct {
	Candidates  []domain.DiscoveredFeedCandidate
	Suggestions []string
}

// DiscoveryEngine locates candidate feed URLs from a non-feed webpage.
type DiscoveryEngine interface {
	DiscoverFromWebsite(ctx context.Context, url string) (*DiscoveryOutcome, error)
}

// RelayResult is the content fetched through a relay plus the relay that
// served it.
type RelayResult struct {
	Content []byte
	Relay   string
}

// RelayClient fetches a URL through an ordered pool of relay endpoints,
// failing over to the next relay on error.
type RelayClient interface {
	FetchViaRelay(ctx context.Context, url string) (*RelayResult, error)
}
