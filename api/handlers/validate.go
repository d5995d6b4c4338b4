// ABOUTME: Validation handler exposing the feed validator over HTTP
// ABOUTME: Provides batch validation, discovery fallback, revalidation and cache admin

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"feedcheck-api/core/domain"
	"feedcheck-api/core/interfaces"
	"feedcheck-api/core/validation"
)

// ValidateHandler handles feed URL validation endpoints.
type ValidateHandler struct {
	validator interfaces.Validator
	cache     *validation.ResultCache
}

// NewValidateHandler creates a new validation handler. cache may be nil when
// no stats surface is wanted.
func NewValidateHandler(validator interfaces.Validator, cache *validation.ResultCache) *ValidateHandler {
	return &ValidateHandler{
		validator: validator,
		cache:     cache,
	}
}

// RegisterRoutes registers validation routes
func (h *ValidateHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "validateFeeds",
		Method:      http.MethodPost,
		Path:        "/validate",
		Summary:     "Validate feed URLs",
		Description: "Checks whether each URL is a syndication feed, with retry and relay fallback",
		Tags:        []string{"Validation"},
	}, h.ValidateFeeds)

	huma.Register(api, huma.Operation{
		OperationID: "validateFeedWithDiscovery",
		Method:      http.MethodPost,
		Path:        "/validate/discover",
		Summary:     "Validate a URL with feed discovery fallback",
		Description: "Validates a URL; when it is not a feed, searches the site for candidate feeds",
		Tags:        []string{"Validation"},
	}, h.ValidateWithDiscovery)

	huma.Register(api, huma.Operation{
		OperationID: "revalidateFeed",
		Method:      http.MethodPost,
		Path:        "/validate/refresh",
		Summary:     "Revalidate a URL bypassing the cache",
		Tags:        []string{"Validation"},
	}, h.Revalidate)

	huma.Register(api, huma.Operation{
		OperationID: "validationSummary",
		Method:      http.MethodGet,
		Path:        "/validate/summary",
		Summary:     "Summarize cached validation state for a set of URLs",
		Tags:        []string{"Validation"},
	}, h.Summary)

	huma.Register(api, huma.Operation{
		OperationID: "clearValidationCache",
		Method:      http.MethodDelete,
		Path:        "/validate/cache",
		Summary:     "Clear all cached validation results",
		Tags:        []string{"Validation"},
	}, h.ClearCache)

	huma.Register(api, huma.Operation{
		OperationID: "validationCacheStats",
		Method:      http.MethodGet,
		Path:        "/validate/cache/stats",
		Summary:     "Validation cache statistics",
		Tags:        []string{"Validation"},
	}, h.CacheStats)
}

// ValidateInput defines the input for batch validation
type ValidateInput struct {
	Body struct {
		URLs []string `json:"urls" minItems:"1" doc:"List of URLs to validate"`
	}
}

// ValidateOutput defines the output for batch validation
type ValidateOutput struct {
	Body struct {
		Results []*domain.ValidationResult `json:"results" doc:"Validation results in input order"`
	}
}

// ValidateFeeds handles the POST /validate endpoint
func (h *ValidateHandler) ValidateFeeds(ctx context.Context, input *ValidateInput) (*ValidateOutput, error) {
	if len(input.Body.URLs) == 0 {
		return nil, huma.Error400BadRequest("No URLs provided")
	}

	output := &ValidateOutput{}
	output.Body.Results = h.validator.ValidateMany(ctx, input.Body.URLs)
	return output, nil
}

// SingleURLInput carries one URL in the request body
type SingleURLInput struct {
	Body struct {
		URL string `json:"url" doc:"URL to validate"`
	}
}

// SingleResultOutput carries one validation result
type SingleResultOutput struct {
	Body struct {
		Result *domain.ValidationResult `json:"result"`
	}
}

// ValidateWithDiscovery handles the POST /validate/discover endpoint
func (h *ValidateHandler) ValidateWithDiscovery(ctx context.Context, input *SingleURLInput) (*SingleResultOutput, error) {
	if input.Body.URL == "" {
		return nil, huma.Error400BadRequest("No URL provided")
	}

	output := &SingleResultOutput{}
	output.Body.Result = h.validator.ValidateWithDiscovery(ctx, input.Body.URL, nil)
	return output, nil
}

// Revalidate handles the POST /validate/refresh endpoint
func (h *ValidateHandler) Revalidate(ctx context.Context, input *SingleURLInput) (*SingleResultOutput, error) {
	if input.Body.URL == "" {
		return nil, huma.Error400BadRequest("No URL provided")
	}

	output := &SingleResultOutput{}
	output.Body.Result = h.validator.Revalidate(ctx, input.Body.URL)
	return output, nil
}

// SummaryInput defines the query parameters for the summary endpoint
type SummaryInput struct {
	URLs []string `query:"urls" doc:"URLs to summarize"`
}

// SummaryOutput carries the aggregated validation summary
type SummaryOutput struct {
	Body domain.ValidationSummary
}

// Summary handles the GET /validate/summary endpoint
func (h *ValidateHandler) Summary(ctx context.Context, input *SummaryInput) (*SummaryOutput, error) {
	output := &SummaryOutput{}
	output.Body = h.validator.Summary(ctx, input.URLs)
	return output, nil
}

// ClearCacheOutput reports the cache clear outcome
type ClearCacheOutput struct {
	Body struct {
		Cleared bool `json:"cleared"`
	}
}

// ClearCache handles the DELETE /validate/cache endpoint
func (h *ValidateHandler) ClearCache(ctx context.Context, _ *struct{}) (*ClearCacheOutput, error) {
	if err := h.validator.ClearCache(ctx); err != nil {
		return nil, toHumaError(err)
	}

	output := &ClearCacheOutput{}
	output.Body.Cleared = true
	return output, nil
}

// CacheStatsOutput carries cache effectiveness counters
type CacheStatsOutput struct {
	Body validation.CacheStats
}

// CacheStats handles the GET /validate/cache/stats endpoint
func (h *ValidateHandler) CacheStats(ctx context.Context, _ *struct{}) (*CacheStatsOutput, error) {
	if h.cache == nil {
		return nil, huma.Error404NotFound("cache stats not available")
	}

	output := &CacheStatsOutput{}
	output.Body = h.cache.Stats(ctx)
	return output, nil
}
