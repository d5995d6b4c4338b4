// ABOUTME: Discover handler for finding RSS feed URLs from regular website URLs
// ABOUTME: Runs the multi-strategy discovery engine for each provided URL

package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"

	"feedcheck-api/core/domain"
	"feedcheck-api/core/interfaces"
)

// DiscoverHandler handles RSS feed discovery
type DiscoverHandler struct {
	engine interfaces.DiscoveryEngine
}

// NewDiscoverHandler creates a new discover handler
func NewDiscoverHandler(engine interfaces.DiscoveryEngine) *DiscoverHandler {
	return &DiscoverHandler{engine: engine}
}

// RegisterRoutes registers discover routes
func (h *DiscoverHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "discoverFeeds",
		Method:      http.MethodPost,
		Path:        "/discover",
		Summary:     "Discover RSS feeds from websites",
		Description: "Attempts to discover RSS/Atom feed URLs from provided website URLs",
		Tags:        []string{"Discovery"},
	}, h.DiscoverFeeds)
}

// DiscoverFeedsInput defines the input for feed discovery
type DiscoverFeedsInput struct {
	Body struct {
		URLs []string `json:"urls" minItems:"1" doc:"List of website URLs to discover feeds from"`
	}
}

// FeedDiscoveryResult represents a single discovery result
type FeedDiscoveryResult struct {
	URL         string                           `json:"url" doc:"Original URL that was checked"`
	Status      string                           `json:"status" doc:"Discovery status: 'ok' or 'error'"`
	Candidates  []domain.DiscoveredFeedCandidate `json:"candidates,omitempty" doc:"Discovered feed candidates ranked by confidence"`
	Suggestions []string                         `json:"suggestions,omitempty" doc:"Hints for the user"`
	Error       string                           `json:"error,omitempty" doc:"Error message if discovery failed"`
}

// DiscoverFeedsOutput defines the output for feed discovery
type DiscoverFeedsOutput struct {
	Body struct {
		Feeds []FeedDiscoveryResult `json:"feeds" doc:"Discovery results for each URL"`
	}
}

// DiscoverFeeds handles the POST /discover endpoint
func (h *DiscoverHandler) DiscoverFeeds(ctx context.Context, input *DiscoverFeedsInput) (*DiscoverFeedsOutput, error) {
	if len(input.Body.URLs) == 0 {
		return nil, huma.Error400BadRequest("No URLs provided")
	}

	// Process URLs concurrently
	var wg sync.WaitGroup
	results := make([]FeedDiscoveryResult, len(input.Body.URLs))

	for i, siteURL := range input.Body.URLs {
		wg.Add(1)
		go func(idx int, site string) {
			defer wg.Done()

			outcome, err := h.engine.DiscoverFromWebsite(ctx, site)
			if err != nil {
				results[idx] = FeedDiscoveryResult{
					URL:    site,
					Status: "error",
					Error:  err.Error(),
				}
				return
			}
			results[idx] = FeedDiscoveryResult{
				URL:         site,
				Status:      "ok",
				Candidates:  outcome.Candidates,
				Suggestions: outcome.Suggestions,
			}
		}(i, siteURL)
	}

	wg.Wait()

	output := &DiscoverFeedsOutput{}
	output.Body.Feeds = results
	return output, nil
}
