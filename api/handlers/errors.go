// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts internal errors to appropriate HTTP responses

package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
)

// toHumaError converts internal errors to appropriate Huma HTTP errors.
// Validation outcomes never arrive here; they are carried inside results.
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return huma.Error504GatewayTimeout("request timed out", err)
	}

	if errors.Is(err, context.Canceled) {
		return huma.NewError(499, "request cancelled", err)
	}

	return huma.Error500InternalServerError("Internal server error", err)
}
