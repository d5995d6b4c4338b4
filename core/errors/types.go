// ABOUTME: Error classification for validation failures
// ABOUTME: Maps raw transport errors and HTTP statuses into the closed taxonomy

package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"feedcheck-api/core/domain"
)

// ClassifyContext carries the probe context a classified error is stamped with.
type ClassifyContext struct {
	URL     string
	Method  domain.AttemptMethod
	Attempt int
}

// retryable is the kind -> retry eligibility table. Non-retryable kinds
// short-circuit the retry loop even when attempts remain.
var retryable = map[domain.ErrorKind]bool{
	domain.ErrKindNetwork:       true,
	domain.ErrKindTimeout:       true,
	domain.ErrKindServer:        true,
	domain.ErrKindUnknown:       true,
	domain.ErrKindCrossOrigin:   false,
	domain.ErrKindNotFound:      false,
	domain.ErrKindParse:         false,
	domain.ErrKindInvalidFormat: false,
}

var suggestions = map[domain.ErrorKind][]string{
	domain.ErrKindNetwork: {
		"Check your internet connection",
		"Verify the URL is reachable from this network",
		"Try again in a few moments",
	},
	domain.ErrKindCrossOrigin: {
		"The feed blocks direct access from other origins",
		"Validation will be retried through a relay automatically",
	},
	domain.ErrKindTimeout: {
		"The server took too long to respond",
		"Try again later or check if the site is slow",
	},
	domain.ErrKindParse: {
		"The content is not well-formed XML",
		"Verify the URL points at a feed, not a webpage",
	},
	domain.ErrKindInvalidFormat: {
		"The content parsed but is not an RSS, Atom or RDF feed",
		"Look for a feed link on the website instead",
	},
	domain.ErrKindNotFound: {
		"The feed URL returns 404",
		"Check the URL for typos",
		"The feed may have moved; try discovering it from the site root",
	},
	domain.ErrKindServer: {
		"The server reported an internal error",
		"This is usually temporary; try again later",
	},
	domain.ErrKindUnknown: {
		"An unexpected error occurred",
		"Try again in a few moments",
	},
}

// NewValidationError builds a classified error for a known kind.
func NewValidationError(kind domain.ErrorKind, message string, cctx ClassifyContext) *domain.ValidationError {
	return &domain.ValidationError{
		Kind:        kind,
		Message:     message,
		Suggestions: suggestions[kind],
		Retryable:   retryable[kind],
		URL:         cctx.URL,
		Method:      cctx.Method,
		Attempt:     cctx.Attempt,
	}
}

// ClassifyStatus maps an HTTP status code to a validation error.
// Status codes take precedence over transport error inspection.
func ClassifyStatus(status int, cctx ClassifyContext) *domain.ValidationError {
	var kind domain.ErrorKind
	switch {
	case status == 404 || status == 410:
		kind = domain.ErrKindNotFound
	case status == 401 || status == 403:
		kind = domain.ErrKindCrossOrigin
	case status >= 500 || status == 408 || status == 429:
		kind = domain.ErrKindServer
	default:
		kind = domain.ErrKindNetwork
	}

	verr := NewValidationError(kind, fmt.Sprintf("server returned HTTP %d", status), cctx)
	verr.StatusCode = status
	return verr
}

// Classify maps a raw transport error to a validation error. Structured
// error checks run first; substring matching of error text is a last-resort
// heuristic, not a contract.
func Classify(err error, cctx ClassifyContext) *domain.ValidationError {
	if err == nil {
		return nil
	}

	// Structured checks
	var classified *domain.ValidationError
	if errors.As(err, &classified) {
		return classified
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewValidationError(domain.ErrKindTimeout, "request timed out", cctx)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewValidationError(domain.ErrKindTimeout, "request timed out", cctx)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return Classify(fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err), cctx)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NewValidationError(domain.ErrKindNetwork, err.Error(), cctx)
	}

	// Message sniffing fallback
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "cors", "cross-origin", "access-control-allow-origin", "opaque response"):
		return NewValidationError(domain.ErrKindCrossOrigin, err.Error(), cctx)
	case containsAny(msg, "timeout", "timed out", "deadline exceeded", "aborted"):
		return NewValidationError(domain.ErrKindTimeout, err.Error(), cctx)
	case containsAny(msg, "connection refused", "connection reset", "no such host", "network", "dns", "unexpected eof", "broken pipe"):
		return NewValidationError(domain.ErrKindNetwork, err.Error(), cctx)
	}

	return NewValidationError(domain.ErrKindUnknown, err.Error(), cctx)
}

func containsAny(s string, markers ...string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether a classified error may be retried.
func IsRetryable(verr *domain.ValidationError) bool {
	return verr != nil && verr.Retryable
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
