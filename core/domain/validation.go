// ABOUTME: Validation domain model for feed URL validation outcomes
// ABOUTME: Defines attempts, statuses, discovered candidates and the result aggregate

package domain

import "time"

// ValidationStatus is the externally visible outcome of validating a URL.
type ValidationStatus string

const (
	StatusValid               ValidationStatus = "valid"
	StatusInvalid             ValidationStatus = "invalid"
	StatusTimeout             ValidationStatus = "timeout"
	StatusNetworkError        ValidationStatus = "network_error"
	StatusCrossOriginError    ValidationStatus = "cross_origin_error"
	StatusNotFound            ValidationStatus = "not_found"
	StatusServerError         ValidationStatus = "server_error"
	StatusParseError          ValidationStatus = "parse_error"
	StatusChecking            ValidationStatus = "checking"
	StatusDiscoveryRequired   ValidationStatus = "discovery_required"
	StatusDiscoveryInProgress ValidationStatus = "discovery_in_progress"
)

// AttemptMethod identifies how a single probe was issued.
type AttemptMethod string

const (
	MethodDirect AttemptMethod = "direct"
	MethodRetry  AttemptMethod = "retry"
	MethodRelay  AttemptMethod = "relay"
)

// ResultMethod identifies which path ultimately produced a result.
type ResultMethod string

const (
	ResultDirect    ResultMethod = "direct"
	ResultRelay     ResultMethod = "relay"
	ResultDiscovery ResultMethod = "discovery"
)

// DiscoveryMethod identifies the strategy that surfaced a candidate.
type DiscoveryMethod string

const (
	DiscoveryDirectProbe DiscoveryMethod = "direct_probe"
	DiscoveryLinkTag     DiscoveryMethod = "link_discovery"
	DiscoveryHTMLParse   DiscoveryMethod = "html_parsing"
	DiscoveryCommonPath  DiscoveryMethod = "common_paths"
)

// ValidationAttempt records a single probe against a URL.
// Attempts are immutable once created and appended in chronological order.
type ValidationAttempt struct {
	// Sequence is the 1-based position of this attempt in the log
	Sequence int `json:"sequence"`

	// Timestamp is when the attempt started
	Timestamp time.Time `json:"timestamp"`

	// Method is how the probe was issued (direct, retry, relay)
	Method AttemptMethod `json:"method"`

	// Success indicates whether the attempt produced a valid feed
	Success bool `json:"success"`

	// Error holds the classified failure, if any
	Error *ValidationError `json:"error,omitempty"`

	// LatencyMS is the response latency in milliseconds
	LatencyMS int64 `json:"latencyMs"`

	// StatusCode is the HTTP status, when a response was received
	StatusCode int `json:"statusCode,omitempty"`

	// BackoffMS is the backoff delay actually applied before this attempt
	BackoffMS int64 `json:"backoffMs,omitempty"`

	// Relay identifies the relay endpoint used, for relay attempts
	Relay string `json:"relay,omitempty"`
}

// DiscoveredFeedCandidate is a feed URL located by the discovery engine.
// Candidates live only inside the enclosing ValidationResult.
type DiscoveredFeedCandidate struct {
	URL         string          `json:"url"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Method      DiscoveryMethod `json:"method"`

	// Confidence reflects strategy reliability, in [0,1]
	Confidence float64 `json:"confidence"`
}

// ValidationResult is the outcome of validating one URL.
type ValidationResult struct {
	// URL is the address the result describes; rewritten to the discovered
	// candidate's URL when discovery auto-adopts a single candidate
	URL string `json:"url"`

	// Status is the final public status
	Status ValidationStatus `json:"status"`

	// IsValid mirrors Status == StatusValid
	IsValid bool `json:"isValid"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Attempts is the full probe log in chronological order
	Attempts []ValidationAttempt `json:"validationAttempts"`

	// TotalRetries counts attempts that were followed by a retry
	TotalRetries int `json:"totalRetries"`

	// ElapsedMS is the total wall-clock time spent producing this result
	ElapsedMS int64 `json:"elapsedMs"`

	// LastChecked is when the result was finalized
	LastChecked time.Time `json:"lastChecked"`

	// Candidates holds discovered feed URLs when Status is discovery_required
	Candidates []DiscoveredFeedCandidate `json:"discoveredCandidates,omitempty"`

	// Method is the path that produced the result
	Method ResultMethod `json:"method,omitempty"`

	// FinalError is the terminal classified error on failure
	FinalError *ValidationError `json:"finalError,omitempty"`
}

// AddAttempt appends an attempt with the next sequence number.
func (r *ValidationResult) AddAttempt(a ValidationAttempt) {
	a.Sequence = len(r.Attempts) + 1
	r.Attempts = append(r.Attempts, a)
}

// MarkValid finalizes the result as a successful validation.
func (r *ValidationResult) MarkValid(title, description string, method ResultMethod) {
	r.Status = StatusValid
	r.IsValid = true
	r.Title = title
	r.Description = description
	r.Method = method
	r.FinalError = nil
}

// ValidationSummary aggregates cached validation state over a set of URLs.
type ValidationSummary struct {
	Total          int        `json:"total"`
	Valid          int        `json:"valid"`
	Invalid        int        `json:"invalid"`
	Checking       int        `json:"checking"`
	LastValidation *time.Time `json:"lastValidation,omitempty"`
}
