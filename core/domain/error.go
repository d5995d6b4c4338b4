// ABOUTME: Closed failure taxonomy for validation errors
// ABOUTME: Carries kind, remediation suggestions, retry eligibility and probe context

package domain

// ErrorKind classifies a validation failure into a closed taxonomy.
type ErrorKind string

const (
	ErrKindNetwork       ErrorKind = "network"
	ErrKindCrossOrigin   ErrorKind = "cross_origin"
	ErrKindTimeout       ErrorKind = "timeout"
	ErrKindParse         ErrorKind = "parse"
	ErrKindInvalidFormat ErrorKind = "invalid_format"
	ErrKindNotFound      ErrorKind = "not_found"
	ErrKindServer        ErrorKind = "server"
	ErrKindUnknown       ErrorKind = "unknown"
)

// ValidationError is a classified validation failure. Constructed once per
// failure by the classifier and never mutated afterwards.
type ValidationError struct {
	// Kind is the taxonomy bucket
	Kind ErrorKind `json:"kind"`

	// Message is a human-readable description of the failure
	Message string `json:"message"`

	// Suggestions lists remediation hints in display order
	Suggestions []string `json:"suggestions,omitempty"`

	// Retryable indicates whether another attempt could plausibly succeed
	Retryable bool `json:"retryable"`

	// URL is the address that was being validated
	URL string `json:"url,omitempty"`

	// Method is the probe method that failed
	Method AttemptMethod `json:"method,omitempty"`

	// Attempt is the 1-based attempt index the failure occurred on
	Attempt int `json:"attempt,omitempty"`

	// StatusCode is the HTTP status, when a response was received
	StatusCode int `json:"statusCode,omitempty"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Status maps the error kind to the public result status.
func (e *ValidationError) Status() ValidationStatus {
	switch e.Kind {
	case ErrKindNetwork:
		return StatusNetworkError
	case ErrKindCrossOrigin:
		return StatusCrossOriginError
	case ErrKindTimeout:
		return StatusTimeout
	case ErrKindNotFound:
		return StatusNotFound
	case ErrKindServer:
		return StatusServerError
	case ErrKindParse:
		return StatusParseError
	default:
		return StatusInvalid
	}
}
