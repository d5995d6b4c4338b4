package errors

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"feedcheck-api/core/domain"
)

var testCtx = ClassifyContext{URL: "https://example.com/feed.xml", Method: domain.MethodDirect, Attempt: 1}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status    int
		wantKind  domain.ErrorKind
		retryable bool
	}{
		{404, domain.ErrKindNotFound, false},
		{410, domain.ErrKindNotFound, false},
		{401, domain.ErrKindCrossOrigin, false},
		{403, domain.ErrKindCrossOrigin, false},
		{500, domain.ErrKindServer, true},
		{503, domain.ErrKindServer, true},
		{408, domain.ErrKindServer, true},
		{429, domain.ErrKindServer, true},
		{301, domain.ErrKindNetwork, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			verr := ClassifyStatus(tt.status, testCtx)
			if verr.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", verr.Kind, tt.wantKind)
			}
			if verr.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", verr.Retryable, tt.retryable)
			}
			if verr.StatusCode != tt.status {
				t.Errorf("status code = %d, want %d", verr.StatusCode, tt.status)
			}
			if len(verr.Suggestions) == 0 {
				t.Error("suggestions must not be empty")
			}
		})
	}
}

func TestClassify_DeadlineExceeded(t *testing.T) {
	verr := Classify(context.DeadlineExceeded, testCtx)
	if verr.Kind != domain.ErrKindTimeout {
		t.Errorf("kind = %s, want timeout", verr.Kind)
	}
	if !verr.Retryable {
		t.Error("timeouts must be retryable")
	}
}

func TestClassify_WrappedURLError(t *testing.T) {
	inner := &url.Error{Op: "Get", URL: "https://example.com", Err: context.DeadlineExceeded}
	verr := Classify(inner, testCtx)
	if verr.Kind != domain.ErrKindTimeout {
		t.Errorf("kind = %s, want timeout", verr.Kind)
	}
}

func TestClassify_MessageSniffing(t *testing.T) {
	tests := []struct {
		msg  string
		want domain.ErrorKind
	}{
		{"request blocked by CORS policy", domain.ErrKindCrossOrigin},
		{"net/http: request timed out", domain.ErrKindTimeout},
		{"dial tcp 1.2.3.4:443: connection refused", domain.ErrKindNetwork},
		{"lookup example.com: no such host", domain.ErrKindNetwork},
		{"something inexplicable happened", domain.ErrKindUnknown},
	}

	for _, tt := range tests {
		verr := Classify(errors.New(tt.msg), testCtx)
		if verr.Kind != tt.want {
			t.Errorf("Classify(%q) kind = %s, want %s", tt.msg, verr.Kind, tt.want)
		}
	}
}

func TestClassify_UnknownIsRetryable(t *testing.T) {
	verr := Classify(errors.New("mystery"), testCtx)
	if !verr.Retryable {
		t.Error("unknown failures are presumed transient and must be retryable")
	}
}

func TestClassify_PassesThroughClassifiedErrors(t *testing.T) {
	original := NewValidationError(domain.ErrKindNotFound, "gone", testCtx)
	wrapped := fmt.Errorf("fetch failed: %w", original)

	verr := Classify(wrapped, testCtx)
	if verr != original {
		t.Error("already-classified errors must pass through unchanged")
	}
}

func TestClassify_StampsContext(t *testing.T) {
	verr := Classify(errors.New("connection refused"), ClassifyContext{
		URL:     "https://example.com/feed.xml",
		Method:  domain.MethodRetry,
		Attempt: 2,
	})

	if verr.URL != "https://example.com/feed.xml" {
		t.Errorf("URL = %s", verr.URL)
	}
	if verr.Method != domain.MethodRetry {
		t.Errorf("Method = %s, want retry", verr.Method)
	}
	if verr.Attempt != 2 {
		t.Errorf("Attempt = %d, want 2", verr.Attempt)
	}
}

func TestRetryabilityTable(t *testing.T) {
	tests := []struct {
		kind domain.ErrorKind
		want bool
	}{
		{domain.ErrKindNetwork, true},
		{domain.ErrKindTimeout, true},
		{domain.ErrKindServer, true},
		{domain.ErrKindUnknown, true},
		{domain.ErrKindCrossOrigin, false},
		{domain.ErrKindNotFound, false},
		{domain.ErrKindParse, false},
		{domain.ErrKindInvalidFormat, false},
	}

	for _, tt := range tests {
		verr := NewValidationError(tt.kind, "x", testCtx)
		if verr.Retryable != tt.want {
			t.Errorf("kind %s retryable = %v, want %v", tt.kind, verr.Retryable, tt.want)
		}
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		kind domain.ErrorKind
		want domain.ValidationStatus
	}{
		{domain.ErrKindNetwork, domain.StatusNetworkError},
		{domain.ErrKindCrossOrigin, domain.StatusCrossOriginError},
		{domain.ErrKindTimeout, domain.StatusTimeout},
		{domain.ErrKindNotFound, domain.StatusNotFound},
		{domain.ErrKindServer, domain.StatusServerError},
		{domain.ErrKindParse, domain.StatusParseError},
		{domain.ErrKindInvalidFormat, domain.StatusInvalid},
		{domain.ErrKindUnknown, domain.StatusInvalid},
	}

	for _, tt := range tests {
		verr := NewValidationError(tt.kind, "x", testCtx)
		if got := verr.Status(); got != tt.want {
			t.Errorf("kind %s status = %s, want %s", tt.kind, got, tt.want)
		}
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "ctx") != nil {
		t.Error("WrapError(nil) should be nil")
	}

	base := errors.New("base")
	wrapped := WrapError(base, "ctx")
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to base")
	}
}
