// ABOUTME: Standard HTTP client implementation with hard timeout cancellation
// ABOUTME: Issues single-shot requests; retry policy belongs to the validation orchestrator

package standard

import (
	"context"
	"io"
	"net/http"
	"time"

	"feedcheck-api/core/interfaces"
)

const userAgent = "FeedcheckAPI/1.0"

// StandardHTTPClient implements the HTTPClient interface using the standard
// library. Context cancellation aborts the request's connection, not just
// the wait, so abandoned attempts release their resources.
type StandardHTTPClient struct {
	client  *http.Client
	headers map[string]string
}

// NewStandardHTTPClient creates a new HTTP client. timeout is an outer
// safety net; per-attempt timeouts arrive via the request context.
func NewStandardHTTPClient(timeout time.Duration) *StandardHTTPClient {
	return &StandardHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetHeader adds a header sent with every request.
func (c *StandardHTTPClient) SetHeader(key, value string) {
	if c.headers == nil {
		c.headers = map[string]string{}
	}
	c.headers[key] = value
}

// Get performs an HTTP GET request.
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, text/html;q=0.9, */*;q=0.8")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
