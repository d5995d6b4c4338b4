// ABOUTME: Relay failover client for fetching feeds blocked by origin restrictions
// ABOUTME: Iterates an ordered relay pool, short-circuiting on first success

package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	cerrors "feedcheck-api/core/errors"
	"feedcheck-api/core/interfaces"
)

// maxBodySize bounds how much relay content is read into memory.
const maxBodySize = 5 << 20

// Endpoint is one relay in the pool. Template must contain a single %s
// placeholder that receives the query-escaped target URL.
type Endpoint struct {
	// Name identifies the relay in attempt logs
	Name string

	// Template rewrites the target URL into a same-origin-safe request
	Template string
}

// Client fetches URLs through an ordered pool of relay endpoints.
// A given relay is never retried; failover is the retry strategy here.
type Client struct {
	deps interfaces.Dependencies
	pool []Endpoint
}

// NewClient creates a relay client over the given pool. Pool order is
// priority order.
func NewClient(deps interfaces.Dependencies, pool []Endpoint) *Client {
	return &Client{deps: deps, pool: pool}
}

// PoolFromTemplates builds endpoints from raw template strings, naming each
// relay after its host.
func PoolFromTemplates(templates []string) []Endpoint {
	pool := make([]Endpoint, 0, len(templates))
	for _, tmpl := range templates {
		name := tmpl
		if u, err := url.Parse(strings.SplitN(tmpl, "%s", 2)[0]); err == nil && u.Host != "" {
			name = u.Host
		}
		pool = append(pool, Endpoint{Name: name, Template: tmpl})
	}
	return pool
}

// FetchViaRelay fetches url through the pool, returning the content and the
// relay that served it. Fails only when every configured relay fails.
func (c *Client) FetchViaRelay(ctx context.Context, target string) (*interfaces.RelayResult, error) {
	if len(c.pool) == 0 {
		return nil, errors.New("no relay endpoints configured")
	}

	var lastErr error
	for _, ep := range c.pool {
		content, err := c.fetchOne(ctx, ep, target)
		if err != nil {
			lastErr = err
			c.logWarn("relay fetch failed", map[string]interface{}{
				"relay": ep.Name,
				"url":   target,
				"error": err.Error(),
			})
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		return &interfaces.RelayResult{Content: content, Relay: ep.Name}, nil
	}

	return nil, cerrors.WrapError(lastErr, fmt.Sprintf("all %d relays failed", len(c.pool)))
}

func (c *Client) fetchOne(ctx context.Context, ep Endpoint, target string) ([]byte, error) {
	relayURL := fmt.Sprintf(ep.Template, url.QueryEscape(target))

	resp, err := c.deps.HTTPClient.Get(ctx, relayURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("relay %s returned HTTP %d", ep.Name, resp.StatusCode())
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body(), maxBodySize))
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (c *Client) logWarn(msg string, fields map[string]interface{}) {
	if c.deps.Logger != nil {
		c.deps.Logger.Warn(msg, fields)
	}
}
