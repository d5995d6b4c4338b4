package validation

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"feedcheck-api/core/interfaces"
)

// mockHTTPClient is a mock implementation of the HTTPClient interface
type mockHTTPClient struct {
	mu      sync.Mutex
	calls   int
	getFunc func(ctx context.Context, url string) (interfaces.Response, error)
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.getFunc != nil {
		return m.getFunc(ctx, url)
	}
	return nil, errors.New("no response configured")
}

func (m *mockHTTPClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockResponse is a mock implementation of the Response interface
type mockResponse struct {
	statusCode int
	body       string
	headers    map[string]string
}

func (m *mockResponse) StatusCode() int {
	return m.statusCode
}

func (m *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(strings.NewReader(m.body))
}

func (m *mockResponse) Header(key string) string {
	if m.headers != nil {
		return m.headers[key]
	}
	return ""
}

// memoryBackend is a minimal in-memory Cache for tests
type memoryBackend struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{items: map[string][]byte{}}
}

func (m *memoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.items[key]; ok {
		return v, nil
	}
	return nil, errors.New("key not found")
}

func (m *memoryBackend) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *memoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *memoryBackend) DeletePattern(_ context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	removed := 0
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
			removed++
		}
	}
	return removed, nil
}

func (m *memoryBackend) Entries(_ context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	count := 0
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			count++
		}
	}
	return count, nil
}

// mockRelay is a mock implementation of the RelayClient interface
type mockRelay struct {
	mu        sync.Mutex
	calls     int
	fetchFunc func(ctx context.Context, url string) (*interfaces.RelayResult, error)
}

func (m *mockRelay) FetchViaRelay(ctx context.Context, url string) (*interfaces.RelayResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url)
	}
	return nil, errors.New("all relays failed")
}

func (m *mockRelay) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockDiscovery is a mock implementation of the DiscoveryEngine interface
type mockDiscovery struct {
	discoverFunc func(ctx context.Context, url string) (*interfaces.DiscoveryOutcome, error)
}

func (m *mockDiscovery) DiscoverFromWebsite(ctx context.Context, url string) (*interfaces.DiscoveryOutcome, error) {
	if m.discoverFunc != nil {
		return m.discoverFunc(ctx, url)
	}
	return &interfaces.DiscoveryOutcome{}, nil
}

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>T</title>
    <description>D</description>
    <link>https://example.com</link>
    <item><title>first</title><link>https://example.com/1</link></item>
  </channel>
</rss>`

const htmlDoc = `<!DOCTYPE html><html><head><title>Site</title></head><body>hello</body></html>`
