package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockLogger captures log calls for assertions
type mockLogger struct {
	entries []logEntry
}

type logEntry struct {
	level   string
	message string
	fields  map[string]interface{}
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {
	m.entries = append(m.entries, logEntry{"debug", msg, fields})
}

func (m *mockLogger) Info(msg string, fields map[string]interface{}) {
	m.entries = append(m.entries, logEntry{"info", msg, fields})
}

func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.entries = append(m.entries, logEntry{"warn", msg, fields})
}

func (m *mockLogger) Error(msg string, fields map[string]interface{}) {
	m.entries = append(m.entries, logEntry{"error", msg, fields})
}

func (m *mockLogger) byMessage(msg string) *logEntry {
	for i := range m.entries {
		if m.entries[i].message == msg {
			return &m.entries[i]
		}
	}
	return nil
}

func TestRequestLoggingMiddleware_LogsStartAndCompletion(t *testing.T) {
	logger := &mockLogger{}
	handler := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/validate", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	started := logger.byMessage("Request started")
	if started == nil {
		t.Fatal("no 'Request started' log entry")
	}
	if started.fields["method"] != http.MethodGet || started.fields["path"] != "/validate" {
		t.Errorf("start entry fields = %v", started.fields)
	}

	completed := logger.byMessage("Request completed")
	if completed == nil {
		t.Fatal("no 'Request completed' log entry")
	}
	if completed.fields["status"] != http.StatusOK {
		t.Errorf("completed status = %v, want 200", completed.fields["status"])
	}
}

func TestRequestLoggingMiddleware_SetsRequestIDHeader(t *testing.T) {
	logger := &mockLogger{}
	handler := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRequestID(r.Context()) == "" {
			t.Error("request ID missing from handler context")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID response header not set")
	}
}

func TestRequestLoggingMiddleware_UniqueRequestIDs(t *testing.T) {
	logger := &mockLogger{}
	handler := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	first := httptest.NewRecorder()
	second := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	a := first.Header().Get("X-Request-ID")
	b := second.Header().Get("X-Request-ID")
	if a == b {
		t.Errorf("request IDs should differ, both were %q", a)
	}
}

func TestRequestLoggingMiddleware_ServerErrorLogged(t *testing.T) {
	logger := &mockLogger{}
	handler := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/validate", nil))

	failed := logger.byMessage("Request failed with server error")
	if failed == nil {
		t.Fatal("no server-error log entry for 500 response")
	}
	if failed.level != "error" {
		t.Errorf("level = %q, want error", failed.level)
	}
}

func TestGetRequestID_MissingReturnsEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if id := GetRequestID(req.Context()); id != "" {
		t.Errorf("GetRequestID = %q, want empty", id)
	}
}

func TestResponseWriter_ImplicitOKOnWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.Write([]byte("body"))

	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want 200", rw.statusCode)
	}
	if !rw.written {
		t.Error("written flag not set after Write")
	}
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK)

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, want 404", rw.statusCode)
	}
}
