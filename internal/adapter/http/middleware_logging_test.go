package adapthttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"songbook/internal/logging"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := &Server{log: logging.FromZap(zap.New(core)), metrics: NewMetrics()}

	var seenID string
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = logging.RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	})

	handler := s.loggingMiddleware(nextHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status %d, got %d", http.StatusTeapot, w.Code)
	}
	if seenID == "" || w.Header().Get("X-Request-ID") != seenID {
		t.Errorf("expected request id in context and header, got %q / %q", seenID, w.Header().Get("X-Request-ID"))
	}

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != "GET" || fields["path"] != "/test-path" || fields["status"] != int64(418) {
		t.Errorf("Log entry missing expected fields. Got: %v", fields)
	}
	if fields["request_id"] != seenID {
		t.Errorf("expected request_id %q, got %v", seenID, fields["request_id"])
	}
}

func TestLoggingMiddleware_KeepsIncomingRequestID(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	s := &Server{log: logging.FromZap(zap.New(core)), metrics: NewMetrics()}

	handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected incoming request id to be kept, got %q", got)
	}
}

func TestRequireLogin(t *testing.T) {
	s := &Server{
		log:     logging.Nop(),
		metrics: NewMetrics(),
		cookies: newCookieCodec("0123456789abcdef", 0, false),
	}
	called := false
	handler := s.requireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/dashboard", nil))

	if called {
		t.Error("protected handler must not run for anonymous sessions")
	}
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Errorf("expected 303 to /login, got %d %s", w.Code, w.Header().Get("Location"))
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("expected a flash cookie")
	}
}
