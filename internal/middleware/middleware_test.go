package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"insights-chat/internal/config"
	"insights-chat/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mark("a"), mark("b"), mark("c"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got := strings.Join(order, ","); got != "a,b,c,handler" {
		t.Errorf("order = %s", got)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = observability.GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("request ID should be generated")
	}
	if w.Header().Get("X-Request-ID") != seen {
		t.Error("response header should echo the request ID")
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "client-id")
	h.ServeHTTP(httptest.NewRecorder(), r)
	if seen != "client-id" {
		t.Errorf("request ID = %q, want client-id", seen)
	}
}

func TestTracing_NestsSpan(t *testing.T) {
	var span *observability.Span
	h := Tracing(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span = observability.GetSpan(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	if span == nil {
		t.Fatal("span should be in the request context")
	}
	if span.Operation != "GET /missing" {
		t.Errorf("operation = %q", span.Operation)
	}
	if span.Status != observability.SpanStatusError {
		t.Errorf("status = %s, want ERROR for 404", span.Status)
	}
	if span.Duration == nil {
		t.Error("span should be finished")
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(config.SecurityConfig{
		EnableRateLimit: true,
		RateLimitRPS:    1,
		RateLimitBurst:  2,
	})
	h := RateLimit(limiter, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", codes[2])
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	limiter := NewRateLimiter(config.SecurityConfig{EnableRateLimit: false, RateLimitRPS: 1, RateLimitBurst: 1})

	for i := 0; i < 5; i++ {
		if !limiter.Allow("10.0.0.2") {
			t.Fatal("disabled limiter should always allow")
		}
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestBodyLimit(t *testing.T) {
	var readErr error
	h := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this body is too long")))

	if readErr == nil {
		t.Error("reading past the limit should fail")
	}
}

func TestCORS(t *testing.T) {
	h := CORS(config.SecurityConfig{AllowedOrigins: []string{"http://ok.test"}})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	r := httptest.NewRequest(http.MethodOptions, "/api/query", nil)
	r.Header.Set("Origin", "http://ok.test")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want 200", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://ok.test" {
		t.Error("allowed origin should be echoed")
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin should not be allowed")
	}
}
