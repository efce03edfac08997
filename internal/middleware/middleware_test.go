package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ashureev/odorcolor/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestCORSExplicitOrigin(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/survey", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want true", got)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestCORSWildcardWithoutCredentials(t *testing.T) {
	h := CORS([]string{"*"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/results", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("Allow-Credentials = %q, want empty for wildcard", got)
	}
}

func TestCORSConfiguredFrontend(t *testing.T) {
	cfg := &config.Config{FrontendURL: "https://survey.example.org"}
	h := CORS(cfg.AllowedOrigins())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/survey", nil)
	req.Header.Set("Origin", "https://survey.example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want true for the configured frontend", got)
	}

	other := httptest.NewRequest(http.MethodGet, "/api/survey", nil)
	other.Header.Set("Origin", "http://other.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin for another site = %q, want empty", got)
	}
}

func TestCORSUnknownOrigin(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://other.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty", got)
	}
}

func TestRateLimiterPerKey(t *testing.T) {
	rl := NewRateLimiter(6)
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") {
		t.Fatal("first event for a should pass")
	}
	if rl.Allow("a") {
		t.Fatal("second immediate event for a should be limited")
	}
	if !rl.Allow("b") {
		t.Fatal("b has its own bucket")
	}

	now = now.Add(11 * time.Second)
	if !rl.Allow("a") {
		t.Fatal("a should refill after one interval at 6/min")
	}
}

func TestRateLimiterDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1)
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(11 * time.Minute)
	rl.Allow("b")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.limiters["a"]; ok {
		t.Fatal("idle bucket for a should be dropped")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(1)
	h := rl.Middleware(func(*http.Request) string { return "same" })(okHandler())

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/survey/submit", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/survey/submit", nil))

	if first.Code != http.StatusNoContent {
		t.Errorf("first status = %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429", second.Code)
	}
}

func TestRateLimiterMiddlewareSkipsFailures(t *testing.T) {
	rl := NewRateLimiter(1)
	status := http.StatusInternalServerError
	h := rl.Middleware(func(*http.Request) string { return "same" })(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/survey/submit", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("failing attempt %d status = %d, want 500", i, rec.Code)
		}
	}

	status = http.StatusOK
	ok := httptest.NewRecorder()
	h.ServeHTTP(ok, httptest.NewRequest(http.MethodPost, "/api/survey/submit", nil))
	if ok.Code != http.StatusOK {
		t.Fatalf("retry after failures status = %d, want 200", ok.Code)
	}

	limited := httptest.NewRecorder()
	h.ServeHTTP(limited, httptest.NewRequest(http.MethodPost, "/api/survey/submit", nil))
	if limited.Code != http.StatusTooManyRequests {
		t.Fatalf("status after a success = %d, want 429", limited.Code)
	}
}

func TestRateLimiterReadyDoesNotSpend(t *testing.T) {
	rl := NewRateLimiter(1)
	for i := 0; i < 3; i++ {
		if !rl.Ready("a") {
			t.Fatalf("Ready call %d spent the token", i)
		}
	}
	rl.Charge("a")
	if rl.Ready("a") {
		t.Fatal("Ready after Charge should be false")
	}
}
