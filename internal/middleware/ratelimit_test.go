package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestLimiter returns a limiter driven by a fake clock.
func newTestLimiter(t *testing.T, perMinute, burst int) (*RateLimiter, *time.Time) {
	t.Helper()
	rl := NewRateLimiter(perMinute, burst)
	t.Cleanup(rl.Stop)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiterAllow(t *testing.T) {
	rl, _ := newTestLimiter(t, 60, 3)

	for i := 0; i < 3; i++ {
		if !rl.allow("client") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("client") {
		t.Error("4th request should be rate-limited")
	}
	if !rl.allow("other") {
		t.Error("different client should be allowed")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl, now := newTestLimiter(t, 6, 1)

	if !rl.allow("client") {
		t.Fatal("first request should be allowed")
	}
	ok, wait := rl.reserve("client")
	if ok {
		t.Fatal("second request should be limited")
	}
	if wait <= 0 || wait > 10*time.Second {
		t.Errorf("wait = %v, want (0, 10s]", wait)
	}

	// A rejected request must not consume the next token.
	*now = now.Add(10 * time.Second)
	if !rl.allow("client") {
		t.Error("request should be allowed after the refill interval")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, 2)
	handler := rl.Middleware(okHandler())

	send := func(session string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/draft/generate", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		if session != "" {
			req = req.WithContext(WithSessionID(req.Context(), session))
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := send("s1"); rr.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i+1, rr.Code)
		}
	}
	rr := send("s1")
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("got status %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("429 response should carry Retry-After")
	}

	// Same IP, different session: separate bucket.
	if rr := send("s2"); rr.Code != http.StatusOK {
		t.Errorf("other session: got %d, want 200", rr.Code)
	}
	// No session: keyed by IP.
	if rr := send(""); rr.Code != http.StatusOK {
		t.Errorf("anonymous: got %d, want 200", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"x-forwarded-for single", "10.0.0.1", "", "192.168.1.1:1234", "10.0.0.1"},
		{"x-forwarded-for multiple", "10.0.0.1, 172.16.0.1", "", "192.168.1.1:1234", "10.0.0.1"},
		{"x-real-ip", "", "10.0.0.2", "192.168.1.1:1234", "10.0.0.2"},
		{"remote addr only", "", "", "192.168.1.1:1234", "192.168.1.1"},
		{"remote addr no port", "", "", "192.168.1.1", "192.168.1.1"},
		{"ipv6", "", "", "[::1]:8080", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl, now := newTestLimiter(t, 60, 5)

	rl.allow("old")
	*now = now.Add(idleLimiterTTL + time.Minute)
	rl.allow("fresh")

	rl.cleanup()

	rl.mu.Lock()
	_, oldExists := rl.clients["old"]
	_, freshExists := rl.clients["fresh"]
	rl.mu.Unlock()

	if oldExists {
		t.Error("idle client should have been cleaned up")
	}
	if !freshExists {
		t.Error("recent client should be kept")
	}
}
