package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// captureLogs redirects the default logger into a buffer for one test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLevel string
	}{
		{"ok", http.StatusOK, "hello", "level=INFO"},
		{"client error", http.StatusNotFound, "", "level=WARN"},
		{"server error", http.StatusInternalServerError, "", "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d", rr.Code, tt.status)
			}
			out := logs.String()
			for _, want := range []string{tt.wantLevel, "path=/api/templates", "method=GET"} {
				if !strings.Contains(out, want) {
					t.Errorf("log line missing %q: %s", want, out)
				}
			}
		})
	}
}

func TestLoggerDefaultStatus(t *testing.T) {
	logs := captureLogs(t)
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/draft", nil))

	if rr.Body.String() != "hello" {
		t.Errorf("body: got %q", rr.Body.String())
	}
	if out := logs.String(); !strings.Contains(out, "status=200") || !strings.Contains(out, "bytes=5") {
		t.Errorf("log line = %s", out)
	}
}

func TestLoggerRoutePattern(t *testing.T) {
	logs := captureLogs(t)
	r := chi.NewRouter()
	r.Use(Logger)
	r.Get("/api/templates/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/templates/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	out := logs.String()
	for _, want := range []string{"route=/api/templates/{id}", "path=/api/templates/abc", "route=unmatched"} {
		if !strings.Contains(out, want) {
			t.Errorf("logs missing %q: %s", want, out)
		}
	}
}

func TestStatusRecorder(t *testing.T) {
	t.Run("first status wins", func(t *testing.T) {
		sr := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
		sr.WriteHeader(http.StatusNotFound)
		sr.WriteHeader(http.StatusInternalServerError)
		if sr.code() != http.StatusNotFound {
			t.Errorf("code() = %d, want 404", sr.code())
		}
	})

	t.Run("no writes means 200", func(t *testing.T) {
		sr := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
		if sr.code() != http.StatusOK {
			t.Errorf("code() = %d, want 200", sr.code())
		}
	})

	t.Run("bytes accumulate", func(t *testing.T) {
		sr := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
		sr.Write([]byte("created"))
		sr.Write([]byte("!"))
		if sr.bytes != 8 || sr.code() != http.StatusOK {
			t.Errorf("bytes = %d, code = %d", sr.bytes, sr.code())
		}
	})

	t.Run("unwrap", func(t *testing.T) {
		rr := httptest.NewRecorder()
		if (&statusRecorder{ResponseWriter: rr}).Unwrap() != rr {
			t.Error("Unwrap returned a different writer")
		}
	})
}
