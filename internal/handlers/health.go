package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"lpmanager/internal/workspace"
)

// Health reports the state of the server and its optional backends.
type Health struct {
	db         *sql.DB
	valkey     *redis.Client
	workspaces *workspace.Manager
}

// NewHealth creates the health handler. db and valkey may be nil when the
// corresponding backend is not configured.
func NewHealth(db *sql.DB, valkey *redis.Client, workspaces *workspace.Manager) *Health {
	return &Health{db: db, valkey: valkey, workspaces: workspaces}
}

// ServeHTTP answers 200 when every configured backend responds and 503
// otherwise.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{"database": "disabled", "valkey": "disabled"}
	if h.db != nil {
		checks["database"] = "ok"
		if err := h.db.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if h.valkey != nil {
		checks["valkey"] = "ok"
		if err := h.valkey.Ping(ctx).Err(); err != nil {
			checks["valkey"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	body := map[string]any{"status": "ok", "checks": checks, "workspaces": h.workspaces.Len()}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	writeJSON(w, status, body)
}
