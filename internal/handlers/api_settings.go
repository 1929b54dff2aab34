package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"lpmanager/internal/middleware"
	"lpmanager/internal/workspace"
)

// providerStatus describes the AI providers the server can use.
type providerStatus struct {
	Active    string   `json:"active"`
	Enabled   bool     `json:"enabled"`
	Available []string `json:"available"`
}

func (a *API) providerStatus() providerStatus {
	if a.aiRegistry == nil {
		return providerStatus{Available: []string{}}
	}
	return providerStatus{
		Active:    a.aiRegistry.ActiveName(),
		Enabled:   a.aiRegistry.Enabled(),
		Available: a.aiRegistry.Available(),
	}
}

// AIProviderStatus reports the active AI provider and the configured ones.
func (a *API) AIProviderStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.providerStatus())
}

// AISetProvider switches the active AI provider at runtime. The switch is
// process-wide, not per session.
func (a *API) AISetProvider(w http.ResponseWriter, r *http.Request) {
	if a.aiRegistry == nil {
		writeError(w, r, fmt.Errorf("%w: ai generation", errUnavailable))
		return
	}
	var req struct {
		Provider string `json:"provider"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Provider)
	if name == "" {
		writeError(w, r, fmt.Errorf("%w: provider is required", errBadRequest))
		return
	}
	if err := a.aiRegistry.SetActive(name); err != nil {
		slog.Warn("failed to switch AI provider", "provider", name, "error", err)
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	slog.Info("ai provider switched", "provider", name)
	writeJSON(w, http.StatusOK, a.providerStatus())
}

// ResetWorkspace drops every template and the draft of the session. The
// next request starts from a fresh workspace.
func (a *API) ResetWorkspace(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionID(r.Context())
	if id == "" {
		writeError(w, r, workspace.ErrNoSession)
		return
	}
	a.workspaces.Discard(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}
