// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the template manager.
// Handlers are grouped by concern (JSON API, preview pages, health) and
// receive their dependencies through the handler struct. Every request
// works on the workspace of its session.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"lpmanager/internal/ai"
	"lpmanager/internal/draft"
	"lpmanager/internal/engine"
	"lpmanager/internal/middleware"
	"lpmanager/internal/sanitize"
	"lpmanager/internal/storage"
	"lpmanager/internal/store"
	"lpmanager/internal/workspace"
)

// maxRequestBytes caps JSON request bodies. Import documents and pasted
// HTML get their own, larger limit derived from the HTML size ceiling.
const maxRequestBytes = 1 << 20

// errBadRequest marks malformed request input.
var errBadRequest = errors.New("bad request")

// errUnavailable marks optional services that are not configured.
var errUnavailable = errors.New("service not configured")

// errBadGateway marks unusable answers from upstream services.
var errBadGateway = errors.New("bad upstream answer")

// Options carry the rendering settings shared by API and preview handlers.
type Options struct {
	BrandColor   string
	MaxHTMLBytes int
}

// API groups the JSON API handlers and their dependencies. The AI
// registry, storage client and snapshot store are optional; their
// endpoints answer 503 when nil.
type API struct {
	workspaces *workspace.Manager
	engine     *engine.Engine
	aiRegistry *ai.Registry
	storage    *storage.Client
	snapshots  *store.SnapshotStore
	opts       Options
}

// NewAPI creates the API handler group.
func NewAPI(workspaces *workspace.Manager, eng *engine.Engine, aiRegistry *ai.Registry, storageClient *storage.Client, snapshots *store.SnapshotStore, opts Options) *API {
	if opts.MaxHTMLBytes <= 0 {
		opts.MaxHTMLBytes = sanitize.DefaultMaxBytes
	}
	if opts.BrandColor == "" {
		opts.BrandColor = engine.DefaultBrandColor
	}
	return &API{
		workspaces: workspaces,
		engine:     eng,
		aiRegistry: aiRegistry,
		storage:    storageClient,
		snapshots:  snapshots,
		opts:       opts,
	}
}

// workspace returns the workspace of the request's session.
func (a *API) workspace(r *http.Request) (*workspace.Workspace, error) {
	return a.workspaces.Get(r.Context(), middleware.SessionID(r.Context()))
}

// update runs fn as one serialized, persisted mutation of the session's
// workspace.
func (a *API) update(r *http.Request, fn func(*workspace.Workspace) error) error {
	return a.workspaces.Update(r.Context(), middleware.SessionID(r.Context()), fn)
}

// bodyLimit is the size limit for documents that may embed a whole HTML
// page: the HTML ceiling plus room for JSON escaping.
func (a *API) bodyLimit() int64 {
	return int64(a.opts.MaxHTMLBytes)*2 + maxRequestBytes
}

// decodeJSON reads a JSON body of at most maxRequestBytes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return decodeJSONLimit(w, r, v, maxRequestBytes)
}

func decodeJSONLimit(w http.ResponseWriter, r *http.Request, v any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body too large", sanitize.ErrDocumentTooLarge)
		}
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

// readBody reads a raw body of at most limit bytes.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: request body exceeds %d bytes", sanitize.ErrDocumentTooLarge, limit)
		}
		return nil, fmt.Errorf("%w: read body: %v", errBadRequest, err)
	}
	return data, nil
}

// writeJSON sends data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// errorResponse is the body of every API error.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError maps err to a status code and a JSON error body. Unexpected
// errors are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	body := errorResponse{Error: err.Error()}

	var verr *draft.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		body.Error = "internal server error"
	}
	writeJSON(w, status, body)
}

func errorStatus(err error) int {
	var verr *draft.ValidationError
	var apiErr *ai.APIError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound), errors.Is(err, draft.ErrNoDraft):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, sanitize.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, store.ErrInvalidStatus),
		errors.Is(err, store.ErrMalformedDocument),
		errors.Is(err, sanitize.ErrEmptyDocument),
		errors.Is(err, sanitize.ErrNotHTMLDocument),
		errors.Is(err, draft.ErrNotJSONObject),
		errors.Is(err, draft.ErrInvalidInfo),
		errors.Is(err, engine.ErrNotApproved),
		errors.Is(err, engine.ErrNoSections),
		errors.Is(err, engine.ErrEmptyHTML):
		return http.StatusBadRequest
	case errors.Is(err, errUnavailable), errors.Is(err, ai.ErrNoProvider):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr), errors.Is(err, errBadGateway), errors.Is(err, ai.ErrTruncated):
		return http.StatusBadGateway
	case errors.Is(err, workspace.ErrNoSession):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
