// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lpmanager/internal/metrics"
	"lpmanager/internal/store"
	"lpmanager/internal/workspace"
)

// snapshotStore returns the snapshot library or an unavailable error.
func (a *API) snapshotStore() (*store.SnapshotStore, error) {
	if a.snapshots == nil {
		return nil, fmt.Errorf("%w: snapshot library needs PostgreSQL", errUnavailable)
	}
	return a.snapshots, nil
}

func snapshotID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid snapshot id", errBadRequest)
	}
	return id, nil
}

// ListSnapshots returns the saved snapshots, newest first, without their
// documents.
func (a *API) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := a.snapshotStore()
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := snaps.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": list})
}

// snapshotRequest is the body of CreateSnapshot.
type snapshotRequest struct {
	Name string `json:"name"`
}

// CreateSnapshot saves the workspace's current export document under a
// name.
func (a *API) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	snaps, err := a.snapshotStore()
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req snapshotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if msg := validateSnapshotName(req.Name); msg != "" {
		writeError(w, r, fmt.Errorf("%w: %s", errBadRequest, msg))
		return
	}

	ws, err := a.workspace(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := ws.Templates.Export()
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := snaps.Create(r.Context(), req.Name, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap.Document = nil
	writeJSON(w, http.StatusCreated, snap)
}

// RestoreSnapshot replaces the workspace's records with a saved snapshot.
func (a *API) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	snaps, err := a.snapshotStore()
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := snapshotID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := snaps.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if snap == nil {
		writeError(w, r, fmt.Errorf("snapshot %s: %w", id, store.ErrNotFound))
		return
	}

	var n int
	err = a.update(r, func(ws *workspace.Workspace) error {
		var err error
		n, err = ws.Templates.Import(snap.Document)
		return err
	})
	metrics.ObserveImport(err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.engine.InvalidateAll()
	writeJSON(w, http.StatusOK, map[string]any{"restored": n, "snapshot": snap.Name})
}

// DeleteSnapshot removes a saved snapshot.
func (a *API) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	snaps, err := a.snapshotStore()
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := snapshotID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := snaps.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
