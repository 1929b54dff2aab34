package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"lpmanager/internal/draft"
	"lpmanager/internal/metrics"
	"lpmanager/internal/models"
	"lpmanager/internal/sanitize"
	"lpmanager/internal/slug"
	"lpmanager/internal/store"
	"lpmanager/internal/workspace"
)

// filterFromQuery builds a store filter from status, section_type and
// category query parameters.
func filterFromQuery(r *http.Request) (store.Filter, error) {
	q := r.URL.Query()
	f := store.Filter{
		Status:      models.Status(q.Get("status")),
		SectionType: models.SectionType(q.Get("section_type")),
		Category:    models.SectionCategory(q.Get("category")),
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, fmt.Errorf("%w: %q", store.ErrInvalidStatus, f.Status)
	}
	if f.Category != "" {
		if _, ok := models.SectionCategories[f.Category]; !ok {
			return f, fmt.Errorf("%w: unknown category %q", errBadRequest, f.Category)
		}
	}
	return f, nil
}

// ListTemplates returns the workspace's records matching the query filter.
func (a *API) ListTemplates(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ws, err := a.workspace(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	records := ws.Templates.List(f)
	writeJSON(w, http.StatusOK, map[string]any{
		"templates": records,
		"count":     len(records),
	})
}

// CreateTemplate adds a record posted as JSON. Pasted HTML content is
// checked and sanitized before it is stored.
func (a *API) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var rec models.TemplateRecord
	if err := decodeJSONLimit(w, r, &rec, a.bodyLimit()); err != nil {
		writeError(w, r, err)
		return
	}
	if rec.Status == "" {
		rec.Status = models.StatusDraft
	}
	if rec.Format == "" {
		rec.Format = models.FormatJSON
	}
	if err := a.cleanHTML(&rec.HTMLContent, rec.Format); err != nil {
		writeError(w, r, err)
		return
	}
	if err := draft.Validate(&rec); err != nil {
		writeError(w, r, err)
		return
	}

	var saved *models.TemplateRecord
	err := a.update(r, func(ws *workspace.Workspace) error {
		var err error
		saved, err = ws.Templates.Add(&rec)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// cleanHTML sanitizes a stored HTML document in place. JSON records may
// not carry one.
func (a *API) cleanHTML(doc *string, format models.Format) error {
	if format != models.FormatHTML {
		if strings.TrimSpace(*doc) != "" {
			return fmt.Errorf("%w: html_content requires format \"html\"", errBadRequest)
		}
		*doc = ""
		return nil
	}
	if _, err := sanitize.Check(*doc, a.opts.MaxHTMLBytes); err != nil {
		return err
	}
	*doc = sanitize.Document(*doc)
	metrics.IncSanitized()
	return nil
}

// GetTemplate returns one record.
func (a *API) GetTemplate(w http.ResponseWriter, r *http.Request) {
	ws, err := a.workspace(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	rec, ok := ws.Templates.FindByID(id)
	if !ok {
		writeError(w, r, fmt.Errorf("template %s: %w", id, store.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// UpdateTemplate applies a shallow patch. Unknown ids answer 404.
func (a *API) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var p models.TemplatePatch
	if err := decodeJSONLimit(w, r, &p, a.bodyLimit()); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validatePatch(&p); msg != "" {
		writeError(w, r, fmt.Errorf("%w: %s", errBadRequest, msg))
		return
	}

	id := chi.URLParam(r, "id")
	var updated *models.TemplateRecord
	err := a.update(r, func(ws *workspace.Workspace) error {
		if p.HTMLContent != nil {
			current, ok := ws.Templates.FindByID(id)
			if !ok {
				return fmt.Errorf("update template %s: %w", id, store.ErrNotFound)
			}
			format := current.Format
			if p.Format != nil {
				format = *p.Format
			}
			if err := a.cleanHTML(p.HTMLContent, format); err != nil {
				return err
			}
		}
		var err error
		updated, err = ws.Templates.Update(id, p)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.engine.Invalidate(id)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTemplate removes a record. Deleting an unknown id still answers
// 204; the response header X-Deleted tells the two cases apart.
func (a *API) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var removed bool
	err := a.update(r, func(ws *workspace.Workspace) error {
		removed = ws.Templates.Delete(id)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.engine.Invalidate(id)
	w.Header().Set("X-Deleted", fmt.Sprint(removed))
	w.WriteHeader(http.StatusNoContent)
}

// statusRequest is the body of SetStatus.
type statusRequest struct {
	Status        models.Status `json:"status"`
	ReviewComment *string       `json:"review_comment"`
}

// SetStatus moves a record through review (draft, approved, need_fix) and
// optionally records a review comment.
func (a *API) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !req.Status.Valid() {
		writeError(w, r, fmt.Errorf("%w: %q", store.ErrInvalidStatus, req.Status))
		return
	}
	if req.ReviewComment != nil {
		if msg := validateReviewComment(*req.ReviewComment); msg != "" {
			writeError(w, r, fmt.Errorf("%w: %s", errBadRequest, msg))
			return
		}
	}

	id := chi.URLParam(r, "id")
	var updated *models.TemplateRecord
	err := a.update(r, func(ws *workspace.Workspace) error {
		current, ok := ws.Templates.FindByID(id)
		if !ok {
			return fmt.Errorf("set status %s: %w", id, store.ErrNotFound)
		}
		p := models.TemplatePatch{Status: &req.Status}
		if req.ReviewComment != nil {
			meta := current.Metadata
			meta.ReviewComment = strings.TrimSpace(*req.ReviewComment)
			p.Metadata = &meta
		}
		var err error
		updated, err = ws.Templates.Update(id, p)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DownloadTemplate sends one record as a JSON attachment.
func (a *API) DownloadTemplate(w http.ResponseWriter, r *http.Request) {
	ws, err := a.workspace(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	rec, ok := ws.Templates.FindByID(id)
	if !ok {
		writeError(w, r, fmt.Errorf("download template %s: %w", id, store.ErrNotFound))
		return
	}
	data, err := ws.Templates.ExportRecord(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeAttachment(w, "application/json; charset=utf-8", slug.Filename(rec.DisplayName, "template-"+id, ".json"), data)
}

// Export sends the whole workspace as an export document.
func (a *API) Export(w http.ResponseWriter, r *http.Request) {
	ws, err := a.workspace(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := ws.Templates.Export()
	if err != nil {
		writeError(w, r, err)
		return
	}
	name := "lp_templates_" + time.Now().Format("20060102_150405") + ".json"
	writeAttachment(w, "application/json; charset=utf-8", name, data)
}

// Import replaces the workspace's records with an export document posted
// as the request body. A malformed document changes nothing.
func (a *API) Import(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r, a.bodyLimit()*8)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var n int
	err = a.update(r, func(ws *workspace.Workspace) error {
		var err error
		n, err = ws.Templates.Import(data)
		return err
	})
	metrics.ObserveImport(err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.engine.InvalidateAll()
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

// Stats returns the number of records per section type.
func (a *API) Stats(w http.ResponseWriter, r *http.Request) {
	ws, err := a.workspace(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	byStatus := make(map[models.Status]int)
	for _, rec := range ws.Templates.List(store.Filter{}) {
		byStatus[rec.Status]++
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":      ws.Templates.Count(),
		"by_section": ws.Templates.Stats(),
		"by_status":  byStatus,
	})
}

// sectionInfo describes one section type for clients.
type sectionInfo struct {
	Type     models.SectionType     `json:"type"`
	Label    string                 `json:"label"`
	Category models.SectionCategory `json:"category"`
	Order    int                    `json:"order"`
}

// Sections lists the known section types in page order.
func (a *API) Sections(w http.ResponseWriter, r *http.Request) {
	out := make([]sectionInfo, 0, len(models.SectionOrder))
	for i, st := range models.SectionOrder {
		out = append(out, sectionInfo{Type: st, Label: st.Label(), Category: st.Category(), Order: i})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sections":   out,
		"categories": models.SectionCategories,
	})
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
