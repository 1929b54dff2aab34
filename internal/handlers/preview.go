package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"lpmanager/internal/engine"
	"lpmanager/internal/middleware"
	"lpmanager/internal/models"
	"lpmanager/internal/render"
	"lpmanager/internal/store"
	"lpmanager/internal/workspace"
)

// Preview serves the host pages and the sandboxed frame documents. Host
// pages list records and embed each rendered document in an iframe; the
// documents themselves are only ever served from the frame routes.
type Preview struct {
	renderer   *render.Renderer
	engine     *engine.Engine
	workspaces *workspace.Manager
	opts       Options
}

// NewPreview creates the preview handler group.
func NewPreview(renderer *render.Renderer, eng *engine.Engine, workspaces *workspace.Manager, opts Options) *Preview {
	if opts.BrandColor == "" {
		opts.BrandColor = engine.DefaultBrandColor
	}
	return &Preview{renderer: renderer, engine: eng, workspaces: workspaces, opts: opts}
}

func (p *Preview) workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	ws, err := p.workspaces.Get(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		slog.Error("load workspace", "error", err)
		http.Error(w, "workspace unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return ws, true
}

// sectionCount is one entry of the per-section statistics bar.
type sectionCount struct {
	Type  models.SectionType
	Count int
}

// orderedStats returns non-zero counts in page order, unknown types last.
func orderedStats(stats map[models.SectionType]int) []sectionCount {
	out := make([]sectionCount, 0, len(stats))
	for st, n := range stats {
		out = append(out, sectionCount{Type: st, Count: n})
	}
	slices.SortFunc(out, func(a, b sectionCount) int {
		if d := a.Type.OrderIndex() - b.Type.OrderIndex(); d != 0 {
			return d
		}
		if a.Type < b.Type {
			return -1
		}
		if a.Type > b.Type {
			return 1
		}
		return 0
	})
	return out
}

// Index renders the workspace listing with one sandboxed preview per record.
func (p *Preview) Index(w http.ResponseWriter, r *http.Request) {
	ws, ok := p.workspace(w, r)
	if !ok {
		return
	}
	f, err := filterFromQuery(r)
	var flashes []render.Flash
	if err != nil {
		flashes = append(flashes, render.Flash{Type: "warning", Message: err.Error()})
		f = store.Filter{}
	}

	p.renderer.Page(w, r, "index", &render.PageData{
		Title:      "Templates",
		Section:    "templates",
		BrandColor: brandColorFrom(r, ""),
		Count:      ws.Templates.Count(),
		Flashes:    flashes,
		Data: map[string]any{
			"Records":  ws.Templates.List(f),
			"Filter":   f,
			"Statuses": []models.Status{models.StatusDraft, models.StatusApproved, models.StatusNeedFix},
			"Sections": models.SectionOrder,
			"Stats":    orderedStats(ws.Templates.Stats()),
		},
	})
}

// Template renders the host page of a single record.
func (p *Preview) Template(w http.ResponseWriter, r *http.Request) {
	ws, ok := p.workspace(w, r)
	if !ok {
		return
	}
	rec, found := ws.Templates.FindByID(chi.URLParam(r, "id"))
	if !found {
		http.NotFound(w, r)
		return
	}
	p.renderer.Page(w, r, "template", &render.PageData{
		Title:      rec.DisplayName,
		Section:    "templates",
		BrandColor: brandColorFrom(r, ""),
		Count:      ws.Templates.Count(),
		Data:       map[string]any{"Record": rec},
	})
}

// Draft renders the host page of the draft in progress.
func (p *Preview) Draft(w http.ResponseWriter, r *http.Request) {
	ws, ok := p.workspace(w, r)
	if !ok {
		return
	}
	data := map[string]any{}
	if d := ws.Draft(); d != nil {
		data["Draft"] = d
	}
	p.renderer.Page(w, r, "draft", &render.PageData{
		Title:      "Draft",
		Section:    "draft",
		BrandColor: brandColorFrom(r, ""),
		Count:      ws.Templates.Count(),
		Data:       data,
	})
}

// renderOptions reads the frame query parameters.
func (p *Preview) renderOptions(r *http.Request) engine.Options {
	return engine.Options{
		BrandColor: brandColorFrom(r, p.opts.BrandColor),
		RichText:   r.URL.Query().Get("rich") == "1",
	}
}

// FrameTemplate serves the rendered document of one record. It must be
// routed behind middleware.Sandbox.
func (p *Preview) FrameTemplate(w http.ResponseWriter, r *http.Request) {
	ws, ok := p.workspace(w, r)
	if !ok {
		return
	}
	rec, found := ws.Templates.FindByID(chi.URLParam(r, "id"))
	if !found {
		http.NotFound(w, r)
		return
	}
	writeDocument(w, p.engine.SafeRender(rec, p.renderOptions(r)))
}

// FrameDraft serves the rendered document of the draft in progress. It
// must be routed behind middleware.Sandbox.
func (p *Preview) FrameDraft(w http.ResponseWriter, r *http.Request) {
	ws, ok := p.workspace(w, r)
	if !ok {
		return
	}
	d := ws.Draft()
	if d == nil {
		http.NotFound(w, r)
		return
	}
	writeDocument(w, p.engine.SafeRender(d, p.renderOptions(r)))
}

func writeDocument(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
