package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"lpmanager/internal/engine"
	"lpmanager/internal/middleware"
	"lpmanager/internal/models"
	"lpmanager/internal/sanitize"
	"lpmanager/internal/slug"
	"lpmanager/internal/store"
)

// sectionChoice is one approved template offered for a page section.
type sectionChoice struct {
	ID          string `json:"template_id"`
	DisplayName string `json:"display_name"`
}

// sectionGroup lists the approved templates of one section type.
type sectionGroup struct {
	Type      models.SectionType `json:"section_type"`
	Label     string             `json:"label"`
	Templates []sectionChoice    `json:"templates"`
}

// PageSections lists the approved templates grouped by section type in
// page order. Only approved templates can be assembled into a page.
func (a *API) PageSections(w http.ResponseWriter, r *http.Request) {
	ws, err := a.workspace(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	groups := make([]sectionGroup, 0, len(models.SectionOrder))
	for _, st := range models.SectionOrder {
		g := sectionGroup{Type: st, Label: st.Label(), Templates: []sectionChoice{}}
		for _, rec := range ws.Templates.Approved(st) {
			g.Templates = append(g.Templates, sectionChoice{ID: rec.ID, DisplayName: rec.DisplayName})
		}
		groups = append(groups, g)
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": groups})
}

// assemble resolves a page config against the workspace and renders the
// page. The returned config has defaults filled in.
func (a *API) assemble(r *http.Request, cfg models.PageConfig) ([]byte, models.PageConfig, error) {
	if msg := validatePageConfig(&cfg); msg != "" {
		return nil, cfg, fmt.Errorf("%w: %s", errBadRequest, msg)
	}
	if cfg.BrandColor == "" {
		cfg.BrandColor = a.opts.BrandColor
	}
	cfg.CreatedAt = models.Now()

	ws, err := a.workspace(r)
	if err != nil {
		return nil, cfg, err
	}
	records := make([]models.TemplateRecord, 0, len(cfg.Sections))
	for st, id := range cfg.Sections {
		rec, ok := ws.Templates.FindByID(id)
		if !ok {
			return nil, cfg, fmt.Errorf("section %s: template %s: %w", st, id, store.ErrNotFound)
		}
		if rec.SectionType != st {
			return nil, cfg, fmt.Errorf("%w: template %s is a %s section, not %s", errBadRequest, id, rec.SectionType, st)
		}
		records = append(records, *rec)
	}

	page, err := a.engine.AssemblePage(records, engine.PageOptions{
		Title:   cfg.Title,
		Options: engine.Options{BrandColor: cfg.BrandColor},
	})
	if err != nil {
		return nil, cfg, err
	}
	return page, cfg, nil
}

// AssemblePage stacks the selected approved templates into one landing
// page document. With ?download=1 the page is sent as an attachment.
func (a *API) AssemblePage(w http.ResponseWriter, r *http.Request) {
	var cfg models.PageConfig
	if err := decodeJSON(w, r, &cfg); err != nil {
		writeError(w, r, err)
		return
	}
	page, cfg, err := a.assemble(r, cfg)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// The page is untrusted markup; keep it sandboxed if opened directly.
	w.Header().Set("Content-Security-Policy", middleware.FramePolicy)
	if r.URL.Query().Get("download") == "1" {
		writeAttachment(w, "text/html; charset=utf-8", slug.Filename(cfg.Title, "landing-page", ".html"), page)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// PublishPage assembles a page and uploads it together with its config
// JSON to object storage.
func (a *API) PublishPage(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		writeError(w, r, fmt.Errorf("%w: object storage is not configured", errUnavailable))
		return
	}
	var cfg models.PageConfig
	if err := decodeJSON(w, r, &cfg); err != nil {
		writeError(w, r, err)
		return
	}
	page, cfg, err := a.assemble(r, cfg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		writeError(w, r, fmt.Errorf("encode page config: %w", err))
		return
	}

	name := cfg.Title
	if strings.TrimSpace(name) == "" {
		name = "landing-page"
	}
	published, err := a.storage.PublishPage(r.Context(), name, page, config)
	if err != nil {
		writeError(w, r, fmt.Errorf("publish page: %w", err))
		return
	}
	writeJSON(w, http.StatusCreated, published)
}

// brandColorFrom returns the validated color query parameter, or fallback.
func brandColorFrom(r *http.Request, fallback string) string {
	if c := strings.TrimSpace(r.URL.Query().Get("color")); c != "" && sanitize.IsCSSColor(c) {
		return c
	}
	return fallback
}
