// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the preview host
// pages. Host pages never contain template markup themselves: every
// template document is loaded into a sandboxed iframe. Full-page and HTMX
// partial rendering are supported, detected via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"lpmanager/internal/markdown"
	"lpmanager/internal/middleware"
	"lpmanager/internal/models"
)

//go:embed templates/*.html
var hostFS embed.FS

// PageData holds all data passed to host templates.
type PageData struct {
	Title      string         // Page title for <title> tag
	Section    string         // Active navigation entry ("templates", "draft")
	CSRFToken  string         // Exposed in a meta tag for API clients
	BrandColor string         // Forwarded to frame URLs
	Count      int            // Number of templates in the workspace
	Data       map[string]any // Page-specific data
	Flashes    []Flash        // One-time notification messages
}

// Flash represents a notification message displayed to the user.
type Flash struct {
	Type    string // "info", "warning", "error"
	Message string
}

// Renderer handles template parsing and execution for host pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New creates a Renderer by parsing all host templates from the embedded
// filesystem. Each page template is paired with the base layout.
func New() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"sectionLabel": func(s models.SectionType) string { return s.Label() },
			"markdown":     markdown.Render,
			"join":         strings.Join,
		},
	}

	entries, err := hostFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}
		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			hostFS, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Page renders a full host page or an HTMX partial, depending on the
// request headers. For HTMX requests only the "content" block is sent.
// Output is buffered so a template error never produces half a page.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.GetCSRFToken(r)
	if data.Data == nil {
		data.Data = map[string]any{}
	}

	execName := "base.html"
	if isHTMX(r) {
		execName = "content"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		slog.Error("render host page", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
