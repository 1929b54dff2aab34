// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders template records into self-contained HTML
// documents. Structured records go through the normalizer and an embedded
// html/template layout per section type; pasted HTML records are passed
// through the document sanitizer again on the way out.
package engine

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"lpmanager/internal/metrics"
	"lpmanager/internal/models"
	"lpmanager/internal/normalize"
	"lpmanager/internal/sanitize"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrEmptyHTML is returned for html-format records without a document.
var ErrEmptyHTML = errors.New("html template has no document")

// Options change how a record is rendered.
type Options struct {
	// BrandColor is the primary colour used when the record has none.
	BrandColor string `json:"brand_color,omitempty"`
	// RichText lets text fields carry basic formatting tags, which are
	// sanitized against a small allowlist. Otherwise all text is escaped.
	RichText bool `json:"rich_text,omitempty"`
}

// View is the data handed to section layouts.
type View struct {
	Title   string
	ID      string
	S       normalize.Section
	P       Palette
	Rich    bool
	Message string
}

// Engine renders records. It is safe for concurrent use.
type Engine struct {
	set      *template.Template
	registry *Registry
	cache    *renderCache
}

var funcMap = template.FuncMap{
	// rich returns s as sanitized markup in rich-text mode and as plain
	// text (escaped by the template) otherwise.
	"rich": func(rich bool, s string) any {
		if rich {
			return template.HTML(sanitize.RichText(s))
		}
		return s
	},
	"inc": func(i int) int { return i + 1 },
}

// New parses the embedded layouts and registers the built-in renderers.
func New() (*Engine, error) {
	set, err := template.New("sections").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse section templates: %w", err)
	}

	registry := NewRegistry()
	registerDefaults(registry, set)

	return &Engine{
		set:      set,
		registry: registry,
		cache:    newRenderCache(),
	}, nil
}

// Registry exposes the renderer registry so callers can add layouts.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Invalidate drops cached documents of one record.
func (e *Engine) Invalidate(id string) {
	e.cache.invalidate(id)
}

// InvalidateAll clears the render cache, e.g. after an import.
func (e *Engine) InvalidateAll() {
	e.cache.invalidateAll()
}

// Render produces a complete HTML document for rec. Unknown section types
// use the generic layout; a registry without a default renderer produces a
// short "preview not available" document rather than an error.
func (e *Engine) Render(rec *models.TemplateRecord, opts Options) ([]byte, error) {
	started := time.Now()
	doc, err := e.render(rec, opts)
	metrics.ObserveRender(string(rec.SectionType), started, err)
	return doc, err
}

func (e *Engine) render(rec *models.TemplateRecord, opts Options) ([]byte, error) {
	key, cacheable := keyFor(rec, opts)
	if cacheable {
		if doc := e.cache.get(key); doc != nil {
			return doc, nil
		}
	}

	doc, err := e.renderUncached(rec, opts)
	if err != nil {
		return nil, err
	}
	if cacheable {
		e.cache.put(key, doc)
	}
	return doc, nil
}

func (e *Engine) renderUncached(rec *models.TemplateRecord, opts Options) ([]byte, error) {
	if rec.Format == models.FormatHTML {
		if strings.TrimSpace(rec.HTMLContent) == "" {
			return nil, fmt.Errorf("render %s: %w", rec.ID, ErrEmptyHTML)
		}
		return []byte(sanitize.Document(rec.HTMLContent)), nil
	}

	renderer, ok := e.registry.Lookup(rec.SectionType)
	if !ok {
		msg := fmt.Sprintf("preview not available for section type %q", rec.SectionType)
		return e.message(rec, msg)
	}

	v := &View{
		Title: title(rec),
		ID:    rec.ID,
		S:     normalize.Normalize(rec),
		P:     NewPalette(rec, opts.BrandColor),
		Rich:  opts.RichText,
	}
	var buf bytes.Buffer
	if err := renderer(&buf, v); err != nil {
		return nil, fmt.Errorf("render %s section: %w", rec.SectionType, err)
	}
	return buf.Bytes(), nil
}

// SafeRender never fails: errors and panics of one record turn into a
// local "preview unavailable" document so a listing keeps rendering.
func (e *Engine) SafeRender(rec *models.TemplateRecord, opts Options) (doc []byte) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("render panic", "id", rec.ID, "section_type", rec.SectionType, "panic", r)
			doc = e.fallback(rec, fmt.Sprintf("preview unavailable: %v", r))
		}
	}()

	doc, err := e.Render(rec, opts)
	if err != nil {
		slog.Warn("render failed", "id", rec.ID, "section_type", rec.SectionType, "error", err)
		return e.fallback(rec, "preview unavailable: "+err.Error())
	}
	return doc
}

func (e *Engine) fallback(rec *models.TemplateRecord, msg string) []byte {
	doc, err := e.message(rec, msg)
	if err != nil {
		return []byte("<!DOCTYPE html><html><body><p>" + html.EscapeString(msg) + "</p></body></html>")
	}
	return doc
}

// message renders the minimal notice document.
func (e *Engine) message(rec *models.TemplateRecord, msg string) ([]byte, error) {
	v := &View{
		Title:   title(rec),
		ID:      rec.ID,
		P:       NewPalette(rec, ""),
		Message: msg,
	}
	var buf bytes.Buffer
	if err := e.set.ExecuteTemplate(&buf, "unavailable", v); err != nil {
		return nil, fmt.Errorf("render notice: %w", err)
	}
	return buf.Bytes(), nil
}

func title(rec *models.TemplateRecord) string {
	if s := strings.TrimSpace(rec.DisplayName); s != "" {
		return s
	}
	return rec.SectionType.Label()
}
