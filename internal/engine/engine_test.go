// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"lpmanager/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func jsonRecord(t *testing.T, st models.SectionType, content string) *models.TemplateRecord {
	t.Helper()
	var c map[string]any
	if err := json.Unmarshal([]byte(content), &c); err != nil {
		t.Fatalf("bad content JSON: %v", err)
	}
	return &models.TemplateRecord{
		ID:          "rec-" + string(st),
		DisplayName: "Test " + string(st),
		SectionType: st,
		Status:      models.StatusApproved,
		Format:      models.FormatJSON,
		Content:     c,
	}
}

func TestRenderHeroEndToEnd(t *testing.T) {
	e := newTestEngine(t)
	rec := jsonRecord(t, models.SectionHero, `{
		"title": "Grow\\nFaster",
		"cta_buttons": [{"type": "primary", "label": "Start Free"}]
	}`)
	rec.DisplayName = "Hero A"
	rec.Colors.Primary = "#2563EB"

	doc, err := e.Render(rec, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(doc)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Hero A</title>",
		"Grow<br>Faster",
		`href="#">Start Free</a>`,
		"background: #2563EB",
		"</html>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("hero document missing %q", want)
		}
	}
}

func TestRenderEscapesText(t *testing.T) {
	e := newTestEngine(t)
	rec := jsonRecord(t, models.SectionFeatures, `{
		"title": "<b>Bold</b> claims",
		"features": [{"name": "<script>alert(1)</script>", "description": "<i>fast</i><img src=x onerror=alert(1)>"}]
	}`)

	doc, err := e.Render(rec, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(doc)
	if strings.Contains(out, "<script>") || strings.Contains(out, "<img src=x") {
		t.Errorf("plain mode must escape markup:\n%s", out)
	}
	if !strings.Contains(out, "&lt;b&gt;Bold&lt;/b&gt;") {
		t.Errorf("plain mode must show tags literally")
	}

	doc, err = e.Render(rec, Options{RichText: true})
	if err != nil {
		t.Fatalf("Render rich: %v", err)
	}
	out = string(doc)
	if !strings.Contains(out, "<b>Bold</b> claims") || !strings.Contains(out, "<i>fast</i>") {
		t.Errorf("rich mode must keep allowed tags:\n%s", out)
	}
	if strings.Contains(out, "onerror") || strings.Contains(out, "<script>") {
		t.Errorf("rich mode must drop dangerous markup:\n%s", out)
	}
}

func TestRenderRejectsUnsafeColors(t *testing.T) {
	e := newTestEngine(t)
	rec := jsonRecord(t, models.SectionHero, `{"title": "x"}`)
	rec.Colors.Primary = "red;}</style><script>alert(1)</script>"
	rec.Layout.BackgroundColor = "url(javascript:alert(1))"

	doc, err := e.Render(rec, Options{BrandColor: "#10B981"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(doc)
	if strings.Contains(out, "<script>") || strings.Contains(out, "javascript:") {
		t.Errorf("unsafe colour leaked into document")
	}
	if !strings.Contains(out, "#10B981") {
		t.Errorf("brand colour fallback not applied")
	}
}

func TestRenderEverySectionWithEmptyContent(t *testing.T) {
	e := newTestEngine(t)
	for _, st := range models.SectionOrder {
		t.Run(string(st), func(t *testing.T) {
			rec := &models.TemplateRecord{ID: "x", SectionType: st}
			doc, err := e.Render(rec, Options{})
			if err != nil {
				t.Fatalf("Render(%s) with empty content: %v", st, err)
			}
			if !strings.HasPrefix(string(doc), "<!DOCTYPE html>") {
				t.Errorf("not a complete document: %.60s", doc)
			}
		})
	}
}

func TestRenderTestimonialPlaceholders(t *testing.T) {
	e := newTestEngine(t)
	doc, err := e.Render(jsonRecord(t, models.SectionTestimonial, `{"testimonials": []}`), Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{"【お客様A】", "【お客様B】", "【お客様C】", "★★★★★"} {
		if !strings.Contains(string(doc), want) {
			t.Errorf("testimonials document missing %q", want)
		}
	}
}

func TestRenderUnknownSection(t *testing.T) {
	e := newTestEngine(t)
	rec := &models.TemplateRecord{
		ID:          "u",
		SectionType: "carousel",
		Content:     map[string]any{"title": "Slides", "bullets": []any{"First slide"}},
	}
	doc, err := e.Render(rec, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(doc)
	for _, want := range []string{"generic-carousel", "Slides", "First slide"} {
		if !strings.Contains(out, want) {
			t.Errorf("unknown section must use the generic layout, missing %q in %s", want, out)
		}
	}
	if strings.Contains(out, "preview not available") {
		t.Errorf("unknown section rendered the notice instead of the generic layout: %s", out)
	}

	bare := &Engine{set: e.set, registry: NewRegistry(), cache: newRenderCache()}
	doc, err = bare.Render(rec, Options{})
	if err != nil {
		t.Fatalf("Render without default: %v", err)
	}
	if !strings.Contains(string(doc), "preview not available") {
		t.Errorf("registry without a default must render the notice, got %s", doc)
	}
}

func TestRenderHTMLFormat(t *testing.T) {
	e := newTestEngine(t)
	rec := &models.TemplateRecord{
		ID:          "h",
		SectionType: models.SectionCTA,
		Format:      models.FormatHTML,
		HTMLContent: `<!DOCTYPE html><html><body><p onclick="x()">Hi</p><script>alert(1)</script></body></html>`,
	}
	doc, err := e.Render(rec, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(doc), "<script") || strings.Contains(string(doc), "onclick") {
		t.Errorf("stored html must be sanitized on output: %s", doc)
	}

	rec.HTMLContent = "  "
	if _, err := e.Render(rec, Options{}); !errors.Is(err, ErrEmptyHTML) {
		t.Errorf("empty html: got %v, want ErrEmptyHTML", err)
	}
}

func TestSafeRender(t *testing.T) {
	e := newTestEngine(t)

	t.Run("error", func(t *testing.T) {
		rec := &models.TemplateRecord{ID: "e", SectionType: models.SectionCTA, Format: models.FormatHTML}
		doc := e.SafeRender(rec, Options{})
		if !strings.Contains(string(doc), "preview unavailable") {
			t.Errorf("SafeRender() = %s", doc)
		}
	})

	t.Run("panic", func(t *testing.T) {
		e.Registry().MustRegister("exploding", func(io.Writer, *View) error {
			panic("boom")
		})
		doc := e.SafeRender(&models.TemplateRecord{ID: "p", SectionType: "exploding"}, Options{})
		if !strings.Contains(string(doc), "preview unavailable: boom") {
			t.Errorf("SafeRender() = %s", doc)
		}
	})

	t.Run("renderer error", func(t *testing.T) {
		e.Registry().MustRegister("failing", func(io.Writer, *View) error {
			return errors.New("bad layout")
		})
		doc := e.SafeRender(&models.TemplateRecord{ID: "f", SectionType: "failing"}, Options{})
		if !strings.Contains(string(doc), "bad layout") {
			t.Errorf("SafeRender() = %s", doc)
		}
	})
}

func TestRenderCache(t *testing.T) {
	e := newTestEngine(t)
	rec := jsonRecord(t, models.SectionFAQ, `{"title": "One"}`)

	first, err := e.Render(rec, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Render(rec, Options{}); err != nil {
		t.Fatal(err)
	}
	if got := e.cache.size(); got != 1 {
		t.Errorf("cache size = %d, want 1", got)
	}

	rec.Content["title"] = "Two"
	second, err := e.Render(rec, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if string(first) == string(second) || !strings.Contains(string(second), "Two") {
		t.Error("edited record served from stale cache")
	}

	e.Invalidate(rec.ID)
	if got := e.cache.size(); got != 0 {
		t.Errorf("cache size after invalidate = %d, want 0", got)
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("", func(io.Writer, *View) error { return nil }); err == nil {
		t.Error("expected error for empty section type")
	}
	if err := r.Register("x", nil); err == nil {
		t.Error("expected error for nil renderer")
	}
	if _, ok := r.Get("x"); ok {
		t.Error("failed registration must not be stored")
	}
	if _, ok := r.Lookup("x"); ok {
		t.Error("Lookup without a default must miss")
	}
	r.SetDefault(func(io.Writer, *View) error { return nil })
	if _, ok := r.Lookup("x"); !ok {
		t.Error("Lookup must fall back to the default renderer")
	}
}

func TestTint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#2563EB", "rgba(37, 99, 235, 0.10)"},
		{"#fff", "rgba(255, 255, 255, 0.10)"},
		{"white", "white"},
	}
	for _, tc := range tests {
		if got := tint(tc.in, 0.1); got != tc.want {
			t.Errorf("tint(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
