// Package prompt builds the text handed to an external LLM when a draft is
// filled in by hand. The output only depends on the draft's basic info, so
// the same draft always yields the same prompt.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"lpmanager/internal/models"
	"lpmanager/internal/sanitize"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"join": strings.Join,
}).ParseFS(templateFS, "templates/*.tmpl"))

type view struct {
	Name        string
	Type        models.SectionType
	Label       string
	SourceURL   string
	Description string
	Tags        []string
	Skeleton    string
	MaxKB       int
}

func newView(rec *models.TemplateRecord) view {
	return view{
		Name:        strings.TrimSpace(rec.DisplayName),
		Type:        rec.SectionType,
		Label:       rec.SectionType.Label(),
		SourceURL:   strings.TrimSpace(rec.Metadata.SourceURL),
		Description: strings.TrimSpace(rec.Metadata.Description),
		Tags:        rec.Metadata.Tags,
	}
}

// Build returns the prompt asking for structured JSON content.
func Build(rec *models.TemplateRecord) (string, error) {
	v := newView(rec)
	v.Skeleton = Skeleton(rec.SectionType)
	return execute("json", v)
}

// BuildHTML returns the prompt asking for a complete HTML document no larger
// than maxBytes (sanitize.DefaultMaxBytes when zero).
func BuildHTML(rec *models.TemplateRecord, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		maxBytes = sanitize.DefaultMaxBytes
	}
	v := newView(rec)
	v.MaxKB = maxBytes / 1024
	return execute("html", v)
}

// For picks the prompt matching the record's format.
func For(rec *models.TemplateRecord, maxBytes int) (string, error) {
	if rec.Format == models.FormatHTML {
		return BuildHTML(rec, maxBytes)
	}
	return Build(rec)
}

func execute(name string, v view) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, v); err != nil {
		return "", fmt.Errorf("build %s prompt: %w", name, err)
	}
	return buf.String(), nil
}
