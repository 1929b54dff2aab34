// Package draft manages the uncommitted record a user is filling in: basic
// info first, then the content an LLM produced (pasted JSON or a full HTML
// document), then validation and commit into a template store.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"lpmanager/internal/metrics"
	"lpmanager/internal/models"
	"lpmanager/internal/sanitize"
	"lpmanager/internal/store"
)

var (
	// ErrNoDraft is returned when an operation needs a draft and none is
	// in progress.
	ErrNoDraft = errors.New("no draft in progress")
	// ErrNotJSONObject is returned when pasted text is not a JSON object.
	ErrNotJSONObject = errors.New("input is not a JSON object")
	// ErrInvalidInfo is returned for unusable basic info.
	ErrInvalidInfo = errors.New("invalid basic info")
)

// BasicInfo is what the user enters before asking an LLM for content.
type BasicInfo struct {
	DisplayName   string             `json:"display_name"`
	SectionType   models.SectionType `json:"section_type"`
	Format        models.Format      `json:"format"`
	SourceURL     string             `json:"source_url"`
	Description   string             `json:"description"`
	ScreenshotURL string             `json:"screenshot_url"`
	// Tags is a comma separated list.
	Tags      string `json:"tags"`
	CreatedBy string `json:"created_by"`
}

// New starts a draft from basic info.
func New(info BasicInfo) (*models.TemplateRecord, error) {
	name := strings.TrimSpace(info.DisplayName)
	if name == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrInvalidInfo)
	}
	if !info.SectionType.Known() {
		return nil, fmt.Errorf("%w: unknown section type %q", ErrInvalidInfo, info.SectionType)
	}
	format := info.Format
	switch format {
	case "":
		format = models.FormatJSON
	case models.FormatJSON, models.FormatHTML:
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidInfo, info.Format)
	}

	now := models.Now()
	return &models.TemplateRecord{
		DisplayName: name,
		SectionType: info.SectionType,
		Status:      models.StatusDraft,
		Format:      format,
		Metadata: models.Metadata{
			SourceURL:     strings.TrimSpace(info.SourceURL),
			Description:   strings.TrimSpace(info.Description),
			ScreenshotURL: strings.TrimSpace(info.ScreenshotURL),
			Tags:          models.ParseTags(info.Tags),
			CreatedBy:     strings.TrimSpace(info.CreatedBy),
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		Content: map[string]any{},
	}, nil
}

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*[ \t]*\r?\n(.*?)\r?\n?```$")

// StripFences removes a surrounding markdown code fence, which chat tools
// add around JSON and HTML answers.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// ParseObject parses pasted LLM output as a JSON object.
func ParseObject(raw string) (map[string]any, error) {
	text := StripFences(raw)
	if text == "" {
		return nil, fmt.Errorf("parse pasted JSON: %w: input is empty", ErrNotJSONObject)
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("parse pasted JSON: %w: %v", ErrNotJSONObject, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse pasted JSON: %w: got %T", ErrNotJSONObject, v)
	}
	return obj, nil
}

// ApplyJSON merges a pasted object into the draft. A "content" key is
// merged into content; without it the whole object is. Colours and layout
// hints are lifted onto the record as well.
func ApplyJSON(rec *models.TemplateRecord, obj map[string]any) {
	if rec.Content == nil {
		rec.Content = map[string]any{}
	}
	src := obj
	if c, ok := obj["content"].(map[string]any); ok {
		src = c
	}
	for k, v := range models.CloneMap(src) {
		rec.Content[k] = v
	}

	if colors, ok := firstObject(obj, src, "colors"); ok {
		applyColors(rec, colors)
	}
	if details, ok := firstObject(obj, src, "layout_details"); ok {
		if a, ok := details["alignment"].(string); ok {
			rec.Layout.Alignment = strings.TrimSpace(a)
		}
	}
	if layout, ok := obj["layout"].(map[string]any); ok {
		if s, ok := layout["image_url"].(string); ok {
			rec.Layout.ImageURL = strings.TrimSpace(s)
		}
	}

	rec.Format = models.FormatJSON
	rec.HTMLContent = ""
	rec.Metadata.UpdatedAt = models.Now()
}

func firstObject(a, b map[string]any, key string) (map[string]any, bool) {
	if m, ok := a[key].(map[string]any); ok {
		return m, true
	}
	m, ok := b[key].(map[string]any)
	return m, ok
}

func applyColors(rec *models.TemplateRecord, colors map[string]any) {
	set := func(dst *string, key string) {
		if s, ok := colors[key].(string); ok && strings.TrimSpace(s) != "" {
			*dst = strings.TrimSpace(s)
		}
	}
	set(&rec.Colors.Primary, "primary")
	set(&rec.Colors.Secondary, "secondary")
	set(&rec.Colors.Accent, "accent")
	set(&rec.Colors.Text, "text")
	set(&rec.Colors.Background, "background")
	set(&rec.Layout.BackgroundColor, "background")
}

// ApplyHTML checks and sanitizes a pasted HTML document and stores it on
// the draft. Warnings in the returned report do not block the draft.
func ApplyHTML(rec *models.TemplateRecord, doc string, maxBytes int) (sanitize.Report, error) {
	doc = StripFences(doc)
	report, err := sanitize.Check(doc, maxBytes)
	if err != nil {
		return report, fmt.Errorf("apply html: %w", err)
	}
	rec.HTMLContent = sanitize.Document(doc)
	rec.Format = models.FormatHTML
	rec.Metadata.UpdatedAt = models.Now()
	metrics.IncSanitized()
	return report, nil
}

// Commit validates the draft and adds it to ts, approved when approve is
// set. The stored copy is returned.
func Commit(ts *store.TemplateStore, rec *models.TemplateRecord, approve bool) (*models.TemplateRecord, error) {
	if rec == nil {
		return nil, ErrNoDraft
	}
	c := rec.Clone()
	c.Status = models.StatusDraft
	if approve {
		c.Status = models.StatusApproved
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	if c.Format == models.FormatHTML && strings.TrimSpace(c.HTMLContent) == "" {
		return nil, fmt.Errorf("commit draft: %w: html draft has no document", ErrInvalidInfo)
	}
	saved, err := ts.Add(c)
	if err != nil {
		return nil, fmt.Errorf("commit draft: %w", err)
	}
	return saved, nil
}
