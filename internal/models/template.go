// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "strings"

// TemplateRecord is one reusable landing-page section. Content is loosely
// typed on purpose: it holds whatever shape an LLM produced and is read
// through the normalize package, never accessed directly by renderers.
type TemplateRecord struct {
	ID          string         `json:"template_id"`
	DisplayName string         `json:"display_name" validate:"notblank,max=200"`
	SectionType SectionType    `json:"section_type" validate:"section_type"`
	Status      Status         `json:"status" validate:"oneof=draft approved need_fix"`
	Format      Format         `json:"format,omitempty" validate:"omitempty,oneof=json html"`
	Metadata    Metadata       `json:"metadata"`
	Layout      Layout         `json:"layout"`
	Colors      Colors         `json:"colors"`
	Content     map[string]any `json:"content"`
	HTMLContent string         `json:"html_content,omitempty"`
}

// Metadata holds provenance and review information.
type Metadata struct {
	SourceURL     string    `json:"source_url" validate:"omitempty,url"`
	Description   string    `json:"description"`
	ScreenshotURL string    `json:"screenshot_url" validate:"omitempty,url"`
	Tags          []string  `json:"tags"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     Timestamp `json:"created_at"`
	UpdatedAt     Timestamp `json:"updated_at"`
	ReviewComment string    `json:"review_comment"`
}

// Layout carries presentation hints.
type Layout struct {
	Alignment       string `json:"alignment" validate:"omitempty,oneof=left center right"`
	BackgroundColor string `json:"background_color" validate:"omitempty,csscolor"`
	ImageURL        string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// Colors is the optional palette attached to a record. Empty fields fall
// back to the page brand color or section defaults.
type Colors struct {
	Primary    string `json:"primary,omitempty" validate:"omitempty,csscolor"`
	Secondary  string `json:"secondary,omitempty" validate:"omitempty,csscolor"`
	Background string `json:"background,omitempty" validate:"omitempty,csscolor"`
	Accent     string `json:"accent,omitempty" validate:"omitempty,csscolor"`
	Text       string `json:"text,omitempty" validate:"omitempty,csscolor"`
}

// TemplatePatch is a shallow, top-level update. Nil fields are left alone;
// a non-nil Content replaces the whole content mapping.
type TemplatePatch struct {
	DisplayName *string        `json:"display_name,omitempty"`
	SectionType *SectionType   `json:"section_type,omitempty"`
	Status      *Status        `json:"status,omitempty"`
	Format      *Format        `json:"format,omitempty"`
	Metadata    *Metadata      `json:"metadata,omitempty"`
	Layout      *Layout        `json:"layout,omitempty"`
	Colors      *Colors        `json:"colors,omitempty"`
	Content     map[string]any `json:"content,omitempty"`
	HTMLContent *string        `json:"html_content,omitempty"`
}

// IsApproved reports whether the record may be used for page assembly.
func (t *TemplateRecord) IsApproved() bool {
	return t.Status == StatusApproved
}

// Clone returns a deep copy of the record.
func (t *TemplateRecord) Clone() *TemplateRecord {
	c := *t
	c.Metadata.Tags = append([]string(nil), t.Metadata.Tags...)
	if t.Content != nil {
		c.Content = CloneMap(t.Content)
	}
	return &c
}

// CloneMap deep-copies a JSON-like mapping.
func CloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return CloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), x...)
	default:
		return v
	}
}

// ParseTags splits a comma separated tag string into a set that keeps the
// first-seen order.
func ParseTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}

// NormalizeTags trims, drops empties and removes duplicates.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
