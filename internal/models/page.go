package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PageConfig describes an assembled landing page: which approved template
// fills each section plus the copy-level settings chosen by the user.
type PageConfig struct {
	Title      string                 `json:"title,omitempty"`
	PageType   string                 `json:"page_type,omitempty"`
	Target     string                 `json:"target,omitempty"`
	Tone       string                 `json:"tone,omitempty"`
	BrandColor string                 `json:"brand_color,omitempty"`
	Sections   map[SectionType]string `json:"sections"`
	CreatedAt  Timestamp              `json:"created_at"`
}

// Snapshot is a named export document kept in the library database.
type Snapshot struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	TemplateCount int             `json:"template_count"`
	Document      json.RawMessage `json:"document,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
