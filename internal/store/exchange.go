package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"lpmanager/internal/models"
)

// ExportVersion identifies the document layout written by Export.
const ExportVersion = "1.0"

// ErrMalformedDocument is returned by Import for anything that is not a
// valid export document.
var ErrMalformedDocument = errors.New("malformed export document")

// ExportDocument is the serialized form of a whole store.
type ExportDocument struct {
	Version        string                  `json:"version"`
	ExportDate     models.Timestamp        `json:"export_date"`
	TotalTemplates int                     `json:"total_templates"`
	Templates      []models.TemplateRecord `json:"templates"`
}

// Export serializes every record as an indented UTF-8 JSON document.
func (s *TemplateStore) Export() ([]byte, error) {
	records := s.List(Filter{})
	return encode(ExportDocument{
		Version:        ExportVersion,
		ExportDate:     models.Now(),
		TotalTemplates: len(records),
		Templates:      records,
	})
}

// ExportRecord serializes a single record.
func (s *TemplateStore) ExportRecord(id string) ([]byte, error) {
	t, ok := s.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("export template %s: %w", id, ErrNotFound)
	}
	return encode(t)
}

// encode writes indented JSON without escaping <, > and &, which template
// content is full of.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseExport decodes and validates an export document without touching
// any store. The templates key is required; an empty list is allowed.
func ParseExport(data []byte) ([]models.TemplateRecord, error) {
	var doc struct {
		Templates *[]models.TemplateRecord `json:"templates"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if doc.Templates == nil {
		return nil, fmt.Errorf("%w: missing \"templates\" key", ErrMalformedDocument)
	}
	records := *doc.Templates
	if _, _, err := prepareAll(records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return records, nil
}

// Import replaces the store contents with the records of an export
// document and returns how many were loaded. The swap is all or nothing:
// any parse or validation error leaves the store exactly as it was.
func (s *TemplateStore) Import(data []byte) (int, error) {
	records, err := ParseExport(data)
	if err != nil {
		return 0, err
	}
	if err := s.Replace(records); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return len(records), nil
}
