// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"lpmanager/internal/models"
)

var (
	ErrNotFound      = errors.New("template not found")
	ErrDuplicateID   = errors.New("template id already exists")
	ErrInvalidStatus = errors.New("invalid template status")
)

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Status      models.Status
	SectionType models.SectionType
	Category    models.SectionCategory
}

func (f Filter) match(t *models.TemplateRecord) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.SectionType != "" && t.SectionType != f.SectionType {
		return false
	}
	if f.Category != "" && t.SectionType.Category() != f.Category {
		return false
	}
	return true
}

// TemplateStore is an ordered, in-memory collection of template records.
// All methods are safe for concurrent use and hand out copies, so callers
// can never mutate stored records behind the store's back.
type TemplateStore struct {
	mu      sync.RWMutex
	records []*models.TemplateRecord
	index   map[string]int
}

// NewTemplateStore creates an empty TemplateStore.
func NewTemplateStore() *TemplateStore {
	return &TemplateStore{index: make(map[string]int)}
}

// Add appends a record, assigning an id when it has none. Display names may
// repeat; ids may not.
func (s *TemplateStore) Add(rec *models.TemplateRecord) (*models.TemplateRecord, error) {
	if rec.Status != "" && !rec.Status.Valid() {
		return nil, fmt.Errorf("add template: %w: %q", ErrInvalidStatus, rec.Status)
	}
	t := prepare(rec.Clone())

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[t.ID]; exists {
		return nil, fmt.Errorf("add template %s: %w", t.ID, ErrDuplicateID)
	}
	s.index[t.ID] = len(s.records)
	s.records = append(s.records, t)
	return t.Clone(), nil
}

// prepare fills in the fields every stored record must have.
func prepare(t *models.TemplateRecord) *models.TemplateRecord {
	if strings.TrimSpace(t.ID) == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = models.StatusDraft
	}
	if t.Format == "" {
		t.Format = models.FormatJSON
	}
	if t.Content == nil {
		t.Content = map[string]any{}
	}
	t.Metadata.Tags = models.NormalizeTags(t.Metadata.Tags)
	now := models.Now()
	if t.Metadata.CreatedAt.IsZero() {
		t.Metadata.CreatedAt = now
	}
	if t.Metadata.UpdatedAt.IsZero() {
		t.Metadata.UpdatedAt = t.Metadata.CreatedAt
	}
	return t
}

// FindByID returns a copy of the record with the given id.
func (s *TemplateStore) FindByID(id string) (*models.TemplateRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.records[i].Clone(), true
}

// Update applies a shallow patch and refreshes the updated_at timestamp.
// Unknown ids return ErrNotFound.
func (s *TemplateStore) Update(id string, p models.TemplatePatch) (*models.TemplateRecord, error) {
	if p.Status != nil && !p.Status.Valid() {
		return nil, fmt.Errorf("update template: %w: %q", ErrInvalidStatus, *p.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("update template %s: %w", id, ErrNotFound)
	}
	t := s.records[i].Clone()

	if p.DisplayName != nil {
		t.DisplayName = *p.DisplayName
	}
	if p.SectionType != nil {
		t.SectionType = *p.SectionType
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Format != nil {
		t.Format = *p.Format
	}
	if p.Metadata != nil {
		created := t.Metadata.CreatedAt
		t.Metadata = *p.Metadata
		t.Metadata.Tags = models.NormalizeTags(t.Metadata.Tags)
		if t.Metadata.CreatedAt.IsZero() {
			t.Metadata.CreatedAt = created
		}
	}
	if p.Layout != nil {
		t.Layout = *p.Layout
	}
	if p.Colors != nil {
		t.Colors = *p.Colors
	}
	if p.Content != nil {
		t.Content = models.CloneMap(p.Content)
	}
	if p.HTMLContent != nil {
		t.HTMLContent = *p.HTMLContent
	}
	t.Metadata.UpdatedAt = models.Now()

	s.records[i] = t
	return t.Clone(), nil
}

// Delete removes a record. It reports whether anything was removed; deleting
// an unknown id is a no-op.
func (s *TemplateStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	s.reindex()
	return true
}

func (s *TemplateStore) reindex() {
	s.index = make(map[string]int, len(s.records))
	for i, t := range s.records {
		s.index[t.ID] = i
	}
}

// List returns copies of the matching records in insertion order.
func (s *TemplateStore) List(f Filter) []models.TemplateRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TemplateRecord, 0, len(s.records))
	for _, t := range s.records {
		if f.match(t) {
			out = append(out, *t.Clone())
		}
	}
	return out
}

// Approved returns the approved records of one section type.
func (s *TemplateStore) Approved(st models.SectionType) []models.TemplateRecord {
	return s.List(Filter{Status: models.StatusApproved, SectionType: st})
}

// Count returns the number of stored records.
func (s *TemplateStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Stats counts records per section type.
func (s *TemplateStore) Stats() map[models.SectionType]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[models.SectionType]int)
	for _, t := range s.records {
		stats[t.SectionType]++
	}
	return stats
}

// Replace swaps the whole contents of the store. Records are validated
// first; on error the store is left untouched.
func (s *TemplateStore) Replace(records []models.TemplateRecord) error {
	prepared, index, err := prepareAll(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = prepared
	s.index = index
	s.mu.Unlock()
	return nil
}

func prepareAll(records []models.TemplateRecord) ([]*models.TemplateRecord, map[string]int, error) {
	prepared := make([]*models.TemplateRecord, 0, len(records))
	index := make(map[string]int, len(records))
	for i := range records {
		rec := &records[i]
		if rec.Status != "" && !rec.Status.Valid() {
			return nil, nil, fmt.Errorf("record %d: %w: %q", i, ErrInvalidStatus, rec.Status)
		}
		t := prepare(rec.Clone())
		if _, dup := index[t.ID]; dup {
			return nil, nil, fmt.Errorf("record %d: %w: %s", i, ErrDuplicateID, t.ID)
		}
		index[t.ID] = len(prepared)
		prepared = append(prepared, t)
	}
	return prepared, index, nil
}
