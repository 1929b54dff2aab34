package store

import (
	_ "embed"
	"fmt"
	"log/slog"

	"lpmanager/internal/models"
)

//go:embed samples.json
var samplesJSON []byte

// Samples returns the starter templates new workspaces are seeded with.
func Samples() ([]models.TemplateRecord, error) {
	records, err := ParseExport(samplesJSON)
	if err != nil {
		return nil, fmt.Errorf("parse samples: %w", err)
	}
	return records, nil
}

// Seed loads the starter templates into an empty store. A store that
// already holds records is left alone.
func Seed(s *TemplateStore) error {
	if s.Count() > 0 {
		return nil
	}
	records, err := Samples()
	if err != nil {
		return err
	}
	if err := s.Replace(records); err != nil {
		return fmt.Errorf("seed templates: %w", err)
	}
	slog.Debug("workspace seeded with sample templates", "count", len(records))
	return nil
}
