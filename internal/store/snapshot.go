// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lpmanager/internal/models"
)

// SnapshotStore keeps named export documents in PostgreSQL.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore creates a new SnapshotStore with the given database connection.
func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Create saves a validated export document under name.
func (s *SnapshotStore) Create(ctx context.Context, name string, doc []byte) (*models.Snapshot, error) {
	records, err := ParseExport(doc)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	snap := &models.Snapshot{Name: name, TemplateCount: len(records)}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO snapshots (name, template_count, document)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, name, len(records), string(doc)).Scan(&snap.ID, &snap.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	return snap, nil
}

// List returns snapshot summaries, newest first. Documents are not loaded.
func (s *SnapshotStore) List(ctx context.Context) ([]models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, template_count, created_at
		FROM snapshots
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.TemplateCount, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// FindByID loads a snapshot with its document. Returns nil if not found.
func (s *SnapshotStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Snapshot, error) {
	snap := &models.Snapshot{}
	var doc string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, template_count, document, created_at
		FROM snapshots WHERE id = $1
	`, id).Scan(&snap.ID, &snap.Name, &snap.TemplateCount, &doc, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find snapshot by id: %w", err)
	}
	snap.Document = []byte(doc)
	return snap, nil
}

// Delete removes a snapshot. Deleting an unknown id is not an error.
func (s *SnapshotStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
