package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed stores doc as the first library snapshot when the library is empty,
// so a fresh installation always has something to restore.
func Seed(db *sql.DB, name string, doc []byte, count int) error {
	var existing int
	if err := db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&existing); err != nil {
		return fmt.Errorf("seed check snapshots: %w", err)
	}
	if existing > 0 {
		slog.Debug("snapshot library already seeded, skipping")
		return nil
	}

	if _, err := db.Exec(`
		INSERT INTO snapshots (name, template_count, document)
		VALUES ($1, $2, $3)
	`, name, count, string(doc)); err != nil {
		return fmt.Errorf("seed insert snapshot: %w", err)
	}

	slog.Info("snapshot library seeded", "name", name, "templates", count)
	return nil
}
