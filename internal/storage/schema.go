package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			stage INTEGER NOT NULL DEFAULT 1,
			saved_at INTEGER NOT NULL
		);`,
		// One row per catch-up credit, for the status command.
		`CREATE TABLE IF NOT EXISTS offline_claims (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slot TEXT NOT NULL,
			claimed_at INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			gold INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_offline_claims_slot_claimed_at ON offline_claims(slot, claimed_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
