// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/nutrimaster/internal/logging"
)

// Migration is one forward-only schema change applied after the base
// tables exist.
type Migration struct {
	Version     int
	Name        string
	Description string
	SQL         string
	AppliedAt   time.Time
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// migrations lists every migration by ascending version. Shipped entries
// are never edited; changes go into a new version.
func migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Name:        "nutrient_category_sort_index",
			Description: "Index nutrient categories by sort order for summary grouping",
			SQL:         `CREATE INDEX IF NOT EXISTS idx_nutrient_categories_sort ON nutrient_categories(sort_order, code);`,
		},
		{
			Version:     2,
			Name:        "calculation_log_requested_by",
			Description: "Index calculation history by requesting user",
			SQL:         `CREATE INDEX IF NOT EXISTS idx_calculation_log_requested_by ON calculation_log(requested_by);`,
		},
	}
}

// migrate applies pending migrations, each in its own transaction with
// its schema_migrations row.
func (db *DB) migrate() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	applied := 0
	for _, m := range migrations() {
		if m.Version <= current {
			continue
		}
		err := db.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name, description) VALUES (?, ?, ?)`,
				m.Version, m.Name, m.Description)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration v%d (%s): %w", m.Version, m.Name, err)
		}
		logging.Debug().Int("version", m.Version).Str("name", m.Name).Msg("Applied migration")
		applied++
	}

	if applied > 0 {
		logging.Info().Int("count", applied).Int("version", current+applied).Msg("Applied database migrations")
	}
	return nil
}

// SchemaVersion is the highest applied migration, 0 on a fresh database.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var version int
	err := db.conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

func (db *DB) MigrationHistory(ctx context.Context) ([]Migration, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT version, name, COALESCE(description, ''), applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}
	defer rows.Close()

	var history []Migration
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		history = append(history, m)
	}
	return history, rows.Err()
}
