// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/nutrimaster/internal/models"
)

const calculationColumns = `id, kind, request_json, result_json, requested_by, duration_ms, created_at`

var calculationList = &listSpec{
	table:   "calculation_log",
	columns: calculationColumns,
	filters: map[string]string{
		"kind":         "kind",
		"requested_by": "requested_by",
	},
	sorts: map[string]string{
		"created_at":  "created_at",
		"duration_ms": "duration_ms",
		"kind":        "kind",
	},
	defaultSort: "created_at",
	defaultDesc: true,
}

func scanCalculation(row rowScanner) (models.CalculationLog, error) {
	var c models.CalculationLog
	var req, res string
	err := row.Scan(&c.ID, &c.Kind, &req, &res, &c.RequestedBy, &c.DurationMS, &c.CreatedAt)
	c.Request = []byte(req)
	c.Result = []byte(res)
	return c, err
}

// InsertCalculation appends an entry to the calculation history.
func (db *DB) InsertCalculation(ctx context.Context, c *models.CalculationLog) (err error) {
	defer observe("insert", "calculation_log", time.Now(), &err)

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO calculation_log (`+calculationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Kind, string(c.Request), string(c.Result), c.RequestedBy, c.DurationMS, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}
	return nil
}

// ListCalculations returns one page of calculation history, newest first by default.
func (db *DB) ListCalculations(ctx context.Context, p models.ListParams) (*models.ListResult[models.CalculationLog], error) {
	return listRows(ctx, db, calculationList, p, scanCalculation)
}

// PruneCalculations deletes history entries older than cutoff and returns the count removed.
func (db *DB) PruneCalculations(ctx context.Context, cutoff time.Time) (n int64, err error) {
	defer observe("delete", "calculation_log", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx, `DELETE FROM calculation_log WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune calculations: %w", err)
	}
	return res.RowsAffected()
}
