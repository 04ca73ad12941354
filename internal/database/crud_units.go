// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/nutrimaster/internal/models"
)

const unitColumns = `id, code, name, grams_per_unit, created_at, updated_at`

var unitList = &listSpec{
	table:      "units",
	columns:    unitColumns,
	searchCols: []string{"code", "name"},
	sorts: map[string]string{
		"code":           "code",
		"name":           "name",
		"grams_per_unit": "grams_per_unit",
		"created_at":     "created_at",
	},
	defaultSort: "code",
}

func scanUnit(row rowScanner) (models.Unit, error) {
	var u models.Unit
	var grams sql.NullFloat64
	err := row.Scan(&u.ID, &u.Code, &u.Name, &grams, &u.CreatedAt, &u.UpdatedAt)
	u.GramsPerUnit = floatPtr(grams)
	return u, err
}

// CreateUnit inserts a unit of measure.
func (db *DB) CreateUnit(ctx context.Context, u *models.Unit) (err error) {
	defer observe("insert", "units", time.Now(), &err)

	u.ID = uuid.New().String()
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO units (`+unitColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Code, u.Name, nullFloat(u.GramsPerUnit), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: unit code %s", ErrConflict, u.Code)
		}
		return fmt.Errorf("failed to create unit: %w", err)
	}
	return nil
}

// GetUnit retrieves a unit by ID.
func (db *DB) GetUnit(ctx context.Context, id string) (u *models.Unit, err error) {
	defer observe("select", "units", time.Now(), &err)

	v, err := scanUnit(db.conn.QueryRowContext(ctx, `SELECT `+unitColumns+` FROM units WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: unit %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	return &v, nil
}

// ListUnits returns one page of units matching p.
func (db *DB) ListUnits(ctx context.Context, p models.ListParams) (*models.ListResult[models.Unit], error) {
	return listRows(ctx, db, unitList, p, scanUnit)
}

// AllUnits returns every unit ordered by code.
func (db *DB) AllUnits(ctx context.Context) (out []models.Unit, err error) {
	defer observe("select", "units", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `SELECT `+unitColumns+` FROM units ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to load units: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateUnit replaces the mutable fields of a unit.
func (db *DB) UpdateUnit(ctx context.Context, u *models.Unit) (err error) {
	defer observe("update", "units", time.Now(), &err)

	u.UpdatedAt = now()
	err = db.conn.QueryRowContext(ctx,
		`UPDATE units SET code = ?, name = ?, grams_per_unit = ?, updated_at = ?
		WHERE id = ? RETURNING created_at`,
		u.Code, u.Name, nullFloat(u.GramsPerUnit), u.UpdatedAt, u.ID).Scan(&u.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: unit %s", ErrNotFound, u.ID)
	case isUniqueConstraintError(err):
		return fmt.Errorf("%w: unit code %s", ErrConflict, u.Code)
	case err != nil:
		return fmt.Errorf("failed to update unit: %w", err)
	}
	return nil
}

// DeleteUnit deletes a unit that no raw material weight uses.
func (db *DB) DeleteUnit(ctx context.Context, id string) (err error) {
	defer observe("delete", "units", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if n, err := countRefs(ctx, tx, "raw_material_units", "unit_id", id); err != nil {
			return err
		} else if n > 0 {
			return fmt.Errorf("%w: unit %s has %d raw material weights", ErrReferenced, id, n)
		}
		return deleteByID(ctx, tx, "units", "unit", id)
	})
}
