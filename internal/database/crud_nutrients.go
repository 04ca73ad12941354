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

const nutrientColumns = `id, code, name, category_id, unit_symbol, energy_factor, sort_order, created_at, updated_at`

var nutrientList = &listSpec{
	table:      "nutrients",
	columns:    nutrientColumns,
	searchCols: []string{"code", "name"},
	filters: map[string]string{
		"category_id": "category_id",
		"unit_symbol": "unit_symbol",
	},
	sorts: map[string]string{
		"code":       "code",
		"name":       "name",
		"sort_order": "sort_order",
		"created_at": "created_at",
	},
	defaultSort: "sort_order",
}

func scanNutrient(row rowScanner) (models.Nutrient, error) {
	var n models.Nutrient
	var factor sql.NullFloat64
	err := row.Scan(&n.ID, &n.Code, &n.Name, &n.CategoryID, &n.UnitSymbol, &factor, &n.SortOrder, &n.CreatedAt, &n.UpdatedAt)
	n.EnergyFactor = floatPtr(factor)
	return n, err
}

func (db *DB) checkNutrientCategory(ctx context.Context, q queryer, id string) error {
	ok, err := exists(ctx, q, "nutrient_categories", id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: nutrient category %s does not exist", ErrInvalidReference, id)
	}
	return nil
}

// checkEnergyFactor rejects an energy factor on a nutrient that is not
// measured by mass; aggregation could never apply it.
func checkEnergyFactor(n *models.Nutrient) error {
	if n.EnergyFactor != nil && !n.MeasuredByMass() {
		return fmt.Errorf("%w: nutrient %s in %s cannot have an energy factor", ErrInvalidInput, n.Code, n.UnitSymbol)
	}
	return nil
}

// CreateNutrient inserts a nutrient after checking its category exists.
func (db *DB) CreateNutrient(ctx context.Context, n *models.Nutrient) (err error) {
	defer observe("insert", "nutrients", time.Now(), &err)

	if err = checkEnergyFactor(n); err != nil {
		return err
	}
	if err = db.checkNutrientCategory(ctx, db.conn, n.CategoryID); err != nil {
		return err
	}

	n.ID = uuid.New().String()
	n.CreatedAt = now()
	n.UpdatedAt = n.CreatedAt

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO nutrients (`+nutrientColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Code, n.Name, n.CategoryID, n.UnitSymbol, nullFloat(n.EnergyFactor), n.SortOrder, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: nutrient code %s", ErrConflict, n.Code)
		}
		return fmt.Errorf("failed to create nutrient: %w", err)
	}
	return nil
}

// GetNutrient retrieves a nutrient by ID.
func (db *DB) GetNutrient(ctx context.Context, id string) (n *models.Nutrient, err error) {
	defer observe("select", "nutrients", time.Now(), &err)

	v, err := scanNutrient(db.conn.QueryRowContext(ctx, `SELECT `+nutrientColumns+` FROM nutrients WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: nutrient %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get nutrient: %w", err)
	}
	return &v, nil
}

// ListNutrients returns one page of nutrients matching p.
func (db *DB) ListNutrients(ctx context.Context, p models.ListParams) (*models.ListResult[models.Nutrient], error) {
	return listRows(ctx, db, nutrientList, p, scanNutrient)
}

// AllNutrients returns the full nutrient catalog ordered by sort order and code.
func (db *DB) AllNutrients(ctx context.Context) (out []models.Nutrient, err error) {
	defer observe("select", "nutrients", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `SELECT `+nutrientColumns+` FROM nutrients ORDER BY sort_order, code`)
	if err != nil {
		return nil, fmt.Errorf("failed to load nutrients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		n, err := scanNutrient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nutrient: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UpdateNutrient replaces the mutable fields of a nutrient.
func (db *DB) UpdateNutrient(ctx context.Context, n *models.Nutrient) (err error) {
	defer observe("update", "nutrients", time.Now(), &err)

	if err = checkEnergyFactor(n); err != nil {
		return err
	}
	if err = db.checkNutrientCategory(ctx, db.conn, n.CategoryID); err != nil {
		return err
	}

	n.UpdatedAt = now()
	err = db.conn.QueryRowContext(ctx,
		`UPDATE nutrients SET code = ?, name = ?, category_id = ?, unit_symbol = ?, energy_factor = ?,
			sort_order = ?, updated_at = ?
		WHERE id = ? RETURNING created_at`,
		n.Code, n.Name, n.CategoryID, n.UnitSymbol, nullFloat(n.EnergyFactor), n.SortOrder, n.UpdatedAt, n.ID,
	).Scan(&n.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: nutrient %s", ErrNotFound, n.ID)
	case isUniqueConstraintError(err):
		return fmt.Errorf("%w: nutrient code %s", ErrConflict, n.Code)
	case err != nil:
		return fmt.Errorf("failed to update nutrient: %w", err)
	}
	return nil
}

// DeleteNutrient deletes a nutrient that no raw material profile uses.
func (db *DB) DeleteNutrient(ctx context.Context, id string) (err error) {
	defer observe("delete", "nutrients", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if n, err := countRefs(ctx, tx, "raw_material_nutrients", "nutrient_id", id); err != nil {
			return err
		} else if n > 0 {
			return fmt.Errorf("%w: nutrient %s appears in %d raw material profiles", ErrReferenced, id, n)
		}
		return deleteByID(ctx, tx, "nutrients", "nutrient", id)
	})
}
