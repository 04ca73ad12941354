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

const nutrientCategoryColumns = `id, code, name, sort_order, created_at, updated_at`

var nutrientCategoryList = &listSpec{
	table:      "nutrient_categories",
	columns:    nutrientCategoryColumns,
	searchCols: []string{"code", "name"},
	sorts: map[string]string{
		"code":       "code",
		"name":       "name",
		"sort_order": "sort_order",
		"created_at": "created_at",
	},
	defaultSort: "sort_order",
}

func scanNutrientCategory(row rowScanner) (models.NutrientCategory, error) {
	var c models.NutrientCategory
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateNutrientCategory inserts a nutrient category.
func (db *DB) CreateNutrientCategory(ctx context.Context, c *models.NutrientCategory) (err error) {
	defer observe("insert", "nutrient_categories", time.Now(), &err)

	c.ID = uuid.New().String()
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO nutrient_categories (`+nutrientCategoryColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Code, c.Name, c.SortOrder, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: nutrient category code %s", ErrConflict, c.Code)
		}
		return fmt.Errorf("failed to create nutrient category: %w", err)
	}
	return nil
}

// GetNutrientCategory retrieves a nutrient category by ID.
func (db *DB) GetNutrientCategory(ctx context.Context, id string) (c *models.NutrientCategory, err error) {
	defer observe("select", "nutrient_categories", time.Now(), &err)

	row := db.conn.QueryRowContext(ctx, `SELECT `+nutrientCategoryColumns+` FROM nutrient_categories WHERE id = ?`, id)
	v, err := scanNutrientCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: nutrient category %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get nutrient category: %w", err)
	}
	return &v, nil
}

// ListNutrientCategories returns one page of nutrient categories matching p.
func (db *DB) ListNutrientCategories(ctx context.Context, p models.ListParams) (*models.ListResult[models.NutrientCategory], error) {
	return listRows(ctx, db, nutrientCategoryList, p, scanNutrientCategory)
}

// AllNutrientCategories returns every category ordered by sort order and code.
func (db *DB) AllNutrientCategories(ctx context.Context) (cats []models.NutrientCategory, err error) {
	defer observe("select", "nutrient_categories", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+nutrientCategoryColumns+` FROM nutrient_categories ORDER BY sort_order, code`)
	if err != nil {
		return nil, fmt.Errorf("failed to load nutrient categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanNutrientCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nutrient category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// UpdateNutrientCategory replaces the mutable fields of a nutrient category.
func (db *DB) UpdateNutrientCategory(ctx context.Context, c *models.NutrientCategory) (err error) {
	defer observe("update", "nutrient_categories", time.Now(), &err)

	c.UpdatedAt = now()
	err = db.conn.QueryRowContext(ctx,
		`UPDATE nutrient_categories SET code = ?, name = ?, sort_order = ?, updated_at = ?
		WHERE id = ? RETURNING created_at`,
		c.Code, c.Name, c.SortOrder, c.UpdatedAt, c.ID).Scan(&c.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: nutrient category %s", ErrNotFound, c.ID)
	case isUniqueConstraintError(err):
		return fmt.Errorf("%w: nutrient category code %s", ErrConflict, c.Code)
	case err != nil:
		return fmt.Errorf("failed to update nutrient category: %w", err)
	}
	return nil
}

// DeleteNutrientCategory deletes a category that no nutrient belongs to.
func (db *DB) DeleteNutrientCategory(ctx context.Context, id string) (err error) {
	defer observe("delete", "nutrient_categories", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if n, err := countRefs(ctx, tx, "nutrients", "category_id", id); err != nil {
			return err
		} else if n > 0 {
			return fmt.Errorf("%w: nutrient category %s has %d nutrients", ErrReferenced, id, n)
		}
		return deleteByID(ctx, tx, "nutrient_categories", "nutrient category", id)
	})
}
