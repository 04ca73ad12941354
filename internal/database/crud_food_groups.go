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

const foodGroupColumns = `id, code, name, description, created_at, updated_at`

var foodGroupList = &listSpec{
	table:      "food_groups",
	columns:    foodGroupColumns,
	searchCols: []string{"code", "name"},
	sorts: map[string]string{
		"code":       "code",
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	defaultSort: "name",
}

func scanFoodGroup(row rowScanner) (models.FoodGroup, error) {
	var fg models.FoodGroup
	err := row.Scan(&fg.ID, &fg.Code, &fg.Name, &fg.Description, &fg.CreatedAt, &fg.UpdatedAt)
	return fg, err
}

// CreateFoodGroup inserts a food group, assigning its ID and timestamps.
func (db *DB) CreateFoodGroup(ctx context.Context, fg *models.FoodGroup) (err error) {
	defer observe("insert", "food_groups", time.Now(), &err)

	fg.ID = uuid.New().String()
	fg.CreatedAt = now()
	fg.UpdatedAt = fg.CreatedAt

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO food_groups (`+foodGroupColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		fg.ID, fg.Code, fg.Name, fg.Description, fg.CreatedAt, fg.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: food group code %s", ErrConflict, fg.Code)
		}
		return fmt.Errorf("failed to create food group: %w", err)
	}
	return nil
}

// GetFoodGroup retrieves a food group by ID.
func (db *DB) GetFoodGroup(ctx context.Context, id string) (fg *models.FoodGroup, err error) {
	defer observe("select", "food_groups", time.Now(), &err)

	row := db.conn.QueryRowContext(ctx, `SELECT `+foodGroupColumns+` FROM food_groups WHERE id = ?`, id)
	v, err := scanFoodGroup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: food group %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get food group: %w", err)
	}
	return &v, nil
}

// ListFoodGroups returns one page of food groups matching p.
func (db *DB) ListFoodGroups(ctx context.Context, p models.ListParams) (*models.ListResult[models.FoodGroup], error) {
	return listRows(ctx, db, foodGroupList, p, scanFoodGroup)
}

// UpdateFoodGroup replaces the mutable fields of a food group.
func (db *DB) UpdateFoodGroup(ctx context.Context, fg *models.FoodGroup) (err error) {
	defer observe("update", "food_groups", time.Now(), &err)

	fg.UpdatedAt = now()
	err = db.conn.QueryRowContext(ctx,
		`UPDATE food_groups SET code = ?, name = ?, description = ?, updated_at = ?
		WHERE id = ? RETURNING created_at`,
		fg.Code, fg.Name, fg.Description, fg.UpdatedAt, fg.ID).Scan(&fg.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: food group %s", ErrNotFound, fg.ID)
	case isUniqueConstraintError(err):
		return fmt.Errorf("%w: food group code %s", ErrConflict, fg.Code)
	case err != nil:
		return fmt.Errorf("failed to update food group: %w", err)
	}
	return nil
}

// DeleteFoodGroup deletes a food group that no raw material uses.
func (db *DB) DeleteFoodGroup(ctx context.Context, id string) (err error) {
	defer observe("delete", "food_groups", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if n, err := countRefs(ctx, tx, "raw_materials", "food_group_id", id); err != nil {
			return err
		} else if n > 0 {
			return fmt.Errorf("%w: food group %s is used by %d raw materials", ErrReferenced, id, n)
		}
		return deleteByID(ctx, tx, "food_groups", "food group", id)
	})
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// countRefs counts rows of table whose column equals id. Table and column are
// compile-time constants at every call site.
func countRefs(ctx context.Context, q queryer, table, column, id string) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE `+column+` = ?`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s references: %w", table, err)
	}
	return n, nil
}

// exists reports whether table has a row with the given id.
func exists(ctx context.Context, q queryer, table, id string) (bool, error) {
	n, err := countRefs(ctx, q, table, "id", id)
	return n > 0, err
}

// deleteByID deletes one row by id, returning ErrNotFound when nothing was deleted.
func deleteByID(ctx context.Context, q queryer, table, label, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", label, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, label, id)
	}
	return nil
}
