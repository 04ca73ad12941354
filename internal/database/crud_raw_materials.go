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

const rawMaterialColumns = `id, code, name, food_group_id, edible_portion, description, created_at, updated_at`

var rawMaterialList = &listSpec{
	table:      "raw_materials",
	columns:    rawMaterialColumns,
	searchCols: []string{"code", "name"},
	filters: map[string]string{
		"food_group_id": "food_group_id",
	},
	sorts: map[string]string{
		"code":           "code",
		"name":           "name",
		"edible_portion": "edible_portion",
		"created_at":     "created_at",
		"updated_at":     "updated_at",
	},
	defaultSort: "name",
}

func scanRawMaterial(row rowScanner) (models.RawMaterial, error) {
	var rm models.RawMaterial
	err := row.Scan(&rm.ID, &rm.Code, &rm.Name, &rm.FoodGroupID, &rm.EdiblePortion, &rm.Description, &rm.CreatedAt, &rm.UpdatedAt)
	return rm, err
}

// CreateRawMaterial inserts a raw material with its nutrient profile and unit
// weights in one transaction. Nutrients and units may be given by id or code;
// both are filled in on success.
func (db *DB) CreateRawMaterial(ctx context.Context, rm *models.RawMaterial) (err error) {
	defer observe("insert", "raw_materials", time.Now(), &err)

	if rm.EdiblePortion == 0 {
		rm.EdiblePortion = models.DefaultEdiblePortion
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := resolveRawMaterialRefs(ctx, tx, rm); err != nil {
			return err
		}

		rm.ID = uuid.New().String()
		rm.CreatedAt = now()
		rm.UpdatedAt = rm.CreatedAt

		_, err := tx.ExecContext(ctx,
			`INSERT INTO raw_materials (`+rawMaterialColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rm.ID, rm.Code, rm.Name, rm.FoodGroupID, rm.EdiblePortion, rm.Description, rm.CreatedAt, rm.UpdatedAt)
		if err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("%w: raw material code %s", ErrConflict, rm.Code)
			}
			return fmt.Errorf("failed to create raw material: %w", err)
		}
		return insertRawMaterialChildren(ctx, tx, rm)
	})
}

// GetRawMaterial retrieves a raw material with its nutrient profile and unit weights.
func (db *DB) GetRawMaterial(ctx context.Context, id string) (rm *models.RawMaterial, err error) {
	defer observe("select", "raw_materials", time.Now(), &err)

	v, err := scanRawMaterial(db.conn.QueryRowContext(ctx,
		`SELECT `+rawMaterialColumns+` FROM raw_materials WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: raw material %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get raw material: %w", err)
	}

	byID := map[string]*models.RawMaterial{v.ID: &v}
	if err = db.loadRawMaterialChildren(ctx, byID); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetRawMaterialByCode retrieves a raw material with its children by code.
func (db *DB) GetRawMaterialByCode(ctx context.Context, code string) (*models.RawMaterial, error) {
	id, ok, err := idByCode(ctx, db.conn, "raw_materials", code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: raw material code %s", ErrNotFound, code)
	}
	return db.GetRawMaterial(ctx, id)
}

// ListRawMaterials returns one page of raw materials matching p. Nutrient
// profiles and unit weights are not loaded for list pages.
func (db *DB) ListRawMaterials(ctx context.Context, p models.ListParams) (*models.ListResult[models.RawMaterial], error) {
	return listRows(ctx, db, rawMaterialList, p, scanRawMaterial)
}

// UpdateRawMaterial replaces a raw material, including its full nutrient
// profile and unit weights.
func (db *DB) UpdateRawMaterial(ctx context.Context, rm *models.RawMaterial) (err error) {
	defer observe("update", "raw_materials", time.Now(), &err)

	if rm.EdiblePortion == 0 {
		rm.EdiblePortion = models.DefaultEdiblePortion
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := resolveRawMaterialRefs(ctx, tx, rm); err != nil {
			return err
		}

		rm.UpdatedAt = now()
		err := tx.QueryRowContext(ctx,
			`UPDATE raw_materials SET code = ?, name = ?, food_group_id = ?, edible_portion = ?,
				description = ?, updated_at = ?
			WHERE id = ? RETURNING created_at`,
			rm.Code, rm.Name, rm.FoodGroupID, rm.EdiblePortion, rm.Description, rm.UpdatedAt, rm.ID,
		).Scan(&rm.CreatedAt)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("%w: raw material %s", ErrNotFound, rm.ID)
		case isUniqueConstraintError(err):
			return fmt.Errorf("%w: raw material code %s", ErrConflict, rm.Code)
		case err != nil:
			return fmt.Errorf("failed to update raw material: %w", err)
		}

		for _, table := range []string{"raw_material_nutrients", "raw_material_units"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE raw_material_id = ?`, rm.ID); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return insertRawMaterialChildren(ctx, tx, rm)
	})
}

// DeleteRawMaterial deletes a raw material and its children unless a saved
// recipe uses it.
func (db *DB) DeleteRawMaterial(ctx context.Context, id string) (err error) {
	defer observe("delete", "raw_materials", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if n, err := countRefs(ctx, tx, "recipe_ingredients", "raw_material_id", id); err != nil {
			return err
		} else if n > 0 {
			return fmt.Errorf("%w: raw material %s is used by %d recipe ingredients", ErrReferenced, id, n)
		}
		if err := deleteByID(ctx, tx, "raw_materials", "raw material", id); err != nil {
			return err
		}
		for _, table := range []string{"raw_material_nutrients", "raw_material_units"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE raw_material_id = ?`, id); err != nil {
				return fmt.Errorf("failed to delete %s: %w", table, err)
			}
		}
		return nil
	})
}

// resolveRawMaterialRefs checks the food group, resolves nutrient and unit
// codes to ids and rejects duplicates within one raw material.
func resolveRawMaterialRefs(ctx context.Context, q queryer, rm *models.RawMaterial) error {
	ok, err := exists(ctx, q, "food_groups", rm.FoodGroupID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: food group %s does not exist", ErrInvalidReference, rm.FoodGroupID)
	}

	seen := make(map[string]bool, len(rm.Nutrients))
	for i := range rm.Nutrients {
		n := &rm.Nutrients[i]
		id, code, err := resolveRef(ctx, q, "nutrients", "nutrient", n.NutrientID, n.NutrientCode)
		if err != nil {
			return fmt.Errorf("nutrients[%d]: %w", i, err)
		}
		if seen[id] {
			return fmt.Errorf("%w: nutrient %s listed more than once", ErrInvalidInput, code)
		}
		seen[id] = true
		n.NutrientID, n.NutrientCode = id, code
	}

	seen = make(map[string]bool, len(rm.UnitWeights))
	for i := range rm.UnitWeights {
		u := &rm.UnitWeights[i]
		id, code, err := resolveRef(ctx, q, "units", "unit", u.UnitID, u.UnitCode)
		if err != nil {
			return fmt.Errorf("unit_weights[%d]: %w", i, err)
		}
		if seen[id] {
			return fmt.Errorf("%w: unit %s listed more than once", ErrInvalidInput, code)
		}
		seen[id] = true
		u.UnitID, u.UnitCode = id, code
	}
	return nil
}

// resolveRef looks a row up by id, or by code when id is empty, and returns both.
func resolveRef(ctx context.Context, q queryer, table, label, id, code string) (string, string, error) {
	query := `SELECT id, code FROM ` + table + ` WHERE id = ?`
	key := id
	if id == "" {
		query = `SELECT id, code FROM ` + table + ` WHERE code = ?`
		key = code
	}

	var gotID, gotCode string
	err := q.QueryRowContext(ctx, query, key).Scan(&gotID, &gotCode)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("%w: %s %s does not exist", ErrInvalidReference, label, key)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve %s: %w", label, err)
	}
	return gotID, gotCode, nil
}

// idByCode returns the id of the row with the given code.
func idByCode(ctx context.Context, q queryer, table, code string) (string, bool, error) {
	var id string
	err := q.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE code = ?`, code).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up %s by code: %w", table, err)
	}
	return id, true, nil
}

func insertRawMaterialChildren(ctx context.Context, tx *sql.Tx, rm *models.RawMaterial) error {
	for _, n := range rm.Nutrients {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO raw_material_nutrients (raw_material_id, nutrient_id, amount_per_100g) VALUES (?, ?, ?)`,
			rm.ID, n.NutrientID, n.AmountPer100g); err != nil {
			return fmt.Errorf("failed to insert nutrient value: %w", err)
		}
	}
	for _, u := range rm.UnitWeights {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO raw_material_units (raw_material_id, unit_id, grams) VALUES (?, ?, ?)`,
			rm.ID, u.UnitID, u.Grams); err != nil {
			return fmt.Errorf("failed to insert unit weight: %w", err)
		}
	}
	return nil
}
