// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package nutrition

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIngredients is returned for an empty ingredient list.
	ErrNoIngredients = errors.New("at least one ingredient is required")

	// ErrTooManyIngredients is returned above models.MaxIngredients.
	ErrTooManyIngredients = errors.New("too many ingredients")

	// ErrUnknownRawMaterial is returned when an ingredient names a missing raw material.
	ErrUnknownRawMaterial = errors.New("unknown raw material")

	// ErrUnknownUnit is returned when an ingredient unit matches no unit code or id.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrUnitNotConvertible is returned when neither the raw material nor the
	// unit defines a mass for the ingredient's unit.
	ErrUnitNotConvertible = errors.New("unit cannot be converted to grams")

	// ErrInvalidQuantity is returned for a quantity that is not positive.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrStaleCatalog is returned when a raw material profile references a
	// nutrient missing from the catalog, which happens when the catalog was
	// cached before the nutrient was created.
	ErrStaleCatalog = errors.New("nutrient catalog is stale")
)

// IngredientError reports which ingredient of a request could not be
// aggregated. Field is the JSON field name within the ingredient.
type IngredientError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e *IngredientError) Error() string {
	return fmt.Sprintf("ingredients[%d].%s: %v (%s)", e.Index, e.Field, e.Err, e.Value)
}

func (e *IngredientError) Unwrap() error {
	return e.Err
}

// Path returns the JSON path of the offending field, e.g. "ingredients[2].unit".
func (e *IngredientError) Path() string {
	return fmt.Sprintf("ingredients[%d].%s", e.Index, e.Field)
}
