// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/nutrimaster/internal/config"
	"github.com/tomtom215/nutrimaster/internal/models"
)

// testDBSemaphore serializes DuckDB usage across tests. Concurrent CGO calls
// from many in-memory databases can hang under CI resource pressure, so the
// semaphore is held for the whole test, not only during creation.
var testDBSemaphore = make(chan struct{}, 1)

// testDBMutex serializes the New() call itself.
var testDBMutex sync.Mutex

// setupTestDB creates an in-memory database and fails the test if creation
// takes longer than 120 seconds.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:        ":memory:",
		MaxMemory:   "512MB",
		SkipIndexes: true,
	}

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() { _ = res.db.Close() })
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s")
		return nil
	}
}

// mustFoodGroup creates a food group or fails the test.
func mustFoodGroup(t *testing.T, db *DB, code string) *models.FoodGroup {
	t.Helper()
	fg := &models.FoodGroup{Code: code, Name: "Group " + code}
	if err := db.CreateFoodGroup(context.Background(), fg); err != nil {
		t.Fatalf("CreateFoodGroup(%s): %v", code, err)
	}
	return fg
}

func mustCategory(t *testing.T, db *DB, code string, sortOrder int) *models.NutrientCategory {
	t.Helper()
	c := &models.NutrientCategory{Code: code, Name: "Category " + code, SortOrder: sortOrder}
	if err := db.CreateNutrientCategory(context.Background(), c); err != nil {
		t.Fatalf("CreateNutrientCategory(%s): %v", code, err)
	}
	return c
}

func mustNutrient(t *testing.T, db *DB, code, categoryID string, factor *float64) *models.Nutrient {
	t.Helper()
	n := &models.Nutrient{Code: code, Name: "Nutrient " + code, CategoryID: categoryID, UnitSymbol: "g", EnergyFactor: factor}
	if err := db.CreateNutrient(context.Background(), n); err != nil {
		t.Fatalf("CreateNutrient(%s): %v", code, err)
	}
	return n
}

func mustUnit(t *testing.T, db *DB, code string, grams *float64) *models.Unit {
	t.Helper()
	u := &models.Unit{Code: code, Name: "Unit " + code, GramsPerUnit: grams}
	if err := db.CreateUnit(context.Background(), u); err != nil {
		t.Fatalf("CreateUnit(%s): %v", code, err)
	}
	return u
}

func TestNewAppliesMigrations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	want := migrations()[len(migrations())-1].Version
	if version != want {
		t.Errorf("schema version = %d, want %d", version, want)
	}

	history, err := db.MigrationHistory(ctx)
	if err != nil {
		t.Fatalf("MigrationHistory() error = %v", err)
	}
	if len(history) != len(migrations()) {
		t.Errorf("migration history has %d entries, want %d", len(history), len(migrations()))
	}

	// Re-running is a no-op.
	if err := db.migrate(); err != nil {
		t.Errorf("second migrate() error = %v", err)
	}
	if err := db.CreateIndexes(); err != nil {
		t.Errorf("CreateIndexes() error = %v", err)
	}
}

func TestSetPageLimits(t *testing.T) {
	db := setupTestDB(t)

	db.SetPageLimits(50, 25)
	if db.maxLimit != 25 || db.defaultLimit != 25 {
		t.Errorf("limits = %d/%d, want default clamped to 25/25", db.defaultLimit, db.maxLimit)
	}

	db.SetPageLimits(0, 0)
	if db.maxLimit != 25 || db.defaultLimit != 25 {
		t.Errorf("zero values should keep current limits, got %d/%d", db.defaultLimit, db.maxLimit)
	}
}

func TestSentinelWrapping(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.GetFoodGroup(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetFoodGroup(missing) error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteUnit(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteUnit(missing) error = %v, want ErrNotFound", err)
	}
}
