// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package nutrition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nutrimaster/internal/cache"
	"github.com/tomtom215/nutrimaster/internal/logging"
	"github.com/tomtom215/nutrimaster/internal/metrics"
	"github.com/tomtom215/nutrimaster/internal/models"
	"github.com/tomtom215/nutrimaster/internal/validation"
)

// catalogKey is the cache key of the unit and nutrient catalog.
const catalogKey = "catalog"

// Store is the data access the calculations need. *database.DB implements it.
type Store interface {
	GetRawMaterialsByIDs(ctx context.Context, ids []string) (map[string]*models.RawMaterial, error)
	LoadCatalog(ctx context.Context) (*models.Catalog, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	InsertCalculation(ctx context.Context, c *models.CalculationLog) error
}

// Service runs validated calculations against the store.
type Service struct {
	store          Store
	cache          *cache.Cache
	history        bool
	maxIngredients int
}

// Option configures a Service.
type Option func(*Service)

// WithCache caches the catalog in c. Without a cache the catalog is loaded
// for every aggregation.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithHistory enables or disables writing the calculation log.
func WithHistory(enabled bool) Option {
	return func(s *Service) { s.history = enabled }
}

// WithMaxIngredients lowers the ingredient limit of one aggregation below
// models.MaxIngredients.
func WithMaxIngredients(n int) Option {
	return func(s *Service) {
		if n > 0 && n < models.MaxIngredients {
			s.maxIngredients = n
		}
	}
}

// NewService creates a calculation service. History is recorded by default.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, history: true, maxIngredients: models.MaxIngredients}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InvalidateCatalog drops the cached catalog. It is called when units,
// nutrients or nutrient categories change.
func (s *Service) InvalidateCatalog() {
	if s.cache != nil {
		s.cache.Delete(catalogKey)
	}
}

// HandleChangeEvent is the event bus subscriber that drops the cached
// catalog after a unit, nutrient or nutrient category write.
func (s *Service) HandleChangeEvent(_ context.Context, event *models.ChangeEvent) error {
	switch event.Entity {
	case models.EntityUnit, models.EntityNutrient, models.EntityNutrientCategory:
		s.InvalidateCatalog()
	}
	return nil
}

// catalog returns the catalog and whether it came from the cache.
func (s *Service) catalog(ctx context.Context) (*models.Catalog, bool, error) {
	if s.cache == nil {
		cat, err := s.store.LoadCatalog(ctx)
		return cat, false, err
	}
	if v, ok := s.cache.Get(catalogKey); ok {
		if cat, ok := v.(*models.Catalog); ok {
			return cat, true, nil
		}
	}
	cat, err := s.store.LoadCatalog(ctx)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(catalogKey, cat)
	return cat, false, nil
}

// CalculateBMR validates req and computes the energy expenditure tables.
func (s *Service) CalculateBMR(ctx context.Context, req models.BMRRequest, actor string) (res *models.BMRResult, err error) {
	start := time.Now()
	defer func() { metrics.RecordCalculation(models.CalculationKindBMR, time.Since(start), err) }()

	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}

	res = CalculateBMR(req)
	s.record(ctx, models.CalculationKindBMR, req, res, actor, start)
	return res, nil
}

// CalculateRecipe validates req and aggregates its ingredients. A catalog
// served from the cache is reloaded once when it does not know a unit or a
// nutrient the raw materials reference.
func (s *Service) CalculateRecipe(ctx context.Context, req models.RecipeRequest, actor string) (res *models.RecipeResult, err error) {
	start := time.Now()
	defer func() { metrics.RecordCalculation(models.CalculationKindRecipe, time.Since(start), err) }()

	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	if len(req.Ingredients) > s.maxIngredients {
		return nil, fmt.Errorf("%w: %d given, at most %d allowed", ErrTooManyIngredients, len(req.Ingredients), s.maxIngredients)
	}
	metrics.AggregationIngredients.Observe(float64(len(req.Ingredients)))

	ids := make([]string, len(req.Ingredients))
	for i, ing := range req.Ingredients {
		ids[i] = ing.RawMaterialID
	}
	materials, err := s.store.GetRawMaterialsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load raw materials: %w", err)
	}

	cat, cached, err := s.catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	res, err = Aggregate(req, materials, cat)
	if err != nil && cached && (errors.Is(err, ErrStaleCatalog) || errors.Is(err, ErrUnknownUnit)) {
		logging.Ctx(ctx).Debug().Err(err).Msg("Cached catalog missed a reference, reloading")
		s.InvalidateCatalog()
		if cat, _, err = s.catalog(ctx); err != nil {
			return nil, fmt.Errorf("reload catalog: %w", err)
		}
		res, err = Aggregate(req, materials, cat)
	}
	if err != nil {
		return nil, err
	}

	s.record(ctx, models.CalculationKindRecipe, req, res, actor, start)
	return res, nil
}

// CalculateSavedRecipe aggregates a stored recipe.
func (s *Service) CalculateSavedRecipe(ctx context.Context, id, actor string) (*models.Recipe, *models.RecipeResult, error) {
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.CalculateRecipe(ctx, models.RecipeRequest{Ingredients: r.Ingredients, Servings: r.Servings}, actor)
	if err != nil {
		return r, nil, err
	}
	return r, res, nil
}

// record appends the calculation to the history. Failures are logged and do
// not fail the calculation.
func (s *Service) record(ctx context.Context, kind string, req, res any, actor string, start time.Time) {
	if !s.history {
		return
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("kind", kind).Msg("Failed to encode calculation request")
		return
	}
	resJSON, err := json.Marshal(res)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("kind", kind).Msg("Failed to encode calculation result")
		return
	}

	entry := &models.CalculationLog{
		Kind:        kind,
		Request:     reqJSON,
		Result:      resJSON,
		RequestedBy: actor,
		DurationMS:  float64(time.Since(start).Microseconds()) / 1000,
	}
	if err := s.store.InsertCalculation(ctx, entry); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("kind", kind).Msg("Failed to record calculation")
	}
}
