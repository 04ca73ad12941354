// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/nutrimaster/internal/database"
	"github.com/tomtom215/nutrimaster/internal/logging"
	"github.com/tomtom215/nutrimaster/internal/metrics"
	"github.com/tomtom215/nutrimaster/internal/models"
	"github.com/tomtom215/nutrimaster/internal/validation"
)

// Store is the data access an import needs. *database.DB implements it.
type Store interface {
	AllNutrients(ctx context.Context) ([]models.Nutrient, error)
	GetRawMaterialByCode(ctx context.Context, code string) (*models.RawMaterial, error)
	CreateRawMaterial(ctx context.Context, rm *models.RawMaterial) error
	UpdateRawMaterial(ctx context.Context, rm *models.RawMaterial) error
}

// Service imports remote food profiles as raw materials.
type Service struct {
	source FoodSource
	store  Store
}

// NewService creates an import service.
func NewService(source FoodSource, store Store) *Service {
	return &Service{source: source, store: store}
}

// Import fetches req.FoodID and creates the raw material req.Code from it,
// or replaces the nutrient profile of an existing one. Unit weights and the
// description of an existing material are kept.
func (s *Service) Import(ctx context.Context, req models.ImportRequest) (res *models.ImportResult, err error) {
	defer func() { metrics.RecordImport(err) }()

	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}

	profile, err := s.source.FetchFood(ctx, req.FoodID)
	if err != nil {
		return nil, err
	}

	nutrients, err := s.store.AllNutrients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load nutrients: %w", err)
	}
	mapping := MapNutrients(profile, nutrients)

	existing, err := s.store.GetRawMaterialByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	rm := &models.RawMaterial{
		Code:          req.Code,
		Name:          firstNonEmpty(req.Name, profile.Label, req.Code),
		FoodGroupID:   req.FoodGroupID,
		EdiblePortion: req.EdiblePortion,
		Nutrients:     mapping.Nutrients,
	}
	created := existing == nil
	if created {
		rm.Description = importDescription(profile)
		err = s.store.CreateRawMaterial(ctx, rm)
	} else {
		rm.ID = existing.ID
		rm.Description = existing.Description
		rm.UnitWeights = existing.UnitWeights
		if rm.EdiblePortion == 0 {
			rm.EdiblePortion = existing.EdiblePortion
		}
		err = s.store.UpdateRawMaterial(ctx, rm)
	}
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("food_id", profile.FoodID).
		Str("code", rm.Code).
		Bool("created", created).
		Int("imported", len(mapping.Imported)).
		Int("skipped", len(mapping.Skipped)).
		Msg("Imported food composition")

	return &models.ImportResult{
		RawMaterial: rm,
		Created:     created,
		Imported:    mapping.Imported,
		Skipped:     mapping.Skipped,
	}, nil
}

func importDescription(p *FoodProfile) string {
	parts := []string{"Imported from food database (" + p.FoodID + ")"}
	if p.Category != "" {
		parts = append(parts, "category: "+p.Category)
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
