// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/nutrimaster/internal/models"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// ===================================================================================================
// Custom Validator Tests
// ===================================================================================================

type codeStruct struct {
	Code string `json:"code" validate:"required,code"`
}

func TestCodeValidation(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"ENERC_KCAL", true},
		{"G", true},
		{"VEG-01", true},
		{"9GRAIN", true},
		{"lower", false},
		{"_LEADING", false},
		{"HAS SPACE", false},
		{"", false},
		{strings.Repeat("A", 32), true},
		{strings.Repeat("A", 33), false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := ValidateStruct(&codeStruct{Code: tt.code})
			if tt.valid && err != nil {
				t.Errorf("code %q should be valid, got %v", tt.code, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("code %q should be invalid", tt.code)
			}
		})
	}
}

type sexStruct struct {
	Sex string `json:"sex" validate:"required,sex"`
}

func TestSexValidation(t *testing.T) {
	for _, sex := range []string{"male", "female"} {
		if err := ValidateStruct(&sexStruct{Sex: sex}); err != nil {
			t.Errorf("sex %q should be valid, got %v", sex, err)
		}
	}
	for _, sex := range []string{"Male", "other", "m"} {
		err := ValidateStruct(&sexStruct{Sex: sex})
		if err == nil {
			t.Fatalf("sex %q should be invalid", sex)
		}
		if got := err.Errors()[0].Error(); got != "sex must be male or female" {
			t.Errorf("message = %q", got)
		}
	}
}

// ===================================================================================================
// Request Type Tests
// ===================================================================================================

func validBMRRequest() models.BMRRequest {
	return models.BMRRequest{Age: 30, Sex: "male", HeightCm: 180, WeightKg: 80}
}

func TestBMRRequestValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *models.BMRRequest)
		wantField string
		wantTag   string
	}{
		{"valid", func(r *models.BMRRequest) {}, "", ""},
		{"valid with factor", func(r *models.BMRRequest) { r.ActivityFactor = 1.55 }, "", ""},
		{"valid with level", func(r *models.BMRRequest) { r.ActivityLevel = "active" }, "", ""},
		{"age zero", func(r *models.BMRRequest) { r.Age = 0 }, "age", "required"},
		{"age too high", func(r *models.BMRRequest) { r.Age = 121 }, "age", "lte"},
		{"height too low", func(r *models.BMRRequest) { r.HeightCm = 49.9 }, "height_cm", "gte"},
		{"weight too high", func(r *models.BMRRequest) { r.WeightKg = 401 }, "weight_kg", "lte"},
		{"factor too high", func(r *models.BMRRequest) { r.ActivityFactor = 2.6 }, "activity_factor", "lte"},
		{"unknown level", func(r *models.BMRRequest) { r.ActivityLevel = "athlete" }, "activity_level", "oneof"},
		{"factor and level", func(r *models.BMRRequest) {
			r.ActivityFactor = 1.3
			r.ActivityLevel = "light"
		}, "activity_factor", "excluded_with"},
		{"unknown formula", func(r *models.BMRRequest) { r.Formula = "katch" }, "formula", "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBMRRequest()
			tt.mutate(&req)
			err := ValidateStruct(&req)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error on %s", tt.wantField)
			}
			first := err.Errors()[0]
			if first.Path != tt.wantField || first.Tag != tt.wantTag {
				t.Errorf("got field=%q tag=%q, want field=%q tag=%q", first.Path, first.Tag, tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestExcludedWithMessage(t *testing.T) {
	req := validBMRRequest()
	req.ActivityFactor = 1.3
	req.ActivityLevel = "light"
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "activity_factor cannot be combined with activity_level" {
		t.Errorf("message = %q", got)
	}
}

func TestEnergyFactorOnEnergyUnit(t *testing.T) {
	tests := []struct {
		unit    string
		factor  *float64
		wantErr bool
	}{
		{"g", models.Float64Ptr(4), false},
		{"mg", models.Float64Ptr(4), false},
		{"kcal", nil, false},
		{"kcal", models.Float64Ptr(1), true},
		{"kJ", models.Float64Ptr(2.4), true},
	}
	for _, tt := range tests {
		n := models.Nutrient{Code: "X", Name: "X", CategoryID: "c", UnitSymbol: tt.unit, EnergyFactor: tt.factor}
		err := ValidateStruct(&n)
		if (err != nil) != tt.wantErr {
			t.Errorf("unit %s, factor %v: error = %v, wantErr %v", tt.unit, tt.factor, err, tt.wantErr)
			continue
		}
		if err != nil {
			if got, want := err.Error(), "energy_factor must be empty when unit_symbol is "+tt.unit; got != want {
				t.Errorf("message = %q, want %q", got, want)
			}
		}
	}
}

func TestNestedFieldPaths(t *testing.T) {
	req := models.RecipeRequest{
		Ingredients: []models.Ingredient{
			{RawMaterialID: "rm-1", Quantity: 100, Unit: "g"},
			{RawMaterialID: "rm-2", Quantity: 0, Unit: ""},
		},
	}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	fields := map[string]bool{}
	for _, e := range err.Errors() {
		fields[e.Path] = true
	}
	for _, want := range []string{"ingredients[1].quantity", "ingredients[1].unit"} {
		if !fields[want] {
			t.Errorf("missing error for %s, got %v", want, fields)
		}
	}
}

func TestRecipeRequestLimits(t *testing.T) {
	empty := models.RecipeRequest{}
	if err := ValidateStruct(&empty); err == nil || err.Errors()[0].Path != "ingredients" {
		t.Errorf("empty ingredient list should fail on ingredients, got %v", err)
	}

	many := models.RecipeRequest{Ingredients: make([]models.Ingredient, models.MaxIngredients+1)}
	for i := range many.Ingredients {
		many.Ingredients[i] = models.Ingredient{RawMaterialID: "rm", Quantity: 1, Unit: "g"}
	}
	err := ValidateStruct(&many)
	if err == nil {
		t.Fatal("expected error for too many ingredients")
	}
	if got := err.Errors()[0].Error(); got != "ingredients must have at most 200 items" {
		t.Errorf("message = %q", got)
	}

	servings := models.RecipeRequest{
		Ingredients: []models.Ingredient{{RawMaterialID: "rm", Quantity: 1, Unit: "g"}},
		Servings:    1001,
	}
	if err := ValidateStruct(&servings); err == nil {
		t.Error("servings above 1000 should fail")
	}
}

func TestRawMaterialNutrientRequiredWithout(t *testing.T) {
	rm := models.RawMaterial{
		Code:          "EGG",
		Name:          "Egg",
		FoodGroupID:   "fg",
		EdiblePortion: 88,
		Nutrients:     []models.RawMaterialNutrient{{AmountPer100g: 12.6}},
	}
	err := ValidateStruct(&rm)
	if err == nil {
		t.Fatal("expected error for nutrient without id or code")
	}
	if got := err.Errors()[0].Error(); got != "nutrients[0].nutrient_id is required when nutrient_code is empty" {
		t.Errorf("message = %q", got)
	}

	rm.Nutrients[0].NutrientCode = "PROCNT"
	if err := ValidateStruct(&rm); err != nil {
		t.Errorf("nutrient code should satisfy required_without: %v", err)
	}
}

// ===================================================================================================
// API Error Conversion Tests
// ===================================================================================================

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&codeStruct{Code: ""})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "code is required" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "code" {
		t.Errorf("Details[field] = %v, want code", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	req := models.BMRRequest{Sex: "x"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected errors")
	}
	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has type %T", apiErr.Details["fields"])
	}
	if len(fields) != len(err.Errors()) || len(fields) < 4 {
		t.Errorf("expected one detail per error (>=4), got %d", len(fields))
	}
	if !strings.Contains(apiErr.Message, "sex must be male or female") {
		t.Errorf("Message = %q should list the sex error", apiErr.Message)
	}
}

func TestEmptyRequestValidationError(t *testing.T) {
	ve := &RequestValidationError{}
	if ve.Error() != "validation failed" {
		t.Errorf("Error() = %q", ve.Error())
	}
	if ve.ToAPIError().Message != "Validation failed" {
		t.Errorf("ToAPIError().Message = %q", ve.ToAPIError().Message)
	}
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"ActivityLevel": "activity_level",
		"NutrientID":    "nutrient_id",
		"UnitCode":      "unit_code",
		"code":          "code",
	}
	for in, want := range tests {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
