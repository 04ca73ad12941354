// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/tomtom215/nutrimaster/internal/models"
)

func TestFoodGroupLifecycle(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := s.do(http.MethodPost, "/api/v1/food-groups", map[string]string{
		"code": " LEGUMES ",
		"name": "Legumes",
	})
	expectStatus(t, rec, http.StatusCreated)
	var created models.FoodGroup
	decodeData(t, rec, &created)
	if created.ID == "" {
		t.Fatal("created food group has no id")
	}
	if created.Code != "LEGUMES" {
		t.Errorf("Code = %q, want trimmed LEGUMES", created.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/v1/food-groups/"+created.ID {
		t.Errorf("Location = %q", loc)
	}

	rec = s.do(http.MethodGet, "/api/v1/food-groups/"+created.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	var fetched models.FoodGroup
	decodeData(t, rec, &fetched)
	if fetched.Name != "Legumes" {
		t.Errorf("Name = %q, want Legumes", fetched.Name)
	}

	rec = s.do(http.MethodPut, "/api/v1/food-groups/"+created.ID, map[string]string{
		"code":        "LEGUMES",
		"name":        "Pulses and legumes",
		"description": "Beans, lentils, peas",
	})
	expectStatus(t, rec, http.StatusOK)
	var updated models.FoodGroup
	decodeData(t, rec, &updated)
	if updated.ID != created.ID || updated.Name != "Pulses and legumes" {
		t.Errorf("updated = %+v", updated)
	}

	rec = s.do(http.MethodDelete, "/api/v1/food-groups/"+created.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	var deleted struct {
		ID      string `json:"id"`
		Deleted bool   `json:"deleted"`
	}
	decodeData(t, rec, &deleted)
	if !deleted.Deleted || deleted.ID != created.ID {
		t.Errorf("delete response = %+v", deleted)
	}

	expectErrorCode(t, s.do(http.MethodGet, "/api/v1/food-groups/"+created.ID, nil), http.StatusNotFound, CodeNotFound)

	var actions []string
	for _, e := range s.publisher.all() {
		if e.Entity != models.EntityFoodGroup {
			t.Errorf("event entity = %q", e.Entity)
		}
		if e.EntityID != created.ID {
			t.Errorf("event entity id = %q, want %q", e.EntityID, created.ID)
		}
		if e.RequestID == "" {
			t.Error("event has no request id")
		}
		actions = append(actions, e.Action)
	}
	want := []string{models.ActionCreated, models.ActionUpdated, models.ActionDeleted}
	if strings.Join(actions, ",") != strings.Join(want, ",") {
		t.Errorf("actions = %v, want %v", actions, want)
	}
}

func TestResourceErrors(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{
			name:   "duplicate code",
			method: http.MethodPost,
			path:   "/api/v1/food-groups",
			body:   map[string]string{"code": "DAIRY", "name": "Another dairy"},
			status: http.StatusConflict,
			code:   CodeConflict,
		},
		{
			name:   "invalid code format",
			method: http.MethodPost,
			path:   "/api/v1/food-groups",
			body:   map[string]string{"code": "bad code!", "name": "x"},
			status: http.StatusUnprocessableEntity,
			code:   CodeValidation,
		},
		{
			name:   "missing name",
			method: http.MethodPost,
			path:   "/api/v1/units",
			body:   map[string]string{"code": "BOWL"},
			status: http.StatusUnprocessableEntity,
			code:   CodeValidation,
		},
		{
			name:   "malformed json",
			method: http.MethodPost,
			path:   "/api/v1/food-groups",
			body:   `{"code": "X",`,
			status: http.StatusBadRequest,
			code:   CodeBadRequest,
		},
		{
			name:   "empty body",
			method: http.MethodPost,
			path:   "/api/v1/food-groups",
			body:   "",
			status: http.StatusBadRequest,
			code:   CodeBadRequest,
		},
		{
			name:   "unknown food group reference",
			method: http.MethodPost,
			path:   "/api/v1/raw-materials",
			body: map[string]interface{}{
				"code":          "TOFU",
				"name":          "Tofu",
				"food_group_id": "00000000-0000-0000-0000-000000000000",
			},
			status: http.StatusUnprocessableEntity,
			code:   CodeInvalidReference,
		},
		{
			name:   "update missing row",
			method: http.MethodPut,
			path:   "/api/v1/food-groups/00000000-0000-0000-0000-000000000000",
			body:   map[string]string{"code": "GHOST", "name": "Ghost"},
			status: http.StatusNotFound,
			code:   CodeNotFound,
		},
		{
			name:   "delete missing row",
			method: http.MethodDelete,
			path:   "/api/v1/units/00000000-0000-0000-0000-000000000000",
			status: http.StatusNotFound,
			code:   CodeNotFound,
		},
		{
			name:   "overlong id",
			method: http.MethodGet,
			path:   "/api/v1/nutrients/" + strings.Repeat("a", maxIDLength+1),
			status: http.StatusBadRequest,
			code:   CodeInvalidParameter,
		},
		{
			name:   "unknown route",
			method: http.MethodGet,
			path:   "/api/v1/cupboards",
			status: http.StatusNotFound,
			code:   CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.body)
			expectErrorCode(t, rec, tt.status, tt.code)
		})
	}

	if n := len(s.publisher.all()); n != 0 {
		t.Errorf("failed writes published %d events", n)
	}
}

func TestValidationErrorDetails(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := s.do(http.MethodPost, "/api/v1/food-groups", map[string]string{"code": "lower"})
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	env := decodeEnvelope(t, rec)
	if env.Error == nil || len(env.Error.Details) == 0 {
		t.Fatalf("validation error has no details: %s", rec.Body.String())
	}
}

func TestNutrientEnergyFactorRequiresMassUnit(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	cats, err := s.db.AllNutrientCategories(context.Background())
	if err != nil || len(cats) == 0 {
		t.Fatalf("AllNutrientCategories() = %d, %v", len(cats), err)
	}
	body := map[string]interface{}{
		"code":          "ENERC_KJ",
		"name":          "Energy (kJ)",
		"category_id":   cats[0].ID,
		"unit_symbol":   "kJ",
		"energy_factor": 2.4,
	}

	rec := s.do(http.MethodPost, "/api/v1/nutrients", body)
	expectErrorCode(t, rec, http.StatusUnprocessableEntity, CodeValidation)
	if field := decodeEnvelope(t, rec).Error.Details["field"]; field != "energy_factor" {
		t.Errorf("details.field = %v, want energy_factor", field)
	}

	delete(body, "energy_factor")
	rec = s.do(http.MethodPost, "/api/v1/nutrients", body)
	expectStatus(t, rec, http.StatusCreated)
	var created models.Nutrient
	decodeData(t, rec, &created)

	// Switching a mass nutrient to an energy unit keeps the rule on update.
	body["unit_symbol"] = "g"
	body["energy_factor"] = 4
	expectStatus(t, s.do(http.MethodPut, "/api/v1/nutrients/"+created.ID, body), http.StatusOK)
	body["unit_symbol"] = "kcal"
	expectErrorCode(t, s.do(http.MethodPut, "/api/v1/nutrients/"+created.ID, body), http.StatusUnprocessableEntity, CodeValidation)
}

func TestDeleteReferencedFoodGroup(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := s.do(http.MethodGet, "/api/v1/food-groups?q=DAIRY", nil)
	expectStatus(t, rec, http.StatusOK)
	var groups []models.FoodGroup
	decodeData(t, rec, &groups)
	var dairyID string
	for _, g := range groups {
		if g.Code == "DAIRY" {
			dairyID = g.ID
		}
	}
	if dairyID == "" {
		t.Fatalf("DAIRY not found in %+v", groups)
	}

	expectErrorCode(t, s.do(http.MethodDelete, "/api/v1/food-groups/"+dairyID, nil), http.StatusConflict, CodeReferenced)
}

func TestListPagination(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := s.do(http.MethodGet, "/api/v1/food-groups?limit=3&offset=0&sort=code&order=asc", nil)
	expectStatus(t, rec, http.StatusOK)
	var page []models.FoodGroup
	env := decodeData(t, rec, &page)

	if len(page) != 3 {
		t.Fatalf("page size = %d, want 3", len(page))
	}
	if page[0].Code != "CEREALS" {
		t.Errorf("first code = %q, want CEREALS", page[0].Code)
	}
	for i := 1; i < len(page); i++ {
		if page[i-1].Code > page[i].Code {
			t.Errorf("codes not ascending: %q before %q", page[i-1].Code, page[i].Code)
		}
	}
	p := env.Metadata.Pagination
	if p == nil {
		t.Fatal("list response has no pagination")
	}
	if p.Total != 8 || p.Limit != 3 || !p.HasMore {
		t.Errorf("pagination = %+v, want total 8, limit 3, has_more", p)
	}

	rec = s.do(http.MethodGet, "/api/v1/food-groups?limit=3&offset=6&sort=code", nil)
	expectStatus(t, rec, http.StatusOK)
	env = decodeData(t, rec, &page)
	if len(page) != 2 || env.Metadata.Pagination.HasMore {
		t.Errorf("last page = %d items, has_more %v", len(page), env.Metadata.Pagination.HasMore)
	}
}

func TestListFilters(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := s.do(http.MethodGet, "/api/v1/nutrients?unit_symbol=mg", nil)
	expectStatus(t, rec, http.StatusOK)
	var nutrients []models.Nutrient
	decodeData(t, rec, &nutrients)
	if len(nutrients) == 0 {
		t.Fatal("no mg nutrients listed")
	}
	for _, n := range nutrients {
		if n.UnitSymbol != "mg" {
			t.Errorf("nutrient %s has unit %q", n.Code, n.UnitSymbol)
		}
	}

	empty := s.do(http.MethodGet, "/api/v1/raw-materials?q=no-such-material", nil)
	expectStatus(t, empty, http.StatusOK)
	var materials []models.RawMaterial
	env := decodeData(t, empty, &materials)
	if materials == nil || len(materials) != 0 {
		t.Errorf("empty search = %v, want []", materials)
	}
	if env.Metadata.Pagination.Total != 0 {
		t.Errorf("total = %d, want 0", env.Metadata.Pagination.Total)
	}
}

func TestListParamErrors(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	for _, query := range []string{
		"limit=abc",
		"offset=-1",
		"order=sideways",
		"sort=password",
		"q=" + strings.Repeat("x", maxQueryLength+1),
	} {
		t.Run(query[:min(len(query), 20)], func(t *testing.T) {
			rec := s.do(http.MethodGet, "/api/v1/food-groups?"+query, nil)
			expectErrorCode(t, rec, http.StatusBadRequest, CodeInvalidParameter)
		})
	}
}

func TestRawMaterialDefaults(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := s.do(http.MethodGet, "/api/v1/raw-materials/"+s.materialID("EGG"), nil)
	expectStatus(t, rec, http.StatusOK)
	var egg models.RawMaterial
	decodeData(t, rec, &egg)

	rec = s.do(http.MethodPost, "/api/v1/raw-materials", map[string]interface{}{
		"code":          "QUAIL_EGG",
		"name":          "Quail egg",
		"food_group_id": egg.FoodGroupID,
		"nutrients": []map[string]interface{}{
			{"nutrient_code": "PROCNT", "amount_per_100g": 13.1},
		},
	})
	expectStatus(t, rec, http.StatusCreated)
	var created models.RawMaterial
	decodeData(t, rec, &created)
	if created.EdiblePortion != 100 {
		t.Errorf("EdiblePortion = %v, want default 100", created.EdiblePortion)
	}
	if len(created.Nutrients) != 1 || created.Nutrients[0].NutrientID == "" {
		t.Errorf("nutrients = %+v, want resolved PROCNT", created.Nutrients)
	}
}
