// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/nutrimaster/internal/database"
	"github.com/tomtom215/nutrimaster/internal/nutrition"
)

func TestParseListParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/nutrients?q=%20vit%20&sort=name&order=desc&limit=25&offset=50&category_id=c1&unit_symbol=&other=x", nil)

	p, err := parseListParams(req, "category_id", "unit_symbol")
	if err != nil {
		t.Fatalf("parseListParams() error = %v", err)
	}
	if p.Query != "vit" || p.Sort != "name" || p.Order != "desc" || p.Limit != 25 || p.Offset != 50 {
		t.Errorf("params = %+v", p)
	}
	want := map[string]string{"category_id": "c1"}
	if !reflect.DeepEqual(p.Filters, want) {
		t.Errorf("Filters = %v, want %v", p.Filters, want)
	}
}

func TestIntParam(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"42", 42, false},
		{"-1", 0, true},
		{"1.5", 0, true},
		{"ten", 0, true},
	}
	for _, tt := range tests {
		got, err := intParam(tt.value, "limit")
		if (err != nil) != tt.wantErr {
			t.Errorf("intParam(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, database.ErrInvalidListParam) {
			t.Errorf("intParam(%q) error = %v, want ErrInvalidListParam", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("intParam(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestParseCommaSeparated(t *testing.T) {
	got := parseCommaSeparated(" a, ,b ,c,")
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("parseCommaSeparated() = %v", got)
	}
	if parseCommaSeparated("") != nil {
		t.Error("empty input should give nil")
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		ok     bool
		status int
	}{
		{"valid", `{"name":"x"}`, true, http.StatusOK},
		{"empty", ``, false, http.StatusBadRequest},
		{"malformed", `{"name":`, false, http.StatusBadRequest},
		{"trailing document", `{"name":"x"}{"name":"y"}`, false, http.StatusBadRequest},
		// 413 when the decoder surfaces the MaxBytesError, 400 otherwise.
		{"too large", `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst struct {
				Name string `json:"name"`
			}
			if got := decodeJSON(rec, req, &dst); got != tt.ok {
				t.Fatalf("decodeJSON() = %v, want %v", got, tt.ok)
			}
			if tt.status == 0 && rec.Code != http.StatusRequestEntityTooLarge && rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 413 or 400", rec.Code)
			}
			if !tt.ok && tt.status != 0 && rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("get: %w", database.ErrNotFound), http.StatusNotFound, CodeNotFound},
		{"conflict", database.ErrConflict, http.StatusConflict, CodeConflict},
		{"referenced", database.ErrReferenced, http.StatusConflict, CodeReferenced},
		{"list param", database.ErrInvalidListParam, http.StatusBadRequest, CodeInvalidParameter},
		{"bad reference", database.ErrInvalidReference, http.StatusUnprocessableEntity, CodeInvalidReference},
		{"bad input", database.ErrInvalidInput, http.StatusUnprocessableEntity, CodeValidation},
		{"no ingredients", nutrition.ErrNoIngredients, http.StatusUnprocessableEntity, CodeValidation},
		{"ingredient", &nutrition.IngredientError{Index: 3, Field: "quantity", Value: "0", Err: nutrition.ErrInvalidQuantity}, http.StatusUnprocessableEntity, CodeValidation},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, CodeTimeout},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			expectErrorCode(t, rec, tt.status, tt.code)
			if tt.code == CodeInternal && strings.Contains(rec.Body.String(), "disk on fire") {
				t.Error("internal error message leaked to the client")
			}
		})
	}
}
