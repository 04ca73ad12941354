// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

// Package validation checks request structs with go-playground/validator v10.
//
// Failures are reported per field by JSON path, nested paths included
// (ingredients[2].unit), in the VALIDATION_ERROR envelope of the API.
// Two custom tags are registered: "code" for master data codes and "sex"
// for biometric input.
//
//	var req models.BMRRequest
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusUnprocessableEntity, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const codeValidationError = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// codePattern matches master data codes: upper-case letters, digits, '_' and '-'.
var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{0,31}$`)

// FieldError is one failed constraint.
type FieldError struct {
	Path    string // JSON path of the field
	Tag     string // failing validate tag
	Param   string // tag parameter, "100" for max=100
	Value   any
	Message string
}

func (e FieldError) Error() string { return e.Message }

// RequestValidationError collects every failed constraint of a request.
type RequestValidationError struct {
	fields []FieldError
}

func (e *RequestValidationError) Errors() []FieldError { return e.fields }

func (e *RequestValidationError) Error() string {
	if len(e.fields) == 0 {
		return "validation failed"
	}
	return strings.Join(e.messages(), "; ")
}

func (e *RequestValidationError) messages() []string {
	out := make([]string, len(e.fields))
	for i, f := range e.fields {
		out[i] = f.Message
	}
	return out
}

// APIError mirrors models.APIError without importing it.
type APIError struct {
	Code    string
	Message string
	Details map[string]any
}

// ToAPIError renders the errors for the response body. A single failure
// reports field, tag and value in details; several are listed under
// "fields".
func (e *RequestValidationError) ToAPIError() *APIError {
	switch len(e.fields) {
	case 0:
		return &APIError{Code: codeValidationError, Message: "Validation failed"}
	case 1:
		f := e.fields[0]
		return &APIError{
			Code:    codeValidationError,
			Message: f.Message,
			Details: map[string]any{"field": f.Path, "tag": f.Tag, "value": f.Value},
		}
	}
	fields := make([]map[string]any, len(e.fields))
	for i, f := range e.fields {
		fields[i] = map[string]any{"field": f.Path, "tag": f.Tag, "message": f.Message}
	}
	return &APIError{
		Code:    codeValidationError,
		Message: strings.Join(e.messages(), "; "),
		Details: map[string]any{"fields": fields},
	}
}

// GetValidator returns the shared validator, building it on first use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)

		// Registration only fails for empty tags or nil functions.
		_ = validate.RegisterValidation("code", func(fl validator.FieldLevel) bool {
			return codePattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("sex", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "male" || s == "female"
		})
	})
	return validate
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

// ValidateStruct checks s against its validate tags. It returns nil when
// every constraint holds.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{fields: []FieldError{{Path: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := &RequestValidationError{fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		path := fieldPath(fe)
		out.fields = append(out.fields, FieldError{
			Path:    path,
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: message(fe, path),
		})
	}
	return out
}

// fieldPath drops the struct name from the namespace:
// "RecipeRequest.ingredients[1].unit" becomes "ingredients[1].unit".
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

var messages = map[string]func(path, param string) string{
	"required": func(p, _ string) string { return p + " is required" },
	"code":     func(p, _ string) string { return p + " must be 1-32 upper-case letters, digits, '_' or '-'" },
	"sex":      func(p, _ string) string { return p + " must be male or female" },
	"url":      func(p, _ string) string { return p + " must be a valid URL" },
	"oneof":    func(p, v string) string { return p + " must be one of: " + v },
	"gte":      func(p, v string) string { return p + " must be greater than or equal to " + v },
	"lte":      func(p, v string) string { return p + " must be less than or equal to " + v },
	"gt":       func(p, v string) string { return p + " must be greater than " + v },
	"lt":       func(p, v string) string { return p + " must be less than " + v },
	"required_without": func(p, v string) string {
		return p + " is required when " + snakeCase(v) + " is empty"
	},
	"excluded_with": func(p, v string) string {
		return p + " cannot be combined with " + snakeCase(v)
	},
	"excluded_if": func(p, v string) string {
		field, value, _ := strings.Cut(v, " ")
		return p + " must be empty when " + snakeCase(field) + " is " + value
	},
}

func message(fe validator.FieldError, path string) string {
	if render, ok := messages[fe.Tag()]; ok {
		return render(path, fe.Param())
	}

	// min and max read differently for lengths and for numbers.
	verb, unit := "must be", ""
	switch fe.Kind() {
	case reflect.String:
		verb, unit = "must have", " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		verb, unit = "must have", " items"
	}
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s %s at least %s%s", path, verb, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s %s at most %s%s", path, verb, fe.Param(), unit)
	}
	return fmt.Sprintf("%s failed %s validation", path, fe.Tag())
}

// snakeCase spells a Go field name referenced by a cross-field tag the way
// it appears in JSON: ActivityLevel becomes activity_level, NutrientID
// nutrient_id.
func snakeCase(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		upper := r >= 'A' && r <= 'Z'
		if upper && prevLower {
			b.WriteByte('_')
		}
		if upper {
			r += 'a' - 'A'
		}
		prevLower = !upper
		b.WriteRune(r)
	}
	return b.String()
}
