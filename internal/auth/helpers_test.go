// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse-battery"

// newTestDirectory builds a directory with bcrypt.MinCost so tests stay fast.
func newTestDirectory(t *testing.T) *UserDirectory {
	t.Helper()
	d, err := NewUserDirectory([]Account{
		{Username: "admin", Password: testPassword, Role: RoleAdmin},
		{Username: "editor", Password: testPassword + "-e", Role: RoleEditor},
		{Username: "viewer", Password: testPassword + "-v", Role: RoleViewer},
	}, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewUserDirectory() error = %v", err)
	}
	return d
}
