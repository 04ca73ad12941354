// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/nutrimaster/internal/config"
)

func TestSetup(t *testing.T) {
	base := config.SecurityConfig{
		AdminUsername:  "admin",
		AdminPassword:  testPassword,
		JWTSecret:      testSecret,
		SessionTimeout: time.Hour,
		SessionStore:   "memory",
	}

	tests := []struct {
		mode         string
		wantSessions bool
		wantJWT      bool
	}{
		{"session", true, false},
		{"jwt", false, true},
		{"basic", false, false},
		{"none", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := base
			cfg.AuthMode = tt.mode
			c, err := Setup(&cfg, bcrypt.MinCost)
			if err != nil {
				t.Fatalf("Setup() error = %v", err)
			}
			defer c.Close()

			if (c.Sessions != nil) != tt.wantSessions || (c.JWT != nil) != tt.wantJWT {
				t.Errorf("sessions=%v jwt=%v", c.Sessions != nil, c.JWT != nil)
			}
			if c.Middleware == nil || c.Users == nil {
				t.Error("middleware and users should always be built with an admin configured")
			}
		})
	}

	cfg := base
	cfg.AuthMode = "oidc"
	if _, err := Setup(&cfg, bcrypt.MinCost); err == nil {
		t.Error("unknown mode should fail")
	}
}

func TestParseAuthMode(t *testing.T) {
	if m, _ := ParseAuthMode(""); m != AuthModeSession {
		t.Errorf("ParseAuthMode(\"\") = %q, want session", m)
	}
	if _, err := ParseAuthMode("ldap"); err == nil {
		t.Error("ParseAuthMode(ldap) should fail")
	}
}
