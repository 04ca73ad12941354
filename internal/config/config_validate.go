// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Validate returns the first problem found, naming the environment
// variable that controls the offending setting.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateDatabase,
		c.validateServer,
		c.validateAPI,
		c.validateSecurity,
		c.validateImport,
		c.validateAudit,
		c.validateLogging,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

const (
	maxPageSizeLimit  = 1000
	maxIngredientsCap = 1000
)

func (c *Config) validateAPI() error {
	if c.API.MaxPageSize < 1 || c.API.MaxPageSize > maxPageSizeLimit {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be between 1 and %d", maxPageSizeLimit)
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be between 1 and API_MAX_PAGE_SIZE (%d)", c.API.MaxPageSize)
	}
	if c.API.MaxIngredients < 1 || c.API.MaxIngredients > maxIngredientsCap {
		return fmt.Errorf("MAX_INGREDIENTS must be between 1 and %d", maxIngredientsCap)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	for _, check := range []func() error{
		c.validateAuthMode,
		c.validateCORS,
		c.validateRateLimits,
		c.validateSessionStore,
		c.validateAuthModeConfig,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

var authModes = []string{"none", "session", "jwt", "basic"}

func (c *Config) validateAuthMode() error {
	if !slices.Contains(authModes, c.Security.AuthMode) {
		return fmt.Errorf("AUTH_MODE must be one of: %s", strings.Join(authModes, ", "))
	}
	if c.Security.AuthMode == "none" && c.IsProduction() {
		return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production")
	}
	return nil
}

func (c *Config) validateAuthModeConfig() error {
	switch c.Security.AuthMode {
	case "jwt":
		if err := c.validateJWTSecret(); err != nil {
			return err
		}
		return c.validateCredentials()
	case "session", "basic":
		return c.validateCredentials()
	default:
		return nil
	}
}

func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_MODE is jwt")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

const minPasswordLength = 12

// validateCredentials checks the admin account and any optional editor/viewer accounts.
func (c *Config) validateCredentials() error {
	mode := c.Security.AuthMode
	if c.Security.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME is required when AUTH_MODE is %s", mode)
	}
	if err := validatePassword("ADMIN_PASSWORD", c.Security.AdminPassword, c.Security.AdminUsername); err != nil {
		return err
	}

	optional := []struct {
		role, user, pass string
	}{
		{"EDITOR", c.Security.EditorUsername, c.Security.EditorPassword},
		{"VIEWER", c.Security.ViewerUsername, c.Security.ViewerPassword},
	}
	seen := map[string]bool{c.Security.AdminUsername: true}
	for _, acct := range optional {
		if acct.user == "" && acct.pass == "" {
			continue
		}
		if acct.user == "" {
			return fmt.Errorf("%s_USERNAME is required when %s_PASSWORD is set", acct.role, acct.role)
		}
		if seen[acct.user] {
			return fmt.Errorf("%s_USERNAME %q is already used by another account", acct.role, acct.user)
		}
		seen[acct.user] = true
		if err := validatePassword(acct.role+"_PASSWORD", acct.pass, acct.user); err != nil {
			return err
		}
	}
	return nil
}

func validatePassword(field, password, username string) error {
	if password == "" {
		return fmt.Errorf("%s is required", field)
	}
	if containsPlaceholder(password) {
		return fmt.Errorf("%s contains a placeholder value - set a secure password", field)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%s must be at least %d characters", field, minPasswordLength)
	}
	if username != "" && strings.Contains(strings.ToLower(password), strings.ToLower(username)) {
		return fmt.Errorf("%s must not contain the username", field)
	}
	return nil
}

// validateCORS rejects a wildcard origin in production with authentication on.
func (c *Config) validateCORS() error {
	if c.Security.AuthMode != "none" && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production with authentication enabled. " +
			"Set specific origins: CORS_ORIGINS=https://dashboard.example.com")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	return slices.Contains(c.Security.CORSOrigins, "*")
}

// ShouldWarnAboutCORS reports a wildcard origin with authentication on, which
// main logs at startup outside production
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AuthMode != "none" && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateSessionStore() error {
	switch c.Security.SessionStore {
	case "memory":
	case "badger":
		if c.Security.SessionStorePath == "" {
			return fmt.Errorf("SESSION_STORE_PATH is required when SESSION_STORE=badger")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be one of: memory, badger")
	}
	if c.Security.SessionTimeout < time.Minute {
		return fmt.Errorf("SESSION_TIMEOUT must be at least 1m")
	}
	return nil
}

func (c *Config) validateImport() error {
	if !c.Import.Enabled() {
		return nil
	}
	if err := validateHTTPURL(c.Import.BaseURL, "IMPORT_BASE_URL"); err != nil {
		return err
	}
	if c.Import.RequestsPerSecond <= 0 {
		return fmt.Errorf("IMPORT_REQUESTS_PER_SECOND must be positive")
	}
	if c.Import.Burst < 1 {
		return fmt.Errorf("IMPORT_BURST must be at least 1")
	}
	if c.Import.Timeout <= 0 {
		return fmt.Errorf("IMPORT_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAudit() error {
	if !c.Audit.Enabled {
		return nil
	}
	if c.Audit.Store != "memory" && c.Audit.Store != "duckdb" {
		return fmt.Errorf("AUDIT_STORE must be one of: memory, duckdb")
	}
	if c.Audit.RetentionDays < 0 {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must not be negative")
	}
	return nil
}

// IsProduction matches ENVIRONMENT=production or prod, any case.
func (c *Config) IsProduction() bool {
	return slices.Contains([]string{"production", "prod"}, strings.ToLower(c.Server.Environment))
}

// IsDevelopment treats an unset ENVIRONMENT as development.
func (c *Config) IsDevelopment() bool {
	return slices.Contains([]string{"", "development", "dev"}, strings.ToLower(c.Server.Environment))
}

var (
	logLevels  = []string{"trace", "debug", "info", "warn", "error"}
	logFormats = []string{"json", "console"}
)

func (c *Config) validateLogging() error {
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: %s", strings.Join(logLevels, ", "))
	}
	if c.Logging.Format != "" && !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("LOG_FORMAT must be one of: %s", strings.Join(logFormats, ", "))
	}
	return nil
}

// placeholders appear in secrets copied unchanged from an example file.
var placeholders = []string{"REPLACE", "CHANGEME", "CHANGE_ME", "YOUR_SECRET", "YOUR_PASSWORD", "PLACEHOLDER", "EXAMPLE"}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	return slices.ContainsFunc(placeholders, func(p string) bool { return strings.Contains(upper, p) })
}
