// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// config file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. .env File: Optional dotenv file, merged into the process environment
//  4. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Infrastructure:
//     - Database: DuckDB configuration (path, memory, seed data)
//     - Server: HTTP server configuration (port, host, timeout)
//
//  2. API & Security:
//     - API: Pagination limits and lookup cache
//     - Security: Authentication, sessions, rate limiting, RBAC
//
//  3. Integrations:
//     - Import: Remote food composition database client
//     - Audit: Audit trail storage and retention
//
//  4. Observability:
//     - Logging: Log levels and output formats
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Import   ImportConfig   `koanf:"import"`
	Audit    AuditConfig    `koanf:"audit"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings.
//
// Environment Variables:
//   - DUCKDB_PATH: Database file path, ":memory:" for an in-memory database
//   - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
//   - DUCKDB_THREADS: Worker threads (default: 0 = runtime.NumCPU())
//   - SEED_REFERENCE_DATA: Load reference units, nutrients and raw materials on first start
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
	SeedReferenceData      bool   `koanf:"seed_reference_data"`
	SkipIndexes            bool   `koanf:"skip_indexes"` // tests only
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
}

// APIConfig holds pagination and response settings shared by all list endpoints.
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size"`
	MaxPageSize     int           `koanf:"max_page_size"`
	LookupCacheTTL  time.Duration `koanf:"lookup_cache_ttl"`
	MaxIngredients  int           `koanf:"max_ingredients"`
}

// SecurityConfig holds authentication, session and authorization settings.
//
// AuthMode is one of:
//   - session: cookie sessions created by POST /api/v1/auth/login (default)
//   - jwt: bearer tokens issued by POST /api/v1/auth/login
//   - basic: HTTP Basic credentials on every request
//   - none: authentication disabled (development only)
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	EditorUsername    string        `koanf:"editor_username"`
	EditorPassword    string        `koanf:"editor_password"`
	ViewerUsername    string        `koanf:"viewer_username"`
	ViewerPassword    string        `koanf:"viewer_password"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`

	// SessionStore is "memory" or "badger"
	SessionStore     string `koanf:"session_store"`
	SessionStorePath string `koanf:"session_store_path"`
	CookieSecure     bool   `koanf:"cookie_secure"`

	Casbin CasbinConfig `koanf:"casbin"`
}

// CasbinConfig holds RBAC enforcer settings. Empty paths use the embedded
// model and policy.
type CasbinConfig struct {
	ModelPath    string        `koanf:"model_path"`
	PolicyPath   string        `koanf:"policy_path"`
	DefaultRole  string        `koanf:"default_role"`
	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// ImportConfig configures the remote food composition database client.
// The importer is disabled when BaseURL is empty.
type ImportConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// Enabled reports whether a remote food database is configured.
func (c ImportConfig) Enabled() bool {
	return c.BaseURL != ""
}

// AuditConfig configures the audit trail.
type AuditConfig struct {
	Enabled       bool   `koanf:"enabled"`
	Store         string `koanf:"store"` // memory or duckdb
	RetentionDays int    `koanf:"retention_days"`
	BufferSize    int    `koanf:"buffer_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from all sources and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
