// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package config

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are tried in order when CONFIG_PATH is unset or
// names a missing file.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/nutrimaster/config.yaml",
	"/etc/nutrimaster/config.yml",
}

const (
	// ConfigPathEnvVar names an explicit YAML config file.
	ConfigPathEnvVar = "CONFIG_PATH"
	// DotEnvPathEnvVar overrides the location of the optional .env file.
	DotEnvPathEnvVar = "DOTENV_PATH"
)

// defaultConfig is the bottom layer under the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/nutrimaster.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
			SeedReferenceData:      true,
		},
		Server: ServerConfig{
			Port:        8460,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			LookupCacheTTL:  5 * time.Minute,
			MaxIngredients:  200,
		},
		Security: SecurityConfig{
			AuthMode:          "session",
			SessionTimeout:    24 * time.Hour,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
			SessionStore:      "badger",
			SessionStorePath:  "/data/sessions",
			CookieSecure:      false,
			Casbin: CasbinConfig{
				DefaultRole:  "viewer",
				CacheEnabled: true,
				CacheTTL:     5 * time.Minute,
			},
		},
		Import: ImportConfig{
			Timeout:           10 * time.Second,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Audit: AuditConfig{
			Enabled:       true,
			Store:         "duckdb",
			RetentionDays: 365,
			BufferSize:    1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf merges defaults, the optional YAML file and the environment
// (plus any .env file), later layers winning, and validates the result.
func LoadWithKoanf() (*Config, error) {
	cfg, err := loadLayers()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadDatabase loads the same layers as LoadWithKoanf but validates only the
// database and logging sections. Offline tools that never serve HTTP use it.
func LoadDatabase() (*Config, error) {
	cfg, err := loadLayers()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateDatabase(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := cfg.validateLogging(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadLayers() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	// DUCKDB_PATH -> database.path, AUTH_MODE -> security.auth_mode, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// loadDotEnv copies a .env file into the process environment without
// overriding variables that are already set. No file, no error.
func loadDotEnv() error {
	path := cmp.Or(os.Getenv(DotEnvPathEnvVar), ".env")
	if !exists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// findConfigFile returns the YAML file to load, or "" to run on defaults
// and environment alone.
func findConfigFile() string {
	candidates := append([]string{os.Getenv(ConfigPathEnvVar)}, DefaultConfigPaths...)
	i := slices.IndexFunc(candidates, func(p string) bool { return p != "" && exists(p) })
	if i < 0 {
		return ""
	}
	return candidates[i]
}

// listPaths hold []string settings. From the environment they arrive as a
// single comma separated string.
var listPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range listPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var items []string
		for item := range strings.SplitSeq(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		if err := k.Set(path, items); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower case) to koanf paths.
var envMappings = map[string]string{
	// Database
	"duckdb_path":         "database.path",
	"duckdb_max_memory":   "database.max_memory",
	"duckdb_threads":      "database.threads",
	"seed_reference_data": "database.seed_reference_data",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",
	"lookup_cache_ttl":      "api.lookup_cache_ttl",
	"max_ingredients":       "api.max_ingredients",

	// Security
	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"session_timeout":     "security.session_timeout",
	"admin_username":      "security.admin_username",
	"admin_password":      "security.admin_password",
	"editor_username":     "security.editor_username",
	"editor_password":     "security.editor_password",
	"viewer_username":     "security.viewer_username",
	"viewer_password":     "security.viewer_password",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"trusted_proxies":     "security.trusted_proxies",
	"session_store":       "security.session_store",
	"session_store_path":  "security.session_store_path",
	"cookie_secure":       "security.cookie_secure",

	// Casbin
	"casbin_model_path":    "security.casbin.model_path",
	"casbin_policy_path":   "security.casbin.policy_path",
	"casbin_default_role":  "security.casbin.default_role",
	"casbin_cache_enabled": "security.casbin.cache_enabled",
	"casbin_cache_ttl":     "security.casbin.cache_ttl",

	// Food composition import
	"import_base_url":            "import.base_url",
	"import_api_key":             "import.api_key",
	"import_timeout":             "import.timeout",
	"import_requests_per_second": "import.requests_per_second",
	"import_burst":               "import.burst",

	// Audit
	"audit_enabled":        "audit.enabled",
	"audit_store":          "audit.store",
	"audit_retention_days": "audit.retention_days",
	"audit_buffer_size":    "audit.buffer_size",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its koanf path, for
// example IMPORT_BASE_URL to import.base_url. Variables without a mapping
// return "" and are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
