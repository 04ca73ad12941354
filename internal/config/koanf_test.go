// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testPassword = "correct-horse-battery"

// isolateConfigSources points CONFIG_PATH and DOTENV_PATH at files that do not exist
// so tests never pick up a developer's local configuration.
func isolateConfigSources(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	t.Setenv(DotEnvPathEnvVar, filepath.Join(dir, "missing.env"))
	return dir
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Database.Path != "/data/nutrimaster.duckdb" {
		t.Errorf("Database.Path = %q, want /data/nutrimaster.duckdb", cfg.Database.Path)
	}
	if !cfg.Database.SeedReferenceData {
		t.Error("Database.SeedReferenceData should be true by default")
	}
	if cfg.Server.Port != 8460 {
		t.Errorf("Server.Port = %d, want 8460", cfg.Server.Port)
	}
	if cfg.API.DefaultPageSize != 20 || cfg.API.MaxPageSize != 100 {
		t.Errorf("API page sizes = %d/%d, want 20/100", cfg.API.DefaultPageSize, cfg.API.MaxPageSize)
	}
	if cfg.Security.AuthMode != "session" {
		t.Errorf("Security.AuthMode = %q, want session", cfg.Security.AuthMode)
	}
	if cfg.Security.SessionTimeout != 24*time.Hour {
		t.Errorf("Security.SessionTimeout = %v, want 24h", cfg.Security.SessionTimeout)
	}
	if cfg.Import.Enabled() {
		t.Error("Import should be disabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DUCKDB_PATH", "database.path"},
		{"SEED_REFERENCE_DATA", "database.seed_reference_data"},
		{"HTTP_PORT", "server.port"},
		{"ENVIRONMENT", "server.environment"},
		{"API_MAX_PAGE_SIZE", "api.max_page_size"},
		{"AUTH_MODE", "security.auth_mode"},
		{"EDITOR_USERNAME", "security.editor_username"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"CASBIN_CACHE_TTL", "security.casbin.cache_ttl"},
		{"IMPORT_BASE_URL", "import.base_url"},
		{"AUDIT_STORE", "audit.store"},
		{"log_level", "logging.level"},

		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("env path that exists", func(t *testing.T) {
		path := filepath.Join(dir, "custom.yaml")
		if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, path)
		if got := findConfigFile(); got != path {
			t.Errorf("findConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("env path missing falls back to defaults", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "nope.yaml"))
		got := findConfigFile()
		for _, p := range DefaultConfigPaths {
			if got == p {
				return
			}
		}
		if got != "" {
			t.Errorf("findConfigFile() = %q, want a default path or empty", got)
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolateConfigSources(t)
	t.Setenv("AUTH_MODE", "session")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", testPassword)
	t.Setenv("HTTP_PORT", "9123")
	t.Setenv("DUCKDB_PATH", ":memory:")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9123 {
		t.Errorf("Server.Port = %d, want 9123", cfg.Server.Port)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %q, want :memory:", cfg.Database.Path)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example.org" {
		t.Errorf("Security.CORSOrigins = %v, want two trimmed origins", cfg.Security.CORSOrigins)
	}
	if cfg.Security.SessionStore != "memory" {
		t.Errorf("Security.SessionStore = %q, want memory", cfg.Security.SessionStore)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfConfigFileAndEnvOverride(t *testing.T) {
	dir := isolateConfigSources(t)
	path := filepath.Join(dir, "config.yaml")
	yamlContent := `
server:
  port: 7000
  timeout: 45s
api:
  default_page_size: 50
security:
  auth_mode: none
  session_store: memory
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 from file", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 45*time.Second {
		t.Errorf("Server.Timeout = %v, want 45s", cfg.Server.Timeout)
	}
	if cfg.API.DefaultPageSize != 50 {
		t.Errorf("API.DefaultPageSize = %d, want 50", cfg.API.DefaultPageSize)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want env override error", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfDotEnv(t *testing.T) {
	dir := isolateConfigSources(t)
	envPath := filepath.Join(dir, "test.env")
	content := "AUTH_MODE=none\nSESSION_STORE=memory\nDUCKDB_MAX_MEMORY=3GB\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv(DotEnvPathEnvVar, envPath)
	t.Cleanup(func() {
		os.Unsetenv("AUTH_MODE")
		os.Unsetenv("SESSION_STORE")
		os.Unsetenv("DUCKDB_MAX_MEMORY")
	})

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Database.MaxMemory != "3GB" {
		t.Errorf("Database.MaxMemory = %q, want 3GB from .env", cfg.Database.MaxMemory)
	}
	if cfg.Security.AuthMode != "none" {
		t.Errorf("Security.AuthMode = %q, want none from .env", cfg.Security.AuthMode)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"invalid port", map[string]string{"AUTH_MODE": "none", "SESSION_STORE": "memory", "HTTP_PORT": "70000"}},
		{"missing admin", map[string]string{"AUTH_MODE": "session", "SESSION_STORE": "memory"}},
		{"short jwt secret", map[string]string{
			"AUTH_MODE": "jwt", "SESSION_STORE": "memory", "JWT_SECRET": "short",
			"ADMIN_USERNAME": "admin", "ADMIN_PASSWORD": testPassword,
		}},
		{"invalid log level", map[string]string{"AUTH_MODE": "none", "SESSION_STORE": "memory", "LOG_LEVEL": "verbose"}},
		{"none in production", map[string]string{"AUTH_MODE": "none", "SESSION_STORE": "memory", "ENVIRONMENT": "production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigSources(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadWithKoanf(); err == nil {
				t.Error("LoadWithKoanf() expected validation error, got nil")
			}
		})
	}
}

func TestLoadDatabase(t *testing.T) {
	isolateConfigSources(t)
	// Session mode without credentials fails the full load but not LoadDatabase.
	t.Setenv("AUTH_MODE", "session")
	t.Setenv("DUCKDB_PATH", "/tmp/nutrictl.duckdb")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("LoadWithKoanf() expected validation error, got nil")
	}
	cfg, err := LoadDatabase()
	if err != nil {
		t.Fatalf("LoadDatabase() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/nutrictl.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}

	t.Setenv("LOG_LEVEL", "verbose")
	if _, err := LoadDatabase(); err == nil {
		t.Error("LoadDatabase() expected log level error, got nil")
	}
}
