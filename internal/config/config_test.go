package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
)

// clearEnv blanks every ORDO_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix) {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func validConfig() Config {
	return *Default()
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if cfg.Policy() != calendar.PolicySolemnityWins {
		t.Errorf("Policy() = %q, want %q", cfg.Policy(), calendar.PolicySolemnityWins)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled = false, want true")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("ORDO_PORT", "3000")
	t.Setenv("ORDO_ENV", "production")
	t.Setenv("ORDO_DATABASE_PATH", "/data/test.db")
	t.Setenv("ORDO_API_KEY", "secret-key-123")
	t.Setenv("ORDO_LOG_LEVEL", "debug")
	t.Setenv("ORDO_LOG_FORMAT", "json")
	t.Setenv("ORDO_YEAR_START", "2030")
	t.Setenv("ORDO_YEAR_END", "2031")
	t.Setenv("ORDO_WORKERS", "4")
	t.Setenv("ORDO_METRICS_ENABLED", "false")
	t.Setenv("ORDO_SOLEMNITY_POLICY", "sunday")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Env != EnvProduction {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProduction)
	}
	if cfg.DatabasePath != "/data/test.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/data/test.db")
	}
	if cfg.APIKey != "secret-key-123" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "secret-key-123")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
	if cfg.YearStart != 2030 || cfg.YearEnd != 2031 {
		t.Errorf("years = %d-%d, want 2030-2031", cfg.YearStart, cfg.YearEnd)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled = true, want false")
	}
	if cfg.Policy() != calendar.PolicySundayWins {
		t.Errorf("Policy() = %q, want %q", cfg.Policy(), calendar.PolicySundayWins)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "ordo.yaml")
	body := "port: 9090\nlectionary_path: /srv/lectionary.csv\nrules_path: /srv/rules.yaml\nlog_format: json\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv(FileVar, path)
	t.Setenv("ORDO_LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.LectionaryPath != "/srv/lectionary.csv" {
		t.Errorf("LectionaryPath = %q, want %q", cfg.LectionaryPath, "/srv/lectionary.csv")
	}
	if cfg.RulesPath != "/srv/rules.yaml" {
		t.Errorf("RulesPath = %q, want %q", cfg.RulesPath, "/srv/rules.yaml")
	}
	// Environment wins over the file.
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	// Untouched keys keep their defaults.
	if cfg.DatabasePath != "./data/ordo.db" {
		t.Errorf("DatabasePath = %q, want default", cfg.DatabasePath)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(FileVar, filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want file error")
	}
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORDO_LOG_LEVEL", "verbose")

	_, err := Load()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"valid production config", func(c *Config) { c.Env = EnvProduction; c.APIKey = "required-in-prod" }, false},
		{"production requires API key", func(c *Config) { c.Env = EnvProduction }, true},
		{"invalid port - too low", func(c *Config) { c.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.Port = 70000 }, true},
		{"invalid environment", func(c *Config) { c.Env = "invalid" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }, true},
		{"year before supported range", func(c *Config) { c.YearStart = 1500 }, true},
		{"year range reversed", func(c *Config) { c.YearStart, c.YearEnd = 2030, 2029 }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"unknown solemnity policy", func(c *Config) { c.SolemnityPolicy = "both" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want wrapped ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_ValidateReportsAll(t *testing.T) {
	cfg := validConfig()
	cfg.Port = 0
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil")
	}
	msg := err.Error()
	for _, want := range []string{"port", "log_format"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Validate() error %q does not mention %s", msg, want)
		}
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: EnvDevelopment}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}

	cfg.Env = EnvProduction
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Env: EnvProduction}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}

	cfg.Env = EnvDevelopment
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false")
	}
}
