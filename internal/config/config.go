// Package config loads application configuration from defaults, an optional
// YAML file and ORDO_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes every environment variable the service reads.
const EnvPrefix = "ORDO_"

// FileVar names the environment variable holding the optional YAML file.
const FileVar = "ORDO_CONFIG"

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port int    `koanf:"port"` // HTTP port to listen on
	Env  string `koanf:"env"`  // development, staging, production

	// Database
	DatabasePath string `koanf:"database_path"` // Path to SQLite file

	// Authentication
	APIKey string `koanf:"api_key"` // API key for admin endpoints

	// Logging
	LogLevel  string `koanf:"log_level"`  // debug, info, warn, error
	LogFormat string `koanf:"log_format"` // json, text

	// Calendar and mapping
	YearStart       int    `koanf:"year_start"`
	YearEnd         int    `koanf:"year_end"`
	LectionaryPath  string `koanf:"lectionary_path"`
	RulesPath       string `koanf:"rules_path"` // optional matcher rules YAML
	Workers         int    `koanf:"workers"`    // 0 means GOMAXPROCS
	SolemnityPolicy string `koanf:"solemnity_policy"`

	// Metrics
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Port:            8080,
		Env:             EnvDevelopment,
		DatabasePath:    "./data/ordo.db",
		LogLevel:        "info",
		LogFormat:       "text",
		YearStart:       2024,
		YearEnd:         2026,
		LectionaryPath:  "./data/lectionary.csv",
		SolemnityPolicy: string(calendar.PolicySolemnityWins),
		MetricsEnabled:  true,
	}
}

// Load builds a Config in layers, lowest precedence first:
//  1. a .env file in the working directory, if present
//  2. defaults
//  3. the YAML file named by ORDO_CONFIG, if set
//  4. ORDO_-prefixed environment variables (ORDO_DATABASE_PATH -> database_path)
func Load() (*Config, error) {
	// No-op in production where env vars are set directly.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv(FileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every setting and reports all problems at once, wrapped
// in ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("env must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path is required"))
	}

	// API key is required in production
	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("api_key is required in production"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log_format must be one of: json, text; got %q", c.LogFormat))
	}

	if c.YearStart < calendar.MinYear || c.YearStart > calendar.MaxYear {
		errs = append(errs, fmt.Errorf("year_start must be between %d and %d, got %d", calendar.MinYear, calendar.MaxYear, c.YearStart))
	}
	if c.YearEnd < c.YearStart || c.YearEnd > calendar.MaxYear {
		errs = append(errs, fmt.Errorf("year_end must be between year_start and %d, got %d", calendar.MaxYear, c.YearEnd))
	}

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}

	if !calendar.SolemnityPolicy(c.SolemnityPolicy).IsValid() {
		errs = append(errs, fmt.Errorf("solemnity_policy must be one of: %s, %s; got %q",
			calendar.PolicySolemnityWins, calendar.PolicySundayWins, c.SolemnityPolicy))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

// Policy returns the configured solemnity policy.
func (c *Config) Policy() calendar.SolemnityPolicy {
	return calendar.SolemnityPolicy(c.SolemnityPolicy)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
