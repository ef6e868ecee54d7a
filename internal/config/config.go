// Package config loads process-level configuration from the environment.
// Command line flags override these values; user preferences that should
// follow the data live in the store's settings collection instead.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/utils"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "HABITUAL"

// Config holds settings read from HABITUAL_* environment variables
type Config struct {
	// Store path (SQLite or JSON file) used when nothing more specific is configured
	Config string `envconfig:"CONFIG" default:"~/.config/habitual/habitual.db"`
	// Password-free PostgreSQL connection string, takes precedence over Config
	DBConnection string `envconfig:"DB_CONNECTION"`
	Debug        bool   `envconfig:"DEBUG" default:"false"`
	// Overrides the timezone stored in settings for this process only
	Timezone string `envconfig:"TIMEZONE"`
}

// Load reads the environment into a Config and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail much later
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Config) == "" {
		return fmt.Errorf("%s_CONFIG must not be empty", EnvPrefix)
	}
	if c.Timezone != "" && !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("%s_TIMEZONE: invalid timezone %q", EnvPrefix, c.Timezone)
	}
	return nil
}

// ResolveStore picks the store target. Precedence: explicit flag,
// HABITUAL_DB_CONNECTION, connection string saved in the OS keyring,
// then HABITUAL_CONFIG (or its default path).
func (c *Config) ResolveStore(flag string) (string, error) {
	if flag != "" {
		return ExpandPath(flag)
	}
	if c.DBConnection != "" {
		return c.DBConnection, nil
	}

	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		return connStr, nil
	case errors.Is(err, keyring.ErrNotFound):
		// Nothing saved, fall through to the file store
	default:
		logger.Debug("Keyring lookup skipped", "error", err)
	}

	return ExpandPath(c.Config)
}

// ExpandPath expands a leading ~ to the user's home directory.
// Connection strings are returned unchanged.
func ExpandPath(path string) (string, error) {
	if IsPostgres(path) {
		return path, nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// IsPostgres reports whether the target is a PostgreSQL connection URL
func IsPostgres(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

// ConfigDir returns the directory used for logs and backups.
// PostgreSQL targets fall back to the default config directory.
func ConfigDir(target string) string {
	if IsPostgres(target) {
		if dir, err := ExpandPath(filepath.Dir(constants.DefaultConfigPath)); err == nil {
			return dir
		}
		return "."
	}
	return filepath.Dir(target)
}
