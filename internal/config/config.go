// Package config loads lq settings from LQ_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. LQ_DB_PATH.
const Prefix = "LQ"

type Config struct {
	// DBPath is the SQLite file holding all collections. Empty means ~/.lifequest.db.
	DBPath string `envconfig:"DB_PATH"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"warn"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// Timezone decides calendar days (completion keys, chains, streaks) and the
	// hour used for time-context bonuses.
	Timezone string `envconfig:"TIMEZONE" default:"Local"`

	// TuningPath points at an optional YAML file overriding economy constants.
	TuningPath string `envconfig:"TUNING_PATH"`

	RolloverSchedule string `envconfig:"ROLLOVER_SCHEDULE" default:"0 0 * * *"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings. Variables exported but left empty fall back to
// their defaults.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "warn"
	}
	if strings.TrimSpace(c.LogFormat) == "" {
		c.LogFormat = "text"
	}
	if strings.TrimSpace(c.RolloverSchedule) == "" {
		c.RolloverSchedule = "0 0 * * *"
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: invalid LOG_FORMAT %q (want text|json)", c.LogFormat)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone. "Local" and "" map to time.Local.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ResolveDBPath returns DBPath, falling back to the default location in the
// user's home directory.
func (c *Config) ResolveDBPath() (string, error) {
	if p := strings.TrimSpace(c.DBPath); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".lifequest.db"), nil
}
