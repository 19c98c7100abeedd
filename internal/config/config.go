package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/year-planner/planner"
)

// DocumentConfig selects the per-user remote store. An empty DSN disables
// sign-in.
type DocumentConfig struct {
	Driver string `yaml:"driver" json:"driver"` // postgres | sqlite
	DSN    string `yaml:"dsn" json:"dsn"`
}

// SettingsConfig seeds the holiday settings of users who have none stored.
type SettingsConfig struct {
	BaseAllowance  string `yaml:"base_allowance" json:"base_allowance"`
	RolloverDays   string `yaml:"rollover_days" json:"rollover_days"`
	RolloverExpiry string `yaml:"rollover_expiry" json:"rollover_expiry"` // YYYY-MM-DD, empty for June 30 this year
}

// Config is the top-level server configuration.
type Config struct {
	Listen   string `yaml:"listen" json:"listen"`
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LocalDB is the SQLite file backing the signed-out planner.
	LocalDB string `yaml:"local_db" json:"local_db"`

	Document DocumentConfig `yaml:"document" json:"document"`

	// Region filters the seed bank-holiday calendar ("" keeps all).
	Region string `yaml:"region" json:"region"`

	// HolidaysICS is an optional .ics file with extra bank holidays.
	HolidaysICS string `yaml:"holidays_ics" json:"holidays_ics"`

	// UpcomingDays is the default horizon of the upcoming panel.
	UpcomingDays int `yaml:"upcoming_days" json:"upcoming_days"`

	// CORSOrigins lists the frontends allowed to call the API with
	// credentials. "*" is accepted but disables credentials.
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`

	DefaultSettings SettingsConfig `yaml:"default_settings" json:"default_settings"`
}

// DefaultCORSOrigins are the local dev frontends.
func DefaultCORSOrigins() []string {
	return []string{"http://localhost:5173", "http://localhost:8080"}
}

func DefaultConfig() *Config {
	return &Config{
		Listen:       ":8080",
		LogLevel:     "INFO",
		LocalDB:      "./data/planner.db",
		Document:     DocumentConfig{Driver: "postgres"},
		Region:       "ES",
		UpcomingDays: 30,
		CORSOrigins:  DefaultCORSOrigins(),
		DefaultSettings: SettingsConfig{
			BaseAllowance: "23",
			RolloverDays:  "0",
		},
	}
}

// Normalize fills in missing values so partially-filled files still work.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	c.LogLevel = strings.ToUpper(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.LocalDB == "" {
		c.LocalDB = "./data/planner.db"
	}
	switch c.Document.Driver {
	case "postgres", "sqlite":
	default:
		c.Document.Driver = "postgres"
	}
	if c.UpcomingDays <= 0 {
		c.UpcomingDays = 30
	}
	if c.CORSOrigins == nil {
		c.CORSOrigins = DefaultCORSOrigins()
	}
	if c.DefaultSettings.BaseAllowance == "" {
		c.DefaultSettings.BaseAllowance = "23"
	}
	if c.DefaultSettings.RolloverDays == "" {
		c.DefaultSettings.RolloverDays = "0"
	}
}

// ApplyEnv overrides file values with PLANNER_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PLANNER_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("PLANNER_LOCAL_DB"); v != "" {
		c.LocalDB = v
	}
	if v := os.Getenv("PLANNER_DOCUMENT_DSN"); v != "" {
		c.Document.DSN = v
	}
	if v := os.Getenv("PLANNER_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToUpper(v)
	}
	if v := os.Getenv("PLANNER_UPCOMING_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.UpcomingDays = n
		}
	}
}

// Settings converts the configured defaults for the given year.
func (c *Config) Settings(year int) (planner.HolidaySettings, error) {
	s := planner.DefaultSettings(year)

	base, err := decimal.NewFromString(c.DefaultSettings.BaseAllowance)
	if err != nil {
		return s, &planner.ValidationError{Field: "base_allowance", Message: "must be a number"}
	}
	rollover, err := decimal.NewFromString(c.DefaultSettings.RolloverDays)
	if err != nil {
		return s, &planner.ValidationError{Field: "rollover_days", Message: "must be a number"}
	}
	s.BaseAllowance = base
	s.RolloverDays = rollover
	if c.DefaultSettings.RolloverExpiry != "" {
		s.RolloverExpiryDate = c.DefaultSettings.RolloverExpiry
	}
	return s, planner.ValidateSettings(s)
}

// Load reads the YAML file at path. A missing file is created with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".planner-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
