// Package config loads sheetdash.yml, .env and environment overrides for
// the sheetdash command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up in the working directory
const DefaultPath = "sheetdash.yml"

// DefaultAddr is the listen address of the serve command
const DefaultAddr = ":8501"

// ExcelConfig holds settings for local workbooks
type ExcelConfig struct {
	Password string `yaml:"password,omitempty"`
	MaxRows  int    `yaml:"max_rows,omitempty"` // 0 = unlimited
}

// GoogleSheetsConfig holds settings for Google Sheets sources
type GoogleSheetsConfig struct {
	Credentials string `yaml:"credentials,omitempty"` // service account JSON; empty uses application default credentials
	ReadRange   string `yaml:"read_range,omitempty"`
}

// Config represents the top-level sheetdash.yml configuration
type Config struct {
	Source          string             `yaml:"source"` // workbook path or gsheets:<id>
	Addr            string             `yaml:"addr,omitempty"`
	TTL             time.Duration      `yaml:"ttl,omitempty"`
	RefreshInterval time.Duration      `yaml:"refresh_interval,omitempty"`
	ProgressSheet   string             `yaml:"progress_sheet,omitempty"`
	TaskColumn      string             `yaml:"task_column,omitempty"`
	MaxDefaultTasks int                `yaml:"max_default_tasks,omitempty"`
	Excel           ExcelConfig        `yaml:"excel,omitempty"`
	GoogleSheets    GoogleSheetsConfig `yaml:"google_sheets,omitempty"`
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	lib := sheetdash.DefaultConfig()
	return &Config{
		Addr:            DefaultAddr,
		TTL:             lib.TTL,
		RefreshInterval: lib.RefreshInterval,
		ProgressSheet:   lib.ProgressSheet,
		TaskColumn:      lib.TaskColumn,
		MaxDefaultTasks: lib.MaxDefaultTasks,
	}
}

// Load builds the configuration in order of increasing precedence: defaults,
// the YAML file at path, a .env file in the working directory, then
// SHEETDASH_* environment variables. A missing file is an error only when
// path is not DefaultPath.
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
		// No file is fine; everything may come from the environment
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnv overrides fields from the environment
func (c *Config) applyEnv() error {
	c.Source = getEnvOrDefault("SHEETDASH_SOURCE", c.Source)
	c.Addr = getEnvOrDefault("SHEETDASH_ADDR", c.Addr)
	c.ProgressSheet = getEnvOrDefault("SHEETDASH_PROGRESS_SHEET", c.ProgressSheet)
	c.GoogleSheets.Credentials = getEnvOrDefault("GOOGLE_APPLICATION_CREDENTIALS", c.GoogleSheets.Credentials)

	var err error
	if c.TTL, err = getEnvDurationOrDefault("SHEETDASH_TTL", c.TTL); err != nil {
		return err
	}
	if c.RefreshInterval, err = getEnvDurationOrDefault("SHEETDASH_REFRESH", c.RefreshInterval); err != nil {
		return err
	}
	if v := os.Getenv("SHEETDASH_MAX_TASKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SHEETDASH_MAX_TASKS %q: %w", v, err)
		}
		c.MaxDefaultTasks = n
	}
	return nil
}

// Validate checks that the configuration can open a source
func (c *Config) Validate() error {
	if c.Source == "" {
		return sheetdash.ErrMissingLocator
	}
	if c.TTL < 0 {
		return fmt.Errorf("ttl must be non-negative, got %s", c.TTL)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval must be non-negative, got %s", c.RefreshInterval)
	}
	if c.MaxDefaultTasks < 0 {
		return fmt.Errorf("max_default_tasks must be non-negative, got %d", c.MaxDefaultTasks)
	}
	if c.Excel.MaxRows < 0 {
		return fmt.Errorf("excel.max_rows must be non-negative, got %d", c.Excel.MaxRows)
	}
	return nil
}

// ClientConfig converts the file settings into a library configuration
func (c *Config) ClientConfig(logger *log.Logger) *sheetdash.Config {
	return &sheetdash.Config{
		TTL:             c.TTL,
		RefreshInterval: c.RefreshInterval,
		ProgressSheet:   c.ProgressSheet,
		TaskColumn:      c.TaskColumn,
		MaxDefaultTasks: c.MaxDefaultTasks,
		Logger:          logger,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	// Bare numbers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
