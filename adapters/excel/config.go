package excel

import (
	"time"

	sheetdash "github.com/ideamans/go-sheetdash"
)

// Config holds configuration for Excel adapter
type Config struct {
	Password string // Password of an encrypted workbook, if any
	MaxRows  int    // Upper bound on data rows read per sheet (0: unlimited)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxRows < 0 {
		return ErrInvalidMaxRows
	}
	return nil
}

// DefaultClientConfig returns the recommended default configuration for Excel
func DefaultClientConfig() *sheetdash.Config {
	cfg := sheetdash.DefaultConfig()
	cfg.TTL = 30 * time.Second
	cfg.RefreshInterval = 30 * time.Second
	return cfg
}
