package googlesheets

import (
	"time"

	sheetdash "github.com/ideamans/go-sheetdash"
)

// DefaultReadRange is the column span read from every sheet
const DefaultReadRange = "A:ZZ"

// Config represents configuration specific to Google Sheets adapter
type Config struct {
	ReadRange string // A1 column span, e.g. "A:ZZ"
}

func (c Config) readRange() string {
	if c.ReadRange == "" {
		return DefaultReadRange
	}
	return c.ReadRange
}

// DefaultClientConfig returns the recommended default configuration for Google Sheets.
// Remote reads are slower and rate limited, so entries live longer than for files.
func DefaultClientConfig() *sheetdash.Config {
	cfg := sheetdash.DefaultConfig()
	cfg.TTL = 60 * time.Second
	cfg.RefreshInterval = 30 * time.Second
	return cfg
}
