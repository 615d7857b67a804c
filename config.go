package sheetdash

import (
	"log"
	"time"
)

const (
	// DefaultProgressSheet is the wide sheet reshaped into progress records
	DefaultProgressSheet = "Progress Over Time"

	// DefaultTaskColumn identifies the entity column of the progress sheet
	DefaultTaskColumn = "Task Name"

	// DefaultMaxTasks is how many tasks a chart selects by default
	DefaultMaxTasks = 15
)

// Config represents configuration for the dashboard client
type Config struct {
	TTL             time.Duration // Maximum age of a cached workbook (default: 30s)
	RefreshInterval time.Duration // Interval used by the Watcher (default: 30s)
	ProgressSheet   string        // Sheet holding the wide progress table
	TaskColumn      string        // Identifier column of the progress sheet
	MaxDefaultTasks int           // Tasks selected by default (default: 15)
	Logger          *log.Logger   // Optional; nil discards log output
	Clock           Clock         // Optional; nil uses the wall clock
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *Config {
	return &Config{
		TTL:             30 * time.Second,
		RefreshInterval: 30 * time.Second,
		ProgressSheet:   DefaultProgressSheet,
		TaskColumn:      DefaultTaskColumn,
		MaxDefaultTasks: DefaultMaxTasks,
	}
}

// withDefaults returns a copy of c with zero values replaced by defaults
func (c *Config) withDefaults() Config {
	cfg := *DefaultConfig()
	if c == nil {
		return cfg
	}

	out := *c
	if out.TTL <= 0 {
		out.TTL = cfg.TTL
	}
	if out.RefreshInterval <= 0 {
		out.RefreshInterval = cfg.RefreshInterval
	}
	if out.ProgressSheet == "" {
		out.ProgressSheet = cfg.ProgressSheet
	}
	if out.TaskColumn == "" {
		out.TaskColumn = cfg.TaskColumn
	}
	if out.MaxDefaultTasks <= 0 {
		out.MaxDefaultTasks = cfg.MaxDefaultTasks
	}
	return out
}
