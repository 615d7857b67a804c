package sheetdash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// Snapshot is the outcome of one successful refresh cycle
type Snapshot struct {
	Version     Version
	Workbook    *Workbook
	Progress    ReshapeResult
	Changed     bool // version differs from the previous successful cycle
	RefreshedAt time.Time
}

// Client is the dashboard's view of a single data source
type Client struct {
	config  Config
	locator string
	adapter Adapter
	cache   *Cache
	clock   Clock
	logger  *log.Logger

	mu     sync.Mutex
	last   *Snapshot
	closed bool
}

// New creates a new dashboard client for the source at locator
func New(adapter Adapter, locator string, config *Config) (*Client, error) {
	if adapter == nil {
		return nil, ErrMissingAdapter
	}

	canonical, err := CanonicalLocator(locator)
	if err != nil {
		return nil, err
	}

	cfg := config.withDefaults()
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}

	return &Client{
		config:  cfg,
		locator: canonical,
		adapter: adapter,
		cache:   NewCache(adapter, adapter, &cfg),
		clock:   cfg.Clock,
		logger:  cfg.Logger,
	}, nil
}

// Locator returns the canonical source locator
func (c *Client) Locator() string {
	return c.locator
}

// Config returns the effective configuration
func (c *Client) Config() Config {
	return c.config
}

// Cache returns the workbook cache backing the client
func (c *Client) Cache() *Cache {
	return c.cache
}

func (c *Client) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// GetWorkbook returns the current workbook, reloading it if the source changed
func (c *Client) GetWorkbook(ctx context.Context) (*Workbook, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.cache.Get(ctx, c.locator)
}

// GetProgressRecords returns the long-format progress records. Source-level
// failures are returned as errors; schema problems in the progress sheet
// come back as a diagnostic on an empty result.
func (c *Client) GetProgressRecords(ctx context.Context) (ReshapeResult, error) {
	wb, err := c.GetWorkbook(ctx)
	if err != nil {
		return ReshapeResult{}, err
	}
	return c.progressFrom(wb), nil
}

func (c *Client) progressFrom(wb *Workbook) ReshapeResult {
	t, err := wb.Sheet(c.config.ProgressSheet)
	if err != nil {
		return degraded(fmt.Errorf("%w: %w", ErrSchemaViolation, err),
			"The workbook has no '%s' sheet.", c.config.ProgressSheet)
	}
	return ReshapeBy(t, c.config.TaskColumn)
}

// GetWeekSnapshot loads a single weekly sheet verbatim. A missing sheet is
// returned as ErrSheetNotFound and does not affect other views.
func (c *Client) GetWeekSnapshot(ctx context.Context, week string) (*Table, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	t, err := c.adapter.LoadSheet(ctx, c.locator, week)
	if err != nil {
		var se *SourceError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, NewSourceError("load sheet", c.locator, week, err)
	}
	return t, nil
}

// ListWeeks returns the weekly snapshot sheets of the current workbook
func (c *Client) ListWeeks(ctx context.Context) ([]string, error) {
	wb, err := c.GetWorkbook(ctx)
	if err != nil {
		return nil, err
	}
	return WeekSheets(wb.SheetNames()), nil
}

// Refresh runs one full cycle against a single version token: detect,
// load through the cache, reshape. A failed cycle leaves the previous
// snapshot available from Last.
func (c *Client) Refresh(ctx context.Context) (*Snapshot, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	v, err := c.cache.DetectVersion(ctx, c.locator)
	if err != nil {
		c.logger.Printf("[Client] refresh of %s failed: %v", c.locator, err)
		return nil, err
	}

	wb, err := c.cache.GetWithVersion(ctx, c.locator, v)
	if err != nil {
		c.logger.Printf("[Client] refresh of %s failed: %v", c.locator, err)
		return nil, err
	}

	snapshot := &Snapshot{
		Version:     v,
		Workbook:    wb,
		Progress:    c.progressFrom(wb),
		RefreshedAt: c.clock.Now(),
	}

	c.mu.Lock()
	snapshot.Changed = c.last == nil || !c.last.Version.Equal(v)
	c.last = snapshot
	c.mu.Unlock()

	if snapshot.Changed {
		c.logger.Printf("[Client] %s changed, now at version %s", c.locator, v)
	}
	if d := snapshot.Progress.Diagnostic; d != nil {
		c.logger.Printf("[Client] progress degraded: %s", d.Message)
	}
	return snapshot, nil
}

// Last returns the most recent successful snapshot, or nil
func (c *Client) Last() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.last
}

// Close marks the client closed; further calls return ErrClientClosed
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	return nil
}
