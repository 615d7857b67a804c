package sheetdash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// CacheStats counts cache activity since construction
type CacheStats struct {
	Hits       int64
	Misses     int64
	Loads      int64
	LoadErrors int64
}

type cacheEntry struct {
	version  Version
	workbook *Workbook
	loadedAt time.Time
}

// Cache memoizes parsed workbooks with one slot per locator. A slot is
// reused while the source version is unchanged and the entry is younger
// than the TTL; otherwise the workbook is reloaded and the slot replaced.
type Cache struct {
	detector Detector
	loader   Loader
	ttl      time.Duration
	clock    Clock
	logger   *log.Logger

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	group   singleflight.Group

	hits       atomic.Int64
	misses     atomic.Int64
	loads      atomic.Int64
	loadErrors atomic.Int64
}

// NewCache creates a new Cache instance
func NewCache(detector Detector, loader Loader, config *Config) *Cache {
	cfg := config.withDefaults()

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Cache{
		detector: detector,
		loader:   loader,
		ttl:      cfg.TTL,
		clock:    clock,
		logger:   logger,
		entries:  make(map[string]*cacheEntry),
	}
}

// Get returns the workbook for locator, reloading it when the source
// version changed or the cached entry expired. The returned workbook is
// shared and must be treated as read-only.
func (c *Cache) Get(ctx context.Context, locator string) (*Workbook, error) {
	locator, err := CanonicalLocator(locator)
	if err != nil {
		return nil, err
	}

	v, err := c.detectVersion(ctx, locator)
	if err != nil {
		return nil, err
	}

	return c.getCanonical(ctx, locator, v)
}

// GetWithVersion is Get for callers that already observed the version in
// the current refresh cycle
func (c *Cache) GetWithVersion(ctx context.Context, locator string, v Version) (*Workbook, error) {
	locator, err := CanonicalLocator(locator)
	if err != nil {
		return nil, err
	}
	return c.getCanonical(ctx, locator, v)
}

// DetectVersion observes the current version of locator
func (c *Cache) DetectVersion(ctx context.Context, locator string) (Version, error) {
	locator, err := CanonicalLocator(locator)
	if err != nil {
		return Version{}, err
	}
	return c.detectVersion(ctx, locator)
}

func (c *Cache) detectVersion(ctx context.Context, locator string) (Version, error) {
	v, err := c.detector.Version(ctx, locator)
	if err != nil {
		if !errors.Is(err, ErrSourceUnavailable) && ctx.Err() == nil {
			err = fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		return Version{}, NewSourceError("stat", locator, "", err)
	}
	return v, nil
}

func (c *Cache) getCanonical(ctx context.Context, locator string, v Version) (*Workbook, error) {
	if wb, ok := c.lookup(locator, v); ok {
		c.hits.Add(1)
		return wb, nil
	}
	c.misses.Add(1)

	key := locator + "\x00" + v.String()
	flight := c.group.DoChan(key, func() (interface{}, error) {
		// A flight that finished just before this one may have filled the slot
		if wb, ok := c.lookup(locator, v); ok {
			return wb, nil
		}
		// The load is shared by every caller of the flight; a caller's
		// cancellation only ends its own wait
		return c.reload(context.WithoutCancel(ctx), locator, v)
	})

	select {
	case res := <-flight:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Workbook), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// lookup returns the cached workbook if it matches v and has not expired
func (c *Cache) lookup(locator string, v Version) (*Workbook, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[locator]
	if !exists || !entry.version.Equal(v) {
		return nil, false
	}
	if c.clock.Now().Sub(entry.loadedAt) >= c.ttl {
		return nil, false
	}
	return entry.workbook, true
}

// reload parses the whole workbook and replaces the slot for locator.
// On failure the previous slot is left as it was.
func (c *Cache) reload(ctx context.Context, locator string, v Version) (*Workbook, error) {
	start := c.clock.Now()
	c.loads.Add(1)

	wb, err := c.loader.Load(ctx, locator)
	if err != nil {
		c.loadErrors.Add(1)
		if ctx.Err() == nil && !errors.Is(err, ErrMalformedWorkbook) && !errors.Is(err, ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrMalformedWorkbook, err)
		}
		c.logger.Printf("[WorkbookCache] reload of %s failed: %v", locator, err)
		return nil, NewSourceError("load", locator, "", err)
	}

	stamped := wb.stamp(v)
	now := c.clock.Now()

	c.mu.Lock()
	c.entries[locator] = &cacheEntry{
		version:  v,
		workbook: stamped,
		loadedAt: now,
	}
	c.mu.Unlock()

	c.logger.Printf("[WorkbookCache] loaded %s at version %s (%d sheets) in %s",
		locator, v, stamped.Len(), now.Sub(start))
	return stamped, nil
}

// Invalidate drops the slot for locator so that the next Get reloads
func (c *Cache) Invalidate(locator string) {
	locator, err := CanonicalLocator(locator)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, locator)
}

// Size returns the number of occupied slots
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Stats returns a snapshot of the cache counters
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Loads:      c.loads.Load(),
		LoadErrors: c.loadErrors.Load(),
	}
}
