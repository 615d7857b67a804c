package sheetdash_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	sheetdash "github.com/ideamans/go-sheetdash"
)

// fakeAdapter serves an in-memory workbook and counts parses
type fakeAdapter struct {
	mu       sync.Mutex
	version  sheetdash.Version
	tables   []*sheetdash.Table
	statErr  error
	loadErr  error
	delay    time.Duration
	loads    atomic.Int64
	stats    atomic.Int64
	sheetHit atomic.Int64
}

func newFakeAdapter(tables ...*sheetdash.Table) *fakeAdapter {
	return &fakeAdapter{
		version: sheetdash.Version{ModTime: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), Tag: "1"},
		tables:  tables,
	}
}

func (f *fakeAdapter) Version(ctx context.Context, locator string) (sheetdash.Version, error) {
	f.stats.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.statErr != nil {
		return sheetdash.Version{}, f.statErr
	}
	return f.version, nil
}

func (f *fakeAdapter) Load(ctx context.Context, locator string) (*sheetdash.Workbook, error) {
	f.loads.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return sheetdash.NewWorkbook(locator, f.tables)
}

func (f *fakeAdapter) LoadSheet(ctx context.Context, locator string, sheet string) (*sheetdash.Table, error) {
	f.sheetHit.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadErr != nil {
		return nil, f.loadErr
	}
	for _, t := range f.tables {
		if t.Name() == sheet {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", sheetdash.ErrSheetNotFound, sheet)
}

// current returns the version the next stat will report
func (f *fakeAdapter) current() sheetdash.Version {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.version
}

// bump simulates an edit of the source
func (f *fakeAdapter) bump(tables ...*sheetdash.Table) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.version.ModTime = f.version.ModTime.Add(time.Minute)
	if len(tables) > 0 {
		f.tables = tables
	}
}

func (f *fakeAdapter) setErrors(statErr, loadErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.statErr = statErr
	f.loadErr = loadErr
}

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// progressTable builds the two-task, two-week progress sheet
func progressTable() *sheetdash.Table {
	return sheetdash.NewTable(sheetdash.DefaultProgressSheet,
		[]string{"Task Name", "Week 1", "Week 2"},
		[][]sheetdash.Cell{
			{sheetdash.TextCell("A"), sheetdash.NumberCell(0.2), sheetdash.NumberCell(0.5)},
			{sheetdash.TextCell("B"), sheetdash.NumberCell(0.1), sheetdash.NumberCell(0.9)},
		})
}

// weekTable builds an "End of Week n" sheet
func weekTable(n int) *sheetdash.Table {
	return sheetdash.NewTable(sheetdash.WeekSheetName(n),
		[]string{"Task Name", "Progress"},
		[][]sheetdash.Cell{
			{sheetdash.TextCell("A"), sheetdash.NumberCell(0.1 * float64(n))},
		})
}

func testConfig(clock sheetdash.Clock) *sheetdash.Config {
	cfg := sheetdash.DefaultConfig()
	cfg.Clock = clock
	return cfg
}

func floatPtr(f float64) *float64 {
	return &f
}
