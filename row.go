package sheetdash

import (
	"strings"
	"time"
)

// timeLayouts are tried in order when a text cell is read as a time
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// ParseTime parses s with the layouts spreadsheets commonly render dates in
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Row is a read-only view of one table row
type Row struct {
	table *Table
	cells []Cell
}

// Get returns the cell under col
func (r Row) Get(col string) (Cell, bool) {
	i, ok := r.table.index[col]
	if !ok {
		return Cell{}, false
	}
	return r.cells[i], true
}

// Cells returns a copy of the row's cells in column order
func (r Row) Cells() []Cell {
	cells := make([]Cell, len(r.cells))
	copy(cells, r.cells)
	return cells
}

// Map returns the row as a column to cell mapping
func (r Row) Map() map[string]Cell {
	m := make(map[string]Cell, len(r.cells))
	for i, col := range r.table.columns {
		m[col] = r.cells[i]
	}
	return m
}

// GetAsString returns the value as string or defaultValue if missing
func (r Row) GetAsString(col string, defaultValue string) string {
	c, ok := r.Get(col)
	if !ok || c.IsMissing() {
		return defaultValue
	}
	return c.String()
}

// GetAsFloat64 returns the value as float64 or defaultValue if it does not coerce
func (r Row) GetAsFloat64(col string, defaultValue float64) float64 {
	c, ok := r.Get(col)
	if !ok {
		return defaultValue
	}
	if f, ok := c.Float64(); ok {
		return f
	}
	return defaultValue
}

// GetAsInt64 returns the value truncated to int64 or defaultValue
func (r Row) GetAsInt64(col string, defaultValue int64) int64 {
	c, ok := r.Get(col)
	if !ok {
		return defaultValue
	}
	if f, ok := c.Float64(); ok {
		return int64(f)
	}
	return defaultValue
}

// GetAsTime returns the value as time.Time or defaultValue if not a date
func (r Row) GetAsTime(col string, defaultValue time.Time) time.Time {
	c, ok := r.Get(col)
	if !ok {
		return defaultValue
	}

	switch c.Kind {
	case CellDate:
		return c.Time
	case CellText:
		if t, ok := ParseTime(c.Text); ok {
			return t
		}
	}
	return defaultValue
}
