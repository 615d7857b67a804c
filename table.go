package sheetdash

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CellKind enumerates the value types a cell can hold
type CellKind int

const (
	CellMissing CellKind = iota
	CellText
	CellNumber
	CellDate
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	default:
		return "missing"
	}
}

// Cell is a single typed spreadsheet value
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
}

// TextCell returns a text cell
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// DateCell returns a date cell
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Time: t}
}

// MissingCell returns an empty cell
func MissingCell() Cell {
	return Cell{}
}

// IsMissing reports whether the cell holds no value
func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// Float64 coerces the cell to a number. Text is parsed as a plain number or
// a percentage ("45%" is 0.45); dates and missing cells do not coerce.
func (c Cell) Float64() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellText:
		s := strings.TrimSpace(c.Text)
		if pct, ok := strings.CutSuffix(s, "%"); ok {
			if f, ok := parseFinite(strings.TrimSpace(pct)); ok {
				return f / 100, true
			}
			return 0, false
		}
		return parseFinite(s)
	}
	return 0, false
}

// parseFinite parses a decimal number, rejecting NaN and infinities
func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		if c.Time.Hour() == 0 && c.Time.Minute() == 0 && c.Time.Second() == 0 {
			return c.Time.Format("2006-01-02")
		}
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Equal reports whether two cells hold the same kind and value
func (c Cell) Equal(other Cell) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case CellText:
		return c.Text == other.Text
	case CellNumber:
		return c.Number == other.Number
	case CellDate:
		return c.Time.Equal(other.Time)
	default:
		return true
	}
}

// MarshalJSON encodes missing cells as null and dates as RFC 3339 strings
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellText:
		return json.Marshal(c.Text)
	case CellNumber:
		return json.Marshal(c.Number)
	case CellDate:
		return json.Marshal(c.Time.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// Table is an immutable parsed sheet: unique, trimmed column names and rows
// holding exactly one cell per column
type Table struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// NewTable builds a table from a raw header row and data rows.
// Headers are trimmed; blank headers become "Unnamed: N" and repeated ones
// get ".1", ".2" suffixes so that columns stay unique. Rows are padded with
// missing cells or truncated to the header width, and fully blank rows are
// skipped.
func NewTable(name string, header []string, rows [][]Cell) *Table {
	columns := NormalizeHeaders(header)

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i
	}

	normalized := make([][]Cell, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		cells := make([]Cell, len(columns))
		copy(cells, row)
		normalized = append(normalized, cells)
	}

	return &Table{
		name:    name,
		columns: columns,
		index:   index,
		rows:    normalized,
	}
}

// NormalizeHeaders trims headers and makes them unique
func NormalizeHeaders(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, raw := range header {
		col := strings.TrimSpace(raw)
		if col == "" {
			col = fmt.Sprintf("Unnamed: %d", i)
		}
		base := col
		for n := 1; seen[col]; n++ {
			col = fmt.Sprintf("%s.%d", base, n)
		}
		seen[col] = true
		columns[i] = col
	}
	return columns
}

func isBlankRow(row []Cell) bool {
	for _, c := range row {
		if !c.IsMissing() {
			return false
		}
	}
	return true
}

// Name returns the sheet name the table was parsed from
func (t *Table) Name() string {
	return t.name
}

// Columns returns a copy of the column names in sheet order
func (t *Table) Columns() []string {
	columns := make([]string, len(t.columns))
	copy(columns, t.columns)
	return columns
}

// HasColumn reports whether the table declares col
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th data row
func (t *Table) Row(i int) Row {
	return Row{table: t, cells: t.rows[i]}
}

// Rows returns every data row in sheet order
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	for i := range t.rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// Equal reports whether two tables have the same name, columns and cells
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.name != other.name || len(t.columns) != len(other.columns) || len(t.rows) != len(other.rows) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != other.columns[i] {
			return false
		}
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			if !t.rows[i][j].Equal(other.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes the table with rows as arrays aligned to columns
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    string   `json:"name"`
		Columns []string `json:"columns"`
		Rows    [][]Cell `json:"rows"`
	}{
		Name:    t.name,
		Columns: t.columns,
		Rows:    t.rows,
	})
}

// Workbook is an immutable mapping of sheet name to table. A reload builds
// a new Workbook, so readers holding an older one are never affected.
type Workbook struct {
	locator string
	version Version
	names   []string
	sheets  map[string]*Table
}

// NewWorkbook assembles a workbook from tables in sheet order.
// Sheet names are case-sensitive and must be unique.
func NewWorkbook(locator string, tables []*Table) (*Workbook, error) {
	wb := &Workbook{
		locator: locator,
		names:   make([]string, 0, len(tables)),
		sheets:  make(map[string]*Table, len(tables)),
	}
	for _, t := range tables {
		if _, exists := wb.sheets[t.name]; exists {
			return nil, fmt.Errorf("%w: duplicate sheet name %q", ErrMalformedWorkbook, t.name)
		}
		wb.names = append(wb.names, t.name)
		wb.sheets[t.name] = t
	}
	return wb, nil
}

// stamp returns a shallow copy of wb tagged with the version it was read at
func (wb *Workbook) stamp(v Version) *Workbook {
	stamped := *wb
	stamped.version = v
	return &stamped
}

// Locator returns the source the workbook was loaded from
func (wb *Workbook) Locator() string {
	return wb.locator
}

// Version returns the version token observed before the workbook was loaded
func (wb *Workbook) Version() Version {
	return wb.version
}

// SheetNames returns a copy of the sheet names in workbook order
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.names))
	copy(names, wb.names)
	return names
}

// Sheet returns the named table or ErrSheetNotFound
func (wb *Workbook) Sheet(name string) (*Table, error) {
	t, ok := wb.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return t, nil
}

// Len returns the number of sheets
func (wb *Workbook) Len() int {
	return len(wb.names)
}
