package sheetdash_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	sheetdash "github.com/ideamans/go-sheetdash"
)

func TestNormalizeHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{"trimmed", []string{" Task Name ", "Week 1\t"}, []string{"Task Name", "Week 1"}},
		{"blank", []string{"Task Name", "", "  "}, []string{"Task Name", "Unnamed: 1", "Unnamed: 2"}},
		{"duplicates", []string{"Week", "Week", "Week"}, []string{"Week", "Week.1", "Week.2"}},
		{"suffix collision", []string{"Week", "Week.1", "Week"}, []string{"Week", "Week.1", "Week.2"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sheetdash.NormalizeHeaders(tt.header)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeHeaders(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestNewTable(t *testing.T) {
	table := sheetdash.NewTable("Sheet1",
		[]string{"a", "b"},
		[][]sheetdash.Cell{
			{sheetdash.TextCell("x")},
			{sheetdash.MissingCell(), sheetdash.MissingCell()},
			{sheetdash.NumberCell(1), sheetdash.NumberCell(2), sheetdash.NumberCell(3)},
		})

	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (blank row skipped)", table.Len())
	}
	if cells := table.Row(0).Cells(); len(cells) != 2 || !cells[1].IsMissing() {
		t.Errorf("short row = %+v, want padded with a missing cell", cells)
	}
	if cells := table.Row(1).Cells(); len(cells) != 2 {
		t.Errorf("long row = %+v, want truncated to 2 cells", cells)
	}
	if !table.HasColumn("a") || table.HasColumn("c") {
		t.Errorf("HasColumn() mismatch for columns %v", table.Columns())
	}

	cols := table.Columns()
	cols[0] = "mutated"
	if table.Columns()[0] != "a" {
		t.Error("Columns() exposed internal state")
	}
}

func TestCell_Float64(t *testing.T) {
	tests := []struct {
		name   string
		cell   sheetdash.Cell
		want   float64
		wantOK bool
	}{
		{"number", sheetdash.NumberCell(0.25), 0.25, true},
		{"numeric text", sheetdash.TextCell(" 0.5 "), 0.5, true},
		{"percentage", sheetdash.TextCell("45%"), 0.45, true},
		{"spaced percentage", sheetdash.TextCell("100 %"), 1, true},
		{"bad percentage", sheetdash.TextCell("x%"), 0, false},
		{"text", sheetdash.TextCell("done"), 0, false},
		{"NaN text", sheetdash.TextCell("NaN"), 0, false},
		{"infinity text", sheetdash.TextCell("inf"), 0, false},
		{"negative infinity text", sheetdash.TextCell("-Infinity"), 0, false},
		{"infinite percentage", sheetdash.TextCell("Inf%"), 0, false},
		{"date", sheetdash.DateCell(time.Now()), 0, false},
		{"missing", sheetdash.MissingCell(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.Float64()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Float64() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRow_Accessors(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	table := sheetdash.NewTable("End of Week 1",
		[]string{"Task Name", "Start Date", "End Date", "Progress"},
		[][]sheetdash.Cell{
			{sheetdash.TextCell("A"), sheetdash.DateCell(start), sheetdash.TextCell("2025-01-10"), sheetdash.NumberCell(0.75)},
		})
	row := table.Row(0)

	if got := row.GetAsString("Task Name", ""); got != "A" {
		t.Errorf("GetAsString() = %s, want A", got)
	}
	if got := row.GetAsString("Owner", "none"); got != "none" {
		t.Errorf("GetAsString() = %s, want default", got)
	}
	if got := row.GetAsFloat64("Progress", -1); got != 0.75 {
		t.Errorf("GetAsFloat64() = %v, want 0.75", got)
	}
	if got := row.GetAsInt64("Progress", -1); got != 0 {
		t.Errorf("GetAsInt64() = %v, want 0", got)
	}
	if got := row.GetAsTime("Start Date", time.Time{}); !got.Equal(start) {
		t.Errorf("GetAsTime() = %v, want %v", got, start)
	}
	if got := row.GetAsTime("End Date", time.Time{}); !got.Equal(start.AddDate(0, 0, 4)) {
		t.Errorf("GetAsTime() = %v, want parsed text date", got)
	}
	if got := row.GetAsString("Start Date", ""); got != "2025-01-06" {
		t.Errorf("GetAsString() = %s, want 2025-01-06", got)
	}
	if m := row.Map(); len(m) != 4 {
		t.Errorf("Map() = %v, want 4 entries", m)
	}
}

func TestTable_MarshalJSON(t *testing.T) {
	table := sheetdash.NewTable("End of Week 1",
		[]string{"Task Name", "Start Date", "Progress"},
		[][]sheetdash.Cell{
			{sheetdash.TextCell("A"), sheetdash.DateCell(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)), sheetdash.MissingCell()},
		})

	data, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"name":"End of Week 1","columns":["Task Name","Start Date","Progress"],"rows":[["A","2025-01-06T00:00:00Z",null]]}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestWorkbook(t *testing.T) {
	t.Run("Sheets in order", func(t *testing.T) {
		wb, err := sheetdash.NewWorkbook("book.xlsx", []*sheetdash.Table{progressTable(), weekTable(2), weekTable(1)})
		if err != nil {
			t.Fatalf("NewWorkbook() error = %v", err)
		}
		want := []string{"Progress Over Time", "End of Week 2", "End of Week 1"}
		if got := wb.SheetNames(); !reflect.DeepEqual(got, want) {
			t.Errorf("SheetNames() = %v, want %v", got, want)
		}
		if _, err := wb.Sheet("End of Week 3"); !errors.Is(err, sheetdash.ErrSheetNotFound) {
			t.Errorf("Sheet() error = %v, want %v", err, sheetdash.ErrSheetNotFound)
		}
		if _, err := wb.Sheet("end of week 1"); !errors.Is(err, sheetdash.ErrSheetNotFound) {
			t.Errorf("Sheet() lookup is not case-sensitive: %v", err)
		}
	})

	t.Run("Duplicate sheet names", func(t *testing.T) {
		_, err := sheetdash.NewWorkbook("book.xlsx", []*sheetdash.Table{weekTable(1), weekTable(1)})
		if !errors.Is(err, sheetdash.ErrMalformedWorkbook) {
			t.Errorf("NewWorkbook() error = %v, want %v", err, sheetdash.ErrMalformedWorkbook)
		}
	})
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
	}{
		{"2025-01-06", true},
		{"2025-01-06 09:30:00", true},
		{"2025-01-06T09:30:00Z", true},
		{"1/6/2025", true},
		{"Week 1", false},
		{"45%", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if _, ok := sheetdash.ParseTime(tt.in); ok != tt.wantOK {
				t.Errorf("ParseTime(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
		})
	}
}
