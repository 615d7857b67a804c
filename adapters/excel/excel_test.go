package excel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/ideamans/go-sheetdash/internal/testutil"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  &Config{MaxRows: 100},
			wantErr: false,
		},
		{
			name:    "nil config uses defaults",
			config:  nil,
			wantErr: false,
		},
		{
			name:    "negative max rows",
			config:  &Config{MaxRows: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	adapter, err := New(&Config{})
	if err != nil {
		t.Fatalf("Failed to create adapter: %v", err)
	}
	return adapter
}

func TestAdapter_Version(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "project.xlsx")
	testutil.MustWriteWorkbook(t, testFile, testutil.ProjectSheets(1))

	adapter := newTestAdapter(t)
	ctx := context.Background()

	t.Run("Stable for unchanged file", func(t *testing.T) {
		v1, err := adapter.Version(ctx, testFile)
		if err != nil {
			t.Fatalf("Version() error = %v", err)
		}
		v2, err := adapter.Version(ctx, testFile)
		if err != nil {
			t.Fatalf("Version() error = %v", err)
		}
		if !v1.Equal(v2) {
			t.Errorf("Version() = %v then %v, want equal", v1, v2)
		}
	})

	t.Run("Changes when modification time changes", func(t *testing.T) {
		v1, _ := adapter.Version(ctx, testFile)
		testutil.Touch(t, testFile, 2*time.Second)
		v2, err := adapter.Version(ctx, testFile)
		if err != nil {
			t.Fatalf("Version() error = %v", err)
		}
		if v1.Equal(v2) {
			t.Errorf("Version() unchanged after touch: %v", v2)
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := adapter.Version(ctx, filepath.Join(tempDir, "missing.xlsx"))
		if !errors.Is(err, sheetdash.ErrSourceUnavailable) {
			t.Errorf("Version() error = %v, want %v", err, sheetdash.ErrSourceUnavailable)
		}
	})

	t.Run("Directory", func(t *testing.T) {
		_, err := adapter.Version(ctx, tempDir)
		if !errors.Is(err, sheetdash.ErrSourceUnavailable) {
			t.Errorf("Version() error = %v, want %v", err, sheetdash.ErrSourceUnavailable)
		}
	})
}

func TestAdapter_Load(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "project.xlsx")
	testutil.MustWriteWorkbook(t, testFile, testutil.ProjectSheets(4))

	adapter := newTestAdapter(t)
	ctx := context.Background()

	wb, err := adapter.Load(ctx, testFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantSheets := []string{"Progress Over Time", "End of Week 1", "End of Week 2", "End of Week 3", "End of Week 4"}
	gotSheets := wb.SheetNames()
	if len(gotSheets) != len(wantSheets) {
		t.Fatalf("SheetNames() = %v, want %v", gotSheets, wantSheets)
	}
	for i := range wantSheets {
		if gotSheets[i] != wantSheets[i] {
			t.Errorf("SheetNames()[%d] = %s, want %s", i, gotSheets[i], wantSheets[i])
		}
	}

	t.Run("Progress sheet cells are typed", func(t *testing.T) {
		progress, err := wb.Sheet("Progress Over Time")
		if err != nil {
			t.Fatalf("Sheet() error = %v", err)
		}
		if progress.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", progress.Len())
		}
		row := progress.Row(0)
		if name := row.GetAsString("Task Name", ""); name != "A" {
			t.Errorf("Task Name = %s, want A", name)
		}
		cell, _ := row.Get("Week 2")
		if cell.Kind != sheetdash.CellNumber || cell.Number != 0.5 {
			t.Errorf("Week 2 cell = %+v, want number 0.5", cell)
		}
	})

	t.Run("Dates are detected from number formats", func(t *testing.T) {
		week, err := wb.Sheet("End of Week 1")
		if err != nil {
			t.Fatalf("Sheet() error = %v", err)
		}
		cell, _ := week.Row(0).Get("Start Date")
		if cell.Kind != sheetdash.CellDate {
			t.Fatalf("Start Date kind = %v, want date", cell.Kind)
		}
		want := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
		if !cell.Time.Equal(want) {
			t.Errorf("Start Date = %v, want %v", cell.Time, want)
		}
	})

	t.Run("Sheet lookup is case-sensitive", func(t *testing.T) {
		if _, err := wb.Sheet("progress over time"); !errors.Is(err, sheetdash.ErrSheetNotFound) {
			t.Errorf("Sheet() error = %v, want %v", err, sheetdash.ErrSheetNotFound)
		}
	})

	t.Run("Context cancellation", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		if _, err := adapter.Load(cancelCtx, testFile); err == nil {
			t.Errorf("Load() with cancelled context should return error")
		}
		if _, err := adapter.LoadSheet(cancelCtx, testFile, "End of Week 1"); err == nil {
			t.Errorf("LoadSheet() with cancelled context should return error")
		}
	})
}

func TestAdapter_LoadHeaders(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "headers.xlsx")
	testutil.MustWriteWorkbook(t, testFile, []testutil.Sheet{
		{
			Name: "Progress Over Time",
			Rows: [][]interface{}{
				{"  Task Name ", "Week 1 ", "", "Week 1"},
				{"A", 0.1, "x", 0.2},
				{},
				{"B", "45%"},
			},
		},
	})

	adapter := newTestAdapter(t)
	table, err := adapter.LoadSheet(context.Background(), testFile, "Progress Over Time")
	if err != nil {
		t.Fatalf("LoadSheet() error = %v", err)
	}

	wantColumns := []string{"Task Name", "Week 1", "Unnamed: 2", "Week 1.1"}
	gotColumns := table.Columns()
	for i, col := range wantColumns {
		if i >= len(gotColumns) || gotColumns[i] != col {
			t.Errorf("Columns() = %v, want %v", gotColumns, wantColumns)
			break
		}
	}

	// Blank row is skipped, short row is padded
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	cells := table.Row(1).Cells()
	if len(cells) != len(wantColumns) {
		t.Fatalf("row width = %d, want %d", len(cells), len(wantColumns))
	}
	if !cells[3].IsMissing() {
		t.Errorf("padded cell = %+v, want missing", cells[3])
	}
	if got := table.Row(1).GetAsFloat64("Week 1", -1); got != 0.45 {
		t.Errorf("percentage cell = %v, want 0.45", got)
	}
}

func TestAdapter_LoadDateHeaders(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "dated.xlsx")
	testutil.MustWriteWorkbook(t, testFile, []testutil.Sheet{
		{
			Name: "Progress Over Time",
			Rows: [][]interface{}{
				{"Task Name", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), 2},
				{"A", 0.1, 0.2},
			},
		},
	})

	adapter := newTestAdapter(t)
	table, err := adapter.LoadSheet(context.Background(), testFile, "Progress Over Time")
	if err != nil {
		t.Fatalf("LoadSheet() error = %v", err)
	}

	wantColumns := []string{"Task Name", "2025-01-10", "2"}
	gotColumns := table.Columns()
	if len(gotColumns) != len(wantColumns) {
		t.Fatalf("Columns() = %v, want %v", gotColumns, wantColumns)
	}
	for i, col := range wantColumns {
		if gotColumns[i] != col {
			t.Errorf("Columns() = %v, want %v", gotColumns, wantColumns)
			break
		}
	}

	result := sheetdash.Reshape(table)
	if len(result.Records) != 2 || result.Records[0].Period != "2025-01-10" {
		t.Errorf("Reshape() = %+v, want a 2025-01-10 period", result.Records)
	}
}

func TestAdapter_LoadSheet(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "project.xlsx")
	testutil.MustWriteWorkbook(t, testFile, testutil.ProjectSheets(4))

	adapter := newTestAdapter(t)
	ctx := context.Background()

	t.Run("Existing week", func(t *testing.T) {
		table, err := adapter.LoadSheet(ctx, testFile, "End of Week 3")
		if err != nil {
			t.Fatalf("LoadSheet() error = %v", err)
		}
		if table.Name() != "End of Week 3" {
			t.Errorf("Name() = %s, want End of Week 3", table.Name())
		}
		if !table.HasColumn("Progress") {
			t.Errorf("Columns() = %v, want Progress column", table.Columns())
		}
	})

	t.Run("Missing week", func(t *testing.T) {
		_, err := adapter.LoadSheet(ctx, testFile, "End of Week 5")
		if !errors.Is(err, sheetdash.ErrSheetNotFound) {
			t.Errorf("LoadSheet() error = %v, want %v", err, sheetdash.ErrSheetNotFound)
		}
	})

	t.Run("Same sheet twice is structurally equal", func(t *testing.T) {
		first, err := adapter.LoadSheet(ctx, testFile, "End of Week 2")
		if err != nil {
			t.Fatalf("LoadSheet() error = %v", err)
		}
		second, err := adapter.LoadSheet(ctx, testFile, "End of Week 2")
		if err != nil {
			t.Fatalf("LoadSheet() error = %v", err)
		}
		if !first.Equal(second) {
			t.Errorf("LoadSheet() returned different tables for the same sheet")
		}
	})
}

func TestAdapter_Errors(t *testing.T) {
	tempDir := t.TempDir()
	adapter := newTestAdapter(t)
	ctx := context.Background()

	t.Run("Missing file", func(t *testing.T) {
		_, err := adapter.Load(ctx, filepath.Join(tempDir, "missing.xlsx"))
		if !errors.Is(err, sheetdash.ErrSourceUnavailable) {
			t.Errorf("Load() error = %v, want %v", err, sheetdash.ErrSourceUnavailable)
		}
	})

	t.Run("Corrupt file", func(t *testing.T) {
		corrupt := filepath.Join(tempDir, "corrupt.xlsx")
		if err := os.WriteFile(corrupt, []byte("not a zip archive"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		_, err := adapter.Load(ctx, corrupt)
		if !errors.Is(err, sheetdash.ErrMalformedWorkbook) {
			t.Errorf("Load() error = %v, want %v", err, sheetdash.ErrMalformedWorkbook)
		}
	})

	t.Run("Unsupported extension", func(t *testing.T) {
		csv := filepath.Join(tempDir, "data.csv")
		if err := os.WriteFile(csv, []byte("a,b\n1,2\n"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		_, err := adapter.Load(ctx, csv)
		if !errors.Is(err, ErrInvalidFileFormat) {
			t.Errorf("Load() error = %v, want %v", err, ErrInvalidFileFormat)
		}
	})
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"yyyy-mm-dd", true},
		{"d/m/yy", true},
		{"[$-409]mmmm d, yyyy", true},
		{"h:mm:ss", true},
		{"0.00%", false},
		{"#,##0", false},
		{`0.0 "days"`, false},
		{"[Red]0.00", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := isDateFormat(tt.code); got != tt.want {
				t.Errorf("isDateFormat(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := columnName(tt.col)
			if got != tt.want {
				t.Errorf("columnName(%d) = %s, want %s", tt.col, got, tt.want)
			}
		})
	}
}
