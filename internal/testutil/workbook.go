// Package testutil builds workbook fixtures for tests and examples.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet is a fixture sheet: the first row is the header
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// WriteWorkbook writes sheets to path in the given order
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("at least one sheet is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
		}

		for r, row := range sheet.Rows {
			values := row
			cell := fmt.Sprintf("A%d", r+1)
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d of %q: %w", r+1, sheet.Name, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// MustWriteWorkbook writes a workbook or fails the test
func MustWriteWorkbook(t testing.TB, path string, sheets []Sheet) {
	t.Helper()
	if err := WriteWorkbook(path, sheets); err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
}

// Touch moves the file's modification time forward so that version
// detection observes a change even on coarse-grained filesystems
func Touch(t testing.TB, path string, offset time.Duration) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", path, err)
	}
	mtime := info.ModTime().Add(offset)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Failed to touch %s: %v", path, err)
	}
}

// ProjectSheets returns a small project workbook: a progress sheet and
// the given number of weekly snapshots
func ProjectSheets(weeks int) []Sheet {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	sheets := []Sheet{
		{
			Name: "Progress Over Time",
			Rows: [][]interface{}{
				{"Task Name", "Week 1", "Week 2"},
				{"A", 0.2, 0.5},
				{"B", 0.1, 0.9},
			},
		},
	}

	for w := 1; w <= weeks; w++ {
		sheets = append(sheets, Sheet{
			Name: fmt.Sprintf("End of Week %d", w),
			Rows: [][]interface{}{
				{"Task Name", "Start Date", "End Date", "Progress"},
				{"A", start, start.AddDate(0, 0, 14), 0.1 * float64(w)},
				{"B", start.AddDate(0, 0, 7), start.AddDate(0, 0, 21), 0.2 * float64(w)},
			},
		})
	}
	return sheets
}
