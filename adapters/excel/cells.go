package excel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/xuri/excelize/v2"
)

// builtinDateFormats are the built-in number format ids that render dates or times
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// formatLiterals strips quoted text, escapes and bracketed sections such as
// colours or locale tags before a custom format is inspected
var formatLiterals = regexp.MustCompile(`"[^"]*"|\\.|\[[^\]]*\]`)

// isDateFormat reports whether a custom number format renders a date or time
func isDateFormat(code string) bool {
	code = strings.ToLower(formatLiterals.ReplaceAllString(code, ""))
	return strings.ContainsAny(code, "yd") || strings.Contains(code, "h:") || strings.Contains(code, ":s")
}

// sheetReader converts sheets of one open workbook into tables
type sheetReader struct {
	f          *excelize.File
	maxRows    int
	date1904   bool
	dateStyles map[int]bool
}

func newSheetReader(f *excelize.File, maxRows int) (*sheetReader, error) {
	r := &sheetReader{
		f:          f,
		maxRows:    maxRows,
		dateStyles: make(map[int]bool),
	}

	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read workbook properties: %w", sheetdash.ErrMalformedWorkbook, err)
	}
	if props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r, nil
}

// read parses a sheet: the first row is the header, the rest are data
func (r *sheetReader) read(sheet string) (*sheetdash.Table, error) {
	rows, err := r.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get rows of %q: %w", sheetdash.ErrMalformedWorkbook, sheet, err)
	}

	if len(rows) == 0 {
		return sheetdash.NewTable(sheet, []string{}, nil), nil
	}

	// Header cells are typed like data cells so that a date header reads
	// as a date rather than its serial number
	header := make([]string, len(rows[0]))
	for j, raw := range rows[0] {
		cell := fmt.Sprintf("%s1", columnName(j+1))
		header[j] = r.typeCell(sheet, cell, raw).String()
	}

	data := rows[1:]
	if r.maxRows > 0 && len(data) > r.maxRows {
		data = data[:r.maxRows]
	}

	cells := make([][]sheetdash.Cell, 0, len(data))
	for i, row := range data {
		rowNum := i + 2 // Row 1 is the header
		typed := make([]sheetdash.Cell, len(row))
		for j, raw := range row {
			cell := fmt.Sprintf("%s%d", columnName(j+1), rowNum)
			typed[j] = r.typeCell(sheet, cell, raw)
		}
		cells = append(cells, typed)
	}

	return sheetdash.NewTable(sheet, header, cells), nil
}

// typeCell classifies a raw cell value as text, number, date or missing
func (r *sheetReader) typeCell(sheet, cell, raw string) sheetdash.Cell {
	if strings.TrimSpace(raw) == "" {
		return sheetdash.MissingCell()
	}

	cellType, err := r.f.GetCellType(sheet, cell)
	if err != nil {
		return sheetdash.TextCell(raw)
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return sheetdash.TextCell(raw)
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return sheetdash.TextCell("TRUE")
		}
		return sheetdash.TextCell("FALSE")
	case excelize.CellTypeError:
		return sheetdash.MissingCell()
	case excelize.CellTypeDate:
		if t, ok := sheetdash.ParseTime(raw); ok {
			return sheetdash.DateCell(t)
		}
		return sheetdash.TextCell(raw)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return sheetdash.TextCell(raw)
	}

	if r.isDateCell(sheet, cell) {
		if t, err := excelize.ExcelDateToTime(f, r.date1904); err == nil {
			return sheetdash.DateCell(t)
		}
	}
	return sheetdash.NumberCell(f)
}

// isDateCell reports whether the cell's number format renders a date
func (r *sheetReader) isDateCell(sheet, cell string) bool {
	styleID, err := r.f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}

	if isDate, ok := r.dateStyles[styleID]; ok {
		return isDate
	}

	isDate := false
	if style, err := r.f.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormat(*style.CustomNumFmt)
		} else {
			isDate = builtinDateFormats[style.NumFmt]
		}
	}
	r.dateStyles[styleID] = isDate
	return isDate
}
