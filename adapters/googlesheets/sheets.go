package googlesheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sheetdash "github.com/ideamans/go-sheetdash"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsAdaptor implements the sheetdash.Adapter interface for Google Sheets.
// Locators have the form "gsheets:<spreadsheetID>".
type SheetsAdaptor struct {
	sheets *sheets.Service
	drive  *drive.Service
	config Config
}

// NewSheetsAdaptor creates a new Google Sheets adaptor with provided options
func NewSheetsAdaptor(ctx context.Context, config Config, opts ...option.ClientOption) (*SheetsAdaptor, error) {
	sheetsService, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &SheetsAdaptor{
		sheets: sheetsService,
		drive:  driveService,
		config: config,
	}, nil
}

// Version reads the spreadsheet's Drive modification time and revision
func (a *SheetsAdaptor) Version(ctx context.Context, locator string) (sheetdash.Version, error) {
	id, err := spreadsheetID(locator)
	if err != nil {
		return sheetdash.Version{}, err
	}

	file, err := a.drive.Files.Get(id).
		Fields("modifiedTime", "version").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return sheetdash.Version{}, fmt.Errorf("%w: failed to get file metadata: %w", sheetdash.ErrSourceUnavailable, err)
	}

	modTime, err := time.Parse(time.RFC3339, file.ModifiedTime)
	if err != nil {
		return sheetdash.Version{}, fmt.Errorf("%w: invalid modifiedTime %q: %w", sheetdash.ErrSourceUnavailable, file.ModifiedTime, err)
	}

	return sheetdash.Version{
		ModTime: modTime,
		Tag:     strconv.FormatInt(file.Version, 10),
	}, nil
}

// Load retrieves every sheet of the spreadsheet in a single batch request
func (a *SheetsAdaptor) Load(ctx context.Context, locator string) (*sheetdash.Workbook, error) {
	id, err := spreadsheetID(locator)
	if err != nil {
		return nil, err
	}

	titles, err := a.sheetTitles(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return sheetdash.NewWorkbook(locator, nil)
	}

	ranges := make([]string, len(titles))
	for i, title := range titles {
		ranges[i] = a.rangeFor(title)
	}

	resp, err := a.sheets.Spreadsheets.Values.BatchGet(id).
		Ranges(ranges...).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get sheet data: %w", sheetdash.ErrSourceUnavailable, err)
	}
	if len(resp.ValueRanges) != len(titles) {
		return nil, fmt.Errorf("%w: requested %d ranges, got %d", sheetdash.ErrMalformedWorkbook, len(titles), len(resp.ValueRanges))
	}

	tables := make([]*sheetdash.Table, len(titles))
	for i, title := range titles {
		tables[i] = toTable(title, resp.ValueRanges[i].Values)
	}

	return sheetdash.NewWorkbook(locator, tables)
}

// LoadSheet retrieves a single sheet; sheet names match case-sensitively
func (a *SheetsAdaptor) LoadSheet(ctx context.Context, locator string, sheet string) (*sheetdash.Table, error) {
	id, err := spreadsheetID(locator)
	if err != nil {
		return nil, err
	}

	titles, err := a.sheetTitles(ctx, id)
	if err != nil {
		return nil, err
	}

	found := false
	for _, title := range titles {
		if title == sheet {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", sheetdash.ErrSheetNotFound, sheet)
	}

	resp, err := a.sheets.Spreadsheets.Values.Get(id, a.rangeFor(sheet)).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get sheet data: %w", sheetdash.ErrSourceUnavailable, err)
	}

	return toTable(sheet, resp.Values), nil
}

// sheetTitles lists sheet titles in spreadsheet order
func (a *SheetsAdaptor) sheetTitles(ctx context.Context, id string) ([]string, error) {
	ss, err := a.sheets.Spreadsheets.Get(id).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: spreadsheet %s not found", sheetdash.ErrSourceUnavailable, id)
		}
		return nil, fmt.Errorf("%w: failed to get spreadsheet: %w", sheetdash.ErrSourceUnavailable, err)
	}

	titles := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

// rangeFor quotes a sheet title into an A1 range
func (a *SheetsAdaptor) rangeFor(title string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(title, "'", "''"), a.config.readRange())
}

func spreadsheetID(locator string) (string, error) {
	if !sheetdash.IsGoogleSheetsLocator(locator) {
		return "", fmt.Errorf("%w: %q is not a %s locator", sheetdash.ErrSourceUnavailable, locator, sheetdash.GoogleSheetsScheme)
	}
	id := sheetdash.SpreadsheetID(locator)
	if id == "" {
		return "", sheetdash.ErrMissingLocator
	}
	return id, nil
}

// toTable converts a value range into a table; the first row is the header
func toTable(title string, values [][]interface{}) *sheetdash.Table {
	if len(values) == 0 {
		return sheetdash.NewTable(title, []string{}, nil)
	}

	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		if v != nil {
			header[i] = fmt.Sprintf("%v", v)
		}
	}

	rows := make([][]sheetdash.Cell, 0, len(values)-1)
	for _, row := range values[1:] {
		cells := make([]sheetdash.Cell, len(row))
		for j, v := range row {
			cells[j] = convertCellValue(v)
		}
		rows = append(rows, cells)
	}
	typeDateColumns(rows, len(header))

	return sheetdash.NewTable(title, header, rows)
}

// typeDateColumns turns a column into dates when every non-blank value in it
// is a formatted date. A single date-like string among text stays text.
func typeDateColumns(rows [][]sheetdash.Cell, width int) {
	for col := 0; col < width; col++ {
		dates := 0
		for _, row := range rows {
			if col >= len(row) || row[col].IsMissing() {
				continue
			}
			if row[col].Kind != sheetdash.CellText {
				dates = -1
				break
			}
			if _, ok := sheetdash.ParseTime(row[col].Text); !ok {
				dates = -1
				break
			}
			dates++
		}
		if dates <= 0 {
			continue
		}

		for _, row := range rows {
			if col < len(row) && !row[col].IsMissing() {
				t, _ := sheetdash.ParseTime(row[col].Text)
				row[col] = sheetdash.DateCell(t)
			}
		}
	}
}

// convertCellValue converts a Google Sheets cell value to a typed cell
func convertCellValue(v interface{}) sheetdash.Cell {
	switch val := v.(type) {
	case nil:
		return sheetdash.MissingCell()
	case string:
		if strings.TrimSpace(val) == "" {
			return sheetdash.MissingCell()
		}
		// Dates arrive as formatted strings and are typed per column
		return sheetdash.TextCell(val)
	case float64:
		return sheetdash.NumberCell(val)
	case bool:
		if val {
			return sheetdash.TextCell("TRUE")
		}
		return sheetdash.TextCell("FALSE")
	default:
		return sheetdash.TextCell(fmt.Sprintf("%v", val))
	}
}
