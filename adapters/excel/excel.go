package excel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/xuri/excelize/v2"
)

// supportedExtensions lists the OOXML workbook formats excelize can open
var supportedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// Adapter implements the sheetdash.Adapter interface for Excel files
type Adapter struct {
	config *Config
}

// New creates a new Excel adapter with the given configuration
func New(config *Config) (*Adapter, error) {
	if config == nil {
		config = &Config{}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create a copy of config to avoid external modifications
	configCopy := *config

	return &Adapter{
		config: &configCopy,
	}, nil
}

// Version stats the file and derives a token from its modification time and size
func (a *Adapter) Version(ctx context.Context, locator string) (sheetdash.Version, error) {
	if err := ctx.Err(); err != nil {
		return sheetdash.Version{}, err
	}

	info, err := os.Stat(locator)
	if err != nil {
		return sheetdash.Version{}, fmt.Errorf("%w: %w", sheetdash.ErrSourceUnavailable, err)
	}
	if info.IsDir() {
		return sheetdash.Version{}, fmt.Errorf("%w: %s is a directory", sheetdash.ErrSourceUnavailable, locator)
	}

	return sheetdash.Version{
		ModTime: info.ModTime(),
		Tag:     strconv.FormatInt(info.Size(), 10),
	}, nil
}

// Load parses every sheet of the workbook in sheet order
func (a *Adapter) Load(ctx context.Context, locator string) (*sheetdash.Workbook, error) {
	f, err := a.open(ctx, locator)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, err := newSheetReader(f, a.config.MaxRows)
	if err != nil {
		return nil, err
	}

	sheetList := f.GetSheetList()
	tables := make([]*sheetdash.Table, 0, len(sheetList))
	for _, name := range sheetList {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := reader.read(name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	return sheetdash.NewWorkbook(locator, tables)
}

// LoadSheet parses one sheet; sheet names match case-sensitively
func (a *Adapter) LoadSheet(ctx context.Context, locator string, sheet string) (*sheetdash.Table, error) {
	f, err := a.open(ctx, locator)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	found := false
	for _, name := range f.GetSheetList() {
		if name == sheet {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", sheetdash.ErrSheetNotFound, sheet)
	}

	reader, err := newSheetReader(f, a.config.MaxRows)
	if err != nil {
		return nil, err
	}
	return reader.read(sheet)
}

// open opens the workbook, classifying failures as unavailable or malformed
func (a *Adapter) open(ctx context.Context, locator string) (*excelize.File, error) {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	ext := strings.ToLower(filepath.Ext(locator))
	if !supportedExtensions[ext] {
		return nil, fmt.Errorf("%w: %w: unsupported extension %q", sheetdash.ErrMalformedWorkbook, ErrInvalidFileFormat, ext)
	}

	f, err := excelize.OpenFile(locator, excelize.Options{Password: a.config.Password})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %w", sheetdash.ErrSourceUnavailable, err)
		}
		return nil, fmt.Errorf("%w: failed to open Excel file: %w", sheetdash.ErrMalformedWorkbook, err)
	}
	return f, nil
}

// columnName converts a column number to Excel column name (1 -> A, 26 -> Z, 27 -> AA)
func columnName(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
