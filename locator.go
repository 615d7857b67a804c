package sheetdash

import (
	"fmt"
	"path/filepath"
	"strings"
)

// GoogleSheetsScheme prefixes locators that name a Google Sheets spreadsheet
const GoogleSheetsScheme = "gsheets:"

// CanonicalLocator normalizes a locator so that different spellings of the
// same source share one cache slot. File paths become absolute and clean;
// remote locators are only trimmed.
func CanonicalLocator(locator string) (string, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", ErrMissingLocator
	}

	if IsGoogleSheetsLocator(locator) {
		id := SpreadsheetID(locator)
		if id == "" {
			return "", fmt.Errorf("%w: empty spreadsheet id in %q", ErrMissingLocator, locator)
		}
		return GoogleSheetsScheme + id, nil
	}

	abs, err := filepath.Abs(locator)
	if err != nil {
		return "", fmt.Errorf("failed to resolve locator %q: %w", locator, err)
	}
	return filepath.Clean(abs), nil
}

// IsGoogleSheetsLocator reports whether locator uses the gsheets: scheme
func IsGoogleSheetsLocator(locator string) bool {
	return strings.HasPrefix(strings.TrimSpace(locator), GoogleSheetsScheme)
}

// SpreadsheetID extracts the spreadsheet id from a gsheets: locator
func SpreadsheetID(locator string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(locator), GoogleSheetsScheme))
}
