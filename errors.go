package sheetdash

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when the data source cannot be stat'ed or opened
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedWorkbook is returned when the workbook cannot be parsed
	ErrMalformedWorkbook = errors.New("malformed workbook")

	// ErrSheetNotFound is returned when a requested sheet does not exist
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrSchemaViolation is reported when a required column is missing
	ErrSchemaViolation = errors.New("schema violation")

	// ErrMissingLocator is returned when no source locator is configured
	ErrMissingLocator = errors.New("source locator is required")

	// ErrMissingAdapter is returned when a client is created without an adapter
	ErrMissingAdapter = errors.New("adapter is required")

	// ErrClientClosed is returned by calls made after Close
	ErrClientClosed = errors.New("client is closed")
)

// SourceError describes a failure against a specific source and sheet.
type SourceError struct {
	Op      string // "stat", "load", "load sheet"
	Locator string
	Sheet   string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("%s %s (sheet %q): %v", e.Op, e.Locator, e.Sheet, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Locator, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError wraps err with the operation, locator and sheet it occurred on.
func NewSourceError(op, locator, sheet string, err error) *SourceError {
	return &SourceError{
		Op:      op,
		Locator: locator,
		Sheet:   sheet,
		Err:     err,
	}
}

// IsFatal reports whether err should abort a whole refresh cycle.
// Sheet-level errors are localized to the view that requested the sheet.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrSourceUnavailable) || errors.Is(err, ErrMalformedWorkbook)
}
