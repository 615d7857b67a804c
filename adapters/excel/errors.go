package excel

import "errors"

var (
	// ErrInvalidMaxRows is returned when MaxRows is negative
	ErrInvalidMaxRows = errors.New("max rows must be non-negative")

	// ErrInvalidFileFormat is returned when the file is not a valid Excel file
	ErrInvalidFileFormat = errors.New("invalid Excel file format")
)
