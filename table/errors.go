package table

import "errors"

var (
	// ErrUnsupportedFormat is returned for files that are not .xls or .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

	// ErrUnreadable is returned when a spreadsheet cannot be decoded.
	ErrUnreadable = errors.New("spreadsheet cannot be read")
)
