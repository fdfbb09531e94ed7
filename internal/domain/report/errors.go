package report

import "errors"

var (
	ErrDateRequired      = errors.New("date is required")
	ErrUnsupportedFormat = errors.New("export format must be csv or xlsx")
	ErrExportFailed      = errors.New("failed to generate export")
)
