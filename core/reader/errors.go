package reader

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions outside
	// csv, xlsx, xls and json.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrParse is returned when the file content cannot be turned
	// into a table.
	ErrParse = errors.New("file could not be parsed")

	// ErrSizeLimit is returned when the raw content exceeds the
	// configured maximum size.
	ErrSizeLimit = errors.New("file exceeds the size limit")
)
