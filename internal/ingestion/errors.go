package ingestion

import "errors"

var (
	// ErrUnsupportedFileType is returned for files that are neither PDF nor DOCX.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrEmptyDocument is returned when a file has no bytes.
	ErrEmptyDocument = errors.New("empty document")
)
