package resumes

import (
	"errors"

	"github.com/Kartik4138/Resume-enhancer/internal/ingestion"
)

var (
	// ErrUnsupportedFileType is returned for uploads that are not PDF or DOCX.
	ErrUnsupportedFileType = ingestion.ErrUnsupportedFileType
	// ErrEmptyFile is returned for uploads without content.
	ErrEmptyFile = ingestion.ErrEmptyDocument
	// ErrNotFound is returned when the user has no matching resume or version.
	ErrNotFound = errors.New("Resume not found")
	// ErrFileMissing is returned when a version exists but its stored file does not.
	ErrFileMissing = errors.New("File not found on server")
)
