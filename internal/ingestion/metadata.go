package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// Supported resume extensions and their MIME types
const (
	ExtPDF  = ".pdf"
	ExtDOCX = ".docx"

	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var mimeTypes = map[string]string{
	ExtPDF:  MimePDF,
	ExtDOCX: MimeDOCX,
}

// Metadata describes an uploaded resume file.
type Metadata struct {
	FileName  string `json:"file_name"`
	Extension string `json:"extension"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Hash      string `json:"hash"` // SHA256 hex digest
}

// Extension returns the lowercased extension of a file name if it is supported.
func Extension(fileName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := mimeTypes[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
	return ext, nil
}

// NewMetadata validates the file name and computes the content hash.
func NewMetadata(fileName string, data []byte) (*Metadata, error) {
	ext, err := Extension(fileName)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	return &Metadata{
		FileName:  filepath.Base(fileName),
		Extension: ext,
		MimeType:  mimeTypes[ext],
		SizeBytes: int64(len(data)),
		Hash:      ContentHash(data),
	}, nil
}

// ContentHash computes the SHA256 hex digest of data.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
