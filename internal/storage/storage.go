// Package storage keeps uploaded resume files in a local directory or an S3 bucket.
package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned when a stored object does not exist.
var ErrNotFound = errors.New("object not found")

// ErrInvalidKey is returned for storage keys that escape the store.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore saves and retrieves uploaded files.
type ObjectStore interface {
	// Save stores r under the user's namespace and returns its storage key.
	Save(ctx context.Context, userID, fileName, contentType string, r io.Reader) (string, error)
	// Open returns the object contents. Missing objects give ErrNotFound.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, storageKey string) error
}

// SanitizeFileName strips path separators from a client supplied file name.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// userKey is the directory a user's files live under.
func userKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

// newStorageKey builds a unique key for a user's file.
func newStorageKey(userID, fileName string) (string, error) {
	sanitized, err := SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("failed to sanitize file name: %w", err)
	}
	return path.Join(userKey(userID), randomID()+"_"+sanitized), nil
}

// cleanKey rejects keys that are absolute or leave the store root.
func cleanKey(storageKey string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(storageKey, "\\", "/"))
	if clean == "." || strings.HasPrefix(clean, "..") || strings.HasPrefix(clean, "/") {
		return "", ErrInvalidKey
	}
	return clean, nil
}
