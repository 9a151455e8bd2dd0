// Package storage implements the object store behind post images.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"framez/internal/models"
)

// Store is the object store surface the rest of the app talks to.
// Keys are caller-chosen, URL-safe relative paths.
type Store interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
	Open(key string) (string, error)
}

// DiskStore writes objects under a root directory and serves them from
// a configured public base URL.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore creates a disk-backed store rooted at dir. Objects are
// reachable at baseURL/<key>.
func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DiskStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !isValidKey(key) {
		return models.NewValidationError("Invalid storage key")
	}
	if len(data) == 0 {
		return models.NewValidationError("No file content")
	}

	payload := data
	if strings.HasPrefix(contentType, "image/") {
		processed, webpSidecar, err := ProcessImage(data)
		if err != nil {
			return err
		}
		payload = processed
		sidecarKey := sidecarKeyFor(key)
		if err := writeObject(filepath.Join(s.dir, filepath.FromSlash(sidecarKey)), webpSidecar); err != nil {
			return models.NewInternalError(err)
		}
	}

	if err := writeObject(filepath.Join(s.dir, filepath.FromSlash(key)), payload); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *DiskStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}

// Open resolves a key to its on-disk path for serving.
func (s *DiskStore) Open(key string) (string, error) {
	if !isValidKey(key) {
		return "", models.NewValidationError("Invalid storage key")
	}
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", models.NewNotFoundError("Object", key)
		}
		return "", models.NewInternalError(err)
	}
	return path, nil
}

// isValidKey rejects anything that could escape the store root.
func isValidKey(key string) bool {
	if key == "" || len(key) > 256 {
		return false
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return false
	}
	for _, c := range key {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-' || c == '/':
		default:
			return false
		}
	}
	return true
}

func sidecarKeyFor(key string) string {
	ext := filepath.Ext(key)
	return strings.TrimSuffix(key, ext) + ".webp"
}

func writeObject(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
