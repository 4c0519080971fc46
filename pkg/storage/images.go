package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ImageStore persists product and listing images on disk and serves them
// through a public URL base.
type ImageStore struct {
	baseDir       string
	publicBaseURL string
}

// NewImageStore ensures the base directory exists and returns a handle.
func NewImageStore(baseDir, publicBaseURL string) (*ImageStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if publicBaseURL == "" {
		publicBaseURL = "/static"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &ImageStore{baseDir: baseDir, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// SaveStream copies from reader into the target file path and returns the
// stored relative path.
func (s *ImageStore) SaveStream(filename string, r io.Reader) (string, error) {
	path := s.resolve(filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare image directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write image stream: %w", err)
	}
	return filename, nil
}

// Save writes raw bytes to the provided relative path under the base dir.
func (s *ImageStore) Save(filename string, data []byte) (string, error) {
	path := s.resolve(filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare image directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return filename, nil
}

// Open returns a read-only handle for the stored file.
func (s *ImageStore) Open(filename string) (*os.File, error) {
	file, err := os.Open(s.resolve(filename))
	if err != nil {
		return nil, fmt.Errorf("open image file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *ImageStore) Delete(filename string) error {
	if err := os.Remove(s.resolve(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

// PublicURL maps a stored relative path onto its externally reachable URL.
func (s *ImageStore) PublicURL(filename string) string {
	return s.publicBaseURL + "/" + strings.TrimLeft(filepath.ToSlash(filename), "/")
}

// PathFromPublicURL reverses PublicURL; it returns false when the URL does not
// point into this store.
func (s *ImageStore) PathFromPublicURL(url string) (string, bool) {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// BaseDir exposes the root directory for static file serving.
func (s *ImageStore) BaseDir() string {
	return s.baseDir
}

// ListOlderThan returns relative paths of stored files whose modification time
// is older than the provided TTL.
func (s *ImageStore) ListOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	stale := make([]string, 0)
	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			rel = path
		}
		stale = append(stale, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan uploads: %w", err)
	}
	return stale, nil
}

func (s *ImageStore) resolve(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(s.baseDir, filename)
}
