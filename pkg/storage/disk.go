package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrTooLarge is returned by Put when the stream exceeds the size limit.
	ErrTooLarge = errors.New("file exceeds size limit")
	// ErrInvalidKey rejects keys that would escape the base directory.
	ErrInvalidKey = errors.New("invalid storage key")
)

// DiskStore keeps uploaded files on disk under a base directory. Keys are
// slash-separated paths relative to that directory.
type DiskStore struct {
	baseDir string
}

// NewDiskStore ensures the base directory exists and returns a handle.
func NewDiskStore(baseDir string) (*DiskStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

// Put copies r into key and returns the number of bytes written. Content is
// staged in a temporary file and renamed into place, so a failed or oversized
// upload leaves nothing behind. limit <= 0 disables the size check.
func (s *DiskStore) Put(key string, r io.Reader, limit int64) (int64, error) {
	path, err := s.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("prepare storage directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create staging file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	n, err := io.Copy(tmp, src)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("write upload: %w", err)
	}
	if limit > 0 && n > limit {
		return 0, ErrTooLarge
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("store upload: %w", err)
	}
	return n, nil
}

// Open returns a read-only handle for the stored file. A missing file
// satisfies errors.Is(err, os.ErrNotExist).
func (s *DiskStore) Open(key string) (*os.File, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *DiskStore) Delete(key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete stored file: %w", err)
	}
	return nil
}

func (s *DiskStore) resolve(key string) (string, error) {
	if key == "" || filepath.IsAbs(key) || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.baseDir, clean), nil
}
