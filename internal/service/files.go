package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"memoria/internal/middleware"
)

// FileStore removes stored media artifacts. Implementations must treat a
// missing file as success so deletion cascades stay idempotent.
type FileStore interface {
	Remove(path string) error
}

type diskFileStore struct {
	root string
}

// NewDiskFileStore returns a FileStore rooted at dir. Paths outside the
// root are rejected.
func NewDiskFileStore(dir string) FileStore {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return &diskFileStore{root: abs}
}

func (s *diskFileStore) Remove(path string) error {
	if path == "" {
		return nil
	}

	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.root, full)
	}
	full = filepath.Clean(full)
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		middleware.Logger.Warn("refusing to remove file outside media root", "path", path)
		return nil
	}

	if err := os.Remove(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
