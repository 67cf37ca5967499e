// Package local stores objects on the filesystem. Objects are served by the
// HTTP server under the configured public base URL.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kbukum/trascrivi/logger"
	"github.com/kbukum/trascrivi/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		return NewStorage(cfg.BasePath, cfg.PublicBaseURL)
	})
}

// ErrExists is returned by a non-upsert Upload onto an existing object.
var ErrExists = errors.New("storage: object already exists")

// Storage implements storage.Storage under a root directory.
type Storage struct {
	root          string
	publicBaseURL string
}

var _ storage.Storage = (*Storage)(nil)

// NewStorage creates basePath if needed.
func NewStorage(basePath, publicBaseURL string) (*Storage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &Storage{root: abs, publicBaseURL: publicBaseURL}, nil
}

// Root returns the absolute base directory.
func (s *Storage) Root() string { return s.root }

func (s *Storage) resolve(path string) (string, string, error) {
	clean, err := storage.CleanPath(path)
	if err != nil {
		return "", "", err
	}
	return clean, filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Upload writes reader to a file below the root.
func (s *Storage) Upload(_ context.Context, path string, reader io.Reader, opts storage.UploadOptions) (*storage.Object, error) {
	clean, full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.Upsert {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(full, flags, 0o640)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrExists, clean)
		}
		return nil, fmt.Errorf("storage: create file: %w", err)
	}

	n, err := io.Copy(f, reader)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return nil, fmt.Errorf("storage: write file: %w", err)
	}
	return &storage.Object{Path: clean, URL: s.PublicURL(clean), Size: n, ContentType: opts.ContentType}, nil
}

// Exists reports whether a regular file exists at path.
func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	_, full, err := s.resolve(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat file: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// PublicURL joins the public base URL and the escaped path.
func (s *Storage) PublicURL(path string) string {
	return s.publicBaseURL + "/" + storage.EscapePath(path)
}
