package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"
)

// ErrInvalidPath is returned for object paths that are empty, absolute or
// escape their root.
var ErrInvalidPath = errors.New("storage: invalid object path")

// Object describes a stored object.
type Object struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// UploadOptions controls a single upload.
type UploadOptions struct {
	ContentType string
	// Upsert overwrites an existing object instead of failing.
	Upsert bool
}

// Storage is the object store used by the API.
type Storage interface {
	// Upload writes reader to path.
	Upload(ctx context.Context, path string, reader io.Reader, opts UploadOptions) (*Object, error)

	// Exists reports whether an object exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// PublicURL returns the URL at which path can be fetched without credentials.
	PublicURL(path string) string
}

// CleanPath normalizes an object path and rejects ones that are empty,
// absolute or climb out of the bucket root.
func CleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, `\`) {
		return "", ErrInvalidPath
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}
	return clean, nil
}

// EscapePath percent-encodes each segment of an object path for use in a URL.
func EscapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
