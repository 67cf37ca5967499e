// Package supabase stores objects through the Supabase Storage REST API
// using the project's service-role key.
package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/trascrivi/httpclient"
	"github.com/kbukum/trascrivi/logger"
	"github.com/kbukum/trascrivi/storage"
)

const uploadTimeout = 5 * time.Minute

func init() {
	storage.RegisterFactory(storage.ProviderSupabase, func(cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		return NewStorage(Config{URL: cfg.URL, Bucket: cfg.Bucket, ServiceKey: cfg.ServiceKey}, log)
	})
}

// Config holds Supabase connection settings.
type Config struct {
	// URL is the project URL, e.g. https://xyz.supabase.co.
	URL        string
	Bucket     string
	ServiceKey string
}

// Storage implements storage.Storage for one Supabase bucket.
type Storage struct {
	baseURL string
	bucket  string
	client  *httpclient.Client
	log     *logger.Logger
}

var _ storage.Storage = (*Storage)(nil)

// NewStorage creates a client for cfg.Bucket.
func NewStorage(cfg Config, log *logger.Logger) (*Storage, error) {
	if cfg.URL == "" || cfg.Bucket == "" || cfg.ServiceKey == "" {
		return nil, fmt.Errorf("supabase: url, bucket and service key are required")
	}
	base := strings.TrimRight(cfg.URL, "/") + "/storage/v1"
	client, err := httpclient.New(httpclient.Config{
		BaseURL: base,
		Timeout: uploadTimeout,
		Auth:    httpclient.BearerAuth(cfg.ServiceKey),
		Headers: map[string]string{"apikey": cfg.ServiceKey},
	})
	if err != nil {
		return nil, fmt.Errorf("supabase: %w", err)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Storage{baseURL: base, bucket: cfg.Bucket, client: client, log: log}, nil
}

func (s *Storage) objectPath(p string) string {
	return "/object/" + s.bucket + "/" + storage.EscapePath(p)
}

// Upload streams reader to the bucket.
func (s *Storage) Upload(ctx context.Context, path string, reader io.Reader, opts storage.UploadOptions) (*storage.Object, error) {
	clean, err := storage.CleanPath(path)
	if err != nil {
		return nil, err
	}
	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	counter := &countingReader{r: reader}
	_, err = s.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   s.objectPath(clean),
		Body:   counter,
		Headers: map[string]string{
			"Content-Type": contentType,
			"x-upsert":     fmt.Sprintf("%t", opts.Upsert),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("storage: supabase upload %s: %w", clean, err)
	}

	s.log.Debug("object uploaded", map[string]interface{}{
		"path":  clean,
		"bytes": counter.n,
	})
	return &storage.Object{Path: clean, URL: s.PublicURL(clean), Size: counter.n, ContentType: contentType}, nil
}

// Exists issues a HEAD for the object. Supabase answers a missing object with
// 400 or 404.
func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	clean, err := storage.CleanPath(path)
	if err != nil {
		return false, err
	}
	_, err = s.client.Do(ctx, httpclient.Request{Method: http.MethodHead, Path: s.objectPath(clean)})
	switch status := httpclient.StatusCode(err); {
	case err == nil:
		return true, nil
	case status == http.StatusNotFound || status == http.StatusBadRequest:
		return false, nil
	default:
		return false, fmt.Errorf("storage: supabase exists %s: %w", clean, err)
	}
}

// PublicURL returns the public object URL. The bucket must be public.
func (s *Storage) PublicURL(path string) string {
	return s.baseURL + "/object/public/" + s.bucket + "/" + storage.EscapePath(path)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
