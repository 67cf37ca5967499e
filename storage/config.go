package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Provider names.
const (
	ProviderLocal    = "local"
	ProviderS3       = "s3"
	ProviderSupabase = "supabase"
)

// Default configuration values.
const (
	DefaultProvider      = ProviderLocal
	DefaultBasePath      = "/tmp/trascrivi"
	DefaultPublicBaseURL = "http://localhost:8080/files"
	DefaultRegion        = "us-east-1"
	DefaultBucket        = "audio"
	DefaultMaxFileSize   = int64(50 * 1024 * 1024)
)

// Config selects and configures the storage backend. Fields not used by the
// selected provider are ignored.
type Config struct {
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Bucket is the Supabase or S3 bucket.
	Bucket string `yaml:"bucket" mapstructure:"bucket"`

	// URL is the Supabase project URL.
	URL string `yaml:"url" mapstructure:"url"`
	// ServiceKey is the Supabase service-role key.
	ServiceKey string `yaml:"service_key" mapstructure:"service_key"`

	Region         string `yaml:"region" mapstructure:"region"`
	Endpoint       string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey      string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey      string `yaml:"secret_key" mapstructure:"secret_key"`
	ForcePathStyle bool   `yaml:"force_path_style" mapstructure:"force_path_style"`

	// BasePath is the root directory for the local provider.
	BasePath string `yaml:"base_path" mapstructure:"base_path"`
	// PublicBaseURL prefixes public object URLs. Required for local; optional
	// for s3 (defaults to the bucket endpoint).
	PublicBaseURL string `yaml:"public_base_url" mapstructure:"public_base_url"`

	// MaxFileSize bounds uploads in bytes.
	MaxFileSize int64 `yaml:"max_file_size" mapstructure:"max_file_size"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Bucket == "" {
		c.Bucket = DefaultBucket
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Provider == ProviderLocal {
		if c.BasePath == "" {
			c.BasePath = DefaultBasePath
		}
		if c.PublicBaseURL == "" {
			c.PublicBaseURL = DefaultPublicBaseURL
		}
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")
}

// Validate checks the fields the selected provider needs.
func (c *Config) Validate() error {
	var errs []error
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			errs = append(errs, errors.New("base_path is required"))
		}
		if c.PublicBaseURL == "" {
			errs = append(errs, errors.New("public_base_url is required"))
		}
	case ProviderS3:
		if c.Bucket == "" {
			errs = append(errs, errors.New("bucket is required"))
		}
		if c.Region == "" {
			errs = append(errs, errors.New("region is required"))
		}
	case ProviderSupabase:
		if c.URL == "" {
			errs = append(errs, errors.New("url is required"))
		}
		if c.Bucket == "" {
			errs = append(errs, errors.New("bucket is required"))
		}
		if c.ServiceKey == "" {
			errs = append(errs, errors.New("service_key is required"))
		}
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	if len(errs) > 0 {
		return fmt.Errorf("storage: invalid %s config: %w", c.Provider, errors.Join(errs...))
	}
	return nil
}
