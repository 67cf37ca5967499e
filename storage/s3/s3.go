// Package s3 stores objects in Amazon S3 or an S3-compatible service.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/kbukum/trascrivi/logger"
	"github.com/kbukum/trascrivi/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderS3, func(cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		return NewStorage(context.Background(), Config{
			Bucket:         cfg.Bucket,
			Region:         cfg.Region,
			Endpoint:       cfg.Endpoint,
			AccessKey:      cfg.AccessKey,
			SecretKey:      cfg.SecretKey,
			ForcePathStyle: cfg.ForcePathStyle,
			PublicBaseURL:  cfg.PublicBaseURL,
		})
	})
}

// Config holds S3 connection settings.
type Config struct {
	Bucket string
	Region string
	// Endpoint overrides the AWS endpoint, e.g. for MinIO. Implies path-style addressing.
	Endpoint       string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
	// PublicBaseURL prefixes public object URLs; defaults to the bucket URL.
	PublicBaseURL string
}

// Storage implements storage.Storage for one bucket.
type Storage struct {
	client        *awss3.Client
	bucket        string
	publicBaseURL string
}

var _ storage.Storage = (*Storage)(nil)

// NewStorage loads the AWS config, with static credentials when both keys are set.
func NewStorage(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = storage.DefaultRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	public := strings.TrimRight(cfg.PublicBaseURL, "/")
	if public == "" {
		public = bucketURL(cfg)
	}
	return &Storage{client: client, bucket: cfg.Bucket, publicBaseURL: public}, nil
}

func bucketURL(cfg Config) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	if cfg.ForcePathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s", cfg.Region, cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// Upload puts reader at path. S3 always overwrites, so Upsert is implied.
func (s *Storage) Upload(ctx context.Context, path string, reader io.Reader, opts storage.UploadOptions) (*storage.Object, error) {
	clean, err := storage.CleanPath(path)
	if err != nil {
		return nil, err
	}
	in := &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(clean),
		Body:   reader,
	}
	if opts.ContentType != "" {
		in.ContentType = aws.String(opts.ContentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return nil, fmt.Errorf("storage: s3 upload %s: %w", clean, err)
	}
	return &storage.Object{Path: clean, URL: s.PublicURL(clean), ContentType: opts.ContentType}, nil
}

// Exists issues a HeadObject for path.
func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	clean, err := storage.CleanPath(path)
	if err != nil {
		return false, err
	}
	_, err = s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(clean),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	var noKey *types.NoSuchKey
	var status interface{ HTTPStatusCode() int }
	switch {
	case errors.As(err, &notFound), errors.As(err, &noKey):
		return false, nil
	case errors.As(err, &status) && status.HTTPStatusCode() == http.StatusNotFound:
		return false, nil
	}
	return false, fmt.Errorf("storage: s3 exists %s: %w", clean, err)
}

// PublicURL returns the object URL under the public base.
func (s *Storage) PublicURL(path string) string {
	return s.publicBaseURL + "/" + storage.EscapePath(path)
}
