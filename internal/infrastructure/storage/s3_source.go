package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"strings"

	infraconfig "github.com/amazonstore/backend/internal/infrastructure/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3Scheme is the URL scheme of object storage locations
const S3Scheme = "s3"

const defaultRegion = "us-east-1"

// objectGetter is the part of the S3 client used to read objects
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads import files from an S3-compatible bucket (AWS S3, MinIO, RustFS)
type S3Source struct {
	client        objectGetter
	defaultBucket string
	logger        *zap.Logger
}

// S3SourceOption is a functional option for configuring S3Source
type S3SourceOption func(*S3Source)

// WithLogger sets a custom logger for S3Source
func WithLogger(logger *zap.Logger) S3SourceOption {
	return func(s *S3Source) {
		s.logger = logger
	}
}

// withClient replaces the S3 client
func withClient(c objectGetter) S3SourceOption {
	return func(s *S3Source) {
		s.client = c
	}
}

// NewS3Source creates an S3Source from configuration.
// Without static keys the default AWS credential chain is used.
func NewS3Source(ctx context.Context, cfg *infraconfig.StorageConfig, opts ...S3SourceOption) (*S3Source, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
			return nil, errors.New("storage access key id and secret access key must be set together")
		}
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	src := &S3Source{
		client:        client,
		defaultBucket: cfg.Bucket,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(src)
	}
	return src, nil
}

func normalizeEndpoint(endpoint string) (string, error) {
	if endpoint == "" {
		return "", nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	return endpoint, nil
}

// Open streams the object named by location, either s3://bucket/key or a bare
// key in the configured bucket. A missing object yields an error matching fs.ErrNotExist.
func (s *S3Source) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := s.resolve(location)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, &fs.PathError{Op: "open", Path: location, Err: fs.ErrNotExist}
		}
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}

	s.logger.Debug("opened import object",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int64("size", aws.ToInt64(out.ContentLength)),
	)
	return out.Body, nil
}

func (s *S3Source) resolve(location string) (string, string, error) {
	if IsS3Location(location) {
		return ParseS3Location(location)
	}
	if s.defaultBucket == "" {
		return "", "", fmt.Errorf("no bucket for object key %q", location)
	}
	key := strings.TrimPrefix(location, "/")
	if key == "" {
		return "", "", errors.New("object key is required")
	}
	return s.defaultBucket, key, nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound) || errors.As(err, &noSuchBucket)
}

// IsS3Location reports whether location uses the s3:// scheme
func IsS3Location(location string) bool {
	return strings.HasPrefix(location, S3Scheme+"://")
}

// ParseS3Location splits s3://bucket/key into bucket and key
func ParseS3Location(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid object location %q: %w", location, err)
	}
	if u.Scheme != S3Scheme {
		return "", "", fmt.Errorf("invalid object location %q: scheme must be %s", location, S3Scheme)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid object location %q: bucket and key are required", location)
	}
	return bucket, key, nil
}
