package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client is the subset of the S3 API the store uses. *s3.Client implements it.
type Client interface {
	manager.UploadAPIClient
	s3.ListObjectsV2APIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var _ Client = (*s3.Client)(nil)

// Options configures a Store.
type Options struct {
	// Prefix is prepended to every blob name (e.g. "arrays/prod/").
	Prefix string
	// Region overrides the region from the default AWS config chain.
	Region string
	// Endpoint points the client at an S3-compatible endpoint and enables
	// path-style addressing (e.g. LocalStack).
	Endpoint string
	// Upload tunes multipart uploads.
	Upload UploadConfig
}

// Option configures Options.
type Option func(*Options)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(o *Options) {
		o.Region = region
	}
}

// WithEndpoint sets a custom S3 endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *Options) {
		o.Endpoint = endpoint
	}
}

// WithUploadConfig sets the multipart upload configuration.
func WithUploadConfig(cfg UploadConfig) Option {
	return func(o *Options) {
		o.Upload = cfg
	}
}

func newOptions(optFns []Option) Options {
	opts := Options{Upload: DefaultUploadConfig()}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

func loadConfig(ctx context.Context, opts Options) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	return config.LoadDefaultConfig(ctx, loadOpts...)
}

func newClient(cfg aws.Config, opts Options) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
}

// New creates a Store using the default AWS credential and config chain.
func New(ctx context.Context, bucket string, optFns ...Option) (*Store, error) {
	opts := newOptions(optFns)

	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	return newStore(newClient(cfg, opts), bucket, opts), nil
}
