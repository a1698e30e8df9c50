package snapshot

import (
	"log/slog"

	"github.com/hupe1980/mdadm/codec"
	"github.com/hupe1980/mdadm/internal/compress"
	"github.com/hupe1980/mdadm/resource"
)

const defaultConcurrency = 4

type options struct {
	id          string
	compression compress.Type
	codec       codec.Codec
	rc          *resource.Controller
	logger      *slog.Logger
}

// Option configures Save and Restore.
type Option func(*options)

// WithID sets the snapshot id for Save, or selects a snapshot other than
// CURRENT for Restore.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithCompression sets the payload compression for Save. The default is LZ4.
func WithCompression(t compress.Type) Option {
	return func(o *options) {
		o.compression = t
	}
}

// WithCodec sets the manifest codec. The default is codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithResourceController bounds the number of disks processed at once by
// rc's worker limit.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithLogger sets the logger for snapshot progress.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(optFns []Option) options {
	opts := options{
		compression: compress.LZ4,
		codec:       codec.Default,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}
