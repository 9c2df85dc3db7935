package repository

import (
	"github.com/hupe1980/pvec"
	"github.com/hupe1980/pvec/codec"
	"github.com/hupe1980/pvec/resource"
	"github.com/hupe1980/pvec/snapshot"
)

const (
	// DefaultPrefix is the key prefix under which snapshots are stored.
	DefaultPrefix = "vectors"
	// DefaultCacheSize is the default snapshot cache capacity in bytes.
	DefaultCacheSize = 64 << 20
	// DefaultConcurrency bounds parallel loads and deletes.
	DefaultConcurrency = 4
)

type options struct {
	logger      *pvec.Logger
	metrics     pvec.MetricsCollector
	codec       codec.Codec
	compression snapshot.Compression
	cacheSize   int64
	rc          *resource.Controller
	prefix      string
	concurrency int
}

// Option configures a Repository.
type Option func(*options)

// WithLogger sets the structured logger.
func WithLogger(l *pvec.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(m pvec.MetricsCollector) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithCodec sets the codec used for snapshot values.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the snapshot compression.
func WithCompression(c snapshot.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCacheSize sets the snapshot cache capacity in bytes. Zero disables
// caching.
func WithCacheSize(bytes int64) Option {
	return func(o *options) {
		o.cacheSize = max(bytes, 0)
	}
}

// WithResourceController limits memory, concurrent IO and IO bandwidth.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithPrefix sets the key prefix. An empty prefix stores snapshots at the
// store root.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithConcurrency bounds the number of parallel blob operations in LoadMany
// and Delete.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:      pvec.NoopLogger(),
		metrics:     pvec.NoopMetricsCollector{},
		codec:       codec.Default,
		compression: snapshot.CompressionNone,
		cacheSize:   DefaultCacheSize,
		prefix:      DefaultPrefix,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
