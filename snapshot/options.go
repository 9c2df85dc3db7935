package snapshot

import (
	"github.com/hupe1980/pvec/codec"
	"github.com/hupe1980/pvec/internal/compress"
)

// Compression selects the block compression applied to the values section.
type Compression = compress.Type

const (
	CompressionNone = compress.None
	CompressionLZ4  = compress.LZ4
	CompressionZstd = compress.Zstd
)

// ParseCompression returns the Compression with the given name
// ("none", "lz4", "zstd").
func ParseCompression(name string) (Compression, error) {
	return compress.Parse(name)
}

type options struct {
	codec       codec.Codec
	compression Compression
}

// Option configures Encode and Marshal.
type Option func(*options)

// WithCodec sets the codec for the values section. Default: codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the compression for the values section.
// Default: CompressionNone.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

func buildOptions(opts []Option) options {
	o := options{
		codec:       codec.Default,
		compression: CompressionNone,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
