package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/pvec/internal/conv"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type identifies a block compression algorithm. Its numeric value is
// persisted in snapshot headers and must not change.
type Type uint8

const (
	// None stores blocks as-is.
	None Type = 0
	// LZ4 is fast block compression, a good fit for frequently loaded snapshots.
	LZ4 Type = 1
	// Zstd trades speed for a better ratio.
	Zstd Type = 2
)

// ErrCorrupt is returned when a block cannot be decompressed.
var ErrCorrupt = errors.New("compress: corrupt block")

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Valid reports whether t is a known algorithm.
func (t Type) Valid() bool {
	return t <= Zstd
}

// Parse returns the Type with the given name.
func Parse(name string) (Type, error) {
	switch name {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return None, fmt.Errorf("compress: unknown algorithm %q", name)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxBlockSize))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Block layout: [rawSize uint32][storedSize uint32][data...]
// storedSize == 0 means data is stored uncompressed.
const headerSize = 8

const (
	// MaxBlockSize is the largest decompressed block Decompress accepts.
	MaxBlockSize = 1 << 30

	// maxLZ4Ratio bounds the output of an LZ4 block relative to its input.
	maxLZ4Ratio = 255

	// zstdSizeHint caps the initial zstd output allocation per stored byte.
	// Larger outputs grow as the decoder produces them.
	zstdSizeHint = 16
)

// Compress returns data framed as a block. If compression does not shrink
// data by at least 10%, the block is stored uncompressed.
func Compress(data []byte, t Type) ([]byte, error) {
	raw, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, fmt.Errorf("compress: block too large: %w", err)
	}

	var packed []byte
	switch t {
	case None:
	case LZ4:
		packed, err = compressLZ4(data)
	case Zstd:
		packed = compressZstd(data)
	default:
		return nil, fmt.Errorf("compress: unknown algorithm %s", t)
	}
	if err != nil {
		return nil, err
	}

	if len(packed) == 0 || float64(len(packed)) > float64(len(data))*0.9 {
		out := make([]byte, headerSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], raw)
		copy(out[headerSize:], data)
		return out, nil
	}

	out := make([]byte, headerSize+len(packed))
	binary.LittleEndian.PutUint32(out[0:], raw)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(packed)))
	copy(out[headerSize:], packed)
	return out, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return buf[:n], nil
}

func compressZstd(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)
	return enc.EncodeAll(data, nil)
}

// Decompress reverses Compress. The returned slice may alias block when the
// block was stored uncompressed.
func Decompress(block []byte, t Type) ([]byte, error) {
	if len(block) < headerSize {
		return nil, fmt.Errorf("%w: block too small for header", ErrCorrupt)
	}

	raw, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(block[0:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	stored, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(block[4:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	body := block[headerSize:]

	if stored == 0 {
		if len(body) < raw {
			return nil, fmt.Errorf("%w: truncated block", ErrCorrupt)
		}
		return body[:raw], nil
	}
	if len(body) < stored {
		return nil, fmt.Errorf("%w: truncated block", ErrCorrupt)
	}
	body = body[:stored]

	if raw > MaxBlockSize {
		return nil, fmt.Errorf("%w: declared size %d exceeds limit %d", ErrCorrupt, raw, MaxBlockSize)
	}

	switch t {
	case LZ4:
		if raw > stored*maxLZ4Ratio {
			return nil, fmt.Errorf("%w: declared size %d impossible for %d stored bytes", ErrCorrupt, raw, stored)
		}
		out := make([]byte, raw)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if n != raw {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case Zstd:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		out, err := dec.DecodeAll(body, make([]byte, 0, min(raw, stored*zstdSizeHint)))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if len(out) != raw {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: compressed block with algorithm %s", ErrCorrupt, t)
	}
}
