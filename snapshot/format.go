package snapshot

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/pvec/internal/conv"
)

const (
	// Magic identifies pvec snapshots.
	Magic = "PVEC"
	// Version is the current snapshot format version.
	Version uint16 = 1

	// fixed part of the header: magic, version, compression, reserved, codecLen
	fixedPrefix = 4 + 2 + 1 + 1 + 2
	// fixed part after the codec name: size, count, presenceLen, valuesLen, checksum
	fixedSuffix = 8 + 8 + 8 + 8 + 4

	maxCodecName = 255
)

// Header describes a snapshot without decoding its body.
type Header struct {
	Version     uint16
	Compression Compression
	Codec       string
	Size        int
	Count       int
	PresenceLen int
	ValuesLen   int
	Checksum    uint32
}

// encodedLen returns the length of the encoded header.
func (h *Header) encodedLen() int {
	return fixedPrefix + len(h.Codec) + fixedSuffix
}

func (h *Header) appendTo(dst []byte) ([]byte, error) {
	if len(h.Codec) == 0 || len(h.Codec) > maxCodecName {
		return nil, fmt.Errorf("snapshot: invalid codec name %q", h.Codec)
	}

	var fields [4]uint64
	for i, n := range []int{h.Size, h.Count, h.PresenceLen, h.ValuesLen} {
		u, err := conv.IntToUint64(n)
		if err != nil {
			return nil, fmt.Errorf("snapshot: header: %w", err)
		}
		fields[i] = u
	}

	dst = append(dst, Magic...)
	dst = binary.LittleEndian.AppendUint16(dst, h.Version)
	dst = append(dst, byte(h.Compression), 0)
	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(h.Codec)))
	dst = append(dst, h.Codec...)
	for _, f := range fields {
		dst = binary.LittleEndian.AppendUint64(dst, f)
	}
	dst = binary.LittleEndian.AppendUint32(dst, h.Checksum)
	return dst, nil
}

// parseHeader decodes the header at the start of data and returns it together
// with the number of bytes consumed.
func parseHeader(data []byte) (Header, int, error) {
	var h Header

	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return h, 0, ErrInvalidMagic
	}
	if len(data) < fixedPrefix {
		return h, 0, corrupt("truncated header")
	}

	h.Version = binary.LittleEndian.Uint16(data[4:])
	if h.Version != Version {
		return h, 0, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}
	h.Compression = Compression(data[6])
	if !h.Compression.Valid() {
		return h, 0, corrupt("unknown compression %s", h.Compression)
	}

	codecLen := int(binary.LittleEndian.Uint16(data[8:]))
	off := fixedPrefix
	if codecLen == 0 || codecLen > maxCodecName || len(data) < off+codecLen+fixedSuffix {
		return h, 0, corrupt("truncated header")
	}
	h.Codec = string(data[off : off+codecLen])
	off += codecLen

	var fields [4]int
	for i := range fields {
		n, err := conv.Uint64ToInt(binary.LittleEndian.Uint64(data[off:]))
		if err != nil {
			return h, 0, corrupt("header field: %v", err)
		}
		fields[i] = n
		off += 8
	}
	h.Size, h.Count, h.PresenceLen, h.ValuesLen = fields[0], fields[1], fields[2], fields[3]
	h.Checksum = binary.LittleEndian.Uint32(data[off:])
	off += 4

	if h.Count > h.Size {
		return h, 0, corrupt("count %d exceeds size %d", h.Count, h.Size)
	}
	return h, off, nil
}
