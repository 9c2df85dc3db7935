package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/pvec"
	"github.com/hupe1980/pvec/codec"
	"github.com/hupe1980/pvec/internal/compress"
	"github.com/hupe1980/pvec/internal/hash"
)

// Marshal returns the snapshot encoding of v.
func Marshal[T any](v *pvec.Vector[T], opts ...Option) ([]byte, error) {
	o := buildOptions(opts)

	presence, err := encodePresence(Indices(v))
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode presence: %w", err)
	}

	raw, err := o.codec.Marshal(v.ToSlice())
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode values with %s: %w", o.codec.Name(), err)
	}
	values, err := compress.Compress(raw, o.compression)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	h := Header{
		Version:     Version,
		Compression: o.compression,
		Codec:       o.codec.Name(),
		Size:        v.Size(),
		Count:       v.Count(),
		PresenceLen: len(presence),
		ValuesLen:   len(values),
	}

	crc := hash.NewCRC32C()
	_, _ = crc.Write(presence)
	_, _ = crc.Write(values)
	h.Checksum = crc.Sum32()

	out := make([]byte, 0, h.encodedLen()+len(presence)+len(values))
	out, err = h.appendTo(out)
	if err != nil {
		return nil, err
	}
	out = append(out, presence...)
	out = append(out, values...)
	return out, nil
}

// Encode writes the snapshot encoding of v to w.
func Encode[T any](w io.Writer, v *pvec.Vector[T], opts ...Option) error {
	data, err := Marshal(v, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Inspect decodes only the header of a snapshot and verifies the checksum.
func Inspect(data []byte) (Header, error) {
	h, _, err := verify(data)
	return h, err
}

func verify(data []byte) (Header, []byte, error) {
	h, off, err := parseHeader(data)
	if err != nil {
		return h, nil, err
	}

	body := data[off:]
	if uint64(len(body)) != uint64(h.PresenceLen)+uint64(h.ValuesLen) {
		return h, nil, corrupt("body length %d, header declares %d+%d", len(body), h.PresenceLen, h.ValuesLen)
	}
	if actual := hash.CRC32C(body); actual != h.Checksum {
		return h, nil, &ChecksumMismatchError{Expected: h.Checksum, Actual: actual}
	}
	return h, body, nil
}

// Unmarshal decodes a snapshot produced by Marshal.
func Unmarshal[T any](data []byte) (*pvec.Vector[T], error) {
	h, body, err := verify(data)
	if err != nil {
		return nil, err
	}

	c, ok := codec.ByName(h.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownCodec, h.Codec, strings.Join(codec.Names(), ", "))
	}

	presence, err := decodePresence(body[:h.PresenceLen])
	if err != nil {
		return nil, err
	}

	raw, err := compress.Decompress(body[h.PresenceLen:], h.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var values []T
	if err := c.Unmarshal(raw, &values); err != nil {
		return nil, corrupt("decode values with %s: %v", c.Name(), err)
	}

	if card := presence.GetCardinality(); card != uint64(h.Count) || len(values) != h.Count {
		return nil, corrupt("count %d, presence %d, values %d", h.Count, card, len(values))
	}
	if h.Count > 0 && presence.Maximum() >= uint64(h.Size) {
		return nil, corrupt("index %d outside size %d", presence.Maximum(), h.Size)
	}

	b := pvec.NewBuilder[T]()
	b.Grow(h.Size)
	it := presence.Iterator()
	for k := 0; it.HasNext(); k++ {
		if err := b.Put(int(it.Next()), values[k]); err != nil {
			return nil, corrupt("%v", err)
		}
	}
	return b.Vector(), nil
}

// Decode reads a complete snapshot from r.
func Decode[T any](r io.Reader) (*pvec.Vector[T], error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}
	return Unmarshal[T](buf.Bytes())
}
