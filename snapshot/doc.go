// Package snapshot provides the binary persisted form of a pvec.Vector.
//
// A snapshot is self-describing: the header records the codec that encoded the
// values and the compression applied to them, so Decode needs no options.
//
// # Format
//
//	magic        [4]byte  "PVEC"
//	version      uint16
//	compression  uint8
//	reserved     uint8
//	codecLen     uint16
//	codec        [codecLen]byte
//	size         uint64   declared size
//	count        uint64   populated slots
//	presenceLen  uint64
//	valuesLen    uint64
//	checksum     uint32   CRC32C of the body
//	body         presence || values
//
// All integers are little endian. The presence section is a portable
// roaring64 bitmap of populated indices. The values section holds the dense
// view encoded by the codec, framed as a compression block.
//
// # Usage
//
//	data, err := snapshot.Marshal(v, snapshot.WithCompression(snapshot.CompressionZstd))
//	...
//	v, err := snapshot.Unmarshal[string](data)
package snapshot
