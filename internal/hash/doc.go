// Package hash provides the checksum used by pvec's snapshot format.
//
// Snapshots are checksummed with CRC32-Castagnoli (CRC32C). Go's crc32
// package uses hardware instructions for it where available.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
