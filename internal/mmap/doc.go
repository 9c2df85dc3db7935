// Package mmap maps snapshot files read-only into memory.
//
//	m, err := mmap.Open("snapshot.pvec")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // valid until Close
//
// Unix platforms use mmap(2) and madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile, where Advise is a no-op.
//
// Close is idempotent. Callers must not touch the slice returned by Bytes
// after Close returns.
package mmap
