package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
// It aliases os.ErrNotExist so filesystem errors match without translation.
var ErrNotFound = os.ErrNotExist

// ErrExists is returned by PutIfNotExists when the name is already taken.
var ErrExists = os.ErrExist

// Store is a flat namespace of immutable blobs. Names use '/' as separator.
// Implementations must be safe for concurrent use.
type Store interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a blob atomically: readers observe either the old blob or
	// the complete new one.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the names with the given prefix in sorted order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a blob.
type Blob interface {
	io.Closer
	// ReadAt reads len(p) bytes at off. It returns io.EOF when fewer bytes
	// remain.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// ReadRange returns a reader over length bytes starting at off.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	// Size returns the size of the blob in bytes.
	Size() int64
}

// ExclusivePutter is an optional interface for Stores that can create a blob
// only if the name is free. Callers fall back to Put when a Store does not
// implement it.
type ExclusivePutter interface {
	// PutIfNotExists writes data under name, or fails with an error matching
	// ErrExists when the name is already taken.
	PutIfNotExists(ctx context.Context, name string, data []byte) error
}

// Mappable is an optional interface for Blobs whose bytes are already in
// memory, such as memory-mapped files.
type Mappable interface {
	// Bytes returns the blob contents without copying.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// ReadAll returns the full contents of blob. The result never aliases memory
// owned by the blob, so it stays valid after Close.
func ReadAll(ctx context.Context, blob Blob) ([]byte, error) {
	if m, ok := blob.(Mappable); ok {
		b, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), b...), nil
	}

	size := blob.Size()
	if size == 0 {
		return []byte{}, nil
	}

	rc, err := blob.ReadRange(ctx, 0, size)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	buf := make([]byte, size)
	if _, err := io.ReadFull(rc, buf); err != nil {
		return nil, fmt.Errorf("blobstore: read %d bytes: %w", size, err)
	}
	return buf, nil
}

// Get opens name and reads it completely.
func Get(ctx context.Context, s Store, name string) ([]byte, error) {
	blob, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = blob.Close() }()

	return ReadAll(ctx, blob)
}
