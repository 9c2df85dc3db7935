// Package blobstore provides the storage backends that hold vector snapshots.
//
// A Store is a flat namespace of immutable blobs. Implementations must be
// safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and ephemeral use
//   - LocalStore: local filesystem, atomic writes, memory-mapped reads
//   - s3.Store: Amazon S3 with ranged reads and managed uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type Store interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error     // atomic write
//	    Delete(ctx, name) error        // missing blobs are not an error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Stores that can create a blob only when its name is free implement
// ExclusivePutter; the repository uses it to claim snapshot versions.
//
// Blobs whose contents are already in memory should also implement Mappable
// so that ReadAll can skip the ranged read.
package blobstore
