// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.NewFromConfig(ctx, "my-bucket", "vectors",
//	    config.WithRegion("us-east-1"),
//	)
//
//	repo := repository.New[string](store)
//
// # Features
//
//   - Ranged GETs for partial reads
//   - Single PUT for small snapshots, multipart uploads for large ones
//   - CRC32C integrity checksums
//   - Conditional writes (If-None-Match) for race-free version allocation
//   - Works with S3 Express One Zone directory buckets
package s3
