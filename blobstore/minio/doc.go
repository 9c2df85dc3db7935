// Package minio provides a blobstore.Store backed by the MinIO client.
//
// It works with MinIO and other S3-compatible systems such as Ceph,
// SeaweedFS and Garage, without pulling in the AWS SDK.
//
// # Usage
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "my-bucket", "vectors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := store.EnsureBucket(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	repo := repository.New[string](store)
package minio
