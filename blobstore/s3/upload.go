package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/pvec/internal/hash"
)

// UploadConfig configures how snapshots are written to S3.
type UploadConfig struct {
	// PartSize is the multipart part size. Blobs smaller than PartSize are
	// written with a single PutObject.
	// Default: 8MB
	PartSize int64

	// Concurrency is the number of concurrent part uploads.
	// Default: 5
	Concurrency int

	// EnableChecksum enables CRC32C integrity validation.
	// Default: true
	EnableChecksum bool

	// LeavePartsOnError keeps uploaded parts when a multipart upload fails.
	// Default: false
	LeavePartsOnError bool
}

// DefaultUploadConfig returns the default upload settings.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:          8 * 1024 * 1024,
		Concurrency:       5,
		EnableChecksum:    true,
		LeavePartsOnError: false,
	}
}

func (c UploadConfig) withDefaults() UploadConfig {
	d := DefaultUploadConfig()
	if c.PartSize < manager.MinUploadPartSize {
		c.PartSize = d.PartSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	return c
}

func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = cfg.PartSize
		u.Concurrency = cfg.Concurrency
		u.LeavePartsOnError = cfg.LeavePartsOnError
	})
}

// computeCRC32C returns the base64 big-endian CRC32C that S3 expects.
func computeCRC32C(data []byte) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], hash.CRC32C(data))
	return base64.StdEncoding.EncodeToString(b[:])
}

// putObject writes data with a single request.
func putObject(ctx context.Context, client Client, input *s3.PutObjectInput, data []byte, checksum bool) error {
	input.Body = bytes.NewReader(data)
	input.ContentLength = aws.Int64(int64(len(data)))
	if checksum {
		input.ChecksumCRC32C = aws.String(computeCRC32C(data))
	}
	_, err := client.PutObject(ctx, input)
	return mapError(err)
}

// upload writes data through the multipart uploader.
func upload(ctx context.Context, uploader *manager.Uploader, input *s3.PutObjectInput, data []byte, checksum bool) error {
	input.Body = bytes.NewReader(data)
	if checksum {
		input.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
	}
	_, err := uploader.Upload(ctx, input)
	return mapError(err)
}
