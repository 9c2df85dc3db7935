package snapshot

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMagic   = errors.New("snapshot: invalid magic number")
	ErrInvalidVersion = errors.New("snapshot: unsupported version")
	ErrUnknownCodec   = errors.New("snapshot: unknown codec")
	// ErrCorrupt is returned when the header or body is internally inconsistent.
	ErrCorrupt = errors.New("snapshot: corrupt data")
)

// ChecksumMismatchError is returned when body verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("snapshot: checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// IsChecksumMismatch returns true if err is or wraps a checksum mismatch error.
func IsChecksumMismatch(err error) bool {
	var e *ChecksumMismatchError
	return errors.As(err, &e)
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorrupt}, args...)...)
}
