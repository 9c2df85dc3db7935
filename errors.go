package pvec

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned by the strict accessors (MustGet, MustUpdate)
	// when the requested slot holds no value.
	ErrOutOfBounds = errors.New("index out of bounds")

	// ErrInvalidArgument is returned when an index is still negative after
	// end-relative normalization, or when a requested size is negative.
	ErrInvalidArgument = errors.New("invalid argument")
)

// IndexError describes a failed indexed operation.
//
// The sentinel (ErrOutOfBounds or ErrInvalidArgument) can be matched with
// errors.Is; the error itself with errors.As.
type IndexError struct {
	Op    string // operation name, e.g. "put"
	Index int    // index as passed by the caller, before normalization
	Size  int    // declared size at the time of the call
	cause error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d (size %d): %v", e.Op, e.Index, e.Size, e.cause)
}

func (e *IndexError) Unwrap() error { return e.cause }

func outOfBounds(op string, index, size int) error {
	return &IndexError{Op: op, Index: index, Size: size, cause: ErrOutOfBounds}
}

func negativeIndex(op string, index, size int) error {
	return &IndexError{
		Op:    op,
		Index: index,
		Size:  size,
		cause: fmt.Errorf("%w: negative index out of bounds", ErrInvalidArgument),
	}
}

func indexTooLarge(op string, index, size int) error {
	return &IndexError{
		Op:    op,
		Index: index,
		Size:  size,
		cause: fmt.Errorf("%w: index exceeds maximum size", ErrInvalidArgument),
	}
}
