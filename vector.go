package pvec

import (
	"fmt"
	"iter"

	"github.com/hupe1980/pvec/internal/trie"
)

// Vector is a persistent, ordered, randomly indexable sparse array.
//
// Every slot in [0, Size()) is either populated or unset. Operations that
// "modify" a vector return a new one and leave the receiver untouched, so a
// Vector can be shared between goroutines without locking.
//
// The zero value and a nil *Vector are both valid empty vectors.
type Vector[T any] struct {
	t trie.Trie[T]
}

// New returns an empty vector.
func New[T any]() *Vector[T] {
	return &Vector[T]{}
}

// WithCapacity returns a vector with declared size n in which every slot is
// unset. It fails with ErrInvalidArgument if n is negative.
func WithCapacity[T any](n int) (*Vector[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", ErrInvalidArgument, n)
	}
	return &Vector[T]{t: trie.New[T](n)}, nil
}

// FromSlice returns a vector holding values in order; every slot is populated.
func FromSlice[T any](values []T) *Vector[T] {
	b := NewBuilder[T]()
	for _, v := range values {
		_ = b.Append(v) // bounded by len(values)
	}
	return b.Vector()
}

// Collect returns a vector holding the values of seq in order.
func Collect[T any](seq iter.Seq[T]) *Vector[T] {
	b := NewBuilder[T]()
	for v := range seq {
		_ = b.Append(v)
	}
	return b.Vector()
}

// From returns an equivalent vector. Since vectors are immutable, this is
// other itself; a nil vector yields an empty one.
func From[T any](other *Vector[T]) *Vector[T] {
	if other == nil {
		return New[T]()
	}
	return other
}

func (v *Vector[T]) trie() trie.Trie[T] {
	if v == nil {
		return trie.Trie[T]{}
	}
	return v.t
}

// Size returns the declared size: the number of addressable slots, populated
// or not.
func (v *Vector[T]) Size() int {
	return v.trie().Size()
}

// Count returns the number of populated slots.
func (v *Vector[T]) Count() int {
	return v.trie().Count()
}

// normalize resolves an end-relative index. ok is false when the result is
// still negative.
func normalize(index, size int) (int, bool) {
	if index < 0 {
		index += size
	}
	return index, index >= 0
}
