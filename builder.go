package pvec

import (
	"math"

	"github.com/hupe1980/pvec/internal/trie"
)

// Builder accumulates a vector with in-place edits.
//
// A Builder owns the nodes it creates and mutates them directly instead of
// copying, which makes appending amortized O(1). Nodes shared with vectors
// that were already published (the seed passed to BuilderFrom, or earlier
// results of Vector) are copied before the first edit, so published vectors
// never change.
//
// A Builder is not safe for concurrent use.
//
// Example:
//
//	b := pvec.NewBuilder[string]()
//	_ = b.Append("a")
//	_ = b.Append("b")
//	v := b.Vector() // Vector<[a b]>
type Builder[T any] struct {
	t   trie.Trie[T]
	own *trie.Owner
}

// NewBuilder returns a builder starting from the empty vector.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{own: trie.NewOwner()}
}

// BuilderFrom returns a builder seeded with the contents of v.
func BuilderFrom[T any](v *Vector[T]) *Builder[T] {
	return &Builder[T]{t: v.trie(), own: trie.NewOwner()}
}

// Append stores value at Size() and grows the declared size by one. It fails
// like Vector.Append once Size() reaches math.MaxInt.
func (b *Builder[T]) Append(value T) error {
	if b.t.Size() == math.MaxInt {
		return indexTooLarge("append", b.t.Size(), b.t.Size())
	}
	b.t = b.t.Set(b.t.Size(), value, b.own)
	return nil
}

// Put stores value at index with the same rules as Vector.Put.
func (b *Builder[T]) Put(index int, value T) error {
	i, ok := normalize(index, b.t.Size())
	if !ok {
		return negativeIndex("put", index, b.t.Size())
	}
	if i == math.MaxInt {
		return indexTooLarge("put", index, b.t.Size())
	}
	b.t = b.t.Set(i, value, b.own)
	return nil
}

// Delete unsets the slot at index; out-of-range indices are ignored.
func (b *Builder[T]) Delete(index int) {
	if i, ok := normalize(index, b.t.Size()); ok {
		b.t = b.t.Unset(i, b.own)
	}
}

// Grow extends the declared size to at least n. New slots are unset.
func (b *Builder[T]) Grow(n int) {
	b.t = b.t.Grow(n)
}

// Size returns the declared size accumulated so far.
func (b *Builder[T]) Size() int {
	return b.t.Size()
}

// Count returns the number of populated slots accumulated so far.
func (b *Builder[T]) Count() int {
	return b.t.Count()
}

// Vector returns the accumulated vector. The builder stays usable; later
// edits do not affect the returned vector.
func (b *Builder[T]) Vector() *Vector[T] {
	v := &Vector[T]{t: b.t}
	// Retire the ownership token so that nodes reachable from v are copied
	// on the next edit.
	b.own = trie.NewOwner()
	return v
}
