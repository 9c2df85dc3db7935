package pvec

import (
	"slices"

	"github.com/hupe1980/pvec/internal/trie"
)

// ToSlice returns the populated values in index order. Unset slots are
// skipped, not materialized.
func (v *Vector[T]) ToSlice() []T {
	t := v.trie()
	out := make([]T, 0, t.Count())
	t.Each(func(_ int, value T) bool {
		out = append(out, value)
		return true
	})
	return out
}

// ContainsFunc reports whether some populated slot satisfies pred.
func (v *Vector[T]) ContainsFunc(pred func(T) bool) bool {
	return !v.trie().Each(func(_ int, value T) bool {
		return !pred(value)
	})
}

// Contains reports whether some populated slot equals x.
func Contains[T comparable](v *Vector[T], x T) bool {
	return v.ContainsFunc(func(value T) bool { return value == x })
}

// Equal reports whether a and b hold the same populated values in the same
// order. Declared sizes and the positions of unset slots are ignored.
func Equal[T comparable](a, b *Vector[T]) bool {
	if a.Count() != b.Count() {
		return false
	}
	return slices.Equal(a.ToSlice(), b.ToSlice())
}

// Reverse returns a vector holding the populated values in reverse order,
// packed densely from index 0. The result's Size equals v.Count(), so sparse
// inputs do not round-trip their declared size.
func (v *Vector[T]) Reverse() *Vector[T] {
	b := NewBuilder[T]()
	v.trie().EachReverse(func(_ int, value T) bool {
		_ = b.Append(value)
		return true
	})
	return b.Vector()
}

// Fold reduces the populated slots of v from left to right in ascending index
// order. Unset slots are not visited.
func Fold[T, A any](v *Vector[T], initial A, fn func(index int, value T, acc A) A) A {
	acc := initial
	v.trie().Each(func(i int, value T) bool {
		acc = fn(i, value, acc)
		return true
	})
	return acc
}

// Map returns a vector in which every populated value is replaced by
// fn(index, value). Size and the set of populated indices are preserved.
func (v *Vector[T]) Map(fn func(index int, value T) T) *Vector[T] {
	return MapTo(v, fn)
}

// MapTo is Map with a result of a different element type.
func MapTo[T, U any](v *Vector[T], fn func(index int, value T) U) *Vector[U] {
	return &Vector[U]{t: trie.Map(v.trie(), fn)}
}
