package pvec

import "iter"

// All returns an iterator over (index, value) pairs of the populated slots in
// ascending index order. The iterator is finite and can be restarted.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	t := v.trie()
	return func(yield func(int, T) bool) {
		t.Each(yield)
	}
}

// Values returns an iterator over the populated values in index order.
func (v *Vector[T]) Values() iter.Seq[T] {
	t := v.trie()
	return func(yield func(T) bool) {
		t.Each(func(_ int, value T) bool {
			return yield(value)
		})
	}
}

// Backward returns an iterator over (index, value) pairs of the populated
// slots in descending index order.
func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	t := v.trie()
	return func(yield func(int, T) bool) {
		t.EachReverse(yield)
	}
}
