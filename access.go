package pvec

// Indexer is the index-based lookup protocol. *Vector satisfies it.
type Indexer[T any] interface {
	Get(index int) (T, bool)
}

var _ Indexer[int] = (*Vector[int])(nil)

// Get returns the value at index.
//
// Negative indices count back from Size(): -1 is the last slot. ok is false
// when the index is out of range after normalization or the slot is unset.
func (v *Vector[T]) Get(index int) (value T, ok bool) {
	t := v.trie()
	i, ok := normalize(index, t.Size())
	if !ok {
		return value, false
	}
	return t.Get(i)
}

// GetOr returns the value at index, or def when Get would report absence.
func (v *Vector[T]) GetOr(index int, def T) T {
	if value, ok := v.Get(index); ok {
		return value
	}
	return def
}

// MustGet is like Get but returns an error matching ErrOutOfBounds when the
// slot holds no value.
func (v *Vector[T]) MustGet(index int) (T, error) {
	value, ok := v.Get(index)
	if !ok {
		return value, outOfBounds("get", index, v.Size())
	}
	return value, nil
}

// Lookup delegates to idx.Get. It lets generic code accept any index-based
// container, vectors included.
func Lookup[T any](idx Indexer[T], index int) (T, bool) {
	return idx.Get(index)
}
