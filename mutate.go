package pvec

import "math"

// Put returns a vector with value stored at index.
//
// Negative indices are normalized as in Get; an index that is still negative
// fails with ErrInvalidArgument. Writing at or beyond Size() extends the
// declared size to index+1, leaving the slots in between unset.
func (v *Vector[T]) Put(index int, value T) (*Vector[T], error) {
	t := v.trie()
	i, ok := normalize(index, t.Size())
	if !ok {
		return nil, negativeIndex("put", index, t.Size())
	}
	if i == math.MaxInt {
		return nil, indexTooLarge("put", index, t.Size())
	}
	return &Vector[T]{t: t.Set(i, value, nil)}, nil
}

// Delete returns a vector in which the slot at index is unset.
// Out-of-range indices are a no-op. The declared size never shrinks.
func (v *Vector[T]) Delete(index int) *Vector[T] {
	t := v.trie()
	if i, ok := normalize(index, t.Size()); ok {
		t = t.Unset(i, nil)
	}
	return &Vector[T]{t: t}
}

// Update stores fn(current) at index when the slot is populated, and initial
// otherwise. It fails only where Put fails.
func (v *Vector[T]) Update(index int, initial T, fn func(T) T) (*Vector[T], error) {
	if cur, ok := v.Get(index); ok {
		return v.Put(index, fn(cur))
	}
	return v.Put(index, initial)
}

// MustUpdate is like Update but returns an error matching ErrOutOfBounds
// instead of inserting a value when the slot is unset.
func (v *Vector[T]) MustUpdate(index int, fn func(T) T) (*Vector[T], error) {
	cur, ok := v.Get(index)
	if !ok {
		return nil, outOfBounds("update", index, v.Size())
	}
	return v.Put(index, fn(cur))
}

// GetAndUpdate reads and replaces a slot in one step.
//
// fn receives the current value, or def when the slot is unset. When fn
// reports pop, the slot is deleted and the value fn received is returned.
// Otherwise the slot is set to next and ret is returned.
func (v *Vector[T]) GetAndUpdate(index int, def T, fn func(current T) (ret, next T, pop bool)) (T, *Vector[T], error) {
	cur, ok := v.Get(index)
	if !ok {
		cur = def
	}

	ret, next, pop := fn(cur)
	if pop {
		return cur, v.Delete(index), nil
	}

	nv, err := v.Put(index, next)
	if err != nil {
		var zero T
		return zero, nil, err
	}
	return ret, nv, nil
}

// PopAt returns the value at index (or def) together with a vector in which
// that slot is unset.
func (v *Vector[T]) PopAt(index int, def T) (T, *Vector[T]) {
	return v.GetOr(index, def), v.Delete(index)
}

// Append returns a vector with value stored at Size(); the declared size grows
// by exactly one. It fails with ErrInvalidArgument when Size() is already
// math.MaxInt.
func (v *Vector[T]) Append(value T) (*Vector[T], error) {
	t := v.trie()
	if t.Size() == math.MaxInt {
		return nil, indexTooLarge("append", t.Size(), t.Size())
	}
	return &Vector[T]{t: t.Set(t.Size(), value, nil)}, nil
}
