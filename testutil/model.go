package testutil

// Model is a straightforward slice-backed sparse array used as ground truth
// in property tests. It is mutable and makes no attempt to be efficient.
type Model[T any] struct {
	values  []T
	present []bool
}

// NewModel returns a model with size slots, all unset.
func NewModel[T any](size int) *Model[T] {
	return &Model[T]{
		values:  make([]T, size),
		present: make([]bool, size),
	}
}

// Size returns the declared size.
func (m *Model[T]) Size() int { return len(m.values) }

// Count returns the number of populated slots.
func (m *Model[T]) Count() int {
	n := 0
	for _, p := range m.present {
		if p {
			n++
		}
	}
	return n
}

func (m *Model[T]) normalize(index int) (int, bool) {
	if index < 0 {
		index += len(m.values)
	}
	return index, index >= 0
}

// Get returns the value at index using end-relative normalization.
func (m *Model[T]) Get(index int) (T, bool) {
	var zero T
	i, ok := m.normalize(index)
	if !ok || i >= len(m.values) || !m.present[i] {
		return zero, false
	}
	return m.values[i], true
}

// Put stores v at index, growing the model as needed. It reports false for an
// index that is still negative after normalization.
func (m *Model[T]) Put(index int, v T) bool {
	i, ok := m.normalize(index)
	if !ok {
		return false
	}
	for len(m.values) <= i {
		var zero T
		m.values = append(m.values, zero)
		m.present = append(m.present, false)
	}
	m.values[i] = v
	m.present[i] = true
	return true
}

// Delete unsets the slot at index; out-of-range indices are ignored.
func (m *Model[T]) Delete(index int) {
	i, ok := m.normalize(index)
	if !ok || i >= len(m.values) {
		return
	}
	var zero T
	m.values[i] = zero
	m.present[i] = false
}

// Append stores v at Size().
func (m *Model[T]) Append(v T) {
	m.Put(len(m.values), v)
}

// Dense returns the populated values in index order.
func (m *Model[T]) Dense() []T {
	out := make([]T, 0, len(m.values))
	for i, p := range m.present {
		if p {
			out = append(out, m.values[i])
		}
	}
	return out
}

// Indices returns the populated indices in ascending order.
func (m *Model[T]) Indices() []int {
	var out []int
	for i, p := range m.present {
		if p {
			out = append(out, i)
		}
	}
	return out
}
