package trie

// Trie is an immutable sparse array of slots.
//
// The zero value is an empty trie with size 0. Size is the declared length;
// indices in [0, Size) that were never written read as unset.
type Trie[T any] struct {
	root  node[T] // nil when no slot is populated
	shift uint    // shift of the root level; 0 means the root is a leaf
	size  int     // declared size
}

// New returns an empty trie with the given declared size.
// The caller guarantees size >= 0.
func New[T any](size int) Trie[T] {
	return Trie[T]{size: size}
}

// covers reports whether a root at the given shift can address index i.
func covers(i int, shift uint) bool {
	return i>>shift < nodeSize
}

func shiftFor(i int) uint {
	var shift uint
	for !covers(i, shift) {
		shift += nodeBits
	}
	return shift
}

// Size returns the declared size.
func (t Trie[T]) Size() int {
	return t.size
}

// Count returns the number of populated slots.
func (t Trie[T]) Count() int {
	if t.root == nil {
		return 0
	}
	return t.root.count()
}

// Depth returns the number of levels below the root.
func (t Trie[T]) Depth() int {
	if t.root == nil {
		return 0
	}
	return int(t.shift / nodeBits)
}

// Get returns the value at i. ok is false when i is outside [0, Size) or the
// slot is unset.
func (t Trie[T]) Get(i int) (v T, ok bool) {
	if i < 0 || i >= t.size || t.root == nil || !covers(i, t.shift) {
		return v, false
	}
	return t.root.get(i, t.shift)
}

// Set returns a trie with v stored at i, extending Size to i+1 when needed.
// The caller guarantees 0 <= i < math.MaxInt.
func (t Trie[T]) Set(i int, v T, own *Owner) Trie[T] {
	if i >= t.size {
		t.size = i + 1
	}

	if t.root == nil {
		t.shift = shiftFor(i)
		t.root = newPath(i, t.shift, v, own)
		return t
	}

	// Grow upwards until the root addresses i.
	for !covers(i, t.shift) {
		b := &branch[T]{own: own, pop: t.root.count()}
		b.children[0] = t.root
		t.root = b
		t.shift += nodeBits
	}

	t.root, _ = t.root.set(i, t.shift, v, own)
	return t
}

// Unset returns a trie in which slot i is unset. Size never shrinks.
func (t Trie[T]) Unset(i int, own *Owner) Trie[T] {
	if i < 0 || i >= t.size || t.root == nil || !covers(i, t.shift) {
		return t
	}
	root, removed := t.root.unset(i, t.shift, own)
	if !removed {
		return t
	}
	t.root = root
	if root == nil {
		t.shift = 0
	}
	return t
}

// Grow returns a trie whose Size is at least size. New slots are unset.
func (t Trie[T]) Grow(size int) Trie[T] {
	if size > t.size {
		t.size = size
	}
	return t
}

// Each calls yield for every populated slot in ascending index order until
// yield returns false. It reports whether the walk completed.
func (t Trie[T]) Each(yield func(int, T) bool) bool {
	if t.root == nil {
		return true
	}
	return t.root.each(0, t.shift, yield)
}

// EachReverse is Each in descending index order.
func (t Trie[T]) EachReverse(yield func(int, T) bool) bool {
	if t.root == nil {
		return true
	}
	return t.root.eachReverse(0, t.shift, yield)
}

// Map returns a trie with the same size and presence pattern in which every
// populated value is replaced by fn(index, value). Unset slots are not visited.
func Map[T, U any](t Trie[T], fn func(int, T) U) Trie[U] {
	return Trie[U]{
		root:  mapNode(t.root, 0, t.shift, fn),
		shift: t.shift,
		size:  t.size,
	}
}
