package trie

import "math/bits"

const (
	// nodeBits is the number of index bits consumed per level.
	// 5 bits = 32 children per branch, 32 slots per leaf.
	nodeBits = 5
	nodeSize = 1 << nodeBits
	nodeMask = nodeSize - 1
)

// Owner identifies a transient editing session.
// Nodes created under an owner may be mutated in place by that owner.
type Owner struct {
	_ int // non-zero size so that every Owner has a distinct address
}

// NewOwner returns a fresh ownership token.
func NewOwner() *Owner {
	return &Owner{}
}

type node[T any] interface {
	// count returns the number of populated slots in the subtree.
	count() int
	get(i int, shift uint) (T, bool)
	// set stores v at i and reports whether a previously unset slot was filled.
	set(i int, shift uint, v T, own *Owner) (node[T], bool)
	// unset clears i and reports whether a populated slot was removed.
	// A nil node is returned when the subtree becomes empty.
	unset(i int, shift uint, own *Owner) (node[T], bool)
	each(base int, shift uint, yield func(int, T) bool) bool
	eachReverse(base int, shift uint, yield func(int, T) bool) bool
}

// leaf holds nodeSize slots and their presence mask.
type leaf[T any] struct {
	own     *Owner
	present uint32
	values  [nodeSize]T
}

// branch holds nodeSize children; nil children are empty subtrees.
type branch[T any] struct {
	own      *Owner
	pop      int
	children [nodeSize]node[T]
}

// newPath builds a fresh chain of nodes from shift down to the leaf holding i.
func newPath[T any](i int, shift uint, v T, own *Owner) node[T] {
	if shift == 0 {
		off := i & nodeMask
		n := &leaf[T]{own: own, present: 1 << uint(off)}
		n.values[off] = v
		return n
	}
	n := &branch[T]{own: own, pop: 1}
	n.children[(i>>shift)&nodeMask] = newPath(i, shift-nodeBits, v, own)
	return n
}

func (n *leaf[T]) editable(own *Owner) *leaf[T] {
	if own != nil && n.own == own {
		return n
	}
	c := *n
	c.own = own
	return &c
}

func (n *leaf[T]) count() int {
	return bits.OnesCount32(n.present)
}

func (n *leaf[T]) get(i int, _ uint) (T, bool) {
	off := uint(i & nodeMask)
	if n.present&(1<<off) == 0 {
		var zero T
		return zero, false
	}
	return n.values[off], true
}

func (n *leaf[T]) set(i int, _ uint, v T, own *Owner) (node[T], bool) {
	off := uint(i & nodeMask)
	added := n.present&(1<<off) == 0
	m := n.editable(own)
	m.values[off] = v
	m.present |= 1 << off
	return m, added
}

func (n *leaf[T]) unset(i int, _ uint, own *Owner) (node[T], bool) {
	off := uint(i & nodeMask)
	bit := uint32(1) << off
	if n.present&bit == 0 {
		return n, false
	}
	if n.present == bit {
		return nil, true
	}
	m := n.editable(own)
	var zero T
	m.values[off] = zero // release the reference
	m.present &^= bit
	return m, true
}

func (n *leaf[T]) each(base int, _ uint, yield func(int, T) bool) bool {
	for p := n.present; p != 0; p &= p - 1 {
		off := bits.TrailingZeros32(p)
		if !yield(base+off, n.values[off]) {
			return false
		}
	}
	return true
}

func (n *leaf[T]) eachReverse(base int, _ uint, yield func(int, T) bool) bool {
	for p := n.present; p != 0; {
		off := 31 - bits.LeadingZeros32(p)
		if !yield(base+off, n.values[off]) {
			return false
		}
		p &^= 1 << uint(off)
	}
	return true
}

func (n *branch[T]) editable(own *Owner) *branch[T] {
	if own != nil && n.own == own {
		return n
	}
	c := *n
	c.own = own
	return &c
}

func (n *branch[T]) count() int {
	return n.pop
}

func (n *branch[T]) get(i int, shift uint) (T, bool) {
	c := n.children[(i>>shift)&nodeMask]
	if c == nil {
		var zero T
		return zero, false
	}
	return c.get(i, shift-nodeBits)
}

func (n *branch[T]) set(i int, shift uint, v T, own *Owner) (node[T], bool) {
	idx := (i >> shift) & nodeMask

	var (
		next  node[T]
		added bool
	)
	if c := n.children[idx]; c != nil {
		next, added = c.set(i, shift-nodeBits, v, own)
	} else {
		next, added = newPath(i, shift-nodeBits, v, own), true
	}

	m := n.editable(own)
	m.children[idx] = next
	if added {
		m.pop++
	}
	return m, added
}

func (n *branch[T]) unset(i int, shift uint, own *Owner) (node[T], bool) {
	idx := (i >> shift) & nodeMask
	c := n.children[idx]
	if c == nil {
		return n, false
	}
	next, removed := c.unset(i, shift-nodeBits, own)
	if !removed {
		return n, false
	}
	if n.pop == 1 {
		return nil, true
	}
	m := n.editable(own)
	m.children[idx] = next
	m.pop--
	return m, true
}

func (n *branch[T]) each(base int, shift uint, yield func(int, T) bool) bool {
	for idx, c := range n.children {
		if c == nil {
			continue
		}
		if !c.each(base+idx<<shift, shift-nodeBits, yield) {
			return false
		}
	}
	return true
}

func (n *branch[T]) eachReverse(base int, shift uint, yield func(int, T) bool) bool {
	for idx := nodeSize - 1; idx >= 0; idx-- {
		c := n.children[idx]
		if c == nil {
			continue
		}
		if !c.eachReverse(base+idx<<shift, shift-nodeBits, yield) {
			return false
		}
	}
	return true
}

// mapNode rebuilds a subtree with the same shape, transforming every value.
func mapNode[T, U any](n node[T], base int, shift uint, fn func(int, T) U) node[U] {
	switch n := n.(type) {
	case *leaf[T]:
		m := &leaf[U]{present: n.present}
		for p := n.present; p != 0; p &= p - 1 {
			off := bits.TrailingZeros32(p)
			m.values[off] = fn(base+off, n.values[off])
		}
		return m
	case *branch[T]:
		m := &branch[U]{pop: n.pop}
		for idx, c := range n.children {
			if c != nil {
				m.children[idx] = mapNode(c, base+idx<<shift, shift-nodeBits, fn)
			}
		}
		return m
	default:
		return nil
	}
}
