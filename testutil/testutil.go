package testutil

import (
	"math/rand"
	"sort"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Ints returns n pseudo-random integers in [0, maxVal).
func (r *RNG) Ints(n, maxVal int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, n)
	for i := range out {
		out[i] = r.rand.Intn(maxVal)
	}
	return out
}

const letters = "abcdefghijklmnopqrstuvwxyz"

// Strings returns n pseudo-random lowercase strings of the given length.
func (r *RNG) Strings(n, length int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, n)
	buf := make([]byte, length)
	for i := range out {
		for j := range buf {
			buf[j] = letters[r.rand.Intn(len(letters))]
		}
		out[i] = string(buf)
	}
	return out
}

// Presence returns a presence pattern of length n.
// density is the probability that a slot is populated (0.3 = 30% populated).
func (r *RNG) Presence(n int, density float64) []bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	present := make([]bool, n)
	for i := range n {
		present[i] = r.rand.Float64() < density
	}
	return present
}

// SparseIndices returns count distinct indices in [0, size), sorted ascending.
// If count >= size, every index is returned.
func (r *RNG) SparseIndices(size, count int) []int {
	if count >= size {
		all := make([]int, size)
		for i := range all {
			all[i] = i
		}
		return all
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[int]struct{}, count)
	out := make([]int, 0, count)
	for len(out) < count {
		i := r.rand.Intn(size)
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// OpKind enumerates the operations produced by Ops.
type OpKind int

const (
	OpPut OpKind = iota
	OpDelete
	OpAppend
)

// Op is a single randomized vector operation.
type Op struct {
	Kind  OpKind
	Index int
	Value int
}

// Ops returns n pseudo-random operations with indices in [-span, span).
// Negative indices exercise end-relative addressing.
func (r *RNG) Ops(n, span int) []Op {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make([]Op, n)
	for i := range ops {
		ops[i] = Op{
			Kind:  OpKind(r.rand.Intn(3)),
			Index: r.rand.Intn(2*span) - span,
			Value: r.rand.Int(),
		}
	}
	return ops
}
