// Package pvec provides persistent sparse vectors for Go.
//
// A Vector is an immutable, ordered, randomly indexable container with
// logarithmic-time indexed reads and writes. Each slot in [0, Size()) is
// either populated or unset, so a vector can be pre-sized without storing
// anything and filled in any order.
//
// # Quick Start
//
//	v := pvec.FromSlice([]int{1, 2, 3})
//	v, _ = v.Put(3, 99)          // Vector<[1 2 3 99]>
//	x, ok := v.Get(-1)           // 99, true
//	v = v.Delete(0)              // Vector<[2 3 99]>, Size() still 4
//
//	sparse, _ := pvec.WithCapacity[string](100)
//	sparse, _ = sparse.Put(39, "hi")
//	sparse.Count()               // 1
//	sparse.Size()                // 100
//
// # Persistence
//
// Every "mutating" method returns a new vector and leaves the receiver
// untouched. Unchanged parts of the underlying trie are shared between
// versions, so an update costs O(log n) time and memory. Vectors are safe for
// concurrent reads without locking.
//
// # Declared size versus count
//
// Size() is the declared length, including unset slots. Count() is the number
// of populated slots. Writes beyond Size() extend it; Delete never shrinks it.
// Reverse packs the populated values densely, so its result has
// Size() == Count().
//
// # Errors
//
// Get, Delete, PopAt and the bulk operations never fail. MustGet and
// MustUpdate return an error matching ErrOutOfBounds for unset slots. Put
// returns an error matching ErrInvalidArgument for an index that is still
// negative after end-relative normalization.
//
// # Storage
//
// The snapshot package serializes vectors into a compact, checksummed binary
// format; the repository package stores versioned snapshots in any
// blobstore.Store (local disk, memory, S3, MinIO).
package pvec
