// Package testutil provides testing utilities for pvec.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	idx := rng.SparseIndices(1_000_000, 100) // 100 distinct sorted indices
//	ops := rng.Ops(500, 64)                  // put/delete/append mix
//
// # Ground Truth
//
// Model is a slice-backed sparse array with the same indexing rules as
// pvec.Vector. Apply the same operations to both and compare:
//
//	m := testutil.NewModel[int](0)
//	m.Put(3, 42)
//	m.Dense() // [42]
package testutil
