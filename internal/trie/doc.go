// Package trie implements the persistent radix trie that backs pvec vectors.
//
// The trie maps non-negative integer indices to slots. Each level consumes
// 5 bits of the index (32-way fan-out), so lookups touch at most
// ceil(log32(n)) nodes.
//
// # Presence
//
// A slot is either unset or holds exactly one value. Presence is tracked with
// a 32-bit mask per leaf; values are never used as markers, so every value of T
// (including the zero value) can be stored. Nil children stand for subtrees in
// which every slot is unset, which keeps sparse tries small.
//
// # Persistence
//
// All operations return a new Trie and copy only the nodes on the path to the
// modified slot (path copying). Branches cache the number of populated slots
// beneath them, so Count is O(1).
//
// # Transient ownership
//
// Operations accept an optional *Owner. A node created under an owner records
// it, and later operations passing the same owner mutate that node in place
// instead of copying it. Nodes with a different (or nil) owner are always
// copied. Builders use this to append in amortized O(1) without ever touching
// nodes that are reachable from a published trie.
package trie
