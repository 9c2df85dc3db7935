// Package blobstoretest provides a conformance suite for blobstore.Store
// implementations.
package blobstoretest

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/hupe1980/pvec/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises store through the full Store contract. The store must be
// empty below the names it uses ("conformance/...").
func Run(t *testing.T, store blobstore.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("PutOpen", func(t *testing.T) {
		data := []byte("hello world, this is a pvec blob")
		require.NoError(t, store.Put(ctx, "conformance/a/blob-1", data))

		blob, err := store.Open(ctx, "conformance/a/blob-1")
		require.NoError(t, err)
		defer blob.Close()

		assert.Equal(t, int64(len(data)), blob.Size())

		buf := make([]byte, 5)
		n, err := blob.ReadAt(ctx, buf, 6)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "world", string(buf))

		rc, err := blob.ReadRange(ctx, 0, 5)
		require.NoError(t, err)
		part, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "hello", string(part))

		all, err := blobstore.ReadAll(ctx, blob)
		require.NoError(t, err)
		assert.Equal(t, data, all)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "conformance/a/blob-2", []byte("old")))
		require.NoError(t, store.Put(ctx, "conformance/a/blob-2", []byte("newer")))

		got, err := blobstore.Get(ctx, store, "conformance/a/blob-2")
		require.NoError(t, err)
		assert.Equal(t, "newer", string(got))
	})

	t.Run("Empty", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "conformance/empty", nil))

		got, err := blobstore.Get(ctx, store, "conformance/empty")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Open(ctx, "conformance/missing")
		assert.True(t, errors.Is(err, blobstore.ErrNotFound), "got %v", err)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "conformance/b/2", []byte("2")))
		require.NoError(t, store.Put(ctx, "conformance/b/1", []byte("1")))

		names, err := store.List(ctx, "conformance/b/")
		require.NoError(t, err)
		assert.Equal(t, []string{"conformance/b/1", "conformance/b/2"}, names)

		names, err = store.List(ctx, "conformance/none/")
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "conformance/c", []byte("x")))
		require.NoError(t, store.Delete(ctx, "conformance/c"))
		require.NoError(t, store.Delete(ctx, "conformance/c"), "deleting twice is not an error")

		_, err := store.Open(ctx, "conformance/c")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}

// RunExclusive exercises the ExclusivePutter contract.
func RunExclusive(t *testing.T, store blobstore.ExclusivePutter) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.PutIfNotExists(ctx, "conformance/excl", []byte("first")))

	err := store.PutIfNotExists(ctx, "conformance/excl", []byte("second"))
	assert.True(t, errors.Is(err, blobstore.ErrExists), "got %v", err)

	if s, ok := store.(blobstore.Store); ok {
		got, err := blobstore.Get(ctx, s, "conformance/excl")
		require.NoError(t, err)
		assert.Equal(t, "first", string(got))
	}
}
