package repository_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/pvec"
	"github.com/hupe1980/pvec/blobstore"
	"github.com/hupe1980/pvec/codec"
	"github.com/hupe1980/pvec/repository"
	"github.com/hupe1980/pvec/resource"
	"github.com/hupe1980/pvec/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts Open calls.
type countingStore struct {
	*blobstore.MemoryStore
	opens atomic.Int64
}

func (s *countingStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	s.opens.Add(1)
	return s.MemoryStore.Open(ctx, name)
}

// plainStore hides the ExclusivePutter implementation.
type plainStore struct {
	blobstore.Store
}

// staleListStore always lists nothing, like a lagging replica.
type staleListStore struct {
	*blobstore.MemoryStore
}

func (staleListStore) List(context.Context, string) ([]string, error) {
	return nil, nil
}

// takenStore reports every exclusive write as a conflict.
type takenStore struct {
	*blobstore.MemoryStore
	puts atomic.Int64
}

func (s *takenStore) PutIfNotExists(context.Context, string, []byte) error {
	s.puts.Add(1)
	return blobstore.ErrExists
}

func sample(t *testing.T) *pvec.Vector[string] {
	t.Helper()

	v, err := pvec.WithCapacity[string](1000)
	require.NoError(t, err)
	for _, i := range []int{0, 7, 42, 999} {
		v, err = v.Put(i, fmt.Sprintf("v%d", i))
		require.NoError(t, err)
	}
	return v
}

func stores(t *testing.T) map[string]blobstore.Store {
	return map[string]blobstore.Store{
		"Memory": blobstore.NewMemoryStore(),
		"Local":  blobstore.NewLocalStore(t.TempDir()),
		"Plain":  plainStore{blobstore.NewMemoryStore()},
	}
}

func TestRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			repo := repository.New[string](store)
			v := sample(t)

			version, err := repo.Save(ctx, "users", v)
			require.NoError(t, err)
			assert.Equal(t, uint64(1), version)

			got, err := repo.Load(ctx, "users")
			require.NoError(t, err)
			assert.True(t, pvec.Equal(v, got))
			assert.Equal(t, 1000, got.Size())
			assert.Equal(t, 4, got.Count())

			v2, err := v.Append("tail")
			require.NoError(t, err)
			version, err = repo.Save(ctx, "users", v2)
			require.NoError(t, err)
			assert.Equal(t, uint64(2), version)

			versions, err := repo.Versions(ctx, "users")
			require.NoError(t, err)
			assert.Equal(t, []uint64{1, 2}, versions)

			latest, err := repo.Load(ctx, "users")
			require.NoError(t, err)
			assert.True(t, pvec.Equal(v2, latest))

			old, err := repo.LoadVersion(ctx, "users", 1)
			require.NoError(t, err)
			assert.True(t, pvec.Equal(v, old))
		})
	}
}

func TestRepository_KeyLayout(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	repo := repository.New[int](store)
	_, err := repo.Save(ctx, "a", pvec.FromSlice([]int{1}))
	require.NoError(t, err)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"vectors/a/00000000000000000001.pvec"}, names)

	custom := repository.New[int](store, repository.WithPrefix(""))
	_, err = custom.Save(ctx, "b", pvec.FromSlice([]int{1}))
	require.NoError(t, err)

	names, err = store.List(ctx, "b/")
	require.NoError(t, err)
	assert.Equal(t, []string{"b/00000000000000000001.pvec"}, names)
}

func TestRepository_IgnoresForeignKeys(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "vectors/a/README", []byte("x")))
	require.NoError(t, store.Put(ctx, "vectors/a/1.pvec", []byte("x")))

	repo := repository.New[int](store)
	versions, err := repo.Versions(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestRepository_Errors(t *testing.T) {
	ctx := context.Background()
	repo := repository.New[int](blobstore.NewMemoryStore())

	t.Run("NoVersions", func(t *testing.T) {
		_, err := repo.Load(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNoVersions)

		_, err = repo.Latest(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNoVersions)
	})

	t.Run("MissingVersion", func(t *testing.T) {
		_, err := repo.Save(ctx, "x", pvec.FromSlice([]int{1}))
		require.NoError(t, err)

		_, err = repo.LoadVersion(ctx, "x", 9)
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("InvalidName", func(t *testing.T) {
		for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
			_, err := repo.Save(ctx, name, pvec.New[int]())
			assert.ErrorIs(t, err, repository.ErrInvalidName, "name %q", name)
		}
		_, err := repo.Versions(ctx, "a/b")
		assert.ErrorIs(t, err, repository.ErrInvalidName)
	})

	t.Run("Corrupt", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		require.NoError(t, store.Put(ctx, "vectors/bad/00000000000000000001.pvec", []byte("garbage")))

		_, err := repository.New[int](store).Load(ctx, "bad")
		assert.ErrorIs(t, err, snapshot.ErrInvalidMagic)
	})
}

func TestRepository_Cache(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryStore: blobstore.NewMemoryStore()}
	metrics := &pvec.BasicMetricsCollector{}

	repo := repository.New[string](store, repository.WithMetricsCollector(metrics))
	_, err := repo.Save(ctx, "users", sample(t))
	require.NoError(t, err)

	// Save populates the cache.
	for range 3 {
		_, err := repo.Load(ctx, "users")
		require.NoError(t, err)
	}
	assert.Zero(t, store.opens.Load())

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.SaveCount)
	assert.Equal(t, int64(3), stats.LoadCount)
	assert.Equal(t, int64(3), stats.LoadCacheHits)

	hits, _ := repo.CacheStats()
	assert.Equal(t, int64(3), hits)

	repo.Purge()
	_, err = repo.Load(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, int64(1), store.opens.Load())
}

func TestRepository_CacheDisabled(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryStore: blobstore.NewMemoryStore()}

	repo := repository.New[string](store, repository.WithCacheSize(0))
	_, err := repo.Save(ctx, "users", sample(t))
	require.NoError(t, err)

	for range 2 {
		_, err := repo.Load(ctx, "users")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), store.opens.Load())
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	metrics := &pvec.BasicMetricsCollector{}
	repo := repository.New[int](store, repository.WithMetricsCollector(metrics))

	for i := range 3 {
		_, err := repo.Save(ctx, "a", pvec.FromSlice([]int{i}))
		require.NoError(t, err)
	}
	_, err := repo.Save(ctx, "ab", pvec.FromSlice([]int{9}))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "a"))

	_, err = repo.Load(ctx, "a")
	assert.ErrorIs(t, err, repository.ErrNoVersions)

	// Names sharing a prefix are untouched.
	got, err := repo.Load(ctx, "ab")
	require.NoError(t, err)
	assert.Equal(t, []int{9}, got.ToSlice())

	require.NoError(t, repo.Delete(ctx, "never-saved"))
	assert.Equal(t, int64(2), metrics.GetStats().DeleteCount)
}

func TestRepository_Prune(t *testing.T) {
	ctx := context.Background()
	repo := repository.New[int](blobstore.NewMemoryStore())

	for i := range 5 {
		_, err := repo.Save(ctx, "a", pvec.FromSlice([]int{i}))
		require.NoError(t, err)
	}

	removed, err := repo.Prune(ctx, "a", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	versions, err := repo.Versions(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 5}, versions)

	_, err = repo.LoadVersion(ctx, "a", 1)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	removed, err = repo.Prune(ctx, "a", 2)
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = repo.Prune(ctx, "a", 0)
	assert.Error(t, err)

	// Numbering continues after pruned versions.
	version, err := repo.Save(ctx, "a", pvec.New[int]())
	require.NoError(t, err)
	assert.Equal(t, uint64(6), version)
}

func TestRepository_LoadMany(t *testing.T) {
	ctx := context.Background()
	repo := repository.New[int](blobstore.NewMemoryStore(), repository.WithConcurrency(2))

	names := []string{"a", "b", "c", "d", "e"}
	for i, name := range names {
		_, err := repo.Save(ctx, name, pvec.FromSlice([]int{i}))
		require.NoError(t, err)
	}

	got, err := repo.LoadMany(ctx, names...)
	require.NoError(t, err)
	require.Len(t, got, len(names))
	for i, v := range got {
		assert.Equal(t, []int{i}, v.ToSlice())
	}

	_, err = repo.LoadMany(ctx, "a", "missing")
	assert.ErrorIs(t, err, repository.ErrNoVersions)

	got, err = repo.LoadMany(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepository_VersionRace(t *testing.T) {
	ctx := context.Background()
	store := staleListStore{blobstore.NewMemoryStore()}
	repo := repository.New[int](store)

	v1, err := repo.Save(ctx, "a", pvec.FromSlice([]int{1}))
	require.NoError(t, err)
	v2, err := repo.Save(ctx, "a", pvec.FromSlice([]int{2}))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), v1)
	assert.Equal(t, uint64(2), v2)

	got, err := repo.LoadVersion(ctx, "a", 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got.ToSlice())
}

func TestRepository_ConcurrentSave(t *testing.T) {
	ctx := context.Background()
	repo := repository.New[int](blobstore.NewMemoryStore())

	const n = 16
	versions := make([]uint64, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repo.Save(ctx, "a", pvec.FromSlice([]int{i}))
			assert.NoError(t, err)
			versions[i] = v
		}()
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	for _, v := range versions {
		assert.False(t, seen[v], "version %d assigned twice", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)
}

func TestRepository_ConcurrentSaveAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	// Separate repositories share only the store, like separate processes.
	const instances, perInstance = 8, 12
	versions := make([][]uint64, instances)
	var wg sync.WaitGroup
	for i := range instances {
		repo := repository.New[int](store)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range perInstance {
				v, err := repo.Save(ctx, "a", pvec.FromSlice([]int{i, j}))
				if !assert.NoError(t, err) {
					return
				}
				versions[i] = append(versions[i], v)
			}
		}()
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	for _, vs := range versions {
		require.Len(t, vs, perInstance)
		for _, v := range vs {
			assert.False(t, seen[v], "version %d assigned twice", v)
			seen[v] = true
		}
	}
	assert.Len(t, seen, instances*perInstance)

	listed, err := repository.New[int](store).Versions(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, listed, instances*perInstance)
}

func TestRepository_SaveConflictGivesUp(t *testing.T) {
	ctx := context.Background()

	t.Run("VersionConflict", func(t *testing.T) {
		store := &takenStore{MemoryStore: blobstore.NewMemoryStore()}
		repo := repository.New[int](store)

		_, err := repo.Save(ctx, "a", pvec.FromSlice([]int{1}))
		require.ErrorIs(t, err, repository.ErrVersionConflict)
		assert.Greater(t, store.puts.Load(), int64(8))
	})

	t.Run("ContextCanceledDuringBackoff", func(t *testing.T) {
		store := &takenStore{MemoryStore: blobstore.NewMemoryStore()}
		repo := repository.New[int](store)

		ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err := repo.Save(ctx, "a", pvec.FromSlice([]int{1}))
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestRepository_Options(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	repo := repository.New[string](store,
		repository.WithCodec(codec.JSON{}),
		repository.WithCompression(snapshot.CompressionZstd),
	)
	_, err := repo.Save(ctx, "users", sample(t))
	require.NoError(t, err)

	data, err := blobstore.Get(ctx, store, "vectors/users/00000000000000000001.pvec")
	require.NoError(t, err)

	h, err := snapshot.Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, "json", h.Codec)
	assert.Equal(t, snapshot.CompressionZstd, h.Compression)
	assert.Equal(t, 1000, h.Size)
	assert.Equal(t, 4, h.Count)
}

func TestRepository_ResourceController(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   1 << 20,
		MaxConcurrentIO:    1,
		IOLimitBytesPerSec: 1 << 20,
	})

	repo := repository.New[string](blobstore.NewLocalStore(t.TempDir()),
		repository.WithResourceController(rc),
		repository.WithCacheSize(0),
	)
	_, err := repo.Save(ctx, "users", sample(t))
	require.NoError(t, err)

	got, err := repo.Load(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Count())
	assert.Zero(t, rc.MemoryUsage())

	cached := repository.New[string](blobstore.NewMemoryStore(), repository.WithResourceController(rc))
	_, err = cached.Save(ctx, "users", sample(t))
	require.NoError(t, err)
	assert.Positive(t, rc.MemoryUsage())

	cached.Purge()
	assert.Zero(t, rc.MemoryUsage())
}

func TestRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := repository.New[int](blobstore.NewMemoryStore())
	_, err := repo.Save(ctx, "a", pvec.FromSlice([]int{1}))
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestRepository_Logging(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := pvec.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	repo := repository.New[int](blobstore.NewMemoryStore(), repository.WithLogger(logger))
	_, err := repo.Save(ctx, "a", pvec.FromSlice([]int{1}))
	require.NoError(t, err)
	_, err = repo.Load(ctx, "missing")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"snapshot saved"`)
	assert.Contains(t, out, `"msg":"load failed"`)
	assert.Contains(t, out, `"name":"missing"`)
}
