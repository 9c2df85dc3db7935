package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/pvec"
	"github.com/hupe1980/pvec/blobstore"
	"github.com/hupe1980/pvec/internal/cache"
	"github.com/hupe1980/pvec/resource"
	"github.com/hupe1980/pvec/snapshot"
	"golang.org/x/sync/errgroup"
)

const (
	snapshotExt     = ".pvec"
	versionDigits   = 20
	maxSaveAttempts = 32

	saveBackoffBase = 2 * time.Millisecond
	saveBackoffMax  = 200 * time.Millisecond
)

// Repository stores versioned snapshots of vectors with element type T.
// It is safe for concurrent use.
type Repository[T any] struct {
	store    blobstore.Store
	opts     options
	snapOpts []snapshot.Option
	cache    *cache.LRU

	// saveMu serializes version allocation within this process. Stores that
	// implement blobstore.ExclusivePutter also detect races across
	// processes.
	saveMu sync.Mutex
}

// New creates a Repository on top of store.
func New[T any](store blobstore.Store, opts ...Option) *Repository[T] {
	o := buildOptions(opts)
	return &Repository[T]{
		store: store,
		opts:  o,
		snapOpts: []snapshot.Option{
			snapshot.WithCodec(o.codec),
			snapshot.WithCompression(o.compression),
		},
		cache: cache.NewLRU(o.cacheSize, o.rc),
	}
}

func (r *Repository[T]) dir(name string) string {
	return path.Join(r.opts.prefix, name) + "/"
}

func (r *Repository[T]) key(name string, version uint64) string {
	return r.dir(name) + fmt.Sprintf("%0*d", versionDigits, version) + snapshotExt
}

// Save writes v as the next version of name and returns that version.
// Versions start at 1.
func (r *Repository[T]) Save(ctx context.Context, name string, v *pvec.Vector[T]) (version uint64, err error) {
	start := time.Now()
	var data []byte
	defer func() {
		r.opts.metrics.RecordSave(time.Since(start), len(data), err)
		r.opts.logger.LogSave(ctx, name, version, v.Size(), v.Count(), len(data), err)
	}()

	if err = validateName(name); err != nil {
		return 0, err
	}
	data, err = snapshot.Marshal(v, r.snapOpts...)
	if err != nil {
		return 0, err
	}

	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	next, err := r.nextVersion(ctx, name, 0)
	if err != nil {
		return 0, err
	}

	for attempt := range maxSaveAttempts {
		key := r.key(name, next)
		err = r.put(ctx, key, data)
		if errors.Is(err, blobstore.ErrExists) {
			// Another writer took this version. Wait, then pick up whatever
			// it and others wrote in the meantime.
			if err = sleepCtx(ctx, saveBackoff(attempt)); err != nil {
				return 0, err
			}
			if next, err = r.nextVersion(ctx, name, next); err != nil {
				return 0, err
			}
			continue
		}
		if err != nil {
			return 0, err
		}
		r.cache.Set(key, data)
		return next, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrVersionConflict, name)
}

// nextVersion returns the version after the newest listed one, and never
// one at or below taken.
func (r *Repository[T]) nextVersion(ctx context.Context, name string, taken uint64) (uint64, error) {
	versions, err := r.versions(ctx, name)
	if err != nil {
		return 0, err
	}
	next := taken + 1
	if len(versions) > 0 {
		next = max(next, versions[len(versions)-1]+1)
	}
	return next, nil
}

// saveBackoff returns a jittered exponential delay for the given attempt.
func saveBackoff(attempt int) time.Duration {
	d := min(saveBackoffBase<<min(attempt, 16), saveBackoffMax)
	return d/2 + rand.N(d/2+1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Repository[T]) put(ctx context.Context, key string, data []byte) error {
	rc := r.opts.rc
	if err := rc.AcquireIOSlot(ctx); err != nil {
		return err
	}
	defer rc.ReleaseIOSlot()

	if err := rc.AcquireIO(ctx, len(data)); err != nil {
		return err
	}
	if ep, ok := r.store.(blobstore.ExclusivePutter); ok {
		return ep.PutIfNotExists(ctx, key, data)
	}
	return r.store.Put(ctx, key, data)
}

// Load returns the newest version of name.
func (r *Repository[T]) Load(ctx context.Context, name string) (*pvec.Vector[T], error) {
	start := time.Now()

	version, err := r.Latest(ctx, name)
	if err != nil {
		r.opts.metrics.RecordLoad(time.Since(start), false, err)
		r.opts.logger.LogLoad(ctx, name, 0, false, err)
		return nil, err
	}

	v, cached, err := r.load(ctx, name, version)
	r.opts.metrics.RecordLoad(time.Since(start), cached, err)
	r.opts.logger.LogLoad(ctx, name, version, cached, err)
	return v, err
}

// LoadVersion returns a specific version of name. A missing version yields
// an error matching blobstore.ErrNotFound.
func (r *Repository[T]) LoadVersion(ctx context.Context, name string, version uint64) (v *pvec.Vector[T], err error) {
	start := time.Now()
	cached := false
	defer func() {
		r.opts.metrics.RecordLoad(time.Since(start), cached, err)
		r.opts.logger.LogLoad(ctx, name, version, cached, err)
	}()

	if err = validateName(name); err != nil {
		return nil, err
	}
	v, cached, err = r.load(ctx, name, version)
	return v, err
}

func (r *Repository[T]) load(ctx context.Context, name string, version uint64) (*pvec.Vector[T], bool, error) {
	key := r.key(name, version)

	if data, ok := r.cache.Get(key); ok {
		v, err := snapshot.Unmarshal[T](data)
		return v, true, err
	}

	data, err := r.fetch(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("repository: load %s version %d: %w", name, version, err)
	}

	v, err := snapshot.Unmarshal[T](data)
	if err != nil {
		return nil, false, fmt.Errorf("repository: decode %s version %d: %w", name, version, err)
	}
	r.cache.Set(key, data)
	return v, false, nil
}

func (r *Repository[T]) fetch(ctx context.Context, key string) ([]byte, error) {
	rc := r.opts.rc
	if err := rc.AcquireIOSlot(ctx); err != nil {
		return nil, err
	}
	defer rc.ReleaseIOSlot()

	blob, err := r.store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = blob.Close() }()

	size := blob.Size()
	body, err := blob.ReadRange(ctx, 0, size)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	data := make([]byte, size)
	if _, err := io.ReadFull(resource.NewRateLimitedReader(ctx, body, rc), data); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadMany loads the newest version of each name in parallel. Results are in
// the order of names. The first error cancels the remaining loads.
func (r *Repository[T]) LoadMany(ctx context.Context, names ...string) ([]*pvec.Vector[T], error) {
	out := make([]*pvec.Vector[T], len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.concurrency)

	for i, name := range names {
		g.Go(func() error {
			v, err := r.Load(gctx, name)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Versions returns the stored versions of name in ascending order.
func (r *Repository[T]) Versions(ctx context.Context, name string) ([]uint64, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return r.versions(ctx, name)
}

// Latest returns the newest version of name, or ErrNoVersions.
func (r *Repository[T]) Latest(ctx context.Context, name string) (uint64, error) {
	versions, err := r.Versions(ctx, name)
	if err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoVersions, name)
	}
	return versions[len(versions)-1], nil
}

func (r *Repository[T]) versions(ctx context.Context, name string) ([]uint64, error) {
	dir := r.dir(name)
	keys, err := r.store.List(ctx, dir)
	if err != nil {
		return nil, err
	}

	versions := make([]uint64, 0, len(keys))
	for _, key := range keys {
		if v, ok := parseVersion(strings.TrimPrefix(key, dir)); ok {
			versions = append(versions, v)
		}
	}
	slices.Sort(versions)
	return versions, nil
}

// parseVersion parses a "<version:020d>.pvec" base name.
func parseVersion(base string) (uint64, bool) {
	digits, ok := strings.CutSuffix(base, snapshotExt)
	if !ok || len(digits) != versionDigits {
		return 0, false
	}
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Delete removes every version of name. Deleting an unknown name is not an
// error.
func (r *Repository[T]) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	var n int
	defer func() {
		r.opts.metrics.RecordDelete(time.Since(start), err)
		r.opts.logger.LogDelete(ctx, name, n, err)
	}()

	if err = validateName(name); err != nil {
		return err
	}
	versions, err := r.versions(ctx, name)
	if err != nil {
		return err
	}
	n = len(versions)
	err = r.remove(ctx, name, versions)

	dir := r.dir(name)
	r.cache.Invalidate(func(key string) bool { return strings.HasPrefix(key, dir) })
	return err
}

// Prune deletes all but the newest keep versions of name and returns the
// number of versions removed.
func (r *Repository[T]) Prune(ctx context.Context, name string, keep int) (removed int, err error) {
	start := time.Now()
	defer func() {
		r.opts.metrics.RecordDelete(time.Since(start), err)
		r.opts.logger.LogDelete(ctx, name, removed, err)
	}()

	if keep < 1 {
		return 0, fmt.Errorf("repository: prune %s: keep must be at least 1, got %d", name, keep)
	}
	if err = validateName(name); err != nil {
		return 0, err
	}
	versions, err := r.versions(ctx, name)
	if err != nil {
		return 0, err
	}
	if len(versions) <= keep {
		return 0, nil
	}

	stale := versions[:len(versions)-keep]
	if err = r.remove(ctx, name, stale); err != nil {
		return 0, err
	}
	return len(stale), nil
}

func (r *Repository[T]) remove(ctx context.Context, name string, versions []uint64) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.concurrency)

	for _, version := range versions {
		key := r.key(name, version)
		r.cache.Remove(key)
		g.Go(func() error {
			if err := r.opts.rc.AcquireIOSlot(gctx); err != nil {
				return err
			}
			defer r.opts.rc.ReleaseIOSlot()
			return r.store.Delete(gctx, key)
		})
	}
	return g.Wait()
}

// CacheStats returns the snapshot cache hit and miss counts.
func (r *Repository[T]) CacheStats() (hits, misses int64) {
	return r.cache.Stats()
}

// Purge drops all cached snapshots.
func (r *Repository[T]) Purge() {
	r.cache.Purge()
}
