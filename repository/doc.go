// Package repository stores named, versioned vector snapshots in a
// blobstore.Store.
//
// Every Save writes a new immutable snapshot under
//
//	<prefix>/<name>/<version>.pvec
//
// where version is a zero-padded, monotonically increasing number. Load
// returns the newest version; older versions stay readable until they are
// pruned or deleted.
//
// # Usage
//
//	repo := repository.New[string](blobstore.NewLocalStore("/var/lib/app"),
//	    repository.WithCompression(snapshot.CompressionZstd),
//	    repository.WithLogger(pvec.NewJSONLogger(slog.LevelInfo)),
//	)
//
//	version, err := repo.Save(ctx, "users", v)
//	v, err = repo.Load(ctx, "users")
//
// Snapshot bytes are kept in a byte-bounded LRU cache. A resource.Controller
// can cap cache memory, concurrent blob IO and IO bandwidth.
package repository
