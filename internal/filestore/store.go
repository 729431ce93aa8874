// Package filestore defines the unified interface for object storage backends.
//
// All providers (filesystem, MinIO, Postgres, MySQL) implement the Store
// interface. Callers depend only on this package, never on a specific
// provider package.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	names, err := store.List(ctx, objname.MustParsePath("reports"))
package filestore

import (
	"context"

	"github.com/koustreak/blobidx/internal/objname"
)

// Store is the single interface all object storage providers must implement.
// Implementations must be safe for concurrent use by multiple goroutines:
// the indexing engine shares one Store across every in-flight keymap.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources (connections, pools, etc.).
	Close() error

	// List returns the raw names of the entries directly under dir,
	// relative to dir. It is not recursive. Names are returned as the
	// backend reports them; callers validate them with objname.New.
	List(ctx context.Context, dir objname.Path) ([]string, error)

	// ReadBytes returns the full content of the object at p.
	ReadBytes(ctx context.Context, p objname.Path) ([]byte, error)

	// WriteBytes creates or replaces the object at p.
	WriteBytes(ctx context.Context, p objname.Path, data []byte) error
}

// Scope returns a view of s rooted at dir: every path handed to the view
// is resolved below dir. Scoping the root returns s unchanged.
func Scope(s Store, dir objname.Path) Store {
	if dir.IsRoot() {
		return s
	}
	if sc, ok := s.(*scoped); ok {
		return &scoped{inner: sc.inner, dir: sc.dir.Join(dir)}
	}
	return &scoped{inner: s, dir: dir}
}

type scoped struct {
	inner Store
	dir   objname.Path
}

func (s *scoped) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close is a no-op: the view does not own the underlying store.
func (s *scoped) Close() error {
	return nil
}

func (s *scoped) List(ctx context.Context, dir objname.Path) ([]string, error) {
	return s.inner.List(ctx, s.dir.Join(dir))
}

func (s *scoped) ReadBytes(ctx context.Context, p objname.Path) ([]byte, error) {
	return s.inner.ReadBytes(ctx, s.dir.Join(p))
}

func (s *scoped) WriteBytes(ctx context.Context, p objname.Path, data []byte) error {
	return s.inner.WriteBytes(ctx, s.dir.Join(p), data)
}
