// Package cache provides a read-through LRU cache in front of any
// filestore.Store.
//
// Repeated index builds over a remote store re-read every object; caching
// ReadBytes results keeps rebuilds of unchanged collections local. Listings
// are never cached, so newly written objects are always discovered.
package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/objname"
)

// DefaultSize is the number of objects cached when New is given size <= 0.
const DefaultSize = 1024

// Store wraps a filestore.Store with an LRU cache of object contents.
// It is safe for concurrent use.
type Store struct {
	inner filestore.Store
	cache *lru.Cache[string, []byte]

	// mu orders cache fills against invalidations. writes counts completed
	// writes; a fill is dropped when a write finished while it was reading.
	mu     sync.Mutex
	writes uint64
}

var _ filestore.Store = (*Store)(nil)

// New creates a cached store wrapping inner.
func New(inner filestore.Store, size int) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	c, _ := lru.New[string, []byte](size)
	return &Store{inner: inner, cache: c}
}

// Len returns the number of cached objects.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Purge drops every cached object.
func (s *Store) Purge() {
	s.cache.Purge()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close purges the cache and closes the wrapped store.
func (s *Store) Close() error {
	s.cache.Purge()
	return s.inner.Close()
}

func (s *Store) List(ctx context.Context, dir objname.Path) ([]string, error) {
	return s.inner.List(ctx, dir)
}

// ReadBytes serves from the cache when possible. Callers receive their own
// copy so mutating the result never corrupts the cache.
func (s *Store) ReadBytes(ctx context.Context, p objname.Path) ([]byte, error) {
	key := p.String()
	if data, ok := s.cache.Get(key); ok {
		return clone(data), nil
	}

	s.mu.Lock()
	gen := s.writes
	s.mu.Unlock()

	data, err := s.inner.ReadBytes(ctx, p)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.writes == gen {
		s.cache.Add(key, clone(data))
	}
	s.mu.Unlock()
	return data, nil
}

// WriteBytes writes through, then invalidates the cached entry.
func (s *Store) WriteBytes(ctx context.Context, p objname.Path, data []byte) error {
	err := s.inner.WriteBytes(ctx, p, data)

	// Invalidate even on error: the backend may have applied the write.
	s.mu.Lock()
	s.writes++
	s.cache.Remove(p.String())
	s.mu.Unlock()
	return err
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
