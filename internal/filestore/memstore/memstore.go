// Package memstore provides an in-memory filestore.Store.
//
// It backs tests of the indexing engine and the HTTP surface, and serves
// as a scratch store for examples. It is safe for concurrent use.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/objname"
)

// Store keeps objects in a map keyed by their full path.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// extra holds raw listing entries injected with AddRawEntry; they are
	// reported by List but cannot be read.
	extra map[string][]string

	listErr error
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
		extra:   make(map[string][]string),
	}
}

// Put stores data at p, creating or replacing the object. It panics on an
// invalid path and is meant for test setup.
func (s *Store) Put(path string, data []byte) *Store {
	p := objname.MustParsePath(path)
	if err := s.WriteBytes(context.Background(), p, data); err != nil {
		panic(err)
	}
	return s
}

// AddRawEntry makes List(dir) report raw verbatim, without validation.
// Used to simulate a backend returning a corrupt name.
func (s *Store) AddRawEntry(dir, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extra[dir] = append(s.extra[dir], raw)
}

// FailList makes every subsequent List call return err.
func (s *Store) FailList(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// --- filestore.Store implementation ---

func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

// List returns the direct children of dir in lexical order. Objects nested
// deeper appear as their first path component, like a directory.
func (s *Store) List(ctx context.Context, dir objname.Path) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "list cancelled", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listErr != nil {
		return nil, s.listErr
	}

	prefix := dir.String()
	if prefix != "" {
		prefix += objname.Separator
	}

	seen := make(map[string]struct{})
	for key := range s.objects {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		child, _, _ := strings.Cut(rest, objname.Separator)
		seen[child] = struct{}{}
	}

	extra := s.extra[dir.String()]
	if len(seen) == 0 && len(extra) == 0 && !dir.IsRoot() {
		return nil, errs.New(errs.ErrKindNotFound, "collection \""+dir.String()+"\" does not exist")
	}

	out := make([]string, 0, len(seen)+len(extra))
	for child := range seen {
		out = append(out, child)
	}
	sort.Strings(out)
	return append(out, extra...), nil
}

func (s *Store) ReadBytes(ctx context.Context, p objname.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "read cancelled", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[p.String()]
	if !ok {
		return nil, errs.New(errs.ErrKindNotFound, "object \""+p.String()+"\" does not exist")
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *Store) WriteBytes(ctx context.Context, p objname.Path, data []byte) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.ErrKindTimeout, "write cancelled", err)
	}
	if p.IsRoot() {
		return errs.New(errs.ErrKindInvalidInput, "cannot write to the storage root")
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[p.String()] = buf
	return nil
}
