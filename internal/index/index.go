// Package index builds Lookup tables by scanning a storage collection.
//
// Index and MultiIndex list every object directly under a start collection,
// run the caller's keymap for each object in its own goroutine, and fold the
// results into a HashTable on a single collector goroutine. Builds are
// all-or-nothing: a listing failure, an invalid listed name, or any keymap
// error fails the whole build and no table is returned.
//
// Usage:
//
//	byLength := func(_ context.Context, _ filestore.Store, n objname.Name) (int, error) {
//	    return utf8.RuneCountInString(n.String()), nil
//	}
//	table, err := index.Index(ctx, store, objname.Root(), byLength)
//	if err != nil { ... }
//	names, _ := table.Get(3)
package index

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/metrics"
	"github.com/koustreak/blobidx/internal/objname"
)

// Keymap derives one key from an object. store is scoped to the collection
// being indexed, so name.Path() addresses the object. A Keymap is called
// concurrently and must not depend on call order.
type Keymap[K comparable] func(ctx context.Context, store filestore.Store, name objname.Name) (K, error)

// MultiKeymap derives any number of keys from an object. Returning no keys
// is valid and leaves the object out of every bucket.
type MultiKeymap[K comparable] func(ctx context.Context, store filestore.Store, name objname.Name) ([]K, error)

// Index builds a table with exactly one key per object under start.
func Index[K comparable](ctx context.Context, store filestore.Store, start objname.Path, keymap Keymap[K], opts ...Option) (*HashTable[K], error) {
	multi := func(ctx context.Context, s filestore.Store, n objname.Name) ([]K, error) {
		k, err := keymap(ctx, s, n)
		if err != nil {
			return nil, err
		}
		return []K{k}, nil
	}
	return build(ctx, store, start, metrics.KindSingle, multi, newOptions(opts))
}

// MultiIndex builds a table where each object is filed under every key its
// keymap returns. Duplicate keys from one object count once.
func MultiIndex[K comparable](ctx context.Context, store filestore.Store, start objname.Path, keymap MultiKeymap[K], opts ...Option) (*HashTable[K], error) {
	dedup := func(ctx context.Context, s filestore.Store, n objname.Name) ([]K, error) {
		keys, err := keymap(ctx, s, n)
		if err != nil {
			return nil, err
		}
		return uniq(keys), nil
	}
	return build(ctx, store, start, metrics.KindMulti, dedup, newOptions(opts))
}

// result travels from a keymap goroutine to the collector. It carries the
// object name so out-of-order completion stays attributable.
type result[K comparable] struct {
	keys []K
	name objname.Name
	err  error
}

func build[K comparable](ctx context.Context, store filestore.Store, start objname.Path, kind string, keymap MultiKeymap[K], o *options) (*HashTable[K], error) {
	began := time.Now()
	log := o.log.With().Str("kind", kind).Str("collection", start.String()).Logger()

	finish := func(res string, objects int) {
		if o.metrics {
			metrics.ObserveBuild(kind, res, objects, time.Since(began))
		}
	}

	names, err := listNames(ctx, store, start)
	if err != nil {
		if errs.IsInvalidName(err) {
			finish(metrics.ResultInvalidName, 0)
		} else {
			finish(metrics.ResultListFailed, 0)
		}
		log.ErrorWith("index build aborted", err, nil)
		return nil, err
	}
	log.Debugf("dispatching %d keymaps", len(names))

	// Cancelled on the first keymap failure so in-flight keymaps can stop early.
	buildCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	scoped := filestore.Scope(store, start)
	results := make(chan result[K], o.capacity)

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keys, err := keymap(buildCtx, scoped, name)
			results <- result[K]{keys: keys, name: name, err: err}
		}()
	}

	// Close once every producer has delivered; the collector below never
	// needs to know how many there were.
	go func() {
		wg.Wait()
		close(results)
	}()

	table := newHashTable[K]()
	var buildErr error
	for r := range results {
		if buildErr != nil {
			// Keep draining so no producer stays blocked on a full channel.
			continue
		}
		if r.err != nil {
			buildErr = errs.Wrap(errs.ErrKindIndexing,
				fmt.Sprintf("keymap failed for object %q", r.name), r.err)
			if o.metrics {
				metrics.KeymapFailures.WithLabelValues(kind).Inc()
			}
			cancel()
			continue
		}
		table.add(r.keys, r.name)
	}

	if buildErr != nil && ctx.Err() != nil {
		// The caller gave up; keymap failures are a consequence of that.
		buildErr = errs.Wrap(errs.ErrKindTimeout, "index build cancelled", buildErr)
		finish(metrics.ResultCancelled, 0)
		log.ErrorWith("index build cancelled", buildErr, nil)
		return nil, buildErr
	}
	if buildErr != nil {
		finish(metrics.ResultKeymapFailed, 0)
		log.ErrorWith("index build failed", buildErr, nil)
		return nil, buildErr
	}

	finish(metrics.ResultOK, table.Objects())
	log.With().
		Int("keys", table.Len()).
		Int("objects", table.Objects()).
		Dur("elapsed", time.Since(began)).
		Logger().
		Info("index built")
	return table, nil
}

// listNames lists start and validates every entry before any work is
// dispatched. An invalid name means the backend is misbehaving, so the
// whole build fails rather than skipping the entry.
func listNames(ctx context.Context, store filestore.Store, start objname.Path) ([]objname.Name, error) {
	raw, err := store.List(ctx, start)
	if err != nil {
		return nil, err
	}

	names := make([]objname.Name, 0, len(raw))
	for _, r := range raw {
		n, err := objname.New(r)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidName,
				fmt.Sprintf("store listed an invalid name under %q", start), err)
		}
		names = append(names, n)
	}
	return names, nil
}

func uniq[K comparable](keys []K) []K {
	if len(keys) < 2 {
		return keys
	}
	seen := make(map[K]struct{}, len(keys))
	out := keys[:0:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
