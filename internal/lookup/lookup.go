// Package lookup defines the read-only query surface every built index
// satisfies, independent of how the index is stored.
package lookup

import (
	"iter"

	"github.com/koustreak/blobidx/internal/objname"
)

// Lookup retrieves object names from a built index.
//
// Implementations are immutable once handed out, so Get and Keys may be
// called from any number of goroutines without synchronization.
type Lookup[K comparable] interface {
	// Get returns every object name indexed under key. An unknown key
	// yields an empty slice and a nil error.
	Get(key K) ([]objname.Name, error)

	// Keys yields each distinct key exactly once, in no particular order.
	// Calling Keys again starts a fresh enumeration.
	Keys() iter.Seq[K]
}

// Len counts the distinct keys of l.
func Len[K comparable](l Lookup[K]) int {
	n := 0
	for range l.Keys() {
		n++
	}
	return n
}

// Collect returns the keys of l as a slice, in enumeration order.
func Collect[K comparable](l Lookup[K]) []K {
	var out []K
	for k := range l.Keys() {
		out = append(out, k)
	}
	return out
}

// Objects counts the names stored under all keys of l. An object indexed
// under several keys is counted once per key.
func Objects[K comparable](l Lookup[K]) (int, error) {
	n := 0
	for k := range l.Keys() {
		names, err := l.Get(k)
		if err != nil {
			return 0, err
		}
		n += len(names)
	}
	return n, nil
}
