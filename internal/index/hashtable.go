package index

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"

	"github.com/koustreak/blobidx/internal/lookup"
	"github.com/koustreak/blobidx/internal/objname"
)

// HashTable maps each key to the names of the objects that produced it.
// Only Index and MultiIndex construct it; once returned it is never
// mutated again and is safe for concurrent readers.
type HashTable[K comparable] struct {
	buckets map[K][]objname.Name
	objects int
}

var _ lookup.Lookup[string] = (*HashTable[string])(nil)

func newHashTable[K comparable]() *HashTable[K] {
	return &HashTable[K]{buckets: make(map[K][]objname.Name)}
}

// add appends name to the bucket of every key. Buckets are created on
// first use, so no key ever maps to an empty bucket.
func (h *HashTable[K]) add(keys []K, name objname.Name) {
	for _, k := range keys {
		h.buckets[k] = append(h.buckets[k], name)
	}
	h.objects++
}

// Get returns a copy of the names indexed under key, in the order the
// build collected them. That order reflects keymap completion, not
// listing order.
func (h *HashTable[K]) Get(key K) ([]objname.Name, error) {
	bucket := h.buckets[key]
	out := make([]objname.Name, len(bucket))
	copy(out, bucket)
	return out, nil
}

// Keys yields every key once, in map iteration order.
func (h *HashTable[K]) Keys() iter.Seq[K] {
	return maps.Keys(h.buckets)
}

// Len returns the number of distinct keys.
func (h *HashTable[K]) Len() int {
	return len(h.buckets)
}

// Objects returns the number of objects folded into the table, including
// objects whose keymap produced no keys.
func (h *HashTable[K]) Objects() int {
	return h.objects
}

// MarshalJSON renders the table as {"key": ["name", ...]}, formatting each
// key with fmt. encoding/json sorts the keys, so the output is stable.
func (h *HashTable[K]) MarshalJSON() ([]byte, error) {
	out := make(map[string][]objname.Name, len(h.buckets))
	for k, names := range h.buckets {
		out[fmt.Sprint(k)] = names
	}
	return json.Marshal(out)
}
