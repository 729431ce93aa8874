// Package search ranks every object of a built index against a query.
//
// FindBestMatch scores each key of a lookup.Lookup once, expands the key to
// its objects, and returns one hit per object ordered by descending score.
// It is a full scan with no pruning, meant for moderate index sizes.
package search

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/lookup"
	"github.com/koustreak/blobidx/internal/objname"
)

// ScoredHit pairs an item with its score. Higher scores are better matches;
// scores are intended to lie in [0, 1] but are not clamped.
type ScoredHit[T any] struct {
	Score float64 `json:"score"`
	Item  T       `json:"item"`
}

// Compare orders hits by score alone; hits with equal scores compare equal
// whatever their items.
func Compare[T any](a, b ScoredHit[T]) int {
	return cmp.Compare(a.Score, b.Score)
}

// ScoreFunc rates how well key matches query. It must be pure and
// deterministic.
type ScoreFunc[Q any, K comparable] func(query Q, key K) float64

// FindBestMatch returns one hit per indexed object, best first.
//
// A key whose score is NaN aborts the search with an indexing error naming
// the key and the query. Objects sharing a key share its score; the relative
// order of equal scores is unspecified.
func FindBestMatch[Q any, K comparable](l lookup.Lookup[K], score ScoreFunc[Q, K], query Q) ([]ScoredHit[objname.Name], error) {
	var hits []ScoredHit[objname.Name]

	for key := range l.Keys() {
		s := score(query, key)
		if math.IsNaN(s) {
			return nil, errs.New(errs.ErrKindIndexing,
				fmt.Sprintf("score evaluates to NaN for key '%v' and query '%v'", key, query))
		}

		names, err := l.Get(key)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			hits = append(hits, ScoredHit[objname.Name]{Score: s, Item: name})
		}
	}

	slices.SortFunc(hits, Compare[objname.Name])
	slices.Reverse(hits)
	return hits, nil
}

// Top returns at most the first n hits. n <= 0 returns hits unchanged.
func Top[T any](hits []ScoredHit[T], n int) []ScoredHit[T] {
	if n <= 0 || n >= len(hits) {
		return hits
	}
	return hits[:n]
}
