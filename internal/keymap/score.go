package keymap

import (
	"math"
	"strconv"
	"strings"
)

// NumericProximity scores 1 for an exact match and loses one point per
// unit of distance. Scores go negative for distant keys.
func NumericProximity(query, key float64) float64 {
	return 1 - math.Abs(key-query)
}

// IntProximity is NumericProximity for integer keys.
func IntProximity(query float64, key int) float64 {
	return NumericProximity(query, float64(key))
}

// TextProximity is NumericProximity over decimal strings, for string-keyed
// tables built from numeric fields. A query or key that does not parse
// scores NaN, which search.FindBestMatch reports as an error.
func TextProximity(query, key string) float64 {
	q, err := strconv.ParseFloat(strings.TrimSpace(query), 64)
	if err != nil {
		return math.NaN()
	}
	k, err := strconv.ParseFloat(strings.TrimSpace(key), 64)
	if err != nil {
		return math.NaN()
	}
	return NumericProximity(q, k)
}

// TokenOverlap is the Jaccard similarity of the token sets of query and
// key, in [0, 1]. Two strings without tokens score 0.
func TokenOverlap(query, key string) float64 {
	q := toSet(Tokenize(query))
	k := toSet(Tokenize(key))
	if len(q) == 0 && len(k) == 0 {
		return 0
	}

	shared := 0
	for t := range q {
		if _, ok := k[t]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(q)+len(k)-shared)
}

// PrefixScore is the length of the common case-insensitive prefix divided
// by the length of the longer string, in [0, 1].
func PrefixScore(query, key string) float64 {
	q := []rune(strings.ToLower(query))
	k := []rune(strings.ToLower(key))
	longest := max(len(q), len(k))
	if longest == 0 {
		return 0
	}

	n := 0
	for n < len(q) && n < len(k) && q[n] == k[n] {
		n++
	}
	return float64(n) / float64(longest)
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
