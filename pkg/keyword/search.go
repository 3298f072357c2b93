package keyword

import (
	"math"

	"github.com/bastiangx/keyserve/internal/utils"
	"github.com/charmbracelet/log"
)

const (
	DefaultLimit         = 6
	DefaultFuzzyDistance = 1
)

// Options controls a single Search call.
type Options struct {
	// Limit caps the number of returned keywords. Zero or less returns nothing.
	Limit int
	// FuzzyDistance is the largest edit distance accepted in the fuzzy phase.
	FuzzyDistance int
}

// DefaultOptions returns Limit 6 and FuzzyDistance 1.
func DefaultOptions() Options {
	return Options{Limit: DefaultLimit, FuzzyDistance: DefaultFuzzyDistance}
}

// Search returns original keywords matching query, exact prefix hits first.
//
// The prefix key is the first min(maxPrefix, len) runes of the normalized query.
// When it yields at least opts.Limit keywords those are returned as-is. Otherwise
// the query's 2-rune bucket (or every keyword, if the bucket is missing) is scanned
// for keywords whose leading len(query) runes are within opts.FuzzyDistance edits.
// The scan stops after opts.Limit*2 fuzzy hits.
func (idx *Index) Search(query string, opts Options) []string {
	results := []string{}
	if idx == nil || opts.Limit <= 0 {
		return results
	}

	q := []rune(Normalize(query))
	if len(q) == 0 {
		return results
	}

	exact := idx.lookup(string(q[:min(idx.maxPrefix, len(q))]))
	if len(exact) >= opts.Limit {
		return append(results, exact[:opts.Limit]...)
	}

	fuzzy := idx.fuzzyMatches(q, opts)
	log.Debugf("Search %q: %d exact, %d fuzzy", string(q), len(exact), len(fuzzy))

	results = append(results, exact...)
	filter := utils.NewSuggestionFilter(exact)
	for _, kw := range fuzzy {
		if len(results) >= opts.Limit {
			break
		}
		if filter.Seen(kw) {
			continue
		}
		results = append(results, kw)
	}
	return results
}

func (idx *Index) fuzzyMatches(q []rune, opts Options) []string {
	candidates, ok := idx.buckets[string(q[:min(bucketLen, len(q))])]
	if !ok {
		candidates = idx.entries
	}

	query := string(q)
	cutoff := opts.Limit * 2
	if cutoff < opts.Limit {
		cutoff = math.MaxInt
	}
	var matches []string
	for _, c := range candidates {
		lower := []rune(c.Lower)
		head := string(lower[:min(len(q), len(lower))])
		if EditDistance(query, head) > opts.FuzzyDistance {
			continue
		}
		matches = append(matches, c.Original)
		if len(matches) >= cutoff {
			break
		}
	}
	return matches
}
