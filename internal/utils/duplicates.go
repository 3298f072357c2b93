package utils

// SuggestionFilter drops suggestions that were already emitted.
// Matching is exact: keywords that differ only in case are distinct suggestions.
type SuggestionFilter struct {
	seen map[string]struct{}
}

// NewSuggestionFilter creates a filter that already excludes the given words
func NewSuggestionFilter(seed []string) *SuggestionFilter {
	seen := make(map[string]struct{}, len(seed))
	for _, w := range seed {
		seen[w] = struct{}{}
	}
	return &SuggestionFilter{seen: seen}
}

// Seen reports whether word was in the seed set
func (f *SuggestionFilter) Seen(word string) bool {
	_, ok := f.seen[word]
	return ok
}
