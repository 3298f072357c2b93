// Package keyword is the core, building a prefix/bucket index over catalog keywords and
// answering typo-tolerant suggestion queries against it.
package keyword

// Searcher defines the interface for suggestion engines
type Searcher interface {
	// Search returns at most opts.Limit original keywords for a query
	Search(query string, opts Options) []string

	// Stats returns statistics about the indexed keywords
	Stats() map[string]int
}
