package keyword

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

const (
	// DefaultMaxPrefix is the longest prefix key stored per keyword.
	DefaultMaxPrefix = 8

	bucketLen = 2
)

// Entry is an indexed keyword: the caller's original string and its match form.
type Entry struct {
	Original string
	Lower    string
}

// Index is an immutable keyword index. Rebuild it with BuildIndex when the source changes.
type Index struct {
	prefixes  *patricia.Trie
	buckets   map[string][]Entry
	entries   []Entry
	maxPrefix int
}

// Normalize lowercases and trims s. Keywords and queries share it.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// BuildIndex indexes keywords under every prefix of 1..maxPrefix runes and under
// a bucket of their first two runes. Blank keywords are skipped, duplicates are kept.
// A maxPrefix below 1 falls back to DefaultMaxPrefix.
func BuildIndex(keywords []string, maxPrefix int) *Index {
	if maxPrefix < 1 {
		maxPrefix = DefaultMaxPrefix
	}

	idx := &Index{
		prefixes:  patricia.NewTrie(),
		buckets:   make(map[string][]Entry),
		entries:   make([]Entry, 0, len(keywords)),
		maxPrefix: maxPrefix,
	}

	skipped := 0
	for _, kw := range keywords {
		lower := Normalize(kw)
		if lower == "" {
			skipped++
			continue
		}
		entry := Entry{Original: kw, Lower: lower}
		idx.entries = append(idx.entries, entry)

		runes := []rune(lower)
		bucket := string(runes[:min(bucketLen, len(runes))])
		idx.buckets[bucket] = append(idx.buckets[bucket], entry)

		for i := 1; i <= min(maxPrefix, len(runes)); i++ {
			idx.appendPrefix(string(runes[:i]), kw)
		}
	}

	log.Debugf("Built keyword index: %d keywords, %d buckets, %d skipped, maxPrefix=%d",
		len(idx.entries), len(idx.buckets), skipped, maxPrefix)
	return idx
}

func (idx *Index) appendPrefix(key, original string) {
	p := patricia.Prefix(key)
	var list []string
	if item := idx.prefixes.Get(p); item != nil {
		list = item.([]string)
	}
	idx.prefixes.Set(p, append(list, original))
}

// lookup returns the stored slice for a prefix key. Callers must not modify it.
func (idx *Index) lookup(key string) []string {
	item := idx.prefixes.Get(patricia.Prefix(key))
	if item == nil {
		return nil
	}
	return item.([]string)
}

// MaxPrefix returns the effective prefix length limit.
func (idx *Index) MaxPrefix() int {
	if idx == nil {
		return DefaultMaxPrefix
	}
	return idx.maxPrefix
}

// Len returns the number of indexed keywords.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Entries returns a copy of every indexed keyword in input order.
func (idx *Index) Entries() []Entry {
	if idx == nil {
		return []Entry{}
	}
	return append([]Entry(nil), idx.entries...)
}

// Prefix returns a copy of the originals stored under a normalized prefix key.
func (idx *Index) Prefix(key string) []string {
	if idx == nil {
		return []string{}
	}
	return append([]string{}, idx.lookup(key)...)
}

// Bucket returns a copy of the entries stored under a bucket key.
func (idx *Index) Bucket(key string) []Entry {
	if idx == nil {
		return []Entry{}
	}
	return append([]Entry{}, idx.buckets[key]...)
}

// PrefixKeys returns every prefix key in sorted order.
func (idx *Index) PrefixKeys() []string {
	keys := []string{}
	if idx == nil {
		return keys
	}
	err := idx.prefixes.Visit(func(p patricia.Prefix, item patricia.Item) error {
		if item != nil {
			keys = append(keys, string(p))
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting prefix trie: %v", err)
	}
	sort.Strings(keys)
	return keys
}

// BucketKeys returns every bucket key in sorted order.
func (idx *Index) BucketKeys() []string {
	keys := []string{}
	if idx == nil {
		return keys
	}
	for k := range idx.buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats returns statistics about the index: keyword, prefix key and bucket
// counts and the max prefix length.
func (idx *Index) Stats() map[string]int {
	if idx == nil {
		return map[string]int{"keywords": 0, "prefixKeys": 0, "buckets": 0, "maxPrefix": DefaultMaxPrefix}
	}
	return map[string]int{
		"keywords":   len(idx.entries),
		"prefixKeys": len(idx.PrefixKeys()),
		"buckets":    len(idx.buckets),
		"maxPrefix":  idx.maxPrefix,
	}
}
