package keyword

import (
	"reflect"
	"testing"
)

func TestBuildIndexPrefixes(t *testing.T) {
	idx := BuildIndex([]string{"Apple Watch", "Apple Pencil", "Banana"}, 8)

	testCases := []struct {
		key      string
		expected []string
	}{
		{"a", []string{"Apple Watch", "Apple Pencil"}},
		{"appl", []string{"Apple Watch", "Apple Pencil"}},
		{"apple ", []string{"Apple Watch", "Apple Pencil"}},
		{"apple wa", []string{"Apple Watch"}},
		{"apple pe", []string{"Apple Pencil"}},
		{"b", []string{"Banana"}},
		{"banana", []string{"Banana"}},
		// longer than maxPrefix, never stored
		{"apple wat", []string{}},
		{"x", []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			got := idx.Prefix(tc.key)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Prefix(%q): expected %v, got %v", tc.key, tc.expected, got)
			}
		})
	}
}

func TestBuildIndexPrefixKeyLength(t *testing.T) {
	for _, maxPrefix := range []int{1, 2, 3, 8, 20} {
		idx := BuildIndex([]string{"Sneakers", "Sun hat", "Socks"}, maxPrefix)
		if idx.MaxPrefix() != maxPrefix {
			t.Errorf("expected maxPrefix %d, got %d", maxPrefix, idx.MaxPrefix())
		}
		for _, key := range idx.PrefixKeys() {
			if n := len([]rune(key)); n > maxPrefix {
				t.Errorf("maxPrefix=%d: key %q has %d runes", maxPrefix, key, n)
			}
		}
	}
}

// maxPrefix below 1 should quietly use the default
func TestBuildIndexInvalidMaxPrefix(t *testing.T) {
	for _, maxPrefix := range []int{0, -3} {
		idx := BuildIndex([]string{"Lamp"}, maxPrefix)
		if idx.MaxPrefix() != DefaultMaxPrefix {
			t.Errorf("maxPrefix=%d: expected default %d, got %d", maxPrefix, DefaultMaxPrefix, idx.MaxPrefix())
		}
	}
}

func TestBuildIndexSkipsBlank(t *testing.T) {
	idx := BuildIndex([]string{"", "   ", "\t\n", "Mug"}, 8)

	if idx.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", idx.Len())
	}
	if got := idx.BucketKeys(); !reflect.DeepEqual(got, []string{"mu"}) {
		t.Errorf("expected only bucket 'mu', got %v", got)
	}
}

func TestBuildIndexNormalization(t *testing.T) {
	idx := BuildIndex([]string{"  Banana Bread "}, 8)

	entries := idx.Entries()
	expected := []Entry{{Original: "  Banana Bread ", Lower: "banana bread"}}
	if !reflect.DeepEqual(entries, expected) {
		t.Fatalf("expected %v, got %v", expected, entries)
	}
	// original form is kept for output, including its whitespace
	if got := idx.Prefix("ban"); !reflect.DeepEqual(got, []string{"  Banana Bread "}) {
		t.Errorf("expected original string under 'ban', got %v", got)
	}
}

func TestBuildIndexDuplicatesKept(t *testing.T) {
	idx := BuildIndex([]string{"Tea", "tea", "Tea"}, 8)

	if idx.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", idx.Len())
	}
	expected := []string{"Tea", "tea", "Tea"}
	if got := idx.Prefix("tea"); !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
	if got := idx.Bucket("te"); len(got) != 3 {
		t.Errorf("expected 3 bucket entries, got %d", len(got))
	}
}

func TestBuildIndexBuckets(t *testing.T) {
	idx := BuildIndex([]string{"X", "Xbox", "Yo-yo", "Écharpe"}, 8)

	testCases := []struct {
		key      string
		expected []Entry
	}{
		{"x", []Entry{{"X", "x"}}},
		{"xb", []Entry{{"Xbox", "xbox"}}},
		{"yo", []Entry{{"Yo-yo", "yo-yo"}}},
		{"éc", []Entry{{"Écharpe", "écharpe"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			got := idx.Bucket(tc.key)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Bucket(%q): expected %v, got %v", tc.key, tc.expected, got)
			}
		})
	}
}

func TestBuildIndexEveryKeywordHasFirstRune(t *testing.T) {
	keywords := []string{"Desk", "Dresser", "  ottoman", "Ñandú plush", "4K Monitor", "z"}
	idx := BuildIndex(keywords, 3)

	for _, kw := range keywords {
		first := string([]rune(Normalize(kw))[:1])
		found := false
		for _, got := range idx.Prefix(first) {
			if got == kw {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("keyword %q missing under prefix %q", kw, first)
		}
	}
}

func TestBuildIndexDoesNotMutateInput(t *testing.T) {
	keywords := []string{" Rug ", "", "Vase"}
	snapshot := append([]string(nil), keywords...)

	BuildIndex(keywords, 8)

	if !reflect.DeepEqual(keywords, snapshot) {
		t.Errorf("input changed: expected %v, got %v", snapshot, keywords)
	}
}

// building twice from the same input must give the same structure
func TestBuildIndexIdempotent(t *testing.T) {
	keywords := []string{"Coffee", "Coffee Grinder", "Cold Brew", "Cocoa", "", "Coffee"}
	a := BuildIndex(keywords, 4)
	b := BuildIndex(keywords, 4)

	if a == b {
		t.Fatal("expected distinct index instances")
	}
	if !reflect.DeepEqual(a.PrefixKeys(), b.PrefixKeys()) {
		t.Fatalf("prefix keys differ: %v vs %v", a.PrefixKeys(), b.PrefixKeys())
	}
	for _, key := range a.PrefixKeys() {
		if !reflect.DeepEqual(a.Prefix(key), b.Prefix(key)) {
			t.Errorf("prefix %q differs: %v vs %v", key, a.Prefix(key), b.Prefix(key))
		}
	}
	if !reflect.DeepEqual(a.BucketKeys(), b.BucketKeys()) {
		t.Fatalf("bucket keys differ: %v vs %v", a.BucketKeys(), b.BucketKeys())
	}
	for _, key := range a.BucketKeys() {
		if !reflect.DeepEqual(a.Bucket(key), b.Bucket(key)) {
			t.Errorf("bucket %q differs", key)
		}
	}
	if !reflect.DeepEqual(a.Entries(), b.Entries()) {
		t.Error("entries differ")
	}
}

func TestIndexAccessorsReturnCopies(t *testing.T) {
	idx := BuildIndex([]string{"Pillow", "Pine Candle"}, 8)

	prefix := idx.Prefix("pi")
	prefix[0] = "changed"
	bucket := idx.Bucket("pi")
	bucket[0].Original = "changed"
	entries := idx.Entries()
	entries[0].Lower = "changed"

	if got := idx.Prefix("pi"); got[0] != "Pillow" {
		t.Errorf("prefix list was modified through accessor: %v", got)
	}
	if got := idx.Bucket("pi"); got[0].Original != "Pillow" {
		t.Errorf("bucket was modified through accessor: %v", got)
	}
	if got := idx.Entries(); got[0].Lower != "pillow" {
		t.Errorf("entries were modified through accessor: %v", got)
	}
}

func TestIndexStats(t *testing.T) {
	idx := BuildIndex([]string{"Ab", "Ac"}, 2)
	expected := map[string]int{
		"keywords":   2,
		"prefixKeys": 3, // a, ab, ac
		"buckets":    2,
		"maxPrefix":  2,
	}
	if got := idx.Stats(); !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	var nilIdx *Index
	if got := nilIdx.Stats()["keywords"]; got != 0 {
		t.Errorf("nil index should report 0 keywords, got %d", got)
	}
}
