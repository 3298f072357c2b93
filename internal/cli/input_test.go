package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/keyserve/pkg/keyword"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(noFilter bool) (*InputHandler, *bytes.Buffer) {
	idx := keyword.BuildIndex([]string{"Desk Lamp", "Desk Chair", "Deck Box", "Rug"}, 0)
	h := NewInputHandler(idx, keyword.DefaultOptions(), 2, 10, noFilter)
	var out bytes.Buffer
	h.SetIO(strings.NewReader(""), &out)
	return h, &out
}

func TestHandleInput(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		noFilter bool
		want     []string
	}{
		{"prefix hits then fuzzy", "desk", false, []string{"Desk Lamp", "Desk Chair", "Deck Box"}},
		{"fuzzy only", "dekk", false, []string{"Desk Lamp", "Desk Chair", "Deck Box"}},
		{"no match", "zzzz", false, []string{}},
		{"too short", "d", false, nil},
		{"too long", "desk lamp xl", false, nil},
		{"filtered punctuation", "--", false, nil},
		{"unfiltered punctuation", "--", true, []string{}},
		{"multibyte length", "rüg", false, []string{"Rug"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(tt.noFilter)
			assert.Equal(t, tt.want, h.handleInput(tt.query))
		})
	}
}

func TestStartPrintsSuggestions(t *testing.T) {
	h, out := newTestHandler(false)
	h.SetIO(strings.NewReader("desk\n\n:stats\nru"), out)

	require.NoError(t, h.Start())

	got := out.String()
	assert.Contains(t, got, "Found 3 suggestions for 'desk'")
	assert.Contains(t, got, "Desk Chair")
	assert.Contains(t, got, "keywords")
	// the last line has no newline and is still handled
	assert.Contains(t, got, "Rug")
}
