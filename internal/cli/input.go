// Package cli handles cmd line input and suggestions for DBG and testing the index
package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/keyserve/internal/logger"
	"github.com/bastiangx/keyserve/internal/utils"
	"github.com/bastiangx/keyserve/pkg/keyword"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const statsCommand = ":stats"

var keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)

// InputHandler reads queries from stdin and prints suggestions.
// minQueryLength, maxQueryLength and noFilter control which inputs reach the index.
type InputHandler struct {
	searcher       keyword.Searcher
	opts           keyword.Options
	minQueryLength int
	maxQueryLength int
	noFilter       bool
	in             io.Reader
	out            *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(searcher keyword.Searcher, opts keyword.Options, minLength, maxLength int, noFilter bool) *InputHandler {
	return &InputHandler{
		searcher:       searcher,
		opts:           opts,
		minQueryLength: minLength,
		maxQueryLength: maxLength,
		noFilter:       noFilter,
		in:             os.Stdin,
		out:            logger.New(""),
	}
}

// SetIO replaces stdin and the output log
func (h *InputHandler) SetIO(in io.Reader, out io.Writer) {
	h.in = in
	h.out = logger.NewWithWriter(out, "")
}

// Start runs the input loop until stdin closes.
func (h *InputHandler) Start() error {
	h.out.Print("KeyServe CLI [BETA]")
	h.out.Printf("type a query and press Enter to see suggestions, %s for index info (Ctrl+C to exit):", statsCommand)

	reader := bufio.NewReader(h.in)
	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		query := strings.TrimSpace(line)
		if query != "" {
			h.handleInput(query)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// handleInput validates a query, runs it and prints the suggestions it returns.
func (h *InputHandler) handleInput(query string) []string {
	if query == statsCommand {
		h.printStats()
		return nil
	}

	n := utf8.RuneCountInString(query)
	if n < h.minQueryLength {
		h.out.Errorf("Query too short: %s", query)
		return nil
	}
	if n > h.maxQueryLength {
		h.out.Errorf("Query too long: %s", query)
		return nil
	}

	if !h.noFilter && !utils.IsValidInput(query) {
		h.out.Warnf("No suggestions for '%s' (filtered out)", query)
		return nil
	}

	start := time.Now()
	suggestions := h.searcher.Search(query, h.opts)
	log.Debugf("Took [ %v ] for query '%s'", time.Since(start), query)

	if len(suggestions) == 0 {
		h.out.Warnf("No suggestions found for query: '%s'", query)
		return suggestions
	}

	h.out.Printf("Found %d suggestions for '%s':", len(suggestions), query)
	for i, s := range suggestions {
		h.out.Printf("%2d. %s", i+1, keywordStyle.Render(s))
	}
	return suggestions
}

func (h *InputHandler) printStats() {
	stats := h.searcher.Stats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.out.Printf("%-12s %d", k, stats[k])
	}
}
