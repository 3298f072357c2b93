package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/keyserve/internal/utils"
	"github.com/bastiangx/keyserve/pkg/catalog"
	"github.com/bastiangx/keyserve/pkg/config"
	"github.com/bastiangx/keyserve/pkg/keyword"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the msgpack IPC for keyword suggestions
type Server struct {
	source     KeywordSource
	configPath string

	mu  sync.RWMutex // guards cfg
	cfg *config.Config

	index     atomic.Pointer[keyword.Index]
	builds    atomic.Int64
	rebuildMu sync.Mutex

	decoder *msgpack.Decoder
	writeMu sync.Mutex
	writer  *bufio.Writer
	encoder *msgpack.Encoder
}

type catalogStats interface {
	Stats() catalog.LoaderStats
}

// NewServer loads the source and builds the first index.
// An empty configPath keeps config changes in memory only.
func NewServer(source KeywordSource, cfg *config.Config, configPath string, r io.Reader, w io.Writer) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cfg.Validate()

	bw := bufio.NewWriter(w)
	s := &Server{
		source:     source,
		configPath: configPath,
		cfg:        cfg,
		decoder:    msgpack.NewDecoder(bufio.NewReader(r)),
		writer:     bw,
		encoder:    msgpack.NewEncoder(bw),
	}
	if err := s.Rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// Index returns the index currently serving searches
func (s *Server) Index() *keyword.Index {
	return s.index.Load()
}

// Rebuild reloads the source and swaps in a new index.
// Searches running during the swap finish on the old index.
func (s *Server) Rebuild() error {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	start := time.Now()
	keywords, err := s.source.Load()
	if err != nil {
		return fmt.Errorf("failed to load keywords: %w", err)
	}

	s.mu.RLock()
	maxPrefix := s.cfg.Index.MaxPrefix
	s.mu.RUnlock()

	idx := keyword.BuildIndex(keywords, maxPrefix)
	s.index.Store(idx)
	s.builds.Add(1)
	log.Debugf("Index built: %d keywords, max prefix %d in %v", idx.Len(), idx.MaxPrefix(), time.Since(start))
	return nil
}

// Start serves requests until the input ends.
// A request that cannot be decoded gets a 400 and stops the loop.
func (s *Server) Start() error {
	log.Debug("Starting Server.")
	s.sendResponse(map[string]string{"status": "ready"})

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("Input closed, stopping server")
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return fmt.Errorf("failed to decode request: %w", err)
		}
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	switch req.Action {
	case "", "search":
		s.handleSearch(req)
	case "stats":
		s.handleStats(req)
	case "rebuild":
		s.handleRebuild(req)
	case "config":
		s.handleConfig(req)
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleSearch(req Request) {
	s.mu.RLock()
	search := s.cfg.Search
	s.mu.RUnlock()

	if n := utf8.RuneCountInString(req.Query); n > search.MaxQueryLen {
		s.sendError(req.ID, fmt.Sprintf("query exceeds maximum length of %d characters", search.MaxQueryLen), 400)
		log.Debugf("Query too long: %d runes", n)
		return
	}
	if utils.ContainsControlChars(req.Query) {
		s.sendError(req.ID, "query contains control characters", 400)
		return
	}

	opts := keyword.Options{
		Limit:         clampLimit(req.Limit, search.DefaultLimit, search.MaxLimit),
		FuzzyDistance: search.FuzzyDistance,
	}
	if req.Fuzzy != nil {
		opts.FuzzyDistance = *req.Fuzzy
	}

	start := time.Now()
	results := s.index.Load().Search(req.Query, opts)
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(results))
	suggestions := make([]CompletionSuggestion, len(results))
	for i, word := range results {
		suggestions[i] = CompletionSuggestion{Word: word, Rank: ranks[i]}
	}

	s.sendResponse(CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// clampLimit maps 0 to the default and anything else into [1, maxLimit]
func clampLimit(limit, defaultLimit, maxLimit int) int {
	if limit == 0 {
		return defaultLimit
	}
	return max(1, min(limit, maxLimit))
}

func (s *Server) handleStats(req Request) {
	resp := StatsResponse{
		ID:     req.ID,
		Status: "ok",
		Index:  s.index.Load().Stats(),
		Builds: int(s.builds.Load()),
	}
	if cs, ok := s.source.(catalogStats); ok {
		st := cs.Stats()
		resp.Catalog = map[string]int{
			"files":    st.Files,
			"keywords": st.Keywords,
			"loads":    st.Loads,
		}
	}
	s.sendResponse(resp)
}

func (s *Server) handleRebuild(req Request) {
	if err := s.Rebuild(); err != nil {
		log.Errorf("Rebuild failed: %v", err)
		s.sendError(req.ID, err.Error(), 500)
		return
	}
	s.sendResponse(s.configResponse(req.ID))
}

func (s *Server) handleConfig(req Request) {
	s.mu.Lock()
	oldPrefix := s.cfg.Index.MaxPrefix
	err := s.cfg.Update(s.configPath, req.MaxPrefix, req.DefaultLimit, req.FuzzyDistance)
	newPrefix := s.cfg.Index.MaxPrefix
	s.mu.Unlock()

	if err != nil {
		log.Errorf("Saving config: %v", err)
		s.sendError(req.ID, fmt.Sprintf("failed to save config: %v", err), 500)
		return
	}

	if newPrefix != oldPrefix {
		log.Infof("max_prefix changed %d -> %d, rebuilding", oldPrefix, newPrefix)
		if err := s.Rebuild(); err != nil {
			log.Errorf("Rebuild failed: %v", err)
			s.sendError(req.ID, err.Error(), 500)
			return
		}
	}
	s.sendResponse(s.configResponse(req.ID))
}

func (s *Server) configResponse(id string) ConfigResponse {
	idx := s.index.Load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ConfigResponse{
		ID:            id,
		Status:        "ok",
		Keywords:      idx.Len(),
		MaxPrefix:     idx.MaxPrefix(),
		DefaultLimit:  s.cfg.Search.DefaultLimit,
		FuzzyDistance: s.cfg.Search.FuzzyDistance,
	}
}

// sendResponse encodes one msgpack value and flushes it to the client
func (s *Server) sendResponse(response any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{ID: id, Error: message, Code: code})
}
