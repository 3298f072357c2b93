/*
Package server implements msgpack IPC for keyword suggestions.

The server reads a stream of msgpack encoded requests from stdin and writes one
msgpack response per request to stdout. Logs go to stderr so the stream stays clean.

# IPC

Every request carries an ID echoed in its response and an optional action.
Suggestion requests leave the action empty:

	{"id": "req_001", "q": "appl", "l": 5}

The server responds with suggestions in index order (exact prefix hits first):

	{"id": "req_001", "s": [{"w": "Apple Watch", "r": 1}, {"w": "Apple Pencil", "r": 2}], "c": 2, "t": 38}

"f" overrides the configured fuzzy distance for a single request:

	{"id": "req_002", "q": "appel", "f": 2}

Index management:

	{"id": "m_001", "action": "stats"}
	{"id": "m_002", "action": "rebuild"}
	{"id": "m_003", "action": "config", "max_prefix": 6, "fuzzy_distance": 2}

A rebuild reloads the catalog and replaces the index as a whole; in-flight
searches keep reading the index they started with. Changing max_prefix rebuilds.

Failed requests get a CompletionError with a 400 or 500 code.
*/
package server

// Request is the single request envelope for every action
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"` // "", "search", "stats", "rebuild", "config"
	Query  string `msgpack:"q,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Fuzzy  *int   `msgpack:"f,omitempty"`

	// for "config"
	MaxPrefix     *int `msgpack:"max_prefix,omitempty"`
	DefaultLimit  *int `msgpack:"default_limit,omitempty"`
	FuzzyDistance *int `msgpack:"fuzzy_distance,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse - suggestion response, TimeTaken in microseconds
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// StatsResponse - index and catalog statistics
type StatsResponse struct {
	ID      string         `msgpack:"id"`
	Status  string         `msgpack:"status"`
	Index   map[string]int `msgpack:"index"`
	Catalog map[string]int `msgpack:"catalog,omitempty"`
	Builds  int            `msgpack:"builds"`
}

// ConfigResponse - rebuild and config operation response
type ConfigResponse struct {
	ID            string `msgpack:"id"`
	Status        string `msgpack:"status"`
	Keywords      int    `msgpack:"keywords"`
	MaxPrefix     int    `msgpack:"max_prefix"`
	DefaultLimit  int    `msgpack:"default_limit"`
	FuzzyDistance int    `msgpack:"fuzzy_distance"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// KeywordSource provides the keywords an index is built from
type KeywordSource interface {
	Load() ([]string, error)
}
