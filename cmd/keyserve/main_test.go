package main

import (
	"testing"

	"github.com/bastiangx/keyserve/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestResolveCLIInput(t *testing.T) {
	cfg := config.CliConfig{DefaultLimit: 12, DefaultMinLen: 2, DefaultMaxLen: 30, DefaultNoFilter: true}

	// unset flags still carry their built-in defaults
	builtin := cliInput{limit: 0, minLen: 1, maxLen: 60, noFilter: false}

	tests := []struct {
		name     string
		setFlags map[string]bool
		flags    cliInput
		want     cliInput
	}{
		{"config section without flags", nil, builtin, cliInput{limit: 12, minLen: 2, maxLen: 30, noFilter: true}},
		{
			"flags win",
			map[string]bool{"limit": true, "prmin": true, "prmax": true, "no-filter": true},
			cliInput{limit: 3, minLen: 1, maxLen: 10, noFilter: false},
			cliInput{limit: 3, minLen: 1, maxLen: 10, noFilter: false},
		},
		{
			"only prmax given",
			map[string]bool{"prmax": true},
			cliInput{limit: 0, minLen: 1, maxLen: 8, noFilter: false},
			cliInput{limit: 12, minLen: 2, maxLen: 8, noFilter: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.flags
			got := resolveCLIInput(cfg, tt.setFlags, f.limit, f.minLen, f.maxLen, f.noFilter)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	applyFlags(cfg, 0, 0, -1)
	assert.Equal(t, config.DefaultConfig(), cfg)

	applyFlags(cfg, 4, 100, 0)
	assert.Equal(t, 4, cfg.Index.MaxPrefix)
	assert.Equal(t, 100, cfg.Search.DefaultLimit)
	assert.Equal(t, 100, cfg.Search.MaxLimit)
	assert.Equal(t, 0, cfg.Search.FuzzyDistance)
}
