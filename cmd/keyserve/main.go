// Copyright 2025 The KeyServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the keyword suggestion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

KeyServe suggests catalog keywords (product names, categories, brands) while a
shopper types. Each query is answered from an in-memory index: exact prefix hits
first, then typo-tolerant matches within a small edit distance. It runs as a
MessagePack IPC server next to a storefront backend, or as a CLI for testing.

# Usage

Start the server with the default catalog:

	keyserve

Use a custom catalog and enable debug mode:

	keyserve -catalog /path/to/catalog -d

Run in CLI mode for interactive testing:

	keyserve -c -limit 10 -fuzzy 2

The catalog is a .txt file with one keyword per line, a .bin pack made by
kwpack, or a directory of both. Directories load in filename order and that
order decides which keywords come first.

# Configuration

Runtime configuration is a TOML file, created with defaults if missing:

	[index]
	max_prefix = 8

	[search]
	default_limit = 6
	max_limit = 64
	fuzzy_distance = 1
	max_query_len = 60

	[catalog]
	path = "catalog/"
	watch = true

	[cli]
	default_limit = 6
	default_min_len = 1
	default_max_len = 60
	default_no_filter = false

Flags override the file for a single run.

# IPC Protocol

The server speaks MessagePack over stdin/stdout. Logs go to stderr.

	{"id": "req1", "q": "desk", "l": 5}
	{"id": "req1", "s": [{"w": "Desk Lamp", "r": 1}, {"w": "Desk Chair", "r": 2}], "c": 2, "t": 21}

See package server for stats, rebuild and config actions.

With catalog.watch enabled the index is rebuilt when catalog files change.

# Command Line Flags

	-catalog string
	    Catalog file or directory (default from config)
	-config string
	    Path to a config file
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to return
	-fuzzy int
	    Maximum edit distance for typo matches
	-prefix int
	    Longest indexed prefix in characters
	-prmin int
	    Minimum query length in CLI mode
	-prmax int
	    Maximum query length in CLI mode
	-no-filter
	    Disable input filtering for debugging
	-watch
	    Rebuild the index when catalog files change
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/keyserve/internal/cli"
	"github.com/bastiangx/keyserve/internal/logger"
	"github.com/bastiangx/keyserve/internal/utils"
	"github.com/bastiangx/keyserve/pkg/catalog"
	"github.com/bastiangx/keyserve/pkg/config"
	"github.com/bastiangx/keyserve/pkg/keyword"
	"github.com/bastiangx/keyserve/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "keyserve"
	gh      = "https://github.com/bastiangx/keyserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler(onExit func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		onExit()
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, catalog and index into the server or the CLI.
func main() {
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	catalogPath := flag.String("catalog", "", "Catalog file or directory (default from config)")
	configPath := flag.String("config", "", "Path to a custom config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of suggestions to return (default from config: search.default_limit, or cli.default_limit with -c)")
	fuzzy := flag.Int("fuzzy", -1, "Maximum edit distance for typo matches (default from config)")
	prefix := flag.Int("prefix", 0, "Longest indexed prefix in characters (default from config)")
	minLen := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum query length in CLI mode (default from config)")
	maxLen := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum query length in CLI mode (default from config)")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - passes symbols and digits-only queries to the index")
	watch := flag.Bool("watch", false, "Rebuild the index when catalog files change (default from config)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
		log.Warn("Config will not be persisted")
	}

	appConfig, activeConfigPath := config.LoadConfigWithPriority(*configPath, pathResolver)
	log.Debugf("Using config file: (%s)", utils.GetAbsolutePath(activeConfigPath))
	applyFlags(appConfig, *prefix, *limit, *fuzzy)

	resolvedCatalog := appConfig.Catalog.Path
	if *catalogPath != "" {
		resolvedCatalog = *catalogPath
	}
	if pathResolver != nil {
		resolvedCatalog = pathResolver.GetCatalogPath(resolvedCatalog)
	}
	log.Debugf("Using catalog at: %s", resolvedCatalog)
	loader := catalog.NewLoader(resolvedCatalog)

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		sigHandler(func() {})
		log.SetReportTimestamp(false)

		keywords, err := loader.Load()
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
		idx := keyword.BuildIndex(keywords, appConfig.Index.MaxPrefix)

		setFlags := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
		input := resolveCLIInput(appConfig.CLI, setFlags, *limit, *minLen, *maxLen, *noFilter)
		opts := keyword.Options{
			Limit:         input.limit,
			FuzzyDistance: appConfig.Search.FuzzyDistance,
		}
		log.Debug("Input info:",
			"minLen", input.minLen,
			"maxLen", input.maxLen,
			"limit", opts.Limit,
			"fuzzy", opts.FuzzyDistance,
			"noFilter", input.noFilter)

		inputHandler := cli.NewInputHandler(idx, opts, input.minLen, input.maxLen, input.noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv, err := server.NewServer(loader, appConfig, activeConfigPath, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}

	var watcher *catalog.Watcher
	if *watch || appConfig.Catalog.Watch {
		watcher = startWatcher(loader.Path(), srv)
	}
	sigHandler(func() {
		if watcher != nil {
			watcher.Stop()
		}
	})

	showStartupInfo(resolvedCatalog, srv.Index())

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	if watcher != nil {
		watcher.Stop()
	}
}

// applyFlags lets non-zero flags override config values for this run only.
func applyFlags(cfg *config.Config, prefix, limit, fuzzy int) {
	if prefix > 0 {
		cfg.Index.MaxPrefix = prefix
	}
	if limit > 0 {
		cfg.Search.DefaultLimit = limit
		cfg.Search.MaxLimit = max(cfg.Search.MaxLimit, limit)
	}
	if fuzzy >= 0 {
		cfg.Search.FuzzyDistance = fuzzy
	}
	cfg.Validate()
}

// cliInput holds the query settings for CLI mode
type cliInput struct {
	limit    int
	minLen   int
	maxLen   int
	noFilter bool
}

// resolveCLIInput starts from the [cli] config section. Flags given on the
// command line win over it; -limit counts as given when positive.
func resolveCLIInput(cfg config.CliConfig, setFlags map[string]bool, limit, minLen, maxLen int, noFilter bool) cliInput {
	input := cliInput{
		limit:    cfg.DefaultLimit,
		minLen:   cfg.DefaultMinLen,
		maxLen:   cfg.DefaultMaxLen,
		noFilter: cfg.DefaultNoFilter,
	}
	if limit > 0 {
		input.limit = limit
	}
	if setFlags["prmin"] {
		input.minLen = minLen
	}
	if setFlags["prmax"] {
		input.maxLen = maxLen
	}
	if setFlags["no-filter"] {
		input.noFilter = noFilter
	}
	return input
}

// startWatcher rebuilds the server index on catalog changes.
// A failed watch only disables live reload.
func startWatcher(path string, srv *server.Server) *catalog.Watcher {
	watcher, err := catalog.NewWatcher(catalog.DefaultDebounce)
	if err != nil {
		log.Warnf("Catalog watch disabled: %v", err)
		return nil
	}
	err = watcher.Watch(path, func(changed string) {
		log.Infof("Catalog changed (%s), rebuilding index", changed)
		if err := srv.Rebuild(); err != nil {
			log.Errorf("Rebuild failed, keeping previous index: %v", err)
		}
	})
	if err != nil {
		log.Warnf("Catalog watch disabled: %v", err)
		watcher.Stop()
		return nil
	}
	return watcher
}

func printVersion() {
	vlog := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	vlog.SetStyles(styles)

	vlog.Print("")
	vlog.Print("[ KeyServe ] Catalog keyword suggestions, typos included")
	vlog.Print("", "version", Version)
	vlog.Print("")
	vlog.Print("use -h or --help to see available options")
	vlog.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(catalogPath string, idx *keyword.Index) {
	info := logger.New(AppName)
	info.SetLevel(log.InfoLevel)

	info.Infof("Version: %s", Version)
	info.Infof("Process ID: [ %d ]", os.Getpid())
	info.Infof("catalog: ( %s )", catalogPath)
	info.Infof("keywords: %d, max prefix: %d", idx.Len(), idx.MaxPrefix())
	info.Info("status: ready")
}
