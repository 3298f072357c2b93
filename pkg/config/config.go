/*
Package config manages TOML config for keyserve.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/keyserve/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config dir
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Index   IndexConfig   `toml:"index"`
	Search  SearchConfig  `toml:"search"`
	Catalog CatalogConfig `toml:"catalog"`
	CLI     CliConfig     `toml:"cli"`
}

// IndexConfig has index build options.
type IndexConfig struct {
	MaxPrefix int `toml:"max_prefix"`
}

// SearchConfig has query options shared by server and CLI.
type SearchConfig struct {
	DefaultLimit  int `toml:"default_limit"`
	MaxLimit      int `toml:"max_limit"`
	FuzzyDistance int `toml:"fuzzy_distance"`
	MaxQueryLen   int `toml:"max_query_len"`
}

// CatalogConfig says where keywords come from.
type CatalogConfig struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultMinLen   int  `toml:"default_min_len"`
	DefaultMaxLen   int  `toml:"default_max_len"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			MaxPrefix: 8,
		},
		Search: SearchConfig{
			DefaultLimit:  6,
			MaxLimit:      64,
			FuzzyDistance: 1,
			MaxQueryLen:   60,
		},
		Catalog: CatalogConfig{
			Path:  "catalog/",
			Watch: true,
		},
		CLI: CliConfig{
			DefaultLimit:    6,
			DefaultMinLen:   1,
			DefaultMaxLen:   60,
			DefaultNoFilter: false,
		},
	}
}

// Validate resets out of range values to their defaults.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Index.MaxPrefix < 1 {
		log.Warnf("Invalid index.max_prefix %d, using %d", c.Index.MaxPrefix, def.Index.MaxPrefix)
		c.Index.MaxPrefix = def.Index.MaxPrefix
	}
	if c.Search.MaxLimit < 1 {
		log.Warnf("Invalid search.max_limit %d, using %d", c.Search.MaxLimit, def.Search.MaxLimit)
		c.Search.MaxLimit = def.Search.MaxLimit
	}
	if c.Search.DefaultLimit < 1 || c.Search.DefaultLimit > c.Search.MaxLimit {
		log.Warnf("Invalid search.default_limit %d, using %d", c.Search.DefaultLimit, min(def.Search.DefaultLimit, c.Search.MaxLimit))
		c.Search.DefaultLimit = min(def.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Search.FuzzyDistance < 0 {
		log.Warnf("Invalid search.fuzzy_distance %d, using %d", c.Search.FuzzyDistance, def.Search.FuzzyDistance)
		c.Search.FuzzyDistance = def.Search.FuzzyDistance
	}
	if c.Search.MaxQueryLen < 1 {
		c.Search.MaxQueryLen = def.Search.MaxQueryLen
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = def.Catalog.Path
	}
	if c.CLI.DefaultLimit < 1 {
		log.Warnf("Invalid cli.default_limit %d, using %d", c.CLI.DefaultLimit, def.CLI.DefaultLimit)
		c.CLI.DefaultLimit = def.CLI.DefaultLimit
	}
	if c.CLI.DefaultMinLen < 1 {
		c.CLI.DefaultMinLen = def.CLI.DefaultMinLen
	}
	if c.CLI.DefaultMaxLen < c.CLI.DefaultMinLen {
		log.Warnf("Invalid cli.default_max_len %d, using %d", c.CLI.DefaultMaxLen, max(def.CLI.DefaultMaxLen, c.CLI.DefaultMinLen))
		c.CLI.DefaultMaxLen = max(def.CLI.DefaultMaxLen, c.CLI.DefaultMinLen)
	}
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/keyserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string, resolver *utils.PathResolver) (*Config, string) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	if resolver == nil {
		log.Warn("No config location available. Using built-in defaults...")
		return DefaultConfig(), ""
	}

	defaultPath := resolver.GetConfigPath(FileName)
	config := InitConfig(defaultPath)
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath
}

// InitConfig loads config from file or creates default if missing.
// Any failure falls back to builtin defaults.
func InitConfig(configPath string) *Config {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig()
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig()
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig()
	}
	return config
}

// LoadConfig loads from a TOML file. A file that does not parse is recovered
// section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "index"); ok {
		if val, ok := utils.ExtractInt64(section, "max_prefix"); ok {
			config.Index.MaxPrefix = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "catalog"); ok {
		if val, ok := utils.ExtractString(section, "path"); ok {
			config.Catalog.Path = val
		}
		if val, ok := utils.ExtractBool(section, "watch"); ok {
			config.Catalog.Watch = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.Validate()
	return config, nil
}

// extractSearchConfig extracts search configuration from a map
func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		search.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		search.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "fuzzy_distance"); ok {
		search.FuzzyDistance = val
	}
	if val, ok := utils.ExtractInt64(data, "max_query_len"); ok {
		search.MaxQueryLen = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "default_min_len"); ok {
		cli.DefaultMinLen = val
	}
	if val, ok := utils.ExtractInt64(data, "default_max_len"); ok {
		cli.DefaultMaxLen = val
	}
	if val, ok := utils.ExtractBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the index/search values and saves to file.
// An empty configPath only updates the in-memory values.
// When saving fails c is left unchanged.
func (c *Config) Update(configPath string, maxPrefix, defaultLimit, fuzzyDistance *int) error {
	next := *c
	if maxPrefix != nil {
		next.Index.MaxPrefix = *maxPrefix
	}
	if defaultLimit != nil {
		next.Search.DefaultLimit = *defaultLimit
	}
	if fuzzyDistance != nil {
		next.Search.FuzzyDistance = *fuzzyDistance
	}
	next.Validate()
	if configPath != "" {
		if err := SaveConfig(&next, configPath); err != nil {
			return err
		}
	}
	*c = next
	return nil
}
