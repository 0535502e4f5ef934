// Package config provides configuration management for the tmsadmin CLI.
//
// Values are layered from defaults, tmsadmin.yaml, TMSADMIN_ environment
// variables and command line flags, in increasing order of precedence.
package config

import (
	"github.com/haulwise/tmsadmin/internal/starlark"
)

// StoreConfig selects the database backing the console.
type StoreConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	SessionSecret string `koanf:"session_secret"`
	WatchSeeds    bool   `koanf:"watch_seeds"`
	PageSize      int    `koanf:"page_size"`
	DebounceMs    int    `koanf:"debounce_ms"`
}

// TableConfig customizes the list screen of one kind.
type TableConfig struct {
	PageSize int                       `koanf:"page_size"`
	Computed []starlark.ComputedColumn `koanf:"computed"`
}

// Config holds all CLI configuration options.
type Config struct {
	Store        StoreConfig            `koanf:"store"`
	UI           UIConfig               `koanf:"ui"`
	SeedsDir     string                 `koanf:"seeds_dir"`
	LogLevel     string                 `koanf:"log_level"`
	LogFormat    string                 `koanf:"log_format"`
	Verbose      bool                   `koanf:"verbose"`
	OutputFormat string                 `koanf:"output"`
	Tables       map[string]TableConfig `koanf:"tables"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// PageSizeFor returns the initial page size of a kind's list.
func (c *Config) PageSizeFor(kind string) int {
	if t, ok := c.Tables[kind]; ok && t.PageSize > 0 {
		return t.PageSize
	}
	if c.UI.PageSize > 0 {
		return c.UI.PageSize
	}
	return DefaultPageSize
}

// Computed returns the computed columns configured for a kind.
func (c *Config) Computed(kind string) []starlark.ComputedColumn {
	return c.Tables[kind].Computed
}

// Default configuration values.
const (
	DefaultDriver     = "sqlite"
	DefaultDSN        = ".tmsadmin/tms.db"
	DefaultSeedsDir   = "seeds"
	DefaultPort       = 8790
	DefaultPageSize   = 10
	DefaultDebounceMs = 300
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{"tmsadmin.yaml", "tmsadmin.yml"}

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "TMSADMIN_"
