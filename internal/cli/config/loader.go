package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// flagKeys maps flag names to config keys. Flags not listed here never
// reach the config (e.g. list --page-size).
var flagKeys = map[string]string{
	"dsn":          "store.dsn",
	"store-driver": "store.driver",
	"seeds-dir":    "seeds_dir",
	"log-level":    "log_level",
	"log-format":   "log_format",
	"verbose":      "verbose",
	"output":       "output",
	"port":         "ui.port",
	"watch":        "ui.watch_seeds",
}

// envSections are the nested sections addressable from the environment:
// TMSADMIN_UI_PORT -> ui.port, TMSADMIN_SEEDS_DIR -> seeds_dir.
var envSections = []string{"store", "ui"}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range envSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// configIn returns the config file inside dir, if any.
func configIn(dir string) string {
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findProjectRootUpward searches upward from startDir for a tmsadmin config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configIn(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit --config file
//  2. Explicit --project-dir flag
//  3. Search upward from CWD for tmsadmin.yaml
//  4. Current working directory
func inferProjectRoot(cfgFile string, flags *pflag.FlagSet) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
		return filepath.Dir(cfgFile)
	}

	if flags != nil && flags.Lookup("project-dir") != nil && flags.Changed("project-dir") {
		if projectDir, _ := flags.GetString("project-dir"); projectDir != "" {
			abs, err := filepath.Abs(projectDir)
			if err == nil {
				return abs
			}
			return filepath.Clean(projectDir)
		}
	}

	cwd, _ := os.Getwd()
	if cwd != "" {
		if root := findProjectRootUpward(cwd); root != "" {
			return root
		}
		return cwd
	}
	return "."
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// isFileDSN reports whether a sqlite DSN names a file on disk.
func isFileDSN(driver, dsn string) bool {
	if driver != "" && driver != "sqlite" && driver != "sqlite3" {
		return false
	}
	return dsn != "" && !strings.HasPrefix(dsn, ":memory:") && !strings.HasPrefix(dsn, "file:")
}

// flagPath returns the absolute value of a path flag the user set, or "".
func flagPath(flags *pflag.FlagSet, name string) string {
	if flags == nil || flags.Lookup(name) == nil || !flags.Changed(name) {
		return ""
	}
	v, _ := flags.GetString(name)
	if v == "" {
		return ""
	}
	abs, err := filepath.Abs(v)
	if err != nil {
		return v
	}
	return abs
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile, flags)

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"store.driver":   DefaultDriver,
		"store.dsn":      DefaultDSN,
		"ui.port":        DefaultPort,
		"ui.watch_seeds": true,
		"ui.page_size":   DefaultPageSize,
		"ui.debounce_ms": DefaultDebounceMs,
		"seeds_dir":      DefaultSeedsDir,
		"log_level":      DefaultLogLevel,
		"log_format":     DefaultLogFormat,
		"verbose":        false,
		"output":         DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		cfgFile = configIn(projectRoot)
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (TMSADMIN_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve relative paths. Paths given as flags are relative to the
	// working directory, everything else to the project root.
	cfg.ProjectRoot = projectRoot
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	cfg.Store.DSN = expandEnvVars(cfg.Store.DSN)
	cfg.UI.SessionSecret = expandEnvVars(cfg.UI.SessionSecret)

	if p := flagPath(flags, "seeds-dir"); p != "" {
		cfg.SeedsDir = p
	} else {
		cfg.SeedsDir = resolvePathRelativeTo(cfg.SeedsDir, projectRoot)
	}
	if isFileDSN(cfg.Store.Driver, cfg.Store.DSN) {
		if p := flagPath(flags, "dsn"); p != "" {
			cfg.Store.DSN = p
		} else {
			cfg.Store.DSN = resolvePathRelativeTo(cfg.Store.DSN, projectRoot)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// NewLogger builds the process logger. Verbose forces debug level.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}
