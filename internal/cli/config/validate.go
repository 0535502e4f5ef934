package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/starlark"
	"github.com/haulwise/tmsadmin/internal/store"
)

// Validate checks if the configuration is valid. Computed columns are
// compiled so expression errors surface at startup.
func (c *Config) Validate() error {
	var errs []error

	if _, err := store.DialectFor(c.Store.Driver); err != nil {
		errs = append(errs, fmt.Errorf("store.driver: %w", err))
	}
	if c.Store.DSN == "" {
		errs = append(errs, errors.New("store.dsn is required"))
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port %d is out of range", c.UI.Port))
	}
	if c.UI.PageSize < 0 {
		errs = append(errs, fmt.Errorf("ui.page_size must not be negative, got %d", c.UI.PageSize))
	}
	if c.UI.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("ui.debounce_ms must not be negative, got %d", c.UI.DebounceMs))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log_format %q (want text or json)", c.LogFormat))
	}
	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid output %q (want auto, text, markdown or json)", c.OutputFormat))
	}

	for slug, table := range c.Tables {
		kind, err := fleet.Lookup(slug)
		if err != nil {
			errs = append(errs, fmt.Errorf("tables: %w", err))
			continue
		}
		if table.PageSize < 0 {
			errs = append(errs, fmt.Errorf("tables.%s.page_size must not be negative", slug))
		}
		if _, err := starlark.Compile(kind, table.Computed); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ValidateSeedsDir checks that the seeds directory exists.
func (c *Config) ValidateSeedsDir() error {
	info, err := os.Stat(c.SeedsDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("seeds directory does not exist: %s\nHint: Create the directory or use --seeds-dir to specify a different path", c.SeedsDir)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("seeds path is not a directory: %s", c.SeedsDir)
	}
	return nil
}
