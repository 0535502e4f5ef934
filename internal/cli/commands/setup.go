package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/haulwise/tmsadmin/internal/cli/config"
	"github.com/haulwise/tmsadmin/internal/cli/output"
	"github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/listing"
	"github.com/haulwise/tmsadmin/internal/starlark"
	"github.com/haulwise/tmsadmin/internal/store"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    store.Store
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an open, migrated store.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutStore(cmd)

	st, err := openStore(cmd.Context(), cc.Cfg, cc.Logger, true)
	if err != nil {
		return nil, nil, err
	}
	cc.Store = st

	return cc, func() { _ = st.Close() }, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a store.
// Useful for commands that don't need database access.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or the defaults when the
// command runs without the root's config loading (tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Store:        config.StoreConfig{Driver: config.DefaultDriver, DSN: config.DefaultDSN},
		UI:           config.UIConfig{Port: config.DefaultPort, WatchSeeds: true, PageSize: config.DefaultPageSize, DebounceMs: config.DefaultDebounceMs},
		SeedsDir:     config.DefaultSeedsDir,
		LogLevel:     config.DefaultLogLevel,
		LogFormat:    config.DefaultLogFormat,
		OutputFormat: config.DefaultOutput,
	}
}

// openStore opens the configured database, optionally bringing its schema
// up to date.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (*store.SQLStore, error) {
	dialect, err := store.DialectFor(cfg.Store.Driver)
	if err != nil {
		return nil, err
	}
	st := store.New(dialect, logger)
	if err := st.Open(cfg.Store.DSN); err != nil {
		return nil, err
	}
	if migrate {
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}
	}
	return st, nil
}

// compilePrograms compiles the computed columns of every configured kind.
// Kinds without computed columns are absent from the map.
func compilePrograms(cfg *config.Config, logger *slog.Logger) (map[string]*starlark.Program, error) {
	programs := make(map[string]*starlark.Program)
	for _, kind := range fleet.Kinds() {
		p, err := starlark.Compile(kind, cfg.Computed(kind.Slug), starlark.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if p != nil {
			programs[kind.Slug] = p
		}
	}
	return programs, nil
}

// listOptions builds the listing options of a kind from the configuration.
func listOptions(cfg *config.Config, logger *slog.Logger, kind fleet.Kind) (listing.Options, error) {
	p, err := starlark.Compile(kind, cfg.Computed(kind.Slug), starlark.WithLogger(logger))
	if err != nil {
		return listing.Options{}, err
	}
	return listing.Options{
		PageSize: cfg.PageSizeFor(kind.Slug),
		Debounce: time.Duration(cfg.UI.DebounceMs) * time.Millisecond,
		Program:  p,
		Logger:   logger,
	}, nil
}

// kindArg resolves a kind slug given on the command line.
func kindArg(slug string) (fleet.Kind, error) {
	kind, err := fleet.Lookup(slug)
	if err != nil {
		return fleet.Kind{}, fmt.Errorf("%w (known kinds: %v)", err, fleet.Slugs())
	}
	return kind, nil
}

// completeKinds completes the kind argument of list and browse.
func completeKinds(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return fleet.Slugs(), cobra.ShellCompDirectiveNoFileComp
}
