package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haulwise/tmsadmin/internal/cli/config"
	"github.com/haulwise/tmsadmin/internal/store"
	"github.com/haulwise/tmsadmin/internal/ui"
	fleetFeature "github.com/haulwise/tmsadmin/internal/ui/features/fleet"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Watch bool
	Seed  bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the back-office console",
		Long: `Start the web console serving the fleet screens.

The database is migrated before the server starts. With --watch, seed files
changed on disk are re-imported and open list screens refresh themselves.`,
		Example: `  # Start on the configured port
  tmsadmin serve

  # Start on a custom port and import seeds first
  tmsadmin serve --port 3000 --seed`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	// port and watch are bound to ui.port and ui.watch_seeds by the loader.
	cmd.Flags().IntVar(&opts.Port, "port", config.DefaultPort, "Port to serve on")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Re-import seed files when they change")
	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "Import seed files before serving")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cc.Cfg
	logger := cc.Logger

	if opts.Seed {
		report, err := store.ImportSeeds(cmd.Context(), cc.Store, cfg.SeedsDir, logger)
		if err != nil {
			return fmt.Errorf("seed import failed: %w", err)
		}
		logger.Info("seeds imported", "files", report.Files, "created", report.Created, "updated", report.Updated)
	}

	programs, err := compilePrograms(cfg, logger)
	if err != nil {
		return err
	}

	secret := cfg.UI.SessionSecret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			return err
		}
		logger.Warn("ui.session_secret is not set, sessions end when the server stops")
	}

	server := ui.NewServer(ui.Config{
		Store:         cc.Store,
		Port:          cfg.UI.Port,
		WatchSeeds:    cfg.UI.WatchSeeds,
		SeedsDir:      cfg.SeedsDir,
		SessionSecret: secret,
		Logger:        logger,
		Fleet: fleetFeature.Config{
			PageSize: cfg.PageSizeFor,
			Debounce: time.Duration(cfg.UI.DebounceMs) * time.Millisecond,
			Programs: programs,
		},
	})

	cc.Renderer.Printf("Starting console on http://localhost:%d\n", cfg.UI.Port)
	cc.Renderer.Muted("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
