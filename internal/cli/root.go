// Package cli provides the command-line interface for tmsadmin.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haulwise/tmsadmin/internal/cli/commands"
	"github.com/haulwise/tmsadmin/internal/cli/config"
	"github.com/haulwise/tmsadmin/internal/cli/output"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tmsadmin",
		Short: "tmsadmin - TMS back-office console",
		Long: `tmsadmin runs the back-office console of the transport management system.

It serves the fleet screens (carriers, drivers, driver teams, trailers,
vehicles, partner carriers, fuel cards and contacts), imports seed data and
prints the same paginated lists in the terminal.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger, err := cfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			// Store config, logger and renderer in context
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			mode := output.Mode(cfg.OutputFormat)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			ctx = context.WithValue(ctx, rendererKey{}, renderer)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./tmsadmin.yaml)")
	pf.String("project-dir", "", "Project directory holding tmsadmin.yaml")
	pf.String("seeds-dir", "", "Path to seeds directory")
	pf.String("store-driver", "", "Database driver (sqlite|postgres)")
	pf.String("dsn", "", "Database file (sqlite) or connection string (postgres)")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.String("log-format", "", "Log format (text|json)")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for enumerated flags
	_ = rootCmd.RegisterFlagCompletionFunc("output", fixedCompletion("auto", "text", "markdown", "json"))
	_ = rootCmd.RegisterFlagCompletionFunc("store-driver", fixedCompletion("sqlite", "postgres"))
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", fixedCompletion("debug", "info", "warn", "error"))
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", fixedCompletion("text", "json"))

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewBrowseCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return &config.Config{
		Store:        config.StoreConfig{Driver: config.DefaultDriver, DSN: config.DefaultDSN},
		SeedsDir:     config.DefaultSeedsDir,
		LogLevel:     config.DefaultLogLevel,
		LogFormat:    config.DefaultLogFormat,
		OutputFormat: config.DefaultOutput,
	}
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	// Return default renderer if none in context
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tmsadmin.

To load completions:

Bash:
  $ source <(tmsadmin completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ tmsadmin completion bash > /etc/bash_completion.d/tmsadmin
  # macOS:
  $ tmsadmin completion bash > $(brew --prefix)/etc/bash_completion.d/tmsadmin

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ tmsadmin completion zsh > "${fpath[1]}/_tmsadmin"

Fish:
  $ tmsadmin completion fish | source

  # To load completions for each session, execute once:
  $ tmsadmin completion fish > ~/.config/fish/completions/tmsadmin.fish

PowerShell:
  PS> tmsadmin completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
