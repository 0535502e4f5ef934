package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haulwise/tmsadmin/internal/cli/output"
	"github.com/haulwise/tmsadmin/internal/store"
)

// SeedOutput is the JSON form of the seed command's result.
type SeedOutput struct {
	Dir     string   `json:"dir"`
	Kinds   []string `json:"kinds"`
	Files   int      `json:"files"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [dir]",
		Short: "Import seed files into the database",
		Long: `Import the seed files of a directory into the database.

Seed files are named after the kind they hold (drivers.yaml, carriers.csv).
Records are matched by id, so importing a file twice updates the records
instead of duplicating them. Records failing validation are skipped.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Import the configured seeds directory
  tmsadmin seed

  # Import another directory and report as JSON
  tmsadmin seed ./fixtures --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args)
		},
	}

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	dir := cc.Cfg.SeedsDir
	if len(args) == 1 {
		dir = args[0]
	}

	report, err := store.ImportSeeds(cmd.Context(), cc.Store, dir, cc.Logger)
	if err != nil {
		return fmt.Errorf("seed import failed: %w", err)
	}

	return renderSeed(cc.Renderer, dir, report)
}

func renderSeed(r *output.Renderer, dir string, report store.SeedReport) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		kinds := report.Kinds
		if kinds == nil {
			kinds = []string{}
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = dir
		}
		return r.JSON(SeedOutput{
			Dir:     abs,
			Kinds:   kinds,
			Files:   report.Files,
			Created: report.Created,
			Updated: report.Updated,
			Skipped: report.Skipped,
		})

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Seeds"))
		r.Println("")
		if report.Files == 0 {
			r.Println("No seed files found in " + dir)
			return nil
		}
		for _, kind := range report.Kinds {
			r.Println("- " + kind)
		}
		r.Println("")
		r.Println(output.FormatKeyValue("Source Directory", dir))
		r.Printf("**Created:** %d, **Updated:** %d, **Skipped:** %d\n", report.Created, report.Updated, report.Skipped)

	default:
		r.Header(1, "Seeds")
		if report.Files == 0 {
			r.Muted("No seed files found in " + dir)
			return nil
		}
		for _, kind := range report.Kinds {
			r.StatusLine(kind, "success", "")
		}
		r.Println("")
		summary := fmt.Sprintf("%d created, %d updated", report.Created, report.Updated)
		if report.Skipped > 0 {
			r.Warning(fmt.Sprintf("%d records skipped, run with --verbose for details", report.Skipped))
		}
		r.Success(summary)
		r.Muted("Source: " + dir)
	}
	return nil
}
