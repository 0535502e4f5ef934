package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haulwise/tmsadmin/internal/cli/output"
	"github.com/haulwise/tmsadmin/internal/store"
)

// MigrateOutput is the JSON form of the migrate command's result.
type MigrateOutput struct {
	Driver  string `json:"driver"`
	Current int64  `json:"current"`
	Latest  int64  `json:"latest"`
	Pending int    `json:"pending"`
	Applied bool   `json:"applied"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Bring the database schema up to date.

With --status the schema version is reported and nothing is applied.`,
		Example: `  # Apply pending migrations
  tmsadmin migrate

  # Show the schema version
  tmsadmin migrate --status`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, status)
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "Print the schema version without migrating")

	return cmd
}

func runMigrate(cmd *cobra.Command, statusOnly bool) error {
	cc := NewCommandContextWithoutStore(cmd)
	st, err := openStore(cmd.Context(), cc.Cfg, cc.Logger, false)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if !statusOnly {
		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}
	}
	status, err := st.MigrationStatus(cmd.Context())
	if err != nil {
		return err
	}

	return renderMigrate(cc.Renderer, st.Dialect().Name, status, !statusOnly)
}

func renderMigrate(r *output.Renderer, driver string, status store.MigrationStatus, applied bool) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(MigrateOutput{
			Driver:  driver,
			Current: status.Current,
			Latest:  status.Latest,
			Pending: status.Pending,
			Applied: applied,
		})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Migrations"))
		r.Println("")
		r.Println(output.FormatKeyValue("Driver", driver))
		r.Println(output.FormatKeyValue("Version", fmt.Sprintf("%d of %d", status.Current, status.Latest)))
		r.Println(output.FormatKeyValue("Pending", fmt.Sprint(status.Pending)))
	default:
		r.Header(1, "Migrations")
		if status.UpToDate() {
			r.Success(fmt.Sprintf("Schema is up to date (version %d, %s)", status.Current, driver))
		} else {
			r.Warning(fmt.Sprintf("%d pending migrations (version %d of %d, %s)", status.Pending, status.Current, status.Latest, driver))
		}
	}
	return nil
}
