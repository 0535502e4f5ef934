package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haulwise/tmsadmin/internal/listing"
	"github.com/haulwise/tmsadmin/internal/store"
	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	Page     int
	PageSize int
	Sort     string
	Filter   string
}

// state converts the options into the table state of the first render.
func (o ListOptions) state() (datatable.State, error) {
	sorting, err := listing.ParseSort(o.Sort)
	if err != nil {
		return datatable.State{}, err
	}
	if o.Page < 1 {
		return datatable.State{}, fmt.Errorf("--page must be at least 1, got %d", o.Page)
	}
	if o.PageSize < 0 {
		return datatable.State{}, fmt.Errorf("--page-size must not be negative, got %d", o.PageSize)
	}
	return datatable.State{
		Pagination:   datatable.PaginationState{PageIndex: o.Page - 1, PageSize: o.PageSize},
		Sorting:      sorting,
		GlobalFilter: o.Filter,
	}, nil
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "Print one page of a fleet list",
		Long: `Print one page of a kind's list screen.

The page is computed by the same table as the console, so filtering, sorting
and paging behave exactly as in the browser. A page beyond the last one shows
the last page.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # First page of drivers
  tmsadmin list drivers

  # Third page of carriers sorted by name, descending
  tmsadmin list carriers --page 3 --sort name:desc

  # Filtered vehicles as JSON
  tmsadmin list vehicles --filter volvo --output json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], *opts)
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "Rows per page (default: configured page size)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort column, optionally suffixed with :asc or :desc")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "Global filter text")

	return cmd
}

func runList(cmd *cobra.Command, slug string, opts ListOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return listPage(cmd.Context(), cc, slug, opts)
}

// listPage renders one page of a kind with the command context's store and
// renderer.
func listPage(ctx context.Context, cc *CommandContext, slug string, opts ListOptions) error {
	kind, err := kindArg(slug)
	if err != nil {
		return err
	}
	state, err := opts.state()
	if err != nil {
		return err
	}
	lopts, err := listOptions(cc.Cfg, cc.Logger, kind)
	if err != nil {
		return err
	}

	l, err := openList(ctx, cc.Store, kind.Slug, state, lopts)
	if err != nil {
		return err
	}
	defer l.Close()

	return renderPage(ctx, cc.Renderer, kind.Title, kind.Slug, l.Render())
}

func openList(ctx context.Context, st store.Store, slug string, state datatable.State, opts listing.Options) (*listing.List, error) {
	kind, err := kindArg(slug)
	if err != nil {
		return nil, err
	}
	if len(state.Sorting) > 0 {
		if err := checkSortColumn(listing.Columns(kind, opts.Program), state.Sorting[0].ColumnID); err != nil {
			return nil, err
		}
	}
	return listing.Open(ctx, st, kind, state, opts)
}

func checkSortColumn(columns []datatable.ColumnDef, id string) error {
	for _, c := range columns {
		if c.Key() != id {
			continue
		}
		if !c.Sortable {
			return fmt.Errorf("%w: column %q is not sortable", listing.ErrInvalidAction, id)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown sort column %q", listing.ErrInvalidAction, id)
}
