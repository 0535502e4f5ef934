package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/haulwise/tmsadmin/internal/cli/output"
	"github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/listing"
	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "browse <kind>",
		Short: "Page through a fleet list interactively",
		Long: `Open an interactive prompt over a kind's list.

Each command changes the table state and prints the resulting page. Rows are
addressed by their number on the page or by their id.`,
		Example: `  # Browse drivers
  tmsadmin browse drivers

  # Start on page 2, sorted by last name
  tmsadmin browse drivers --page 2 --sort last_name`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, args[0], *opts)
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "Initial page number, starting at 1")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "Rows per page (default: configured page size)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Initial sort column, optionally suffixed with :asc or :desc")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "Initial filter text")

	return cmd
}

// browser executes prompt commands against one list.
type browser struct {
	ctx   context.Context
	list  *listing.List
	r     *output.Renderer
	title string
}

func newBrowser(ctx context.Context, cc *CommandContext, slug string, opts ListOptions) (*browser, error) {
	kind, err := kindArg(slug)
	if err != nil {
		return nil, err
	}
	state, err := opts.state()
	if err != nil {
		return nil, err
	}
	lopts, err := listOptions(cc.Cfg, cc.Logger, kind)
	if err != nil {
		return nil, err
	}
	l, err := openList(ctx, cc.Store, kind.Slug, state, lopts)
	if err != nil {
		return nil, err
	}
	return &browser{ctx: ctx, list: l, r: cc.Renderer, title: kind.Title}, nil
}

func (b *browser) Close() {
	b.list.Close()
}

func (b *browser) render() error {
	return renderPage(b.ctx, b.r, b.title, b.list.Kind().Slug, b.list.Render())
}

// errQuit ends the prompt loop.
var errQuit = errors.New("quit")

// exec runs one prompt line. Table actions print the resulting page.
func (b *browser) exec(line string) error {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var a listing.Action
	switch strings.ToLower(name) {
	case "":
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		printBrowseHelp(b.r.Writer())
		return nil
	case "show", "ls":
		a.Name = listing.ActionRefresh
	case "next", "n":
		a.Name = listing.ActionNext
	case "prev", "p":
		a.Name = listing.ActionPrevious
	case "first":
		a.Name = listing.ActionFirst
	case "last":
		a.Name = listing.ActionLast
	case "page":
		n, err := positive(arg, "page")
		if err != nil {
			return err
		}
		a = listing.Action{Name: listing.ActionPage, Page: n - 1}
	case "size":
		n, err := positive(arg, "size")
		if err != nil {
			return err
		}
		a = listing.Action{Name: listing.ActionPageSize, PageSize: n}
	case "sort":
		if arg == "" {
			return errors.New("usage: sort <column>")
		}
		a = listing.Action{Name: listing.ActionSort, Column: arg}
	case "filter":
		a = listing.Action{Name: listing.ActionFilter, Filter: arg}
	case "select":
		id, err := b.rowID(arg)
		if err != nil {
			return err
		}
		a = listing.Action{Name: listing.ActionToggle, RowID: id}
	case "selectall":
		a.Name = listing.ActionTogglePage
	case "clear":
		a.Name = listing.ActionClearSelection
	case "selected":
		b.printSelected()
		return nil
	case "open":
		id, err := b.rowID(arg)
		if err != nil {
			return err
		}
		if err := b.list.Apply(listing.Action{Name: listing.ActionClick, RowID: id}); err != nil {
			return err
		}
		if row, ok := b.list.Clicked(); ok {
			b.r.Println(listing.DetailHref(b.list.Kind(), row))
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q (type help for commands)", name)
	}

	if err := b.list.Apply(a); err != nil {
		return err
	}
	return b.render()
}

// rowID resolves a row number on the current page or a row id.
func (b *browser) rowID(arg string) (string, error) {
	if arg == "" {
		return "", errors.New("a row number or id is required")
	}
	rows := b.list.Render().Rows
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(rows) {
		return rows[n-1].ID, nil
	}
	return arg, nil
}

func (b *browser) printSelected() {
	rows := b.list.SelectedRows()
	if len(rows) == 0 {
		b.r.Muted("No rows selected")
		return
	}
	kind := b.list.Kind()
	for _, row := range rows {
		b.r.Println(fmt.Sprintf("%s  %s", datatable.FormatValue(row["id"]), rowLabel(kind, row)))
	}
}

func rowLabel(kind fleet.Kind, row datatable.Row) string {
	parts := make([]string, 0, len(kind.Label))
	for _, key := range kind.Label {
		if v := datatable.FormatValue(row[key]); v != "" {
			parts = append(parts, v)
		}
	}
	if kind.IsGrouped() {
		if v := datatable.FormatValue(row["driver_name"]); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func positive(arg, what string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("usage: %s <number greater than 0>", what)
	}
	return n, nil
}

func printBrowseHelp(w io.Writer) {
	help := `
Commands:
  next, prev         Move one page
  first, last        Jump to the first or last page
  page <n>           Go to page n
  size <n>           Show n rows per page
  sort <column>      Cycle the sort of a column (asc, desc, none)
  filter [text]      Filter rows, empty text clears the filter
  select <row>       Toggle the selection of a row (number or id)
  selectall          Toggle the selection of every row on the page
  clear              Clear the selection
  selected           List the selected rows
  open <row>         Print the console link of a row
  show               Print the current page
  help               Show this help message
  quit               Exit
`
	_, _ = fmt.Fprintln(w, help)
}

func runBrowse(cmd *cobra.Command, slug string, opts ListOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	b, err := newBrowser(cmd.Context(), cc, slug, opts)
	if err != nil {
		return err
	}
	defer b.Close()

	historyFile := ""
	if cc.Cfg.ProjectRoot != "" {
		historyFile = filepath.Join(cc.Cfg.ProjectRoot, ".tmsadmin", "browse_history")
	}
	prompt := b.list.Kind().Slug + "> "

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		AutoComplete:    newBrowseCompleter(b.list),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize prompt: %w", err)
	}
	defer func() { _ = rl.Close() }()

	cc.Renderer.Muted("Type help for commands, quit to exit")
	if err := b.render(); err != nil {
		return err
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := b.exec(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			cc.Renderer.Error(err.Error())
		}
	}
}

// newBrowseCompleter completes prompt commands and sortable columns.
func newBrowseCompleter(l *listing.List) *readline.PrefixCompleter {
	var columns []readline.PrefixCompleterInterface
	for _, h := range l.Render().Headers {
		if h.Sortable {
			columns = append(columns, readline.PcItem(h.ColumnID))
		}
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("next"),
		readline.PcItem("prev"),
		readline.PcItem("first"),
		readline.PcItem("last"),
		readline.PcItem("page"),
		readline.PcItem("size"),
		readline.PcItem("sort", columns...),
		readline.PcItem("filter"),
		readline.PcItem("select"),
		readline.PcItem("selectall"),
		readline.PcItem("clear"),
		readline.PcItem("selected"),
		readline.PcItem("open"),
		readline.PcItem("show"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}
