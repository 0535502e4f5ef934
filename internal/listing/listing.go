// Package listing binds fleet kinds to datatable tables backed by the store.
//
// A List is built per request (or per REPL session) from a datatable.State,
// receives user actions and hands back the render model and the next state.
// Client and grouped kinds load every record and let the table filter, sort
// and paginate in memory; server kinds query one page at a time and answer the
// table's change callbacks with a fresh query.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/starlark"
	"github.com/haulwise/tmsadmin/internal/store"
	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// Options configures Open.
type Options struct {
	// PageSize is used when the state carries none.
	PageSize int
	// Debounce is reported to renderers for the search input. Filters passed
	// to Apply take effect immediately.
	Debounce time.Duration
	// Program adds the kind's computed columns.
	Program *starlark.Program
	Logger  *slog.Logger
}

// List is one kind's table for the duration of a request.
type List struct {
	ctx     context.Context
	kind    fleet.Kind
	st      store.Store
	opts    Options
	logger  *slog.Logger
	base    datatable.Options
	table   *datatable.Table
	query   datatable.State
	clicked datatable.Row
	err     error
}

// Open loads the data the kind's mode needs and mounts the table with state.
func Open(ctx context.Context, st store.Store, kind fleet.Kind, state datatable.State, opts Options) (*List, error) {
	if opts.PageSize < 1 {
		opts.PageSize = datatable.DefaultPageSize
	}
	if state.Pagination.PageSize < 1 {
		state.Pagination.PageSize = opts.PageSize
	}
	if state.Pagination.PageIndex < 0 {
		state.Pagination.PageIndex = 0
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	l := &List{
		ctx:    ctx,
		kind:   kind,
		st:     st,
		opts:   opts,
		logger: opts.Logger.With(slog.String("kind", kind.Slug)),
	}

	base := datatable.DefaultOptions()
	base.Columns = Columns(kind, opts.Program)
	base.EnableRowSelection = true
	base.EnableFixedFirstColumn = true
	base.PageSize = state.Pagination.PageSize
	base.State = &state
	base.OnRowClick = func(row datatable.Row) { l.clicked = row }
	base.FilterExcludeKeys = append(slices.Clone(fleet.UnsearchedKeys), computedKeys(opts.Program)...)
	state.Sorting = validSorting(base.Columns, state.Sorting)

	switch kind.Mode {
	case datatable.ModeServer:
		l.query = datatable.State{
			Pagination:   state.Pagination,
			Sorting:      state.Sorting,
			GlobalFilter: state.GlobalFilter,
		}
		if err := l.fetch(&base); err != nil {
			return nil, err
		}

	case datatable.ModeGrouped:
		groups, err := l.loadGroups()
		if err != nil {
			return nil, err
		}
		opts.Program.ApplyGroups(groups)
		base.IsGrouped = true
		base.Groups = groups
		base.GroupColumns = kind.GroupColumns()

	default:
		records, err := st.ListAll(ctx, kind.Slug)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", kind.Slug, err)
		}
		rows := kind.Rows(records)
		opts.Program.Apply(rows)
		base.Data = rows
	}

	t, err := datatable.New(base)
	if err != nil {
		return nil, err
	}
	l.base = base
	l.table = t
	return l, nil
}

// Columns returns the table columns of a kind followed by its computed
// columns. Computed columns sort only where rows are held in memory.
func Columns(kind fleet.Kind, p *starlark.Program) []datatable.ColumnDef {
	return append(kind.ColumnDefs(), p.ColumnDefs(kind.Mode != datatable.ModeServer)...)
}

// computedKeys names the computed columns, which are derived for display and
// never stored in the search text.
func computedKeys(p *starlark.Program) []string {
	var keys []string
	for _, c := range p.Columns() {
		keys = append(keys, c.ID)
	}
	return keys
}

// validSorting drops sort entries for columns that are unknown or not
// sortable, e.g. stale state sent by an old page.
func validSorting(columns []datatable.ColumnDef, s datatable.SortingState) datatable.SortingState {
	var out datatable.SortingState
	for _, spec := range s {
		for _, c := range columns {
			if c.Key() == spec.ColumnID && c.Sortable {
				out = append(out, spec)
				break
			}
		}
	}
	return out
}

func (l *List) loadGroups() ([]datatable.GroupedRow, error) {
	teams, err := l.st.ListAll(l.ctx, l.kind.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", l.kind.Slug, err)
	}
	drivers, err := l.st.ListAll(l.ctx, fleet.Drivers)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", fleet.Drivers, err)
	}
	byID := make(map[string]fleet.Record, len(drivers))
	for _, d := range drivers {
		byID[d.ID] = d
	}
	// Teams without listed drivers would take a page slot with nothing to show.
	groups := fleet.TeamGroups(teams, byID)
	visible := groups[:0]
	for _, g := range groups {
		if len(g.Items) == 0 {
			l.logger.Debug("skipping group without rows", slog.String("group", g.GroupID))
			continue
		}
		visible = append(visible, g)
	}
	return visible, nil
}

// fetch queries the page described by l.query into o. A page index beyond
// the last page is pulled back and queried again.
func (l *List) fetch(o *datatable.Options) error {
	q := l.query
	size := q.Pagination.PageSize
	lq := store.ListQuery{
		Offset: q.Pagination.PageIndex * size,
		Limit:  size,
		Filter: q.GlobalFilter,
	}
	if spec, ok := q.Sorting.Active(); ok {
		lq.SortKey = spec.ColumnID
		lq.SortDesc = spec.Direction == datatable.SortDescending
	}

	records, total, err := l.st.Query(l.ctx, l.kind.Slug, lq)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", l.kind.Slug, err)
	}
	pages := max(1, (total+size-1)/size)
	if q.Pagination.PageIndex > pages-1 {
		l.query.Pagination.PageIndex = pages - 1
		return l.fetch(o)
	}

	rows := l.kind.Rows(records)
	l.opts.Program.Apply(rows)
	o.Data = rows
	o.ServerSide = datatable.ServerSide{
		Enabled:              true,
		OnPaginationChange:   l.onPagination,
		OnSortingChange:      l.onSorting,
		OnGlobalFilterChange: l.onFilter,
		PageCount:            pages,
		TotalCount:           total,
		CurrentPage:          q.Pagination.PageIndex,
		PageSize:             size,
		Sorting:              q.Sorting,
		GlobalFilter:         q.GlobalFilter,
	}
	return nil
}

func (l *List) onPagination(next datatable.PaginationState) {
	l.query.Pagination = next
	l.refresh()
}

func (l *List) onSorting(next datatable.SortingState) {
	l.query.Sorting = next
	l.refresh()
}

func (l *List) onFilter(value string) {
	l.query.GlobalFilter = value
	l.query.Pagination.PageIndex = 0
	l.refresh()
}

// refresh re-queries after a server-mode state change and feeds the result
// back into the table.
func (l *List) refresh() {
	o := l.base
	if err := l.fetch(&o); err != nil {
		l.logger.Error("list refresh failed", "error", err)
		l.err = err
		return
	}
	if err := l.table.Update(o); err != nil {
		l.err = err
		return
	}
	l.base = o
}

// Kind returns the listed kind.
func (l *List) Kind() fleet.Kind {
	return l.kind
}

// Table returns the mounted table.
func (l *List) Table() *datatable.Table {
	return l.table
}

// Apply performs one user action. Errors from server-mode queries raised by
// the table's callbacks are returned here too.
func (l *List) Apply(a Action) error {
	l.err = nil
	if err := l.apply(a); err != nil {
		return err
	}
	return l.err
}

func (l *List) apply(a Action) error {
	t := l.table
	switch a.Name {
	case ActionNone, ActionRefresh:
		return nil
	case ActionFirst:
		t.GoToPage(0)
	case ActionPrevious:
		t.PreviousPage()
	case ActionNext:
		t.NextPage()
	case ActionLast:
		t.GoToPage(t.PageCount() - 1)
	case ActionPage:
		t.GoToPage(a.Page)
	case ActionPageSize:
		if a.PageSize < 1 {
			return fmt.Errorf("%w: page size must be positive", ErrInvalidAction)
		}
		t.SetPageSize(a.PageSize)
	case ActionSort:
		return t.ToggleSort(a.Column)
	case ActionFilter:
		t.SetGlobalFilter(a.Filter)
		t.GoToPage(0)
	case ActionSelect:
		return t.SetRowSelected(a.RowID, a.Checked)
	case ActionToggle:
		return t.ToggleRowSelected(a.RowID)
	case ActionSelectPage:
		return t.SetPageRowsSelected(a.Checked)
	case ActionTogglePage:
		return t.TogglePageRowsSelected()
	case ActionClearSelection:
		t.ClearSelection()
	case ActionClick:
		return t.ClickRow(a.RowID)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, a.Name)
	}
	return nil
}

// Clicked returns the row of the last ActionClick.
func (l *List) Clicked() (datatable.Row, bool) {
	return l.clicked, l.clicked != nil
}

// Render returns the render model with the search debounce of Options.
func (l *List) Render() datatable.RenderModel {
	m := l.table.Render()
	m.Search.DebounceMs = l.opts.Debounce.Milliseconds()
	return m
}

// State returns the state to carry into the next request.
func (l *List) State() datatable.State {
	return l.table.Snapshot()
}

// SelectedRows returns the selected records resolvable in the loaded data.
func (l *List) SelectedRows() []datatable.Row {
	return l.table.SelectedRows()
}

// Close unmounts the table.
func (l *List) Close() {
	l.table.Close()
}

// DetailHref returns the detail page of a row. Team member rows link to the
// driver.
func DetailHref(kind fleet.Kind, row datatable.Row) string {
	if kind.IsGrouped() {
		if id := datatable.FormatValue(row["driver_id"]); id != "" {
			return "/fleet/" + fleet.Drivers + "/" + id
		}
	}
	return kind.Href() + "/" + datatable.FormatValue(row["id"])
}

// ErrInvalidAction is returned by Apply for unknown or malformed actions.
var ErrInvalidAction = errors.New("invalid table action")
