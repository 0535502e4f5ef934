package datatable

import (
	"fmt"
	"sync"
)

// Table is one mounted table instance. It is safe for concurrent use; change
// callbacks are invoked after the internal lock is released, so they may call
// back into the table (typically Update in server mode).
type Table struct {
	mu sync.Mutex

	opts      Options
	columns   map[string]int
	groupCols map[string]bool
	// filterSkip holds the fields the global filter ignores.
	filterSkip map[string]bool
	auth      *PaginationAuthority

	// Internal sorting and filtering, unused in server mode.
	sorting SortingState
	filter  string

	// filterInput is the last value typed into the search box. It differs from
	// filter while a debounced application is pending.
	filterInput string

	selection RowSelectionState
	debouncer *Debouncer
	closed    bool
}

// New mounts a table. The pagination authority is chosen here and stays fixed.
func New(opts Options) (*Table, error) {
	if len(opts.Columns) == 0 {
		return nil, ErrNoColumns
	}
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}

	t := &Table{
		opts:      opts,
		selection: RowSelectionState{},
		debouncer: NewDebouncer(opts.Debounce),
	}
	t.indexColumns()

	initial := PaginationState{PageIndex: 0, PageSize: opts.PageSize}
	if opts.State != nil {
		if opts.State.Pagination.PageSize > 0 {
			initial = opts.State.Pagination
		}
		t.sorting = singleSort(opts.State.Sorting)
		t.filter = opts.State.GlobalFilter
		t.filterInput = opts.State.GlobalFilter
		t.selection = opts.State.Selection.clone()
	}

	mode := resolveMode(opts)
	t.auth = newAuthority(mode, initial, &t.opts.ServerSide)
	if mode == ModeServer {
		t.filterInput = opts.ServerSide.GlobalFilter
	} else {
		t.auth.clampIndex(t.compute().pageCount)
	}
	return t, nil
}

func (t *Table) indexColumns() {
	t.columns = make(map[string]int, len(t.opts.Columns))
	for i, c := range t.opts.Columns {
		t.columns[c.Key()] = i
	}
	t.groupCols = make(map[string]bool, len(t.opts.GroupColumns))
	for _, key := range t.opts.GroupColumns {
		t.groupCols[key] = true
	}
	t.filterSkip = make(map[string]bool, len(t.opts.FilterExcludeKeys))
	for _, key := range t.opts.FilterExcludeKeys {
		t.filterSkip[key] = true
	}
}

func (t *Table) column(id string) (ColumnDef, bool) {
	i, ok := t.columns[id]
	if !ok {
		return ColumnDef{}, false
	}
	return t.opts.Columns[i], true
}

// singleSort keeps the first active entry; tables sort by one column at a time.
func singleSort(s SortingState) SortingState {
	if spec, ok := s.Active(); ok {
		return SortingState{spec}
	}
	return nil
}

// Mode returns the active pagination authority.
func (t *Table) Mode() Mode {
	return t.auth.Mode()
}

// Pagination returns the current page state.
func (t *Table) Pagination() PaginationState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.auth.State()
}

// PageCount returns the number of pages, never less than 1.
func (t *Table) PageCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.compute().pageCount
}

// TotalCount returns the number of records the pager reports: filtered rows in
// client mode, groups in grouped mode, the caller's total in server mode.
func (t *Table) TotalCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.compute().totalCount
}

// Sorting returns the active sorting state.
func (t *Table) Sorting() SortingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sortingLocked().clone()
}

func (t *Table) sortingLocked() SortingState {
	if t.auth.Mode() == ModeServer {
		return t.opts.ServerSide.Sorting
	}
	return t.sorting
}

// GlobalFilter returns the filter currently applied to the rows.
func (t *Table) GlobalFilter() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.auth.Mode() == ModeServer {
		return t.opts.ServerSide.GlobalFilter
	}
	return t.filter
}

// Snapshot returns the internally owned state for restoring via Options.State.
func (t *Table) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{
		Pagination:   t.auth.State(),
		Sorting:      t.sortingLocked().clone(),
		GlobalFilter: t.filterInput,
		Selection:    t.selection.clone(),
	}
}

// GoToPage moves to page n, clamped to [0, pageCount-1].
func (t *Table) GoToPage(n int) {
	t.navigate(func(cur PaginationState) PaginationState {
		cur.PageIndex = n
		return cur
	})
}

// NextPage moves one page forward. On the last page it does nothing.
func (t *Table) NextPage() {
	t.navigate(func(cur PaginationState) PaginationState {
		cur.PageIndex++
		return cur
	})
}

// PreviousPage moves one page back. On the first page it does nothing.
func (t *Table) PreviousPage() {
	t.navigate(func(cur PaginationState) PaginationState {
		cur.PageIndex--
		return cur
	})
}

// SetPageSize changes the page size and returns to the first page.
func (t *Table) SetPageSize(n int) {
	if n < 1 {
		n = 1
	}
	t.navigate(func(_ PaginationState) PaginationState {
		return PaginationState{PageIndex: 0, PageSize: n}
	})
}

// navigate computes the next page state, clamps it and hands it to the
// authority. Unchanged state and loading tables are no-ops.
func (t *Table) navigate(next func(cur PaginationState) PaginationState) {
	t.mu.Lock()
	if t.closed || t.opts.IsLoading {
		t.mu.Unlock()
		return
	}
	cur := t.auth.State()
	n := next(cur)
	if n.PageSize == cur.PageSize {
		n.PageIndex = clamp(n.PageIndex, 0, t.compute().pageCount-1)
	}
	if n == cur {
		t.mu.Unlock()
		return
	}
	emit := t.auth.dispatch(n)
	t.mu.Unlock()

	if emit != nil {
		emit()
	}
}

// ToggleSort advances a column through none -> asc -> desc -> none. Any other
// column loses its sort.
func (t *Table) ToggleSort(columnID string) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	col, ok := t.column(columnID)
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownColumn, columnID)
	}
	if !col.Sortable {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrColumnNotSortable, columnID)
	}

	var next SortingState
	if dir := t.sortingLocked().DirectionFor(columnID).Next(); dir != SortNone {
		next = SortingState{{ColumnID: columnID, Direction: dir}}
	}
	emit := t.applySortingLocked(next)
	t.mu.Unlock()

	if emit != nil {
		emit()
	}
	return nil
}

// SetSorting replaces the sorting state. Only the first active entry is kept.
func (t *Table) SetSorting(s SortingState) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	next := singleSort(s)
	for _, spec := range next {
		col, ok := t.column(spec.ColumnID)
		if !ok {
			t.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrUnknownColumn, spec.ColumnID)
		}
		if !col.Sortable {
			t.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrColumnNotSortable, spec.ColumnID)
		}
	}
	emit := t.applySortingLocked(next)
	t.mu.Unlock()

	if emit != nil {
		emit()
	}
	return nil
}

func (t *Table) applySortingLocked(next SortingState) func() {
	if t.auth.Mode() == ModeServer {
		cb := t.opts.ServerSide.OnSortingChange
		if cb == nil {
			return nil
		}
		return func() { cb(next) }
	}
	t.sorting = next
	return nil
}

// SetGlobalFilter records a keystroke in the search box. The filter is applied
// (or OnGlobalFilterChange raised) once Options.Debounce passes without
// another call; only the last value is used.
func (t *Table) SetGlobalFilter(value string) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.filterInput = value
	d := t.debouncer
	t.mu.Unlock()

	d.Trigger(func() { t.applyGlobalFilter(value) })
}

// FilterPending reports whether a debounced filter has not been applied yet.
func (t *Table) FilterPending() bool {
	return t.debouncer.Pending()
}

func (t *Table) applyGlobalFilter(value string) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	if t.auth.Mode() == ModeServer {
		cb := t.opts.ServerSide.OnGlobalFilterChange
		t.mu.Unlock()
		if cb != nil {
			cb(value)
		}
		return
	}
	if t.filter != value {
		t.filter = value
		size := t.auth.State().PageSize
		t.auth.dispatch(PaginationState{PageIndex: 0, PageSize: size})
	}
	t.mu.Unlock()
}

// SetRowSelected selects or deselects one row.
func (t *Table) SetRowSelected(id string, selected bool) error {
	t.mu.Lock()
	if err := t.selectableLocked(); err != nil {
		t.mu.Unlock()
		return err
	}
	if _, ok := t.findLocked(id); !ok {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	before := t.selection.key()
	t.setSelectedLocked(id, selected)
	emit := t.selectionChangedLocked(before)
	t.mu.Unlock()

	if emit != nil {
		emit()
	}
	return nil
}

// ToggleRowSelected flips the selection of one row.
func (t *Table) ToggleRowSelected(id string) error {
	t.mu.Lock()
	selected := t.selection[id]
	t.mu.Unlock()
	return t.SetRowSelected(id, !selected)
}

// SetPageRowsSelected selects or deselects every row on the current page.
// Rows on other pages are left as they are.
func (t *Table) SetPageRowsSelected(selected bool) error {
	t.mu.Lock()
	if err := t.selectableLocked(); err != nil {
		t.mu.Unlock()
		return err
	}
	before := t.selection.key()
	for _, vr := range t.compute().rows {
		t.setSelectedLocked(vr.id, selected)
	}
	emit := t.selectionChangedLocked(before)
	t.mu.Unlock()

	if emit != nil {
		emit()
	}
	return nil
}

// TogglePageRowsSelected selects the page unless every row on it is selected,
// in which case it deselects the page.
func (t *Table) TogglePageRowsSelected() error {
	t.mu.Lock()
	all := t.selectAllLocked(t.compute().rows).Checked
	t.mu.Unlock()
	return t.SetPageRowsSelected(!all)
}

// ClearSelection deselects every row.
func (t *Table) ClearSelection() {
	t.mu.Lock()
	before := t.selection.key()
	t.selection = RowSelectionState{}
	emit := t.selectionChangedLocked(before)
	t.mu.Unlock()

	if emit != nil {
		emit()
	}
}

// Selection returns the selected row identifiers.
func (t *Table) Selection() RowSelectionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selection.clone()
}

// SelectedRows returns the selected records as supplied by the caller, in data
// order. Selected identifiers not present in the current data are skipped.
func (t *Table) SelectedRows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selectedRowsLocked()
}

func (t *Table) selectableLocked() error {
	if t.closed {
		return ErrClosed
	}
	if !t.opts.EnableRowSelection {
		return ErrSelectionDisabled
	}
	return nil
}

func (t *Table) setSelectedLocked(id string, selected bool) {
	if selected {
		t.selection[id] = true
	} else {
		delete(t.selection, id)
	}
}

func (t *Table) selectedRowsLocked() []Row {
	var rows []Row
	for _, vr := range t.allRows() {
		if t.selection[vr.id] {
			rows = append(rows, vr.original)
		}
	}
	return rows
}

// selectionChangedLocked returns the OnSelectionChange call when the
// serialized selection differs from before.
func (t *Table) selectionChangedLocked(before string) func() {
	cb := t.opts.OnSelectionChange
	if cb == nil || t.selection.key() == before {
		return nil
	}
	rows := t.selectedRowsLocked()
	return func() { cb(rows) }
}

func (t *Table) findLocked(id string) (viewRow, bool) {
	for _, vr := range t.allRows() {
		if vr.id == id {
			return vr, true
		}
	}
	return viewRow{}, false
}

// ClickRow raises OnRowClick for a row.
func (t *Table) ClickRow(id string) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	vr, ok := t.findLocked(id)
	cb := t.opts.OnRowClick
	t.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	if cb != nil {
		cb(vr.original)
	}
	return nil
}

// SetLoading toggles the loading placeholder. While loading, navigation is inert.
func (t *Table) SetLoading(loading bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.opts.IsLoading = loading
}

// Update replaces the options the caller controls (data, server-side numbers,
// toggles) while keeping internally owned state. It fails with ErrModeSwitch
// if the new options select another pagination authority.
func (t *Table) Update(opts Options) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if len(opts.Columns) == 0 {
		return ErrNoColumns
	}
	if mode := resolveMode(opts); mode != t.auth.Mode() {
		return fmt.Errorf("%w: %s -> %s", ErrModeSwitch, t.auth.Mode(), mode)
	}
	if opts.PageSize < 1 {
		opts.PageSize = t.opts.PageSize
	}
	t.opts = opts
	t.indexColumns()
	if t.auth.Mode() == ModeServer {
		t.filterInput = opts.ServerSide.GlobalFilter
	} else {
		t.auth.clampIndex(t.compute().pageCount)
	}
	return nil
}

// Close unmounts the table: the pending filter timer is stopped and further
// operations are ignored or fail with ErrClosed.
func (t *Table) Close() {
	t.mu.Lock()
	t.closed = true
	d := t.debouncer
	t.mu.Unlock()
	d.Close()
}
