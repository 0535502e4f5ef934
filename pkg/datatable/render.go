package datatable

import "fmt"

// Placeholder says what fills the body instead of data rows.
type Placeholder int

const (
	// PlaceholderNone means rows are rendered.
	PlaceholderNone Placeholder = iota
	// PlaceholderLoading replaces rows while data is loading.
	PlaceholderLoading
	// PlaceholderNoData is shown when there is nothing to render.
	PlaceholderNoData
)

// Placeholder texts.
const (
	LoadingText = "Loading..."
	NoDataText  = "No data available"
)

// RenderModel is a framework-agnostic description of what to draw.
type RenderModel struct {
	Mode Mode

	ShowHeader       bool
	ShowSearch       bool
	ShowPagination   bool
	RowSelection     bool
	FixedFirstColumn bool
	FixedColumnWidth int

	Headers []HeaderCell
	Rows    []RenderRow

	Placeholder Placeholder
	// ColSpan is the number of rendered columns including the selection column.
	ColSpan int

	SelectAll SelectAllState
	Search    SearchState
	Pager     Pager
}

// PlaceholderText returns the text of the active placeholder.
func (m RenderModel) PlaceholderText() string {
	switch m.Placeholder {
	case PlaceholderLoading:
		return LoadingText
	case PlaceholderNoData:
		return NoDataText
	default:
		return ""
	}
}

// HeaderCell is one column header.
type HeaderCell struct {
	ColumnID  string
	Label     string
	Sortable  bool
	Direction SortDirection
}

// Indicator returns the sort arrow for the header.
func (h HeaderCell) Indicator() string {
	switch h.Direction {
	case SortAscending:
		return "▲"
	case SortDescending:
		return "▼"
	default:
		return ""
	}
}

// AriaSort returns the aria-sort attribute value.
func (h HeaderCell) AriaSort() string {
	switch h.Direction {
	case SortAscending:
		return "ascending"
	case SortDescending:
		return "descending"
	default:
		return "none"
	}
}

// RenderRow is one displayed body row.
type RenderRow struct {
	ID         string
	Cells      []RenderCell
	Selected   bool
	GroupID    string
	GroupStart bool
	// Row is the flattened row the cells were produced from.
	Row Row
}

// RenderCell is one displayed cell. Cells of group columns appear only on the
// first row of a group, with RowSpan equal to the group's size.
type RenderCell struct {
	ColumnID string
	Text     string
	RowSpan  int

	// Group marks cells of group columns.
	Group bool
}

// SelectAllState is the "select all visible" checkbox.
type SelectAllState struct {
	Checked       bool
	Indeterminate bool
}

// SearchState is the global filter input.
type SearchState struct {
	Value      string
	DebounceMs int64
}

// Pager is the pagination footer.
type Pager struct {
	PageIndex   int
	PageCount   int
	PageSize    int
	TotalCount  int
	CanPrevious bool
	CanNext     bool
	// Inert marks controls that are rendered but must not react (loading).
	Inert bool
}

// Page returns the 1-based page number.
func (p Pager) Page() int {
	return p.PageIndex + 1
}

// Label returns the footer text, e.g. "Page 3 of 3 (Total: 23)".
func (p Pager) Label() string {
	return fmt.Sprintf("Page %d of %d (Total: %d)", p.Page(), p.PageCount, p.TotalCount)
}

// Render computes the render model for the current options and state.
func (t *Table) Render() RenderModel {
	t.mu.Lock()
	defer t.mu.Unlock()

	v := t.compute()
	sorting := t.sortingLocked()
	p := t.auth.State()
	index := p.PageIndex
	if t.auth.Mode() != ModeServer {
		index = clamp(index, 0, v.pageCount-1)
	}

	m := RenderModel{
		Mode:             t.auth.Mode(),
		ShowHeader:       t.opts.ShowHeader,
		ShowSearch:       t.opts.ShowSearch,
		ShowPagination:   t.opts.ShowPagination,
		RowSelection:     t.opts.EnableRowSelection,
		FixedFirstColumn: t.opts.EnableFixedFirstColumn,
		FixedColumnWidth: t.opts.FixedColumnWidth,
		ColSpan:          len(t.opts.Columns),
		Search: SearchState{
			Value:      t.filterInput,
			DebounceMs: t.opts.Debounce.Milliseconds(),
		},
		Pager: Pager{
			PageIndex:   index,
			PageCount:   v.pageCount,
			PageSize:    p.PageSize,
			TotalCount:  v.totalCount,
			CanPrevious: index > 0 && !t.opts.IsLoading,
			CanNext:     index < v.pageCount-1 && !t.opts.IsLoading,
			Inert:       t.opts.IsLoading,
		},
	}
	if t.opts.EnableRowSelection {
		m.ColSpan++
	}

	m.Headers = make([]HeaderCell, len(t.opts.Columns))
	for i, col := range t.opts.Columns {
		m.Headers[i] = HeaderCell{
			ColumnID:  col.Key(),
			Label:     col.Label(),
			Sortable:  col.Sortable,
			Direction: sorting.DirectionFor(col.Key()),
		}
	}

	switch {
	case t.opts.IsLoading:
		m.Placeholder = PlaceholderLoading
		return m
	case len(v.rows) == 0:
		m.Placeholder = PlaceholderNoData
		return m
	}

	m.Rows = make([]RenderRow, len(v.rows))
	for i, vr := range v.rows {
		m.Rows[i] = t.renderRow(vr)
	}
	if t.opts.EnableRowSelection {
		m.SelectAll = t.selectAllLocked(v.rows)
	}
	return m
}

func (t *Table) renderRow(vr viewRow) RenderRow {
	grouped := vr.row.isGrouped()
	rr := RenderRow{
		ID:         vr.id,
		Selected:   t.selection[vr.id],
		GroupID:    vr.row.GroupID(),
		GroupStart: grouped && vr.row.IsGroupStart(),
		Row:        vr.row,
		Cells:      make([]RenderCell, 0, len(t.opts.Columns)),
	}
	for _, col := range t.opts.Columns {
		span := 1
		isGroup := grouped && t.groupCols[col.Accessor()]
		if isGroup {
			if !vr.row.IsGroupStart() {
				continue
			}
			span = vr.row.GroupSize()
		}
		rr.Cells = append(rr.Cells, RenderCell{
			ColumnID: col.Key(),
			Text:     col.Text(vr.row),
			RowSpan:  span,
			Group:    isGroup,
		})
	}
	return rr
}

func (t *Table) selectAllLocked(rows []viewRow) SelectAllState {
	if len(rows) == 0 {
		return SelectAllState{}
	}
	selected := 0
	for _, vr := range rows {
		if t.selection[vr.id] {
			selected++
		}
	}
	return SelectAllState{
		Checked:       selected == len(rows),
		Indeterminate: selected > 0 && selected < len(rows),
	}
}
