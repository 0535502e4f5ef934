package datatable

import (
	"fmt"
	"slices"
	"strconv"
)

// FlattenGroups converts groups into item rows annotated with group markers.
// A group without items contributes no rows.
func FlattenGroups(groups []GroupedRow) []Row {
	var rows []Row
	for i, g := range groups {
		rows = append(rows, flattenGroup(g, groupIDOf(g, i))...)
	}
	return rows
}

func groupIDOf(g GroupedRow, index int) string {
	if g.GroupID != "" {
		return g.GroupID
	}
	return "group-" + strconv.Itoa(index)
}

// flattenGroup merges the shared group fields into each item and adds the
// position markers. Group fields win over item fields of the same name so
// shared cells always show the group's value.
func flattenGroup(g GroupedRow, groupID string) []Row {
	n := len(g.Items)
	if n == 0 {
		return nil
	}
	rows := make([]Row, 0, n)
	for i, item := range g.Items {
		row := make(Row, len(item)+len(g.GroupData)+4)
		for k, v := range item {
			row[k] = v
		}
		for k, v := range g.GroupData {
			row[k] = v
		}
		row[MarkerGroupID] = groupID
		row[MarkerGroupIndex] = i
		row[MarkerGroupSize] = n
		row[MarkerGroupStart] = i == 0
		rows = append(rows, row)
	}
	return rows
}

// remark copies rows of one group and rewrites their position markers after
// filtering or sorting changed the group's membership or order.
func remark(rows []viewRow) []viewRow {
	out := make([]viewRow, len(rows))
	for i, vr := range rows {
		row := make(Row, len(vr.row))
		for k, v := range vr.row {
			row[k] = v
		}
		row[MarkerGroupIndex] = i
		row[MarkerGroupSize] = len(rows)
		row[MarkerGroupStart] = i == 0
		out[i] = viewRow{id: vr.id, row: row, original: vr.original}
	}
	return out
}

// viewRow is a row on its way through the pipeline together with its stable
// identifier and the record the caller supplied.
type viewRow struct {
	id       string
	row      Row
	original Row
}

// view is the outcome of the pipeline for the current state.
type view struct {
	rows       []viewRow
	pageCount  int
	totalCount int
}

// rowID applies the configured identifier strategy.
func (t *Table) rowID(row Row, index int) string {
	if t.opts.RowID != nil {
		return t.opts.RowID(row, index)
	}
	if v, ok := row["id"]; ok && v != nil {
		return FormatValue(v)
	}
	if row.isGrouped() {
		return fmt.Sprintf("%s/%v", row.GroupID(), row[MarkerGroupIndex])
	}
	return strconv.Itoa(index)
}

// groupRows flattens one group into view rows with stable identifiers.
// Identifiers come from the item and its markers, never from the shared
// group fields, so every item stays individually addressable.
func (t *Table) groupRows(g GroupedRow, groupIndex int) []viewRow {
	flat := flattenGroup(g, groupIDOf(g, groupIndex))
	out := make([]viewRow, len(flat))
	for i, row := range flat {
		out[i] = viewRow{id: t.rowID(itemIdentity(g.Items[i], row), i), row: row, original: g.Items[i]}
	}
	return out
}

// itemIdentity is the item's own fields plus the position markers of its
// flattened row.
func itemIdentity(item, flat Row) Row {
	id := make(Row, len(item)+4)
	for k, v := range item {
		id[k] = v
	}
	for _, k := range []string{MarkerGroupID, MarkerGroupIndex, MarkerGroupSize, MarkerGroupStart} {
		id[k] = flat[k]
	}
	return id
}

// plainRows wraps Data as view rows.
func (t *Table) plainRows() []viewRow {
	out := make([]viewRow, len(t.opts.Data))
	for i, row := range t.opts.Data {
		out[i] = viewRow{id: t.rowID(row, i), row: row, original: row}
	}
	return out
}

// allRows returns every row the table knows about, used to resolve
// selections and clicks outside the current page.
func (t *Table) allRows() []viewRow {
	if !t.opts.IsGrouped {
		return t.plainRows()
	}
	var out []viewRow
	for i, g := range t.opts.Groups {
		out = append(out, t.groupRows(g, i)...)
	}
	return out
}

func (t *Table) filterRows(rows []viewRow, filter string) []viewRow {
	if filter == "" {
		return rows
	}
	out := make([]viewRow, 0, len(rows))
	for _, vr := range rows {
		if matchesFilter(vr.row, filter, t.filterSkip) {
			out = append(out, vr)
		}
	}
	return out
}

func (t *Table) sortRows(rows []viewRow, sorting SortingState) []viewRow {
	spec, ok := sorting.Active()
	if !ok {
		return rows
	}
	col, ok := t.column(spec.ColumnID)
	if !ok {
		return rows
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b viewRow) int {
		c := compareValues(col.Value(a.row), col.Value(b.row))
		if spec.Direction == SortDescending {
			return -c
		}
		return c
	})
	return sorted
}

// groupedPage filters and sorts inside each group so a group never splits and
// its markers stay consistent with what is displayed.
func (t *Table) groupedPage(groups []GroupedRow, offset int, filter string, sorting SortingState) []viewRow {
	var out []viewRow
	for i, g := range groups {
		rows := t.groupRows(g, offset+i)
		if len(rows) == 0 {
			continue
		}
		rows = t.filterRows(rows, filter)
		rows = t.sortRows(rows, sorting)
		if len(rows) == 0 {
			continue
		}
		out = append(out, remark(rows)...)
	}
	return out
}

// compute runs the pipeline of the active mode.
func (t *Table) compute() view {
	switch t.auth.Mode() {
	case ModeServer:
		var rows []viewRow
		if t.opts.IsGrouped {
			rows = t.groupedPage(t.opts.Groups, 0, "", nil)
		} else {
			rows = t.plainRows()
		}
		pages := t.opts.ServerSide.PageCount
		if pages < 1 {
			pages = 1
		}
		return view{rows: rows, pageCount: pages, totalCount: t.opts.ServerSide.TotalCount}

	case ModeGrouped:
		p := t.auth.State()
		total := len(t.opts.Groups)
		pages := pageCountFor(total, p.PageSize)
		index := clamp(p.PageIndex, 0, pages-1)
		start := index * p.PageSize
		end := min(start+p.PageSize, total)
		var rows []viewRow
		if start < end {
			rows = t.groupedPage(t.opts.Groups[start:end], start, t.filter, t.sorting)
		}
		return view{rows: rows, pageCount: pages, totalCount: total}

	default:
		if t.opts.IsGrouped {
			// Groups without group pagination: one page, groups kept whole.
			rows := t.groupedPage(t.opts.Groups, 0, t.filter, t.sorting)
			return view{rows: rows, pageCount: 1, totalCount: len(rows)}
		}
		rows := t.filterRows(t.plainRows(), t.filter)
		rows = t.sortRows(rows, t.sorting)
		p := t.auth.State()
		total := len(rows)
		pages := pageCountFor(total, p.PageSize)
		if !t.opts.ShowPagination {
			return view{rows: rows, pageCount: 1, totalCount: total}
		}
		index := clamp(p.PageIndex, 0, pages-1)
		start := index * p.PageSize
		end := min(start+p.PageSize, total)
		return view{rows: rows[start:end], pageCount: pages, totalCount: total}
	}
}
