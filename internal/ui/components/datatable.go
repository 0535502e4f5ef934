package components

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/a-h/templ"

	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// DefaultPageSizes are offered by the pager's page size select.
var DefaultPageSizes = []int{10, 20, 50, 100}

// TableProps configures DataTable.
type TableProps struct {
	// ID is the element id patched by table actions.
	ID string
	// Endpoint receives table actions. It carries the table state, so every
	// render must use the endpoint of the current state.
	Endpoint  string
	Model     datatable.RenderModel
	PageSizes []int
}

// RefreshID is the id of the hidden button that re-posts the current state.
func (p TableProps) RefreshID() string {
	return p.ID + "-refresh"
}

// action returns a Datastar expression posting one table action. sets are
// extra signal assignments.
func (p TableProps) action(name string, sets ...string) string {
	expr := "$action=" + jsString(name) + "; "
	for _, s := range sets {
		expr += s + "; "
	}
	return expr + "@post(" + jsString(p.Endpoint) + ")"
}

func (p TableProps) signals() string {
	b, _ := json.Marshal(map[string]any{
		"action":     "",
		"page":       p.Model.Pager.PageIndex,
		"pageSize":   p.Model.Pager.PageSize,
		"sortColumn": "",
		"filter":     p.Model.Search.Value,
		"rowId":      "",
		"checked":    false,
	})
	return string(b)
}

// DataTable renders an interactive table from a render model. Every control
// posts an action to the endpoint, which answers by patching the element.
func DataTable(p TableProps) templ.Component {
	m := p.Model
	return el("div", attrs("id", p.ID, "class", "dt-wrap", "data-signals", p.signals()),
		tableSearch(p),
		el("button", attrs("id", p.RefreshID(), "type", "button", "hidden", true,
			"data-on:click", p.action("refresh"))),
		el("div", attrs("class", "dt-scroll"),
			el("table", tableAttrs(m),
				tableHead(p),
				tableBody(p),
			),
		),
		tablePager(p),
	)
}

// StaticTable renders a render model as a plain table without controls.
func StaticTable(m datatable.RenderModel) templ.Component {
	return el("table", attrs("class", "dt"),
		tableHead(TableProps{Model: m}),
		tableBody(TableProps{Model: m}),
	)
}

func tableAttrs(m datatable.RenderModel) templ.OrderedAttributes {
	cls := "dt"
	if m.FixedFirstColumn {
		cls = classes(cls, "fixed-first")
	}
	if m.RowSelection {
		cls = classes(cls, "selectable")
	}
	a := attrs("class", cls, "data-mode", m.Mode.String())
	if m.FixedFirstColumn && m.FixedColumnWidth > 0 {
		a = append(a, attrs("style", fmt.Sprintf("--fixed-col-width: %dpx", m.FixedColumnWidth))...)
	}
	return a
}

func interactive(p TableProps) bool {
	return p.Endpoint != ""
}

func tableSearch(p TableProps) templ.Component {
	if !p.Model.ShowSearch {
		return nil
	}
	event := "data-on:input"
	if ms := p.Model.Search.DebounceMs; ms > 0 {
		event += "__debounce." + strconv.FormatInt(ms, 10) + "ms"
	}
	return el("div", attrs("class", "dt-search"),
		el("input", attrs(
			"type", "search",
			"placeholder", "Search...",
			"aria-label", "Search",
			"value", p.Model.Search.Value,
			"data-bind:filter", true,
			event, p.action("filter"),
		)),
	)
}

func tableHead(p TableProps) templ.Component {
	m := p.Model
	if !m.ShowHeader {
		return nil
	}
	cells := make([]templ.Component, 0, len(m.Headers)+1)
	if m.RowSelection && interactive(p) {
		cells = append(cells, el("th", attrs("class", "select-cell"), selectAll(p)))
	}
	for i, h := range m.Headers {
		cls := ""
		if i == 0 && m.FixedFirstColumn {
			cls = "fixed"
		}
		a := attrs("scope", "col")
		if h.Sortable {
			cls = classes("sortable", cls)
			a = append(a, attrs("aria-sort", h.AriaSort())...)
			if interactive(p) {
				a = append(a, attrs("data-on:click", p.action("sort", "$sortColumn="+jsString(h.ColumnID)))...)
			}
		}
		if cls != "" {
			a = append(a, attrs("class", cls)...)
		}
		label := h.Label
		if ind := h.Indicator(); ind != "" {
			label += " " + ind
		}
		cells = append(cells, el("th", a, text(label)))
	}
	return el("thead", nil, el("tr", nil, cells...))
}

func selectAll(p TableProps) templ.Component {
	s := p.Model.SelectAll
	a := attrs(
		"type", "checkbox",
		"aria-label", "Select page",
		"checked", s.Checked,
		"data-on:click__stop", p.action("togglePage"),
	)
	if s.Indeterminate {
		a = append(a, attrs("data-indeterminate", true, "data-init", "el.indeterminate = true")...)
	}
	return el("input", a)
}

func tableBody(p TableProps) templ.Component {
	m := p.Model
	if m.Placeholder != datatable.PlaceholderNone {
		span := m.ColSpan
		if !interactive(p) && m.RowSelection {
			span--
		}
		return el("tbody", nil,
			el("tr", nil,
				el("td", attrs("class", "dt-placeholder", "colspan", span), text(m.PlaceholderText())),
			),
		)
	}
	rows := make([]templ.Component, len(m.Rows))
	for i, r := range m.Rows {
		rows[i] = tableRow(p, r)
	}
	return el("tbody", nil, rows...)
}

func tableRow(p TableProps, r datatable.RenderRow) templ.Component {
	m := p.Model
	cls := ""
	if r.Selected {
		cls = "selected"
	}
	if r.GroupStart {
		cls = classes(cls, "group-start")
	}
	a := attrs("data-row", r.ID)
	if r.GroupID != "" {
		a = append(a, attrs("data-group", r.GroupID)...)
	}
	if cls != "" {
		a = append(a, attrs("class", cls)...)
	}
	if interactive(p) {
		a = append(a, attrs("data-on:click", p.action("click", "$rowId="+jsString(r.ID)))...)
	}

	cells := make([]templ.Component, 0, len(r.Cells)+1)
	if m.RowSelection && interactive(p) {
		cells = append(cells, el("td", attrs("class", "select-cell"),
			el("input", attrs(
				"type", "checkbox",
				"aria-label", "Select row",
				"checked", r.Selected,
				"data-on:click__stop", p.action("select", "$rowId="+jsString(r.ID), "$checked=el.checked"),
			)),
		))
	}
	first := ""
	if len(m.Headers) > 0 {
		first = m.Headers[0].ColumnID
	}
	for _, c := range r.Cells {
		cellCls := ""
		if m.FixedFirstColumn && c.ColumnID == first {
			cellCls = "fixed"
		}
		ca := attrs("data-col", c.ColumnID)
		if c.RowSpan > 1 {
			ca = append(ca, attrs("rowspan", c.RowSpan)...)
		}
		if c.Group {
			cellCls = classes(cellCls, "group-cell")
		}
		if cellCls != "" {
			ca = append(ca, attrs("class", cellCls)...)
		}
		cells = append(cells, el("td", ca, text(c.Text)))
	}
	return el("tr", a, cells...)
}

func tablePager(p TableProps) templ.Component {
	m := p.Model
	if !m.ShowPagination {
		return nil
	}
	pg := m.Pager
	cls := "dt-pager"
	if pg.Inert {
		cls = classes(cls, "inert")
	}
	button := func(label, aria, action string, enabled bool, sets ...string) templ.Component {
		return el("button", attrs(
			"type", "button",
			"class", "btn",
			"aria-label", aria,
			"disabled", !enabled,
			"data-on:click", p.action(action, sets...),
		), text(label))
	}
	return el("nav", attrs("class", cls, "aria-label", "Pagination"),
		el("span", attrs("class", "label"), text(pg.Label())),
		button("«", "First page", "first", pg.CanPrevious),
		button("‹", "Previous page", "prev", pg.CanPrevious),
		button("›", "Next page", "next", pg.CanNext),
		button("»", "Last page", "last", pg.CanNext),
		pageSizeSelect(p),
	)
}

func pageSizeSelect(p TableProps) templ.Component {
	sizes := p.PageSizes
	if len(sizes) == 0 {
		sizes = DefaultPageSizes
	}
	current := p.Model.Pager.PageSize
	if !slices.Contains(sizes, current) {
		sizes = append(slices.Clone(sizes), current)
		slices.Sort(sizes)
	}
	opts := make([]templ.Component, len(sizes))
	for i, n := range sizes {
		v := strconv.Itoa(n)
		opts[i] = el("option", attrs("value", v, "selected", n == current), text(v+" / page"))
	}
	return el("select", attrs(
		"aria-label", "Rows per page",
		"disabled", p.Model.Pager.Inert,
		"data-on:change", p.action("size", "$pageSize=Number(el.value)"),
	), opts...)
}
