package components

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/haulwise/tmsadmin/internal/ui/shell"
	"github.com/haulwise/tmsadmin/pkg/datatable"
)

func parse(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

func hasAttr(key string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		_, ok := attr(n, key)
		return ok
	}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func groupedModel(t *testing.T) datatable.RenderModel {
	t.Helper()
	opts := datatable.DefaultOptions()
	opts.Columns = []datatable.ColumnDef{
		{ID: "team", Header: "Team", Groupable: true},
		{ID: "driver", Header: "Driver", Sortable: true},
	}
	opts.IsGrouped = true
	opts.GroupColumns = []string{"team"}
	opts.EnableRowSelection = true
	opts.EnableFixedFirstColumn = true
	opts.Groups = []datatable.GroupedRow{
		{GroupID: "north", GroupData: datatable.Row{"team": "North"}, Items: []datatable.Row{
			{"id": "north:a", "driver": "Anna"},
			{"id": "north:b", "driver": "<b>Ben</b>"},
		}},
		{GroupID: "south", GroupData: datatable.Row{"team": "South"}, Items: []datatable.Row{
			{"id": "south:c", "driver": "Cleo"},
		}},
	}
	opts.State = &datatable.State{Selection: datatable.RowSelectionState{"north:a": true}}
	table, err := datatable.New(opts)
	require.NoError(t, err)
	t.Cleanup(table.Close)
	return table.Render()
}

func TestDataTable_Grouped(t *testing.T) {
	m := groupedModel(t)
	out, err := Render(context.Background(), DataTable(TableProps{
		ID:       "dt-teams",
		Endpoint: "/fleet/driver-teams/table?state=abc",
		Model:    m,
	}))
	require.NoError(t, err)
	doc := parse(t, out)

	rows := findAll(doc, hasAttr("data-row"))
	require.Len(t, rows, 3)
	assert.Contains(t, mustAttr(t, rows[0], "class"), "selected")
	assert.Contains(t, mustAttr(t, rows[0], "class"), "group-start")
	assert.Contains(t, mustAttr(t, rows[0], "data-on:click"), `$rowId="north:a"`)
	assert.Contains(t, mustAttr(t, rows[0], "data-on:click"), `@post("/fleet/driver-teams/table?state=abc")`)

	spanned := findAll(doc, hasAttr("rowspan"))
	require.Len(t, spanned, 1)
	assert.Equal(t, "2", mustAttr(t, spanned[0], "rowspan"))
	assert.Equal(t, "North", textOf(spanned[0]))
	assert.Contains(t, mustAttr(t, spanned[0], "class"), "group-cell")

	// The second row of a group has no team cell.
	assert.Len(t, findAll(rows[1], byTag("td")), 2)
	// Single-item groups still mark their group cell.
	south := findAll(rows[2], func(n *html.Node) bool { v, _ := attr(n, "data-col"); return v == "team" })
	require.Len(t, south, 1)
	assert.Contains(t, mustAttr(t, south[0], "class"), "group-cell")

	assert.Contains(t, out, "&lt;b&gt;Ben&lt;/b&gt;", "cell text is escaped")

	boxes := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "type"); return n.Data == "input" && v == "checkbox" })
	require.Len(t, boxes, 4, "select-all plus one per row")
	_, indeterminate := attr(boxes[0], "data-indeterminate")
	assert.True(t, indeterminate)

	pager := findAll(doc, byTag("nav"))
	require.Len(t, pager, 1)
	assert.Contains(t, textOf(pager[0]), "Page 1 of 1 (Total: 2)")
}

func mustAttr(t *testing.T, n *html.Node, key string) string {
	t.Helper()
	v, ok := attr(n, key)
	require.True(t, ok, "missing attribute %s on <%s>", key, n.Data)
	return v
}

func TestDataTable_SortAndPager(t *testing.T) {
	opts := datatable.DefaultOptions()
	opts.Columns = []datatable.ColumnDef{{ID: "name", Header: "Name", Sortable: true}, {ID: "city", Header: "City"}}
	for i := range 23 {
		opts.Data = append(opts.Data, datatable.Row{"id": string(rune('a' + i)), "name": "n"})
	}
	opts.State = &datatable.State{
		Pagination: datatable.PaginationState{PageIndex: 2, PageSize: 10},
		Sorting:    datatable.SortingState{{ColumnID: "name", Direction: datatable.SortDescending}},
	}
	table, err := datatable.New(opts)
	require.NoError(t, err)
	defer table.Close()

	out, err := Render(context.Background(), DataTable(TableProps{ID: "dt", Endpoint: "/t", Model: table.Render(), PageSizes: []int{5, 20}}))
	require.NoError(t, err)
	doc := parse(t, out)

	ths := findAll(doc, byTag("th"))
	require.Len(t, ths, 2)
	assert.Equal(t, "descending", mustAttr(t, ths[0], "aria-sort"))
	assert.Equal(t, "Name ▼", textOf(ths[0]))
	assert.Contains(t, mustAttr(t, ths[0], "data-on:click"), `$sortColumn="name"`)
	_, sortable := attr(ths[1], "data-on:click")
	assert.False(t, sortable)

	buttons := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "class"); return n.Data == "button" && v == "btn" })
	require.Len(t, buttons, 4)
	for i, wantDisabled := range []bool{false, false, true, true} {
		_, disabled := attr(buttons[i], "disabled")
		assert.Equal(t, wantDisabled, disabled, "button %d", i)
	}
	assert.Contains(t, out, "Page 3 of 3 (Total: 23)")

	options := findAll(doc, byTag("option"))
	values := make([]string, len(options))
	for i, o := range options {
		values[i] = mustAttr(t, o, "value")
	}
	assert.Equal(t, []string{"5", "10", "20"}, values, "the current size is always offered")

	search := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "type"); return v == "search" })
	require.Len(t, search, 1)
	_, bound := attr(search[0], "data-bind:filter")
	assert.True(t, bound)
}

func TestDataTable_SearchDebounce(t *testing.T) {
	opts := datatable.DefaultOptions()
	opts.Columns = []datatable.ColumnDef{{ID: "name", Header: "Name"}}
	table, err := datatable.New(opts)
	require.NoError(t, err)
	defer table.Close()

	m := table.Render()
	m.Search.DebounceMs = 300
	out, err := Render(context.Background(), DataTable(TableProps{ID: "dt", Endpoint: "/t", Model: m}))
	require.NoError(t, err)
	assert.Contains(t, out, `data-on:input__debounce.300ms=`)
}

func TestDataTable_Placeholder(t *testing.T) {
	opts := datatable.DefaultOptions()
	opts.Columns = []datatable.ColumnDef{{ID: "a", Header: "A"}, {ID: "b", Header: "B"}}
	opts.EnableRowSelection = true
	table, err := datatable.New(opts)
	require.NoError(t, err)
	defer table.Close()

	out, err := Render(context.Background(), DataTable(TableProps{ID: "dt", Endpoint: "/t", Model: table.Render()}))
	require.NoError(t, err)
	cells := findAll(parse(t, out), byTag("td"))
	require.Len(t, cells, 1)
	assert.Equal(t, "3", mustAttr(t, cells[0], "colspan"))
	assert.Equal(t, datatable.NoDataText, textOf(cells[0]))
}

func TestStaticTable(t *testing.T) {
	m := groupedModel(t)
	out, err := Render(context.Background(), StaticTable(m))
	require.NoError(t, err)
	doc := parse(t, out)

	assert.Empty(t, findAll(doc, byTag("input")))
	assert.Empty(t, findAll(doc, hasAttr("data-on:click")))
	assert.Len(t, findAll(doc, byTag("th")), 2)
	assert.Len(t, findAll(doc, byTag("tr")), 4)
}

func TestDocument(t *testing.T) {
	p := Page{
		Title:   "Drivers",
		Path:    "/fleet/drivers",
		UI:      shell.UIState{Theme: shell.ThemeDark, SidebarCollapsed: true, MobileMenuOpen: true},
		Menu:    shell.Menu("/fleet/drivers"),
		Crumbs:  shell.Breadcrumbs("/fleet/drivers", nil),
		Flashes: []shell.Flash{{Message: "Driver created"}, {Error: true, Message: "Oops"}},
		Updates: "/fleet/drivers/updates",
	}
	out, err := Render(context.Background(), Document(p, Text("body")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Drivers - Haulwise TMS</title>")

	doc := parse(t, out)
	htmlEl := findAll(doc, byTag("html"))
	require.Len(t, htmlEl, 1)
	assert.Equal(t, "dark", mustAttr(t, htmlEl[0], "data-theme"))

	app := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "id"); return v == "app" })
	require.Len(t, app, 1)
	assert.Equal(t, "shell sidebar-collapsed", mustAttr(t, app[0], "class"))
	assert.Equal(t, `@get("/fleet/drivers/updates")`, mustAttr(t, app[0], "data-init"))

	mobile := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "id"); return v == "mobile-menu" })
	require.Len(t, mobile, 1)
	assert.Equal(t, "mobile-menu open", mustAttr(t, mobile[0], "class"))

	current := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "aria-current"); return v == "page" })
	var labels []string
	for _, n := range current {
		labels = append(labels, textOf(n))
	}
	assert.Equal(t, []string{"Drivers", "Drivers", "Drivers"}, labels, "sidebar, mobile menu and breadcrumb")

	toasts := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "role"); return v == "status" || v == "alert" })
	require.Len(t, toasts, 2)
	assert.Equal(t, "toast error", mustAttr(t, toasts[1], "class"))

	returns := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "name"); return v == "return" })
	require.Len(t, returns, 3)
	assert.Equal(t, "/fleet/drivers", mustAttr(t, returns[0], "value"))
}

func TestFormControls(t *testing.T) {
	out, err := Render(context.Background(), Form("/fleet/drivers", "Create", "/fleet/drivers", "Please fix the errors",
		Input(FieldProps{Name: "first_name", Label: "First name", Required: true, Value: `A "quoted" name`, Error: "is required"}),
		Select(SelectProps{
			FieldProps: FieldProps{Name: "status", Label: "Status", Value: "active"},
			Options:    []Option{{Value: "active", Label: "Active"}, {Value: "inactive", Label: "Inactive"}},
		}),
		Select(SelectProps{
			FieldProps: FieldProps{Name: "driver_ids", Label: "Drivers"},
			Multiple:   true,
			Options:    []Option{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}},
			Values:     []string{"b"},
		}),
		Checkbox(FieldProps{Name: "adr_certified", Label: "ADR", Value: "on"}),
	))
	require.NoError(t, err)
	doc := parse(t, out)

	input := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "name"); return v == "first_name" })
	require.Len(t, input, 1)
	assert.Equal(t, `A "quoted" name`, mustAttr(t, input[0], "value"))
	assert.Equal(t, "true", mustAttr(t, input[0], "aria-invalid"))
	assert.Contains(t, out, "is required")
	assert.Contains(t, out, "Please fix the errors")

	selected := findAll(doc, hasAttr("selected"))
	var values []string
	for _, n := range selected {
		values = append(values, mustAttr(t, n, "value"))
	}
	assert.Equal(t, []string{"active", "b"}, values)

	checked := findAll(doc, hasAttr("checked"))
	require.Len(t, checked, 1)
	assert.Equal(t, "adr_certified", mustAttr(t, checked[0], "name"))
}

func TestModal(t *testing.T) {
	out, err := Render(context.Background(), Signals(`{"confirm": false}`,
		OpenModalButton("confirm", "Delete", true),
		Modal(ModalProps{
			ID:      "delete-dialog",
			Title:   "Delete driver?",
			Signal:  "confirm",
			Body:    Muted("This cannot be undone."),
			Actions: []templ.Component{PostButton("/fleet/drivers/x/delete", "Delete", true)},
		}),
	))
	require.NoError(t, err)
	doc := parse(t, out)

	dialog := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "role"); return v == "dialog" })
	require.Len(t, dialog, 1)
	assert.Equal(t, "delete-dialog-title", mustAttr(t, dialog[0], "aria-labelledby"))
	assert.Contains(t, out, `data-show="$confirm"`)
	assert.Contains(t, out, `action="/fleet/drivers/x/delete"`)
}
