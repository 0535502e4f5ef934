package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulwise/tmsadmin/internal/cli/config"
	clitest "github.com/haulwise/tmsadmin/internal/cli/testutil"
	"github.com/haulwise/tmsadmin/internal/listing"
	"github.com/haulwise/tmsadmin/internal/starlark"
	"github.com/haulwise/tmsadmin/internal/testutil"
)

func testContext(t *testing.T, tr *clitest.TestRenderer) *CommandContext {
	t.Helper()
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   testutil.NewTestLogger(t),
		Store:    clitest.NewSeededStore(t),
		Renderer: tr.Renderer,
	}
}

func listJSON(t *testing.T, slug string, opts ListOptions) ListOutput {
	t.Helper()
	tr := clitest.NewTestRendererJSON()
	cc := testContext(t, tr)

	require.NoError(t, listPage(context.Background(), cc, slug, opts))

	var out ListOutput
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &out), tr.Output())
	return out
}

func TestListOptions_State(t *testing.T) {
	state, err := ListOptions{Page: 3, PageSize: 5, Sort: "name:desc", Filter: "north"}.state()
	require.NoError(t, err)
	assert.Equal(t, 2, state.Pagination.PageIndex)
	assert.Equal(t, 5, state.Pagination.PageSize)
	assert.Equal(t, "north", state.GlobalFilter)
	require.Len(t, state.Sorting, 1)
	assert.Equal(t, "name", state.Sorting[0].ColumnID)

	_, err = ListOptions{Page: 0}.state()
	assert.Error(t, err)
	_, err = ListOptions{Page: 1, Sort: "name:sideways"}.state()
	assert.ErrorIs(t, err, listing.ErrInvalidAction)
}

func TestListPage_Text(t *testing.T) {
	tr := clitest.NewTestRendererText()
	cc := testContext(t, tr)

	require.NoError(t, listPage(context.Background(), cc, "carriers", ListOptions{Page: 3}))

	out := tr.Output()
	assert.Contains(t, out, "Carrier 21")
	assert.Contains(t, out, "Carrier 23")
	assert.NotContains(t, out, "Carrier 20")
	assert.Contains(t, out, "Page 3 of 3 (Total: 23)")
}

func TestListPage_JSON(t *testing.T) {
	out := listJSON(t, "carriers", ListOptions{Page: 3})

	assert.Equal(t, "carriers", out.Kind)
	assert.Equal(t, 3, out.Page)
	assert.Equal(t, 3, out.PageCount)
	assert.Equal(t, 23, out.Total)
	require.Len(t, out.Rows, 3)
	assert.Equal(t, "Carrier 21", out.Rows[0]["name"])
	assert.Contains(t, out.Columns, "scac")
}

func TestListPage_PageBeyondLast(t *testing.T) {
	out := listJSON(t, "carriers", ListOptions{Page: 9})
	assert.Equal(t, 3, out.Page, "clamped to the last page")
}

func TestListPage_SortAndFilter(t *testing.T) {
	sorted := listJSON(t, "carriers", ListOptions{Page: 1, Sort: "name:desc"})
	require.NotEmpty(t, sorted.Rows)
	assert.Equal(t, "Carrier 23", sorted.Rows[0]["name"])
	assert.Equal(t, "name:desc", sorted.Sort)

	filtered := listJSON(t, "carriers", ListOptions{Page: 1, Filter: "Carrier 07"})
	assert.Equal(t, 1, filtered.Total)
	assert.Equal(t, 1, filtered.PageCount)
	assert.Equal(t, "Carrier 07", filtered.Filter)
}

func TestListPage_ServerMode(t *testing.T) {
	out := listJSON(t, "drivers", ListOptions{Page: 1, PageSize: 2, Sort: "last_name:desc"})

	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.PageCount)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "Nord", out.Rows[0]["last_name"])
	assert.Equal(t, "Lund", out.Rows[1]["last_name"])
}

func TestListPage_Grouped(t *testing.T) {
	out := listJSON(t, "driver-teams", ListOptions{Page: 1})

	require.Len(t, out.Rows, 3)
	assert.Equal(t, "North", out.Rows[0]["name"])
	assert.Equal(t, "North", out.Rows[1]["name"], "group cells are repeated on every member row")
	assert.Equal(t, "Mia Lund", out.Rows[1]["driver_name"])
	assert.Equal(t, "West", out.Rows[2]["name"])
}

func TestListPage_Markdown(t *testing.T) {
	tr := clitest.NewTestRendererMarkdown()
	cc := testContext(t, tr)

	require.NoError(t, listPage(context.Background(), cc, "driver-teams", ListOptions{Page: 1}))

	out := tr.Output()
	clitest.AssertNoANSI(t, out)
	clitest.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# Driver teams")
	assert.Contains(t, out, "| Team")
	assert.Contains(t, out, "Jonas Berg")
	assert.Contains(t, out, "_Page 1 of 1 (Total: 2)_")
}

func TestListPage_ComputedColumn(t *testing.T) {
	tr := clitest.NewTestRendererJSON()
	cc := testContext(t, tr)
	cc.Cfg = &config.Config{
		UI: config.UIConfig{PageSize: 10},
		Tables: map[string]config.TableConfig{
			"carriers": {Computed: []starlark.ComputedColumn{
				{ID: "code", Header: "Code", Expr: "row['scac'].lower()"},
			}},
		},
	}

	require.NoError(t, listPage(context.Background(), cc, "carriers", ListOptions{Page: 1, Sort: "code:desc"}))

	var out ListOutput
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &out))
	require.NotEmpty(t, out.Rows)
	assert.Equal(t, "crw", out.Rows[0]["code"])
}

func TestListPage_Errors(t *testing.T) {
	tr := clitest.NewTestRendererJSON()
	cc := testContext(t, tr)
	ctx := context.Background()

	assert.Error(t, listPage(ctx, cc, "spaceships", ListOptions{Page: 1}))
	assert.ErrorIs(t, listPage(ctx, cc, "carriers", ListOptions{Page: 1, Sort: "colour"}), listing.ErrInvalidAction)

	err := listPage(ctx, cc, "drivers", ListOptions{Page: 1, Sort: "phone"})
	require.ErrorIs(t, err, listing.ErrInvalidAction)
	assert.Contains(t, err.Error(), "not sortable")
}
