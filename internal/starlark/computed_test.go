package starlark

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/pkg/datatable"
)

func mustKind(t *testing.T, slug string) fleet.Kind {
	t.Helper()
	k, err := fleet.Lookup(slug)
	require.NoError(t, err)
	return k
}

func TestCompile_Errors(t *testing.T) {
	drivers := mustKind(t, fleet.Drivers)

	tests := []struct {
		name    string
		specs   []ComputedColumn
		wantMsg string
	}{
		{
			name:    "syntax error",
			specs:   []ComputedColumn{{ID: "bad", Expr: "row['x'"}},
			wantMsg: "drivers.bad",
		},
		{
			name:    "undefined name",
			specs:   []ComputedColumn{{ID: "bad", Expr: "upper(row['x'])"}},
			wantMsg: "undefined: upper",
		},
		{
			name:    "invalid id",
			specs:   []ComputedColumn{{ID: "Display Name", Expr: "1"}},
			wantMsg: "lower_snake_case",
		},
		{
			name:    "duplicate id",
			specs:   []ComputedColumn{{ID: "a", Expr: "1"}, {ID: "a", Expr: "2"}},
			wantMsg: "duplicate id",
		},
		{
			name:    "shadows column",
			specs:   []ComputedColumn{{ID: "last_name", Expr: "1"}},
			wantMsg: "shadows",
		},
		{
			name:    "empty expr",
			specs:   []ComputedColumn{{ID: "a", Expr: "  "}},
			wantMsg: "expr is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(drivers, tt.specs)
			require.Error(t, err)
			assert.Nil(t, p)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, fleet.Drivers, ce.Kind)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCompile_EmptyIsNil(t *testing.T) {
	p, err := Compile(mustKind(t, fleet.Drivers), nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	// Nil programs are inert.
	rows := []datatable.Row{{"id": "d1"}}
	p.Apply(rows)
	p.ApplyGroups(nil)
	assert.Nil(t, p.ColumnDefs(true))
	assert.Equal(t, datatable.Row{"id": "d1"}, rows[0])
}

func TestProgram_Apply(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	today := func() time.Time { return time.Date(2027, 2, 1, 15, 0, 0, 0, time.UTC) }

	p, err := Compile(mustKind(t, fleet.Drivers), []ComputedColumn{
		{ID: "display_name", Header: "Display", Expr: "row['last_name'].upper() + ', ' + row['first_name']"},
		{ID: "expires_in", Expr: "days_until(row.get('license_expiry'))"},
		{ID: "license", Expr: "label('license_classes', row['license_class'])"},
	}, WithLogger(logger), WithClock(today), WithPoolSize(2))
	require.NoError(t, err)

	rows := []datatable.Row{
		{"id": "d1", "first_name": "Jonas", "last_name": "Berg", "license_class": "CE", "license_expiry": "2027-03-01"},
		{"id": "d2", "first_name": "Mia", "last_name": "Holm", "license_class": "C"},
		{"id": "d3", "first_name": "Broken", "license_class": "B"},
	}
	p.Apply(rows)

	assert.Equal(t, "BERG, Jonas", rows[0]["display_name"])
	assert.Equal(t, int64(28), rows[0]["expires_in"])
	assert.Equal(t, "CE (truck and trailer)", rows[0]["license"])

	assert.Nil(t, rows[1]["expires_in"], "missing date evaluates to None")
	assert.Contains(t, rows[1], "expires_in")

	assert.NotContains(t, rows[2], "display_name", "runtime errors leave the cell empty")
	assert.Equal(t, "B (car)", rows[2]["license"], "later columns still run after a failure")
	assert.Contains(t, logs.String(), "computed column failed")
	assert.Contains(t, logs.String(), `row \"d3\"`)

	defs := p.ColumnDefs(true)
	require.Len(t, defs, 3)
	assert.Equal(t, "Display", defs[0].Label())
	assert.Equal(t, "expires_in", defs[1].Label(), "header defaults to the id")
	assert.True(t, defs[0].Sortable)
}

func TestProgram_ApplyGroups(t *testing.T) {
	p, err := Compile(mustKind(t, fleet.DriverTeams), []ComputedColumn{
		{ID: "member", Expr: "row['name'] + ': ' + row['driver_name']"},
	})
	require.NoError(t, err)

	groups := []datatable.GroupedRow{{
		GroupID:   "t1",
		GroupData: datatable.Row{"name": "North"},
		Items:     []datatable.Row{{"driver_name": "Jonas Berg"}, {"driver_name": "Mia Holm"}},
	}}
	p.ApplyGroups(groups)

	assert.Equal(t, "North: Jonas Berg", groups[0].Items[0]["member"])
	assert.Equal(t, "North: Mia Holm", groups[0].Items[1]["member"])
	assert.NotContains(t, groups[0].Items[0], "name", "group data is not copied into items")
}

func TestProgram_Eval(t *testing.T) {
	p, err := Compile(mustKind(t, fleet.Trailers), []ComputedColumn{
		{ID: "capacity_t", Expr: "row['capacity_kg'] / 1000"},
	})
	require.NoError(t, err)
	col := p.Columns()[0]

	v, err := p.Eval(col, map[string]any{"capacity_kg": 24000.0})
	require.NoError(t, err)
	assert.Equal(t, 24.0, v)

	_, err = p.Eval(col, map[string]any{"id": "t9", "capacity_kg": "heavy"})
	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "t9", ee.RowID)
	assert.Equal(t, "capacity_t", ee.Column)
}
