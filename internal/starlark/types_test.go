package starlark

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: "None"},
		{name: "text", input: "Volvo", want: `"Volvo"`},
		{name: "integer", input: int64(2021), want: "2021"},
		{name: "number", input: 13.6, want: "13.6"},
		{name: "checkbox", input: true, want: "True"},
		{name: "date", input: time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), want: `"2027-03-01"`},
		{name: "timestamp", input: time.Date(2026, 1, 6, 8, 30, 0, 0, time.UTC), want: `"2026-01-06T08:30:00Z"`},
		{name: "zero time", input: time.Time{}, want: "None"},
		{name: "multiselect", input: []string{"drv-a", "drv-b"}, want: `["drv-a", "drv-b"]`},
		{name: "decoded list", input: []any{"x", int64(1)}, want: `["x", 1]`},
		{name: "other", input: struct{ N int }{N: 1}, want: `"{1}"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.input).String())
		})
	}
}

func TestRowDict(t *testing.T) {
	dict := RowDict(map[string]any{
		"plate": "ABC 123",
		"year":  int64(2021),
	})

	v, found, err := dict.Get(starlark.String("year"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2021", v.String())

	err = dict.SetKey(starlark.String("plate"), starlark.String("changed"))
	assert.Error(t, err, "row dict is frozen")
}

func TestCellValue(t *testing.T) {
	big := starlark.MakeInt64(math.MaxInt64).Add(starlark.MakeInt(1))
	dict := starlark.NewDict(1)

	tests := []struct {
		name    string
		input   starlark.Value
		want    any
		wantErr string
	}{
		{name: "none", input: starlark.None, want: nil},
		{name: "string", input: starlark.String("crw"), want: "crw"},
		{name: "int", input: starlark.MakeInt(42), want: int64(42)},
		{name: "big int", input: big, want: "9223372036854775808"},
		{name: "float", input: starlark.Float(2.5), want: 2.5},
		{name: "nan", input: starlark.Float(math.NaN()), want: nil},
		{name: "bool", input: starlark.Bool(true), want: true},
		{name: "list", input: starlark.NewList([]starlark.Value{starlark.String("a"), starlark.MakeInt(1)}), want: []any{"a", int64(1)}},
		{name: "tuple", input: starlark.Tuple{starlark.String("x")}, want: []any{"x"}},
		{name: "nested list", input: starlark.NewList([]starlark.Value{starlark.Tuple{}}), wantErr: "nested lists"},
		{name: "dict", input: dict, wantErr: "a dict cannot be shown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CellValue(tt.input)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
