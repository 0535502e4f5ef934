package datatable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, ""},
		{"string", "Volvo FH16", "Volvo FH16"},
		{"int", 42, "42"},
		{"float", 13.6, "13.6"},
		{"bytes", []byte("AB-123"), "AB-123"},
		{"date", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-03-01"},
		{"timestamp", time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), "2024-03-01 08:30"},
		{"strings", []string{"C", "CE"}, "C, CE"},
		{"list", []any{"C", 1}, "C, 1"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.input))
		})
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"nil first", nil, 1, -1},
		{"both nil", nil, nil, 0},
		{"mixed numbers", 2, 10.5, -1},
		{"strings ignore case", "alpha", "Beta", -1},
		{"bools", true, false, 1},
		{"times", time.Unix(10, 0), time.Unix(5, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareValues(tt.a, tt.b))
		})
	}
}

func TestMatchesFilter_IgnoresMarkers(t *testing.T) {
	row := Row{"name": "Nordic Haulage", MarkerGroupID: "team-7"}

	assert.True(t, matchesFilter(row, "haulage", nil))
	assert.False(t, matchesFilter(row, "team-7", nil))
	assert.True(t, matchesFilter(row, "", nil))
}

func TestMatchesFilter_SkipsExcludedKeys(t *testing.T) {
	row := Row{"id": "car-07", "name": "Nordic Haulage"}
	skip := map[string]bool{"id": true}

	assert.True(t, matchesFilter(row, "car-07", nil))
	assert.False(t, matchesFilter(row, "car-07", skip))
	assert.True(t, matchesFilter(row, "nordic", skip))
}

func TestParseSortDirection(t *testing.T) {
	assert.Equal(t, SortAscending, ParseSortDirection("ASC"))
	assert.Equal(t, SortDescending, ParseSortDirection("desc"))
	assert.Equal(t, SortNone, ParseSortDirection(""))
}
