// Package starlark evaluates computed table columns written as Starlark
// expressions over a record row.
package starlark

import (
	"fmt"
	"math"
	"time"

	"go.starlark.net/starlark"
)

// Value converts a record value for use in an expression. Dates at midnight
// become "YYYY-MM-DD" strings so they compare with stored date fields; values
// with no Starlark counterpart are passed as their string form.
func Value(v any) starlark.Value {
	switch val := v.(type) {
	case nil:
		return starlark.None
	case string:
		return starlark.String(val)
	case bool:
		return starlark.Bool(val)
	case int:
		return starlark.MakeInt(val)
	case int32:
		return starlark.MakeInt(int(val))
	case int64:
		return starlark.MakeInt64(val)
	case float32:
		return starlark.Float(val)
	case float64:
		return starlark.Float(val)
	case time.Time:
		if val.IsZero() {
			return starlark.None
		}
		if h, m, s := val.Clock(); h == 0 && m == 0 && s == 0 {
			return starlark.String(val.Format(time.DateOnly))
		}
		return starlark.String(val.Format(time.RFC3339))
	case []string:
		items := make([]starlark.Value, len(val))
		for i, s := range val {
			items[i] = starlark.String(s)
		}
		return starlark.NewList(items)
	case []any:
		items := make([]starlark.Value, len(val))
		for i, item := range val {
			items[i] = Value(item)
		}
		return starlark.NewList(items)
	case map[string]any:
		dict := starlark.NewDict(len(val))
		for k, item := range val {
			_ = dict.SetKey(starlark.String(k), Value(item))
		}
		return dict
	default:
		return starlark.String(fmt.Sprint(val))
	}
}

// RowDict builds the frozen dict bound to "row".
func RowDict(row map[string]any) *starlark.Dict {
	dict := starlark.NewDict(len(row))
	for k, v := range row {
		_ = dict.SetKey(starlark.String(k), Value(v))
	}
	dict.Freeze()
	return dict
}

// CellValue converts an expression result into a table cell value: nil,
// string, int64, float64, bool or a list of those. Integers beyond int64 are
// kept as their decimal text. Dicts and callables cannot be shown in a cell.
func CellValue(v starlark.Value) (any, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.String:
		return string(val), nil
	case starlark.Bool:
		return bool(val), nil
	case starlark.Int:
		if i, ok := val.Int64(); ok {
			return i, nil
		}
		return val.String(), nil
	case starlark.Float:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, nil
		}
		return f, nil
	case starlark.Bytes:
		return string(val), nil
	case starlark.Indexable:
		items := make([]any, val.Len())
		for i := range items {
			item, err := CellValue(val.Index(i))
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			if _, nested := item.([]any); nested {
				return nil, fmt.Errorf("item %d: nested lists cannot be shown in a cell", i)
			}
			items[i] = item
		}
		return items, nil
	}
	return nil, fmt.Errorf("a %s cannot be shown in a cell", v.Type())
}
