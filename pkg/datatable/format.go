package datatable

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FormatValue converts a raw cell value to its display string.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format("2006-01-02 15:04")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = FormatValue(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// canonicalString is the representation a global filter is matched against:
// every non-marker field not in skip, ordered by key, lower-cased.
func canonicalString(row Row, skip map[string]bool) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		switch k {
		case MarkerGroupID, MarkerGroupIndex, MarkerGroupSize, MarkerGroupStart:
			continue
		}
		if skip[k] {
			continue
		}
		keys = append(keys, k)
	}
	sortStrings(keys)

	var b strings.Builder
	for _, k := range keys {
		s := FormatValue(row[k])
		if s == "" {
			continue
		}
		b.WriteString(s)
		b.WriteByte(' ')
	}
	return strings.ToLower(b.String())
}

// matchesFilter reports whether the row contains filter, case-insensitively.
func matchesFilter(row Row, filter string, skip map[string]bool) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(canonicalString(row, skip), strings.ToLower(filter))
}

// compareValues orders two cell values: nil first, then numbers, times, bools
// and finally case-insensitive strings.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}

	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}

	return strings.Compare(strings.ToLower(FormatValue(a)), strings.ToLower(FormatValue(b)))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func sortStrings(s []string) {
	slices.Sort(s)
}
