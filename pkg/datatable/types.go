package datatable

import (
	"fmt"
	"strings"
)

// Synthetic fields added to item rows when groups are flattened.
const (
	MarkerGroupID    = "_groupId"
	MarkerGroupIndex = "_groupIndex"
	MarkerGroupSize  = "_groupSize"
	MarkerGroupStart = "_isGroupStart"
)

// Row is one application record. It has no fixed schema; columns describe how
// to project it.
type Row map[string]any

// GroupID returns the group marker of a flattened row, or "" for plain rows.
func (r Row) GroupID() string {
	if v, ok := r[MarkerGroupID].(string); ok {
		return v
	}
	return ""
}

// IsGroupStart reports whether the row is the first item of its group.
func (r Row) IsGroupStart() bool {
	v, _ := r[MarkerGroupStart].(bool)
	return v
}

// GroupSize returns the item count of the row's group, 0 for plain rows.
func (r Row) GroupSize() int {
	v, _ := r[MarkerGroupSize].(int)
	return v
}

// isGrouped reports whether the row carries group markers.
func (r Row) isGrouped() bool {
	_, ok := r[MarkerGroupID]
	return ok
}

// CellRenderer turns a row into the text shown in one cell.
type CellRenderer func(row Row) string

// ColumnDef describes how a field of a Row becomes a displayed, sortable cell.
type ColumnDef struct {
	// ID identifies the column. Defaults to AccessorKey.
	ID string
	// AccessorKey is the Row key the column reads. Defaults to ID.
	AccessorKey string
	// Header is the column label.
	Header string
	// Cell overrides the default value formatting.
	Cell CellRenderer
	// Sortable enables the header sort toggle.
	Sortable bool
	// Groupable marks columns that make sense as shared group cells.
	Groupable bool
}

// Key returns the column identifier.
func (c ColumnDef) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.AccessorKey
}

// Accessor returns the Row key read by the column.
func (c ColumnDef) Accessor() string {
	if c.AccessorKey != "" {
		return c.AccessorKey
	}
	return c.ID
}

// Label returns the header text, falling back to the column key.
func (c ColumnDef) Label() string {
	if c.Header != "" {
		return c.Header
	}
	return c.Key()
}

// Value returns the raw value of the column for a row.
func (c ColumnDef) Value(row Row) any {
	return row[c.Accessor()]
}

// Text returns the display text of the column for a row.
func (c ColumnDef) Text(row Row) string {
	if c.Cell != nil {
		return c.Cell(row)
	}
	return FormatValue(c.Value(row))
}

// GroupedRow is a set of rows sharing common fields rendered as row-spanned cells.
type GroupedRow struct {
	GroupID   string
	GroupData Row
	Items     []Row
}

// PaginationState is the current page and page size. PageIndex is 0-based.
type PaginationState struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// SortDirection specifies the direction of sorting.
type SortDirection int

const (
	// SortNone indicates no sorting.
	SortNone SortDirection = iota
	// SortAscending indicates ascending sort order.
	SortAscending
	// SortDescending indicates descending sort order.
	SortDescending
)

// String returns the string representation of a SortDirection.
func (sd SortDirection) String() string {
	switch sd {
	case SortNone:
		return "none"
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return fmt.Sprintf("unknown(%d)", sd)
	}
}

// Next returns the direction that follows sd in the header toggle cycle
// none -> asc -> desc -> none.
func (sd SortDirection) Next() SortDirection {
	switch sd {
	case SortNone:
		return SortAscending
	case SortAscending:
		return SortDescending
	default:
		return SortNone
	}
}

// ParseSortDirection parses "asc", "desc" or "" (none).
func ParseSortDirection(s string) SortDirection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return SortAscending
	case "desc", "descending":
		return SortDescending
	default:
		return SortNone
	}
}

// SortSpec is one entry of a SortingState.
type SortSpec struct {
	ColumnID  string        `json:"columnId"`
	Direction SortDirection `json:"direction"`
}

// SortingState is an ordered sequence of sort entries. Tables produced by this
// package hold at most one entry.
type SortingState []SortSpec

// DirectionFor returns the active direction for a column.
func (s SortingState) DirectionFor(columnID string) SortDirection {
	for _, spec := range s {
		if spec.ColumnID == columnID {
			return spec.Direction
		}
	}
	return SortNone
}

// Active returns the first entry with a direction, if any.
func (s SortingState) Active() (SortSpec, bool) {
	for _, spec := range s {
		if spec.Direction != SortNone {
			return spec, true
		}
	}
	return SortSpec{}, false
}

func (s SortingState) clone() SortingState {
	if len(s) == 0 {
		return nil
	}
	out := make(SortingState, len(s))
	copy(out, s)
	return out
}

// RowSelectionState is the set of selected row identifiers.
type RowSelectionState map[string]bool

// IDs returns the selected identifiers in sorted order.
func (s RowSelectionState) IDs() []string {
	ids := make([]string, 0, len(s))
	for id, on := range s {
		if on {
			ids = append(ids, id)
		}
	}
	sortStrings(ids)
	return ids
}

// key is the serialized form used to detect selection changes.
func (s RowSelectionState) key() string {
	return strings.Join(s.IDs(), "\x00")
}

func (s RowSelectionState) clone() RowSelectionState {
	out := make(RowSelectionState, len(s))
	for id, on := range s {
		if on {
			out[id] = true
		}
	}
	return out
}

// State is a snapshot of the internally owned table state. It is what a
// stateless caller (an HTTP handler) carries between requests.
type State struct {
	Pagination   PaginationState   `json:"pagination"`
	Sorting      SortingState      `json:"sorting,omitempty"`
	GlobalFilter string            `json:"globalFilter,omitempty"`
	Selection    RowSelectionState `json:"selection,omitempty"`
}
