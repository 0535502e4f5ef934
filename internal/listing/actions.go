package listing

import (
	"fmt"
	"strings"

	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// Action names accepted by List.Apply.
const (
	ActionNone           = ""
	ActionRefresh        = "refresh"
	ActionFirst          = "first"
	ActionPrevious       = "prev"
	ActionNext           = "next"
	ActionLast           = "last"
	ActionPage           = "page"
	ActionPageSize       = "size"
	ActionSort           = "sort"
	ActionFilter         = "filter"
	ActionSelect         = "select"
	ActionToggle         = "toggle"
	ActionSelectPage     = "selectPage"
	ActionTogglePage     = "togglePage"
	ActionClearSelection = "clear"
	ActionClick          = "click"
)

// Action is one user interaction with a list. Only the fields the named
// action needs are read.
type Action struct {
	Name     string
	Page     int // 0-based target of ActionPage
	PageSize int
	Column   string
	Filter   string
	RowID    string
	Checked  bool
}

// ParseSort parses "column" or "column:asc|desc" into a sorting state. An
// empty string clears sorting.
func ParseSort(s string) (datatable.SortingState, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	col, dir, hasDir := strings.Cut(s, ":")
	if col == "" {
		return nil, fmt.Errorf("%w: empty sort column", ErrInvalidAction)
	}
	direction := datatable.SortAscending
	if hasDir {
		direction = datatable.ParseSortDirection(dir)
		if direction == datatable.SortNone {
			return nil, fmt.Errorf("%w: sort direction %q", ErrInvalidAction, dir)
		}
	}
	return datatable.SortingState{{ColumnID: col, Direction: direction}}, nil
}
