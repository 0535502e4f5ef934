package datatable

import (
	"fmt"
	"time"
)

// DefaultPageSize is used when Options.PageSize is not set.
const DefaultPageSize = 10

// ServerSide switches the table into controlled mode. The caller owns
// pagination, sorting and filtering; the table raises change events and
// renders whatever state is fed back through Update.
type ServerSide struct {
	Enabled bool

	OnPaginationChange   func(next PaginationState)
	OnSortingChange      func(next SortingState)
	OnGlobalFilterChange func(value string)

	// PageCount is the number of pages the caller can serve.
	PageCount int
	// TotalCount is the number of records across all pages.
	TotalCount int
	// CurrentPage is the 0-based page index currently shown.
	CurrentPage  int
	PageSize     int
	Sorting      SortingState
	GlobalFilter string
}

// Options configures a Table.
type Options struct {
	// Data holds plain rows. Ignored when IsGrouped is set.
	Data []Row
	// Groups holds pre-grouped rows. Used when IsGrouped is set.
	Groups  []GroupedRow
	Columns []ColumnDef

	IsGrouped bool
	// GroupColumns lists accessor keys rendered once per group with a row-span.
	GroupColumns []string

	ServerSide ServerSide

	EnableRowSelection bool
	OnSelectionChange  func(rows []Row)
	OnRowClick         func(row Row)

	// RowID derives a stable identifier for a row. Defaults to the "id" field,
	// then the group position, then the row position. In grouped mode it sees
	// the item's own fields and markers without the shared group fields.
	RowID func(row Row, index int) string

	// FilterExcludeKeys names row fields the internal global filter does not
	// match against, e.g. identifiers and timestamps a server-side search
	// never sees.
	FilterExcludeKeys []string

	ShowPagination         bool
	ShowSearch             bool
	ShowHeader             bool
	EnableFixedFirstColumn bool
	FixedColumnWidth       int

	IsLoading bool

	// Debounce is the quiet period after the last filter keystroke before the
	// filter (or OnGlobalFilterChange) is applied.
	Debounce time.Duration

	// PageSize is the initial page size for internally owned pagination.
	PageSize int

	// State restores internally owned state, e.g. from a previous request.
	State *State
}

// DefaultOptions returns options with the rendering toggles a list screen uses.
func DefaultOptions() Options {
	return Options{
		ShowPagination: true,
		ShowSearch:     true,
		ShowHeader:     true,
		PageSize:       DefaultPageSize,
	}
}

// Mode identifies the active pagination authority.
type Mode int

const (
	// ModeClient paginates individual rows held in memory.
	ModeClient Mode = iota
	// ModeServer mirrors state owned by the caller.
	ModeServer
	// ModeGrouped paginates whole groups.
	ModeGrouped
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case ModeClient:
		return "client"
	case ModeServer:
		return "server"
	case ModeGrouped:
		return "grouped"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}

// ParseMode parses a mode name as written in configuration.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "client":
		return ModeClient, nil
	case "server":
		return ModeServer, nil
	case "grouped":
		return ModeGrouped, nil
	default:
		return ModeClient, fmt.Errorf("unknown table mode %q", s)
	}
}

// resolveMode evaluates the mode flags in priority order.
func resolveMode(opts Options) Mode {
	switch {
	case opts.ServerSide.Enabled:
		return ModeServer
	case opts.IsGrouped && opts.ShowPagination:
		return ModeGrouped
	default:
		return ModeClient
	}
}
