// Package fleet provides the list, detail and form pages of the fleet kinds.
package fleet

import (
	"time"

	"github.com/haulwise/tmsadmin/internal/listing"
	"github.com/haulwise/tmsadmin/internal/starlark"
)

// Config tunes the list pages.
type Config struct {
	// PageSize returns the initial page size of a kind. Nil or non-positive
	// results use the table default.
	PageSize func(slug string) int
	// Debounce delays search requests in the browser.
	Debounce time.Duration
	// Programs holds the computed columns per kind slug.
	Programs map[string]*starlark.Program
}

// TableSignals are the Datastar signals posted by table controls.
type TableSignals struct {
	Action     string `json:"action"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	SortColumn string `json:"sortColumn"`
	Filter     string `json:"filter"`
	RowID      string `json:"rowId"`
	Checked    bool   `json:"checked"`
}

// ListAction converts the signals into a list action.
func (s TableSignals) ListAction() listing.Action {
	return listing.Action{
		Name:     s.Action,
		Page:     s.Page,
		PageSize: s.PageSize,
		Column:   s.SortColumn,
		Filter:   s.Filter,
		RowID:    s.RowID,
		Checked:  s.Checked,
	}
}

// formView is the state of a create or edit form.
type formView struct {
	action    string
	submit    string
	cancel    string
	values    map[string][]string
	errors    map[string]string
	formError string
}
