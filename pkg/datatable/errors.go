package datatable

import "errors"

// Errors returned by the datatable package.
var (
	// ErrNoColumns is returned when a table is created without column definitions.
	ErrNoColumns = errors.New("datatable: no columns defined")

	// ErrUnknownColumn is returned when an operation names a column that does not exist.
	ErrUnknownColumn = errors.New("datatable: unknown column")

	// ErrColumnNotSortable is returned when sorting is requested on a non-sortable column.
	ErrColumnNotSortable = errors.New("datatable: column is not sortable")

	// ErrSelectionDisabled is returned by selection operations when row selection is off.
	ErrSelectionDisabled = errors.New("datatable: row selection is disabled")

	// ErrUnknownRow is returned when a row identifier is not part of the current data.
	ErrUnknownRow = errors.New("datatable: unknown row")

	// ErrModeSwitch is returned when an update would move the table to another
	// pagination authority. Authorities are fixed for the lifetime of a table.
	ErrModeSwitch = errors.New("datatable: pagination authority cannot change")

	// ErrClosed is returned by operations on a closed table.
	ErrClosed = errors.New("datatable: table is closed")
)
