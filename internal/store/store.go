// Package store persists fleet records in SQLite or PostgreSQL.
//
// Every kind lives in a single records table. Record data is kept as JSON
// next to a lower-cased search_text column used by list filters; sorting
// extracts the sort key from the JSON document with the dialect's JSON
// functions.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/haulwise/tmsadmin/internal/fleet"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNotOpen is returned when the store has no open database.
	ErrNotOpen = errors.New("database not opened")
	// ErrInvalidSortKey is returned for sort keys that are not plain field names.
	ErrInvalidSortKey = errors.New("invalid sort key")
)

// ListQuery selects one page of records of a kind.
type ListQuery struct {
	Offset int
	// Limit <= 0 returns every matching record.
	Limit    int
	SortKey  string
	SortDesc bool
	// Filter is matched case-insensitively against the record's search text.
	Filter string
}

// Store is the persistence interface used by the console and the CLI.
type Store interface {
	Open(dsn string) error
	Close() error
	DB() *sql.DB

	Migrate(ctx context.Context) error
	MigrationStatus(ctx context.Context) (MigrationStatus, error)

	Create(ctx context.Context, r fleet.Record) (fleet.Record, error)
	Get(ctx context.Context, kind, id string) (fleet.Record, error)
	Update(ctx context.Context, r fleet.Record) (fleet.Record, error)
	Upsert(ctx context.Context, r fleet.Record) (fleet.Record, bool, error)
	Delete(ctx context.Context, kind, id string) error

	ListAll(ctx context.Context, kind string) ([]fleet.Record, error)
	Query(ctx context.Context, kind string, q ListQuery) ([]fleet.Record, int, error)
	Count(ctx context.Context, kind string) (int, error)
	Counts(ctx context.Context) (map[string]int, error)
}

// Ensure SQLStore implements Store.
var _ Store = (*SQLStore)(nil)
