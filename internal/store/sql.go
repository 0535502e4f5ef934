package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/haulwise/tmsadmin/internal/fleet"
)

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a store for the given dialect. Call Open before use.
// If logger is nil, a discard logger is used.
func New(dialect Dialect, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLStore{dialect: dialect, logger: logger, now: time.Now}
}

// NewWithDB wraps an already opened database.
func NewWithDB(db *sql.DB, dialect Dialect, logger *slog.Logger) *SQLStore {
	s := New(dialect, logger)
	s.db = db
	return s
}

// Open connects to the database. For SQLite, dsn is a file path or
// ":memory:"; the parent directory of a file path is created.
func (s *SQLStore) Open(dsn string) error {
	connStr := dsn
	if s.dialect.Name == SQLite.Name {
		if dsn == ":memory:" {
			connStr = ":memory:?_pragma=foreign_keys(1)"
		} else {
			if dir := filepath.Dir(dsn); dir != "." {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create database directory: %w", err)
				}
			}
			connStr = dsn + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		}
	}

	s.logger.Debug("opening store", slog.String("dialect", s.dialect.Name))

	db, err := sql.Open(s.dialect.Driver, connStr)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", s.dialect.Name, err)
	}
	if dsn == ":memory:" {
		// Every connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s database: %w", s.dialect.Name, err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying database.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Dialect returns the store's dialect.
func (s *SQLStore) Dialect() Dialect {
	return s.dialect
}

func (s *SQLStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Create inserts a record. An empty ID is replaced by a new UUID.
func (s *SQLStore) Create(ctx context.Context, r fleet.Record) (fleet.Record, error) {
	if s.db == nil {
		return fleet.Record{}, ErrNotOpen
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	data, err := encodeData(r.Data)
	if err != nil {
		return fleet.Record{}, err
	}
	now := s.timestamp()
	r.CreatedAt, r.UpdatedAt = now, now

	_, err = s.db.ExecContext(ctx, s.dialect.Rebind(
		`INSERT INTO records (id, kind, data, search_text, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
		r.ID, r.Kind, data, fleet.SearchText(r.Data), s.dialect.timeValue(now), s.dialect.timeValue(now),
	)
	if err != nil {
		return fleet.Record{}, fmt.Errorf("failed to create %s record: %w", r.Kind, err)
	}

	s.logger.Debug("record created", slog.String("kind", r.Kind), slog.String("id", r.ID))
	return r, nil
}

// Get returns one record.
func (s *SQLStore) Get(ctx context.Context, kind, id string) (fleet.Record, error) {
	if s.db == nil {
		return fleet.Record{}, ErrNotOpen
	}
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(
		`SELECT id, kind, data, created_at, updated_at FROM records WHERE kind = ? AND id = ?`),
		kind, id,
	)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return fleet.Record{}, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	if err != nil {
		return fleet.Record{}, fmt.Errorf("failed to get %s record: %w", kind, err)
	}
	return r, nil
}

// Update replaces the data of an existing record.
func (s *SQLStore) Update(ctx context.Context, r fleet.Record) (fleet.Record, error) {
	if s.db == nil {
		return fleet.Record{}, ErrNotOpen
	}
	data, err := encodeData(r.Data)
	if err != nil {
		return fleet.Record{}, err
	}

	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(
		`UPDATE records SET data = ?, search_text = ?, updated_at = ? WHERE kind = ? AND id = ?`),
		data, fleet.SearchText(r.Data), s.dialect.timeValue(s.timestamp()), r.Kind, r.ID,
	)
	if err != nil {
		return fleet.Record{}, fmt.Errorf("failed to update %s record: %w", r.Kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fleet.Record{}, fmt.Errorf("failed to update %s record: %w", r.Kind, err)
	}
	if n == 0 {
		return fleet.Record{}, fmt.Errorf("%w: %s %s", ErrNotFound, r.Kind, r.ID)
	}

	s.logger.Debug("record updated", slog.String("kind", r.Kind), slog.String("id", r.ID))
	return s.Get(ctx, r.Kind, r.ID)
}

// Upsert updates the record if it exists and creates it otherwise. The
// boolean reports whether the record was created.
func (s *SQLStore) Upsert(ctx context.Context, r fleet.Record) (fleet.Record, bool, error) {
	if r.ID != "" {
		_, err := s.Get(ctx, r.Kind, r.ID)
		switch {
		case err == nil:
			updated, err := s.Update(ctx, r)
			return updated, false, err
		case !errors.Is(err, ErrNotFound):
			return fleet.Record{}, false, err
		}
	}
	created, err := s.Create(ctx, r)
	return created, err == nil, err
}

// Delete removes a record.
func (s *SQLStore) Delete(ctx context.Context, kind, id string) error {
	if s.db == nil {
		return ErrNotOpen
	}
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(
		`DELETE FROM records WHERE kind = ? AND id = ?`), kind, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}

	s.logger.Debug("record deleted", slog.String("kind", kind), slog.String("id", id))
	return nil
}

// ListAll returns every record of a kind in creation order.
func (s *SQLStore) ListAll(ctx context.Context, kind string) ([]fleet.Record, error) {
	records, _, err := s.Query(ctx, kind, ListQuery{})
	return records, err
}

// Query returns one page of records of a kind and the number of records
// matching the filter.
func (s *SQLStore) Query(ctx context.Context, kind string, q ListQuery) ([]fleet.Record, int, error) {
	if s.db == nil {
		return nil, 0, ErrNotOpen
	}
	order, err := s.orderBy(q)
	if err != nil {
		return nil, 0, err
	}

	where := `kind = ?`
	args := []any{kind}
	if f := strings.TrimSpace(q.Filter); f != "" {
		where += ` AND search_text LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(strings.ToLower(f))+"%")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, s.dialect.Rebind(
		`SELECT COUNT(*) FROM records WHERE `+where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s records: %w", kind, err)
	}

	query := `SELECT id, kind, data, created_at, updated_at FROM records WHERE ` + where + ` ORDER BY ` + order
	if q.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, q.Limit, max(q.Offset, 0))
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query %s records: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()

	var records []fleet.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan %s record: %w", kind, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to query %s records: %w", kind, err)
	}
	return records, total, nil
}

// Count returns the number of records of a kind.
func (s *SQLStore) Count(ctx context.Context, kind string) (int, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	var n int
	if err := s.db.QueryRowContext(ctx, s.dialect.Rebind(
		`SELECT COUNT(*) FROM records WHERE kind = ?`), kind).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", kind, err)
	}
	return n, nil
}

// Counts returns the number of records per kind.
func (s *SQLStore) Counts(ctx context.Context) (map[string]int, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM records GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan record count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

var sortKeyPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// orderBy builds the ORDER BY clause. Sort keys are interpolated, so only
// plain field names are accepted.
func (s *SQLStore) orderBy(q ListQuery) (string, error) {
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	switch q.SortKey {
	case "":
		return "created_at ASC, id ASC", nil
	case "id", "created_at", "updated_at":
		return fmt.Sprintf("%s %s, id ASC", q.SortKey, dir), nil
	}
	if !sortKeyPattern.MatchString(q.SortKey) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, q.SortKey)
	}
	return fmt.Sprintf("%s %s%s, id ASC", s.dialect.jsonField(q.SortKey), dir, s.dialect.nullsOrder(q.SortDesc)), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func encodeData(data map[string]any) (string, error) {
	if data == nil {
		data = map[string]any{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode record data: %w", err)
	}
	return string(b), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (fleet.Record, error) {
	var (
		r                fleet.Record
		data             []byte
		created, updated string
	)
	if err := sc.Scan(&r.ID, &r.Kind, &data, &created, &updated); err != nil {
		return fleet.Record{}, err
	}
	if err := json.Unmarshal(data, &r.Data); err != nil {
		return fleet.Record{}, fmt.Errorf("failed to decode record data: %w", err)
	}
	var err error
	if r.CreatedAt, err = parseTime(created); err != nil {
		return fleet.Record{}, err
	}
	if r.UpdatedAt, err = parseTime(updated); err != nil {
		return fleet.Record{}, err
	}
	return r, nil
}

// parseTime reads timestamps written by either dialect. PostgreSQL values
// arrive as time.Time and are formatted by database/sql as RFC 3339.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
