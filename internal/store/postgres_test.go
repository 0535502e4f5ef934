package store

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/testutil"
)

var recordColumns = []string{"id", "kind", "data", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db, Postgres, testutil.NewTestLogger(t)), mock
}

func TestPostgres_Create(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO records (id, kind, data, search_text, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`).
		WithArgs("c1", fleet.Carriers, `{"name":"Acme"}`, "acme ", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r, err := st.Create(context.Background(), fleet.Record{ID: "c1", Kind: fleet.Carriers, Data: map[string]any{"name": "Acme"}})
	require.NoError(t, err)
	assert.Equal(t, "c1", r.ID)
	assert.False(t, r.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Query(t *testing.T) {
	tests := []struct {
		name      string
		query     ListQuery
		countSQL  string
		countArgs []any
		listSQL   string
		listArgs  []any
	}{
		{
			name:      "filter with json sort",
			query:     ListQuery{Offset: 10, Limit: 5, SortKey: "last_name", SortDesc: true, Filter: "Ber"},
			countSQL:  `SELECT COUNT(*) FROM records WHERE kind = $1 AND search_text LIKE $2 ESCAPE '\'`,
			countArgs: []any{fleet.Drivers, "%ber%"},
			listSQL:   `SELECT id, kind, data, created_at, updated_at FROM records WHERE kind = $1 AND search_text LIKE $2 ESCAPE '\' ORDER BY data -> 'last_name' DESC NULLS LAST, id ASC LIMIT $3 OFFSET $4`,
			listArgs:  []any{fleet.Drivers, "%ber%", 5, 10},
		},
		{
			name:      "default order",
			query:     ListQuery{Limit: 10},
			countSQL:  `SELECT COUNT(*) FROM records WHERE kind = $1`,
			countArgs: []any{fleet.Drivers},
			listSQL:   `SELECT id, kind, data, created_at, updated_at FROM records WHERE kind = $1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`,
			listArgs:  []any{fleet.Drivers, 10, 0},
		},
		{
			name:      "ascending json sort puts nulls first",
			query:     ListQuery{SortKey: "status"},
			countSQL:  `SELECT COUNT(*) FROM records WHERE kind = $1`,
			countArgs: []any{fleet.Drivers},
			listSQL:   `SELECT id, kind, data, created_at, updated_at FROM records WHERE kind = $1 ORDER BY data -> 'status' ASC NULLS FIRST, id ASC`,
			listArgs:  []any{fleet.Drivers},
		},
	}

	created := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, mock := newMockStore(t)

			mock.ExpectQuery(tt.countSQL).
				WithArgs(toDriverArgs(tt.countArgs)...).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
			mock.ExpectQuery(tt.listSQL).
				WithArgs(toDriverArgs(tt.listArgs)...).
				WillReturnRows(sqlmock.NewRows(recordColumns).
					AddRow("d1", fleet.Drivers, []byte(`{"last_name":"Berg"}`), created, created))

			records, total, err := st.Query(context.Background(), fleet.Drivers, tt.query)
			require.NoError(t, err)
			assert.Equal(t, 12, total)
			require.Len(t, records, 1)
			assert.Equal(t, "Berg", records[0].Data["last_name"])
			assert.True(t, created.Equal(records[0].CreatedAt))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgres_DeleteNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM records WHERE kind = $1 AND id = $2`).
		WithArgs(fleet.Vehicles, "v9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.Delete(context.Background(), fleet.Vehicles, "v9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateWrapsErrors(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE records SET data = $1, search_text = $2, updated_at = $3 WHERE kind = $4 AND id = $5`).
		WithArgs(`{}`, "", sqlmock.AnyArg(), fleet.Trailers, "t1").
		WillReturnError(assert.AnError)

	_, err := st.Update(context.Background(), fleet.Record{ID: "t1", Kind: fleet.Trailers})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to update trailers record")
}

func toDriverArgs(args []any) []driver.Value {
	out := make([]driver.Value, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}
