// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/store"
	"github.com/haulwise/tmsadmin/internal/testutil"
	"github.com/haulwise/tmsadmin/internal/ui/features/common"
	"github.com/haulwise/tmsadmin/internal/ui/notifier"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Store        store.Store
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore

	t *testing.T
}

// SetupTestFixture creates a fixture backed by an in-memory SQLite store.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	st := store.New(store.SQLite, testutil.NewTestLogger(t))
	require.NoError(t, st.Open(":memory:"))
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() {
		_ = st.Close()
	})

	return &TestFixture{
		Store:        st,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
		t:            t,
	}
}

// Deps returns handler dependencies using the fixture.
func (f *TestFixture) Deps() common.Deps {
	return common.Deps{
		Store:        f.Store,
		SessionStore: f.SessionStore,
		Notifier:     f.Notifier,
		Logger:       testutil.NewTestLogger(f.t),
		IsDev:        false,
	}
}

// Create stores a record and returns it.
func (f *TestFixture) Create(kind, id string, data map[string]any) fleet.Record {
	f.t.Helper()
	rec, err := f.Store.Create(context.Background(), fleet.Record{ID: id, Kind: kind, Data: data})
	require.NoError(f.t, err)
	return rec
}

// RequestWithPathParam wraps a request with chi URL params given as
// key/value pairs.
func RequestWithPathParam(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	// Note: caller should handle cleanup, but for tests the timeout will trigger
	_ = cancel // suppress lint warning, context will be cancelled by timeout
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
