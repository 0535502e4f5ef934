package settings

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulwise/tmsadmin/internal/ui/features"
	"github.com/haulwise/tmsadmin/internal/ui/shell"
)

func setupTestRouter(t *testing.T) (http.Handler, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t)
	router := chi.NewRouter()
	require.NoError(t, SetupRoutes(router, fixture.Deps()))
	return router, fixture
}

// post sends a toggle with the cookies of the previous response.
func post(h http.Handler, path, ret string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	form := url.Values{"return": {ret}}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func stateOf(t *testing.T, f *features.TestFixture, rec *httptest.ResponseRecorder) shell.UIState {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return shell.Load(f.SessionStore, req)
}

func TestToggles(t *testing.T) {
	tests := []struct {
		path  string
		check func(shell.UIState) bool
	}{
		{"/ui/theme", func(s shell.UIState) bool { return s.Dark() }},
		{"/ui/sidebar", func(s shell.UIState) bool { return s.SidebarCollapsed }},
		{"/ui/mobile-menu", func(s shell.UIState) bool { return s.MobileMenuOpen }},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			router, fixture := setupTestRouter(t)

			rec := post(router, tt.path, "/fleet/drivers?page=2", nil)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/fleet/drivers?page=2", rec.Header().Get("Location"))
			assert.True(t, tt.check(stateOf(t, fixture, rec)))

			// A second toggle restores the default.
			rec = post(router, tt.path, "/", rec.Result().Cookies())
			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.False(t, tt.check(stateOf(t, fixture, rec)))
		})
	}
}

func TestToggle_KeepsOtherFlags(t *testing.T) {
	router, fixture := setupTestRouter(t)

	rec := post(router, "/ui/theme", "/", nil)
	rec = post(router, "/ui/sidebar", "/", rec.Result().Cookies())

	state := stateOf(t, fixture, rec)
	assert.True(t, state.Dark())
	assert.True(t, state.SidebarCollapsed)
	assert.False(t, state.MobileMenuOpen)
}

func TestToggle_RejectsForeignReturn(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := post(router, "/ui/theme", "https://evil.example/", nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}
