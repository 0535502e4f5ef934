package fleet

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/store"
	"github.com/haulwise/tmsadmin/internal/ui/features"
	"github.com/haulwise/tmsadmin/internal/ui/shell"
	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestRouter(t *testing.T) (http.Handler, *Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	cfg := Config{PageSize: func(string) int { return 10 }}

	router := chi.NewRouter()
	require.NoError(t, SetupRoutes(router, fixture.Deps(), cfg))

	return router, NewHandlers(fixture.Deps(), cfg), fixture
}

func do(h http.Handler, method, target string, body url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postSignals(h http.Handler, target, signals string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(signals))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func seedDrivers(f *features.TestFixture, n int) {
	for i := range n {
		f.Create(catalog.Drivers, fmt.Sprintf("drv-%02d", i), map[string]any{
			"first_name":     "Driver",
			"last_name":      fmt.Sprintf("Number %02d", i),
			"license_number": fmt.Sprintf("DE-%05d", i),
			"license_class":  "CE",
			"status":         "active",
		})
	}
}

func seedCarrier(f *features.TestFixture, id, name string) catalog.Record {
	return f.Create(catalog.Carriers, id, map[string]any{
		"name":    name,
		"scac":    "NFGH",
		"country": "DE",
		"status":  "active",
	})
}

func tableURL(t *testing.T, slug string, s datatable.State) string {
	t.Helper()
	token, err := EncodeState(s)
	require.NoError(t, err)
	return "/fleet/" + slug + "/table?state=" + token
}

func received(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

// =============================================================================
// List page and table actions
// =============================================================================

func TestListPage(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	seedCarrier(fixture, "car-01", "Nordfracht GmbH")

	rec := do(router, http.MethodGet, "/fleet/carriers", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>Carriers - Haulwise TMS</title>",
		`id="table-carriers"`,
		"/fleet/carriers/table?state=",
		"/fleet/carriers/updates",
		`href="/fleet/carriers/new"`,
		"Nordfracht GmbH",
		"Page 1 of 1 (Total: 1)",
	} {
		assert.Contains(t, body, want, "response should contain %q", want)
	}
}

func TestListPage_UnknownKind(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	rec := do(router, http.MethodGet, "/fleet/spaceships", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "The page does not exist.")
}

func TestListPage_QueryParams(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	seedDrivers(fixture, 23)

	rec := do(router, http.MethodGet, "/fleet/drivers?page=3&size=10", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page 3 of 3 (Total: 23)")
	assert.Contains(t, rec.Body.String(), `data-row="drv-20"`)

	rec = do(router, http.MethodGet, "/fleet/drivers?page=banana", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "bad parameters fall back to the first page")
	assert.Contains(t, rec.Body.String(), "Page 1 of 3 (Total: 23)")
}

func TestTableAction_Next(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	seedDrivers(fixture, 23)

	target := tableURL(t, catalog.Drivers, datatable.State{Pagination: datatable.PaginationState{PageSize: 10}})
	rec := postSignals(router, target, `{"action":"next"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "event: datastar-patch-elements")
	assert.Contains(t, body, "Page 2 of 3 (Total: 23)")
	assert.Contains(t, body, `data-row="drv-10"`)
	assert.NotContains(t, body, `data-row="drv-00"`)

	next := tableURL(t, catalog.Drivers, datatable.State{Pagination: datatable.PaginationState{PageIndex: 1, PageSize: 10}})
	assert.Contains(t, body, strings.TrimPrefix(next, "/fleet/drivers/table?state="), "endpoint carries the new state")
}

func TestTableAction_Filter(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	seedCarrier(fixture, "car-01", "Nordfracht GmbH")
	seedCarrier(fixture, "car-02", "Alpen Logistik")

	rec := postSignals(router, tableURL(t, catalog.Carriers, datatable.State{}), `{"action":"filter","filter":"alpen"}`)

	body := rec.Body.String()
	assert.Contains(t, body, `data-row="car-02"`)
	assert.NotContains(t, body, `data-row="car-01"`)
	assert.Contains(t, body, "Page 1 of 1 (Total: 1)")
}

func TestTableAction_ClickNavigates(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	seedCarrier(fixture, "car-01", "Nordfracht GmbH")

	rec := postSignals(router, tableURL(t, catalog.Carriers, datatable.State{}), `{"action":"click","rowId":"car-01"}`)

	body := rec.Body.String()
	assert.Contains(t, body, "window.location.assign")
	assert.Contains(t, body, "/fleet/carriers/car-01")
	assert.NotContains(t, body, `id="table-carriers"`, "navigation replaces the patch")
}

func TestTableAction_Errors(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	seedCarrier(fixture, "car-01", "Nordfracht GmbH")

	rec := postSignals(router, "/fleet/carriers/table?state=%25%25", `{"action":"next"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postSignals(router, "/fleet/carriers/table", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postSignals(router, tableURL(t, catalog.Carriers, datatable.State{}), `{"action":"explode"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "console.error", "errors are reported to the browser console")
	assert.Contains(t, body, `id="table-carriers"`, "the table is patched anyway")
}

func TestListUpdates_RefreshOnBroadcast(t *testing.T) {
	_, h, fixture := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/fleet/driver-teams/updates", nil)
	req = features.RequestWithPathParam(req, "kind", catalog.DriverTeams)

	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ListUpdates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	// Drivers changing affects the team list.
	fixture.Notifier.Broadcast(catalog.Affected(catalog.Drivers)...)

	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1)
	assert.Contains(t, body, "table-driver-teams-refresh")
	assert.Equal(t, 0, fixture.Notifier.Listeners(), "listener removed when the stream ends")
}

func TestListUpdates_IgnoresOtherKinds(t *testing.T) {
	_, h, fixture := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/fleet/carriers/updates", nil)
	req = features.RequestWithPathParam(req, "kind", catalog.Carriers)

	ctx, cancel := context.WithTimeout(req.Context(), 150*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.ListUpdates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	fixture.Notifier.Broadcast(catalog.Trailers)
	<-done

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"))
}

// =============================================================================
// Detail, forms and delete
// =============================================================================

func TestDetailPage(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	fixture.Create(catalog.Drivers, "drv-01", map[string]any{
		"first_name":     "Jonas",
		"last_name":      "Berg",
		"license_number": "DE-00001",
		"license_class":  "CE",
		"adr_certified":  true,
		"status":         "active",
	})

	rec := do(router, http.MethodGet, "/fleet/drivers/drv-01", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Jonas Berg - Haulwise TMS</title>",
		"CE (truck and trailer)",
		"<dd>Yes</dd>",
		`href="/fleet/drivers/drv-01/edit"`,
		`action="/fleet/drivers/drv-01/delete"`,
		"confirmDelete",
		"ago",
	} {
		assert.Contains(t, body, want)
	}
}

func TestDetailPage_TeamMembers(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	seedDrivers(fixture, 1)
	fixture.Create(catalog.DriverTeams, "team-north", map[string]any{
		"name":       "North",
		"driver_ids": []string{"drv-00", "drv-gone"},
	})

	rec := do(router, http.MethodGet, "/fleet/driver-teams/team-north", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<a href="/fleet/drivers/drv-00">Driver Number 00</a>`)
	assert.Contains(t, body, "<dd>drv-gone</dd>", "missing drivers are listed without a link")
}

func TestDetailPage_NotFound(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	rec := do(router, http.MethodGet, "/fleet/carriers/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "The record does not exist.")
}

func TestNewPage(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	seedDrivers(fixture, 2)

	rec := do(router, http.MethodGet, "/fleet/driver-teams/new", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>New driver team - Haulwise TMS</title>")
	assert.Contains(t, body, `action="/fleet/driver-teams"`)
	assert.Contains(t, body, `name="driver_ids"`)
	assert.Contains(t, body, "multiple")
	assert.Contains(t, body, `<option value="drv-01">Driver Number 01</option>`)
}

func TestCreate(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	carriers := fixture.Notifier.Subscribe(catalog.Carriers)
	defer fixture.Notifier.Unsubscribe(carriers)

	rec := do(router, http.MethodPost, "/fleet/carriers", url.Values{
		"name":    {"Nordfracht GmbH"},
		"scac":    {"NFGH"},
		"country": {"DE"},
		"status":  {"active"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/fleet/carriers/"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), shell.SessionName, "success toast is flashed")
	assert.True(t, received(carriers), "carrier lists are notified")

	n, err := fixture.Store.Count(context.Background(), catalog.Carriers)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreate_Invalid(t *testing.T) {
	router, _, fixture := setupTestRouter(t)

	rec := do(router, http.MethodPost, "/fleet/carriers", url.Values{
		"name":    {"Nordfracht GmbH"},
		"scac":    {"nf"},
		"country": {"DE"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please correct the highlighted fields.")
	assert.Contains(t, body, `id="field-scac-error"`)
	assert.Contains(t, body, `id="field-status-error"`)
	assert.Contains(t, body, `value="nf"`, "submitted values are kept")

	n, err := fixture.Store.Count(context.Background(), catalog.Carriers)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreate_UnknownTeamMember(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	seedDrivers(fixture, 1)

	rec := do(router, http.MethodPost, "/fleet/driver-teams", url.Values{
		"name":       {"North"},
		"driver_ids": {"drv-00", "drv-ghost"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown driver")
}

func TestEditAndUpdate(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	seedCarrier(fixture, "car-01", "Nordfracht GmbH")

	rec := do(router, http.MethodGet, "/fleet/carriers/car-01/edit", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Nordfracht GmbH"`)
	assert.Contains(t, rec.Body.String(), `action="/fleet/carriers/car-01"`)

	rec = do(router, http.MethodPost, "/fleet/carriers/car-01", url.Values{
		"name":    {"Nordfracht AG"},
		"scac":    {"NFAG"},
		"country": {"AT"},
		"status":  {"active"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/fleet/carriers/car-01", rec.Header().Get("Location"))

	got, err := fixture.Store.Get(context.Background(), catalog.Carriers, "car-01")
	require.NoError(t, err)
	assert.Equal(t, "Nordfracht AG", got.String("name"))
	assert.Equal(t, "AT", got.String("country"))
}

func TestDelete(t *testing.T) {
	router, _, fixture := setupTestRouter(t)
	seedDrivers(fixture, 1)
	teams := fixture.Notifier.Subscribe(catalog.DriverTeams)
	defer fixture.Notifier.Unsubscribe(teams)

	rec := do(router, http.MethodPost, "/fleet/drivers/drv-00/delete", url.Values{})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/fleet/drivers", rec.Header().Get("Location"))
	assert.True(t, received(teams), "team lists show drivers")

	_, err := fixture.Store.Get(context.Background(), catalog.Drivers, "drv-00")
	assert.ErrorIs(t, err, store.ErrNotFound)

	rec = do(router, http.MethodPost, "/fleet/drivers/drv-00/delete", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
