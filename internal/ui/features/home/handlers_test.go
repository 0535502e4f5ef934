package home

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/ui/features"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	return NewHandlers(fixture.Deps()), fixture
}

func seedCarriers(f *features.TestFixture, ids ...string) {
	for _, id := range ids {
		f.Create(fleet.Carriers, id, map[string]any{"name": "Carrier " + id, "scac": "ABCD", "country": "DE", "status": "active"})
	}
}

// =============================================================================
// HomePage Tests - Full HTML page responses with server-rendered content
// =============================================================================

func TestHomePage(t *testing.T) {
	tests := []struct {
		name       string
		wantStatus int
		wantBody   []string // strings that should be present in response
	}{
		{
			name:       "returns HTML with dashboard title and full content",
			wantStatus: http.StatusOK,
			wantBody: []string{
				"<!doctype html>",
				"<title>Dashboard - Haulwise TMS</title>",
				"data-init",
				"/updates",
				`id="dashboard-cards"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			h.HomePage(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want, "response should contain %q", want)
			}
		})
	}
}

func TestHomePage_WithRecords(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	seedCarriers(fixture, "car-1", "car-2")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.HomePage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	// Every kind gets a card linking to its list
	for _, k := range fleet.Kinds() {
		assert.Contains(t, body, `href="`+k.Href()+`"`)
	}
	assert.Contains(t, body, `data-count="2"`, "carrier card shows the count")
	assert.Contains(t, body, `aria-current="page"`, "dashboard menu item is active")
}

// =============================================================================
// HomePageUpdates Tests - SSE endpoint for live updates only
// =============================================================================

func TestHomePageUpdates_SendsUpdateOnBroadcast(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)

	// Use longer timeout to allow for broadcast
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()

	// Run handler in goroutine
	done := make(chan struct{})
	go func() {
		h.HomePageUpdates(rec, req)
		close(done)
	}()

	// Wait a bit, add a record, then broadcast its kind
	time.Sleep(50 * time.Millisecond)
	seedCarriers(fixture, "car-1")
	fixture.Notifier.Broadcast(fleet.Carriers)

	// Wait for handler to complete (context timeout)
	<-done

	body := rec.Body.String()

	eventCount := strings.Count(body, "event:")
	assert.GreaterOrEqual(t, eventCount, 1, "should have at least 1 SSE event from broadcast")
	assert.Contains(t, body, `id="dashboard-cards"`)
	assert.Contains(t, body, `data-count="1"`, "update should contain the new count")
}

func TestHomePageUpdates_NoInitialState(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)

	// Short timeout - no broadcast, so should timeout with no events
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.HomePageUpdates(rec, req)

	eventCount := strings.Count(rec.Body.String(), "event:")
	assert.Equal(t, 0, eventCount, "should have no SSE events without broadcast")
}
