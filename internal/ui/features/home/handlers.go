package home

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/ui/components"
	"github.com/haulwise/tmsadmin/internal/ui/features/common"
	"github.com/haulwise/tmsadmin/internal/ui/notifier"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps common.Deps) *Handlers {
	return &Handlers{Deps: deps}
}

// HomePage renders the dashboard with one card per kind.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	cards, err := h.buildCards(r.Context())
	if err != nil {
		h.Error(w, r, err)
		return
	}

	page := h.Page(w, r, "Dashboard")
	page.Updates = "/updates"
	h.Render(w, r, http.StatusOK, page, components.Fragment(
		components.Toolbar("Dashboard"),
		cards,
	))
}

// HomePageUpdates is the long-lived SSE endpoint for the dashboard page.
// It does not send initial state; that is rendered by HomePage.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.Notifier.Subscribe(notifier.All)
	defer h.Notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			cards, err := h.buildCards(ctx)
			if err != nil {
				_ = sse.ConsoleError(err)
				// Don't return - keep trying on next update
				continue
			}
			if err := sse.PatchElementTempl(cards); err != nil {
				return
			}
		}
	}
}

// buildCards counts the records of every kind.
func (h *Handlers) buildCards(ctx context.Context) (templ.Component, error) {
	counts, err := h.Store.Counts(ctx)
	if err != nil {
		return nil, err
	}
	kinds := fleet.Kinds()
	cards := make([]components.Card, len(kinds))
	for i, k := range kinds {
		cards[i] = components.Card{Title: k.Title, Count: counts[k.Slug], Href: k.Href()}
	}
	return components.Cards(cardsID, cards), nil
}
