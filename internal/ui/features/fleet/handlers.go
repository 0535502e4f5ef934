package fleet

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	catalog "github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/listing"
	"github.com/haulwise/tmsadmin/internal/ui/components"
	"github.com/haulwise/tmsadmin/internal/ui/features/common"
	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// Handlers provides HTTP handlers for the fleet feature.
type Handlers struct {
	common.Deps
	cfg Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps common.Deps, cfg Config) *Handlers {
	return &Handlers{Deps: deps, cfg: cfg}
}

func (h *Handlers) kind(r *http.Request) (catalog.Kind, error) {
	return catalog.Lookup(chi.URLParam(r, "kind"))
}

func (h *Handlers) listOptions(k catalog.Kind) listing.Options {
	opts := listing.Options{
		Debounce: h.cfg.Debounce,
		Program:  h.cfg.Programs[k.Slug],
		Logger:   h.Log(),
	}
	if h.cfg.PageSize != nil {
		opts.PageSize = h.cfg.PageSize(k.Slug)
	}
	return opts
}

func tableID(k catalog.Kind) string {
	return "table-" + k.Slug
}

// tableProps binds the list's current state into the action endpoint.
func tableProps(k catalog.Kind, l *listing.List) (components.TableProps, error) {
	token, err := EncodeState(l.State())
	if err != nil {
		return components.TableProps{}, err
	}
	return components.TableProps{
		ID:       tableID(k),
		Endpoint: k.Href() + "/table?" + stateParam + "=" + token,
		Model:    l.Render(),
	}, nil
}

// ListPage renders a kind's list. Links may carry a state token or the
// page, size, sort and q parameters; undecodable state falls back to the
// first page.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	k, err := h.kind(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	state, err := queryState(r.URL.Query())
	if err != nil {
		h.Log().Debug("ignoring list state", "kind", k.Slug, "error", err)
		state = datatable.State{}
	}

	l, err := listing.Open(r.Context(), h.Store, k, state, h.listOptions(k))
	if err != nil {
		h.Error(w, r, err)
		return
	}
	defer l.Close()

	props, err := tableProps(k, l)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	page := h.Page(w, r, k.Title)
	page.Updates = k.Href() + "/updates"
	h.Render(w, r, http.StatusOK, page, components.Fragment(
		components.Toolbar(k.Title, components.LinkButton(k.Href()+"/new", "New "+strings.ToLower(k.Singular), true)),
		components.DataTable(props),
	))
}

// TableAction applies one table action posted by the browser and patches
// the table. The state travels in the endpoint's query, the action in the
// signals. Row clicks navigate to the record instead.
func (h *Handlers) TableAction(w http.ResponseWriter, r *http.Request) {
	k, err := h.kind(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	// Signals must be read before the SSE stream starts.
	var signals TableSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	state, err := DecodeState(r.URL.Query().Get(stateParam))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)

	l, err := listing.Open(r.Context(), h.Store, k, state, h.listOptions(k))
	if err != nil {
		h.Log().Error("failed to open list", "kind", k.Slug, "error", err)
		_ = sse.ConsoleError(err)
		return
	}
	defer l.Close()

	if err := l.Apply(signals.ListAction()); err != nil {
		// The table is still patched so the page shows the actual state.
		h.Log().Warn("table action failed", "kind", k.Slug, "action", signals.Action, "error", err)
		_ = sse.ConsoleError(err)
	}

	if row, ok := l.Clicked(); ok {
		_ = sse.ExecuteScript(navigateScript(listing.DetailHref(k, row)))
		return
	}

	props, err := tableProps(k, l)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(components.DataTable(props)); err != nil {
		h.Log().Debug("failed to patch table", "kind", k.Slug, "error", err)
	}
}

// ListUpdates is the long-lived SSE endpoint of a list page. When records
// of the kind change, the browser re-posts its current table state.
func (h *Handlers) ListUpdates(w http.ResponseWriter, r *http.Request) {
	k, err := h.kind(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := h.Notifier.Subscribe(k.Slug)
	defer h.Notifier.Unsubscribe(updates)

	refresh := clickScript(components.TableProps{ID: tableID(k)}.RefreshID())
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.ExecuteScript(refresh); err != nil {
				return
			}
		}
	}
}

func navigateScript(href string) string {
	b, _ := json.Marshal(href)
	return "window.location.assign(" + string(b) + ")"
}

func clickScript(id string) string {
	b, _ := json.Marshal(id)
	return "document.getElementById(" + string(b) + ")?.click()"
}
