package common

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/store"
	"github.com/haulwise/tmsadmin/internal/ui/components"
	"github.com/haulwise/tmsadmin/internal/ui/shell"
)

// Page assembles the chrome of the page at the request's path. Pending
// flashes are consumed.
func (d Deps) Page(w http.ResponseWriter, r *http.Request, title string) components.Page {
	path := r.URL.Path
	return components.Page{
		Title:   title,
		Path:    path,
		UI:      shell.Load(d.SessionStore, r),
		Menu:    shell.Menu(path),
		Crumbs:  shell.Breadcrumbs(path, d.labeler(r.Context())),
		Flashes: shell.Flashes(d.SessionStore, w, r),
		Dev:     d.IsDev,
	}
}

// labeler names records in breadcrumbs. Unknown records keep their id.
func (d Deps) labeler(ctx context.Context) shell.RecordLabeler {
	return func(kind fleet.Kind, id string) string {
		rec, err := d.Store.Get(ctx, kind.Slug, id)
		if err != nil {
			return id
		}
		return kind.RecordLabel(rec)
	}
}

// Flash queues a toast for the next page. Failures are logged only.
func (d Deps) Flash(w http.ResponseWriter, r *http.Request, f shell.Flash) {
	if err := shell.AddFlash(d.SessionStore, w, r, f); err != nil {
		d.Log().Warn("failed to save flash", "error", err)
	}
}

// Render writes a full page with the given status.
func (d Deps) Render(w http.ResponseWriter, r *http.Request, status int, page components.Page, content templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := components.Document(page, content).Render(r.Context(), w); err != nil {
		d.Log().Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}

// Error maps err to a status and renders an error page. Unexpected errors
// are logged.
func (d Deps) Error(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "Something went wrong."
	switch {
	case errors.Is(err, store.ErrNotFound):
		status, msg = http.StatusNotFound, "The record does not exist."
	case errors.Is(err, fleet.ErrUnknownKind):
		status, msg = http.StatusNotFound, "The page does not exist."
	default:
		d.Log().Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	page := d.Page(w, r, http.StatusText(status))
	d.Render(w, r, status, page, components.Section(http.StatusText(status), components.Muted(msg)))
}

// SafeReturn returns target when it is a local absolute path, fallback
// otherwise.
func SafeReturn(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return target
}
