// Package settings provides the endpoints changing the UI state: theme,
// sidebar and mobile menu.
package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haulwise/tmsadmin/internal/ui/features/common"
	"github.com/haulwise/tmsadmin/internal/ui/shell"
)

// Handlers provides HTTP handlers for the settings feature.
type Handlers struct {
	common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps common.Deps) *Handlers {
	return &Handlers{Deps: deps}
}

// ToggleTheme switches between the light and dark theme.
func (h *Handlers) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, (*shell.UIState).ToggleTheme)
}

// ToggleSidebar collapses or expands the sidebar.
func (h *Handlers) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, (*shell.UIState).ToggleSidebar)
}

// ToggleMobileMenu opens or closes the mobile menu.
func (h *Handlers) ToggleMobileMenu(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(s *shell.UIState) {
		s.SetMobileMenu(!s.MobileMenuOpen)
	})
}

// update applies mutate to the session's UI state and sends the browser
// back to the posted return path.
func (h *Handlers) update(w http.ResponseWriter, r *http.Request, mutate func(*shell.UIState)) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	state := shell.Load(h.SessionStore, r)
	mutate(&state)
	if err := shell.Save(h.SessionStore, w, r, state); err != nil {
		h.Error(w, r, err)
		return
	}
	http.Redirect(w, r, common.SafeReturn(r.PostForm.Get("return"), "/"), http.StatusSeeOther)
}

// SetupRoutes configures routes for the settings feature.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	handlers := NewHandlers(deps)

	router.Post("/ui/theme", handlers.ToggleTheme)
	router.Post("/ui/sidebar", handlers.ToggleSidebar)
	router.Post("/ui/mobile-menu", handlers.ToggleMobileMenu)

	return nil
}
