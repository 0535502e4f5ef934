package shell

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding the UI state and flash messages.
const SessionName = "tmsadmin-ui"

const (
	keyTheme   = "theme"
	keySidebar = "sidebar_collapsed"
	keyMobile  = "mobile_menu_open"

	flashSuccess = "flash_success"
	flashError   = "flash_error"
)

// Flash is a one-time message shown as a toast on the next page.
type Flash struct {
	Error   bool
	Message string
}

// Load reads the UI state of the request. A missing or undecodable cookie
// yields the default state.
func Load(store sessions.Store, r *http.Request) UIState {
	state := DefaultUIState()
	session, err := store.Get(r, SessionName)
	if err != nil {
		return state
	}
	if v, ok := session.Values[keyTheme].(string); ok {
		state.Theme = v
	}
	if v, ok := session.Values[keySidebar].(bool); ok {
		state.SidebarCollapsed = v
	}
	if v, ok := session.Values[keyMobile].(bool); ok {
		state.MobileMenuOpen = v
	}
	state.normalize()
	return state
}

// Save writes the UI state to the session cookie.
func Save(store sessions.Store, w http.ResponseWriter, r *http.Request, state UIState) error {
	session, _ := store.Get(r, SessionName)
	state.normalize()
	session.Values[keyTheme] = state.Theme
	session.Values[keySidebar] = state.SidebarCollapsed
	session.Values[keyMobile] = state.MobileMenuOpen
	return session.Save(r, w)
}

// AddFlash queues a message for the next page render.
func AddFlash(store sessions.Store, w http.ResponseWriter, r *http.Request, f Flash) error {
	session, _ := store.Get(r, SessionName)
	key := flashSuccess
	if f.Error {
		key = flashError
	}
	session.AddFlash(f.Message, key)
	return session.Save(r, w)
}

// Flashes pops the queued messages. It writes the session cookie, so it must
// run before the response body is written.
func Flashes(store sessions.Store, w http.ResponseWriter, r *http.Request) []Flash {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	var out []Flash
	for _, v := range session.Flashes(flashSuccess) {
		if msg, ok := v.(string); ok {
			out = append(out, Flash{Message: msg})
		}
	}
	for _, v := range session.Flashes(flashError) {
		if msg, ok := v.(string); ok {
			out = append(out, Flash{Error: true, Message: msg})
		}
	}
	if len(out) > 0 {
		_ = session.Save(r, w)
	}
	return out
}
