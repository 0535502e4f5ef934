// Package shell holds the console chrome: the per-browser UI state, the
// sidebar menu and breadcrumbs.
package shell

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UIState is the chrome state of one browser. It lives in the session cookie
// and is passed down to the layout explicitly.
type UIState struct {
	Theme            string `json:"theme"`
	SidebarCollapsed bool   `json:"sidebarCollapsed"`
	MobileMenuOpen   bool   `json:"mobileMenuOpen"`
}

// DefaultUIState is the state of a fresh session.
func DefaultUIState() UIState {
	return UIState{Theme: ThemeLight}
}

// Dark reports whether the dark theme is active.
func (s UIState) Dark() bool {
	return s.Theme == ThemeDark
}

// ToggleTheme switches between the light and dark theme.
func (s *UIState) ToggleTheme() {
	if s.Dark() {
		s.Theme = ThemeLight
		return
	}
	s.Theme = ThemeDark
}

// ToggleSidebar collapses or expands the sidebar.
func (s *UIState) ToggleSidebar() {
	s.SidebarCollapsed = !s.SidebarCollapsed
}

// SetMobileMenu opens or closes the mobile menu.
func (s *UIState) SetMobileMenu(open bool) {
	s.MobileMenuOpen = open
}

func (s *UIState) normalize() {
	if s.Theme != ThemeDark {
		s.Theme = ThemeLight
	}
}
