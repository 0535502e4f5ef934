package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/haulwise/tmsadmin/internal/ui/resources"
	"github.com/haulwise/tmsadmin/internal/ui/shell"
)

// AppName is shown in the header and page titles.
const AppName = "Haulwise TMS"

// Page is the chrome around a page's content.
type Page struct {
	Title   string
	Path    string
	UI      shell.UIState
	Menu    []shell.MenuSection
	Crumbs  []shell.Crumb
	Flashes []shell.Flash
	// Updates is an SSE endpoint opened when the page loads.
	Updates string
	Dev     bool
}

var doctype = templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, "<!doctype html>")
	return err
})

// Document renders a full HTML page.
func Document(p Page, content templ.Component) templ.Component {
	return group(
		doctype,
		el("html", attrs("lang", "en", "data-theme", p.UI.Theme),
			el("head", nil,
				el("meta", attrs("charset", "utf-8")),
				el("meta", attrs("name", "viewport", "content", "width=device-width, initial-scale=1")),
				el("title", nil, text(p.Title+" - "+AppName)),
				el("link", attrs("rel", "stylesheet", "href", resources.StaticPath(resources.Stylesheet))),
				el("script", attrs("type", "module", "src", resources.DatastarScript)),
			),
			el("body", nil,
				Shell(p, content),
				devReload(p.Dev),
			),
		),
	)
}

func devReload(dev bool) templ.Component {
	if !dev {
		return nil
	}
	return el("div", attrs("data-init", "@get('/reload', {retryMaxCount: 1000})"))
}

// Shell renders the sidebar, header and content area. It is the element
// patched by page updates.
func Shell(p Page, content templ.Component) templ.Component {
	cls := "shell"
	if p.UI.SidebarCollapsed {
		cls = classes(cls, "sidebar-collapsed")
	}
	a := attrs("id", "app", "class", cls)
	if p.Updates != "" {
		a = append(a, attrs("data-init", "@get("+jsString(p.Updates)+")")...)
	}
	return el("div", a,
		Sidebar(p.Menu),
		el("div", attrs("class", "main"),
			Header(p),
			MobileMenu(p),
			el("main", attrs("id", "content", "class", "content"),
				Breadcrumbs(p.Crumbs),
				content,
			),
		),
		Toasts(p.Flashes),
	)
}

// toggle renders a button posting a UI state change that returns to path.
func toggle(action, label, aria, path string, pressed bool) templ.Component {
	return el("form", attrs("method", "post", "action", action),
		el("input", attrs("type", "hidden", "name", "return", "value", path)),
		el("button", attrs(
			"type", "submit",
			"class", "btn",
			"aria-label", aria,
			"aria-pressed", boolString(pressed),
		), text(label)),
	)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Header renders the top bar with the chrome toggles.
func Header(p Page) templ.Component {
	themeLabel := "Dark"
	if p.UI.Dark() {
		themeLabel = "Light"
	}
	return el("header", attrs("class", "header"),
		el("span", attrs("class", "mobile-toggle"),
			toggle("/ui/mobile-menu", "☰", "Toggle menu", p.Path, p.UI.MobileMenuOpen)),
		el("a", attrs("class", "brand", "href", "/"), text(AppName)),
		toggle("/ui/sidebar", "Sidebar", "Collapse sidebar", p.Path, p.UI.SidebarCollapsed),
		toggle("/ui/theme", themeLabel, "Toggle theme", p.Path, p.UI.Dark()),
	)
}

func menuLinks(sections []shell.MenuSection, withHeadings bool) []templ.Component {
	var out []templ.Component
	for _, s := range sections {
		if withHeadings {
			out = append(out, el("h2", nil, text(s.Title)))
		}
		for _, item := range s.Items {
			a := attrs("href", item.Href, "data-icon", item.Icon)
			if item.Active {
				a = append(a, attrs("class", "active", "aria-current", "page")...)
			}
			out = append(out, el("a", a, el("span", attrs("class", "label"), text(item.Title))))
		}
	}
	return out
}

// Sidebar renders the navigation menu.
func Sidebar(sections []shell.MenuSection) templ.Component {
	return el("aside", attrs("class", "sidebar"),
		el("nav", attrs("aria-label", "Main"), menuLinks(sections, true)...),
	)
}

// MobileMenu renders the menu shown on small screens.
func MobileMenu(p Page) templ.Component {
	cls := "mobile-menu"
	if p.UI.MobileMenuOpen {
		cls = classes(cls, "open")
	}
	return el("div", attrs("id", "mobile-menu", "class", cls, "aria-hidden", boolString(!p.UI.MobileMenuOpen)),
		el("nav", attrs("aria-label", "Mobile"), menuLinks(p.Menu, false)...),
	)
}

// Breadcrumbs renders the trail; the last crumb is the current page.
func Breadcrumbs(crumbs []shell.Crumb) templ.Component {
	if len(crumbs) == 0 {
		return nil
	}
	items := make([]templ.Component, len(crumbs))
	for i, c := range crumbs {
		if c.Href == "" {
			items[i] = el("li", nil, el("span", attrs("aria-current", "page"), text(c.Label)))
			continue
		}
		items[i] = el("li", nil, el("a", attrs("href", c.Href), text(c.Label)))
	}
	return el("nav", attrs("class", "breadcrumbs", "aria-label", "Breadcrumb"), el("ol", nil, items...))
}

// Toasts renders flash messages.
func Toasts(flashes []shell.Flash) templ.Component {
	if len(flashes) == 0 {
		return nil
	}
	items := make([]templ.Component, len(flashes))
	for i, f := range flashes {
		cls, role := "toast", "status"
		if f.Error {
			cls, role = "toast error", "alert"
		}
		items[i] = el("div", attrs("class", cls, "role", role,
			"data-init", "setTimeout(() => el.remove(), 5000)"), text(f.Message))
	}
	return el("div", attrs("class", "toasts"), items...)
}

// Toolbar renders a page heading with actions on the right.
func Toolbar(title string, actions ...templ.Component) templ.Component {
	return el("div", attrs("class", "toolbar"),
		el("h1", nil, text(title)),
		group(actions...),
	)
}

// LinkButton renders a link styled as a button.
func LinkButton(href, label string, primary bool) templ.Component {
	cls := "btn"
	if primary {
		cls = classes(cls, "btn-primary")
	}
	return el("a", attrs("class", cls, "href", href), text(label))
}

// Text renders escaped text.
func Text(s string) templ.Component {
	return text(s)
}
