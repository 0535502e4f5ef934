package fleet

// MenuItem is one sidebar entry.
type MenuItem struct {
	Title   string
	Href    string
	Icon    string
	Section string
}

// Menu returns the sidebar entries: the dashboard followed by every kind.
func Menu() []MenuItem {
	items := []MenuItem{{Title: "Dashboard", Href: "/", Icon: "gauge", Section: "Overview"}}
	for _, k := range catalog {
		items = append(items, MenuItem{
			Title:   k.Title,
			Href:    k.Href(),
			Icon:    k.Icon,
			Section: k.Section,
		})
	}
	return items
}
