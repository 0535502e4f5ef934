package shell

import (
	"strings"

	"github.com/haulwise/tmsadmin/internal/fleet"
)

// MenuItem is a sidebar link.
type MenuItem struct {
	Title  string
	Href   string
	Icon   string
	Active bool
}

// MenuSection groups sidebar links under a heading.
type MenuSection struct {
	Title string
	Items []MenuItem
}

// Menu builds the sidebar for the page at currentPath, keeping the catalog
// order of sections and items.
func Menu(currentPath string) []MenuSection {
	var sections []MenuSection
	index := make(map[string]int)
	for _, item := range fleet.Menu() {
		i, ok := index[item.Section]
		if !ok {
			i = len(sections)
			index[item.Section] = i
			sections = append(sections, MenuSection{Title: item.Section})
		}
		sections[i].Items = append(sections[i].Items, MenuItem{
			Title:  item.Title,
			Href:   item.Href,
			Icon:   item.Icon,
			Active: isActive(item.Href, currentPath),
		})
	}
	return sections
}

func isActive(href, path string) bool {
	if href == "/" {
		return path == "/"
	}
	return path == href || strings.HasPrefix(path, href+"/")
}
