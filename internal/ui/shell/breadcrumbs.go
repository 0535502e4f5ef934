package shell

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/haulwise/tmsadmin/internal/fleet"
)

// Crumb is one breadcrumb. The current page has no Href.
type Crumb struct {
	Label string
	Href  string
}

// RecordLabeler names the record with the given id, e.g. "Jonas Berg".
type RecordLabeler func(kind fleet.Kind, id string) string

// Breadcrumbs derives the trail for a console path:
//
//	/                        Dashboard
//	/fleet/<kind>            Dashboard / <Kind>
//	/fleet/<kind>/new        Dashboard / <Kind> / New <singular>
//	/fleet/<kind>/<id>       Dashboard / <Kind> / <record>
//	/fleet/<kind>/<id>/edit  Dashboard / <Kind> / <record> / Edit
//
// Segments outside this table are title-cased.
func Breadcrumbs(path string, label RecordLabeler) []Crumb {
	crumbs := []Crumb{{Label: "Dashboard", Href: "/"}}
	segments := splitPath(path)

	if len(segments) >= 2 && segments[0] == "fleet" {
		if kind, err := fleet.Lookup(segments[1]); err == nil {
			crumbs = append(crumbs, Crumb{Label: kind.Title, Href: kind.Href()})
			rest := segments[2:]
			if len(rest) > 0 {
				if rest[0] == "new" {
					crumbs = append(crumbs, Crumb{Label: "New " + strings.ToLower(kind.Singular), Href: kind.Href() + "/new"})
				} else {
					name := rest[0]
					if label != nil {
						name = label(kind, rest[0])
					}
					crumbs = append(crumbs, Crumb{Label: name, Href: kind.Href() + "/" + rest[0]})
				}
				rest = rest[1:]
			}
			href := crumbs[len(crumbs)-1].Href
			for _, seg := range rest {
				href += "/" + seg
				crumbs = append(crumbs, Crumb{Label: titleSegment(seg), Href: href})
			}
			return current(crumbs)
		}
	}

	href := ""
	for _, seg := range segments {
		href += "/" + seg
		crumbs = append(crumbs, Crumb{Label: titleSegment(seg), Href: href})
	}
	return current(crumbs)
}

func splitPath(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func titleSegment(seg string) string {
	// A Caser keeps state between calls and is not safe to share.
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(seg))
}

// current clears the link of the last crumb.
func current(crumbs []Crumb) []Crumb {
	crumbs[len(crumbs)-1].Href = ""
	return crumbs
}
