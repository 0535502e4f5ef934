package components

import (
	"strconv"

	"github.com/a-h/templ"
)

// DetailItem is one term of a detail list.
type DetailItem struct {
	Term  string
	Value string
	// Href links the value when set.
	Href string
}

// DetailList renders record fields as a definition list.
func DetailList(items []DetailItem) templ.Component {
	children := make([]templ.Component, 0, 2*len(items))
	for _, it := range items {
		value := text(it.Value)
		if it.Href != "" {
			value = el("a", attrs("href", it.Href), text(it.Value))
		}
		children = append(children, el("dt", nil, text(it.Term)), el("dd", nil, value))
	}
	return el("dl", attrs("class", "detail"), children...)
}

// Card is one dashboard tile.
type Card struct {
	Title string
	Count int
	Href  string
}

// Cards renders dashboard tiles.
func Cards(id string, cards []Card) templ.Component {
	items := make([]templ.Component, len(cards))
	for i, c := range cards {
		items[i] = el("a", attrs("class", "card", "href", c.Href, "data-count", c.Count),
			el("div", attrs("class", "count"), text(strconv.Itoa(c.Count))),
			el("div", attrs("class", "title"), text(c.Title)),
		)
	}
	return el("section", attrs("id", id, "class", "cards"), items...)
}

// Section renders a titled block.
func Section(title string, children ...templ.Component) templ.Component {
	return el("section", nil, el("h2", nil, text(title)), group(children...))
}

// Muted renders de-emphasized text.
func Muted(s string) templ.Component {
	return el("p", attrs("class", "muted"), text(s))
}

// Signals declares Datastar signals for its children.
func Signals(signals string, children ...templ.Component) templ.Component {
	return el("div", attrs("data-signals", signals), children...)
}
