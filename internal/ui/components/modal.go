package components

import "github.com/a-h/templ"

// ModalProps configures Modal. Signal is the Datastar signal showing the
// dialog; it must be declared by an ancestor.
type ModalProps struct {
	ID      string
	Title   string
	Signal  string
	Body    templ.Component
	Actions []templ.Component
}

// Modal renders a dialog shown while its signal is true.
func Modal(m ModalProps) templ.Component {
	titleID := m.ID + "-title"
	closeExpr := "$" + m.Signal + " = false"
	return el("div", attrs(
		"id", m.ID,
		"class", "modal-backdrop",
		"style", "display: none",
		"data-show", "$"+m.Signal,
		"data-on:keydown__window", "evt.key === 'Escape' && ("+closeExpr+")",
	),
		el("div", attrs("class", "modal", "role", "dialog", "aria-modal", "true", "aria-labelledby", titleID),
			el("h2", attrs("id", titleID), text(m.Title)),
			m.Body,
			el("div", attrs("class", "actions"),
				el("button", attrs("type", "button", "class", "btn", "data-on:click", closeExpr), text("Cancel")),
				group(m.Actions...),
			),
		),
	)
}

// OpenModalButton renders a button setting a modal's signal.
func OpenModalButton(signal, label string, danger bool) templ.Component {
	cls := "btn"
	if danger {
		cls = classes(cls, "btn-danger")
	}
	return el("button", attrs("type", "button", "class", cls, "data-on:click", "$"+signal+" = true"), text(label))
}

// PostButton renders a form posting to action with a single submit button.
func PostButton(action, label string, danger bool) templ.Component {
	cls := "btn btn-primary"
	if danger {
		cls = "btn btn-danger"
	}
	return el("form", attrs("method", "post", "action", action),
		el("button", attrs("type", "submit", "class", cls), text(label)),
	)
}
