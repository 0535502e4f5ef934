package components

import (
	"slices"

	"github.com/a-h/templ"
)

// Option is one entry of a select.
type Option struct {
	Value string
	Label string
}

// FieldProps configures a form control.
type FieldProps struct {
	Name        string
	Label       string
	Type        string
	Value       string
	Placeholder string
	Required    bool
	Error       string
}

func (f FieldProps) id() string {
	return "field-" + f.Name
}

func fieldWrap(f FieldProps, control templ.Component, extra string) templ.Component {
	cls := classes("field", extra)
	if f.Error != "" {
		cls = classes(cls, "invalid")
	}
	labelCls := ""
	if f.Required {
		labelCls = "required"
	}
	var errMsg templ.Component
	if f.Error != "" {
		errMsg = el("span", attrs("id", f.id()+"-error", "class", "error", "role", "alert"), text(f.Error))
	}
	return el("div", attrs("class", cls),
		el("label", attrs("for", f.id(), "class", labelCls), text(f.Label)),
		control,
		errMsg,
	)
}

func controlAttrs(f FieldProps) templ.OrderedAttributes {
	a := attrs("id", f.id(), "name", f.Name, "required", f.Required)
	if f.Error != "" {
		a = append(a, attrs("aria-invalid", "true", "aria-describedby", f.id()+"-error")...)
	}
	return a
}

// Input renders a labelled input.
func Input(f FieldProps) templ.Component {
	typ := f.Type
	if typ == "" {
		typ = "text"
	}
	a := controlAttrs(f)
	a = append(a, attrs("type", typ, "value", f.Value)...)
	if f.Placeholder != "" {
		a = append(a, attrs("placeholder", f.Placeholder)...)
	}
	if typ == "number" {
		a = append(a, attrs("step", "any")...)
	}
	return fieldWrap(f, el("input", a), "")
}

// Checkbox renders a labelled checkbox. Value "on" checks it.
func Checkbox(f FieldProps) templ.Component {
	a := attrs("id", f.id(), "name", f.Name, "type", "checkbox", "value", "on", "checked", f.Value == "on")
	return fieldWrap(f, el("input", a), "checkbox")
}

// SelectProps configures Select.
type SelectProps struct {
	FieldProps
	Options  []Option
	Multiple bool
	// Values are the selected values of a multiple select.
	Values []string
}

// Select renders a labelled select. Single selects start with an empty
// choice so that required fields are picked explicitly.
func Select(s SelectProps) templ.Component {
	a := controlAttrs(s.FieldProps)
	a = append(a, attrs("multiple", s.Multiple)...)

	opts := make([]templ.Component, 0, len(s.Options)+1)
	if !s.Multiple {
		opts = append(opts, el("option", attrs("value", ""), text("Select...")))
	}
	for _, o := range s.Options {
		selected := o.Value == s.Value
		if s.Multiple {
			selected = slices.Contains(s.Values, o.Value)
		}
		opts = append(opts, el("option", attrs("value", o.Value, "selected", selected), text(o.Label)))
	}
	return fieldWrap(s.FieldProps, el("select", a, opts...), "")
}

// Form renders a POST form with a submit and a cancel link.
func Form(action, submit, cancelHref, formError string, fields ...templ.Component) templ.Component {
	var errBox templ.Component
	if formError != "" {
		errBox = el("div", attrs("class", "form-error", "role", "alert"), text(formError))
	}
	return el("form", attrs("method", "post", "action", action, "novalidate", true),
		errBox,
		group(fields...),
		el("div", attrs("class", "toolbar"),
			el("button", attrs("type", "submit", "class", "btn btn-primary"), text(submit)),
			LinkButton(cancelHref, "Cancel", false),
		),
	)
}
