package fleet

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	catalog "github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/ui/components"
	"github.com/haulwise/tmsadmin/internal/ui/shell"
)

// NewPage renders the create form of a kind.
func (h *Handlers) NewPage(w http.ResponseWriter, r *http.Request) {
	k, err := h.kind(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, k, newTitle(k), createView(k))
}

// EditPage renders the edit form of a record.
func (h *Handlers) EditPage(w http.ResponseWriter, r *http.Request) {
	k, rec, err := h.record(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	view := editView(k, rec)
	view.values = recordValues(k, rec)
	h.renderForm(w, r, http.StatusOK, k, "Edit "+k.RecordLabel(rec), view)
}

// Create stores a new record from the posted form.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	k, err := h.kind(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	data, ok := h.submit(w, r, k, newTitle(k), createView(k))
	if !ok {
		return
	}
	rec, err := h.Store.Create(r.Context(), catalog.Record{Kind: k.Slug, Data: data})
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.Log().Info("record created", "kind", k.Slug, "id", rec.ID)
	h.changed(w, r, k, fmt.Sprintf("%s %q created.", k.Singular, k.RecordLabel(rec)))
	http.Redirect(w, r, k.Href()+"/"+rec.ID, http.StatusSeeOther)
}

// Update replaces the data of a record from the posted form.
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	k, rec, err := h.record(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	data, ok := h.submit(w, r, k, "Edit "+k.RecordLabel(rec), editView(k, rec))
	if !ok {
		return
	}
	rec.Data = data
	rec, err = h.Store.Update(r.Context(), rec)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.Log().Info("record updated", "kind", k.Slug, "id", rec.ID)
	h.changed(w, r, k, fmt.Sprintf("%s %q saved.", k.Singular, k.RecordLabel(rec)))
	http.Redirect(w, r, k.Href()+"/"+rec.ID, http.StatusSeeOther)
}

// Delete removes a record and returns to the list.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	k, rec, err := h.record(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	if err := h.Store.Delete(r.Context(), k.Slug, rec.ID); err != nil {
		h.Error(w, r, err)
		return
	}
	h.Log().Info("record deleted", "kind", k.Slug, "id", rec.ID)
	h.changed(w, r, k, fmt.Sprintf("%s %q deleted.", k.Singular, k.RecordLabel(rec)))
	http.Redirect(w, r, k.Href(), http.StatusSeeOther)
}

// changed queues the success toast and pings the lists showing the kind.
func (h *Handlers) changed(w http.ResponseWriter, r *http.Request, k catalog.Kind, msg string) {
	h.Flash(w, r, shell.Flash{Message: msg})
	h.Notifier.Broadcast(catalog.Affected(k.Slug)...)
}

func newTitle(k catalog.Kind) string {
	return "New " + strings.ToLower(k.Singular)
}

func createView(k catalog.Kind) formView {
	return formView{action: k.Href(), submit: "Create", cancel: k.Href()}
}

func editView(k catalog.Kind, rec catalog.Record) formView {
	href := k.Href() + "/" + rec.ID
	return formView{action: href, submit: "Save", cancel: href}
}

// recordValues returns a record's data as form values.
func recordValues(k catalog.Kind, rec catalog.Record) map[string][]string {
	flat := k.FormValues(rec)
	out := make(map[string][]string, len(k.Fields))
	for _, f := range k.Fields {
		if f.Type == catalog.FieldMulti {
			out[f.Key] = rec.Strings(f.Key)
			continue
		}
		if v, ok := flat[f.Key]; ok {
			out[f.Key] = []string{v}
		}
	}
	return out
}

// submit parses and validates the posted form. Invalid input re-renders the
// form with field errors and reports ok = false.
func (h *Handlers) submit(w http.ResponseWriter, r *http.Request, k catalog.Kind, title string, view formView) (map[string]any, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	data, err := h.validate(r.Context(), k, r.PostForm)
	if err == nil {
		return data, true
	}
	ve, ok := catalog.AsValidationError(err)
	if !ok {
		h.Error(w, r, err)
		return nil, false
	}
	view.values = r.PostForm
	view.errors = ve.Fields
	view.formError = ve.Fields[""]
	h.renderForm(w, r, http.StatusUnprocessableEntity, k, title, view)
	return nil, false
}

// validate coerces form input and checks it against the kind's schema and
// the records it references. Errors of every stage are reported together.
func (h *Handlers) validate(ctx context.Context, k catalog.Kind, form url.Values) (map[string]any, error) {
	verr := &catalog.ValidationError{Kind: k.Singular, Fields: map[string]string{}}
	merge := func(err error) error {
		ve, ok := catalog.AsValidationError(err)
		if !ok {
			return err
		}
		for field, msg := range ve.Fields {
			if _, seen := verr.Fields[field]; !seen {
				verr.Fields[field] = msg
			}
		}
		return nil
	}

	data, err := k.CoerceForm(form)
	if err := merge(err); err != nil {
		return nil, err
	}
	if err := merge(catalog.Validate(k.Slug, data)); err != nil {
		return nil, err
	}
	if err := merge(h.checkRefs(ctx, k, data)); err != nil {
		return nil, err
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return data, nil
}

// checkRefs reports multi-select values naming records that do not exist.
func (h *Handlers) checkRefs(ctx context.Context, k catalog.Kind, data map[string]any) error {
	verr := &catalog.ValidationError{Kind: k.Singular, Fields: map[string]string{}}
	for _, f := range k.Fields {
		ref, ok := refKind(f.Options)
		if !ok || f.Type != catalog.FieldMulti {
			continue
		}
		ids, _ := data[f.Key].([]string)
		if len(ids) == 0 {
			continue
		}
		records, err := h.Store.ListAll(ctx, ref.Slug)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(records))
		for _, rec := range records {
			known[rec.ID] = true
		}
		for _, id := range ids {
			if !known[id] {
				verr.Fields[f.Key] = fmt.Sprintf("unknown %s %q", strings.ToLower(ref.Singular), id)
				break
			}
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (h *Handlers) renderForm(w http.ResponseWriter, r *http.Request, status int, k catalog.Kind, title string, view formView) {
	fields, err := h.formFields(r.Context(), k, view)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	page := h.Page(w, r, title)
	if len(view.errors) > 0 {
		page.Flashes = append(page.Flashes, shell.Flash{Error: true, Message: "Please correct the highlighted fields."})
	}
	h.Render(w, r, status, page, components.Fragment(
		components.Toolbar(title),
		components.Form(view.action, view.submit, view.cancel, view.formError, fields...),
	))
}

func (h *Handlers) formFields(ctx context.Context, k catalog.Kind, view formView) ([]templ.Component, error) {
	out := make([]templ.Component, 0, len(k.Fields))
	for _, f := range k.Fields {
		fp := components.FieldProps{
			Name:        f.Key,
			Label:       f.Label,
			Placeholder: f.Placeholder,
			Required:    f.Required,
			Error:       view.errors[f.Key],
		}
		if v := view.values[f.Key]; len(v) > 0 {
			fp.Value = v[0]
		}

		switch f.Type {
		case catalog.FieldSelect, catalog.FieldMulti:
			opts, err := h.options(ctx, f.Options)
			if err != nil {
				return nil, err
			}
			sp := components.SelectProps{FieldProps: fp, Options: opts}
			if f.Type == catalog.FieldMulti {
				sp.Multiple = true
				sp.Values = view.values[f.Key]
			}
			out = append(out, components.Select(sp))
		case catalog.FieldCheckbox:
			out = append(out, components.Checkbox(fp))
		default:
			fp.Type = inputType(f.Type)
			out = append(out, components.Input(fp))
		}
	}
	return out, nil
}

// options resolves a static or record-backed option list.
func (h *Handlers) options(ctx context.Context, name string) ([]components.Option, error) {
	list := catalog.Options(name)
	if ref, ok := refKind(name); ok {
		records, err := h.Store.ListAll(ctx, ref.Slug)
		if err != nil {
			return nil, err
		}
		list = catalog.RecordOptions(ref, records)
	}
	out := make([]components.Option, len(list))
	for i, o := range list {
		out[i] = components.Option{Value: o.Value, Label: o.Label}
	}
	return out, nil
}

func inputType(t catalog.FieldType) string {
	switch t {
	case catalog.FieldNumber, catalog.FieldInteger:
		return "number"
	case catalog.FieldDate:
		return "date"
	case catalog.FieldEmail:
		return "email"
	case catalog.FieldTel:
		return "tel"
	default:
		return "text"
	}
}
