package fleet

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	catalog "github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/ui/components"
)

// confirmSignal shows the delete dialog of a detail page.
const confirmSignal = "confirmDelete"

func (h *Handlers) record(r *http.Request) (catalog.Kind, catalog.Record, error) {
	k, err := h.kind(r)
	if err != nil {
		return k, catalog.Record{}, err
	}
	rec, err := h.Store.Get(r.Context(), k.Slug, chi.URLParam(r, "id"))
	return k, rec, err
}

// DetailPage renders one record with edit and delete actions.
func (h *Handlers) DetailPage(w http.ResponseWriter, r *http.Request) {
	k, rec, err := h.record(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	label := k.RecordLabel(rec)
	href := k.Href() + "/" + rec.ID

	items, refs := h.detailItems(r.Context(), k, rec)
	content := components.Signals(`{"`+confirmSignal+`": false}`,
		components.Toolbar(label,
			components.LinkButton(href+"/edit", "Edit", true),
			components.OpenModalButton(confirmSignal, "Delete", true),
		),
		components.DetailList(items),
		refs,
		components.Muted("Created "+humanize.Time(rec.CreatedAt)+", updated "+humanize.Time(rec.UpdatedAt)),
		components.Modal(components.ModalProps{
			ID:     "confirm-delete",
			Title:  "Delete " + strings.ToLower(k.Singular) + "?",
			Signal: confirmSignal,
			Body:   components.Muted(label + " will be removed permanently."),
			Actions: []templ.Component{
				components.PostButton(href+"/delete", "Delete", true),
			},
		}),
	)

	h.Render(w, r, http.StatusOK, h.Page(w, r, label), content)
}

// detailItems lists the record's fields. Fields referencing other records
// are returned as a separate section of links.
func (h *Handlers) detailItems(ctx context.Context, k catalog.Kind, rec catalog.Record) ([]components.DetailItem, templ.Component) {
	items := make([]components.DetailItem, 0, len(k.Fields))
	var sections []templ.Component
	for _, f := range k.Fields {
		switch f.Type {
		case catalog.FieldCheckbox:
			value := "No"
			if b, _ := rec.Data[f.Key].(bool); b {
				value = "Yes"
			}
			items = append(items, components.DetailItem{Term: f.Label, Value: value})
		case catalog.FieldSelect:
			items = append(items, components.DetailItem{Term: f.Label, Value: catalog.OptionLabel(f.Options, rec.String(f.Key))})
		case catalog.FieldMulti:
			sections = append(sections, h.references(ctx, f, rec.Strings(f.Key)))
		default:
			items = append(items, components.DetailItem{Term: f.Label, Value: rec.String(f.Key)})
		}
	}
	return items, components.Fragment(sections...)
}

// references lists the records a multi-select field points to. Records that
// no longer exist are shown by id without a link.
func (h *Handlers) references(ctx context.Context, f catalog.Field, ids []string) templ.Component {
	ref, ok := refKind(f.Options)
	if !ok {
		items := make([]components.DetailItem, len(ids))
		for i, id := range ids {
			items[i] = components.DetailItem{Term: f.Label, Value: catalog.OptionLabel(f.Options, id)}
		}
		return components.Section(f.Label, components.DetailList(items))
	}
	if len(ids) == 0 {
		return components.Section(f.Label, components.Muted("No "+strings.ToLower(ref.Title)+" assigned."))
	}
	items := make([]components.DetailItem, len(ids))
	for i, id := range ids {
		item := components.DetailItem{Term: ref.Singular, Value: id}
		if target, err := h.Store.Get(ctx, ref.Slug, id); err == nil {
			item.Value = ref.RecordLabel(target)
			item.Href = ref.Href() + "/" + id
		}
		items[i] = item
	}
	return components.Section(f.Label, components.DetailList(items))
}

// refKind returns the kind behind a dynamic option list.
func refKind(options string) (catalog.Kind, bool) {
	if options != catalog.OptionDrivers {
		return catalog.Kind{}, false
	}
	k, err := catalog.Lookup(catalog.Drivers)
	return k, err == nil
}
