package fleet

import (
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// Record is one stored entity.
type Record struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// String returns the display text of one data field.
func (r Record) String(key string) string {
	return datatable.FormatValue(r.Data[key])
}

// Strings returns a list field as strings.
func (r Record) Strings(key string) []string {
	var out []string
	if err := mapstructure.WeakDecode(r.Data[key], &out); err != nil {
		return nil
	}
	return out
}

// RecordLabel names a record for breadcrumbs, dialogs and option lists.
func (k Kind) RecordLabel(r Record) string {
	parts := make([]string, 0, len(k.Label))
	for _, key := range k.Label {
		if s := r.String(key); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return r.ID
	}
	return strings.Join(parts, " ")
}

// Row converts a record into a table row.
func (k Kind) Row(r Record) datatable.Row {
	row := make(datatable.Row, len(r.Data)+3)
	for key, v := range r.Data {
		row[key] = v
	}
	row["id"] = r.ID
	row["created_at"] = r.CreatedAt
	row["updated_at"] = r.UpdatedAt
	return row
}

// Rows converts records into table rows.
func (k Kind) Rows(records []Record) []datatable.Row {
	rows := make([]datatable.Row, len(records))
	for i, r := range records {
		rows[i] = k.Row(r)
	}
	return rows
}

// ColumnDefs returns the table columns of the kind. Select columns show the
// option label and checkbox columns show Yes/No.
func (k Kind) ColumnDefs() []datatable.ColumnDef {
	defs := make([]datatable.ColumnDef, len(k.Columns))
	for i, c := range k.Columns {
		def := datatable.ColumnDef{
			ID:        c.Key,
			Header:    c.Header,
			Sortable:  c.Sortable,
			Groupable: c.Group,
		}
		key, list := c.Key, c.Options
		switch c.Type {
		case FieldSelect:
			def.Cell = func(row datatable.Row) string {
				return OptionLabel(list, datatable.FormatValue(row[key]))
			}
		case FieldCheckbox:
			def.Cell = func(row datatable.Row) string {
				if v, _ := row[key].(bool); v {
					return "Yes"
				}
				return "No"
			}
		}
		defs[i] = def
	}
	return defs
}

// Team is the typed view of a driver-team record.
type Team struct {
	Name      string   `mapstructure:"name"`
	Region    string   `mapstructure:"region"`
	DriverIDs []string `mapstructure:"driver_ids"`
}

// DecodeTeam reads a driver-team record.
func DecodeTeam(r Record) (Team, error) {
	var t Team
	if err := mapstructure.WeakDecode(r.Data, &t); err != nil {
		return Team{}, err
	}
	return t, nil
}

// TeamGroups converts driver teams into table groups. The team fields are the
// group data and each member driver is an item. Drivers that no longer exist
// are skipped, so a team may end up with no items.
func TeamGroups(teams []Record, drivers map[string]Record) []datatable.GroupedRow {
	groups := make([]datatable.GroupedRow, 0, len(teams))
	for _, tr := range teams {
		team, err := DecodeTeam(tr)
		if err != nil {
			continue
		}
		g := datatable.GroupedRow{
			GroupID: tr.ID,
			GroupData: datatable.Row{
				"team_id": tr.ID,
				"name":    team.Name,
				"region":  team.Region,
			},
		}
		for _, id := range team.DriverIDs {
			d, ok := drivers[id]
			if !ok {
				continue
			}
			g.Items = append(g.Items, datatable.Row{
				// A driver may belong to several teams.
				"id":            tr.ID + ":" + d.ID,
				"driver_id":     d.ID,
				"driver_name":   strings.TrimSpace(d.String("first_name") + " " + d.String("last_name")),
				"license_class": d.Data["license_class"],
				"phone":         d.Data["phone"],
				"status":        d.Data["status"],
			})
		}
		groups = append(groups, g)
	}
	return groups
}

// UnsearchedKeys are the row fields a list filter never matches: record
// identity and timestamps, plus the team and driver references of grouped
// rows. SearchText covers only record data, so in-memory filtering skips
// these to find the same records a store query finds.
var UnsearchedKeys = []string{"id", "created_at", "updated_at", "team_id", "driver_id"}

// SearchText is the lower-cased text a list filter is matched against.
func SearchText(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		s := datatable.FormatValue(data[k])
		if s == "" {
			continue
		}
		b.WriteString(s)
		b.WriteByte(' ')
	}
	return strings.ToLower(b.String())
}

// FormValues returns the current values of a record as form input strings.
func (k Kind) FormValues(r Record) map[string]string {
	out := make(map[string]string, len(k.Fields))
	for _, f := range k.Fields {
		v, ok := r.Data[f.Key]
		if !ok || v == nil {
			continue
		}
		switch f.Type {
		case FieldCheckbox:
			if b, _ := v.(bool); b {
				out[f.Key] = "on"
			}
		case FieldMulti:
			out[f.Key] = strings.Join(r.Strings(f.Key), ",")
		default:
			out[f.Key] = datatable.FormatValue(v)
		}
	}
	return out
}
