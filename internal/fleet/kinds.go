// Package fleet describes the entities managed by the back office: their
// list columns, form fields, option lists and validation schemas.
package fleet

import (
	"fmt"

	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// FieldType is the input type of a form field and the value type of a column.
type FieldType string

// Field types.
const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldInteger  FieldType = "integer"
	FieldDate     FieldType = "date"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldSelect   FieldType = "select"
	FieldMulti    FieldType = "multiselect"
	FieldCheckbox FieldType = "checkbox"
)

// Column is one column of a kind's list screen.
type Column struct {
	Key      string
	Header   string
	Type     FieldType
	Options  string // option list for FieldSelect columns
	Sortable bool
	// Group marks columns rendered once per group in grouped lists.
	Group bool
}

// Field is one input of a kind's create/edit form.
type Field struct {
	Key         string
	Label       string
	Type        FieldType
	Options     string
	Required    bool
	Placeholder string
}

// Kind describes one entity type.
type Kind struct {
	Slug     string
	Title    string
	Singular string
	Icon     string
	Section  string
	// Mode is the pagination authority of the list screen.
	Mode    datatable.Mode
	Columns []Column
	Fields  []Field
	// Label is the field used to name a record in breadcrumbs and dialogs.
	Label []string
}

// Slugs of the managed kinds.
const (
	Carriers        = "carriers"
	Drivers         = "drivers"
	DriverTeams     = "driver-teams"
	Trailers        = "trailers"
	Vehicles        = "vehicles"
	PartnerCarriers = "partner-carriers"
	FuelCards       = "fuel-cards"
	Contacts        = "contacts"
)

var catalog = []Kind{
	{
		Slug:     Carriers,
		Title:    "Carriers",
		Singular: "Carrier",
		Icon:     "truck",
		Section:  "Fleet",
		Mode:     datatable.ModeClient,
		Label:    []string{"name"},
		Columns: []Column{
			{Key: "name", Header: "Name", Type: FieldText, Sortable: true},
			{Key: "scac", Header: "SCAC", Type: FieldText, Sortable: true},
			{Key: "country", Header: "Country", Type: FieldSelect, Options: OptionCountries, Sortable: true},
			{Key: "city", Header: "City", Type: FieldText, Sortable: true},
			{Key: "status", Header: "Status", Type: FieldSelect, Options: OptionStatuses, Sortable: true},
		},
		Fields: []Field{
			{Key: "name", Label: "Name", Type: FieldText, Required: true},
			{Key: "scac", Label: "SCAC code", Type: FieldText, Required: true, Placeholder: "ABCD"},
			{Key: "country", Label: "Country", Type: FieldSelect, Options: OptionCountries, Required: true},
			{Key: "city", Label: "City", Type: FieldText},
			{Key: "phone", Label: "Phone", Type: FieldTel},
			{Key: "email", Label: "Email", Type: FieldEmail},
			{Key: "status", Label: "Status", Type: FieldSelect, Options: OptionStatuses, Required: true},
		},
	},
	{
		Slug:     Drivers,
		Title:    "Drivers",
		Singular: "Driver",
		Icon:     "id-card",
		Section:  "Fleet",
		Mode:     datatable.ModeServer,
		Label:    []string{"first_name", "last_name"},
		Columns: []Column{
			{Key: "last_name", Header: "Last name", Type: FieldText, Sortable: true},
			{Key: "first_name", Header: "First name", Type: FieldText, Sortable: true},
			{Key: "license_class", Header: "License", Type: FieldSelect, Options: OptionLicenseClasses, Sortable: true},
			{Key: "license_expiry", Header: "Expires", Type: FieldDate, Sortable: true},
			{Key: "phone", Header: "Phone", Type: FieldTel},
			{Key: "status", Header: "Status", Type: FieldSelect, Options: OptionStatuses, Sortable: true},
		},
		Fields: []Field{
			{Key: "first_name", Label: "First name", Type: FieldText, Required: true},
			{Key: "last_name", Label: "Last name", Type: FieldText, Required: true},
			{Key: "license_number", Label: "License number", Type: FieldText, Required: true},
			{Key: "license_class", Label: "License class", Type: FieldSelect, Options: OptionLicenseClasses, Required: true},
			{Key: "license_expiry", Label: "License expiry", Type: FieldDate},
			{Key: "phone", Label: "Phone", Type: FieldTel},
			{Key: "email", Label: "Email", Type: FieldEmail},
			{Key: "adr_certified", Label: "ADR certified", Type: FieldCheckbox},
			{Key: "status", Label: "Status", Type: FieldSelect, Options: OptionStatuses, Required: true},
		},
	},
	{
		Slug:     DriverTeams,
		Title:    "Driver teams",
		Singular: "Driver team",
		Icon:     "users",
		Section:  "Fleet",
		Mode:     datatable.ModeGrouped,
		Label:    []string{"name"},
		Columns: []Column{
			{Key: "name", Header: "Team", Type: FieldText, Group: true},
			{Key: "region", Header: "Region", Type: FieldText, Group: true},
			{Key: "driver_name", Header: "Driver", Type: FieldText, Sortable: true},
			{Key: "license_class", Header: "License", Type: FieldSelect, Options: OptionLicenseClasses, Sortable: true},
			{Key: "phone", Header: "Phone", Type: FieldTel},
		},
		Fields: []Field{
			{Key: "name", Label: "Name", Type: FieldText, Required: true},
			{Key: "region", Label: "Region", Type: FieldText},
			{Key: "driver_ids", Label: "Drivers", Type: FieldMulti, Options: OptionDrivers},
		},
	},
	{
		Slug:     Trailers,
		Title:    "Trailers",
		Singular: "Trailer",
		Icon:     "container",
		Section:  "Fleet",
		Mode:     datatable.ModeClient,
		Label:    []string{"plate"},
		Columns: []Column{
			{Key: "plate", Header: "Plate", Type: FieldText, Sortable: true},
			{Key: "trailer_type", Header: "Type", Type: FieldSelect, Options: OptionTrailerTypes, Sortable: true},
			{Key: "capacity_kg", Header: "Capacity (kg)", Type: FieldInteger, Sortable: true},
			{Key: "length_m", Header: "Length (m)", Type: FieldNumber, Sortable: true},
			{Key: "status", Header: "Status", Type: FieldSelect, Options: OptionStatuses, Sortable: true},
		},
		Fields: []Field{
			{Key: "plate", Label: "Plate", Type: FieldText, Required: true},
			{Key: "trailer_type", Label: "Type", Type: FieldSelect, Options: OptionTrailerTypes, Required: true},
			{Key: "capacity_kg", Label: "Capacity (kg)", Type: FieldInteger},
			{Key: "length_m", Label: "Length (m)", Type: FieldNumber},
			{Key: "status", Label: "Status", Type: FieldSelect, Options: OptionStatuses, Required: true},
		},
	},
	{
		Slug:     Vehicles,
		Title:    "Vehicles",
		Singular: "Vehicle",
		Icon:     "truck-front",
		Section:  "Fleet",
		Mode:     datatable.ModeServer,
		Label:    []string{"plate"},
		Columns: []Column{
			{Key: "plate", Header: "Plate", Type: FieldText, Sortable: true},
			{Key: "make", Header: "Make", Type: FieldText, Sortable: true},
			{Key: "model", Header: "Model", Type: FieldText, Sortable: true},
			{Key: "vehicle_type", Header: "Type", Type: FieldSelect, Options: OptionVehicleTypes, Sortable: true},
			{Key: "year", Header: "Year", Type: FieldInteger, Sortable: true},
			{Key: "status", Header: "Status", Type: FieldSelect, Options: OptionStatuses, Sortable: true},
		},
		Fields: []Field{
			{Key: "plate", Label: "Plate", Type: FieldText, Required: true},
			{Key: "vin", Label: "VIN", Type: FieldText, Placeholder: "17 characters"},
			{Key: "make", Label: "Make", Type: FieldText, Required: true},
			{Key: "model", Label: "Model", Type: FieldText},
			{Key: "vehicle_type", Label: "Type", Type: FieldSelect, Options: OptionVehicleTypes, Required: true},
			{Key: "year", Label: "Year", Type: FieldInteger},
			{Key: "status", Label: "Status", Type: FieldSelect, Options: OptionStatuses, Required: true},
		},
	},
	{
		Slug:     PartnerCarriers,
		Title:    "Partner carriers",
		Singular: "Partner carrier",
		Icon:     "handshake",
		Section:  "Partners",
		Mode:     datatable.ModeClient,
		Label:    []string{"name"},
		Columns: []Column{
			{Key: "name", Header: "Name", Type: FieldText, Sortable: true},
			{Key: "country", Header: "Country", Type: FieldSelect, Options: OptionCountries, Sortable: true},
			{Key: "contact_email", Header: "Contact", Type: FieldEmail},
			{Key: "rating", Header: "Rating", Type: FieldNumber, Sortable: true},
			{Key: "status", Header: "Status", Type: FieldSelect, Options: OptionStatuses, Sortable: true},
		},
		Fields: []Field{
			{Key: "name", Label: "Name", Type: FieldText, Required: true},
			{Key: "country", Label: "Country", Type: FieldSelect, Options: OptionCountries, Required: true},
			{Key: "contact_email", Label: "Contact email", Type: FieldEmail},
			{Key: "rating", Label: "Rating (0-5)", Type: FieldNumber},
			{Key: "status", Label: "Status", Type: FieldSelect, Options: OptionStatuses, Required: true},
		},
	},
	{
		Slug:     FuelCards,
		Title:    "Fuel cards",
		Singular: "Fuel card",
		Icon:     "credit-card",
		Section:  "Partners",
		Mode:     datatable.ModeServer,
		Label:    []string{"card_number"},
		Columns: []Column{
			{Key: "card_number", Header: "Card", Type: FieldText, Sortable: true},
			{Key: "provider", Header: "Provider", Type: FieldSelect, Options: OptionFuelCardProviders, Sortable: true},
			{Key: "vehicle_plate", Header: "Vehicle", Type: FieldText, Sortable: true},
			{Key: "expiry", Header: "Expires", Type: FieldDate, Sortable: true},
			{Key: "monthly_limit", Header: "Limit", Type: FieldNumber, Sortable: true},
			{Key: "status", Header: "Status", Type: FieldSelect, Options: OptionStatuses, Sortable: true},
		},
		Fields: []Field{
			{Key: "card_number", Label: "Card number", Type: FieldText, Required: true},
			{Key: "provider", Label: "Provider", Type: FieldSelect, Options: OptionFuelCardProviders, Required: true},
			{Key: "vehicle_plate", Label: "Vehicle plate", Type: FieldText},
			{Key: "expiry", Label: "Expiry", Type: FieldDate},
			{Key: "monthly_limit", Label: "Monthly limit", Type: FieldNumber},
			{Key: "status", Label: "Status", Type: FieldSelect, Options: OptionStatuses, Required: true},
		},
	},
	{
		Slug:     Contacts,
		Title:    "Contacts",
		Singular: "Contact",
		Icon:     "address-book",
		Section:  "Directory",
		Mode:     datatable.ModeClient,
		Label:    []string{"name"},
		Columns: []Column{
			{Key: "name", Header: "Name", Type: FieldText, Sortable: true},
			{Key: "role", Header: "Role", Type: FieldSelect, Options: OptionContactRoles, Sortable: true},
			{Key: "company", Header: "Company", Type: FieldText, Sortable: true},
			{Key: "email", Header: "Email", Type: FieldEmail},
			{Key: "phone", Header: "Phone", Type: FieldTel},
		},
		Fields: []Field{
			{Key: "name", Label: "Name", Type: FieldText, Required: true},
			{Key: "role", Label: "Role", Type: FieldSelect, Options: OptionContactRoles, Required: true},
			{Key: "company", Label: "Company", Type: FieldText},
			{Key: "email", Label: "Email", Type: FieldEmail},
			{Key: "phone", Label: "Phone", Type: FieldTel},
		},
	},
}

// Kinds returns every kind in menu order.
func Kinds() []Kind {
	out := make([]Kind, len(catalog))
	copy(out, catalog)
	return out
}

// Slugs returns the slug of every kind in menu order.
func Slugs() []string {
	out := make([]string, len(catalog))
	for i, k := range catalog {
		out[i] = k.Slug
	}
	return out
}

// Lookup returns the kind with the given slug.
func Lookup(slug string) (Kind, error) {
	for _, k := range catalog {
		if k.Slug == slug {
			return k, nil
		}
	}
	return Kind{}, fmt.Errorf("%w: %s", ErrUnknownKind, slug)
}

// Column returns the column with the given key.
func (k Kind) Column(key string) (Column, bool) {
	for _, c := range k.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Field returns the form field with the given key.
func (k Kind) Field(key string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// SortKeys returns the keys of the sortable columns.
func (k Kind) SortKeys() []string {
	var keys []string
	for _, c := range k.Columns {
		if c.Sortable {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// GroupColumns returns the keys of the columns shared by a group.
func (k Kind) GroupColumns() []string {
	var keys []string
	for _, c := range k.Columns {
		if c.Group {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// IsGrouped reports whether the kind lists groups of records.
func (k Kind) IsGrouped() bool {
	return k.Mode == datatable.ModeGrouped
}

// Href returns the list URL of the kind.
func (k Kind) Href() string {
	return "/fleet/" + k.Slug
}

// Affected returns the kinds whose lists show records of slug: the kind
// itself and, for drivers, the driver teams.
func Affected(slug string) []string {
	if slug == Drivers {
		return []string{Drivers, DriverTeams}
	}
	return []string{slug}
}
