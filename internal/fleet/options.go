package fleet

// Option is one entry of a select input.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Option list names.
const (
	OptionCountries         = "countries"
	OptionLicenseClasses    = "license_classes"
	OptionTrailerTypes      = "trailer_types"
	OptionVehicleTypes      = "vehicle_types"
	OptionFuelCardProviders = "fuel_card_providers"
	OptionStatuses          = "statuses"
	OptionContactRoles      = "contact_roles"
	// OptionDrivers is filled from driver records at request time.
	OptionDrivers = "drivers"
)

var optionLists = map[string][]Option{
	OptionCountries: {
		{"AT", "Austria"},
		{"BE", "Belgium"},
		{"CZ", "Czechia"},
		{"DE", "Germany"},
		{"DK", "Denmark"},
		{"ES", "Spain"},
		{"FR", "France"},
		{"IT", "Italy"},
		{"NL", "Netherlands"},
		{"PL", "Poland"},
		{"SE", "Sweden"},
	},
	OptionLicenseClasses: {
		{"B", "B (car)"},
		{"C1", "C1 (medium truck)"},
		{"C", "C (heavy truck)"},
		{"CE", "CE (truck and trailer)"},
		{"D", "D (bus)"},
	},
	OptionTrailerTypes: {
		{"curtainsider", "Curtainsider"},
		{"reefer", "Refrigerated"},
		{"flatbed", "Flatbed"},
		{"tanker", "Tanker"},
		{"box", "Box"},
		{"lowloader", "Low loader"},
	},
	OptionVehicleTypes: {
		{"tractor", "Tractor unit"},
		{"rigid", "Rigid truck"},
		{"van", "Van"},
	},
	OptionFuelCardProviders: {
		{"dkv", "DKV"},
		{"uta", "UTA"},
		{"shell", "Shell Fleet"},
		{"as24", "AS 24"},
	},
	OptionStatuses: {
		{"active", "Active"},
		{"inactive", "Inactive"},
		{"suspended", "Suspended"},
	},
	OptionContactRoles: {
		{"dispatcher", "Dispatcher"},
		{"billing", "Billing"},
		{"operations", "Operations"},
		{"management", "Management"},
	},
}

// Options returns a static option list, or nil for unknown and dynamic lists.
func Options(name string) []Option {
	list, ok := optionLists[name]
	if !ok {
		return nil
	}
	out := make([]Option, len(list))
	copy(out, list)
	return out
}

// OptionValues returns the allowed values of a static option list.
func OptionValues(name string) []string {
	list := optionLists[name]
	values := make([]string, len(list))
	for i, o := range list {
		values[i] = o.Value
	}
	return values
}

// OptionLabel returns the label of value in a static list, or value itself.
func OptionLabel(name, value string) string {
	for _, o := range optionLists[name] {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// RecordOptions builds an option list from records of a kind.
func RecordOptions(k Kind, records []Record) []Option {
	out := make([]Option, len(records))
	for i, r := range records {
		out[i] = Option{Value: r.ID, Label: k.RecordLabel(r)}
	}
	return out
}
