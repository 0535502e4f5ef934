package fleet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulwise/tmsadmin/pkg/datatable"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		slug     string
		wantMode datatable.Mode
		wantErr  bool
	}{
		{slug: Carriers, wantMode: datatable.ModeClient},
		{slug: Drivers, wantMode: datatable.ModeServer},
		{slug: DriverTeams, wantMode: datatable.ModeGrouped},
		{slug: "loads", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			k, err := Lookup(tt.slug)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, k.Mode)
			assert.Equal(t, "/fleet/"+tt.slug, k.Href())
		})
	}
}

func TestCatalog_Consistency(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Kinds() {
		assert.False(t, seen[k.Slug], "duplicate slug %s", k.Slug)
		seen[k.Slug] = true

		assert.NotEmpty(t, k.Columns, "%s has no columns", k.Slug)
		assert.NotEmpty(t, k.Fields, "%s has no fields", k.Slug)
		assert.Equal(t, k.IsGrouped(), len(k.GroupColumns()) > 0, "%s group columns", k.Slug)

		for _, c := range k.Columns {
			if c.Type == FieldSelect {
				assert.NotEmpty(t, Options(c.Options), "%s.%s option list", k.Slug, c.Key)
			}
		}
	}
	assert.Len(t, seen, 8)
}

// Select fields and their schema enums must offer the same values.
func TestCatalog_SchemaEnumsMatchOptions(t *testing.T) {
	for _, k := range Kinds() {
		raw, err := schemaFS.ReadFile("schemas/" + k.Slug + ".json")
		require.NoError(t, err)

		var doc struct {
			Required   []string `json:"required"`
			Properties map[string]struct {
				Enum []string `json:"enum"`
			} `json:"properties"`
		}
		require.NoError(t, json.Unmarshal(raw, &doc))

		for _, f := range k.Fields {
			prop, ok := doc.Properties[f.Key]
			require.True(t, ok, "%s.%s missing from schema", k.Slug, f.Key)
			if f.Type == FieldSelect {
				assert.ElementsMatch(t, OptionValues(f.Options), prop.Enum, "%s.%s", k.Slug, f.Key)
			}
			if f.Required {
				assert.Contains(t, doc.Required, f.Key, "%s.%s", k.Slug, f.Key)
			}
		}
	}
}

func TestMenu(t *testing.T) {
	items := Menu()

	require.Len(t, items, len(Kinds())+1)
	assert.Equal(t, "Dashboard", items[0].Title)
	assert.Equal(t, "/", items[0].Href)
	assert.Equal(t, "/fleet/carriers", items[1].Href)
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "Germany", OptionLabel(OptionCountries, "DE"))
	assert.Equal(t, "XX", OptionLabel(OptionCountries, "XX"))
	assert.Nil(t, Options(OptionDrivers), "dynamic lists have no static entries")
}

func TestAffected(t *testing.T) {
	assert.Equal(t, []string{Drivers, DriverTeams}, Affected(Drivers))
	assert.Equal(t, []string{Carriers}, Affected(Carriers))
}
