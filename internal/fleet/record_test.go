package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulwise/tmsadmin/pkg/datatable"
)

func driver(id, first, last string) Record {
	return Record{ID: id, Kind: Drivers, Data: map[string]any{
		"first_name": first, "last_name": last, "license_class": "CE", "phone": "+46 70 123",
	}}
}

func TestTeamGroups(t *testing.T) {
	drivers := map[string]Record{
		"d1": driver("d1", "Jonas", "Berg"),
		"d2": driver("d2", "Mia", "Holm"),
	}
	teams := []Record{
		{ID: "t1", Kind: DriverTeams, Data: map[string]any{"name": "North", "region": "SE", "driver_ids": []any{"d1", "d2"}}},
		{ID: "t2", Kind: DriverTeams, Data: map[string]any{"name": "Ghost", "driver_ids": []any{"gone"}}},
	}

	groups := TeamGroups(teams, drivers)

	require.Len(t, groups, 2)
	assert.Equal(t, "t1", groups[0].GroupID)
	assert.Equal(t, "North", groups[0].GroupData["name"])
	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, "Jonas Berg", groups[0].Items[0]["driver_name"])
	assert.Equal(t, "t1:d1", groups[0].Items[0]["id"])
	assert.Empty(t, groups[1].Items, "missing drivers are skipped")

	rows := datatable.FlattenGroups(groups)
	assert.Len(t, rows, 2)
}

func TestKind_ColumnDefs(t *testing.T) {
	carriers, err := Lookup(Carriers)
	require.NoError(t, err)

	defs := carriers.ColumnDefs()
	require.Len(t, defs, len(carriers.Columns))

	row := datatable.Row{"country": "DE", "status": "active"}
	for _, d := range defs {
		switch d.Key() {
		case "country":
			assert.Equal(t, "Germany", d.Text(row))
		case "status":
			assert.Equal(t, "Active", d.Text(row))
		}
	}
}

func TestKind_RowAndLabel(t *testing.T) {
	drivers, err := Lookup(Drivers)
	require.NoError(t, err)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	r := driver("d1", "Jonas", "Berg")
	r.CreatedAt = created

	row := drivers.Row(r)

	assert.Equal(t, "d1", row["id"])
	assert.Equal(t, created, row["created_at"])
	assert.Equal(t, "Jonas Berg", drivers.RecordLabel(r))
	assert.Equal(t, "d9", drivers.RecordLabel(Record{ID: "d9"}))
}

func TestSearchText(t *testing.T) {
	got := SearchText(map[string]any{"name": "Nordic Haulage", "country": "SE", "rating": 4.5})
	assert.Equal(t, "se nordic haulage 4.5 ", got)
}

func TestFormValues(t *testing.T) {
	teams, err := Lookup(DriverTeams)
	require.NoError(t, err)

	got := teams.FormValues(Record{Data: map[string]any{"name": "North", "driver_ids": []any{"d1", "d2"}}})

	assert.Equal(t, map[string]string{"name": "North", "driver_ids": "d1,d2"}, got)
}
