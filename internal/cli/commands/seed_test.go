package commands

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitest "github.com/haulwise/tmsadmin/internal/cli/testutil"
	"github.com/haulwise/tmsadmin/internal/store"
	"github.com/haulwise/tmsadmin/internal/testutil"
)

func importTestSeeds(t *testing.T) (string, store.SeedReport) {
	t.Helper()
	dir := filepath.Join(clitest.SetupTestProject(t), "seeds")
	report, err := store.ImportSeeds(context.Background(), clitest.NewTestStore(t), dir, testutil.NewTestLogger(t))
	require.NoError(t, err)
	return dir, report
}

func TestRenderSeed_Text(t *testing.T) {
	dir, report := importTestSeeds(t)
	tr := clitest.NewTestRendererText()

	require.NoError(t, renderSeed(tr.Renderer, dir, report))

	out := tr.Output()
	assert.Contains(t, out, "carriers")
	assert.Contains(t, out, "driver-teams")
	assert.Contains(t, out, "28 created, 0 updated")
}

func TestRenderSeed_JSON(t *testing.T) {
	dir, report := importTestSeeds(t)
	tr := clitest.NewTestRendererJSON()

	require.NoError(t, renderSeed(tr.Renderer, dir, report))

	var out SeedOutput
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &out))
	assert.Equal(t, 3, out.Files)
	assert.Equal(t, clitest.CarrierCount+5, out.Created)
	assert.Equal(t, []string{"carriers", "drivers", "driver-teams"}, out.Kinds)
	assert.True(t, filepath.IsAbs(out.Dir))
}

func TestRenderSeed_Empty(t *testing.T) {
	tr := clitest.NewTestRendererMarkdown()

	require.NoError(t, renderSeed(tr.Renderer, "nowhere", store.SeedReport{}))

	assert.Contains(t, tr.Output(), "No seed files found in nowhere")
	clitest.AssertValidMarkdown(t, tr.Output())
}

func TestRenderMigrate(t *testing.T) {
	st := clitest.NewTestStore(t)
	status, err := st.MigrationStatus(context.Background())
	require.NoError(t, err)

	tr := clitest.NewTestRendererText()
	require.NoError(t, renderMigrate(tr.Renderer, "sqlite", status, true))
	assert.Contains(t, tr.Output(), "Schema is up to date")

	js := clitest.NewTestRendererJSON()
	require.NoError(t, renderMigrate(js.Renderer, "sqlite", status, false))
	var out MigrateOutput
	require.NoError(t, json.Unmarshal(js.Out.Bytes(), &out))
	assert.Equal(t, out.Latest, out.Current)
	assert.Zero(t, out.Pending)
	assert.False(t, out.Applied)
}
