// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/haulwise/tmsadmin/internal/cli/output"
	"github.com/haulwise/tmsadmin/internal/store"
	"github.com/haulwise/tmsadmin/internal/testutil"
)

// CarrierCount is the number of carriers written by SetupTestProject.
const CarrierCount = 23

// SetupTestProject creates a temporary project with a config file and seed
// files for carriers, drivers and driver teams.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	seeds := filepath.Join(tmpDir, "seeds")
	if err := os.MkdirAll(seeds, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", seeds, err)
	}

	config := `store:
  driver: sqlite
  dsn: .tmsadmin/tms.db
seeds_dir: seeds
ui:
  page_size: 10
`
	writeFile(t, filepath.Join(tmpDir, "tmsadmin.yaml"), config)

	var carriers strings.Builder
	carriers.WriteString("id,name,scac,country,city,status\n")
	for i := 1; i <= CarrierCount; i++ {
		fmt.Fprintf(&carriers, "car-%02d,Carrier %02d,CR%c,SE,Malmo,active\n", i, i, 'A'+rune(i-1))
	}
	writeFile(t, filepath.Join(seeds, "carriers.csv"), carriers.String())

	drivers := `- id: drv-jonas
  first_name: Jonas
  last_name: Berg
  license_number: SE-88213
  license_class: CE
  status: active
- id: drv-mia
  first_name: Mia
  last_name: Lund
  license_number: SE-11873
  license_class: C
  status: active
- id: drv-ola
  first_name: Ola
  last_name: Nord
  license_number: NO-55120
  license_class: CE
  status: inactive
`
	writeFile(t, filepath.Join(seeds, "drivers.yaml"), drivers)

	teams := `id,name,region,driver_ids
team-north,North,Scandinavia,drv-jonas;drv-mia
team-west,West,Norway,drv-ola
`
	writeFile(t, filepath.Join(seeds, "driver-teams.csv"), teams)

	return tmpDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Base(path), err)
	}
}

// NewTestStore returns a migrated in-memory SQLite store, closed with the test.
func NewTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	st := store.New(store.SQLite, testutil.NewTestLogger(t))
	if err := st.Open(":memory:"); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}
	return st
}

// NewSeededStore returns a test store holding the seeds of SetupTestProject.
func NewSeededStore(t *testing.T) *store.SQLStore {
	t.Helper()
	st := NewTestStore(t)
	dir := filepath.Join(SetupTestProject(t), "seeds")
	if _, err := store.ImportSeeds(context.Background(), st, dir, testutil.NewTestLogger(t)); err != nil {
		t.Fatalf("failed to import seeds: %v", err)
	}
	return st
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and basic structure.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	// Check for balanced code fences
	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	// Check that headers have content
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
