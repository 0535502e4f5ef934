package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/haulwise/tmsadmin/internal/fleet"
)

// seedNamespace derives stable IDs for seed records that do not carry one,
// so importing the same file twice updates instead of duplicating.
var seedNamespace = uuid.MustParse("6f1c3d2a-8b4e-5a7f-9c0d-2e3f4a5b6c7d")

// SeedExtensions are the seed file formats, in lookup order.
var SeedExtensions = []string{".yaml", ".yml", ".csv"}

// SeedReport summarizes an import.
type SeedReport struct {
	Files   int
	Created int
	Updated int
	Skipped int
	// Kinds lists the slugs of the imported files.
	Kinds []string
}

func (r *SeedReport) add(o SeedReport) {
	r.Files += o.Files
	r.Created += o.Created
	r.Updated += o.Updated
	r.Skipped += o.Skipped
	r.Kinds = append(r.Kinds, o.Kinds...)
}

// SeedKind returns the kind a seed file belongs to, named <slug>.<ext>.
func SeedKind(path string) (fleet.Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	known := false
	for _, e := range SeedExtensions {
		if ext == e {
			known = true
			break
		}
	}
	if !known {
		return fleet.Kind{}, false
	}
	k, err := fleet.Lookup(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return fleet.Kind{}, false
	}
	return k, true
}

// ImportSeeds imports every seed file in dir. Kinds are imported in catalog
// order so that drivers exist before the teams referencing them.
func ImportSeeds(ctx context.Context, st Store, dir string, logger *slog.Logger) (SeedReport, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var report SeedReport
	for _, slug := range fleet.Slugs() {
		for _, ext := range SeedExtensions {
			path := filepath.Join(dir, slug+ext)
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				continue
			}
			r, err := ImportSeedFile(ctx, st, path, logger)
			if err != nil {
				return report, err
			}
			report.add(r)
		}
	}
	return report, nil
}

// ImportSeedFile imports one seed file. Records failing coercion or schema
// validation are skipped and logged.
func ImportSeedFile(ctx context.Context, st Store, path string, logger *slog.Logger) (SeedReport, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	kind, ok := SeedKind(path)
	if !ok {
		return SeedReport{}, fmt.Errorf("%s is not a seed file", filepath.Base(path))
	}

	items, err := readSeedFile(path)
	if err != nil {
		return SeedReport{}, err
	}

	report := SeedReport{Files: 1, Kinds: []string{kind.Slug}}
	for i, item := range items {
		log := logger.With(slog.String("file", filepath.Base(path)), slog.Int("record", i+1))

		var id string
		if v, ok := item["id"]; ok && v != nil {
			id = strings.TrimSpace(fmt.Sprint(v))
		}
		delete(item, "id")

		data, err := kind.Coerce(item)
		if err == nil {
			err = fleet.Validate(kind.Slug, data)
		}
		if err != nil {
			log.Warn("skipping seed record", slog.String("error", err.Error()))
			report.Skipped++
			continue
		}
		if id == "" {
			id, err = seedID(kind.Slug, data)
			if err != nil {
				return report, err
			}
		}

		_, created, err := st.Upsert(ctx, fleet.Record{ID: id, Kind: kind.Slug, Data: data})
		if err != nil {
			return report, fmt.Errorf("failed to import %s: %w", filepath.Base(path), err)
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	logger.Info("seed file imported",
		slog.String("kind", kind.Slug),
		slog.String("file", filepath.Base(path)),
		slog.Int("created", report.Created),
		slog.Int("updated", report.Updated),
		slog.Int("skipped", report.Skipped))
	return report, nil
}

func seedID(slug string, data map[string]any) (string, error) {
	// encoding/json sorts map keys, which keeps the ID stable.
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to derive seed id: %w", err)
	}
	return uuid.NewSHA1(seedNamespace, append([]byte(slug+":"), b...)).String(), nil
}

func readSeedFile(path string) ([]map[string]any, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the configured seeds directory
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readCSV(f)
	}

	var items []map[string]any
	if err := yaml.NewDecoder(f).Decode(&items); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return items, nil
}

// readCSV reads a header row followed by one record per row. Empty cells are
// left out.
func readCSV(r io.Reader) ([]map[string]any, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var items []map[string]any
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		item := make(map[string]any, len(header))
		for i, cell := range row {
			if i < len(header) && strings.TrimSpace(cell) != "" {
				item[header[i]] = cell
			}
		}
		items = append(items, item)
	}
	return items, nil
}
