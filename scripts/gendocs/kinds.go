package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/haulwise/tmsadmin/internal/fleet"
)

// generateKindDocs writes one reference page per fleet kind and an index.
func generateKindDocs(outDir string) error {
	log.Printf("Generating kind docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kinds := fleet.Kinds()
	if err := generateKindIndex(kinds, outDir); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, k := range kinds {
		if err := generateKindPage(k, outDir); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", k.Slug, err)
		}
		log.Printf("  Generated %s.md", k.Slug)
	}
	return nil
}

func generateKindIndex(kinds []fleet.Kind, outDir string) error {
	w := NewMarkdownWriter()
	w.Frontmatter("Fleet Kinds", "Entities managed by the tmsadmin console")
	w.GeneratedMarker()

	w.Header(1, "Fleet Kinds")
	w.Paragraph("Each kind has a list screen in the console, a seed file format and a JSON schema validating its records.")

	headers := []string{"Kind", "Section", "List", "Seed files"}
	var rows [][]string
	for _, k := range kinds {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/kinds/%s)", k.Title, k.Slug),
			k.Section,
			InlineCode(k.Href()),
			InlineCode(k.Slug + ".yaml") + ", " + InlineCode(k.Slug + ".csv"),
		})
	}
	w.Table(headers, rows)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

func generateKindPage(k fleet.Kind, outDir string) error {
	w := NewMarkdownWriter()
	w.Frontmatter(k.Title, fmt.Sprintf("The %s kind", k.Singular))
	w.GeneratedMarker()

	w.Header(1, k.Title)
	w.Paragraph(fmt.Sprintf("The list is paginated in %s mode and shown at %s.", k.Mode, InlineCode(k.Href())))

	w.Header(2, "Columns")
	var cols [][]string
	for _, c := range k.Columns {
		var notes []string
		if c.Sortable {
			notes = append(notes, "sortable")
		}
		if c.Group {
			notes = append(notes, "shared by the group")
		}
		cols = append(cols, []string{InlineCode(c.Key), c.Header, string(c.Type), strings.Join(notes, ", ")})
	}
	w.Table([]string{"Key", "Header", "Type", "Notes"}, cols)

	w.Header(2, "Fields")
	var fields [][]string
	for _, f := range k.Fields {
		required := ""
		if f.Required {
			required = "yes"
		}
		fields = append(fields, []string{InlineCode(f.Key), f.Label, string(f.Type), required, optionValues(f.Options)})
	}
	w.Table([]string{"Key", "Label", "Type", "Required", "Options"}, fields)

	w.Header(2, "Seeding")
	w.Paragraph(fmt.Sprintf("Records are imported from %s or %s in the seeds directory and matched by %s.",
		InlineCode(k.Slug+".yaml"), InlineCode(k.Slug+".csv"), InlineCode("id")))
	w.CodeBlock("bash", "tmsadmin seed\ntmsadmin list "+k.Slug)

	return os.WriteFile(filepath.Join(outDir, k.Slug+".md"), w.Bytes(), 0600)
}

func optionValues(name string) string {
	if name == "" {
		return ""
	}
	values := fleet.OptionValues(name)
	if len(values) == 0 {
		return InlineCode(name)
	}
	for i, v := range values {
		values[i] = InlineCode(v)
	}
	return strings.Join(values, " ")
}
