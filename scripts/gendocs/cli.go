package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/haulwise/tmsadmin/internal/cli"
	"github.com/haulwise/tmsadmin/internal/fleet"
)

// generateCLIDocs writes an overview page and one page per visible command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	commands := documentedCommands(root)

	if err := writePage(outDir, "index.md", cliIndex(root, commands)); err != nil {
		return err
	}
	for _, cmd := range commands {
		if err := writePage(outDir, cmd.Name()+".md", commandPage(cmd)); err != nil {
			return err
		}
	}
	return nil
}

func writePage(outDir, name string, w *MarkdownWriter) error {
	if err := os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	log.Printf("  Generated %s", name)
	return nil
}

// documentedCommands returns the user-facing subcommands of root.
func documentedCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "completion" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

// takesKind reports whether the command's argument is a fleet kind.
func takesKind(cmd *cobra.Command) bool {
	return strings.Contains(cmd.Use, "<kind>")
}

func cliIndex(root *cobra.Command, commands []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for tmsadmin")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("tmsadmin serves the fleet administration console and provides commands for migrating the database, importing seed files and paging through fleet lists from a terminal.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/haulwise/tmsadmin/cmd/tmsadmin@latest")

	w.Header(2, "Commands")
	rows := make([][]string, 0, len(commands))
	for _, cmd := range commands {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Kinds")
	w.Paragraph("Commands taking a " + InlineCode("<kind>") + " argument accept these slugs:")
	var slugs []string
	for _, k := range fleet.Kinds() {
		slugs = append(slugs, fmt.Sprintf("%s (%s)", InlineCode(k.Slug), k.Title))
	}
	w.BulletList(slugs)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Output Modes")
	w.Table([]string{"Mode", "Used when"}, [][]string{
		{InlineCode("text"), "Writing to a terminal"},
		{InlineCode("markdown"), "Output is piped or redirected"},
		{InlineCode("json"), "Requested with " + InlineCode("--output json")},
	})

	w.Header(2, "Environment Variables")
	w.Table([]string{"Variable", "Description"}, [][]string{
		{InlineCode("TMSADMIN_STORE_DRIVER"), "Database driver: sqlite or postgres"},
		{InlineCode("TMSADMIN_STORE_DSN"), "Database connection string"},
		{InlineCode("TMSADMIN_SEEDS_DIR"), "Directory of seed files"},
		{InlineCode("TMSADMIN_UI_PORT"), "Port of the web console"},
		{InlineCode("TMSADMIN_UI_SESSION_SECRET"), "Secret signing the console session cookie"},
		{InlineCode("TMSADMIN_LOG_LEVEL"), "Log level: debug, info, warn, error"},
	})
	w.Paragraph("Command-line flags take precedence over environment variables, which take precedence over " + InlineCode("tmsadmin.yaml") + ".")

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error (check stderr for details)"},
	})
	return w
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.CommandPath()+strings.TrimPrefix(cmd.Use, cmd.Name()))

	if takesKind(cmd) {
		w.Paragraph("See the [kind reference](/kinds/) for the columns of each kind.")
	}

	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		aliases := make([]string, len(cmd.Aliases))
		for i, a := range cmd.Aliases {
			aliases[i] = InlineCode(a)
		}
		w.BulletList(aliases)
	}

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w
}

// writeFlagsTable writes a table of the visible flags of fs.
func writeFlagsTable(w *MarkdownWriter, fs *pflag.FlagSet) {
	var rows [][]string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = InlineCode("-" + f.Shorthand)
		}
		def := f.DefValue
		if def != "" && f.Value.Type() != "bool" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// dedent strips the indentation shared by the non-blank lines of s.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return strings.TrimSpace(s)
	}
	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
