package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/haulwise/tmsadmin/internal/cli/output"
	"github.com/haulwise/tmsadmin/internal/ui/components"
	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// ListOutput is the JSON form of one rendered page.
type ListOutput struct {
	Kind      string              `json:"kind"`
	Page      int                 `json:"page"`
	PageCount int                 `json:"page_count"`
	PageSize  int                 `json:"page_size"`
	Total     int                 `json:"total"`
	Sort      string              `json:"sort,omitempty"`
	Filter    string              `json:"filter,omitempty"`
	Columns   []string            `json:"columns"`
	Rows      []map[string]string `json:"rows"`
	Selected  []string            `json:"selected,omitempty"`
}

// pageGrid returns the cell texts of every displayed row aligned to the
// headers. Group cells spanning several rows are repeated on each of them.
func pageGrid(m datatable.RenderModel) [][]string {
	grid := make([][]string, 0, len(m.Rows))
	carried := make(map[string]string)
	for _, r := range m.Rows {
		byCol := make(map[string]string, len(r.Cells))
		for _, c := range r.Cells {
			byCol[c.ColumnID] = c.Text
			if c.Group {
				carried[c.ColumnID] = c.Text
			}
		}
		line := make([]string, len(m.Headers))
		for i, h := range m.Headers {
			v, ok := byCol[h.ColumnID]
			if !ok {
				v = carried[h.ColumnID]
			}
			line[i] = v
		}
		grid = append(grid, line)
	}
	return grid
}

func sortLabel(m datatable.RenderModel) string {
	for _, h := range m.Headers {
		switch h.Direction {
		case datatable.SortAscending:
			return h.ColumnID + ":asc"
		case datatable.SortDescending:
			return h.ColumnID + ":desc"
		}
	}
	return ""
}

// renderPage writes one page of a list in the renderer's effective mode.
func renderPage(ctx context.Context, r *output.Renderer, title, slug string, m datatable.RenderModel) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return renderPageJSON(r, slug, m)
	case output.ModeMarkdown:
		return renderPageMarkdown(ctx, r, title, m)
	default:
		renderPageText(r.Writer(), m)
		r.Muted(m.Pager.Label())
		return nil
	}
}

func renderPageText(w io.Writer, m datatable.RenderModel) {
	if m.Placeholder != datatable.PlaceholderNone {
		_, _ = fmt.Fprintf(w, "(%s)\n", m.PlaceholderText())
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(m.Headers)+1)
	if m.RowSelection {
		header = append(header, "")
	}
	var configs []table.ColumnConfig
	for i, h := range m.Headers {
		label := h.Label
		if ind := h.Indicator(); ind != "" {
			label += " " + ind
		}
		header = append(header, label)

		number := i + 1
		if m.RowSelection {
			number++
		}
		cfg := table.ColumnConfig{Number: number, WidthMax: 40}
		if isGroupColumn(m, h.ColumnID) {
			cfg.AutoMerge = true
			cfg.VAlign = text.VAlignTop
		}
		configs = append(configs, cfg)
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	grid := pageGrid(m)
	for i, line := range grid {
		row := make(table.Row, 0, len(line)+1)
		if m.RowSelection {
			mark := " "
			if m.Rows[i].Selected {
				mark = "x"
			}
			row = append(row, "["+mark+"]")
		}
		for _, v := range line {
			row = append(row, v)
		}
		t.AppendRow(row)
	}
	t.Render()
}

func isGroupColumn(m datatable.RenderModel, id string) bool {
	for _, r := range m.Rows {
		for _, c := range r.Cells {
			if c.ColumnID == id {
				return c.Group
			}
		}
	}
	return false
}

func renderPageMarkdown(ctx context.Context, r *output.Renderer, title string, m datatable.RenderModel) error {
	html, err := components.Render(ctx, components.StaticTable(m))
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	md, err := output.HTMLToMarkdown(html)
	if err != nil {
		return err
	}
	r.Println(output.FormatHeader(1, title))
	r.Println("")
	r.Println(md)
	r.Println("")
	r.Println("_" + m.Pager.Label() + "_")
	return nil
}

func renderPageJSON(r *output.Renderer, slug string, m datatable.RenderModel) error {
	out := ListOutput{
		Kind:      slug,
		Page:      m.Pager.Page(),
		PageCount: m.Pager.PageCount,
		PageSize:  m.Pager.PageSize,
		Total:     m.Pager.TotalCount,
		Sort:      sortLabel(m),
		Filter:    m.Search.Value,
		Columns:   make([]string, len(m.Headers)),
		Rows:      []map[string]string{},
	}
	for i, h := range m.Headers {
		out.Columns[i] = h.ColumnID
	}
	for i, line := range pageGrid(m) {
		row := make(map[string]string, len(line))
		for j, v := range line {
			row[m.Headers[j].ColumnID] = v
		}
		out.Rows = append(out.Rows, row)
		if m.Rows[i].Selected {
			out.Selected = append(out.Selected, m.Rows[i].ID)
		}
	}
	return r.JSON(out)
}
