package output

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// FormatHeader returns a markdown header of the given level.
func FormatHeader(level int, text string) string {
	level = max(1, min(level, 6))
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a bold markdown key followed by its value.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("**%s:** %s", key, value)
}

// HTMLToMarkdown converts rendered HTML into markdown. Cells spanning several
// rows are repeated on every row they cover.
func HTMLToMarkdown(html string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(table.WithSpanCellBehavior(table.SpanBehaviorMirror)),
		),
	)
	md, err := conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert html to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}
