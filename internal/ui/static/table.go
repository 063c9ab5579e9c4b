// Package static renders non-interactive terminal output.
package static

import (
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/colorprofile"
)

// RenderTable lays out headers and rows in aligned columns without borders.
// The header row is bold. Returns "" when there are no rows.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle()
			if col < len(headers)-1 {
				style = style.PaddingRight(2)
			}
			if row == table.HeaderRow {
				style = style.Bold(true)
			}
			return style
		})

	var b strings.Builder
	for _, line := range strings.Split(t.String(), "\n") {
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	return b.String()
}

// WriteTable renders a table to w, dropping styles w cannot display,
// e.g. when w is not a terminal.
func WriteTable(w io.Writer, headers []string, rows [][]string) error {
	out := RenderTable(headers, rows)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(colorprofile.NewWriter(w, os.Environ()), out)
	return err
}
