package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Field is one labelled value of a details block.
type Field struct {
	Label string
	Value string
}

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	return t.Render()
}

// Details renders fields as aligned "label  value" lines. Empty values are skipped.
func Details(fields []Field) string {
	width := 0
	for _, f := range fields {
		if strings.TrimSpace(f.Value) != "" && lipgloss.Width(f.Label) > width {
			width = lipgloss.Width(f.Label)
		}
	}

	var lines []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		label := labelStyle.Width(width + 2).Render(f.Label)
		lines = append(lines, label+valueStyle.Render(f.Value))
	}
	return strings.Join(lines, "\n")
}
