package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const tableColGap = 2

// numericHeaders lists columns whose values read better right-aligned
// (durations, hour counts, CPM timestamps) rather than left-aligned like
// names and ids.
var numericHeaders = map[string]bool{
	"DUR": true, "ES": true, "EF": true, "SLACK": true, "HOURS": true,
	"ATTENDED": true, "BACKGROUND": true,
}

// RenderTable renders a simple aligned table with a header separator line.
// Headers are rendered with the Header style; a column whose header names a
// known numeric field is right-aligned, everything else left-aligned.
// Columns are padded to the maximum width found in each column across both
// headers and rows.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	cols := len(headers)
	widths := columnWidths(headers, rows)
	rightAlign := make([]bool, cols)
	for i, h := range headers {
		rightAlign[i] = numericHeaders[h]
	}

	var b strings.Builder

	styledHeaders := make([]string, cols)
	for i, h := range headers {
		styledHeaders[i] = StyleHeader.Render(h)
	}
	writeRow(&b, widths, rightAlign, headers, styledHeaders)

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", tableColGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		cells := make([]string, cols)
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		writeRow(&b, widths, rightAlign, cells, cells)
	}

	return b.String()
}

// columnWidths returns the visible-width maximum of each column across the
// header row and every data row.
func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// writeRow renders one padded, gap-separated row into b. measure holds the
// unstyled cell text (for computing padding); styled holds what's actually
// written, which may carry lipgloss escape codes measure doesn't see.
func writeRow(b *strings.Builder, widths []int, rightAlign []bool, measure, styled []string) {
	for i, w := range widths {
		pad := w - lipgloss.Width(measure[i])
		if pad < 0 {
			pad = 0
		}

		if rightAlign[i] {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(styled[i])
		} else {
			b.WriteString(styled[i])
			if i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", tableColGap))
		}
	}
	b.WriteString("\n")
}
