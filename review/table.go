package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/stocktext/stocktext/config"
	"github.com/stocktext/stocktext/record"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

// Render formats the parse result as an aligned table followed by notes and
// unparseable lines. Column widths are computed with runewidth so wide and
// right-to-left scripts still line up.
func Render(rows []*record.Row, notes, unparseable []string, cfg *config.Config) string {
	var b strings.Builder

	if len(rows) == 0 && len(notes) == 0 && len(unparseable) == 0 {
		b.WriteString("\nNothing to display.\n")
		return b.String()
	}

	if len(rows) > 0 {
		table := [][]string{record.Header}
		for i, r := range rows {
			num := fmt.Sprintf("%d", i+1)
			if r.HasWarning(cfg.RequiredFields) {
				num = "⚠ " + num
			}
			table = append(table, append([]string{num}, r.Cells()...))
		}

		widths := make([]int, len(record.Header))
		for _, cells := range table {
			for c, cell := range cells {
				if w := runewidth.StringWidth(cell); w > widths[c] {
					widths[c] = w
				}
			}
		}

		b.WriteString("\n")
		b.WriteString(headerStyle.Render(joinCells(table[0], widths)))
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", lineWidth(widths)))
		b.WriteString("\n")
		for _, cells := range table[1:] {
			line := joinCells(cells, widths)
			if strings.HasPrefix(cells[0], "⚠") {
				line = warningStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if len(notes) > 0 {
		b.WriteString("\n")
		for _, note := range notes {
			b.WriteString(noteStyle.Render(fmt.Sprintf("📝 Note: %q", note)))
			b.WriteString("\n")
		}
	}

	if len(unparseable) > 0 {
		b.WriteString("\n")
		for _, text := range unparseable {
			b.WriteString(warningStyle.Render(fmt.Sprintf("⚠ Could not parse: %q", text)))
			b.WriteString("\n")
		}
		if len(cfg.Items) > 0 {
			b.WriteString(fmt.Sprintf("  Known items: %s\n", strings.Join(cfg.Items, ", ")))
		}
	}

	return b.String()
}

func joinCells(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = pad(cell, widths[i])
	}
	return strings.TrimRight(strings.Join(padded, " | "), " ")
}

func pad(s string, width int) string {
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func lineWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w
	}
	return total + 3*(len(widths)-1)
}
