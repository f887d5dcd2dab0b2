package cli

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	headerCellStyle = kindStyle.Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// maxNameWidth bounds names in find output.
const maxNameWidth = 60

const ellipsis = "..."

// highlight renders s with the runes at matched (byte offsets, as reported
// by the fuzzy matcher) in matchStyle. Without a color profile, as when
// output is not a terminal, s comes back unstyled.
func highlight(s string, matched []int) string {
	s, _ = truncate(s, maxNameWidth)
	if len(matched) == 0 {
		return s
	}

	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// truncate shortens s to maxWidth runes, ending in an ellipsis, and
// reports whether it did.
func truncate(s string, maxWidth int) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}
	if utf8.RuneCountInString(s) <= maxWidth {
		return s, false
	}

	runes := []rune(s)
	if maxWidth <= len(ellipsis) {
		return string(runes[:maxWidth]), true
	}
	return string(runes[:maxWidth-len(ellipsis)]) + ellipsis, true
}

// renderTable lays rows out under headers in a bordered table.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			return cellStyle
		})
	return t.String() + "\n"
}
