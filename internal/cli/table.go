package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"monitor-insights-go/internal/actionable"
	"monitor-insights-go/internal/diagnostics"
)

var (
	colorRed    = lipgloss.Color("#C8102E")
	colorOrange = lipgloss.Color("#F28C28")
	colorGreen  = lipgloss.Color("#2E8B57")
	colorGray   = lipgloss.Color("#6C7086")

	titleStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorGray)
)

// bandStyle colours a pass rate or score by its diagnostics band.
func bandStyle(b diagnostics.Band) lipgloss.Style {
	switch b {
	case diagnostics.BandCritical:
		return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	case diagnostics.BandWarning:
		return lipgloss.NewStyle().Foreground(colorOrange)
	default:
		return lipgloss.NewStyle().Foreground(colorGreen)
	}
}

func severityStyle(s actionable.Severity) lipgloss.Style {
	switch s {
	case actionable.Critical:
		return bandStyle(diagnostics.BandCritical)
	case actionable.Warning:
		return bandStyle(diagnostics.BandWarning)
	default:
		return mutedStyle
	}
}

// table is a static, column-aligned block of rows.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) String() string {
	if len(t.rows) == 0 {
		return ""
	}
	var sb strings.Builder
	if t.title != "" {
		sb.WriteString(titleStyle.Render(t.title))
		sb.WriteString("\n")
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	sep := mutedStyle.Render("|")
	for i, h := range t.headers {
		sb.WriteString(headerStyle.Width(widths[i]).Render(h))
		if i < len(t.headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")
	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			sb.WriteString(cellStyle.Width(widths[i]).Render(cell))
			if i < len(row)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}
