package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle  = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle      = lipgloss.NewStyle().Faint(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Faint(true)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("12"))

	symOK   = "✔"
	symFail = "✖"
)

// podColors maps palette names onto terminal colours.
var podColors = map[string]lipgloss.Color{
	"blue":    lipgloss.Color("12"),
	"green":   lipgloss.Color("42"),
	"orange":  lipgloss.Color("214"),
	"purple":  lipgloss.Color("135"),
	"cyan":    lipgloss.Color("14"),
	"magenta": lipgloss.Color("13"),
}

func podStyle(colour string) lipgloss.Style {
	c, ok := podColors[colour]
	if !ok {
		return mutedStyle
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}

func truncate(s string, width int) string {
	if width <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func renderTabs(names []string, active int) string {
	parts := make([]string, len(names))
	for i, n := range names {
		if i == active {
			parts[i] = activeTabStyle.Render(n)
		} else {
			parts[i] = tabStyle.Render(n)
		}
	}
	return strings.Join(parts, mutedStyle.Render("│"))
}
