package app

import "github.com/charmbracelet/lipgloss"

// minSidebarWidth is the minimum character width for the left sidebar.
const minSidebarWidth = 26

var (
	accentColor = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dimColor    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	mutedText  = lipgloss.NewStyle().Foreground(dimColor)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			Underline(true)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(dimColor)
)

// focusedBorder styles the pane holding keyboard focus.
func focusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor)
}

// unfocusedBorder styles the inactive pane.
func unfocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor)
}

// paneWidths splits the total width between sidebar and content pane.
// The sidebar gets a quarter, floored at minSidebarWidth.
func paneWidths(totalWidth int) (left, right int) {
	if totalWidth <= 0 {
		return 0, 0
	}
	left = totalWidth / 4
	if left < minSidebarWidth {
		left = minSidebarWidth
	}
	right = totalWidth - left
	if right < 0 {
		right = 0
	}
	return left, right
}
