package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the two-pane layout: sidebar on the left, the
// mode-dependent content pane on the right, with the toast and help
// lines underneath.
func (m Model) View() string {
	if m.width == 0 {
		return "Starting researchdesk..."
	}

	left, right := paneWidths(m.width)
	contentHeight := m.height - 4
	if contentHeight < 3 {
		contentHeight = 3
	}

	sidebarStyle := unfocusedBorder()
	contentStyle := unfocusedBorder()
	if m.focus == PaneLeft {
		sidebarStyle = focusedBorder()
	} else {
		contentStyle = focusedBorder()
	}

	sidebar := sidebarStyle.
		Width(left - 2).
		Height(contentHeight).
		Padding(0, 1).
		Render(m.sidebar.View(m.spinner.View()))

	content := contentStyle.
		Width(right - 2).
		Height(contentHeight).
		Padding(0, 1).
		Render(m.viewContent())

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)

	var footer strings.Builder
	if m.toast.Active() {
		footer.WriteString(m.toast.View())
	}
	footer.WriteByte('\n')
	footer.WriteString(m.viewHelp())

	return body + "\n" + footer.String()
}

// viewContent renders the right pane for the current mode.
func (m Model) viewContent() string {
	switch m.mode {
	case ModeDashboard:
		return m.viewWelcome()
	case ModeForm:
		return m.viewForm()
	case ModeSubmitting:
		return fmt.Sprintf("%s Researching...\n\n%s", m.spinner.View(),
			mutedText.Render("This can take a minute. Results appear here when ready."))
	case ModeResults:
		return m.viewResults()
	case ModeLogin:
		return m.viewLogin()
	}
	return ""
}

func (m Model) viewWelcome() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Research Desk"))
	b.WriteString("\n\n")
	if m.sidebar.cursor >= 0 && m.sidebar.cursor < len(m.sidebar.modules) && !m.sidebar.showHistory {
		mod := m.sidebar.modules[m.sidebar.cursor]
		b.WriteString(mod.Icon() + " " + mod.Name() + "\n\n")
		b.WriteString(mod.Description())
		b.WriteString("\n\n")
		b.WriteString(mutedText.Render("Press enter to open"))
	} else {
		b.WriteString(mutedText.Render("Select a module to begin, or press h for history."))
	}
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder
	if m.current != nil {
		b.WriteString(titleStyle.Render(m.current.Icon() + " " + m.current.Name()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.form.View())
	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder
	b.WriteString(m.viewTabBar())
	b.WriteString("\n\n")

	rendered, err := m.panel.ViewActive()
	if err != nil {
		b.WriteString(mutedText.Render("(render fallback: " + err.Error() + ")"))
		b.WriteByte('\n')
	}
	b.WriteString(rendered)

	if m.noteOpen {
		b.WriteString("\n\n")
		b.WriteString(titleStyle.Render("Generate note"))
		b.WriteString("\n\n")
		b.WriteString(m.noteForm.View())
		b.WriteString("\n")
		b.WriteString(mutedText.Render("ctrl+s generate · esc cancel"))
	}
	return b.String()
}

func (m Model) viewTabBar() string {
	tabs := m.panel.Tabs()
	if len(tabs) == 0 {
		return ""
	}
	active := m.panel.ActiveID()
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := t.Label
		if t.Icon != "" {
			label = t.Icon + " " + label
		}
		if t.ID == active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in required"))
	b.WriteString("\n\n")
	b.WriteString("Your session has expired or you are not signed in.\n\n")
	if m.loginURL != "" {
		b.WriteString("Open this URL in a browser to sign in:\n\n  " + m.loginURL + "\n\n")
	}
	b.WriteString("Then run `researchdesk login` and restart the dashboard.\n\n")
	b.WriteString(mutedText.Render("Press q to quit"))
	return b.String()
}

// viewHelp renders the keymap for the current mode.
func (m Model) viewHelp() string {
	switch m.mode {
	case ModeDashboard:
		return m.help.View(DashboardKeyMap())
	case ModeForm:
		return m.help.View(FormKeyMap())
	case ModeResults:
		return m.help.View(ResultsKeyMap())
	default:
		return ""
	}
}
