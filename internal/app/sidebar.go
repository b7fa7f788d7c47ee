package app

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/InforeaTech/intelligent-research-agent/internal/api"
	"github.com/InforeaTech/intelligent-research-agent/internal/module"
)

// cursorMarker prefixes the selected sidebar row.
const cursorMarker = "▸ "

// selectModuleMsg asks the controller to open a module.
type selectModuleMsg struct {
	ID string
}

// replayRequestMsg asks the controller to replay a history record.
type replayRequestMsg struct {
	ID string
}

// sidebarState manages the left pane: the module grid, or the history
// list when toggled.
type sidebarState struct {
	modules []module.ResearchModule

	showHistory bool
	records     []api.ProfileSummary
	loading     bool
	err         error

	cursor int
}

// newSidebarState lists the registry's modules in registration order.
func newSidebarState(reg *module.Registry) sidebarState {
	return sidebarState{modules: reg.All()}
}

// loadHistoryCmd fetches one page of history asynchronously.
func loadHistoryCmd(hs HistorySource, page int) tea.Cmd {
	return func() tea.Msg {
		p, err := hs.List(context.Background(), page)
		return HistoryListMsg{Page: p, Err: err}
	}
}

// deleteHistoryCmd deletes one history record asynchronously.
func deleteHistoryCmd(hs HistorySource, id string) tea.Cmd {
	return func() tea.Msg {
		return HistoryDeletedMsg{ID: id, Err: hs.Delete(context.Background(), id)}
	}
}

// rowCount returns the number of selectable rows in the current view.
func (s sidebarState) rowCount() int {
	if s.showHistory {
		return len(s.records)
	}
	return len(s.modules)
}

// selectedHistoryID returns the history record under the cursor, or "".
func (s sidebarState) selectedHistoryID() string {
	if !s.showHistory || s.cursor < 0 || s.cursor >= len(s.records) {
		return ""
	}
	return s.records[s.cursor].ID
}

// applyHistory applies a fetched history page (or error).
func (s sidebarState) applyHistory(page api.ProfilePage, err error) sidebarState {
	s.loading = false
	if err != nil {
		s.err = err
		s.records = nil
		return s
	}
	s.err = nil
	s.records = append([]api.ProfileSummary(nil), page.Profiles...)
	s.cursor = 0
	return s
}

// handleKey processes sidebar navigation keys.
func (s sidebarState) handleKey(msg tea.KeyMsg, hs HistorySource) (sidebarState, tea.Cmd) {
	if s.loading {
		return s, nil
	}

	switch msg.String() {
	case "up", "k":
		if n := s.rowCount(); n > 0 {
			s.cursor = (s.cursor - 1 + n) % n
		}
		return s, nil

	case "down", "j":
		if n := s.rowCount(); n > 0 {
			s.cursor = (s.cursor + 1) % n
		}
		return s, nil

	case "enter":
		if s.showHistory {
			if id := s.selectedHistoryID(); id != "" {
				return s, func() tea.Msg { return replayRequestMsg{ID: id} }
			}
			return s, nil
		}
		if s.cursor >= 0 && s.cursor < len(s.modules) {
			id := s.modules[s.cursor].ID()
			return s, func() tea.Msg { return selectModuleMsg{ID: id} }
		}
		return s, nil

	case "h":
		if s.showHistory {
			s.showHistory = false
			s.cursor = 0
			s.err = nil
			return s, nil
		}
		s.showHistory = true
		s.loading = true
		s.err = nil
		s.cursor = 0
		return s, loadHistoryCmd(hs, 0)

	case "r":
		if !s.showHistory {
			return s, nil
		}
		s.loading = true
		s.err = nil
		return s, loadHistoryCmd(hs, 0)

	case "x":
		if id := s.selectedHistoryID(); id != "" {
			return s, deleteHistoryCmd(hs, id)
		}
		return s, nil
	}

	return s, nil
}

// View renders the sidebar content.
func (s sidebarState) View(spinnerView string) string {
	if s.loading {
		return fmt.Sprintf("%s Loading history...", spinnerView)
	}
	if s.showHistory {
		return s.viewHistory()
	}
	return s.viewModules()
}

func (s sidebarState) viewModules() string {
	if len(s.modules) == 0 {
		return "No research modules available"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Modules"))
	b.WriteString("\n\n")
	for i, m := range s.modules {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == s.cursor {
			b.WriteString(cursorMarker)
		} else {
			b.WriteString("  ")
		}
		b.WriteString(m.Icon() + " " + m.Name())
	}
	return b.String()
}

func (s sidebarState) viewHistory() string {
	if s.err != nil {
		return fmt.Sprintf("Error: %s\n\nPress r to retry", s.err)
	}
	if len(s.records) == 0 {
		return "No history yet — press h to go back"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("History"))
	b.WriteString("\n\n")
	for i, rec := range s.records {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == s.cursor {
			b.WriteString(cursorMarker)
		} else {
			b.WriteString("  ")
		}
		line := rec.Name
		if rec.Company != "" {
			line += " @ " + rec.Company
		}
		if !rec.CreatedAt.IsZero() {
			line += mutedText.Render(" " + rec.CreatedAt.Format("Jan 02"))
		}
		b.WriteString(line)
	}
	return b.String()
}
