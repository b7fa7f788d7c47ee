// Package toast implements transient notifications. The TUI renders
// them as a timed status line; plain-text paths print severity-prefixed
// lines. Notifications are fire-and-forget: no caller consumes a result.
package toast

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Severity classifies a notification.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

// String returns the lowercase label for a severity.
func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// DefaultDuration is how long a toast stays visible when the caller
// does not specify one.
const DefaultDuration = 4 * time.Second

// Toast is one transient notification.
type Toast struct {
	Message  string
	Severity Severity
	Duration time.Duration
}

// Msg delivers a toast to the TUI model.
type Msg struct {
	Toast Toast
}

// expiredMsg clears a toast when its display window elapses.
// The sequence number discards expiries for superseded toasts.
type expiredMsg struct {
	seq int
}

// Show returns a command that displays a toast for the default duration.
func Show(message string, severity Severity) tea.Cmd {
	return ShowFor(message, severity, DefaultDuration)
}

// ShowFor returns a command that displays a toast for a given duration.
func ShowFor(message string, severity Severity, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return Msg{Toast: Toast{Message: message, Severity: severity, Duration: d}}
	}
}

// Model tracks the currently visible toast, if any.
type Model struct {
	current *Toast
	seq     int
}

// Update handles toast messages and expiry ticks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case Msg:
		t := msg.Toast
		if t.Duration <= 0 {
			t.Duration = DefaultDuration
		}
		m.current = &t
		m.seq++
		seq := m.seq
		return m, tea.Tick(t.Duration, func(time.Time) tea.Msg {
			return expiredMsg{seq: seq}
		})

	case expiredMsg:
		// A newer toast replaced this one; its own expiry will clear it.
		if msg.seq == m.seq {
			m.current = nil
		}
		return m, nil
	}

	return m, nil
}

// Active reports whether a toast is currently visible.
func (m Model) Active() bool { return m.current != nil }

// Current returns the visible toast, or a zero Toast when none is shown.
func (m Model) Current() Toast {
	if m.current == nil {
		return Toast{}
	}
	return *m.current
}

// View renders the toast as a single styled line, or "" when inactive.
func (m Model) View() string {
	if m.current == nil {
		return ""
	}
	return severityStyle(m.current.Severity).Render(m.current.Message)
}

// severityStyle returns the lipgloss style for a severity level.
func severityStyle(s Severity) lipgloss.Style {
	var color lipgloss.AdaptiveColor
	switch s {
	case Success:
		color = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
	case Warning:
		color = lipgloss.AdaptiveColor{Light: "3", Dark: "11"}
	case Error:
		color = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}
	default:
		color = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	}
	return lipgloss.NewStyle().Foreground(color).Bold(s == Error)
}

// Sink accepts notifications outside the TUI event loop.
type Sink interface {
	Notify(message string, severity Severity, duration time.Duration)
}

// WriterSink prints notifications as severity-prefixed lines.
// Duration is ignored; printed lines do not expire.
type WriterSink struct {
	W io.Writer
}

// Notify writes one notification line.
func (s WriterSink) Notify(message string, severity Severity, _ time.Duration) {
	fmt.Fprintf(s.W, "[%s] %s\n", severity, message)
}
