package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/InforeaTech/intelligent-research-agent/internal/api"
	"github.com/InforeaTech/intelligent-research-agent/internal/form"
	"github.com/InforeaTech/intelligent-research-agent/internal/module"
	"github.com/InforeaTech/intelligent-research-agent/internal/panel"
	"github.com/InforeaTech/intelligent-research-agent/internal/toast"
)

// noteComposer is implemented by modules that support the embedded
// note sub-flow inside a result tab.
type noteComposer interface {
	NoteFields() []module.FieldSpec
	NoteTab() string
	ComposeNote(ctx context.Context, vals module.Values, result any) (string, error)
}

// Options configures the app Model.
type Options struct {
	Registry  *module.Registry
	History   HistorySource
	ExportDir string
	LoginURL  string
	Logf      func(format string, args ...any)
}

// Model is the root Bubble Tea model: module selection, form
// collection, submission lifecycle, and result rendering.
type Model struct {
	registry   *module.Registry
	historySrc HistorySource
	panel      *panel.Panel
	exportDir  string
	loginURL   string
	logf       func(format string, args ...any)

	mode    Mode
	focus   Focus
	sidebar sidebarState
	form    form.Model
	toast   toast.Model
	spinner spinner.Model
	help    help.Model

	width  int
	height int

	current       module.ResearchModule
	currentResult any

	// gen is the selection epoch. It increments on every module
	// selection; async completions carrying an older epoch are
	// discarded so they cannot write into a reconfigured panel.
	gen        int
	submitting bool

	noteOpen bool
	noteForm form.Model
}

// New creates the app Model.
func New(opts Options) Model {
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		registry:   opts.Registry,
		historySrc: opts.History,
		panel:      panel.New(nil),
		exportDir:  opts.ExportDir,
		loginURL:   opts.LoginURL,
		logf:       opts.Logf,
		mode:       ModeDashboard,
		focus:      PaneLeft,
		sidebar:    newSidebarState(opts.Registry),
		spinner:    s,
		help:       help.New(),
	}
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// flushSetupCmd defers tab setup callbacks past the next render.
func flushSetupCmd() tea.Msg { return flushSetupMsg{} }

// submitCmd runs the module's submit handler asynchronously, tagging
// the completion with the selection epoch it belongs to.
func submitCmd(mod module.ResearchModule, vals module.Values, gen int) tea.Cmd {
	return func() tea.Msg {
		result, err := mod.Submit(context.Background(), vals)
		return SubmitDoneMsg{Gen: gen, ModuleID: mod.ID(), Result: result, Err: err}
	}
}

// replayCmd loads a history record for replay.
func replayCmd(hs HistorySource, id string) tea.Cmd {
	return func() tea.Msg {
		rep, err := hs.Load(context.Background(), id)
		return ReplayLoadedMsg{Replay: rep, Err: err}
	}
}

// noteCmd runs the embedded note sub-flow asynchronously.
func noteCmd(nc noteComposer, vals module.Values, result any, gen int) tea.Cmd {
	return func() tea.Msg {
		content, err := nc.ComposeNote(context.Background(), vals, result)
		return NoteDoneMsg{Gen: gen, Content: content, Err: err}
	}
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The toast model consumes its own message types and ignores the rest.
	var toastCmd tea.Cmd
	m.toast, toastCmd = m.toast.Update(msg)
	if toastCmd != nil {
		cmds = append(cmds, toastCmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		_, right := paneWidths(msg.Width)
		if r, err := panel.NewMarkdownRenderer(right - 4); err == nil {
			m.panel.SetRenderer(r)
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case flushSetupMsg:
		m.panel.FlushSetup()
		return m, tea.Batch(cmds...)

	case selectModuleMsg:
		var cmd tea.Cmd
		m, cmd = m.selectModule(msg.ID)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case replayRequestMsg:
		cmds = append(cmds, replayCmd(m.historySrc, msg.ID))
		return m, tea.Batch(cmds...)

	case ReplayLoadedMsg:
		var cmd tea.Cmd
		m, cmd = m.applyReplay(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case HistoryListMsg:
		m.sidebar = m.sidebar.applyHistory(msg.Page, msg.Err)
		if msg.Err != nil && errors.Is(msg.Err, api.ErrAuthRequired) {
			m.mode = ModeLogin
		}
		return m, tea.Batch(cmds...)

	case HistoryDeletedMsg:
		if msg.Err != nil {
			cmds = append(cmds, toast.Show(msg.Err.Error(), toast.Error))
		} else {
			cmds = append(cmds, toast.Show("History record deleted", toast.Success))
			m.sidebar.loading = true
			cmds = append(cmds, loadHistoryCmd(m.historySrc, 0))
		}
		return m, tea.Batch(cmds...)

	case SubmitDoneMsg:
		var cmd tea.Cmd
		m, cmd = m.applySubmitDone(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case NoteDoneMsg:
		var cmd tea.Cmd
		m, cmd = m.applyNoteDone(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	return m, tea.Batch(cmds...)
}

// selectModule looks up the module and enters form mode. An unknown ID
// logs, notifies, and stays on the dashboard.
func (m Model) selectModule(id string) (Model, tea.Cmd) {
	mod, ok := m.registry.Get(id)
	if !ok {
		m.logf("app: module %q is not registered", id)
		return m, toast.Show(fmt.Sprintf("Module %q is not available", id), toast.Warning)
	}

	m.current = mod
	m.currentResult = nil
	m.gen++
	m.submitting = false
	m.noteOpen = false

	m.form = form.New(mod.Fields())
	m.panel.Clear()
	for _, tab := range mod.OutputTabs() {
		m.panel.AddTab(tab.ID, tab.Label, tab.Icon)
	}

	m.mode = ModeForm
	m.focus = PaneRight
	return m, nil
}

// handleSubmit collects form values and starts the submission. A
// second submit while one is in flight is ignored.
func (m Model) handleSubmit() (Model, tea.Cmd) {
	if m.current == nil || m.submitting {
		return m, nil
	}
	m.submitting = true
	m.mode = ModeSubmitting
	return m, tea.Batch(
		submitCmd(m.current, m.form.Values(), m.gen),
		m.spinner.Tick,
	)
}

// applySubmitDone finishes the submission lifecycle. The loading state
// clears on every path; stale epochs are discarded entirely.
func (m Model) applySubmitDone(msg SubmitDoneMsg) (Model, tea.Cmd) {
	if msg.Gen != m.gen {
		m.logf("app: discarding stale result for module %s (epoch %d, current %d)", msg.ModuleID, msg.Gen, m.gen)
		return m, nil
	}
	m.submitting = false

	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrAuthRequired) {
			m.mode = ModeLogin
			return m, nil
		}
		// Prior panel content stays untouched; the user edits and resubmits.
		m.mode = ModeForm
		return m, toast.Show(msg.Err.Error(), toast.Error)
	}

	m.currentResult = msg.Result
	m.current.Render(msg.Result, m.panel)
	m.mode = ModeResults
	m.focus = PaneRight
	return m, tea.Batch(
		toast.Show("Research complete", toast.Success),
		flushSetupCmd,
	)
}

// applyReplay re-enters the selection pipeline for the record's owning
// module and renders the stored result through the same pipeline as a
// fresh submission.
func (m Model) applyReplay(msg ReplayLoadedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrAuthRequired) {
			m.mode = ModeLogin
			return m, nil
		}
		return m, toast.Show(msg.Err.Error(), toast.Error)
	}

	next, cmd := m.selectModule(msg.Replay.ModuleID)
	if next.current == nil || next.current.ID() != msg.Replay.ModuleID {
		// Stale history referencing an unregistered module.
		return next, cmd
	}

	next.currentResult = msg.Replay.Result
	next.current.Render(msg.Replay.Result, next.panel)
	next.mode = ModeResults
	return next, tea.Batch(cmd, flushSetupCmd)
}

// applyNoteDone writes the generated note into the module's note tab.
func (m Model) applyNoteDone(msg NoteDoneMsg) (Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil
	}
	m.submitting = false

	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrAuthRequired) {
			m.mode = ModeLogin
			return m, nil
		}
		return m, toast.Show(msg.Err.Error(), toast.Error)
	}

	nc, ok := m.current.(noteComposer)
	if !ok {
		return m, nil
	}
	m.noteOpen = false
	m.panel.SetContent(nc.NoteTab(), msg.Content, nil)
	m.panel.ActivateTab(nc.NoteTab())
	return m, tea.Batch(
		toast.Show("Note generated", toast.Success),
		flushSetupCmd,
	)
}

// handleKey routes key messages by mode.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeDashboard:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.handleKey(msg, m.historySrc)
		return m, cmd

	case ModeForm:
		switch msg.String() {
		case "esc":
			m.mode = ModeDashboard
			m.focus = PaneLeft
			return m, nil
		case "ctrl+s":
			return m.handleSubmit()
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd

	case ModeSubmitting:
		// No cancellation once issued; navigation away is allowed but
		// the request keeps running.
		if msg.String() == "esc" {
			m.mode = ModeDashboard
			m.focus = PaneLeft
		}
		return m, nil

	case ModeResults:
		return m.handleResultsKey(msg)

	case ModeLogin:
		if msg.String() == "q" || msg.String() == "esc" {
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

// handleResultsKey processes results-mode keys: tab switching, copy,
// export, and the note sub-flow.
func (m Model) handleResultsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.noteOpen {
		switch msg.String() {
		case "esc":
			m.noteOpen = false
			return m, nil
		case "ctrl+s":
			nc, ok := m.current.(noteComposer)
			if !ok || m.submitting {
				return m, nil
			}
			m.submitting = true
			return m, tea.Batch(
				noteCmd(nc, m.noteForm.Values(), m.currentResult, m.gen),
				m.spinner.Tick,
			)
		}
		var cmd tea.Cmd
		m.noteForm, cmd = m.noteForm.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.mode = ModeDashboard
		m.focus = PaneLeft
		return m, nil

	case "i":
		m.mode = ModeForm
		return m, nil

	case "left", "[":
		m.switchTab(-1)
		return m, flushSetupCmd

	case "right", "]":
		m.switchTab(1)
		return m, flushSetupCmd

	case "c":
		if _, err := m.panel.CopyActive(); err != nil {
			return m, toast.Show("Copy failed: "+err.Error(), toast.Warning)
		}
		return m, toast.Show("Copied to clipboard", toast.Success)

	case "e":
		path, err := m.panel.ExportActive(m.exportDir)
		if err != nil {
			return m, toast.Show("Export failed: "+err.Error(), toast.Warning)
		}
		return m, toast.Show("Exported to "+path, toast.Success)

	case "n":
		nc, ok := m.current.(noteComposer)
		if !ok {
			return m, nil
		}
		m.noteOpen = true
		m.noteForm = form.New(nc.NoteFields())
		m.panel.ActivateTab(nc.NoteTab())
		return m, flushSetupCmd
	}

	return m, nil
}

// switchTab activates the neighbor tab in the given direction.
func (m *Model) switchTab(dir int) {
	tabs := m.panel.Tabs()
	if len(tabs) == 0 {
		return
	}
	active := m.panel.ActiveID()
	for i, t := range tabs {
		if t.ID == active {
			next := (i + dir + len(tabs)) % len(tabs)
			m.panel.ActivateTab(tabs[next].ID)
			return
		}
	}
}

// Mode exposes the current controller state for tests and the CLI.
func (m Model) Mode() Mode { return m.mode }

// Panel exposes the output panel for tests.
func (m Model) Panel() *panel.Panel { return m.panel }

// Toast exposes the toast model for tests.
func (m Model) Toast() toast.Model { return m.toast }

// Submitting reports whether a submission is in flight.
func (m Model) Submitting() bool { return m.submitting }
