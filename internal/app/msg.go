// Package app implements the interactive TUI: module dashboard, input
// forms, submission lifecycle, tabbed results, and history replay.
package app

import (
	"context"

	"github.com/InforeaTech/intelligent-research-agent/internal/api"
	"github.com/InforeaTech/intelligent-research-agent/internal/history"
)

// Mode is the controller state.
type Mode int

const (
	ModeDashboard Mode = iota // Browsing the module grid.
	ModeForm                  // A module is selected; its form is shown.
	ModeSubmitting            // A submission is in flight.
	ModeResults               // Results are rendered in the output panel.
	ModeLogin                 // Session expired; showing login instructions.
)

// Focus is the pane holding keyboard focus.
type Focus int

const (
	PaneLeft  Focus = iota // Module list or history sidebar.
	PaneRight              // Form or output panel.
)

// HistorySource is the slice of the history manager the app consumes.
type HistorySource interface {
	List(ctx context.Context, page int) (api.ProfilePage, error)
	Load(ctx context.Context, id string) (history.Replay, error)
	Delete(ctx context.Context, id string) error
}

// SubmitDoneMsg carries a completed module submission. Gen is the
// selection epoch the submission belongs to; completions from stale
// epochs are discarded instead of writing into a reconfigured panel.
type SubmitDoneMsg struct {
	Gen      int
	ModuleID string
	Result   any
	Err      error
}

// HistoryListMsg carries one fetched page of history.
type HistoryListMsg struct {
	Page api.ProfilePage
	Err  error
}

// ReplayLoadedMsg carries a historical record loaded for replay.
// Replay re-enters module selection on arrival, so it opens a fresh
// epoch rather than carrying one.
type ReplayLoadedMsg struct {
	Replay history.Replay
	Err    error
}

// NoteDoneMsg carries the result of the embedded note sub-flow.
type NoteDoneMsg struct {
	Gen     int
	Content string
	Err     error
}

// HistoryDeletedMsg confirms a history record deletion.
type HistoryDeletedMsg struct {
	ID  string
	Err error
}

// flushSetupMsg runs pending tab setup callbacks. It is emitted as a
// command after a render-triggering update so the callback fires once
// the tab is actually on screen.
type flushSetupMsg struct{}
