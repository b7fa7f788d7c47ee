package app

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/InforeaTech/intelligent-research-agent/internal/api"
	"github.com/InforeaTech/intelligent-research-agent/internal/history"
	"github.com/InforeaTech/intelligent-research-agent/internal/module"
	"github.com/InforeaTech/intelligent-research-agent/internal/panel"
	"github.com/InforeaTech/intelligent-research-agent/internal/toast"
)

// stubRenderer makes rendering observable without a real terminal.
type stubRenderer struct{}

func (stubRenderer) Render(content string) (string, error) {
	return "<md>" + content + "</md>", nil
}

type stubHistory struct {
	page    api.ProfilePage
	listErr error
	replay  history.Replay
	loadErr error
	deleted []string
}

func (s *stubHistory) List(ctx context.Context, page int) (api.ProfilePage, error) {
	return s.page, s.listErr
}

func (s *stubHistory) Load(ctx context.Context, id string) (history.Replay, error) {
	return s.replay, s.loadErr
}

func (s *stubHistory) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newTestModel(t *testing.T, hs HistorySource, mods ...module.ResearchModule) Model {
	t.Helper()
	reg := module.NewRegistry(nil)
	for _, mod := range mods {
		reg.Register(mod)
	}
	if hs == nil {
		hs = &stubHistory{}
	}
	m := New(Options{Registry: reg, History: hs, ExportDir: t.TempDir()})
	m.panel.SetRenderer(stubRenderer{})
	return m
}

func basicModule() *module.MockModule {
	return &module.MockModule{
		IDVal:   "demo",
		NameVal: "Demo",
		FieldsVal: []module.FieldSpec{
			{ID: "name", Label: "Name", Type: module.FieldText},
		},
		TabsVal: []module.TabSpec{{ID: "o", Label: "Output"}},
		RenderFunc: func(result any, p *panel.Panel) {
			p.SetContent("o", result.(string), nil)
		},
	}
}

// drain executes a command tree and returns every produced message.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// apply routes a message through Update and returns the typed model.
func apply(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// applyAll applies a message and feeds the resulting toast and flush
// messages back into the model. Expiry ticks are dropped so tests do
// not sleep out the toast duration.
func applyAll(m Model, msg tea.Msg) Model {
	next, cmd := apply(m, msg)
	for _, produced := range drain(cmd) {
		switch produced.(type) {
		case toast.Msg, flushSetupMsg:
			next, _ = apply(next, produced)
		}
	}
	return next
}

func TestSelectModuleOpensForm(t *testing.T) {
	// Given a registered module
	m := newTestModel(t, nil, basicModule())

	// When it is selected
	m = applyAll(m, selectModuleMsg{ID: "demo"})

	// Then the app is in form mode with the module's tabs declared
	if m.Mode() != ModeForm {
		t.Fatalf("mode = %v, want ModeForm", m.Mode())
	}
	tabs := m.Panel().Tabs()
	if len(tabs) != 1 || tabs[0].ID != "o" {
		t.Fatalf("tabs = %+v, want single tab o", tabs)
	}
}

func TestSelectUnknownModuleStaysOnDashboard(t *testing.T) {
	m := newTestModel(t, nil, basicModule())

	m = applyAll(m, selectModuleMsg{ID: "nope"})

	if m.Mode() != ModeDashboard {
		t.Fatalf("mode = %v, want ModeDashboard", m.Mode())
	}
	if !m.Toast().Active() {
		t.Fatal("expected a toast warning about the unknown module")
	}
}

func TestSubmitSuccessRendersMarkdown(t *testing.T) {
	// Given a module whose render handler writes markdown to tab o
	mod := basicModule()
	mod.SubmitFunc = func(ctx context.Context, vals module.Values) (any, error) {
		return "hello", nil
	}
	m := newTestModel(t, nil, mod)
	m = applyAll(m, selectModuleMsg{ID: "demo"})

	// When the submission completes
	m = applyAll(m, SubmitDoneMsg{Gen: m.gen, ModuleID: "demo", Result: "hello"})

	// Then results mode shows the markdown-rendered content
	if m.Mode() != ModeResults {
		t.Fatalf("mode = %v, want ModeResults", m.Mode())
	}
	got, err := m.Panel().ViewActive()
	if err != nil {
		t.Fatalf("ViewActive: %v", err)
	}
	if got != "<md>hello</md>" {
		t.Fatalf("rendered = %q, want markdown-wrapped hello", got)
	}
}

func TestSubmitErrorShowsToastAndLeavesPanelUntouched(t *testing.T) {
	// Given a module with previously rendered results
	m := newTestModel(t, nil, basicModule())
	m = applyAll(m, selectModuleMsg{ID: "demo"})
	m.Panel().SetContent("o", "previous results", nil)

	// When a resubmission fails validation on the backend
	detail := "Full name must include first and last name"
	m = applyAll(m, SubmitDoneMsg{
		Gen: m.gen, ModuleID: "demo",
		Err: &api.RequestError{StatusCode: 422, Detail: detail},
	})

	// Then the message is surfaced verbatim and the panel keeps its content
	if !m.Toast().Active() {
		t.Fatal("expected an error toast")
	}
	if got := m.Toast().Current().Message; got != detail {
		t.Fatalf("toast = %q, want %q", got, detail)
	}
	if m.Mode() != ModeForm {
		t.Fatalf("mode = %v, want ModeForm for corrections", m.Mode())
	}
	if got := m.Panel().ActiveContent(); got != "previous results" {
		t.Fatalf("panel content = %q, want previous results untouched", got)
	}
}

func TestStaleSubmitResultDiscarded(t *testing.T) {
	// Given a slow submission for the first module
	first := basicModule()
	second := basicModule()
	second.IDVal = "other"
	second.TabsVal = []module.TabSpec{{ID: "o", Label: "Other output"}}
	m := newTestModel(t, nil, first, second)

	m = applyAll(m, selectModuleMsg{ID: "demo"})
	staleGen := m.gen

	// When the user switches modules before the result arrives
	m = applyAll(m, selectModuleMsg{ID: "other"})
	m = applyAll(m, SubmitDoneMsg{Gen: staleGen, ModuleID: "demo", Result: "late"})

	// Then the stale result never reaches the reconfigured panel
	if m.Mode() != ModeForm {
		t.Fatalf("mode = %v, want ModeForm", m.Mode())
	}
	if m.Panel().ActiveContent() != "" {
		t.Fatalf("panel content = %q, want empty", m.Panel().ActiveContent())
	}
}

func TestDoubleSubmitIgnoredWhileInFlight(t *testing.T) {
	m := newTestModel(t, nil, basicModule())
	m = applyAll(m, selectModuleMsg{ID: "demo"})

	// First submit starts the request.
	m, cmd := m.handleSubmit()
	if cmd == nil || !m.Submitting() {
		t.Fatal("first submit should start a request")
	}

	// Second submit while in flight is a no-op.
	m, cmd = m.handleSubmit()
	if cmd != nil {
		t.Fatal("second submit should be ignored while one is in flight")
	}

	// Completion releases the guard on the error path too.
	m = applyAll(m, SubmitDoneMsg{Gen: m.gen, ModuleID: "demo", Err: errors.New("boom")})
	if m.Submitting() {
		t.Fatal("submit guard should release after completion")
	}
}

func TestAuthErrorSwitchesToLogin(t *testing.T) {
	m := newTestModel(t, nil, basicModule())
	m = applyAll(m, selectModuleMsg{ID: "demo"})

	m = applyAll(m, SubmitDoneMsg{Gen: m.gen, ModuleID: "demo", Err: api.ErrAuthRequired})

	if m.Mode() != ModeLogin {
		t.Fatalf("mode = %v, want ModeLogin", m.Mode())
	}
}

func TestHistoryToggleListsRecords(t *testing.T) {
	hs := &stubHistory{page: api.ProfilePage{Profiles: []api.ProfileSummary{
		{ID: "p1", Name: "Ada Lovelace"},
		{ID: "p2", Name: "Alan Turing"},
	}}}
	m := newTestModel(t, hs, basicModule())

	// Toggling history fetches the first page.
	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	if !m.sidebar.showHistory || !m.sidebar.loading {
		t.Fatal("h should enter history view and start loading")
	}
	for _, msg := range drain(cmd) {
		m = applyAll(m, msg)
	}

	if m.sidebar.loading {
		t.Fatal("loading should clear after the page arrives")
	}
	if len(m.sidebar.records) != 2 {
		t.Fatalf("records = %d, want 2", len(m.sidebar.records))
	}
}

func TestReplayRendersStoredResult(t *testing.T) {
	// Given a stored person record loaded for replay
	mod := basicModule()
	hs := &stubHistory{replay: history.Replay{ModuleID: "demo", Result: "archived profile"}}
	m := newTestModel(t, hs, mod)

	// When the replay completes
	m = applyAll(m, ReplayLoadedMsg{Replay: hs.replay})

	// Then the module's tabs are rebuilt and its render handler ran
	if m.Mode() != ModeResults {
		t.Fatalf("mode = %v, want ModeResults", m.Mode())
	}
	if got := m.Panel().ActiveContent(); got != "archived profile" {
		t.Fatalf("panel content = %q, want archived profile", got)
	}
}

func TestReplayUnknownModuleNotifies(t *testing.T) {
	m := newTestModel(t, nil, basicModule())

	m = applyAll(m, ReplayLoadedMsg{Replay: history.Replay{ModuleID: "retired-module"}})

	if m.Mode() == ModeResults {
		t.Fatal("replay of an unregistered module must not enter results mode")
	}
	if !m.Toast().Active() {
		t.Fatal("expected a toast about the unavailable module")
	}
}

func TestTabSwitchRunsDeferredSetupOnce(t *testing.T) {
	// Given two tabs where the second carries a setup callback
	mod := basicModule()
	mod.TabsVal = []module.TabSpec{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}}
	armed := 0
	mod.RenderFunc = func(result any, p *panel.Panel) {
		p.SetContent("a", "first", nil)
		p.SetContent("b", "second", func() { armed++ })
	}
	m := newTestModel(t, nil, mod)
	m = applyAll(m, selectModuleMsg{ID: "demo"})
	m = applyAll(m, SubmitDoneMsg{Gen: m.gen, ModuleID: "demo", Result: "x"})

	if armed != 0 {
		t.Fatal("setup must not run while its tab is inactive")
	}

	// When the user switches to tab b, and presses right again (wrap to a, back to b)
	m = applyAll(m, tea.KeyMsg{Type: tea.KeyRight})
	if armed != 1 {
		t.Fatalf("armed = %d after activation, want 1", armed)
	}
	m = applyAll(m, tea.KeyMsg{Type: tea.KeyRight})
	m = applyAll(m, tea.KeyMsg{Type: tea.KeyRight})
	if armed != 2 {
		t.Fatalf("armed = %d after leaving and returning, want 2", armed)
	}
}

func TestNoteFlowWritesNoteTab(t *testing.T) {
	// Given a rendered person-research result
	backend := noteBackend{}
	person := module.NewPersonResearch(backend, module.Defaults{})
	m := newTestModel(t, nil, person)
	m = applyAll(m, selectModuleMsg{ID: "person-research"})

	result := api.ResearchResponse{ID: "p1", Profile: "# Ada"}
	m = applyAll(m, SubmitDoneMsg{Gen: m.gen, ModuleID: "person-research", Result: result})

	// When the note form is opened and the sub-flow completes
	m = applyAll(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if !m.noteOpen {
		t.Fatal("n should open the note form")
	}
	m = applyAll(m, NoteDoneMsg{Gen: m.gen, Content: "Dear Ada,"})

	// Then the note tab holds the generated note and the form closed
	if m.noteOpen {
		t.Fatal("note form should close on completion")
	}
	if got := m.Panel().ActiveID(); got != "note" {
		t.Fatalf("active tab = %q, want note", got)
	}
	if got := m.Panel().ActiveContent(); got != "Dear Ada," {
		t.Fatalf("note tab content = %q", got)
	}
}

func TestNoteKeyIgnoredForModulesWithoutNotes(t *testing.T) {
	mod := basicModule()
	m := newTestModel(t, nil, mod)
	m = applyAll(m, selectModuleMsg{ID: "demo"})
	m = applyAll(m, SubmitDoneMsg{Gen: m.gen, ModuleID: "demo", Result: "x"})

	m = applyAll(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	if m.noteOpen {
		t.Fatal("n must be a no-op for modules without a note sub-flow")
	}
}

func TestHistoryDeleteRefreshesList(t *testing.T) {
	hs := &stubHistory{}
	m := newTestModel(t, hs, basicModule())

	m, cmd := apply(m, HistoryDeletedMsg{ID: "p1"})
	if !m.sidebar.loading {
		t.Fatal("successful delete should trigger a refresh")
	}
	found := false
	for _, msg := range drain(cmd) {
		if _, ok := msg.(HistoryListMsg); ok {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a history list refresh command")
	}
}

// noteBackend satisfies module.Backend for the note flow test.
type noteBackend struct{}

func (noteBackend) Research(ctx context.Context, req api.ResearchRequest) (api.ResearchResponse, error) {
	return api.ResearchResponse{}, nil
}

func (noteBackend) GenerateNote(ctx context.Context, req api.NoteRequest) (api.NoteResponse, error) {
	return api.NoteResponse{Note: "Dear Ada,"}, nil
}

func (noteBackend) DeepResearch(ctx context.Context, req api.DeepResearchRequest) (api.DeepResearchResponse, error) {
	return api.DeepResearchResponse{}, nil
}

func (noteBackend) CompanyResearch(ctx context.Context, req api.CompanyRequest) (api.CompanyResponse, error) {
	return api.CompanyResponse{}, nil
}
