package module

import (
	"context"
	"fmt"

	"github.com/InforeaTech/intelligent-research-agent/internal/api"
	"github.com/InforeaTech/intelligent-research-agent/internal/panel"
)

// Tab IDs populated by PersonResearch.
const (
	TabProfile      = "profile"
	TabResearchData = "research-data"
	TabNote         = "note"
)

// PersonResearch researches an individual and drafts outreach notes.
type PersonResearch struct {
	backend   Backend
	defaults  Defaults
	noteSetup func()
}

// PersonOption configures a PersonResearch module.
type PersonOption func(*PersonResearch)

// WithNoteSetup installs the callback that arms the note sub-form when
// the note tab is rendered. The panel defers it until the tab is on
// screen.
func WithNoteSetup(fn func()) PersonOption {
	return func(m *PersonResearch) { m.noteSetup = fn }
}

// NewPersonResearch creates the person research module.
func NewPersonResearch(b Backend, d Defaults, opts ...PersonOption) *PersonResearch {
	m := &PersonResearch{backend: b, defaults: d}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *PersonResearch) ID() string          { return "person-research" }
func (m *PersonResearch) Name() string        { return "Person Research" }
func (m *PersonResearch) Description() string { return "Research a person and draft outreach notes" }
func (m *PersonResearch) Icon() string        { return "👤" }

// Fields declares the person research form.
func (m *PersonResearch) Fields() []FieldSpec {
	return []FieldSpec{
		{ID: "name", Label: "Full Name", Type: FieldText, Required: true, Placeholder: "First and last name"},
		{ID: "company", Label: "Company", Type: FieldText, Placeholder: "Current employer"},
		{ID: "additional_info", Label: "Additional Info", Type: FieldTextarea, Placeholder: "Anything known already"},
		{ID: "model_provider", Label: "Model", Type: FieldSelect, Options: modelProviderOptions(), Default: m.defaults.ModelProvider},
		{ID: "search_provider", Label: "Search", Type: FieldRadio, Options: searchProviderOptions(), Default: m.defaults.SearchProvider},
		{ID: "search_mode", Label: "Search Mode", Type: FieldSelect, Options: searchModeOptions(), Default: m.defaults.SearchMode},
		{ID: "bypass_cache", Label: "Bypass cache", Type: FieldCheckbox},
	}
}

// OutputTabs declares the tabs the render handler writes to.
func (m *PersonResearch) OutputTabs() []TabSpec {
	return []TabSpec{
		{ID: TabProfile, Label: "Profile", Icon: "📋"},
		{ID: TabResearchData, Label: "Research Data", Icon: "🔍"},
		{ID: TabNote, Label: "Note", Icon: "✉️"},
	}
}

// Submit runs person research against the backend.
func (m *PersonResearch) Submit(ctx context.Context, vals Values) (any, error) {
	resp, err := m.backend.Research(ctx, api.ResearchRequest{
		Name:           vals.String("name"),
		Company:        vals.String("company"),
		AdditionalInfo: vals.String("additional_info"),
		ModelProvider:  vals.String("model_provider"),
		SearchProvider: vals.String("search_provider"),
		SearchMode:     vals.String("search_mode"),
		BypassCache:    vals.Bool("bypass_cache"),
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Render writes the research result into the panel's declared tabs.
func (m *PersonResearch) Render(result any, p *panel.Panel) {
	resp, ok := result.(api.ResearchResponse)
	if !ok {
		return
	}

	p.SetContent(TabProfile, withCacheBadge(resp.Profile, resp.FromCache), nil)
	p.SetContent(TabResearchData, researchDataMarkdown(resp.ResearchData), nil)

	note := resp.CachedNote
	if note == "" {
		note = "_No note yet._\n\nGenerate an outreach note from this profile with the note form."
	} else {
		note = withCacheBadge(note, true)
	}
	p.SetContent(TabNote, note, m.noteSetup)
}

// NoteTab names the output tab the note sub-flow writes into.
func (m *PersonResearch) NoteTab() string { return TabNote }

// NoteFields declares the embedded note sub-form shown in the note tab.
func (m *PersonResearch) NoteFields() []FieldSpec {
	return []FieldSpec{
		{ID: "length", Label: "Length (words)", Type: FieldText, Default: "300"},
		{ID: "tone", Label: "Tone", Type: FieldSelect, Default: "professional", Options: []Option{
			{Value: "professional", Label: "Professional"},
			{Value: "friendly", Label: "Friendly"},
			{Value: "direct", Label: "Direct"},
		}},
		{ID: "context", Label: "Context", Type: FieldTextarea, Placeholder: "Why are you reaching out?"},
	}
}

// ComposeNote generates an outreach note for a previously rendered
// profile and returns the new note tab content.
func (m *PersonResearch) ComposeNote(ctx context.Context, vals Values, result any) (string, error) {
	resp, ok := result.(api.ResearchResponse)
	if !ok {
		return "", fmt.Errorf("module: person research result required for note generation")
	}

	length := 300
	if s := vals.String("length"); s != "" {
		if _, err := fmt.Sscanf(s, "%d", &length); err != nil {
			return "", fmt.Errorf("module: note length %q is not a number", s)
		}
	}

	// The note sub-form has no provider field; the backend treats an
	// empty provider as OpenAI, so fall back to the configured default.
	provider := vals.String("model_provider")
	if provider == "" {
		provider = m.defaults.ModelProvider
	}

	note, err := m.backend.GenerateNote(ctx, api.NoteRequest{
		ProfileText:   resp.Profile,
		Length:        length,
		Tone:          vals.String("tone"),
		Context:       vals.String("context"),
		ProfileID:     resp.ID,
		ModelProvider: provider,
		BypassCache:   vals.Bool("bypass_cache"),
	})
	if err != nil {
		return "", err
	}
	return withCacheBadge(note.Note, note.FromCache), nil
}
