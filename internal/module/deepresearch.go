package module

import (
	"context"

	"github.com/InforeaTech/intelligent-research-agent/internal/api"
	"github.com/InforeaTech/intelligent-research-agent/internal/panel"
)

// TabReport is the tab populated by DeepResearch.
const TabReport = "report"

// DeepResearch produces a long-form report on an arbitrary topic.
type DeepResearch struct {
	backend  Backend
	defaults Defaults
}

// NewDeepResearch creates the deep research module.
func NewDeepResearch(b Backend, d Defaults) *DeepResearch {
	return &DeepResearch{backend: b, defaults: d}
}

func (m *DeepResearch) ID() string          { return "deep-research" }
func (m *DeepResearch) Name() string        { return "Deep Research" }
func (m *DeepResearch) Description() string { return "Long-form research report on any topic" }
func (m *DeepResearch) Icon() string        { return "🔬" }

// Fields declares the deep research form.
func (m *DeepResearch) Fields() []FieldSpec {
	return []FieldSpec{
		{ID: "topic", Label: "Topic", Type: FieldTextarea, Required: true, Placeholder: "What should be researched?"},
		{ID: "search_mode", Label: "Search Mode", Type: FieldSelect, Options: searchModeOptions(), Default: m.defaults.SearchMode},
		{ID: "model_provider", Label: "Model", Type: FieldSelect, Options: modelProviderOptions(), Default: m.defaults.ModelProvider},
		{ID: "search_provider", Label: "Search", Type: FieldRadio, Options: searchProviderOptions(), Default: m.defaults.SearchProvider},
	}
}

// OutputTabs declares the single report tab.
func (m *DeepResearch) OutputTabs() []TabSpec {
	return []TabSpec{{ID: TabReport, Label: "Report", Icon: "📄"}}
}

// Submit runs deep research against the backend.
func (m *DeepResearch) Submit(ctx context.Context, vals Values) (any, error) {
	resp, err := m.backend.DeepResearch(ctx, api.DeepResearchRequest{
		Topic:          vals.String("topic"),
		SearchMode:     vals.String("search_mode"),
		ModelProvider:  vals.String("model_provider"),
		SearchProvider: vals.String("search_provider"),
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Render writes the report into the panel.
func (m *DeepResearch) Render(result any, p *panel.Panel) {
	resp, ok := result.(api.DeepResearchResponse)
	if !ok {
		return
	}
	p.SetContent(TabReport, resp.Report, nil)
}
