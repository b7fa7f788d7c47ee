package module

import (
	"context"

	"github.com/InforeaTech/intelligent-research-agent/internal/api"
	"github.com/InforeaTech/intelligent-research-agent/internal/panel"
)

// TabAnalysis is the tab populated by CompanyResearch.
const TabAnalysis = "analysis"

// CompanyResearch analyzes a company for outreach targeting.
type CompanyResearch struct {
	backend  Backend
	defaults Defaults
}

// NewCompanyResearch creates the company research module.
func NewCompanyResearch(b Backend, d Defaults) *CompanyResearch {
	return &CompanyResearch{backend: b, defaults: d}
}

func (m *CompanyResearch) ID() string          { return "company-research" }
func (m *CompanyResearch) Name() string        { return "Company Research" }
func (m *CompanyResearch) Description() string { return "Analyze a company's market position" }
func (m *CompanyResearch) Icon() string        { return "🏢" }

// Fields declares the company research form.
func (m *CompanyResearch) Fields() []FieldSpec {
	return []FieldSpec{
		{ID: "company_name", Label: "Company Name", Type: FieldText, Required: true},
		{ID: "industry", Label: "Industry", Type: FieldText, Placeholder: "e.g. fintech"},
		{ID: "focus_areas", Label: "Focus Areas", Type: FieldMultiSelect, Options: []Option{
			{Value: "products", Label: "Products"},
			{Value: "leadership", Label: "Leadership"},
			{Value: "funding", Label: "Funding"},
			{Value: "competitors", Label: "Competitors"},
			{Value: "news", Label: "Recent News"},
		}},
		{ID: "model_provider", Label: "Model", Type: FieldSelect, Options: modelProviderOptions(), Default: m.defaults.ModelProvider},
		{ID: "search_provider", Label: "Search", Type: FieldRadio, Options: searchProviderOptions(), Default: m.defaults.SearchProvider},
		{ID: "bypass_cache", Label: "Bypass cache", Type: FieldCheckbox},
	}
}

// OutputTabs declares the single analysis tab.
func (m *CompanyResearch) OutputTabs() []TabSpec {
	return []TabSpec{{ID: TabAnalysis, Label: "Analysis", Icon: "📊"}}
}

// Submit runs company analysis against the backend.
func (m *CompanyResearch) Submit(ctx context.Context, vals Values) (any, error) {
	resp, err := m.backend.CompanyResearch(ctx, api.CompanyRequest{
		CompanyName:    vals.String("company_name"),
		Industry:       vals.String("industry"),
		FocusAreas:     vals.Strings("focus_areas"),
		ModelProvider:  vals.String("model_provider"),
		SearchProvider: vals.String("search_provider"),
		BypassCache:    vals.Bool("bypass_cache"),
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Render writes the analysis into the panel.
func (m *CompanyResearch) Render(result any, p *panel.Panel) {
	resp, ok := result.(api.CompanyResponse)
	if !ok {
		return
	}
	p.SetContent(TabAnalysis, resp.Analysis, nil)
}
