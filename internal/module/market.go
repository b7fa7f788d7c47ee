package module

import (
	"context"
	"errors"

	"github.com/InforeaTech/intelligent-research-agent/internal/panel"
)

// ErrNotImplemented marks a module that is registered on the dashboard
// but has no backend support yet.
var ErrNotImplemented = errors.New("module: not yet available")

// MarketResearch is a placeholder module. It appears on the dashboard
// and declares its contract, but submission reports ErrNotImplemented
// until the backend grows the endpoint.
type MarketResearch struct{}

// NewMarketResearch creates the market research stub.
func NewMarketResearch() *MarketResearch { return &MarketResearch{} }

func (m *MarketResearch) ID() string          { return "market-research" }
func (m *MarketResearch) Name() string        { return "Market Research" }
func (m *MarketResearch) Description() string { return "Market sizing and trends (coming soon)" }
func (m *MarketResearch) Icon() string        { return "📈" }

// Fields declares the planned market research form.
func (m *MarketResearch) Fields() []FieldSpec {
	return []FieldSpec{
		{ID: "market", Label: "Market", Type: FieldText, Required: true, Placeholder: "e.g. observability tooling"},
		{ID: "region", Label: "Region", Type: FieldSelect, Options: []Option{
			{Value: "global", Label: "Global"},
			{Value: "na", Label: "North America"},
			{Value: "emea", Label: "EMEA"},
			{Value: "apac", Label: "APAC"},
		}, Default: "global"},
	}
}

// OutputTabs declares the planned report tab.
func (m *MarketResearch) OutputTabs() []TabSpec {
	return []TabSpec{{ID: TabReport, Label: "Report", Icon: "📄"}}
}

// Submit always reports the module as unavailable.
func (m *MarketResearch) Submit(ctx context.Context, vals Values) (any, error) {
	return nil, ErrNotImplemented
}

// Render is a no-op; Submit never produces a result.
func (m *MarketResearch) Render(result any, p *panel.Panel) {}
