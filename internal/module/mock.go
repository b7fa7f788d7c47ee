package module

import (
	"context"

	"github.com/InforeaTech/intelligent-research-agent/internal/panel"
)

// Verify MockModule satisfies ResearchModule at compile time.
var _ ResearchModule = (*MockModule)(nil)

// MockModule is a test double for any ResearchModule-shaped interface.
type MockModule struct {
	IDVal          string
	NameVal        string
	DescriptionVal string
	IconVal        string
	FieldsVal      []FieldSpec
	TabsVal        []TabSpec
	SubmitFunc     func(ctx context.Context, vals Values) (any, error)
	RenderFunc     func(result any, p *panel.Panel)
}

func (m *MockModule) ID() string            { return m.IDVal }
func (m *MockModule) Name() string          { return m.NameVal }
func (m *MockModule) Description() string   { return m.DescriptionVal }
func (m *MockModule) Icon() string          { return m.IconVal }
func (m *MockModule) Fields() []FieldSpec   { return m.FieldsVal }
func (m *MockModule) OutputTabs() []TabSpec { return m.TabsVal }

// Submit delegates to SubmitFunc, returning nil result if unset.
func (m *MockModule) Submit(ctx context.Context, vals Values) (any, error) {
	if m.SubmitFunc == nil {
		return nil, nil
	}
	return m.SubmitFunc(ctx, vals)
}

// Render delegates to RenderFunc if set.
func (m *MockModule) Render(result any, p *panel.Panel) {
	if m.RenderFunc != nil {
		m.RenderFunc(result, p)
	}
}
