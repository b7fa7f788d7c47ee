// Package module defines the research module contract and registry.
// A module declares its input fields and output tabs, submits collected
// form values to the backend, and renders the result into the panel.
package module

import (
	"context"

	"github.com/InforeaTech/intelligent-research-agent/internal/panel"
)

// FieldType enumerates the supported input field kinds.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multiselect"
	FieldCheckbox    FieldType = "checkbox"
	FieldRadio       FieldType = "radio"
)

// Option is one selectable choice for select, multiselect, and radio fields.
type Option struct {
	Value string
	Label string
}

// FieldSpec describes one input field of a module's form.
type FieldSpec struct {
	ID          string
	Label       string
	Type        FieldType
	Options     []Option
	Required    bool
	Placeholder string
	Default     string
}

// TabSpec declares one output tab a module populates.
type TabSpec struct {
	ID    string
	Label string
	Icon  string
}

// Values holds collected form values keyed by field ID.
// Checkboxes collect bool, multiselects []string, everything else string.
type Values map[string]any

// String returns the string value for a field, or "".
func (v Values) String(id string) string {
	s, _ := v[id].(string)
	return s
}

// Bool returns the boolean value for a field, or false.
func (v Values) Bool(id string) bool {
	b, _ := v[id].(bool)
	return b
}

// Strings returns the multi-value selection for a field, or nil.
func (v Values) Strings(id string) []string {
	ss, _ := v[id].([]string)
	return ss
}

// ResearchModule is one pluggable research workflow.
//
// Render must be a pure function of (result, panel): history replay
// feeds stored results through the same path as fresh submissions.
type ResearchModule interface {
	ID() string
	Name() string
	Description() string
	Icon() string
	Fields() []FieldSpec
	OutputTabs() []TabSpec
	Submit(ctx context.Context, vals Values) (any, error)
	Render(result any, p *panel.Panel)
}
