// Package form renders a module's field specs as an interactive
// terminal form and collects typed values back out of it.
package form

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/InforeaTech/intelligent-research-agent/internal/module"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true)
	focusedLabel = labelStyle.Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
	requiredMark = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"}).Render("*")
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
)

// fieldState holds the live input state for one field spec.
type fieldState struct {
	spec     module.FieldSpec
	text     textinput.Model
	area     textarea.Model
	cursor   int          // option index for select and radio
	selected map[int]bool // chosen option indexes for multiselect
	checked  bool         // checkbox state
}

// Model is the form over a module's field specs.
type Model struct {
	states []fieldState
	focus  int
}

// New builds a form from field specs, seeding defaults and focusing
// the first field.
func New(fields []module.FieldSpec) Model {
	states := make([]fieldState, 0, len(fields))
	for _, spec := range fields {
		fs := fieldState{spec: spec, selected: make(map[int]bool)}
		switch spec.Type {
		case module.FieldTextarea:
			ta := textarea.New()
			ta.Placeholder = spec.Placeholder
			ta.SetHeight(3)
			if spec.Default != "" {
				ta.SetValue(spec.Default)
			}
			fs.area = ta
		case module.FieldSelect, module.FieldRadio:
			for i, opt := range spec.Options {
				if opt.Value == spec.Default {
					fs.cursor = i
				}
			}
		case module.FieldMultiSelect:
			// Multiselects start empty; defaults are single-valued.
		case module.FieldCheckbox:
			fs.checked = spec.Default == "true"
		default:
			ti := textinput.New()
			ti.Placeholder = spec.Placeholder
			if spec.Default != "" {
				ti.SetValue(spec.Default)
			}
			fs.text = ti
		}
		states = append(states, fs)
	}

	m := Model{states: states}
	if len(m.states) > 0 {
		m.focusField(0)
	}
	return m
}

// Len returns the number of fields.
func (m Model) Len() int { return len(m.states) }

// Update routes key messages to the focused field. Tab and shift+tab
// move between fields; they are consumed here and never reach inputs.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.states) == 0 {
		return m, nil
	}

	switch key.String() {
	case "tab", "down":
		if m.isEditingArea() && key.String() == "down" {
			break // textarea owns vertical movement
		}
		m.blurField(m.focus)
		m.focus = (m.focus + 1) % len(m.states)
		return m, m.focusField(m.focus)
	case "shift+tab", "up":
		if m.isEditingArea() && key.String() == "up" {
			break
		}
		m.blurField(m.focus)
		m.focus = (m.focus - 1 + len(m.states)) % len(m.states)
		return m, m.focusField(m.focus)
	}

	fs := &m.states[m.focus]
	switch fs.spec.Type {
	case module.FieldSelect, module.FieldRadio:
		switch key.String() {
		case "left", "h":
			if len(fs.spec.Options) > 0 {
				fs.cursor = (fs.cursor - 1 + len(fs.spec.Options)) % len(fs.spec.Options)
			}
		case "right", "l", " ":
			if len(fs.spec.Options) > 0 {
				fs.cursor = (fs.cursor + 1) % len(fs.spec.Options)
			}
		}
		return m, nil

	case module.FieldMultiSelect:
		switch key.String() {
		case "left", "h":
			if len(fs.spec.Options) > 0 {
				fs.cursor = (fs.cursor - 1 + len(fs.spec.Options)) % len(fs.spec.Options)
			}
		case "right", "l":
			if len(fs.spec.Options) > 0 {
				fs.cursor = (fs.cursor + 1) % len(fs.spec.Options)
			}
		case " ":
			fs.selected[fs.cursor] = !fs.selected[fs.cursor]
		}
		return m, nil

	case module.FieldCheckbox:
		if key.String() == " " || key.String() == "x" {
			fs.checked = !fs.checked
		}
		return m, nil

	case module.FieldTextarea:
		var cmd tea.Cmd
		fs.area, cmd = fs.area.Update(msg)
		return m, cmd

	default:
		var cmd tea.Cmd
		fs.text, cmd = fs.text.Update(msg)
		return m, cmd
	}
}

// isEditingArea reports whether the focused field is a textarea.
func (m Model) isEditingArea() bool {
	if m.focus < 0 || m.focus >= len(m.states) {
		return false
	}
	return m.states[m.focus].spec.Type == module.FieldTextarea
}

func (m *Model) focusField(i int) tea.Cmd {
	fs := &m.states[i]
	switch fs.spec.Type {
	case module.FieldTextarea:
		return fs.area.Focus()
	case module.FieldSelect, module.FieldRadio, module.FieldMultiSelect, module.FieldCheckbox:
		return nil
	default:
		return fs.text.Focus()
	}
}

func (m *Model) blurField(i int) {
	fs := &m.states[i]
	switch fs.spec.Type {
	case module.FieldTextarea:
		fs.area.Blur()
	case module.FieldSelect, module.FieldRadio, module.FieldMultiSelect, module.FieldCheckbox:
	default:
		fs.text.Blur()
	}
}

// View renders the form.
func (m Model) View() string {
	var b strings.Builder
	for i, fs := range m.states {
		if i > 0 {
			b.WriteString("\n")
		}
		label := fs.spec.Label
		if fs.spec.Required {
			label += requiredMark
		}
		if i == m.focus {
			b.WriteString(focusedLabel.Render("▸ " + label))
		} else {
			b.WriteString(labelStyle.Render("  " + label))
		}
		b.WriteString("\n")
		b.WriteString(m.viewField(fs, i == m.focus))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewField(fs fieldState, focused bool) string {
	switch fs.spec.Type {
	case module.FieldTextarea:
		return fs.area.View()
	case module.FieldSelect, module.FieldRadio:
		return "  " + optionRow(fs.spec.Options, func(i int) string {
			switch {
			case i == fs.cursor && focused:
				return "(•) "
			case i == fs.cursor:
				return "(x) "
			default:
				return "( ) "
			}
		})
	case module.FieldMultiSelect:
		return "  " + optionRow(fs.spec.Options, func(i int) string {
			mark := "[ ] "
			if fs.selected[i] {
				mark = "[x] "
			}
			if focused && i == fs.cursor {
				mark = "▸" + mark[1:]
			}
			return mark
		}) + "\n  " + dimStyle.Render("space toggles")
	case module.FieldCheckbox:
		if fs.checked {
			return "  [x]"
		}
		return "  [ ]"
	default:
		return fs.text.View()
	}
}

// optionRow renders options on one line using the given marker function.
func optionRow(opts []module.Option, mark func(i int) string) string {
	parts := make([]string, len(opts))
	for i, opt := range opts {
		parts[i] = mark(i) + opt.Label
	}
	return strings.Join(parts, "   ")
}

// Values extracts the collected form values by field type: checkboxes
// collect bool, multiselects the selected option values in declaration
// order, radios and selects the chosen option value (empty when the
// field has no options), text fields their string content.
func (m Model) Values() module.Values {
	vals := make(module.Values, len(m.states))
	for _, fs := range m.states {
		switch fs.spec.Type {
		case module.FieldCheckbox:
			vals[fs.spec.ID] = fs.checked
		case module.FieldMultiSelect:
			var chosen []string
			for i, opt := range fs.spec.Options {
				if fs.selected[i] {
					chosen = append(chosen, opt.Value)
				}
			}
			vals[fs.spec.ID] = chosen
		case module.FieldSelect, module.FieldRadio:
			if len(fs.spec.Options) == 0 {
				vals[fs.spec.ID] = ""
				continue
			}
			vals[fs.spec.ID] = fs.spec.Options[fs.cursor].Value
		case module.FieldTextarea:
			vals[fs.spec.ID] = fs.area.Value()
		default:
			vals[fs.spec.ID] = fs.text.Value()
		}
	}
	return vals
}
