package app

import "github.com/charmbracelet/bubbles/key"

// dashboardKeys holds key bindings for dashboard mode.
type dashboardKeys struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	History key.Binding
	Refresh key.Binding
	Delete  key.Binding
	Quit    key.Binding
}

func (k dashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.History, k.Refresh, k.Quit}
}

func (k dashboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.History, k.Refresh, k.Delete, k.Quit},
	}
}

// formKeys holds key bindings for form mode.
type formKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Back   key.Binding
}

func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Back}
}

func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev}, {k.Submit, k.Back}}
}

// resultsKeys holds key bindings for results mode.
type resultsKeys struct {
	PrevTab key.Binding
	NextTab key.Binding
	Copy    key.Binding
	Export  key.Binding
	Note    key.Binding
	Edit    key.Binding
	Back    key.Binding
}

func (k resultsKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevTab, k.NextTab, k.Copy, k.Export, k.Note, k.Edit, k.Back}
}

func (k resultsKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevTab, k.NextTab},
		{k.Copy, k.Export, k.Note},
		{k.Edit, k.Back},
	}
}

// DashboardKeyMap returns the dashboard mode bindings.
func DashboardKeyMap() dashboardKeys {
	return dashboardKeys{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		History: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// FormKeyMap returns the form mode bindings.
func FormKeyMap() formKeys {
	return formKeys{
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dashboard")),
	}
}

// ResultsKeyMap returns the results mode bindings.
func ResultsKeyMap() resultsKeys {
	return resultsKeys{
		PrevTab: key.NewBinding(key.WithKeys("left", "["), key.WithHelp("←/[", "prev tab")),
		NextTab: key.NewBinding(key.WithKeys("right", "]"), key.WithHelp("→/]", "next tab")),
		Copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Note:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "note")),
		Edit:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "edit inputs")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dashboard")),
	}
}
