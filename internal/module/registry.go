package module

import "fmt"

// Registry maps module IDs to research modules, preserving registration
// order for the dashboard listing. It is not safe for concurrent use;
// registration happens once at startup.
type Registry struct {
	modules []ResearchModule
	index   map[string]int
	logf    func(format string, args ...any)
}

// NewRegistry creates an empty Registry. Registration problems are
// reported through logf; a nil logf discards them.
func NewRegistry(logf func(format string, args ...any)) *Registry {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Registry{index: make(map[string]int), logf: logf}
}

// Register adds a module. A module with an empty ID or name is logged
// and skipped rather than failing the dashboard. Re-registering an
// existing ID replaces the earlier module in place (last wins).
func (r *Registry) Register(m ResearchModule) {
	if m == nil {
		r.logf("module: skipping nil module registration")
		return
	}
	if m.ID() == "" || m.Name() == "" {
		r.logf("module: skipping registration with missing id or name (id=%q name=%q)", m.ID(), m.Name())
		return
	}
	if err := validate(m); err != nil {
		// Degrades to "module unavailable" behaviors at render time,
		// never a startup failure.
		r.logf("module %s: %v", m.ID(), err)
	}
	if i, ok := r.index[m.ID()]; ok {
		r.modules[i] = m
		return
	}
	r.index[m.ID()] = len(r.modules)
	r.modules = append(r.modules, m)
}

// Get returns the module registered under id.
func (r *Registry) Get(id string) (ResearchModule, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.modules[i], true
}

// All returns modules in registration order. An empty registry is a
// valid state; the dashboard shows a "no modules" message.
func (r *Registry) All() []ResearchModule {
	out := make([]ResearchModule, len(r.modules))
	copy(out, r.modules)
	return out
}

// Len returns the number of registered modules.
func (r *Registry) Len() int { return len(r.modules) }

// validate checks a module's declared fields and tabs for internal
// consistency: unique non-empty IDs throughout.
func validate(m ResearchModule) error {
	seen := make(map[string]bool)
	for _, f := range m.Fields() {
		if f.ID == "" {
			return fmt.Errorf("field with empty ID")
		}
		if seen[f.ID] {
			return fmt.Errorf("duplicate field ID %q", f.ID)
		}
		seen[f.ID] = true
	}
	tabs := make(map[string]bool)
	for _, t := range m.OutputTabs() {
		if t.ID == "" {
			return fmt.Errorf("output tab with empty ID")
		}
		if tabs[t.ID] {
			return fmt.Errorf("duplicate output tab ID %q", t.ID)
		}
		tabs[t.ID] = true
	}
	return nil
}
