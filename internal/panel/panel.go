// Package panel implements the tabbed output panel. Tabs are declared
// by the selected research module, filled by its render handler, and
// retained while inactive so switching tabs never refetches.
package panel

import (
	"fmt"
	"regexp"
	"strings"
)

// Renderer turns raw tab content (markdown) into displayable text.
type Renderer interface {
	Render(content string) (string, error)
}

// PlainRenderer passes content through unchanged. Used in non-TTY
// output paths and as the fallback when no renderer is configured.
type PlainRenderer struct{}

// Render returns the content verbatim.
func (PlainRenderer) Render(content string) (string, error) { return content, nil }

// Tab is one named output tab.
type Tab struct {
	ID    string
	Label string
	Icon  string

	content    string
	hasContent bool
	setup      func()
	setupDone  bool
}

// HasContent reports whether the tab has been written to since the
// panel was last cleared.
func (t *Tab) HasContent() bool { return t.hasContent }

// Panel owns a set of named tabs and the currently active tab.
type Panel struct {
	tabs     []*Tab
	active   int // index into tabs, -1 when no tab is active
	renderer Renderer
}

// New creates an empty Panel. A nil renderer falls back to PlainRenderer.
func New(r Renderer) *Panel {
	if r == nil {
		r = PlainRenderer{}
	}
	return &Panel{active: -1, renderer: r}
}

// SetRenderer swaps the content renderer (e.g. after a terminal resize).
func (p *Panel) SetRenderer(r Renderer) {
	if r == nil {
		r = PlainRenderer{}
	}
	p.renderer = r
}

// Clear resets the panel to zero tabs with no active tab. Idempotent.
func (p *Panel) Clear() {
	p.tabs = nil
	p.active = -1
}

// AddTab appends a tab with empty content. The first tab added becomes
// active when no tab is currently active. Re-adding an existing ID
// updates its label and icon in place and resets its content.
func (p *Panel) AddTab(id, label, icon string) {
	if t := p.find(id); t != nil {
		t.Label = label
		t.Icon = icon
		t.content = ""
		t.hasContent = false
		t.setup = nil
		t.setupDone = false
		return
	}
	p.tabs = append(p.tabs, &Tab{ID: id, Label: label, Icon: icon})
	if p.active < 0 {
		p.active = len(p.tabs) - 1
	}
}

// SetContent stores content verbatim for the tab. Unknown IDs are a
// no-op; tabs are never created implicitly. The setup callback runs
// after the next render of this tab (see FlushSetup), so interactive
// sub-forms can rely on the tab being on screen.
func (p *Panel) SetContent(id, content string, setup func()) {
	t := p.find(id)
	if t == nil {
		return
	}
	t.content = content
	t.hasContent = true
	t.setup = setup
	t.setupDone = false
}

// ActivateTab switches the active tab. Unknown IDs and re-activating
// the current tab are no-ops, so repeated calls never re-run a tab's
// setup callback for a single activation.
func (p *Panel) ActivateTab(id string) {
	for i, t := range p.tabs {
		if t.ID != id {
			continue
		}
		if i == p.active {
			return
		}
		p.active = i
		// The tab is re-rendered on activation, so its setup must
		// run again once the new render is on screen.
		t.setupDone = false
		return
	}
}

// Tabs returns the panel's tabs in declaration order.
func (p *Panel) Tabs() []*Tab { return p.tabs }

// ActiveID returns the active tab's ID, or "" when the panel is empty.
func (p *Panel) ActiveID() string {
	if p.active < 0 || p.active >= len(p.tabs) {
		return ""
	}
	return p.tabs[p.active].ID
}

// ActiveContent returns the active tab's raw content.
func (p *Panel) ActiveContent() string {
	if p.active < 0 || p.active >= len(p.tabs) {
		return ""
	}
	return p.tabs[p.active].content
}

// ViewActive renders the active tab's content. Content containing HTML
// form-control markup is passed through verbatim so embedded sub-form
// markup is never mangled by the markdown renderer; everything else is
// rendered as markdown.
func (p *Panel) ViewActive() (string, error) {
	if p.active < 0 || p.active >= len(p.tabs) {
		return "", nil
	}
	content := p.tabs[p.active].content
	if content == "" {
		return "", nil
	}
	if ContainsFormMarkup(content) {
		return content, nil
	}
	out, err := p.renderer.Render(content)
	if err != nil {
		// A render failure must not lose the result; fall back to raw.
		return content, fmt.Errorf("panel: rendering tab %q: %w", p.tabs[p.active].ID, err)
	}
	return out, nil
}

// FlushSetup runs the active tab's pending setup callback, if any.
// Callers invoke this after the frame containing the tab has been
// drawn. Safe to call repeatedly; each pending setup runs once.
func (p *Panel) FlushSetup() {
	if p.active < 0 || p.active >= len(p.tabs) {
		return
	}
	t := p.tabs[p.active]
	if t.setup == nil || t.setupDone {
		return
	}
	t.setupDone = true
	t.setup()
}

// find returns the tab with the given ID, or nil.
func (p *Panel) find(id string) *Tab {
	for _, t := range p.tabs {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// formMarkupTags are the HTML form-control tags that force verbatim
// passthrough instead of markdown rendering.
var formMarkupTags = []string{"<select", "<input", "<button", "<form", "<textarea"}

// ContainsFormMarkup reports whether content embeds live form markup.
func ContainsFormMarkup(content string) bool {
	lower := strings.ToLower(content)
	for _, tag := range formMarkupTags {
		if strings.Contains(lower, tag) {
			return true
		}
	}
	return false
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes HTML tags from content, for plain-text clipboard use.
func StripTags(content string) string {
	return tagPattern.ReplaceAllString(content, "")
}
