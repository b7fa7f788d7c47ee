package panel

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders markdown to styled terminal output.
type markdownRenderer struct {
	tr *glamour.TermRenderer
}

// NewMarkdownRenderer creates a glamour-backed Renderer wrapped to the
// given width.
func NewMarkdownRenderer(width int) (Renderer, error) {
	if width <= 0 {
		width = 80
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("panel: creating markdown renderer: %w", err)
	}
	return &markdownRenderer{tr: tr}, nil
}

// Render converts markdown into ANSI-styled text.
func (r *markdownRenderer) Render(content string) (string, error) {
	return r.tr.Render(content)
}
