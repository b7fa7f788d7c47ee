package panel

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/yuin/goldmark"
)

// CopyActive writes the active tab's content to the system clipboard
// as plain text, with HTML tags stripped. Returns the copied text so
// callers can report what was copied.
func (p *Panel) CopyActive() (string, error) {
	text := StripTags(p.ActiveContent())
	if text == "" {
		return "", fmt.Errorf("panel: active tab has no content to copy")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return "", fmt.Errorf("panel: writing clipboard: %w", err)
	}
	return text, nil
}

// exportStylesheet is the standalone stylesheet embedded in exported
// documents, sized for print.
const exportStylesheet = `body { font-family: Georgia, serif; max-width: 46em; margin: 2em auto; line-height: 1.5; color: #1a1a1a; }
h1, h2, h3 { font-family: Helvetica, Arial, sans-serif; }
pre, code { font-family: Menlo, monospace; background: #f4f4f4; }
pre { padding: 1em; overflow-x: auto; }
@media print { body { margin: 0; } }`

// ExportActive serializes the active tab into a self-contained HTML
// document under dir and returns the written path. Markdown content is
// converted to HTML; content carrying form markup is embedded as-is.
func (p *Panel) ExportActive(dir string) (string, error) {
	if p.active < 0 || p.active >= len(p.tabs) {
		return "", fmt.Errorf("panel: no active tab to export")
	}
	t := p.tabs[p.active]
	if !t.hasContent {
		return "", fmt.Errorf("panel: tab %q has no content to export", t.ID)
	}

	var body string
	if ContainsFormMarkup(t.content) {
		body = t.content
	} else {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(t.content), &buf); err != nil {
			return "", fmt.Errorf("panel: converting tab %q to HTML: %w", t.ID, err)
		}
		body = buf.String()
	}

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&doc, "<title>%s</title>\n", html.EscapeString(t.Label))
	fmt.Fprintf(&doc, "<style>\n%s\n</style>\n", exportStylesheet)
	doc.WriteString("</head>\n<body>\n")
	doc.WriteString(body)
	doc.WriteString("\n</body>\n</html>\n")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("panel: creating export directory: %w", err)
	}
	name := fmt.Sprintf("%s-%s.html", slugify(t.Label), time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(doc.String()), 0o644); err != nil {
		return "", fmt.Errorf("panel: writing %s: %w", path, err)
	}
	return path, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases a label into a filesystem-safe slug.
func slugify(label string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(label), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "tab"
	}
	return s
}
