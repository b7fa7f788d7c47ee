package panel

import (
	"os"
	"strings"
	"testing"
)

func TestExportActive_MarkdownBecomesHTMLDocument(t *testing.T) {
	// Given: an active tab holding markdown
	p := newTestPanel()
	p.AddTab("report", "Deep Research Report", "")
	p.SetContent("report", "# Findings\n\nSignal detected.", nil)

	// When: the tab is exported
	dir := t.TempDir()
	path, err := p.ExportActive(dir)
	if err != nil {
		t.Fatalf("ExportActive() error = %v", err)
	}

	// Then: the file is a standalone printable document
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	doc := string(data)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Deep Research Report</title>",
		"<style>",
		"<h1", // markdown heading converted
		"Signal detected.",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("export missing %q in:\n%s", want, doc)
		}
	}
	if !strings.HasSuffix(path, ".html") {
		t.Errorf("export path = %q, want .html suffix", path)
	}
	if !strings.Contains(path, "deep-research-report-") {
		t.Errorf("export path = %q, want slugged label prefix", path)
	}
}

func TestExportActive_FormMarkupEmbeddedVerbatim(t *testing.T) {
	p := newTestPanel()
	p.AddTab("note", "Note", "")
	content := `<form><textarea name="context"></textarea></form>`
	p.SetContent("note", content, nil)

	path, err := p.ExportActive(t.TempDir())
	if err != nil {
		t.Fatalf("ExportActive() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), content) {
		t.Error("form markup should be embedded unmodified")
	}
}

func TestExportActive_EmptyTabFails(t *testing.T) {
	p := newTestPanel()
	p.AddTab("report", "Report", "")

	if _, err := p.ExportActive(t.TempDir()); err == nil {
		t.Error("ExportActive() on empty tab should fail")
	}
}

func TestExportActive_NoActiveTabFails(t *testing.T) {
	p := newTestPanel()

	if _, err := p.ExportActive(t.TempDir()); err == nil {
		t.Error("ExportActive() on empty panel should fail")
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Deep Research Report", "deep-research-report"},
		{"  Análisis!!  ", "an-lisis"},
		{"///", "tab"},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
