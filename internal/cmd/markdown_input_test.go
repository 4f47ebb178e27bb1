package cmd

import (
	"strings"
	"testing"
)

func TestParseMarkdownOutline(t *testing.T) {
	src := `# Biology

Some notes that are not part of the outline.

- Cells
  - Membrane
  - Nucleus
- Genetics

## Tissues
* Epithelial
`
	entries := parseMarkdownOutline([]byte(src))

	want := []markdownEntry{
		{level: 0, content: "Biology"},
		{level: 1, content: "Cells"},
		{level: 2, content: "Membrane"},
		{level: 2, content: "Nucleus"},
		{level: 1, content: "Genetics"},
		{level: 1, content: "Tissues"},
		{level: 2, content: "Epithelial"},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(entries), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestMarkdownToOutline(t *testing.T) {
	got := markdownToOutline("1. First\n   1. Inner\n2. Second\n")
	want := "First\n    Inner\nSecond\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := markdownToOutline("just a paragraph\n"); got != "" {
		t.Errorf("paragraphs should be ignored, got %q", got)
	}
}

func TestEnumerateMarkdown(t *testing.T) {
	out, _, err := runCLI(t, cliRun{}, "-o", "ndjson", "--query", ".paths[]", "enumerate", "--markdown", "--text", "- Main Tag\n  - Sub One\n- Second")
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}
	want := []string{`"01_Main_Tag"`, `"01_Main_Tag::01_Sub_One"`, `"02_Second"`}
	if strings.TrimSpace(out) != strings.Join(want, "\n") {
		t.Errorf("stdout = %q", out)
	}
}
