package cmd

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownEntry is one heading or list item with its outline level.
type markdownEntry struct {
	level   int
	content string
}

// parseMarkdownOutline reads headings and list items from a Markdown
// document. A heading of depth n sits at level n-1 and list items nest below
// the closest preceding heading. Paragraphs outside lists are ignored.
func parseMarkdownOutline(src []byte) []markdownEntry {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var (
		entries   []markdownEntry
		base      int
		listDepth int
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if entering {
				if content := blockText(node, src); content != "" {
					entries = append(entries, markdownEntry{level: node.Level - 1, content: content})
				}
				base = node.Level
			}
			return ast.WalkSkipChildren, nil
		case *ast.List:
			if entering {
				listDepth++
			} else {
				listDepth--
			}
		case *ast.ListItem:
			if !entering {
				break
			}
			first := node.FirstChild()
			if first == nil {
				break
			}
			if _, nested := first.(*ast.List); nested {
				break
			}
			if content := blockText(first, src); content != "" {
				entries = append(entries, markdownEntry{level: base + listDepth - 1, content: content})
			}
		}
		return ast.WalkContinue, nil
	})
	return entries
}

// blockText joins the source lines of a block node with single spaces.
func blockText(n ast.Node, src []byte) string {
	lines := n.Lines()
	if lines == nil {
		return ""
	}
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if s := strings.TrimSpace(string(seg.Value(src))); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// markdownToOutline renders Markdown headings and lists as an indented
// outline with four spaces per level.
func markdownToOutline(markdown string) string {
	var b strings.Builder
	for _, e := range parseMarkdownOutline([]byte(markdown)) {
		b.WriteString(strings.Repeat("    ", e.level))
		b.WriteString(e.content)
		b.WriteByte('\n')
	}
	return b.String()
}
