package tagtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/salmonumbrella/subtags/internal/ui"
)

const (
	markerExpanded  = "▾"
	markerCollapsed = "▸"
	markerLeaf      = "•"
)

// RenderOptions controls text rendering of a tree.
type RenderOptions struct {
	Styles *ui.Styles
	// Expanded reports the persisted expansion state of a tag.
	Expanded func(tag string) bool
	// ExpandAll ignores Expanded and shows every node.
	ExpandAll bool
	// Highlight marks nodes matching this query.
	Highlight Query
}

// Render writes an indented text view of t to w. Children of collapsed
// nodes are hidden.
func Render(w io.Writer, t *Tree, opts RenderOptions) error {
	styles := opts.Styles
	if styles == nil {
		styles = ui.NewStyles(false)
	}

	var err error
	t.Walk(func(n *Node, depth int) bool {
		if err != nil {
			return false
		}
		open := opts.ExpandAll || (opts.Expanded != nil && opts.Expanded(n.FullTag))

		marker := markerLeaf
		if len(n.Children) > 0 {
			marker = markerCollapsed
			if open {
				marker = markerExpanded
			}
		}

		name := styles.Group.Render(n.Name)
		if n.IsTag {
			name = styles.Tag.Render(n.Name)
		}
		if len(opts.Highlight) > 0 && opts.Highlight.Matches(n) {
			name = styles.Match.Render(n.Name)
		}

		_, err = fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", depth), styles.Marker.Render(marker), name)
		return open
	})
	return err
}
