// Package tagtree arranges flat "::"-separated tags into a navigable tree
// and filters it the way a tag picker does.
package tagtree

import (
	"strings"

	"github.com/salmonumbrella/subtags/internal/tagpath"
)

// Node is one segment of the tag hierarchy.
type Node struct {
	Name     string  `json:"name"`
	FullTag  string  `json:"tag"`
	IsTag    bool    `json:"is_tag"`
	Children []*Node `json:"children,omitempty"`
}

// Tree is an ordered forest of tag nodes.
type Tree struct {
	Roots []*Node `json:"roots"`
}

// Build creates a tree from tags. Sibling order follows first appearance in
// tags; pass a sorted list for a sorted tree.
func Build(tags []string) *Tree {
	t := &Tree{}
	byPath := make(map[string]*Node)

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		parts := strings.Split(tag, tagpath.Separator)

		var parent *Node
		for i, part := range parts {
			full := strings.Join(parts[:i+1], tagpath.Separator)
			node, ok := byPath[full]
			if !ok {
				node = &Node{Name: part, FullTag: full}
				byPath[full] = node
				if parent == nil {
					t.Roots = append(t.Roots, node)
				} else {
					parent.Children = append(parent.Children, node)
				}
			}
			parent = node
		}
		parent.IsTag = true
	}
	return t
}

// Walk visits nodes depth-first. Returning false from fn skips the node's children.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			if fn(n, depth) {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(t.Roots, 0)
}

// Lookup returns the node for fullTag, or nil.
func (t *Tree) Lookup(fullTag string) *Node {
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.FullTag == fullTag {
			found = n
			return false
		}
		return strings.HasPrefix(fullTag, n.FullTag+tagpath.Separator)
	})
	return found
}

// Count returns the number of nodes in the tree.
func (t *Tree) Count() int {
	count := 0
	t.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}
