package tagtree

import "strings"

// Query is a parsed filter: lower-cased, whitespace-separated tokens.
type Query []string

// ParseQuery splits raw into tokens.
func ParseQuery(raw string) Query {
	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) == 0 {
		return nil
	}
	return Query(fields)
}

// Matches reports whether any token occurs in the node's name or full tag.
// An empty query matches everything.
func (q Query) Matches(n *Node) bool {
	if len(q) == 0 {
		return true
	}
	name := strings.ToLower(n.Name)
	full := strings.ToLower(n.FullTag)
	for _, tok := range q {
		if strings.Contains(name, tok) || strings.Contains(full, tok) {
			return true
		}
	}
	return false
}

// Filter returns a pruned copy of the tree. A node stays when it matches the
// query or when any of its descendants stays.
func (t *Tree) Filter(raw string) *Tree {
	q := ParseQuery(raw)
	return &Tree{Roots: filterNodes(t.Roots, q)}
}

func filterNodes(nodes []*Node, q Query) []*Node {
	var kept []*Node
	for _, n := range nodes {
		children := filterNodes(n.Children, q)
		if !q.Matches(n) && len(children) == 0 {
			continue
		}
		kept = append(kept, &Node{
			Name:     n.Name,
			FullTag:  n.FullTag,
			IsTag:    n.IsTag,
			Children: children,
		})
	}
	return kept
}

// Find returns the full tags of every node that matches raw itself, in tree order.
func (t *Tree) Find(raw string) []string {
	q := ParseQuery(raw)
	var found []string
	t.Walk(func(n *Node, _ int) bool {
		if q.Matches(n) {
			found = append(found, n.FullTag)
		}
		return true
	})
	return found
}
