package tagtree

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/salmonumbrella/subtags/internal/tagpath"
)

// WhereEnv is what a where expression can see about one node.
type WhereEnv struct {
	Tag      string `expr:"tag"`
	Name     string `expr:"name"`
	Depth    int    `expr:"depth"`
	Children int    `expr:"children"`
	IsTag    bool   `expr:"is_tag"`
	Leaf     bool   `expr:"leaf"`
}

// Where is a compiled boolean expression over WhereEnv, for example
// `depth >= 1 && leaf` or `name startsWith "01_"`.
type Where struct {
	program *vm.Program
}

// CompileWhere parses code and checks that it yields a bool.
func CompileWhere(code string) (*Where, error) {
	program, err := expr.Compile(code, expr.Env(WhereEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid --where expression: %w", err)
	}
	return &Where{program: program}, nil
}

// Match evaluates the expression for n. Depth is the number of "::"
// separators in the node's full tag.
func (w *Where) Match(n *Node) (bool, error) {
	env := WhereEnv{
		Tag:      n.FullTag,
		Name:     n.Name,
		Depth:    strings.Count(n.FullTag, tagpath.Separator),
		Children: len(n.Children),
		IsTag:    n.IsTag,
		Leaf:     len(n.Children) == 0,
	}
	out, err := expr.Run(w.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating --where for %s: %w", n.FullTag, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}
