package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/subtags/internal/logging"
	"github.com/salmonumbrella/subtags/internal/output"
	"github.com/salmonumbrella/subtags/internal/tagtree"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Browse the collection's tags",
	Long: `Browse the tags already in the collection.

Hierarchical tags ("Biology::Cells") are shown as a tree. Expanded branches
are remembered between runs; use "tags expand" and "tags collapse" to change
them.

Examples:
  subtags tags list
  subtags tags tree --filter cell
  subtags tags find "mem cell" -o json
  subtags tags list --where 'leaf && depth >= 2'
  subtags tags expand Biology Biology::Cells`,
}

var tagsListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List all tags, sorted",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNeedsStore: "true"},
	RunE:        runTagsList,
}

var tagsTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show tags as a tree",
	Long: `Show tags as a tree.

Collapsed branches hide their children. A filter shows every branch that
leads to a match, with matches highlighted.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNeedsStore: "true"},
	RunE:        runTagsTree,
}

var tagsFindCmd = &cobra.Command{
	Use:         "find <query>",
	Short:       "Find tags whose name or path contains any query word",
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{annotationNeedsStore: "true"},
	RunE:        runTagsFind,
}

var tagsExpandCmd = &cobra.Command{
	Use:   "expand <tag>...",
	Short: "Remember tree branches as expanded",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setExpansion(cmd, args, true)
	},
}

var tagsCollapseCmd = &cobra.Command{
	Use:   "collapse [tag]...",
	Short: "Remember tree branches as collapsed (--all for every branch)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setExpansion(cmd, args, false)
	},
}

var (
	tagsFilter    string
	tagsWhere     string
	tagsExpandAll bool
	collapseAll   bool
)

func init() {
	tagsListCmd.Flags().StringVar(&tagsFilter, "filter", "", "Only list tags matching any of these words")
	tagsListCmd.Flags().StringVar(&tagsWhere, "where", "", "Only list tags for which this expression holds (fields: tag, name, depth, children, is_tag, leaf)")
	tagsFindCmd.Flags().StringVar(&tagsWhere, "where", "", "Only return matches for which this expression holds")
	tagsTreeCmd.Flags().StringVar(&tagsFilter, "filter", "", "Only show branches matching any of these words")
	tagsTreeCmd.Flags().BoolVarP(&tagsExpandAll, "all", "a", false, "Expand every branch")
	tagsCollapseCmd.Flags().BoolVar(&collapseAll, "all", false, "Collapse every branch")

	tagsCmd.AddCommand(tagsListCmd, tagsTreeCmd, tagsFindCmd, tagsExpandCmd, tagsCollapseCmd)
	rootCmd.AddCommand(tagsCmd)
}

func loadTree(cmd *cobra.Command) (*tagtree.Tree, []string, error) {
	tags, err := GetStore().AllTags(commandContext(cmd))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list tags: %w", err)
	}
	tree := tagtree.Build(tags)
	logging.FromContext(commandContext(cmd)).Debug("built tag tree",
		logging.FieldTags, len(tags),
		logging.FieldNodes, tree.Count(),
	)
	return tree, tags, nil
}

func runTagsList(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	tree, tags, err := loadTree(cmd)
	if err != nil {
		return err
	}
	where, err := compileWhere()
	if err != nil {
		return err
	}

	q := tagtree.ParseQuery(tagsFilter)
	matched := make([]string, 0, len(tags))
	for _, tag := range tags {
		n := tree.Lookup(tag)
		if n == nil || !q.Matches(n) {
			continue
		}
		ok, err := matchWhere(where, n)
		if err != nil {
			return err
		}
		if ok {
			matched = append(matched, tag)
		}
	}
	return printResult(ctx, matched)
}

func compileWhere() (*tagtree.Where, error) {
	if strings.TrimSpace(tagsWhere) == "" {
		return nil, nil
	}
	return tagtree.CompileWhere(tagsWhere)
}

// matchWhere reports whether n passes where; a nil where passes everything.
func matchWhere(where *tagtree.Where, n *tagtree.Node) (bool, error) {
	if where == nil {
		return true, nil
	}
	return where.Match(n)
}

func runTagsTree(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	tree, _, err := loadTree(cmd)
	if err != nil {
		return err
	}

	query := tagtree.ParseQuery(tagsFilter)
	if len(query) > 0 {
		tree = tree.Filter(tagsFilter)
	}

	switch GetOutputFormat() {
	case output.FormatText:
	case output.FormatTable:
		return printResult(ctx, treeTable(tree))
	default:
		return printResult(ctx, tree)
	}

	s, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if len(tree.Roots) == 0 {
		printNotice(ctx, "No tags found.")
		return nil
	}
	return tagtree.Render(stdoutFromContext(ctx), tree, tagtree.RenderOptions{
		Styles:    stylesFromContext(ctx),
		Expanded:  s.IsExpanded,
		ExpandAll: tagsExpandAll || len(query) > 0,
		Highlight: query,
	})
}

func runTagsFind(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	tree, _, err := loadTree(cmd)
	if err != nil {
		return err
	}
	where, err := compileWhere()
	if err != nil {
		return err
	}

	found := []string{}
	for _, tag := range tree.Find(strings.Join(args, " ")) {
		ok, err := matchWhere(where, tree.Lookup(tag))
		if err != nil {
			return err
		}
		if ok {
			found = append(found, tag)
		}
	}
	return printResult(ctx, found)
}

func setExpansion(cmd *cobra.Command, tags []string, expanded bool) error {
	ctx := commandContext(cmd)
	s, path, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	if !expanded && collapseAll {
		tags = append(tags, s.ExpandedTags()...)
	}
	if len(tags) == 0 {
		return fmt.Errorf("no tags given (pass tag names or --all)")
	}

	for _, tag := range tags {
		s.SetExpanded(strings.TrimSpace(tag), expanded)
	}
	if err := s.Save(ctx, path); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	logging.FromContext(ctx).Debug("saved expansion state",
		logging.FieldTags, len(tags),
		logging.FieldExpanded, expanded,
		logging.FieldPath, path,
	)

	if structuredOutputRequested() {
		return printResult(ctx, map[string]interface{}{
			"expanded": s.ExpandedTags(),
		})
	}
	verb := "Collapsed"
	if expanded {
		verb = "Expanded"
	}
	printInfo(ctx, "%s %d tags.", verb, len(tags))
	return nil
}

// treeTable flattens a tree into one row per node.
func treeTable(tree *tagtree.Tree) output.Table {
	table := output.Table{Headers: []string{"TAG", "DEPTH", "CHILDREN", "IS_TAG"}}
	tree.Walk(func(n *tagtree.Node, depth int) bool {
		table.Rows = append(table.Rows, []string{
			n.FullTag, fmt.Sprint(depth), fmt.Sprint(len(n.Children)), fmt.Sprint(n.IsTag),
		})
		return true
	})
	return table
}
