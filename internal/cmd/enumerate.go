package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/subtags/internal/logging"
	"github.com/salmonumbrella/subtags/internal/output"
	"github.com/salmonumbrella/subtags/internal/tagpath"
)

var enumerateCmd = &cobra.Command{
	Use:     "enumerate",
	Aliases: []string{"enum", "preview"},
	Short:   "Turn an indented outline into numbered tag paths",
	Long: `Turn an indented outline into numbered hierarchical tag paths.

Each non-blank line is numbered within its indentation level (01_, 02_, ...)
and joined to its ancestors with "::". Four spaces or one tab make one level.
Spaces inside a line become underscores. Nothing is written to Anki.

Examples:
  subtags enumerate --file outline.txt
  printf 'Cells\n    Membrane\n' | subtags enumerate --parent Biology
  subtags enumerate --text "$(pbpaste)" --leaves -o json`,
	RunE: runEnumerate,
}

var enumerateOpts struct {
	outline outlineFlags
	parent  string
	leaves  bool
	trace   bool
}

func init() {
	enumerateOpts.outline.register(enumerateCmd)
	enumerateCmd.Flags().StringVarP(&enumerateOpts.parent, "parent", "p", "", "Parent tag prefixed to every path")
	enumerateCmd.Flags().BoolVar(&enumerateOpts.leaves, "leaves", false, "Only emit paths of lines without children")
	enumerateCmd.Flags().BoolVar(&enumerateOpts.trace, "trace", false, "Show the level, segment and final path computed for every line")
	rootCmd.AddCommand(enumerateCmd)
}

type enumerateResult struct {
	Parent  string   `json:"parent,omitempty" yaml:"parent,omitempty"`
	Count   int      `json:"count" yaml:"count"`
	Results []string `json:"paths" yaml:"paths"`
}

func newEnumerator(cmd *cobra.Command, parent string, leaves bool) *tagpath.Enumerator {
	return tagpath.New(tagpath.Options{
		Parent:     resolveParentTag(cmd, parent),
		LeavesOnly: leaves,
	})
}

// enumerateOutline reads the outline and numbers it using the command's
// --parent and --leaves flags.
func enumerateOutline(cmd *cobra.Command, flags outlineFlags, parent string, leaves bool) (*tagpath.Enumerator, []string, error) {
	ctx := commandContext(cmd)
	text, err := flags.readOutline(ctx)
	if err != nil {
		return nil, nil, err
	}

	e := newEnumerator(cmd, parent, leaves)
	paths := e.EnumerateText(text)

	logging.FromContext(ctx).Debug("enumerated outline",
		logging.FieldLines, len(tagpath.SplitLines(text)),
		logging.FieldTags, len(paths),
	)
	return e, paths, nil
}

func runEnumerate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	if enumerateOpts.trace {
		text, err := enumerateOpts.outline.readOutline(ctx)
		if err != nil {
			return err
		}
		e := newEnumerator(cmd, enumerateOpts.parent, enumerateOpts.leaves)
		entries := e.TraceText(text)
		if GetOutputFormat() == output.FormatText {
			return writeTrace(ctx, entries)
		}
		return printResult(ctx, entries)
	}

	e, paths, err := enumerateOutline(cmd, enumerateOpts.outline, enumerateOpts.parent, enumerateOpts.leaves)
	if err != nil {
		return err
	}

	if GetOutputFormat() != output.FormatText {
		return printResult(ctx, enumerateResult{Parent: e.Parent(), Count: len(paths), Results: paths})
	}

	showExplanationIfEnabled(cmd)
	return writePaths(ctx, paths)
}

// writePaths prints one styled path per line, honouring --result-limit.
func writePaths(ctx context.Context, paths []string) error {
	styles := stylesFromContext(ctx)
	limited, _ := output.ApplyAgentOptions(ctx, paths).([]string)
	w := stdoutFromContext(ctx)
	for _, path := range limited {
		if _, err := fmt.Fprintln(w, styles.RenderPath(path)); err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		printNotice(ctx, "No tags: the outline has no non-blank lines.")
	}
	return nil
}

func writeTrace(ctx context.Context, entries []tagpath.Entry) error {
	styles := stylesFromContext(ctx)
	table := output.Table{Headers: []string{"LINE", "LEVEL", "SEGMENT", "PATH"}}
	for _, e := range entries {
		path := styles.RenderPath(e.Path)
		if e.Leaf {
			path += styles.Dim.Render(" (leaf)")
		}
		table.Rows = append(table.Rows, []string{
			fmt.Sprint(e.Line), fmt.Sprint(e.Level), e.Segment, path,
		})
	}
	return output.NewPrinter(stdoutFromContext(ctx), output.FormatTable).Print(ctx, table)
}
