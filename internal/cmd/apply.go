package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/subtags/internal/api"
	"github.com/salmonumbrella/subtags/internal/logging"
	"github.com/salmonumbrella/subtags/internal/output"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Add enumerated subtags to selected cards or notes",
	Long: `Enumerate an outline and add every resulting tag to the selected cards.

Cards are resolved to their notes, and each tag is added to each note once.
Tags a note already has are left alone, so running apply twice is safe.

Examples:
  subtags apply --cards 1700000000101,1700000000102 --file outline.txt
  subtags apply --notes 1700000000001 --parent Biology --text "Cells"
  subtags apply --cards 1700000000101 --file outline.txt --dry-run`,
	Annotations: map[string]string{annotationNeedsStore: "true"},
	RunE:        runApply,
}

var applyOpts struct {
	outline outlineFlags
	cards   []int64
	notes   []int64
	parent  string
	leaves  bool
	dryRun  bool
}

func init() {
	applyOpts.outline.register(applyCmd)
	applyCmd.Flags().Int64SliceVar(&applyOpts.cards, "cards", nil, "Card IDs to tag (comma-separated or repeated)")
	applyCmd.Flags().Int64SliceVar(&applyOpts.notes, "notes", nil, "Note IDs to tag (comma-separated or repeated)")
	applyCmd.Flags().StringVarP(&applyOpts.parent, "parent", "p", "", "Parent tag prefixed to every path")
	applyCmd.Flags().BoolVar(&applyOpts.leaves, "leaves", false, "Only add paths of lines without children")
	applyCmd.Flags().BoolVar(&applyOpts.dryRun, "dry-run", false, "Show the tags without adding them")
	rootCmd.AddCommand(applyCmd)
}

type applyOutput struct {
	Tags            []string `json:"tags" yaml:"tags"`
	DryRun          bool     `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	api.ApplyResult `yaml:",inline"`
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	sel := api.Selection{Cards: applyOpts.cards, Notes: applyOpts.notes}
	if sel.Empty() {
		return api.ValidationError{Message: "no cards selected"}
	}

	_, tags, err := enumerateOutline(cmd, applyOpts.outline, applyOpts.parent, applyOpts.leaves)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return api.ValidationError{Message: "no subtags provided"}
	}

	if applyOpts.dryRun {
		if GetOutputFormat() == output.FormatText {
			printNotice(ctx, "Dry run: %d tags for %d cards and %d notes.", len(tags), len(sel.Cards), len(sel.Notes))
			return writePaths(ctx, tags)
		}
		return printResult(ctx, applyOutput{Tags: tags, DryRun: true})
	}

	ok, err := confirm(ctx, output.YesFromContext(ctx),
		fmt.Sprintf("Add %d tags to %d cards and %d notes?", len(tags), len(sel.Cards), len(sel.Notes)))
	if err != nil {
		return err
	}
	if !ok {
		printNotice(ctx, "Cancelled.")
		return nil
	}

	result, err := api.ApplyTags(ctx, GetStore(), sel, tags)
	if err != nil {
		return err
	}
	logger.Info("subtags applied",
		logging.FieldBackend, GetStore().Name(),
		logging.FieldNotes, result.Notes,
		logging.FieldAdded, result.TagsAdded,
	)

	if GetOutputFormat() != output.FormatText {
		return printResult(ctx, applyOutput{Tags: tags, ApplyResult: result})
	}

	showExplanationIfEnabled(cmd)
	if err := writePaths(ctx, tags); err != nil {
		return err
	}
	printInfo(ctx, "Subtags added to selected cards: %d new tags across %d notes.", result.TagsAdded, result.Notes)
	return nil
}
