package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/subtags/internal/logging"
	"github.com/salmonumbrella/subtags/internal/output"
	"github.com/salmonumbrella/subtags/internal/settings"
	"github.com/salmonumbrella/subtags/internal/tagpath"
	"github.com/salmonumbrella/subtags/internal/ui"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain the outline format",
	Long: `Print how outlines are numbered.

The explanation is also shown on stderr before text output of enumerate and
apply. Use "subtags explain toggle" to turn that off or back on.`,
	RunE: runExplain,
}

var explainToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Show or hide the explanation before enumerate and apply output",
	RunE:  runExplainToggle,
}

func init() {
	explainCmd.AddCommand(explainToggleCmd)
	rootCmd.AddCommand(explainCmd)
}

var explanationExample = []string{
	"Main Tag",
	"    Subtag",
	"        Child Tag",
	"        Other Child",
	"Second Tag",
}

// writeExplanation renders the outline format help with a worked example.
func writeExplanation(w io.Writer, styles *ui.Styles) error {
	var b strings.Builder
	b.WriteString(styles.Heading.Render("Subtags:") + "\n")
	b.WriteString("Each line is enumerated at its indentation level (01_, 02_, etc.).\n")
	b.WriteString("Indentation = multiples of 4 spaces or 1 tab => deeper level.\n\n")
	b.WriteString(styles.Heading.Render("Example:") + "\n")
	for _, line := range explanationExample {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString(styles.Heading.Render("becomes:") + "\n")
	for _, path := range tagpath.EnumeratePaths(explanationExample) {
		b.WriteString("  " + styles.RenderPath(path) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func loadSettings(cmd *cobra.Command) (*settings.Settings, string, error) {
	path, err := resolveSettingsPath(cmd)
	if err != nil {
		return nil, "", err
	}
	return settings.Load(path, logging.FromContext(commandContext(cmd))), path, nil
}

// showExplanationIfEnabled prints the explanation to stderr for interactive
// text output when the persisted setting allows it.
func showExplanationIfEnabled(cmd *cobra.Command) {
	ctx := commandContext(cmd)
	if output.QuietFromContext(ctx) || GetOutputFormat() != output.FormatText {
		return
	}
	s, _, err := loadSettings(cmd)
	if err != nil || !s.ExplanationVisible {
		return
	}
	w := stderrFromContext(ctx)
	if err := writeExplanation(w, stylesFromContext(ctx)); err != nil {
		return
	}
	fmt.Fprintln(w)
}

func runExplain(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if structuredOutputRequested() {
		return printResult(ctx, map[string]interface{}{
			"indent_width": 4,
			"separator":    tagpath.Separator,
			"example":      explanationExample,
			"paths":        tagpath.EnumeratePaths(explanationExample),
		})
	}
	return writeExplanation(stdoutFromContext(ctx), stylesFromContext(ctx))
}

func runExplainToggle(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	s, path, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	visible := s.ToggleExplanation()
	if err := s.Save(ctx, path); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if structuredOutputRequested() {
		return printResult(ctx, map[string]bool{"explanation_visible": visible})
	}
	if visible {
		printInfo(ctx, "Explanation will be shown.")
	} else {
		printInfo(ctx, "Explanation hidden. Run 'subtags explain toggle' to show it again.")
	}
	return nil
}
