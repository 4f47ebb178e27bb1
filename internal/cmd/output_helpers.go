package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/subtags/internal/output"
)

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

func structuredOutputRequested() bool {
	return output.IsStructured(GetOutputFormat())
}

// printResult writes data to the command's stdout in the selected format.
func printResult(ctx context.Context, data interface{}) error {
	printer := output.NewPrinter(stdoutFromContext(ctx), GetOutputFormat())
	return printer.Print(ctx, data)
}

// printLine writes one line of primary text output to stdout.
func printLine(ctx context.Context, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(stdoutFromContext(ctx), format+"\n", args...)
}

// printInfo writes a human-oriented status line to stdout unless --quiet is set.
func printInfo(ctx context.Context, format string, args ...interface{}) {
	if output.QuietFromContext(ctx) {
		return
	}
	_, _ = fmt.Fprintf(stdoutFromContext(ctx), format+"\n", args...)
}

// printNotice writes supplementary text to stderr unless --quiet is set.
func printNotice(ctx context.Context, format string, args ...interface{}) {
	if output.QuietFromContext(ctx) {
		return
	}
	_, _ = fmt.Fprintf(stderrFromContext(ctx), format+"\n", args...)
}
