package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		info := map[string]string{
			"version": version,
			"commit":  commit,
			"date":    date,
			"go":      runtime.Version(),
		}
		if structuredOutputRequested() {
			return printResult(ctx, info)
		}
		printLine(ctx, "subtags version %s (commit: %s, built: %s, %s)", version, commit, date, info["go"])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
