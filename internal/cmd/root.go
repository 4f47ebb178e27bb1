package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/subtags/internal/api"
	"github.com/salmonumbrella/subtags/internal/config"
	"github.com/salmonumbrella/subtags/internal/logging"
	"github.com/salmonumbrella/subtags/internal/output"
	"github.com/salmonumbrella/subtags/internal/ui"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v
}

// annotationNeedsStore marks commands that talk to the collection.
const annotationNeedsStore = "needs-store"

// Global flags
var (
	outputFmt      string
	outputType     output.Format
	debug          bool
	configFile     string
	queryExpr      string
	queryFile      string
	errorFmt       string
	quietFlag      bool
	yesFlag        bool
	resultLimit    int
	backendName    string
	collectionPath string
	ankiURL        string
	settingsFile   string
	colorMode      string
)

// store is the shared tag store, opened for commands annotated with
// annotationNeedsStore.
var store api.TagStore

// loadedConfig is the config read in PersistentPreRunE (nil for config commands).
var loadedConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "subtags",
	Short: "Bulk-create hierarchical Anki tags from indented outlines",
	Long: `subtags turns an indented outline into numbered hierarchical tags
(01_Topic::02_Subtopic) and adds them to notes in your Anki collection.

Each line is numbered within its indentation level. Four spaces or one tab
make one level. Tags reach Anki through the AnkiConnect add-on, or through a
YAML collection file with --backend file.

Environment Variables:
  SUBTAGS_BACKEND          Tag store backend (ankiconnect|file)
  SUBTAGS_COLLECTION       Collection file for the file backend
  SUBTAGS_ANKICONNECT_URL  AnkiConnect address
  SUBTAGS_API_KEY          AnkiConnect API key
  SUBTAGS_SETTINGS         Settings file path
  SUBTAGS_LOG_LEVEL        Log level (debug|info|warn|error)`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadedConfig = nil
		if !isConfigCommand(cmd) {
			cfg, err := loadConfigFromFlag()
			if err != nil {
				return formatConfigLoadError(err)
			}
			loadedConfig = cfg
		}

		// Output format selection: --output > config > non-TTY json > text
		formatStr := outputFmt
		if !flagChanged(cmd, "output") && !flagChanged(cmd, "format") && loadedConfig != nil && strings.TrimSpace(loadedConfig.OutputFormat) != "" {
			formatStr = strings.TrimSpace(loadedConfig.OutputFormat)
		} else if !flagChanged(cmd, "output") && !flagChanged(cmd, "format") && !isTerminal(cmd.OutOrStdout()) {
			formatStr = "json"
		}
		format, err := output.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		outputType = format
		outputFmt = string(format)

		if queryExpr != "" && queryFile != "" {
			return fmt.Errorf("use only one of --query or --query-file")
		}
		if queryFile != "" {
			loaded, err := readInputSource(queryFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			queryExpr = loaded
		}

		// Default quiet mode for non-interactive structured output
		if !flagChanged(cmd, "quiet") && !isTerminal(cmd.OutOrStdout()) && output.IsStructured(outputType) {
			quietFlag = true
		}

		if err := validateColorMode(colorMode); err != nil {
			return err
		}
		if err := validateErrorFormat(errorFmt); err != nil {
			return err
		}

		logger := logging.New(cmd.ErrOrStderr(), resolveLogLevel(loadedConfig))

		ctx := cmd.Context()
		ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		ctx = output.WithFormat(ctx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithYes(ctx, yesFlag)
		ctx = output.WithLimit(ctx, resultLimit)
		ctx = output.WithQuiet(ctx, quietFlag)
		ctx = WithErrorFormat(ctx, errorFmt)
		ctx = withStyles(ctx, ui.NewStyles(ui.ColorEnabled(colorMode, cmd.OutOrStdout())))
		ctx = logging.WithLogger(ctx, logger)
		cmd.SetContext(ctx)

		if cmd.Annotations[annotationNeedsStore] != "true" {
			return nil
		}

		storeCfg, err := resolveStoreConfig(cmd, loadedConfig)
		if err != nil {
			return err
		}
		storeCfg.ClientOptions = append(storeCfg.ClientOptions, api.WithLogger(logger))

		store, err = newStoreFunc(storeCfg)
		if err != nil {
			return fmt.Errorf("failed to open tag store: %w", err)
		}
		logger.Debug("tag store ready", logging.FieldBackend, store.Name())
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		ctx := rootCmd.Context()
		if cmd != nil && cmd.Context() != nil {
			ctx = cmd.Context()
		}
		printCommandError(ctx, err)
		return err
	}
	return nil
}

// GetStore returns the opened tag store
func GetStore() api.TagStore {
	return store
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() output.Format {
	if outputType != "" {
		return outputType
	}
	parsed, err := output.ParseFormat(outputFmt)
	if err != nil {
		return output.FormatText
	}
	return parsed
}

func isConfigCommand(cmd *cobra.Command) bool {
	return cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config")
}

func validateColorMode(mode string) error {
	switch mode {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("invalid --color %q (expected auto|always|never)", mode)
	}
}

func init() {
	rootCmd.SetVersionTemplate("subtags version {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&outputFmt, "output", "o", "text", "Output format (text|json|ndjson|table|yaml)")
	pf.StringVar(&outputFmt, "format", "text", "Alias for --output")
	pf.StringVar(&queryExpr, "query", "", "jq expression to filter JSON output")
	pf.StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	pf.StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	pf.BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	pf.BoolVarP(&yesFlag, "yes", "y", false, "Skip confirmation prompts (for automation)")
	pf.BoolVar(&yesFlag, "no-input", false, "Alias for --yes (non-interactive)")
	pf.IntVar(&resultLimit, "result-limit", 0, "Limit number of results in output (0 = unlimited)")
	pf.BoolVar(&debug, "debug", false, "Enable debug logging")
	pf.StringVar(&configFile, "config", "", "Config file (default: ~/.config/subtags/config.yaml)")
	pf.StringVar(&backendName, "backend", "", "Tag store backend (ankiconnect|file)")
	pf.StringVar(&collectionPath, "collection", "", "Collection file for the file backend")
	pf.StringVar(&ankiURL, "url", "", "AnkiConnect URL (default: "+api.DefaultBaseURL+")")
	pf.StringVar(&settingsFile, "settings", "", "Settings file (default: ~/.config/subtags/settings.json)")
	pf.StringVar(&colorMode, "color", "auto", "Color output (auto|always|never)")
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
