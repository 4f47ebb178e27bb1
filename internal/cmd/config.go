package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/subtags/internal/api"
	"github.com/salmonumbrella/subtags/internal/config"
	"github.com/salmonumbrella/subtags/internal/logging"
	"github.com/salmonumbrella/subtags/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration stored in ~/.config/subtags/config.yaml.

Values set here are used when neither a flag nor a SUBTAGS_* environment
variable provides them.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFromFlag()
		if err != nil {
			return formatConfigLoadError(err)
		}
		ctx := commandContext(cmd)
		if structuredOutputRequested() {
			return printResult(ctx, configOutput(cfg))
		}

		values := configOutput(cfg)
		printLine(ctx, "Config:")
		for _, f := range configFields {
			printLine(ctx, "  %s: %s", f.key, values[f.key])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Unset a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported configuration keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := supportedConfigKeys()
		sort.Strings(keys)

		ctx := commandContext(cmd)
		if structuredOutputRequested() {
			return printResult(ctx, keys)
		}
		printLine(ctx, "Supported keys:")
		for _, key := range keys {
			printLine(ctx, "  %s", key)
		}
		return nil
	},
}

// configField binds a config key to its struct field and an optional validator.
type configField struct {
	key      string
	field    func(*config.Config) *string
	validate func(string) error
	secret   bool
}

var configFields = []configField{
	{key: "backend", field: func(c *config.Config) *string { return &c.Backend }, validate: validateBackend},
	{key: "collection_path", field: func(c *config.Config) *string { return &c.CollectionPath }},
	{key: "anki_connect_url", field: func(c *config.Config) *string { return &c.AnkiConnectURL }},
	{key: "api_key", field: func(c *config.Config) *string { return &c.APIKey }, secret: true},
	{key: "settings_path", field: func(c *config.Config) *string { return &c.SettingsPath }},
	{key: "keyring_backend", field: func(c *config.Config) *string { return &c.KeyringBackend }, validate: validateKeyringBackend},
	{key: "output_format", field: func(c *config.Config) *string { return &c.OutputFormat }, validate: validateOutputFormat},
	{key: "log_level", field: func(c *config.Config) *string { return &c.LogLevel }, validate: validateLogLevel},
	{key: "parent_tag", field: func(c *config.Config) *string { return &c.ParentTag }},
}

func lookupConfigField(key string) (configField, error) {
	for _, f := range configFields {
		if f.key == key {
			return f, nil
		}
	}
	return configField{}, fmt.Errorf("unknown config key: %s", key)
}

func validateBackend(v string) error {
	switch strings.ToLower(v) {
	case api.BackendAnkiConnect, api.BackendFile:
		return nil
	default:
		return fmt.Errorf("invalid backend %q (expected %s|%s)", v, api.BackendAnkiConnect, api.BackendFile)
	}
}

func validateKeyringBackend(v string) error {
	switch strings.ToLower(v) {
	case "auto", "keychain", "file":
		return nil
	default:
		return fmt.Errorf("invalid keyring_backend %q (expected auto|keychain|file)", v)
	}
}

func validateOutputFormat(v string) error {
	_, err := output.ParseFormat(v)
	return err
}

func validateLogLevel(v string) error {
	switch strings.ToLower(v) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log_level %q (expected debug|info|warn|error)", v)
	}
}

func configPath() (string, error) {
	if strings.TrimSpace(configFile) != "" {
		return configFile, nil
	}
	return config.DefaultConfigPath()
}

func supportedConfigKeys() []string {
	keys := make([]string, 0, len(configFields))
	for _, f := range configFields {
		keys = append(keys, f.key)
	}
	return keys
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	f, err := lookupConfigField(key)
	if err != nil {
		return err
	}
	if f.validate != nil {
		if err := f.validate(value); err != nil {
			return err
		}
	}
	*f.field(cfg) = value
	return nil
}

func clearConfigValue(cfg *config.Config, key string) error {
	f, err := lookupConfigField(key)
	if err != nil {
		return err
	}
	*f.field(cfg) = ""
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configUnsetCmd, configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func saveConfig(cmd *cobra.Command, cfg *config.Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(commandContext(cmd), path); err != nil {
		return err
	}
	logging.FromContext(commandContext(cmd)).Debug("saved config", logging.FieldPath, path)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))
	value := strings.TrimSpace(args[1])

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}
	if err := applyConfigValue(cfg, key, value); err != nil {
		return err
	}
	if err := saveConfig(cmd, cfg); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if structuredOutputRequested() {
		if f, _ := lookupConfigField(key); f.secret {
			value = maskToken(value)
		}
		return printResult(ctx, map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	printInfo(ctx, "Updated %s", key)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}
	if err := clearConfigValue(cfg, key); err != nil {
		return err
	}
	if err := saveConfig(cmd, cfg); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if structuredOutputRequested() {
		return printResult(ctx, map[string]string{
			"status": "unset",
			"key":    key,
		})
	}
	printInfo(ctx, "Unset %s", key)
	return nil
}

func configOutput(cfg *config.Config) map[string]string {
	out := make(map[string]string, len(configFields))
	for _, f := range configFields {
		v := *f.field(cfg)
		if f.secret {
			v = maskToken(v)
		}
		out[f.key] = v
	}
	return out
}
