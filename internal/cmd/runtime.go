package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/subtags/internal/api"
	"github.com/salmonumbrella/subtags/internal/config"
	"github.com/salmonumbrella/subtags/internal/settings"
)

// Environment variables read by the CLI.
const (
	envBackend     = "SUBTAGS_BACKEND"
	envCollection  = "SUBTAGS_COLLECTION"
	envAnkiURL     = "SUBTAGS_ANKICONNECT_URL"
	envAPIKey      = "SUBTAGS_API_KEY"
	envSettings    = "SUBTAGS_SETTINGS"
	envLogLevel    = "SUBTAGS_LOG_LEVEL"
	envParentTag   = "SUBTAGS_PARENT_TAG"
	defaultProfile = "default"
)

// loadConfigFromFlag loads config from --config if provided, otherwise from default path.
func loadConfigFromFlag() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

// firstNonEmpty returns the first value that is not blank after trimming.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// cfgValue reads a field from cfg, tolerating a nil config.
func cfgValue(cfg *config.Config, get func(*config.Config) string) string {
	if cfg == nil {
		return ""
	}
	return get(cfg)
}

// resolveStoreConfig picks the backend and its settings with precedence:
// flags > env > keyring (API key only) > config.
func resolveStoreConfig(cmd *cobra.Command, cfg *config.Config) (api.StoreConfig, error) {
	flag := func(name, value string) string {
		if flagChanged(cmd, name) {
			return value
		}
		return ""
	}

	backend := firstNonEmpty(
		flag("backend", backendName),
		envGet(envBackend),
		cfgValue(cfg, func(c *config.Config) string { return c.Backend }),
		api.BackendAnkiConnect,
	)
	storeCfg := api.StoreConfig{
		Backend: strings.ToLower(backend),
		CollectionPath: firstNonEmpty(
			flag("collection", collectionPath),
			envGet(envCollection),
			cfgValue(cfg, func(c *config.Config) string { return c.CollectionPath }),
		),
	}
	if storeCfg.Backend != api.BackendAnkiConnect {
		return storeCfg, nil
	}

	if url := firstNonEmpty(
		flag("url", ankiURL),
		envGet(envAnkiURL),
		cfgValue(cfg, func(c *config.Config) string { return c.AnkiConnectURL }),
	); url != "" {
		storeCfg.ClientOptions = append(storeCfg.ClientOptions, api.WithBaseURL(url))
	}

	key := strings.TrimSpace(envGet(envAPIKey))
	if key == "" {
		key = keyringAPIKey()
	}
	if key == "" {
		key = cfgValue(cfg, func(c *config.Config) string { return strings.TrimSpace(c.APIKey) })
	}
	if key != "" {
		storeCfg.ClientOptions = append(storeCfg.ClientOptions, api.WithAPIKey(key))
	}
	return storeCfg, nil
}

// keyringAPIKey returns the stored API key, or "" when none is stored or the
// keyring cannot be opened.
func keyringAPIKey() string {
	secretStore, err := openSecretsStore()
	if err != nil {
		return ""
	}
	tok, err := secretStore.GetToken(defaultProfile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(tok.APIKey)
}

// resolveSettingsPath applies flags > env > config > default.
func resolveSettingsPath(cmd *cobra.Command) (string, error) {
	path := ""
	if flagChanged(cmd, "settings") {
		path = settingsFile
	}
	path = firstNonEmpty(
		path,
		envGet(envSettings),
		cfgValue(loadedConfig, func(c *config.Config) string { return c.SettingsPath }),
	)
	if path != "" {
		return path, nil
	}
	return settings.DefaultPath()
}

// resolveLogLevel applies --debug > env > config > warn.
func resolveLogLevel(cfg *config.Config) string {
	if debug {
		return "debug"
	}
	return firstNonEmpty(
		envGet(envLogLevel),
		cfgValue(cfg, func(c *config.Config) string { return c.LogLevel }),
		"warn",
	)
}

// resolveParentTag applies --parent > env > config.
func resolveParentTag(cmd *cobra.Command, parent string) string {
	if flagChanged(cmd, "parent") {
		return parent
	}
	return firstNonEmpty(
		envGet(envParentTag),
		cfgValue(loadedConfig, func(c *config.Config) string { return c.ParentTag }),
	)
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}
