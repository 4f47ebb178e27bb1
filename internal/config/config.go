// Package config reads and writes the subtags config file.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/subtags/internal/fsutil"
)

// AppName is the application name used for keyring and config
const AppName = "subtags"

// Config holds CLI configuration
type Config struct {
	Backend        string `yaml:"backend,omitempty"` // ankiconnect, file
	CollectionPath string `yaml:"collection_path,omitempty"`
	AnkiConnectURL string `yaml:"anki_connect_url,omitempty"`
	APIKey         string `yaml:"api_key,omitempty"`
	SettingsPath   string `yaml:"settings_path,omitempty"`
	KeyringBackend string `yaml:"keyring_backend,omitempty"` // auto, keychain, file
	OutputFormat   string `yaml:"output_format,omitempty"`   // text, json, ndjson, yaml, table
	LogLevel       string `yaml:"log_level,omitempty"`
	ParentTag      string `yaml:"parent_tag,omitempty"`
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath returns the default config file path
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureKeyringDir ensures the keyring directory exists and returns its path
func EnsureKeyringDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	keyringDir := filepath.Join(dir, "keyring")
	if err := os.MkdirAll(keyringDir, 0o700); err != nil {
		return "", fmt.Errorf("creating keyring directory: %w", err)
	}
	return keyringDir, nil
}

// ReadConfig reads the config file from the default location
func ReadConfig() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load loads config from the given path. A missing file is an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes config to the given path. The file may hold an API key, so it
// is only readable by the owner.
func (c *Config) Save(ctx context.Context, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, path, data, 0o600, 0o755); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
