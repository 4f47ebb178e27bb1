package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/subtags/internal/config"
	"github.com/salmonumbrella/subtags/internal/output"
)

func TestConfigSetUnsetCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	prevConfig := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = prevConfig })

	out, _, cleanup := withTestContext(t, output.FormatText, false)
	t.Cleanup(cleanup)

	setCmd := &cobra.Command{}
	setCmdContext(setCmd)
	if err := runConfigSet(setCmd, []string{"parent_tag", "Med School"}); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("config not readable: %v", err)
	}
	if cfg.ParentTag != "Med School" {
		t.Fatalf("parent_tag = %q", cfg.ParentTag)
	}

	info, err := os.Stat(cfgPath)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	unsetCmd := &cobra.Command{}
	setCmdContext(unsetCmd)
	if err := runConfigUnset(unsetCmd, []string{"parent_tag"}); err != nil {
		t.Fatalf("config unset failed: %v", err)
	}
	cfg, err = config.Load(cfgPath)
	if err != nil {
		t.Fatalf("config not readable: %v", err)
	}
	if cfg.ParentTag != "" {
		t.Fatalf("parent_tag should be cleared, got %q", cfg.ParentTag)
	}

	// Quiet context suppresses status lines.
	if out.Len() != 0 {
		t.Errorf("expected no output in quiet mode, got %q", out.String())
	}
}

func TestConfigSetRejectsInvalidValue(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	_, _, err := runCLI(t, cliRun{}, "--config", cfgPath, "config", "set", "backend", "sqlite")
	if err == nil || !strings.Contains(err.Error(), "invalid backend") {
		t.Fatalf("expected invalid backend error, got %v", err)
	}
	if _, statErr := os.Stat(cfgPath); !os.IsNotExist(statErr) {
		t.Errorf("config should not be written on invalid value")
	}
}

func TestConfigShowAndKeys(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("backend: file\napi_key: abcdefghijklmnop\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, _, err := runCLI(t, cliRun{}, "--config", cfgPath, "-o", "json", "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	var shown map[string]string
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("parse output: %v\n%s", err, out)
	}
	if shown["backend"] != "file" || shown["api_key"] != "abcd...mnop" {
		t.Errorf("unexpected config output: %v", shown)
	}

	out, _, err = runCLI(t, cliRun{}, "--config", cfgPath, "-o", "text", "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "  backend: file\n") || strings.Contains(out, "abcdefghijklmnop") {
		t.Errorf("unexpected text output:\n%s", out)
	}

	out, _, err = runCLI(t, cliRun{}, "--config", cfgPath, "-o", "text", "config", "keys")
	if err != nil {
		t.Fatalf("config keys failed: %v", err)
	}
	if !strings.HasPrefix(out, "Supported keys:\n  anki_connect_url\n") {
		t.Errorf("unexpected keys output:\n%s", out)
	}
}

func TestConfigCommandsIgnoreBrokenConfigForKeys(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("backend: [unterminated\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := runCLI(t, cliRun{}, "--config", cfgPath, "-o", "text", "config", "keys"); err != nil {
		t.Fatalf("config keys should not load the config: %v", err)
	}

	_, _, err := runCLI(t, cliRun{}, "--config", cfgPath, "-o", "text", "enumerate", "--text", "A")
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected config load error, got %v", err)
	}
}
