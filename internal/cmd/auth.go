package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/subtags/internal/api"
	"github.com/salmonumbrella/subtags/internal/secrets"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the AnkiConnect API key",
	Long: `Manage the AnkiConnect API key.

AnkiConnect only needs a key when "apiKey" is set in the add-on's config.
The key is stored in your system keychain (macOS Keychain, Windows
Credential Manager, Secret Service, or an encrypted file on Linux).

Examples:
  subtags auth login --api-key KEY
  subtags auth login            # prompts for the key
  subtags auth status --verify
  subtags auth logout`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the AnkiConnect API key",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API key",
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API key is stored",
	RunE:  runStatus,
}

var (
	loginAPIKey string
	verifyAuth  bool
)

func init() {
	authCmd.AddCommand(loginCmd, logoutCmd, statusCmd)
	rootCmd.AddCommand(authCmd)

	loginCmd.Flags().StringVar(&loginAPIKey, "api-key", "", "AnkiConnect API key")
	loginCmd.Flags().BoolVar(&verifyAuth, "verify", false, "Check the key against AnkiConnect before storing it")
	statusCmd.Flags().BoolVar(&verifyAuth, "verify", false, "Check the stored key against AnkiConnect")
}

// verifyKey checks key against the configured AnkiConnect address.
func verifyKey(ctx context.Context, cmd *cobra.Command, key string) error {
	storeCfg, err := resolveStoreConfig(cmd, loadedConfig)
	if err != nil {
		return err
	}
	opts := append(storeCfg.ClientOptions, api.WithAPIKey(key))
	version, err := newVersionChecker(opts...).Version(ctx)
	if err != nil {
		return err
	}
	if version < api.ProtocolVersion {
		return fmt.Errorf("AnkiConnect speaks version %d, need %d or newer", version, api.ProtocolVersion)
	}
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	key := strings.TrimSpace(loginAPIKey)
	if key == "" {
		key = strings.TrimSpace(envGet(envAPIKey))
	}
	if key == "" {
		var err error
		key, err = promptSecret(ctx, "Enter AnkiConnect API key: ")
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
	}
	if key == "" {
		return api.ValidationError{Message: "API key is required"}
	}

	if verifyAuth {
		if err := verifyKey(ctx, cmd, key); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
	}

	secretStore, err := openSecretsStore()
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	tok := secrets.Token{
		Profile:   defaultProfile,
		APIKey:    key,
		CreatedAt: time.Now().UTC(),
	}
	if err := secretStore.SetToken(defaultProfile, tok); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	if structuredOutputRequested() {
		return printResult(ctx, map[string]interface{}{
			"status":   "authenticated",
			"verified": verifyAuth,
			"key":      maskToken(key),
		})
	}
	printInfo(ctx, "API key stored.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	secretStore, err := openSecretsStore()
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	if err := secretStore.DeleteToken(defaultProfile); err != nil && !secrets.IsNotFound(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}

	if structuredOutputRequested() {
		return printResult(commandContext(cmd), map[string]string{"status": "logged_out"})
	}
	printInfo(commandContext(cmd), "API key removed from the system keychain.")
	return nil
}

type authStatus struct {
	Authenticated   bool   `json:"authenticated" yaml:"authenticated"`
	Profile         string `json:"profile,omitempty" yaml:"profile,omitempty"`
	KeyPreview      string `json:"key_preview,omitempty" yaml:"key_preview,omitempty"`
	AuthenticatedAt string `json:"authenticated_at,omitempty" yaml:"authenticated_at,omitempty"`
	Backend         string `json:"keyring_backend" yaml:"keyring_backend"`
	Verified        *bool  `json:"verified,omitempty" yaml:"verified,omitempty"`
	VerifyError     string `json:"verify_error,omitempty" yaml:"verify_error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	secretStore, err := openSecretsStore()
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	status := authStatus{Backend: secrets.ResolveKeyringBackendInfo().Value}
	tok, err := secretStore.GetToken(defaultProfile)
	switch {
	case err == nil:
		status.Authenticated = true
		status.Profile = tok.Profile
		status.KeyPreview = maskToken(tok.APIKey)
		if !tok.CreatedAt.IsZero() {
			status.AuthenticatedAt = tok.CreatedAt.Format(time.RFC3339)
		}
	case !secrets.IsNotFound(err):
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	if verifyAuth && status.Authenticated {
		ok := true
		if err := verifyKey(ctx, cmd, tok.APIKey); err != nil {
			ok = false
			status.VerifyError = err.Error()
			var authErr api.AuthenticationError
			if errors.As(err, &authErr) {
				status.VerifyError = "invalid API key"
			}
		}
		status.Verified = &ok
	}

	if structuredOutputRequested() {
		return printResult(ctx, status)
	}

	if !status.Authenticated {
		printLine(ctx, "Status: No API key stored")
		printLine(ctx, "\nRun 'subtags auth login' if AnkiConnect requires a key.")
		return nil
	}
	printLine(ctx, "Status: API key stored")
	printLine(ctx, "Profile: %s", status.Profile)
	printLine(ctx, "Key: %s", status.KeyPreview)
	if status.AuthenticatedAt != "" {
		printLine(ctx, "Stored at: %s", status.AuthenticatedAt)
	}
	printLine(ctx, "Keyring backend: %s", status.Backend)
	if status.Verified != nil {
		if *status.Verified {
			printLine(ctx, "Verification: OK")
		} else {
			printLine(ctx, "Verification: FAILED - %s", status.VerifyError)
		}
	}
	return nil
}

// maskToken masks a token for display, showing only first and last 4 characters
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
