// Package secrets stores the AnkiConnect API key in the system keyring.
package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/99designs/keyring"

	"github.com/salmonumbrella/subtags/internal/config"
)

const (
	// EnvKeyringBackend selects the keyring backend (auto, keychain, file).
	EnvKeyringBackend = "SUBTAGS_KEYRING_BACKEND"
	// EnvKeyringPassword unlocks the encrypted file backend without a prompt.
	EnvKeyringPassword = "SUBTAGS_KEYRING_PASSWORD"

	keyPrefix      = "token:"
	keyringTimeout = 5 * time.Second
)

// Store persists tokens keyed by profile.
type Store interface {
	GetToken(profile string) (Token, error)
	SetToken(profile string, tok Token) error
	DeleteToken(profile string) error
	Keys() ([]string, error)
}

// Token is one stored credential.
type Token struct {
	Profile   string    `json:"profile"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}

// KeyringStore is a Store backed by 99designs/keyring.
type KeyringStore struct {
	ring keyring.Keyring
}

// KeyringBackendInfo records which backend was requested and where the
// choice came from.
type KeyringBackendInfo struct {
	Value  string
	Source string
}

var (
	errKeyringTimeout = errors.New("keyring open timed out")
	errMissingProfile = errors.New("missing profile")

	keyringOpenFunc = keyring.Open
)

// ResolveKeyringBackendInfo reads the backend from the environment, falling
// back to the config file and then "auto".
func ResolveKeyringBackendInfo() KeyringBackendInfo {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(EnvKeyringBackend))); v != "" {
		return KeyringBackendInfo{Value: v, Source: "env"}
	}
	if cfg, err := config.ReadConfig(); err == nil {
		if v := strings.ToLower(strings.TrimSpace(cfg.KeyringBackend)); v != "" {
			return KeyringBackendInfo{Value: v, Source: "config"}
		}
	}
	return KeyringBackendInfo{Value: "auto", Source: "default"}
}

func allowedBackends(info KeyringBackendInfo) ([]keyring.BackendType, error) {
	switch info.Value {
	case "", "auto":
		return nil, nil
	case "keychain":
		return []keyring.BackendType{keyring.KeychainBackend}, nil
	case "file":
		return []keyring.BackendType{keyring.FileBackend}, nil
	default:
		return nil, fmt.Errorf("invalid keyring backend %q (expected auto, keychain, or file)", info.Value)
	}
}

// shouldForceFileBackend reports whether auto mode on Linux must use the file
// backend because no D-Bus session (and thus no Secret Service) is available.
func shouldForceFileBackend(goos string, info KeyringBackendInfo, dbusAddr string) bool {
	return goos == "linux" && info.Value == "auto" && dbusAddr == ""
}

// shouldUseKeyringTimeout reports whether opening may hang on a Secret
// Service that never answers.
func shouldUseKeyringTimeout(goos string, info KeyringBackendInfo, dbusAddr string) bool {
	return goos == "linux" && info.Value == "auto" && dbusAddr != ""
}

func filePassword(_ string) (string, error) {
	if pw, ok := os.LookupEnv(EnvKeyringPassword); ok {
		return pw, nil
	}
	return "", fmt.Errorf("set %s to unlock the file keyring", EnvKeyringPassword)
}

// OpenDefault opens the keyring selected by the environment and config.
func OpenDefault() (Store, error) {
	if err := EnsureKeychainAccess(); err != nil {
		return nil, err
	}

	info := ResolveKeyringBackendInfo()
	backends, err := allowedBackends(info)
	if err != nil {
		return nil, err
	}

	keyringDir, err := config.EnsureKeyringDir()
	if err != nil {
		return nil, err
	}

	dbusAddr := os.Getenv("DBUS_SESSION_BUS_ADDRESS")
	if shouldForceFileBackend(runtime.GOOS, info, dbusAddr) {
		backends = []keyring.BackendType{keyring.FileBackend}
	}

	cfg := keyring.Config{
		ServiceName:              config.AppName,
		AllowedBackends:          backends,
		KeychainTrustApplication: true,
		FileDir:                  keyringDir,
		FilePasswordFunc:         filePassword,
	}

	var ring keyring.Keyring
	if shouldUseKeyringTimeout(runtime.GOOS, info, dbusAddr) {
		ring, err = openKeyringWithTimeout(cfg, keyringTimeout)
	} else {
		ring, err = keyringOpenFunc(cfg)
	}
	if err != nil {
		return nil, wrapKeychainError(err)
	}
	return &KeyringStore{ring: ring}, nil
}

type openResult struct {
	ring keyring.Keyring
	err  error
}

func openKeyringWithTimeout(cfg keyring.Config, timeout time.Duration) (keyring.Keyring, error) {
	ch := make(chan openResult, 1)
	go func() {
		ring, err := keyringOpenFunc(cfg)
		ch <- openResult{ring: ring, err: err}
	}()

	select {
	case res := <-ch:
		return res.ring, res.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w after %s; the Secret Service may be unresponsive. Set %s=file and %s to use the encrypted file backend",
			errKeyringTimeout, timeout, EnvKeyringBackend, EnvKeyringPassword)
	}
}

// wrapKeychainError adds unlock instructions to locked-keychain errors and
// returns other errors unchanged.
func wrapKeychainError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "errSecInteractionNotAllowed") || IsKeychainLockedError(err.Error()) {
		return fmt.Errorf("%w\n\nThe macOS keychain is locked. Unlock it with:\n  security unlock-keychain ~/Library/Keychains/login.keychain-db", err)
	}
	return err
}

func normalizeProfile(profile string) (string, error) {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return "", errMissingProfile
	}
	return profile, nil
}

// GetToken loads the token stored for profile.
func (s *KeyringStore) GetToken(profile string) (Token, error) {
	profile, err := normalizeProfile(profile)
	if err != nil {
		return Token{}, err
	}
	item, err := s.ring.Get(keyPrefix + profile)
	if err != nil {
		return Token{}, wrapKeychainError(err)
	}
	var tok Token
	if err := json.Unmarshal(item.Data, &tok); err != nil {
		return Token{}, fmt.Errorf("decoding stored token: %w", err)
	}
	return tok, nil
}

// SetToken stores tok under profile, stamping CreatedAt when unset.
func (s *KeyringStore) SetToken(profile string, tok Token) error {
	profile, err := normalizeProfile(profile)
	if err != nil {
		return err
	}
	if strings.TrimSpace(tok.APIKey) == "" {
		return errors.New("missing api key")
	}
	tok.Profile = profile
	if tok.CreatedAt.IsZero() {
		tok.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	return wrapKeychainError(s.ring.Set(keyring.Item{
		Key:   keyPrefix + profile,
		Data:  data,
		Label: config.AppName + " " + profile,
	}))
}

// DeleteToken removes the token for profile. Removing a missing token is not
// an error.
func (s *KeyringStore) DeleteToken(profile string) error {
	profile, err := normalizeProfile(profile)
	if err != nil {
		return err
	}
	if err := s.ring.Remove(keyPrefix + profile); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return wrapKeychainError(err)
	}
	return nil
}

// Keys lists stored profiles.
func (s *KeyringStore) Keys() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, wrapKeychainError(err)
	}
	var profiles []string
	for _, k := range keys {
		if p, ok := strings.CutPrefix(k, keyPrefix); ok {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

// IsNotFound reports whether err means no token is stored.
func IsNotFound(err error) bool {
	return errors.Is(err, keyring.ErrKeyNotFound)
}

var _ Store = (*KeyringStore)(nil)
