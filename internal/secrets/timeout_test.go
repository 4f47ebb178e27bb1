package secrets

import (
	"errors"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOpen swaps keyringOpenFunc for one that hands out ring after delay.
// The returned channel closes once the stub has returned.
func stubOpen(t *testing.T, ring keyring.Keyring, delay time.Duration) <-chan struct{} {
	t.Helper()
	done := make(chan struct{})
	original := keyringOpenFunc
	keyringOpenFunc = func(cfg keyring.Config) (keyring.Keyring, error) {
		defer close(done)
		time.Sleep(delay)
		return ring, nil
	}
	t.Cleanup(func() {
		<-done
		keyringOpenFunc = original
	})
	return done
}

func TestOpenKeyringWithTimeout_StoresAnkiConnectKey(t *testing.T) {
	stubOpen(t, keyring.NewArrayKeyring(nil), 0)

	ring, err := openKeyringWithTimeout(keyring.Config{ServiceName: "subtags"}, 100*time.Millisecond)
	require.NoError(t, err)

	store := &KeyringStore{ring: ring}
	require.NoError(t, store.SetToken("default", Token{APIKey: "anki-key-1234"}))

	tok, err := store.GetToken("default")
	require.NoError(t, err)
	assert.Equal(t, "anki-key-1234", tok.APIKey)
	assert.Equal(t, "default", tok.Profile)
}

func TestOpenKeyringWithTimeout_UnresponsiveSecretService(t *testing.T) {
	done := stubOpen(t, keyring.NewArrayKeyring(nil), 300*time.Millisecond)

	_, err := openKeyringWithTimeout(keyring.Config{ServiceName: "subtags"}, 20*time.Millisecond)
	<-done

	require.Error(t, err)
	assert.True(t, errors.Is(err, errKeyringTimeout))
	assert.Contains(t, err.Error(), EnvKeyringBackend+"=file")
	assert.Contains(t, err.Error(), EnvKeyringPassword)
}

func TestKeyringBackendSelection(t *testing.T) {
	const bus = "unix:path=/run/user/1000/bus"

	tests := []struct {
		name        string
		goos        string
		backend     string
		dbusAddr    string
		forceFile   bool
		withTimeout bool
	}{
		{name: "headless linux falls back to file", goos: "linux", backend: "auto", forceFile: true},
		{name: "desktop linux uses secret service", goos: "linux", backend: "auto", dbusAddr: bus, withTimeout: true},
		{name: "explicit keychain on linux", goos: "linux", backend: "keychain"},
		{name: "explicit file backend", goos: "linux", backend: "file", dbusAddr: bus},
		{name: "macos auto", goos: "darwin", backend: "auto", dbusAddr: bus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := KeyringBackendInfo{Value: tt.backend, Source: "env"}
			assert.Equal(t, tt.forceFile, shouldForceFileBackend(tt.goos, info, tt.dbusAddr), "force file backend")
			assert.Equal(t, tt.withTimeout, shouldUseKeyringTimeout(tt.goos, info, tt.dbusAddr), "open with timeout")
		})
	}
}
