package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salmonumbrella/subtags/internal/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "settings.json")

		err := fsutil.WriteAtomic(context.Background(), path, []byte(`{}`), 0o600, 0o700)
		require.NoError(t, err)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(got))
	})

	t.Run("overwrites whole file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path, []byte("a much longer original body"), 0o644))

		err := fsutil.WriteAtomic(context.Background(), path, []byte("short"), 0o644, 0o755)
		require.NoError(t, err)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "short", string(got))
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out.yaml")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0o644, 0o755))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		path := filepath.Join(t.TempDir(), "out.yaml")

		err := fsutil.WriteAtomic(ctx, path, []byte("x"), 0o644, 0o755)
		require.ErrorIs(t, err, context.Canceled)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})
}
