package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()

	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	t.Run("PutOpen", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "model.sbrm", []byte("payload")))

		blob, err := store.Open(ctx, "model.sbrm")
		require.NoError(t, err)
		defer func() { _ = blob.Close() }()

		assert.Equal(t, int64(7), blob.Size())

		data, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)
	})

	t.Run("OpenMissing", func(t *testing.T) {
		_, err := store.Open(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "model-a", []byte("a")))
		require.NoError(t, store.Put(ctx, "model-b", []byte("b")))
		require.NoError(t, store.Put(ctx, "other", []byte("o")))

		names, err := store.List(ctx, "model")
		require.NoError(t, err)
		assert.Equal(t, []string{"model-a", "model-b", "model.sbrm"}, names)
	})

	t.Run("ListSkipsTempFiles", func(t *testing.T) {
		tmp := filepath.Join(store.root, ".tmp-leftover")
		require.NoError(t, os.WriteFile(tmp, []byte("partial"), 0o644))

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.NotContains(t, names, ".tmp-leftover")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "model-a"))
		_, err := store.Open(ctx, "model-a")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, store.Delete(ctx, "model-a"))
	})

	t.Run("CreatesRoot", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "nested", "dir")
		_, err := NewLocalStore(root)
		require.NoError(t, err)

		info, err := os.Stat(root)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}
