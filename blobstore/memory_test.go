package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("PutOpen", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a", []byte("hello")))

		blob, err := store.Open(ctx, "a")
		require.NoError(t, err)
		defer func() { _ = blob.Close() }()

		assert.Equal(t, int64(5), blob.Size())

		data, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("OpenMissing", func(t *testing.T) {
		_, err := store.Open(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a", []byte("v2")))

		blob, err := store.Open(ctx, "a")
		require.NoError(t, err)
		defer func() { _ = blob.Close() }()

		data, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), data)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "models/one", []byte("1")))
		require.NoError(t, store.Put(ctx, "models/two", []byte("2")))

		names, err := store.List(ctx, "models/")
		require.NoError(t, err)
		assert.Equal(t, []string{"models/one", "models/two"}, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "a"))
		_, err := store.Open(ctx, "a")
		assert.ErrorIs(t, err, ErrNotFound)

		// Deleting a missing blob is not an error.
		require.NoError(t, store.Delete(ctx, "a"))
	})

	t.Run("OpenReturnsCopy", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "c", []byte("abc")))

		blob, err := store.Open(ctx, "c")
		require.NoError(t, err)
		defer func() { _ = blob.Close() }()

		data, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		data[0] = 'X'

		again, err := store.Open(ctx, "c")
		require.NoError(t, err)
		defer func() { _ = again.Close() }()

		fresh, err := ReadAll(ctx, again)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), fresh)
	})
}

func TestMemoryBlob_ReadAt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "a", []byte("0123456789")))

	blob, err := store.Open(ctx, "a")
	require.NoError(t, err)
	defer func() { _ = blob.Close() }()

	p := make([]byte, 4)
	n, err := blob.ReadAt(ctx, p, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("3456"), p)

	// Reads past the end return what remains plus EOF.
	n, err = blob.ReadAt(ctx, p, 8)
	assert.Equal(t, 2, n)
	assert.Error(t, err)
}
