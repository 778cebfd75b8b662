package filestore

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
	root := t.TempDir()
	store, err := NewLocalStore(root, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	url, err := store.Put(ctx, "text_to_speech/a.mp3", "audio/mpeg", []byte("audio"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/text_to_speech/a.mp3", url)

	onDisk, err := os.ReadFile(filepath.Join(root, "text_to_speech", "a.mp3"))
	require.NoError(t, err)
	assert.Equal(t, []byte("audio"), onDisk)

	data, err := store.Get(ctx, "text_to_speech/a.mp3")
	require.NoError(t, err)
	assert.Equal(t, []byte("audio"), data)

	require.NoError(t, store.Delete(ctx, "text_to_speech/a.mp3"))
	_, err = store.Get(ctx, "text_to_speech/a.mp3")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing file is not an error.
	assert.NoError(t, store.Delete(ctx, "text_to_speech/a.mp3"))
}

func TestLocalStore_StaysUnderRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStore(root, "")
	require.NoError(t, err)

	url, err := store.Put(ctx, "../../escape.txt", "text/plain", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/escape.txt", url)
	assert.FileExists(t, filepath.Join(root, "escape.txt"))

	_, err = store.Put(ctx, "/", "text/plain", []byte("x"))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	store, err := New(context.Background(), Config{Backend: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), Config{Backend: "s3"})
	assert.EqualError(t, err, "unsupported storage backend: s3")
}
