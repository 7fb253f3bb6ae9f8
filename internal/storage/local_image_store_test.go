package storage_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/almeidaGustavo05/product-catalog-API/internal/storage"
)

func newStore(t *testing.T) (*storage.LocalImageStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalImageStore(dir, "/images")
	assert.NoError(t, err)
	return store, dir
}

func TestLocalImageStore_UploadGeneratesUniqueNames(t *testing.T) {
	store, dir := newStore(t)

	url, err := store.Upload(strings.NewReader("png bytes"), "photo.png", "image/png")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.NotContains(t, url, "photo", "caller filename must not decide the stored path")

	other, err := store.Upload(strings.NewReader("png bytes"), "photo.png", "image/png")
	assert.NoError(t, err)
	assert.NotEqual(t, url, other)

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLocalImageStore_Get(t *testing.T) {
	store, _ := newStore(t)

	url, err := store.Upload(strings.NewReader("image content"), "photo.jpg", "image/jpeg")
	assert.NoError(t, err)

	stream, err := store.Get(url)
	assert.NoError(t, err)
	defer stream.Close()

	content, err := io.ReadAll(stream)
	assert.NoError(t, err)
	assert.Equal(t, "image content", string(content))

	_, err = store.Get("/images/no-such-file.jpg")
	assert.ErrorIs(t, err, storage.ErrImageNotFound)
}

func TestLocalImageStore_Delete(t *testing.T) {
	store, dir := newStore(t)

	url, err := store.Upload(strings.NewReader("bytes"), "photo.gif", "image/gif")
	assert.NoError(t, err)

	deleted, err := store.Delete(url)
	assert.NoError(t, err)
	assert.True(t, deleted)

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Empty(t, entries)

	// Deleting a missing blob is not an error
	deleted, err = store.Delete(url)
	assert.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.Delete("")
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestLocalImageStore_DeleteIgnoresPathTraversal(t *testing.T) {
	store, dir := newStore(t)

	outside := filepath.Join(filepath.Dir(dir), "victim.txt")
	assert.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o644))

	// Only the base name of the URL is used, so the file outside the
	// storage directory is untouched.
	deleted, err := store.Delete("/images/../victim.txt")
	assert.NoError(t, err)
	assert.False(t, deleted)

	_, err = os.Stat(outside)
	assert.NoError(t, err)
}
