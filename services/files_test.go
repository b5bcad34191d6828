package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive-dev/taskhive-backend/errs"
)

func TestFileStoreSaveAndOpen(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save([]byte("resume body"), "pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".pdf"), "got %q", name)

	data, err := store.Open(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("resume body"), data)

	t.Run("extension is normalized", func(t *testing.T) {
		name, err := store.Save([]byte("x"), ".PNG")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(name, ".png"), "got %q", name)
	})

	t.Run("hostile extension is dropped", func(t *testing.T) {
		name, err := store.Save([]byte("x"), "png/../../etc")
		require.NoError(t, err)
		assert.False(t, strings.ContainsAny(name, "./\\"), "got %q", name)
	})
}

func TestFileStoreOpenMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("nope.pdf")
	assert.True(t, errs.IsNotFound(err))
}

func TestFileStoreRemove(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save([]byte("temp"), "txt")
	require.NoError(t, err)

	require.NoError(t, store.Remove(name))
	_, err = store.Open(name)
	assert.True(t, errs.IsNotFound(err))

	// removing twice is fine
	assert.NoError(t, store.Remove(name))
}

func TestFileStoreRejectsPathNames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../secrets", "a/b.txt", `a\b.txt`} {
		_, err := store.Open(name)
		assert.True(t, errs.IsValidation(err), "open %q", name)
		assert.True(t, errs.IsValidation(store.Remove(name)), "remove %q", name)
	}
}
