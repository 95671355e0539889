package fsutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindFilesByName(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "model.config"))
	writeFile(t, filepath.Join(root, "a", "b", "c", "model.config"))
	writeFile(t, filepath.Join(root, "a", "model.sdf"))
	writeFile(t, filepath.Join(root, "model.config.bak"))

	// --- Act ---
	files, err := FindFilesByName(context.Background(), root, "model.config")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "b", "c", "model.config"),
		filepath.Join(root, "a", "model.config"),
	}, files)
}

func TestFindFilesByName_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := FindFilesByName(context.Background(), filepath.Join(t.TempDir(), "nope"), "model.config")
	require.Error(t, err)
}

func TestFindFilesByName_StopsWhenContextDone(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "model.config"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// --- Act ---
	files, err := FindFilesByName(ctx, root, "model.config")

	// --- Assert ---
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, files)
}

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.hcl"))
	writeFile(t, filepath.Join(root, "sub", "a.hcl"))
	writeFile(t, filepath.Join(root, "c.txt"))

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "b.hcl"), filepath.Join(root, "sub", "a.hcl")}, files)
}

func TestFirstFileWithExtension(t *testing.T) {
	t.Parallel()

	t.Run("first match in name order", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "b.png"))
		writeFile(t, filepath.Join(dir, "a.jpg"))
		writeFile(t, filepath.Join(dir, "0.txt"))

		got, ok := FirstFileWithExtension(dir, "png", "jpg", "jpeg", "svg")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(dir, "a.jpg"), got)
	})

	t.Run("extension match is case sensitive", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.PNG"))

		_, ok := FirstFileWithExtension(dir, "png")
		assert.False(t, ok)
	})

	t.Run("directories are not files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "a.png"), 0o755))
		writeFile(t, filepath.Join(dir, "b.png"))

		got, ok := FirstFileWithExtension(dir, "png")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(dir, "b.png"), got)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, ok := FirstFileWithExtension(filepath.Join(t.TempDir(), "thumbnails"), "png")
		assert.False(t, ok)
	})
}

func TestIsDirIsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	writeFile(t, file)

	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
	assert.True(t, IsFile(file))
	assert.False(t, IsFile(dir))
	assert.True(t, Exists(file))
	assert.False(t, Exists(filepath.Join(dir, "missing")))
}
