package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMkdirFor(t *testing.T) {
	root := t.TempDir()

	d, err := MkdirFor(filepath.Join(root, "a", "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b"), d)
	assert.True(t, IsDir(d))
	assert.False(t, IsFile(d))
}

func TestWriteFile(t *testing.T) {
	root := t.TempDir()
	dst := filepath.Join(root, "x", "y.txt")

	require.NoError(t, WriteFile(dst, []byte("hello"), 0644))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.True(t, IsFile(dst))

	require.NoError(t, WriteFile(dst, []byte("bye"), 0644))
	data, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "bye", string(data))

	// no temp leftovers
	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCopyFile(t *testing.T) {
	root := t.TempDir()
	from := filepath.Join(root, "from")
	to := filepath.Join(root, "to")
	require.NoError(t, os.WriteFile(from, []byte("content"), 0600))

	require.NoError(t, moveFile(from, to))

	data, err := os.ReadFile(to)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
	assert.NoFileExists(t, from)
}
