package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")

	m, err := NewManager(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, m.OutputDir())
	assert.Equal(t, 0, m.Count())
}

func TestNewManagerIndexesExistingImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc123def0.jpg"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	assert.True(t, m.IsStored("abc123def0"))
	assert.False(t, m.IsStored("notes"))
	assert.Equal(t, 1, m.Count())
}

func TestSaveWritesContentAddressedFile(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	path, err := m.Save(strings.NewReader("jpeg bytes"), "0123456789")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "0123456789.jpg"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
	assert.True(t, m.IsStored("0123456789"))
	assert.Equal(t, 1, m.Count())
}

func TestSaveSameHashTwiceIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	first, err := m.Save(strings.NewReader("same content"), "deadbeef00")
	require.NoError(t, err)

	second, err := m.Save(strings.NewReader("same content"), "deadbeef00")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, m.Count())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	_, err = m.Save(strings.NewReader("content"), "aaaabbbbcc")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}
