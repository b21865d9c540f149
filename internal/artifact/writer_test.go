package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the Artifact Writer:
// - Write content, creating missing parent directories
// - Replace an existing artifact
// - Leave no temp files behind

func TestWrite_CreatesParentDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".cursor", "rules", "index.mdc")
	require.NoError(t, Write(path, []byte("hello\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestWrite_ReplacesExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "index.mdc")

	require.NoError(t, Write(path, []byte("first")))
	require.NoError(t, Write(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// Only the artifact itself remains.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "index.mdc", entries[0].Name())
}
