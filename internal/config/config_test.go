package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Configuration:
// - Load defaults when no treeline.yml exists
// - Override defaults from treeline.yml
// - Override file values from TREELINE_* environment variables
// - Reject invalid format, debounce, and throughput values
// - Write the starter file once and leave existing files alone
// - Keep the starter file consistent with the defaults
// - Append missing artifact entries to .gitignore idempotently

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.SyncWithGitignore)
	assert.Equal(t, "xml", cfg.Structure.Format)
	assert.True(t, cfg.Indexing.Enabled)
	assert.Equal(t, 3_000_000, cfg.Indexing.EstimateBytesPerSec)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	content := `syncWithGitignore: false
structure:
  format: tree
  exclude:
    - "docs/**"
indexing:
  enabled: false
  include:
    - "src/**"
watch:
  debounce: 2s
`
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.False(t, cfg.SyncWithGitignore)
	assert.Equal(t, "tree", cfg.Structure.Format)
	assert.Equal(t, []string{"docs/**"}, cfg.Structure.Exclude)
	assert.False(t, cfg.Indexing.Enabled)
	assert.Equal(t, []string{"src/**"}, cfg.Indexing.Include)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)

	// Keys the file does not set keep their defaults.
	assert.Equal(t, 3_000_000, cfg.Indexing.EstimateBytesPerSec)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	content := "structure:\n  format: tree\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644))

	t.Setenv("TREELINE_STRUCTURE_FORMAT", "xml")
	t.Setenv("TREELINE_WATCH_DEBOUNCE", "250ms")

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "xml", cfg.Structure.Format)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoad_InvalidFormat(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("structure:\n  format: yaml\n"), 0o644))

	_, err := Load(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, Validate(cfg))

	cfg = Default()
	cfg.Watch.Debounce = 0
	assert.ErrorIs(t, Validate(cfg), ErrInvalidDebounce)

	cfg = Default()
	cfg.Indexing.EstimateBytesPerSec = -1
	assert.ErrorIs(t, Validate(cfg), ErrInvalidEstimate)

	cfg = Default()
	cfg.Structure.Format = "json"
	assert.ErrorIs(t, Validate(cfg), ErrInvalidFormat)
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.False(t, Exists(root))

	require.NoError(t, WriteDefault(root))
	require.True(t, Exists(root))

	// The starter file must parse and agree with the programmatic defaults.
	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "xml", cfg.Structure.Format)
	assert.True(t, cfg.Indexing.Enabled)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestWriteDefault_DoesNotClobber(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	custom := "structure:\n  format: tree\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(custom), 0o644))

	require.NoError(t, WriteDefault(root))

	data, err := os.ReadFile(filepath.Join(root, FileName))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestSyncGitignore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("node_modules/\n"), 0o644))

	require.NoError(t, SyncGitignore(root))

	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "node_modules/")
	assert.Contains(t, string(data), IndexArtifact)
	assert.Contains(t, string(data), StructureArtifact)

	// A second sync must not duplicate the entries.
	require.NoError(t, SyncGitignore(root))
	after, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, string(data), string(after))
	assert.Equal(t, 1, strings.Count(string(after), IndexArtifact))
}

func TestSyncGitignore_CreatesFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, SyncGitignore(root))

	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), IndexArtifact)
}

func TestArtifactPaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("/p", ".cursor", "rules", "codebase-index.mdc"), IndexArtifactPath("/p"))
	assert.Equal(t, filepath.Join("/p", ".cursor", "rules", "file-structure.mdc"), StructureArtifactPath("/p"))
}
