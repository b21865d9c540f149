package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultFileTemplate is the commented starter configuration written by
// `treeline init`. Values mirror Default().
const defaultFileTemplate = `# Treeline Configuration
#
# Treeline generates a real-time directory structure and codebase index
# so your AI tooling always knows the project's layout and API surface.

syncWithGitignore: true

structure:
  # xml: element tree (better for LLMs); tree: box-drawing characters
  format: xml
  exclude:
    # - "docs/legacy"

# Codebase indexing - extracts exported signatures, types, and constants
indexing:
  enabled: true
  include: []
  exclude:
    # - "*.example.ts"

watch:
  debounce: 1s
`

// WriteDefault writes the starter treeline.yml at the project root.
// An existing file is left untouched.
func WriteDefault(rootDir string) error {
	path := filepath.Join(rootDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(defaultFileTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return nil
}

// Exists reports whether the project has a treeline.yml.
func Exists(rootDir string) bool {
	_, err := os.Stat(filepath.Join(rootDir, FileName))
	return err == nil
}

// SyncGitignore appends the generated artifact paths to the project's
// .gitignore when missing, creating the file if needed.
func SyncGitignore(rootDir string) error {
	entries := []string{StructureArtifact, IndexArtifact}
	path := filepath.Join(rootDir, ".gitignore")

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read .gitignore: %w", err)
	}

	var missing []string
	for _, entry := range entries {
		if !strings.Contains(string(existing), entry) {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var b strings.Builder
	b.Write(existing)
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n# Treeline\n")
	for _, entry := range missing {
		b.WriteString(entry)
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to update .gitignore: %w", err)
	}
	return nil
}
