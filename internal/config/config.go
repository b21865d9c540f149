// Package config loads and validates the treeline.yml project
// configuration, with environment variable overrides.
package config

import (
	"path/filepath"
	"time"
)

// FileName is the configuration file expected at the project root.
const FileName = "treeline.yml"

// Artifact locations, relative to the project root.
const (
	IndexArtifact     = ".cursor/rules/codebase-index.mdc"
	StructureArtifact = ".cursor/rules/file-structure.mdc"
)

// Config is the complete treeline configuration.
type Config struct {
	SyncWithGitignore bool            `yaml:"syncWithGitignore" mapstructure:"syncWithGitignore"`
	Structure         StructureConfig `yaml:"structure" mapstructure:"structure"`
	Indexing          IndexingConfig  `yaml:"indexing" mapstructure:"indexing"`
	Watch             WatchConfig     `yaml:"watch" mapstructure:"watch"`
}

// StructureConfig controls the directory-structure artifact.
type StructureConfig struct {
	Format  string   `yaml:"format" mapstructure:"format"`   // "xml" or "tree"
	Exclude []string `yaml:"exclude" mapstructure:"exclude"` // extra ignores
}

// IndexingConfig controls the codebase index artifact.
type IndexingConfig struct {
	Enabled bool     `yaml:"enabled" mapstructure:"enabled"`
	Include []string `yaml:"include" mapstructure:"include"` // empty = everything supported
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`

	// EstimateBytesPerSec drives the parse-time estimate in `treeline stats`.
	EstimateBytesPerSec int `yaml:"estimateBytesPerSec" mapstructure:"estimateBytesPerSec"`
}

// WatchConfig controls the change-driven update loop.
type WatchConfig struct {
	// Debounce is the quiet period that coalesces bursts of change
	// notifications into one recomputation.
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// Default returns the configuration used when treeline.yml is absent or
// silent on a key.
func Default() *Config {
	return &Config{
		SyncWithGitignore: true,
		Structure: StructureConfig{
			Format:  "xml",
			Exclude: []string{},
		},
		Indexing: IndexingConfig{
			Enabled:             true,
			Include:             []string{},
			Exclude:             []string{},
			EstimateBytesPerSec: 3_000_000,
		},
		Watch: WatchConfig{
			Debounce: time.Second,
		},
	}
}

// IndexArtifactPath returns the absolute path of the codebase index
// artifact for a project root.
func IndexArtifactPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(IndexArtifact))
}

// StructureArtifactPath returns the absolute path of the structure
// artifact for a project root.
func StructureArtifactPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(StructureArtifact))
}
