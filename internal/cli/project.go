package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/treeline-dev/treeline/internal/config"
	"github.com/treeline-dev/treeline/internal/discovery"
	"github.com/treeline-dev/treeline/internal/language"
)

// project bundles everything a command needs to operate on one root.
type project struct {
	root     string
	name     string
	cfg      *config.Config
	registry *language.Registry
	filter   *discovery.Filter
}

// resolveRoot returns the absolute project root from the --root flag or
// the working directory.
func resolveRoot() (string, error) {
	dir := rootDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	return abs, nil
}

// loadProject loads config and builds the registry and discovery filter.
// When requireConfig is set, a missing treeline.yml is an error pointing
// the user at `treeline init`.
func loadProject(requireConfig bool) (*project, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}

	if requireConfig && !config.Exists(root) {
		return nil, fmt.Errorf("no %s found in %s - run 'treeline init' first", config.FileName, root)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	registry := language.NewRegistry()

	var gitignore []string
	if cfg.SyncWithGitignore {
		gitignore = discovery.LoadGitignore(root)
	}

	filter, err := discovery.New(root, discovery.Options{
		Extensions:        registry.Extensions(),
		Include:           cfg.Indexing.Include,
		Exclude:           cfg.Indexing.Exclude,
		StructureExclude:  cfg.Structure.Exclude,
		GitignorePatterns: gitignore,
		ArtifactPaths:     []string{config.IndexArtifact, config.StructureArtifact},
	})
	if err != nil {
		return nil, err
	}

	return &project{
		root:     root,
		name:     filepath.Base(root),
		cfg:      cfg,
		registry: registry,
		filter:   filter,
	}, nil
}
