// Package discovery decides which files in a project are eligible for
// indexing and which directories appear in the structure artifact. Patterns
// are compiled gobwas globs plus bare-name component matching, so both
// "src/**/*.ts" and "node_modules" work as users expect.
package discovery

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern keeps the source pattern next to its compiled glob; the
// raw text is needed for bare-name component matching.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Filter applies include, exclude, and ignore rules relative to a project
// root. The zero value is not usable; construct with New.
type Filter struct {
	root            string
	extensions      map[string]bool
	include         []compiledPattern
	exclude         []compiledPattern
	ignore          []compiledPattern
	artifactPaths   map[string]bool
	indexingIgnores []compiledPattern
}

// Options configures a Filter beyond the built-in defaults.
type Options struct {
	// Extensions restricts discovery to files with these extensions
	// (with leading dot). Required.
	Extensions []string

	// Include, when non-empty, limits indexing to matching files.
	Include []string

	// Exclude adds indexing exclusions on top of the defaults.
	Exclude []string

	// StructureExclude adds structure-level ignores on top of the
	// defaults.
	StructureExclude []string

	// GitignorePatterns are patterns loaded from .gitignore, honored when
	// gitignore sync is enabled.
	GitignorePatterns []string

	// ArtifactPaths are project-relative output paths that must never be
	// indexed or listed, or the tool would observe its own writes.
	ArtifactPaths []string
}

// New builds a Filter for the given project root.
func New(root string, opts Options) (*Filter, error) {
	f := &Filter{
		root:          root,
		extensions:    make(map[string]bool, len(opts.Extensions)),
		artifactPaths: make(map[string]bool, len(opts.ArtifactPaths)),
	}
	for _, ext := range opts.Extensions {
		f.extensions[ext] = true
	}
	for _, p := range opts.ArtifactPaths {
		f.artifactPaths[filepath.ToSlash(p)] = true
	}

	var err error
	if f.include, err = compileAll(opts.Include); err != nil {
		return nil, err
	}
	if f.exclude, err = compileAll(opts.Exclude); err != nil {
		return nil, err
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(opts.StructureExclude)+len(opts.GitignorePatterns))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, opts.StructureExclude...)
	ignores = append(ignores, opts.GitignorePatterns...)
	if f.ignore, err = compileAll(ignores); err != nil {
		return nil, err
	}

	if f.indexingIgnores, err = compileAll(defaultIndexingIgnores); err != nil {
		return nil, err
	}

	return f, nil
}

func compileAll(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// Discover walks the project root and returns the slash-normalized
// relative paths of all indexable files, in walk order.
func (f *Filter) Discover() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}

		rel, relErr := filepath.Rel(f.root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if f.Ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if f.ShouldIndex(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", f.root, err)
	}

	return files, nil
}

// Ignored reports whether a relative path is excluded at the structure
// level (default ignores, configured excludes, gitignore patterns).
func (f *Filter) Ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	if f.artifactPaths[rel] {
		return true
	}
	return matchesAny(rel, f.ignore)
}

// ShouldIndex reports whether a relative file path is eligible for
// indexing: supported extension, not ignored, not excluded, and matching
// the include patterns when any are configured.
func (f *Filter) ShouldIndex(rel string) bool {
	rel = filepath.ToSlash(rel)

	if !f.extensions[strings.ToLower(filepath.Ext(rel))] {
		return false
	}
	if f.Ignored(rel) {
		return false
	}
	if matchesAny(rel, f.indexingIgnores) {
		return false
	}
	if matchesAny(rel, f.exclude) {
		return false
	}
	if len(f.include) > 0 {
		return matchesAny(rel, f.include)
	}
	return true
}

// Rel converts an absolute path under the root to the slash-normalized
// relative form used everywhere else. Paths outside the root come back
// slash-normalized but otherwise untouched.
func (f *Filter) Rel(path string) string {
	rel, err := filepath.Rel(f.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// matchesAny checks a path against the compiled patterns: full-path glob
// match, basename glob match, or bare-name match against any path
// component for patterns with no slash or wildcard.
func matchesAny(rel string, patterns []compiledPattern) bool {
	base := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		base = rel[i+1:]
	}

	for _, cp := range patterns {
		if cp.glob.Match(rel) || cp.glob.Match(base) {
			return true
		}
		if !strings.ContainsAny(cp.pattern, "/*") {
			for _, part := range strings.Split(rel, "/") {
				if part == cp.pattern {
					return true
				}
			}
		}
	}
	return false
}

// LoadGitignore reads the project's .gitignore into ignore patterns,
// trimming trailing slash-star decorations the way the structure ignores
// expect. A missing file yields no patterns.
func LoadGitignore(root string) []string {
	file, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if cleaned := strings.Trim(line, "/*"); cleaned != "" {
			patterns = append(patterns, cleaned)
		}
	}
	return patterns
}
