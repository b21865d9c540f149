package language

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Grammar identifies a tree-sitter grammar supported by the indexer.
type Grammar string

const (
	GrammarTypeScript Grammar = "typescript"
	GrammarTSX        Grammar = "tsx"
	GrammarJavaScript Grammar = "javascript"
	GrammarJSX        Grammar = "jsx"
)

// extGrammars maps lowercased file extensions to grammars. Extensions
// without an entry are not indexed.
var extGrammars = map[string]Grammar{
	".ts":  GrammarTypeScript,
	".tsx": GrammarTSX,
	".js":  GrammarJavaScript,
	".jsx": GrammarJSX,
	".mjs": GrammarJavaScript,
	".cjs": GrammarJavaScript,
}

// Registry holds the tree-sitter language values for all supported grammars.
// It is constructed once at startup and passed by reference; there is no
// package-level mutable state.
type Registry struct {
	languages map[Grammar]*sitter.Language
}

// NewRegistry creates a registry with all supported grammars loaded.
// JavaScript dialects reuse the TypeScript grammars, which parse a strict
// superset of the language; JSX needs the TSX grammar for markup.
func NewRegistry() *Registry {
	ts := sitter.NewLanguage(typescript.LanguageTypescript())
	tsx := sitter.NewLanguage(typescript.LanguageTSX())

	return &Registry{
		languages: map[Grammar]*sitter.Language{
			GrammarTypeScript: ts,
			GrammarTSX:        tsx,
			GrammarJavaScript: ts,
			GrammarJSX:        tsx,
		},
	}
}

// ForPath maps a file path to the grammar for its extension. The lookup is
// case-insensitive and has no side effects; an unsupported extension
// returns false rather than an error.
func (r *Registry) ForPath(path string) (Grammar, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	grammar, ok := extGrammars[ext]
	return grammar, ok
}

// Extensions returns the sorted list of file extensions the registry can
// dispatch, with leading dots.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(extGrammars))
	for ext := range extGrammars {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Parse parses source with the given grammar and returns the syntax tree.
// The caller owns the tree and must Close it. Byte offsets in the tree are
// only valid against the exact source slice passed here.
func (r *Registry) Parse(grammar Grammar, source []byte) (*sitter.Tree, error) {
	lang, ok := r.languages[grammar]
	if !ok {
		return nil, fmt.Errorf("unknown grammar %q", grammar)
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to configure %s parser: %w", grammar, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse source as %s", grammar)
	}

	return tree, nil
}
