// Package structure generates the directory-structure artifact: a scan of
// the project tree honoring the discovery ignore rules, rendered as either
// an XML element tree or a box-drawing tree.
package structure

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/treeline-dev/treeline/internal/artifact"
	"github.com/treeline-dev/treeline/internal/discovery"
)

// node is one entry in the scanned tree.
type node struct {
	name     string
	dir      bool
	children []*node
}

// Generator scans a project root and writes the structure artifact.
type Generator struct {
	root         string
	projectName  string
	format       string
	filter       *discovery.Filter
	artifactPath string
}

// NewGenerator creates a structure generator. format is "xml" or "tree".
func NewGenerator(root, projectName, format string, filter *discovery.Filter, artifactPath string) *Generator {
	return &Generator{
		root:         root,
		projectName:  projectName,
		format:       format,
		filter:       filter,
		artifactPath: artifactPath,
	}
}

// Generate scans, renders, and writes the artifact atomically.
func (g *Generator) Generate() error {
	items, err := g.scan(g.root, "")
	if err != nil {
		return err
	}

	var content string
	if g.format == "tree" {
		content = strings.Join(renderTree(items, 0), "\n")
	} else {
		content = strings.Join(renderXML(items, 0), "\n")
	}

	out := g.frame(content)
	if err := artifact.Write(g.artifactPath, []byte(out)); err != nil {
		return fmt.Errorf("failed to write structure artifact: %w", err)
	}
	return nil
}

// scan reads one directory level, directories first, both sorted
// case-insensitively. Unreadable directories are skipped.
func (g *Generator) scan(dir, rel string) ([]*node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if rel == "" {
			return nil, fmt.Errorf("failed to read project root: %w", err)
		}
		return nil, nil
	}

	var dirs, files []*node
	for _, entry := range entries {
		childRel := path.Join(rel, entry.Name())
		if entry.IsDir() {
			if g.filter.Ignored(childRel) {
				continue
			}
			child := &node{name: entry.Name(), dir: true}
			child.children, _ = g.scan(filepath.Join(dir, entry.Name()), childRel)
			dirs = append(dirs, child)
		} else {
			if strings.HasPrefix(entry.Name(), ".") || g.filter.Ignored(childRel) {
				continue
			}
			files = append(files, &node{name: entry.Name()})
		}
	}

	sortNodes(dirs)
	sortNodes(files)
	return append(dirs, files...), nil
}

func sortNodes(nodes []*node) {
	sort.Slice(nodes, func(i, j int) bool {
		return strings.ToLower(nodes[i].name) < strings.ToLower(nodes[j].name)
	})
}

// renderTree renders the box-drawing form.
func renderTree(items []*node, level int) []string {
	var lines []string
	for i, item := range items {
		prefix := ""
		if level > 0 {
			prefix = strings.Repeat("  ", level-1)
			if i == len(items)-1 {
				prefix += "└── "
			} else {
				prefix += "├── "
			}
		}

		if item.dir {
			lines = append(lines, prefix+item.name+"/")
			lines = append(lines, renderTree(item.children, level+1)...)
		} else {
			lines = append(lines, prefix+item.name)
		}
	}
	return lines
}

// renderXML renders the XML element form.
func renderXML(items []*node, level int) []string {
	var lines []string
	indent := strings.Repeat("  ", level)
	for _, item := range items {
		if item.dir {
			lines = append(lines, fmt.Sprintf("%s<directory name=%q>", indent, item.name))
			lines = append(lines, renderXML(item.children, level+1)...)
			lines = append(lines, fmt.Sprintf("%s</directory>", indent))
		} else {
			lines = append(lines, fmt.Sprintf("%s<file name=%q/>", indent, item.name))
		}
	}
	return lines
}

// frame wraps the rendered structure in the artifact's front-matter
// framing.
func (g *Generator) frame(content string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("alwaysApply: true\n")
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# %s Structure\n\n", g.projectName)
	b.WriteString("```\n")
	fmt.Fprintf(&b, "%s/\n", g.projectName)
	b.WriteString(content)
	b.WriteString("\n```\n")
	return b.String()
}
