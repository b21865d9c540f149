// Package skeleton renders the aggregate codebase index artifact from
// per-file extraction results. Rendering is deterministic and idempotent:
// the same index always produces byte-identical output, so rewriting the
// artifact never retriggers the watcher with new content.
package skeleton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/treeline-dev/treeline/internal/extract"
)

// maxMembers caps how many members of a class, interface, or enum are
// listed before the remainder is elided to a count.
const maxMembers = 10

// Render produces the skeleton body for the given index. Files are emitted
// in lexicographic path order; files with no exports are dropped.
func Render(index map[string]extract.FileIndex) string {
	paths := make([]string, 0, len(index))
	for path := range index {
		if len(index[path].Exports) > 0 {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	var lines []string
	for _, path := range paths {
		lines = append(lines, "// "+path)
		for _, item := range index[path].Exports {
			lines = append(lines, renderItem(item))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// renderItem renders one export. Composite kinds with members get a brace
// block listing the first maxMembers members plus a remainder marker; all
// other kinds are the bare signature line.
func renderItem(item extract.ExportedItem) string {
	composite := item.Kind == extract.KindClass ||
		item.Kind == extract.KindInterface ||
		item.Kind == extract.KindEnum

	if !composite || len(item.Members) == 0 {
		return item.Signature
	}

	shown := item.Members
	if len(shown) > maxMembers {
		shown = shown[:maxMembers]
	}

	var b strings.Builder
	b.WriteString(item.Signature)
	b.WriteString(" {\n")
	for _, member := range shown {
		b.WriteString("  ")
		b.WriteString(member)
		b.WriteString("\n")
	}
	if rest := len(item.Members) - maxMembers; rest > 0 {
		fmt.Fprintf(&b, "  // ... and %d more\n", rest)
	}
	b.WriteString("}")

	return b.String()
}

// Artifact wraps the rendered skeleton in the front-matter framing the
// consuming editor expects: a header block, a short usage note, and the
// skeleton inside a fenced code block.
func Artifact(projectName string, index map[string]extract.FileIndex) string {
	var b strings.Builder

	b.WriteString("---\n")
	b.WriteString("alwaysApply: true\n")
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# %s Codebase Index\n\n", projectName)
	b.WriteString("This file provides an index of exported functions, types, interfaces, ")
	b.WriteString("classes, and constants in your codebase. Updated in real-time by Treeline.\n\n")
	b.WriteString("Use this index to discover existing utilities and avoid duplicating code.\n\n")
	b.WriteString("```typescript\n")
	b.WriteString(Render(index))
	b.WriteString("\n```\n")

	return b.String()
}
