package skeleton

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeline-dev/treeline/internal/extract"
)

// Test Plan for the Skeleton Renderer:
// - Render files in sorted path order with path markers
// - Render composite items as blocks, eliding past ten members
// - Drop files with no exports from the output
// - Produce identical output for identical input (deterministic)
// - Wrap the rendered skeleton in the artifact frame

func TestRender_SortsPathsAndMarksFiles(t *testing.T) {
	t.Parallel()

	index := map[string]extract.FileIndex{
		"src/b.ts": {Path: "src/b.ts", Exports: []extract.ExportedItem{
			{Kind: extract.KindFunction, Name: "b", Signature: "export function b(): void"},
		}},
		"src/a.ts": {Path: "src/a.ts", Exports: []extract.ExportedItem{
			{Kind: extract.KindFunction, Name: "a", Signature: "export function a(): void"},
		}},
	}

	out := Render(index)

	aAt := strings.Index(out, "// src/a.ts")
	bAt := strings.Index(out, "// src/b.ts")
	require.GreaterOrEqual(t, aAt, 0)
	require.GreaterOrEqual(t, bAt, 0)
	assert.Less(t, aAt, bAt)
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	index := map[string]extract.FileIndex{
		"z.ts": {Path: "z.ts", Exports: []extract.ExportedItem{
			{Kind: extract.KindConst, Name: "z", Signature: "export const z"},
		}},
		"a.ts": {Path: "a.ts", Exports: []extract.ExportedItem{
			{Kind: extract.KindType, Name: "A", Signature: "export type A = string"},
		}},
		"m.ts": {Path: "m.ts", Exports: []extract.ExportedItem{
			{Kind: extract.KindEnum, Name: "M", Signature: "export enum M", Members: []string{"X", "Y"}},
		}},
	}

	first := Render(index)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Render(index))
	}
}

func TestRender_DropsEmptyFiles(t *testing.T) {
	t.Parallel()

	index := map[string]extract.FileIndex{
		"empty.ts": {Path: "empty.ts", Exports: nil},
		"full.ts": {Path: "full.ts", Exports: []extract.ExportedItem{
			{Kind: extract.KindFunction, Name: "f", Signature: "export function f(): void"},
		}},
	}

	out := Render(index)
	assert.NotContains(t, out, "empty.ts")
	assert.Contains(t, out, "// full.ts")
}

func TestRender_CompositeBlock(t *testing.T) {
	t.Parallel()

	index := map[string]extract.FileIndex{
		"svc.ts": {Path: "svc.ts", Exports: []extract.ExportedItem{
			{
				Kind:      extract.KindInterface,
				Name:      "Foo",
				Signature: "export interface Foo",
				Members:   []string{"bar: string", "baz?(x: number): void"},
			},
		}},
	}

	out := Render(index)
	assert.Contains(t, out, "export interface Foo {\n  bar: string\n  baz?(x: number): void\n}")
}

func TestRender_ElidesPastTenMembers(t *testing.T) {
	t.Parallel()

	members := make([]string, 12)
	for i := range members {
		members[i] = fmt.Sprintf("m%d(): void", i)
	}

	index := map[string]extract.FileIndex{
		"big.ts": {Path: "big.ts", Exports: []extract.ExportedItem{
			{Kind: extract.KindClass, Name: "Big", Signature: "export class Big", Members: members},
		}},
	}

	out := Render(index)
	assert.Contains(t, out, "  m9(): void\n")
	assert.NotContains(t, out, "m10(): void")
	assert.NotContains(t, out, "m11(): void")
	assert.Contains(t, out, "  // ... and 2 more\n")
}

func TestRender_ExactlyTenMembersNotElided(t *testing.T) {
	t.Parallel()

	members := make([]string, 10)
	for i := range members {
		members[i] = fmt.Sprintf("m%d(): void", i)
	}

	index := map[string]extract.FileIndex{
		"ten.ts": {Path: "ten.ts", Exports: []extract.ExportedItem{
			{Kind: extract.KindClass, Name: "Ten", Signature: "export class Ten", Members: members},
		}},
	}

	out := Render(index)
	assert.Contains(t, out, "m9(): void")
	assert.NotContains(t, out, "more")
}

func TestRender_EmptyIndex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Render(map[string]extract.FileIndex{}))
}

func TestArtifact_Frame(t *testing.T) {
	t.Parallel()

	index := map[string]extract.FileIndex{
		"a.ts": {Path: "a.ts", Exports: []extract.ExportedItem{
			{Kind: extract.KindFunction, Name: "a", Signature: "export function a(): void"},
		}},
	}

	out := Artifact("myproject", index)

	assert.True(t, strings.HasPrefix(out, "---\nalwaysApply: true\n---\n"))
	assert.Contains(t, out, "# myproject Codebase Index")
	assert.Contains(t, out, "```typescript\n")
	assert.Contains(t, out, "// a.ts")
	assert.True(t, strings.HasSuffix(out, "```\n"))
}

func TestArtifact_Deterministic(t *testing.T) {
	t.Parallel()

	index := map[string]extract.FileIndex{
		"x.ts": {Path: "x.ts", Exports: []extract.ExportedItem{
			{Kind: extract.KindConst, Name: "x", Signature: "export const x: number"},
		}},
		"y.ts": {Path: "y.ts", Exports: []extract.ExportedItem{
			{Kind: extract.KindConst, Name: "y", Signature: "export const y: number"},
		}},
	}

	first := Artifact("p", index)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Artifact("p", index))
	}
}
