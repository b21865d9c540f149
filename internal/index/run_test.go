package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeline-dev/treeline/internal/watch"
)

// Test Plan for the Update Loop:
// - Apply debounced changes from the events channel to the index
// - Report applied changes through the callback
// - Return cleanly on context cancellation
// - Return cleanly when the events channel closes

func TestRun_AppliesChanges(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.ts", "export const a = 1;\n")

	orch := newTestOrchestrator(t, root)
	require.NoError(t, orch.Rebuild(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan watch.Change, 8)
	applied := make(chan watch.Change, 8)
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, orch, events, 20*time.Millisecond, func(change watch.Change, changed bool) {
			if changed {
				applied <- change
			}
		})
	}()

	writeSource(t, root, "b.ts", "export function b(): void {}\n")
	events <- watch.Change{Path: "b.ts", Op: watch.OpCreated}

	select {
	case change := <-applied:
		assert.Equal(t, "b.ts", change.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("change was never applied")
	}

	assert.Contains(t, orch.Index(), "b.ts")

	// The artifact write lands after the callbacks for the batch.
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(filepath.Join(root, "index.mdc"))
		return err == nil && strings.Contains(string(data), "export function b(): void")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop on cancellation")
	}
}

func TestRun_StopsWhenEventsClose(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	orch := newTestOrchestrator(t, root)
	require.NoError(t, orch.Rebuild(context.Background()))

	events := make(chan watch.Change)
	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), orch, events, 10*time.Millisecond, nil)
	}()

	close(events)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop when events closed")
	}
}

func TestRun_CoalescedBatchWritesOnce(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.ts", "export const a = 1;\n")

	orch := newTestOrchestrator(t, root)
	require.NoError(t, orch.Rebuild(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan watch.Change, 8)
	applied := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, orch, events, 30*time.Millisecond, func(watch.Change, bool) {
			applied <- struct{}{}
		})
	}()

	// A burst touching the same file repeatedly collapses to one apply.
	writeSource(t, root, "a.ts", "export const a = 2;\n")
	events <- watch.Change{Path: "a.ts", Op: watch.OpModified}
	events <- watch.Change{Path: "a.ts", Op: watch.OpModified}
	events <- watch.Change{Path: "a.ts", Op: watch.OpModified}

	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("batch was never applied")
	}

	select {
	case <-applied:
		t.Fatal("burst was applied more than once")
	case <-time.After(100 * time.Millisecond):
	}

	// Removing the file mid-run keeps the loop going.
	require.NoError(t, os.Remove(filepath.Join(root, "a.ts")))
	events <- watch.Change{Path: "a.ts", Op: watch.OpDeleted}

	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("delete was never applied")
	}
	assert.NotContains(t, orch.Index(), "a.ts")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop on cancellation")
	}
}
