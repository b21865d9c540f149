// Package index owns the in-memory codebase index and drives the
// parse → extract → render → write pipeline, in full or incremental mode.
package index

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/maypok86/otter"
	"github.com/zeebo/xxh3"

	"github.com/treeline-dev/treeline/internal/artifact"
	"github.com/treeline-dev/treeline/internal/discovery"
	"github.com/treeline-dev/treeline/internal/extract"
	"github.com/treeline-dev/treeline/internal/language"
	"github.com/treeline-dev/treeline/internal/skeleton"
	"github.com/treeline-dev/treeline/internal/watch"
)

// extractionCacheSize bounds the content-hash → exports cache. Entries are
// small (rendered strings), so this covers large projects comfortably.
const extractionCacheSize = 4096

// cacheKey identifies one extraction result. The grammar is part of the
// key: identical bytes parse differently under the TypeScript and TSX
// grammars, so a content hash alone would let one extension's result leak
// into the other's.
type cacheKey struct {
	grammar language.Grammar
	hash    uint64
}

// Orchestrator maintains the Index and the rendered artifact. All methods
// must be called from a single goroutine; change notifications are handled
// strictly in delivery order and a pass in flight is never pre-empted.
type Orchestrator struct {
	root         string
	projectName  string
	artifactPath string
	registry     *language.Registry
	filter       *discovery.Filter

	// index holds one entry per file that parsed and yielded at least one
	// export. It is rebuilt wholesale in full mode and patched per path in
	// incremental mode; it is never persisted, only the artifact is.
	index map[string]extract.FileIndex

	// hashes remembers the content hash of every file that was parsed,
	// including ones with no exports, so unchanged rewrites are no-ops.
	hashes map[string]uint64

	// cache reuses extraction results across touch and rename events.
	cache otter.Cache[cacheKey, []extract.ExportedItem]

	// OnDiscover and OnFile are progress hooks for full rebuilds.
	OnDiscover func(total int)
	OnFile     func(rel string)

	// Verbose enables per-declaration skip diagnostics.
	Verbose bool
}

// New creates an orchestrator for the given project root.
func New(root, projectName string, registry *language.Registry, filter *discovery.Filter, artifactPath string) (*Orchestrator, error) {
	cache, err := otter.MustBuilder[cacheKey, []extract.ExportedItem](extractionCacheSize).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction cache: %w", err)
	}

	return &Orchestrator{
		root:         root,
		projectName:  projectName,
		artifactPath: artifactPath,
		registry:     registry,
		filter:       filter,
		index:        make(map[string]extract.FileIndex),
		hashes:       make(map[string]uint64),
		cache:        cache,
	}, nil
}

// Index returns the current index. The map is owned by the orchestrator;
// callers must not mutate it.
func (o *Orchestrator) Index() map[string]extract.FileIndex {
	return o.index
}

// Rebuild runs a full pass: discovery, extraction of every eligible file,
// wholesale index replacement, then render and write.
func (o *Orchestrator) Rebuild(ctx context.Context) error {
	files, err := o.filter.Discover()
	if err != nil {
		return err
	}

	if o.OnDiscover != nil {
		o.OnDiscover(len(files))
	}

	fresh := make(map[string]extract.FileIndex, len(files))
	hashes := make(map[string]uint64, len(files))

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		exports, hash, err := o.extractFile(rel)
		if err != nil {
			// One bad file never drops the batch.
			log.Printf("Skipping %s: %v", rel, err)
			continue
		}
		hashes[rel] = hash
		if len(exports) > 0 {
			fresh[rel] = extract.FileIndex{Path: rel, Exports: exports}
		}

		if o.OnFile != nil {
			o.OnFile(rel)
		}
	}

	o.index = fresh
	o.hashes = hashes
	return o.Flush()
}

// Apply merges one change notification into the index and, if anything
// actually changed, rewrites the artifact. The returned bool reports
// whether the index mutated.
func (o *Orchestrator) Apply(change watch.Change) (bool, error) {
	changed, err := o.applyChange(change)
	if err != nil || !changed {
		return changed, err
	}
	return true, o.Flush()
}

// ApplyBatch merges a debounced burst of notifications in delivery order
// and writes the artifact once at the end, so no intermediate state is
// ever observable. Returns how many changes mutated the index.
func (o *Orchestrator) ApplyBatch(changes []watch.Change) (int, error) {
	mutated := 0
	for _, change := range changes {
		changed, err := o.applyChange(change)
		if err != nil {
			log.Printf("Skipping %s (%s): %v", change.Path, change.Op, err)
			continue
		}
		if changed {
			mutated++
		}
	}

	if mutated == 0 {
		return 0, nil
	}
	return mutated, o.Flush()
}

// applyChange mutates the index for one notification without rendering.
// Every entry other than the touched path is carried over untouched.
func (o *Orchestrator) applyChange(change watch.Change) (bool, error) {
	switch change.Op {
	case watch.OpCreated, watch.OpModified:
		return o.upsert(change.Path)

	case watch.OpDeleted:
		return o.remove(change.Path), nil

	case watch.OpRenamed:
		removed := o.remove(change.OldPath)
		added, err := o.upsert(change.Path)
		return removed || added, err

	default:
		return false, fmt.Errorf("unknown change op %q", change.Op)
	}
}

// upsert re-extracts one path and replaces its entry. A file whose bytes
// hash identically to the last pass is a no-op; a file that fails to parse
// retains its last-good entry.
func (o *Orchestrator) upsert(rel string) (bool, error) {
	exports, hash, err := o.extractFile(rel)
	if err != nil {
		if _, exists := o.index[rel]; exists {
			log.Printf("Keeping last-good index entry for %s: %v", rel, err)
			return false, nil
		}
		return false, err
	}

	if prev, seen := o.hashes[rel]; seen && prev == hash {
		return false, nil
	}
	o.hashes[rel] = hash

	if len(exports) == 0 {
		return o.removeEntry(rel), nil
	}
	o.index[rel] = extract.FileIndex{Path: rel, Exports: exports}
	return true, nil
}

// remove drops a path's entry and hash.
func (o *Orchestrator) remove(rel string) bool {
	delete(o.hashes, rel)
	return o.removeEntry(rel)
}

func (o *Orchestrator) removeEntry(rel string) bool {
	if _, exists := o.index[rel]; !exists {
		return false
	}
	delete(o.index, rel)
	return true
}

// Flush renders the current index and writes the artifact atomically.
// Write failures propagate: the run as a whole is reported failed.
func (o *Orchestrator) Flush() error {
	content := skeleton.Artifact(o.projectName, o.index)
	if err := artifact.Write(o.artifactPath, []byte(content)); err != nil {
		return fmt.Errorf("failed to write index artifact: %w", err)
	}
	return nil
}

// extractFile parses and extracts one file. The tree and source buffer
// live only for the duration of this call. A panic during traversal is
// contained here so it costs one file, not the run.
func (o *Orchestrator) extractFile(rel string) (exports []extract.ExportedItem, hash uint64, err error) {
	grammar, ok := o.registry.ForPath(rel)
	if !ok {
		return nil, 0, fmt.Errorf("unsupported file extension")
	}

	source, err := os.ReadFile(filepath.Join(o.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read file: %w", err)
	}

	hash = xxh3.Hash(source)
	key := cacheKey{grammar: grammar, hash: hash}
	if cached, ok := o.cache.Get(key); ok {
		return cached, hash, nil
	}

	defer func() {
		if r := recover(); r != nil {
			exports, err = nil, fmt.Errorf("extraction panicked: %v", r)
		}
	}()

	tree, err := o.registry.Parse(grammar, source)
	if err != nil {
		return nil, 0, err
	}
	defer tree.Close()

	items, skips := extract.ExportsDetailed(tree.RootNode(), source)
	if o.Verbose {
		for _, skip := range skips {
			log.Printf("%s: skipped %s: %s", rel, skip.NodeKind, skip.Reason)
		}
	}

	o.cache.Set(key, items)
	return items, hash, nil
}
