// Package watch turns raw fsnotify events into typed change notifications
// for the indexing pipeline. It registers directories recursively, follows
// newly created ones, and correlates rename pairs best-effort.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op categorizes a change notification.
type Op string

const (
	OpCreated  Op = "created"
	OpModified Op = "modified"
	OpDeleted  Op = "deleted"
	OpRenamed  Op = "renamed"
)

// Change is one change notification. Path is project-relative with forward
// slashes; OldPath is set only for OpRenamed.
type Change struct {
	Path    string
	Op      Op
	OldPath string
}

// renameWindow is how long a rename's old-path event waits for its new-path
// counterpart before degrading to a deletion.
const renameWindow = 250 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Extensions limits events to files with these extensions.
	Extensions []string

	// Eligible reports whether a relative file path is part of the
	// indexable set. Nil means every extension match is eligible.
	Eligible func(rel string) bool

	// IgnoreDir reports whether a relative directory path should not be
	// watched. Nil means watch everything.
	IgnoreDir func(rel string) bool
}

// Watcher monitors a project root and delivers Changes on a channel.
type Watcher struct {
	fsw        *fsnotify.Watcher
	root       string
	extensions map[string]bool
	eligible   func(string) bool
	ignoreDir  func(string) bool

	events chan Change

	// pendingRename holds the old path of a rename awaiting its create
	// counterpart; only touched from the watch goroutine.
	pendingRename      string
	pendingRenameTimer *time.Timer
	renameExpired      chan struct{}

	cancel   context.CancelFunc
	stopOnce sync.Once
	doneCh   chan struct{}
}

// New creates a watcher rooted at root. Call Start to begin delivery.
func New(root string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher: %w", err)
	}

	extMap := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extMap[ext] = true
	}

	w := &Watcher{
		fsw:           fsw,
		root:          root,
		extensions:    extMap,
		eligible:      opts.Eligible,
		ignoreDir:     opts.IgnoreDir,
		events:        make(chan Change, 128),
		renameExpired: make(chan struct{}, 1),
		doneCh:        make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Events returns the change notification channel. It is closed when the
// watcher stops.
func (w *Watcher) Events() <-chan Change {
	return w.events
}

// Start begins watching until the context is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	go w.watch(ctx)
}

// Stop shuts the watcher down and waits for the watch goroutine to exit.
// Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			w.stopRenameTimer()
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)

		case <-w.renameExpired:
			// No create followed the rename: the file left the watched
			// tree, which is a deletion from the index's point of view.
			if w.pendingRename != "" {
				w.deliver(ctx, Change{Path: w.pendingRename, Op: OpDeleted})
				w.pendingRename = ""
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// Follow newly created directories.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			rel := w.rel(event.Name)
			if w.ignoreDir == nil || !w.ignoreDir(rel) {
				if err := w.addDirectoriesRecursively(event.Name); err != nil {
					log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
				}
			}
			return
		}
	}

	rel := w.rel(event.Name)
	if !w.relevant(rel) {
		return
	}

	switch {
	case event.Op&fsnotify.Rename != 0:
		// fsnotify reports the old path; the new path arrives as a
		// separate create. Hold the old path briefly to pair them.
		if w.pendingRename != "" {
			w.deliver(ctx, Change{Path: w.pendingRename, Op: OpDeleted})
		}
		w.pendingRename = rel
		w.resetRenameTimer()

	case event.Op&fsnotify.Create != 0:
		if w.pendingRename != "" {
			old := w.pendingRename
			w.pendingRename = ""
			w.stopRenameTimer()
			w.deliver(ctx, Change{Path: rel, Op: OpRenamed, OldPath: old})
			return
		}
		w.deliver(ctx, Change{Path: rel, Op: OpCreated})

	case event.Op&fsnotify.Write != 0:
		w.deliver(ctx, Change{Path: rel, Op: OpModified})

	case event.Op&fsnotify.Remove != 0:
		w.deliver(ctx, Change{Path: rel, Op: OpDeleted})
	}
}

func (w *Watcher) deliver(ctx context.Context, change Change) {
	select {
	case w.events <- change:
	case <-ctx.Done():
	}
}

// relevant filters events down to eligible source files.
func (w *Watcher) relevant(rel string) bool {
	if !w.extensions[strings.ToLower(filepath.Ext(rel))] {
		return false
	}
	if w.eligible != nil && !w.eligible(rel) {
		return false
	}
	return true
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) resetRenameTimer() {
	w.stopRenameTimer()
	w.pendingRenameTimer = time.AfterFunc(renameWindow, func() {
		select {
		case w.renameExpired <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopRenameTimer() {
	if w.pendingRenameTimer != nil {
		w.pendingRenameTimer.Stop()
		w.pendingRenameTimer = nil
	}
}

// addDirectoriesRecursively registers a directory tree with the watcher,
// skipping ignored directories.
func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		if !info.IsDir() {
			return nil
		}

		rel := w.rel(path)
		if rel != "." && w.ignoreDir != nil && w.ignoreDir(rel) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
