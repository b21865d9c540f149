package index

import (
	"sync"
	"time"

	"github.com/treeline-dev/treeline/internal/watch"
)

// Scheduler coalesces bursts of change notifications into one
// recomputation per quiet period. It holds the pending change set
// explicitly; notifications for the same path replace each other so only
// the most recent one in a burst survives.
type Scheduler struct {
	window time.Duration

	mu      sync.Mutex
	pending []watch.Change
	byPath  map[string]int
	timer   *time.Timer

	ready chan struct{}
}

// NewScheduler creates a scheduler with the given debounce window.
func NewScheduler(window time.Duration) *Scheduler {
	return &Scheduler{
		window: window,
		byPath: make(map[string]int),
		ready:  make(chan struct{}, 1),
	}
}

// Notify records a change and restarts the quiet period.
func (s *Scheduler) Notify(change watch.Change) {
	s.mu.Lock()
	if i, exists := s.byPath[change.Path]; exists {
		// Later notification for the same path wins, in place, so the
		// original delivery order is preserved. A pending rename carries
		// the obligation to drop the old path's entry; that must survive
		// the replacement or the stale entry lives forever.
		if prev := s.pending[i]; prev.Op == watch.OpRenamed && change.OldPath == "" {
			switch change.Op {
			case watch.OpCreated, watch.OpModified:
				change.Op = watch.OpRenamed
				change.OldPath = prev.OldPath
			case watch.OpDeleted:
				s.enqueueLocked(watch.Change{Path: prev.OldPath, Op: watch.OpDeleted})
			}
		}
		s.pending[s.byPath[change.Path]] = change
	} else {
		s.byPath[change.Path] = len(s.pending)
		s.pending = append(s.pending, change)
	}
	s.resetTimerLocked()
	s.mu.Unlock()
}

func (s *Scheduler) enqueueLocked(change watch.Change) {
	if i, exists := s.byPath[change.Path]; exists {
		s.pending[i] = change
	} else {
		s.byPath[change.Path] = len(s.pending)
		s.pending = append(s.pending, change)
	}
}

// Ready signals when the quiet period has elapsed with changes pending.
// Consume the batch with Drain.
func (s *Scheduler) Ready() <-chan struct{} {
	return s.ready
}

// Drain returns the pending changes in delivery order and clears the set.
func (s *Scheduler) Drain() []watch.Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.pending
	s.pending = nil
	s.byPath = make(map[string]int)
	return batch
}

// Stop cancels any pending timer. The scheduler must not be notified
// afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) resetTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, func() {
		select {
		case s.ready <- struct{}{}:
		default:
		}
	})
}
