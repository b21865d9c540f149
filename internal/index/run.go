package index

import (
	"context"
	"log"
	"time"

	"github.com/treeline-dev/treeline/internal/watch"
)

// Run consumes change notifications until the context is cancelled or the
// events channel closes, debouncing them through a scheduler and applying
// each batch in delivery order with a single artifact write at the end.
// Everything runs on this one goroutine: a notification arriving mid-batch
// only schedules a later pass, it never pre-empts the one in flight.
//
// onApplied, when non-nil, is invoked after each change with whether it
// mutated the index.
func Run(ctx context.Context, o *Orchestrator, events <-chan watch.Change, window time.Duration, onApplied func(change watch.Change, changed bool)) error {
	sched := NewScheduler(window)
	defer sched.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case change, ok := <-events:
			if !ok {
				return nil
			}
			sched.Notify(change)

		case <-sched.Ready():
			mutated := 0
			for _, change := range sched.Drain() {
				changed, err := o.applyChange(change)
				if err != nil {
					log.Printf("Skipping %s (%s): %v", change.Path, change.Op, err)
					continue
				}
				if changed {
					mutated++
				}
				if onApplied != nil {
					onApplied(change, changed)
				}
			}
			if mutated > 0 {
				if err := o.Flush(); err != nil {
					return err
				}
			}
		}
	}
}
