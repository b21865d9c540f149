package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/treeline-dev/treeline/internal/config"
	"github.com/treeline-dev/treeline/internal/index"
	"github.com/treeline-dev/treeline/internal/structure"
	"github.com/treeline-dev/treeline/internal/watch"
)

// runCmd generates both artifacts, then watches for changes until
// interrupted.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate structure and index, then watch for changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(true)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		gen := structure.NewGenerator(p.root, p.name, p.cfg.Structure.Format, p.filter, config.StructureArtifactPath(p.root))
		if err := gen.Generate(); err != nil {
			return err
		}
		pterm.Info.Println("Initial structure generated")

		watcher, err := watch.New(p.root, watch.Options{
			Extensions: p.registry.Extensions(),
			Eligible:   p.filter.ShouldIndex,
			IgnoreDir:  p.filter.Ignored,
		})
		if err != nil {
			return err
		}
		watcher.Start(ctx)
		defer watcher.Stop()

		if !p.cfg.Indexing.Enabled {
			pterm.Warning.Println("Indexing is disabled; watching structure only")
			pterm.Success.Println("Watching for changes... (Ctrl+C to stop)")
			watchStructureOnly(ctx, gen, watcher.Events())
			pterm.Warning.Println("Stopped watching")
			return nil
		}

		orch, err := index.New(p.root, p.name, p.registry, p.filter, config.IndexArtifactPath(p.root))
		if err != nil {
			return err
		}
		orch.Verbose = verbose

		if err := orch.Rebuild(ctx); err != nil {
			return err
		}
		pterm.Info.Println("Initial codebase index generated")
		pterm.Success.Println("Watching for changes... (Ctrl+C to stop)")

		onApplied := func(change watch.Change, changed bool) {
			if changed {
				pterm.Info.Printfln("Updated index (%s): %s", change.Op, change.Path)
			}
			// Creations, deletions, and renames change the file list, so
			// the structure artifact is stale too.
			if change.Op != watch.OpModified {
				if err := gen.Generate(); err != nil {
					pterm.Error.Printfln("Error updating structure: %v", err)
				} else {
					pterm.Info.Printfln("Updated structure (%s): %s", change.Op, change.Path)
				}
			}
		}

		if err := index.Run(ctx, orch, watcher.Events(), p.cfg.Watch.Debounce, onApplied); err != nil {
			return err
		}

		pterm.Warning.Println("Stopped watching")
		return nil
	},
}

// watchStructureOnly regenerates the structure artifact on file-list
// changes, without maintaining an index.
func watchStructureOnly(ctx context.Context, gen *structure.Generator, events <-chan watch.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-events:
			if !ok {
				return
			}
			if change.Op == watch.OpModified {
				continue
			}
			if err := gen.Generate(); err != nil {
				pterm.Error.Printfln("Error updating structure: %v", err)
			} else {
				pterm.Info.Printfln("Updated structure (%s): %s", change.Op, change.Path)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
