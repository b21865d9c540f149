package cli

import (
	"github.com/pterm/pterm"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/treeline-dev/treeline/internal/config"
	"github.com/treeline-dev/treeline/internal/index"
)

var indexQuiet bool

// indexCmd runs one full index build without watching.
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the codebase index once",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(true)
		if err != nil {
			return err
		}

		orch, err := index.New(p.root, p.name, p.registry, p.filter, config.IndexArtifactPath(p.root))
		if err != nil {
			return err
		}
		orch.Verbose = verbose

		var bar *progressbar.ProgressBar
		if !indexQuiet {
			orch.OnDiscover = func(total int) {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Indexing files"),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionShowIts(),
					progressbar.OptionSetItsString("files/s"),
					progressbar.OptionClearOnFinish(),
				)
			}
			orch.OnFile = func(rel string) {
				if bar != nil {
					bar.Add(1)
				}
			}
		}

		if err := orch.Rebuild(cmd.Context()); err != nil {
			return err
		}

		pterm.Success.Printfln("Indexed %d files into %s", len(orch.Index()), config.IndexArtifact)
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVarP(&indexQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.AddCommand(indexCmd)
}
