package cli

import (
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/treeline-dev/treeline/internal/config"
)

// initCmd prepares a project for treeline: artifact directory, starter
// config, and gitignore entries.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize treeline in the project",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}

		pterm.Info.Printfln("Initializing treeline in %s", root)

		rulesDir := filepath.Join(root, ".cursor", "rules")
		if err := os.MkdirAll(rulesDir, 0755); err != nil {
			return err
		}

		if config.Exists(root) {
			pterm.Warning.Printfln("%s already exists, leaving it untouched", config.FileName)
		} else {
			if err := config.WriteDefault(root); err != nil {
				return err
			}
			pterm.Success.Printfln("Created %s - edit it to customize excludes", config.FileName)
		}

		if err := config.SyncGitignore(root); err != nil {
			return err
		}

		pterm.Success.Println("Done. Run 'treeline run' to start watching.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
