// Package cli wires the treeline commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootDir string
	verbose bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "treeline",
	Short: "Treeline - real-time directory structure and codebase index for AI tooling",
	Long: `Treeline keeps two generated artifacts current as you work: a directory
structure overview and a skeleton index of your codebase's exported API
surface, so AI assistants always know what already exists.`,
}

// Execute adds all child commands to the root command and runs it.
// Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "project root (default is the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
