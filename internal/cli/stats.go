package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

// statsCmd reports indexing scope and a parse-time estimate.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show indexing size and time estimate",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(true)
		if err != nil {
			return err
		}

		files, err := p.filter.Discover()
		if err != nil {
			return err
		}

		fmt.Printf("Indexable files: %d\n", len(files))
		fmt.Printf("Include patterns: %v\n", p.cfg.Indexing.Include)
		fmt.Printf("Exclude patterns: %v\n", p.cfg.Indexing.Exclude)

		type sizedFile struct {
			rel  string
			size int64
		}

		var totalBytes int64
		var sized []sizedFile
		for _, rel := range files {
			info, err := os.Stat(filepath.Join(p.root, filepath.FromSlash(rel)))
			if err != nil {
				continue
			}
			totalBytes += info.Size()
			sized = append(sized, sizedFile{rel: rel, size: info.Size()})
		}

		fmt.Printf("Total size: %s\n", formatBytes(totalBytes))

		if rate := p.cfg.Indexing.EstimateBytesPerSec; rate > 0 {
			seconds := float64(totalBytes) / float64(rate)
			fmt.Printf("Estimated parse time: %.1fs (assumes %s/s)\n", seconds, formatBytes(int64(rate)))
		}

		if len(sized) > 0 {
			sort.Slice(sized, func(i, j int) bool { return sized[i].size > sized[j].size })
			if len(sized) > 10 {
				sized = sized[:10]
			}
			fmt.Println("Largest files:")
			for _, f := range sized {
				fmt.Printf("  %s  %s\n", formatBytes(f.size), f.rel)
			}
		}

		return nil
	},
}

// formatBytes renders a byte count in binary units.
func formatBytes(value int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(value)
	for _, unit := range units {
		if size < 1024 || unit == units[len(units)-1] {
			if unit == "B" {
				return fmt.Sprintf("%d %s", int64(size), unit)
			}
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%d B", value)
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
