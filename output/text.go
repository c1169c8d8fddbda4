package output

import (
	"fmt"
	"io"
)

// WriteText prints a human-readable summary. Not a stable contract; the
// JSON and CSV renderings are the machine-readable surfaces.
func WriteText(out io.Writer, rep *Report) {
	fmt.Fprintf(out, "===== Scan Summary =====\n")
	fmt.Fprintf(out, "Root        : %s\n", rep.Root)
	fmt.Fprintf(out, "Generated   : %s\n", rep.GeneratedAt)
	fmt.Fprintf(out, "Files       : %d\n", rep.Summary.TotalFiles)
	fmt.Fprintf(out, "Directories : %d\n", rep.Summary.TotalDirs)
	fmt.Fprintf(out, "Symlinks    : %d\n", rep.Summary.TotalSymlinks)
	fmt.Fprintf(out, "Total size  : %s\n", HumanSize(rep.Summary.TotalSizeBytes))
	if rep.Summary.ErrorCount > 0 {
		fmt.Fprintf(out, "Inaccessible: %d\n", rep.Summary.ErrorCount)
	}

	if rep.Analysis == nil {
		return
	}
	if len(rep.Analysis.Extensions) > 0 {
		fmt.Fprintf(out, "\n-- File types by size --\n")
		for _, ext := range rep.Analysis.Extensions {
			fmt.Fprintf(out, "%16s : %6d files, %s\n", ext.Extension, ext.Count, HumanSize(ext.TotalBytes))
		}
	}
	if len(rep.Analysis.LargestFiles) > 0 {
		fmt.Fprintf(out, "\n-- Largest files --\n")
		for _, f := range rep.Analysis.LargestFiles {
			fmt.Fprintf(out, "%10s : %s\n", HumanSize(f.SizeBytes), f.Path)
		}
	}
	if len(rep.Analysis.HeaviestDirs) > 0 {
		fmt.Fprintf(out, "\n-- Heaviest directories --\n")
		for _, d := range rep.Analysis.HeaviestDirs {
			fmt.Fprintf(out, "%10s : %s\n", HumanSize(d.TotalBytes), d.Path)
		}
	}
	if len(rep.Analysis.NewestFiles) > 0 {
		fmt.Fprintf(out, "\n-- Most recent files --\n")
		for _, f := range rep.Analysis.NewestFiles {
			fmt.Fprintf(out, "%s : %s\n", f.ModTime.Format("2006-01-02 15:04:05"), f.Path)
		}
	}
	if rep.Duplicates != nil {
		files := 0
		for _, g := range rep.Duplicates.Groups {
			files += len(g.Paths)
		}
		fmt.Fprintf(out, "\n-- Duplicates: %d files in %d groups, %s wasted --\n",
			files, len(rep.Duplicates.Groups), HumanSize(rep.Duplicates.WastedBytes))
		for _, g := range rep.Duplicates.Groups {
			fmt.Fprintf(out, "%10s x%d:\n", HumanSize(g.SizeBytes), len(g.Paths))
			for _, p := range g.Paths {
				fmt.Fprintf(out, "    %s\n", p)
			}
		}
	}
	if len(rep.Matches) > 0 {
		fmt.Fprintf(out, "\n-- Matches --\n")
		for _, m := range rep.Matches {
			fmt.Fprintf(out, "  [%.2f] %s\n", m.Score, m.Record.Path)
		}
	}
}

// HumanSize formats a byte count for console output.
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	value := float64(n)
	units := []string{"KB", "MB", "GB", "TB", "PB"}
	i := -1
	for value >= unit && i < len(units)-1 {
		value /= unit
		i++
	}
	return fmt.Sprintf("%.1f %s", value, units[i])
}
