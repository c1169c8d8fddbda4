package output

import (
	"time"

	"dirscout/analyzer"
	"dirscout/dupes"
	"dirscout/matcher"
	"dirscout/scanner"
	"dirscout/systeminfo"
)

// SchemaVersion identifies the report document layout.
const SchemaVersion = "1"

// Summary is the scan-level counter block.
type Summary struct {
	TotalFiles     int   `json:"total_files"`
	TotalDirs      int   `json:"total_dirs"`
	TotalSymlinks  int   `json:"total_symlinks"`
	TotalSizeBytes int64 `json:"total_size_bytes"`
	ErrorCount     int   `json:"error_count"`
}

// Report is the single JSON document a run produces. Field order is fixed
// by the struct so identical scans serialize identically, except for the
// generation timestamp.
type Report struct {
	SchemaVersion string                 `json:"schema_version"`
	GeneratedAt   string                 `json:"generated_at"`
	Root          string                 `json:"root"`
	ExcludeNames  []string               `json:"exclude_names"`
	System        *systeminfo.SystemInfo `json:"system_info,omitempty"`
	Summary       Summary                `json:"summary"`
	Analysis      *analyzer.Report       `json:"analysis"`
	Duplicates    *dupes.Result          `json:"duplicates,omitempty"`
	Matches       []matcher.Match        `json:"matches,omitempty"`
	Inaccessible  []scanner.PathRecord   `json:"inaccessible,omitempty"`
}

// Build assembles the report document. dup, matches, and sys may be nil.
func Build(res *scanner.ScanResult, agg *analyzer.Report, dup *dupes.Result, matches []matcher.Match, sys *systeminfo.SystemInfo) *Report {
	return &Report{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Root:          res.Root,
		ExcludeNames:  res.ExcludeNames,
		System:        sys,
		Summary: Summary{
			TotalFiles:     res.TotalFiles,
			TotalDirs:      res.TotalDirs,
			TotalSymlinks:  res.TotalSymlinks,
			TotalSizeBytes: res.TotalSizeBytes,
			ErrorCount:     res.ErrorCount,
		},
		Analysis:     agg,
		Duplicates:   dup,
		Matches:      matches,
		Inaccessible: res.Errored(),
	}
}
