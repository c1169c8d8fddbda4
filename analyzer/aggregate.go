// Package analyzer derives report-ready statistics from a scan result. All
// orderings are total so repeated runs over an unchanged tree render
// identically.
package analyzer

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dirscout/scanner"
)

// NoExtension is the histogram key for files without a suffix.
const NoExtension = "(no extension)"

const defaultTopN = 10

type ExtensionStat struct {
	Extension  string `json:"extension"`
	Count      int    `json:"count"`
	TotalBytes int64  `json:"total_bytes"`
}

type FileEntry struct {
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

type DirSize struct {
	Path       string `json:"path"`
	TotalBytes int64  `json:"total_bytes"`
}

type DepthCount struct {
	Depth int `json:"depth"`
	Count int `json:"count"`
}

// Report is the aggregate view over one scan.
type Report struct {
	Extensions   []ExtensionStat  `json:"extensions"`
	LargestFiles []FileEntry      `json:"largest_files"`
	NewestFiles  []FileEntry      `json:"newest_files"`
	OldestFiles  []FileEntry      `json:"oldest_files"`
	HeaviestDirs []DirSize        `json:"heaviest_dirs"`
	DirSizes     map[string]int64 `json:"-"`
	Depths       []DepthCount     `json:"depth_distribution"`
	MaxDepth     int              `json:"max_depth"`
	EmptyDirs    []string         `json:"empty_dirs,omitempty"`
}

// Aggregate computes the full report in a handful of passes over the record
// set. topN <= 0 falls back to 10.
func Aggregate(res *scanner.ScanResult, topN int) *Report {
	if topN <= 0 {
		topN = defaultTopN
	}

	rep := &Report{DirSizes: make(map[string]int64)}

	dirs := make(map[string]bool) // path -> has children
	depthCounts := make(map[int]int)
	extStats := make(map[string]*ExtensionStat)
	var files []scanner.PathRecord

	for i := range res.Records {
		rec := &res.Records[i]
		depthCounts[rec.Depth]++
		if rec.Depth > rep.MaxDepth {
			rep.MaxDepth = rec.Depth
		}
		switch rec.Kind {
		case scanner.KindDir:
			if _, ok := dirs[rec.Path]; !ok {
				dirs[rec.Path] = false
			}
		case scanner.KindFile:
			files = append(files, *rec)
			ext := rec.Extension
			if ext == "" {
				ext = NoExtension
			}
			stat, ok := extStats[ext]
			if !ok {
				stat = &ExtensionStat{Extension: ext}
				extStats[ext] = stat
			}
			stat.Count++
			stat.TotalBytes += rec.SizeBytes
		}
	}

	// Mark directories that have any recorded child and roll file sizes up
	// to every ancestor directory present in the record set.
	for i := range res.Records {
		rec := &res.Records[i]
		if rec.Path == res.Root {
			continue
		}
		parent := filepath.Dir(rec.Path)
		if _, ok := dirs[parent]; ok {
			dirs[parent] = true
		}
	}
	for i := range files {
		f := &files[i]
		for dir := filepath.Dir(f.Path); ; dir = filepath.Dir(dir) {
			if _, ok := dirs[dir]; ok {
				rep.DirSizes[dir] += f.SizeBytes
			}
			if dir == res.Root || dir == filepath.Dir(dir) {
				break
			}
			if !strings.HasPrefix(dir, res.Root) {
				break
			}
		}
	}

	rep.Extensions = sortedExtensions(extStats)
	rep.LargestFiles = topFiles(files, topN, func(a, b *scanner.PathRecord) bool {
		if a.SizeBytes != b.SizeBytes {
			return a.SizeBytes > b.SizeBytes
		}
		return a.Path < b.Path
	})
	rep.NewestFiles = topFiles(files, topN, func(a, b *scanner.PathRecord) bool {
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.After(b.ModTime)
		}
		return a.Path < b.Path
	})
	rep.OldestFiles = topFiles(files, topN, func(a, b *scanner.PathRecord) bool {
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.Before(b.ModTime)
		}
		return a.Path < b.Path
	})
	rep.HeaviestDirs = topDirs(rep.DirSizes, topN)
	rep.Depths = sortedDepths(depthCounts)
	for dir, hasChildren := range dirs {
		if !hasChildren {
			rep.EmptyDirs = append(rep.EmptyDirs, dir)
		}
	}
	sort.Strings(rep.EmptyDirs)

	return rep
}

func sortedExtensions(stats map[string]*ExtensionStat) []ExtensionStat {
	out := make([]ExtensionStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalBytes != out[j].TotalBytes {
			return out[i].TotalBytes > out[j].TotalBytes
		}
		return out[i].Extension < out[j].Extension
	})
	return out
}

func topFiles(files []scanner.PathRecord, n int, less func(a, b *scanner.PathRecord) bool) []FileEntry {
	ranked := make([]scanner.PathRecord, len(files))
	copy(ranked, files)
	sort.Slice(ranked, func(i, j int) bool {
		return less(&ranked[i], &ranked[j])
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]FileEntry, len(ranked))
	for i := range ranked {
		out[i] = FileEntry{
			Path:      ranked[i].Path,
			SizeBytes: ranked[i].SizeBytes,
			ModTime:   ranked[i].ModTime,
		}
	}
	return out
}

func topDirs(sizes map[string]int64, n int) []DirSize {
	out := make([]DirSize, 0, len(sizes))
	for dir, total := range sizes {
		out = append(out, DirSize{Path: dir, TotalBytes: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalBytes != out[j].TotalBytes {
			return out[i].TotalBytes > out[j].TotalBytes
		}
		return out[i].Path < out[j].Path
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func sortedDepths(counts map[int]int) []DepthCount {
	out := make([]DepthCount, 0, len(counts))
	for depth, count := range counts {
		out = append(out, DepthCount{Depth: depth, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Depth < out[j].Depth })
	return out
}
