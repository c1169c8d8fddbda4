package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dirscout/logger"

	"github.com/schollz/progressbar/v3"
)

// ErrInvalidRoot is returned when the scan root does not exist or is not a
// directory. No partial result accompanies it.
var ErrInvalidRoot = errors.New("invalid scan root")

// Options controls one Collect call.
type Options struct {
	// ExcludeNames lists extra basenames to prune, on top of the defaults
	// unless DisableDefaultExcludes is set.
	ExcludeNames           []string
	DisableDefaultExcludes bool
	// IncludeHidden disables the dot-name (and, on Windows, hidden
	// attribute) pruning rule.
	IncludeHidden  bool
	FollowSymlinks bool
	// MaxDepth limits descent; 0 means unlimited. Directories at the limit
	// are recorded but not entered.
	MaxDepth   int
	DetectMime bool
	Progress   bool
}

// DefaultExcludeNames returns the basenames pruned by default: common
// build, VCS, and dependency directories.
func DefaultExcludeNames() []string {
	return []string{
		"__pycache__",
		"node_modules",
		"venv",
		".git",
		".svn",
		".hg",
		"dist",
		"build",
		"target",
	}
}

// Collect walks root once and returns the full record set. Per-entry errors
// become inaccessible records; only a bad root fails the call.
func Collect(ctx context.Context, root string, opts Options) (*ScanResult, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}

	exclude := make(map[string]struct{})
	if !opts.DisableDefaultExcludes {
		for _, name := range DefaultExcludeNames() {
			exclude[name] = struct{}{}
		}
	}
	for _, name := range opts.ExcludeNames {
		if name = strings.TrimSpace(name); name != "" {
			exclude[name] = struct{}{}
		}
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Scanning"),
			progressbar.OptionShowCount(),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetVisibility(progressVisible()),
		)
	}

	res := &ScanResult{
		Root:         absRoot,
		ExcludeNames: sortedKeys(exclude),
	}
	recorded := make(map[string]int) // path -> index into res.Records

	w := newStackWalker(opts.FollowSymlinks)
	walkErr := w.Walk(ctx, absRoot, func(path string, d fs.DirEntry, err error) error {
		depth := depthOf(absRoot, path)
		if err != nil {
			if idx, ok := recorded[path]; ok {
				// Directory already recorded; its listing failed.
				res.Records[idx].Error = err.Error()
				res.ErrorCount++
				logger.Warnf("Failed to read %s: %v", path, err)
				return nil
			}
			res.Records = append(res.Records, PathRecord{
				Path:  path,
				Name:  filepath.Base(path),
				Kind:  KindInaccessible,
				Depth: depth,
				Error: err.Error(),
			})
			res.ErrorCount++
			logger.Warnf("Failed to access %s: %v", path, err)
			return nil
		}
		if d == nil {
			return nil
		}

		name := d.Name()
		if path != absRoot && pruned(path, name, exclude, opts.IncludeHidden) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rec := buildRecord(path, name, depth, d, opts)
		recorded[path] = len(res.Records)
		res.Records = append(res.Records, rec)
		accumulate(res, &rec)
		if bar != nil {
			_ = bar.Add(1)
		}

		if d.IsDir() && opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return fs.SkipDir
		}
		return nil
	})
	if bar != nil {
		_ = bar.Finish()
	}
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(res.Records, func(i, j int) bool {
		return res.Records[i].Path < res.Records[j].Path
	})
	return res, nil
}

func buildRecord(path, name string, depth int, d fs.DirEntry, opts Options) PathRecord {
	rec := PathRecord{Path: path, Name: name, Depth: depth}

	if d.Type()&fs.ModeSymlink != 0 {
		// Only reachable with FollowSymlinks off; the walker resolves
		// links before the callback otherwise.
		li, lerr := d.Info()
		target, terr := os.Stat(path)
		if terr != nil {
			rec.Kind = KindInaccessible
			rec.Error = terr.Error()
			return rec
		}
		if target.IsDir() {
			rec.Kind = KindSymlinkDir
		} else {
			rec.Kind = KindSymlinkFile
		}
		if lerr == nil {
			rec.SizeBytes = li.Size()
			rec.ModTime = li.ModTime()
		}
		return rec
	}

	info, err := d.Info()
	if err != nil {
		rec.Kind = KindInaccessible
		rec.Error = err.Error()
		return rec
	}
	if d.IsDir() {
		rec.Kind = KindDir
		rec.ModTime = info.ModTime()
		return rec
	}

	rec.Kind = KindFile
	rec.SizeBytes = info.Size()
	rec.ModTime = info.ModTime()
	rec.Extension = strings.ToLower(filepath.Ext(name))
	if ft, err := fileTimes(path); err == nil {
		rec.Times = ft
	}
	if opts.DetectMime {
		if mime, err := detectMime(path); err == nil {
			rec.MimeType = mime
		}
	}
	return rec
}

func accumulate(res *ScanResult, rec *PathRecord) {
	switch rec.Kind {
	case KindFile:
		res.TotalFiles++
		res.TotalSizeBytes += rec.SizeBytes
	case KindDir:
		res.TotalDirs++
	case KindSymlinkFile, KindSymlinkDir:
		res.TotalSymlinks++
	case KindInaccessible:
		res.ErrorCount++
	}
}

func pruned(path, name string, exclude map[string]struct{}, includeHidden bool) bool {
	if _, ok := exclude[name]; ok {
		return true
	}
	if !includeHidden && isHidden(path, name) {
		return true
	}
	return false
}

func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func progressVisible() bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv("DIRSCOUT_DISABLE_PROGRESS")))
	return value != "1" && value != "true" && value != "yes" && value != "on"
}
