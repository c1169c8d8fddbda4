package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
)

type walker interface {
	Walk(ctx context.Context, startPath string, fn fs.WalkDirFunc) error
}

// stackWalker is an iterative depth-first walker. Children are pushed in
// reverse name order so entries are visited in lexicographic order.
type stackWalker struct {
	follow bool

	// visited holds resolved real paths when follow is true. Each real path
	// is handed to fn at most once, which also breaks symlink cycles. The
	// walk is sequential, so plain map access is safe.
	visited map[string]struct{}
}

func newStackWalker(follow bool) *stackWalker {
	w := &stackWalker{follow: follow}
	if follow {
		w.visited = make(map[string]struct{})
	}
	return w
}

func (w *stackWalker) Walk(ctx context.Context, startPath string, fn fs.WalkDirFunc) error {
	info, err := os.Stat(startPath)
	if err != nil {
		return fn(startPath, nil, err)
	}
	type item struct {
		path  string
		entry fs.DirEntry
	}
	stack := []item{{path: startPath, entry: fs.FileInfoToDirEntry(info)}}
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entry := current.entry
		descend := entry.IsDir()
		if w.follow {
			skip, rerr := w.resolve(current.path)
			if rerr != nil {
				if ferr := fn(current.path, entry, rerr); ferr != nil && ferr != fs.SkipDir {
					return ferr
				}
				continue
			}
			if skip {
				continue
			}
			if entry.Type()&fs.ModeSymlink != 0 {
				ti, terr := os.Stat(current.path)
				if terr != nil {
					if ferr := fn(current.path, entry, terr); ferr != nil && ferr != fs.SkipDir {
						return ferr
					}
					continue
				}
				entry = fs.FileInfoToDirEntry(ti)
				descend = ti.IsDir()
			}
		}

		if err := fn(current.path, entry, nil); err != nil {
			if err == fs.SkipDir {
				continue
			}
			return err
		}
		if !descend {
			continue
		}

		entries, err := os.ReadDir(current.path)
		if err != nil {
			if ferr := fn(current.path, entry, err); ferr != nil && ferr != fs.SkipDir {
				return ferr
			}
			continue
		}
		for i := len(entries) - 1; i >= 0; i-- {
			child := entries[i]
			stack = append(stack, item{
				path:  filepath.Join(current.path, child.Name()),
				entry: child,
			})
		}
	}
	return nil
}

// resolve maps path to its real path and reports whether that real path was
// already visited in this walk.
func (w *stackWalker) resolve(path string) (bool, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false, err
	}
	if _, seen := w.visited[resolved]; seen {
		return true, nil
	}
	w.visited[resolved] = struct{}{}
	return false, nil
}
