package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestWalkLexicographicOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "y.txt"), 1)
	writeFile(t, filepath.Join(root, "a", "z.txt"), 1)
	writeFile(t, filepath.Join(root, "a", "q.txt"), 1)

	var visited []string
	w := newStackWalker(false)
	err := w.Walk(context.Background(), root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			t.Fatalf("unexpected walk error at %s: %v", path, err)
		}
		rel, _ := filepath.Rel(root, path)
		visited = append(visited, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	want := []string{".", "a", filepath.Join("a", "q.txt"), filepath.Join("a", "z.txt"), "b", filepath.Join("b", "y.txt")}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited %v, want %v", visited, want)
		}
	}
}

func TestWalkSkipDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "skip", "inner.txt"), 1)
	writeFile(t, filepath.Join(root, "stay.txt"), 1)

	var visited []string
	w := newStackWalker(false)
	err := w.Walk(context.Background(), root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		visited = append(visited, path)
		if d.IsDir() && filepath.Base(path) == "skip" {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	for _, p := range visited {
		if filepath.Base(p) == "inner.txt" {
			t.Error("SkipDir did not prune directory contents")
		}
	}
	found := false
	for _, p := range visited {
		if filepath.Base(p) == "skip" {
			found = true
		}
	}
	if !found {
		t.Error("skipped directory itself should still be visited")
	}
}

func TestWalkFollowResolvesLinkedDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}
	base := t.TempDir()
	root := filepath.Join(base, "root")
	outside := filepath.Join(base, "outside")
	writeFile(t, filepath.Join(outside, "file.txt"), 1)
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	var visited []string
	w := newStackWalker(true)
	err := w.Walk(context.Background(), root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		visited = append(visited, path)
		if filepath.Base(path) == "linked" && !d.IsDir() {
			t.Error("linked directory entry not resolved to its target type")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	found := false
	for _, p := range visited {
		if filepath.Base(p) == "file.txt" {
			found = true
		}
	}
	if !found {
		t.Error("walk did not descend through the linked directory")
	}
}
