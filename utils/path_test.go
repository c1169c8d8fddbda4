package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsPathWithin(t *testing.T) {
	root := t.TempDir()
	inner := filepath.Join(root, "sub", "report.json")
	if err := os.MkdirAll(filepath.Dir(inner), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(inner, []byte("{}"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if !IsPathWithin(inner, root) {
		t.Error("nested file should be within its root")
	}
	if !IsPathWithin(root, root) {
		t.Error("a root is within itself")
	}
	if IsPathWithin(filepath.Dir(root), root) {
		t.Error("parent directory is not within the root")
	}
	if IsPathWithin(filepath.Join(os.TempDir(), "elsewhere.json"), root) {
		t.Error("unrelated path is not within the root")
	}
}

func TestIsPathWithinSiblingPrefix(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "data")
	sibling := filepath.Join(base, "database", "x.txt")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// "database" shares a name prefix with "data" but is a sibling.
	if IsPathWithin(sibling, root) {
		t.Error("sibling with a shared name prefix must not count as within")
	}
}
