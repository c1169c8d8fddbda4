package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dirscout/analyzer"
	"dirscout/dupes"
	"dirscout/matcher"
	"dirscout/scanner"
)

func fixtureScan() *scanner.ScanResult {
	root := filepath.Join(string(filepath.Separator), "scan")
	t0 := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	return &scanner.ScanResult{
		Root:         root,
		ExcludeNames: []string{".git", "node_modules"},
		Records: []scanner.PathRecord{
			{Path: root, Name: "scan", Kind: scanner.KindDir, Depth: 0},
			{Path: filepath.Join(root, "a.txt"), Name: "a.txt", Kind: scanner.KindFile, Extension: ".txt", SizeBytes: 100, ModTime: t0, Depth: 1},
			{Path: filepath.Join(root, "locked"), Name: "locked", Kind: scanner.KindInaccessible, Depth: 1, Error: "permission denied"},
		},
		TotalFiles:     1,
		TotalDirs:      1,
		TotalSizeBytes: 100,
		ErrorCount:     1,
	}
}

func TestBuild(t *testing.T) {
	res := fixtureScan()
	agg := analyzer.Aggregate(res, 10)
	rep := Build(res, agg, nil, nil, nil)

	if rep.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %s", rep.SchemaVersion)
	}
	if rep.Root != res.Root {
		t.Errorf("Root = %s", rep.Root)
	}
	if rep.Summary.TotalFiles != 1 || rep.Summary.ErrorCount != 1 {
		t.Errorf("Summary = %+v", rep.Summary)
	}
	if len(rep.Inaccessible) != 1 || rep.Inaccessible[0].Error != "permission denied" {
		t.Errorf("Inaccessible = %+v", rep.Inaccessible)
	}
	if _, err := time.Parse(time.RFC3339, rep.GeneratedAt); err != nil {
		t.Errorf("GeneratedAt %q is not RFC3339: %v", rep.GeneratedAt, err)
	}
}

func TestWriteJSON(t *testing.T) {
	res := fixtureScan()
	rep := Build(res, analyzer.Aggregate(res, 10), &dupes.Result{}, []matcher.Match{}, nil)

	fileName := filepath.Join(t.TempDir(), "out.json")
	w, err := New(fileName, "json")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Write(rep, res); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if w.Name() != fileName {
		t.Errorf("Name() = %s, want %s", w.Name(), fileName)
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["schema_version"] != SchemaVersion {
		t.Errorf("schema_version = %v", decoded["schema_version"])
	}
	if decoded["root"] != res.Root {
		t.Errorf("root = %v", decoded["root"])
	}
	if _, ok := decoded["summary"]; !ok {
		t.Error("summary block missing")
	}
}

func TestWriteCSV(t *testing.T) {
	res := fixtureScan()
	rep := Build(res, analyzer.Aggregate(res, 10), nil, nil, nil)

	fileName := filepath.Join(t.TempDir(), "out.csv")
	w, err := New(fileName, "csv")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Write(rep, res); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(fileName)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != len(res.Records)+1 {
		t.Fatalf("got %d rows, want %d", len(rows), len(res.Records)+1)
	}
	if rows[0][0] != "path" || rows[0][5] != "kind" {
		t.Errorf("header = %v", rows[0])
	}
	// Rows follow record order; the file row carries size and mod time.
	if rows[2][3] != "100" || rows[2][5] != "file" {
		t.Errorf("file row = %v", rows[2])
	}
	if rows[3][5] != "inaccessible" || rows[3][7] != "permission denied" {
		t.Errorf("inaccessible row = %v", rows[3])
	}
}
