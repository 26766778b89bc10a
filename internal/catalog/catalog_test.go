package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestLoadListing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "listing.json")

	content := `[
  {"path": "/docs", "name": "docs", "is_dir": true},
  {"path": "/docs/Report.PDF", "name": "Report.PDF", "size": 1234, "hash": "abc"},
  {"path": "/readme", "name": "readme", "size": 10}
]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write listing: %v", err)
	}

	catalog, err := LoadListing(path)
	if err != nil {
		t.Fatalf("LoadListing() error = %v", err)
	}
	if len(catalog) != 3 {
		t.Fatalf("entry count = %d, want 3", len(catalog))
	}

	if !catalog[0].IsDir {
		t.Error("first entry should be a directory")
	}
	if catalog[1].Extension != "pdf" {
		t.Errorf("extension = %q, want pdf (normalized)", catalog[1].Extension)
	}
	if catalog[2].Extension != "" {
		t.Errorf("extension = %q, want empty for name without dot", catalog[2].Extension)
	}
}

func TestLoadListing_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := LoadListing(path); err == nil {
		t.Error("expected error for malformed listing")
	}
	if _, err := LoadListing(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing listing")
	}
}

func TestWalker_Walk(t *testing.T) {
	root := t.TempDir()

	if err := os.MkdirAll(filepath.Join(root, "sub"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "b.mp4"), []byte("data data"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	catalog, err := NewWalker(zap.NewNop()).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	byPath := make(map[string]int)
	for i, e := range catalog {
		byPath[e.Path] = i
	}

	idx, ok := byPath["/sub"]
	if !ok {
		t.Fatal("missing /sub directory entry")
	}
	if !catalog[idx].IsDir {
		t.Error("/sub not marked as directory")
	}

	idx, ok = byPath["/a.txt"]
	if !ok {
		t.Fatal("missing /a.txt entry")
	}
	if catalog[idx].Size != 5 {
		t.Errorf("/a.txt size = %d, want 5", catalog[idx].Size)
	}
	if catalog[idx].Hash != "" {
		t.Error("walker must not assign content hashes")
	}

	idx, ok = byPath["/sub/b.mp4"]
	if !ok {
		t.Fatal("missing /sub/b.mp4 entry")
	}
	if catalog[idx].Extension != "mp4" {
		t.Errorf("extension = %q, want mp4", catalog[idx].Extension)
	}
}
