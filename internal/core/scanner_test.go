package core

import (
	"testing"

	"go.uber.org/zap"

	"github.com/rootliu/pan-cleaner/internal/config"
	"github.com/rootliu/pan-cleaner/pkg/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Provider:           "baidu",
		Account:            "alice",
		LargeFileThreshold: "100B",
	}
}

func TestScanner_NewScanner(t *testing.T) {
	scanner, err := NewScanner(testConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}
	if scanner == nil {
		t.Fatal("NewScanner() returned nil")
	}
}

func TestScanner_NewScanner_BadCategoriesFile(t *testing.T) {
	cfg := testConfig()
	cfg.CategoriesFile = "does/not/exist.yaml"
	if _, err := NewScanner(cfg, zap.NewNop()); err == nil {
		t.Error("NewScanner() with missing categories file should fail")
	}
}

func TestScanner_Scan(t *testing.T) {
	catalog := models.Catalog{
		models.NewDirEntry("/f1", "f1"),
		models.NewDirEntry("/f2", "f2"),
		models.NewFileEntry("/f1/movie.mp4", "movie.mp4", 1000, "H"),
		models.NewFileEntry("/f2/movie.mp4", "movie.mp4", 1000, "H"),
		models.NewFileEntry("/setup.exe", "setup.exe", 150, ""),
		models.NewFileEntry("/notes.txt", "notes.txt", 10, ""),
	}

	scanner, err := NewScanner(testConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	key := models.Key{Provider: "baidu", Account: "alice"}
	snapshot, err := scanner.Scan(catalog, key)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if snapshot.Provider != "baidu" || snapshot.Account != "alice" {
		t.Errorf("snapshot key = %s/%s, want baidu/alice", snapshot.Provider, snapshot.Account)
	}
	if snapshot.Statistics.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", snapshot.Statistics.TotalFiles)
	}
	if snapshot.Statistics.TotalFolders != 2 {
		t.Errorf("TotalFolders = %d, want 2", snapshot.Statistics.TotalFolders)
	}

	// The two movie copies form one duplicate file group and make /f1 and
	// /f2 a duplicate folder pair.
	if len(snapshot.DuplicateFiles) != 1 {
		t.Fatalf("duplicate file groups = %d, want 1", len(snapshot.DuplicateFiles))
	}
	if snapshot.DuplicateFiles[0].WastedSpace != 1000 {
		t.Errorf("file group WastedSpace = %d, want 1000", snapshot.DuplicateFiles[0].WastedSpace)
	}
	if len(snapshot.DuplicateFolders) != 1 {
		t.Fatalf("duplicate folder groups = %d, want 1", len(snapshot.DuplicateFolders))
	}

	// Threshold 100B: both movies and the installer are large.
	summary := snapshot.Summary()
	if summary.LargeFileCount != 3 {
		t.Errorf("LargeFileCount = %d, want 3", summary.LargeFileCount)
	}
	if summary.ExecutableCount != 1 {
		t.Errorf("ExecutableCount = %d, want 1", summary.ExecutableCount)
	}
	if summary.WastedSpace != 1000+1000 {
		t.Errorf("WastedSpace = %d, want 2000", summary.WastedSpace)
	}
}

func TestScanner_Scan_EmptyCatalog(t *testing.T) {
	scanner, err := NewScanner(testConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	snapshot, err := scanner.Scan(nil, models.Key{Provider: "baidu", Account: "alice"})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(snapshot.DuplicateFiles) != 0 || len(snapshot.DuplicateFolders) != 0 {
		t.Error("empty catalog produced duplicate groups")
	}
	if snapshot.Summary().WastedSpace != 0 {
		t.Error("empty catalog produced wasted space")
	}
}

func TestScanner_ProgressCallback(t *testing.T) {
	scanner, err := NewScanner(testConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	var phases []string
	scanner.SetProgressCallback(func(phase string, current, total int, message string) {
		phases = append(phases, phase)
	})

	if _, err := scanner.Scan(nil, models.Key{Provider: "baidu", Account: "alice"}); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(phases) == 0 {
		t.Error("progress callback never invoked")
	}
}
