package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rootliu/pan-cleaner/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSnapshot() *models.ScanSnapshot {
	return &models.ScanSnapshot{
		Provider:    "quark",
		Account:     "bob",
		ScanTime:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		LastUpdated: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Statistics: models.Statistics{
			TotalFiles:   2,
			TotalFolders: 1,
			TotalSize:    1500,
			Categories: map[string]models.CategoryStats{
				"video": {Count: 1, Size: 1000},
				"other": {Count: 1, Size: 500},
			},
			LargeFiles: models.LargeFileStats{
				ByCategory: map[string]models.CategoryStats{},
			},
		},
		DuplicateFiles: []models.DuplicateFileGroup{
			{
				Hash: "abc", Size: 500, Count: 2, WastedSpace: 500,
				Files: []models.FileRef{
					{Path: "/x", Name: "x", Size: 500},
					{Path: "/y", Name: "y", Size: 500},
				},
			},
		},
		DuplicateFolders: []models.DuplicateFolderGroup{},
		LargeFiles:       map[string][]models.FileDetail{},
		Executables:      []models.FileDetail{},
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := models.Key{Provider: "quark", Account: "bob"}

	snapshot := sampleSnapshot()
	if err := store.Save(ctx, key, snapshot); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, found, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !found {
		t.Fatal("Load() found = false after Save")
	}
	if !reflect.DeepEqual(snapshot, loaded) {
		t.Errorf("round trip mismatch:\n save = %+v\n load = %+v", snapshot, loaded)
	}
}

func TestStore_Load_Missing(t *testing.T) {
	store := openTestStore(t)

	_, found, err := store.Load(context.Background(), models.Key{Provider: "baidu", Account: "nobody"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if found {
		t.Error("Load() found = true for missing key")
	}
}

func TestStore_Save_Replaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := models.Key{Provider: "quark", Account: "bob"}

	if err := store.Save(ctx, key, sampleSnapshot()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second := sampleSnapshot()
	second.Statistics.TotalFiles = 42
	if err := store.Save(ctx, key, second); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	loaded, _, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Statistics.TotalFiles != 42 {
		t.Errorf("TotalFiles = %d, want 42", loaded.Statistics.TotalFiles)
	}
}

func TestStore_Clear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := models.Key{Provider: "quark", Account: "bob"}

	if err := store.Save(ctx, key, sampleSnapshot()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(ctx, key); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, found, _ := store.Load(ctx, key); found {
		t.Error("snapshot still present after Clear()")
	}
	if err := store.Clear(ctx, key); err != nil {
		t.Errorf("Clear() of absent key error = %v", err)
	}
}

func TestStore_Info(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := models.Key{Provider: "quark", Account: "bob"}

	if _, found, err := store.Info(ctx, key); err != nil || found {
		t.Errorf("Info() on empty store = (found=%v, err=%v), want (false, nil)", found, err)
	}

	snapshot := sampleSnapshot()
	if err := store.Save(ctx, key, snapshot); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, found, err := store.Info(ctx, key)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if !found {
		t.Fatal("Info() found = false after Save")
	}
	if info.Provider != "quark" || info.Account != "bob" {
		t.Errorf("info key = %s/%s, want quark/bob", info.Provider, info.Account)
	}
	if !info.ScanTime.Equal(snapshot.ScanTime) {
		t.Errorf("info ScanTime = %v, want %v", info.ScanTime, snapshot.ScanTime)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("Open(\"\") should fail")
	}
}
