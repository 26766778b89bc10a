package models

import "testing"

func TestKey_CacheKey(t *testing.T) {
	k1 := Key{Provider: "baidu", Account: "alice"}
	k2 := Key{Provider: "baidu", Account: "alice"}
	k3 := Key{Provider: "aliyun", Account: "alice"}

	if k1.CacheKey() != k2.CacheKey() {
		t.Error("identical keys produced different cache keys")
	}
	if k1.CacheKey() == k3.CacheKey() {
		t.Error("different providers produced the same cache key")
	}
	if len(k1.CacheKey()) != 32 {
		t.Errorf("cache key length = %d, want 32", len(k1.CacheKey()))
	}
}

func TestScanSnapshot_Summary(t *testing.T) {
	snapshot := &ScanSnapshot{
		Statistics: Statistics{
			TotalFiles:   10,
			TotalFolders: 3,
			TotalSize:    5000,
		},
		DuplicateFiles: []DuplicateFileGroup{
			{Hash: "h1", Size: 100, Count: 3, WastedSpace: 200},
			{Hash: "h2", Size: 50, Count: 2, WastedSpace: 50},
		},
		DuplicateFolders: []DuplicateFolderGroup{
			{Signature: "s1", Count: 2, Size: 300, WastedSpace: 300},
		},
		LargeFiles: map[string][]FileDetail{
			"video": {{Path: "/v.mp4"}},
			"other": {{Path: "/x.bin"}, {Path: "/y.bin"}},
		},
		Executables: []FileDetail{{Path: "/setup.exe"}},
	}

	summary := snapshot.Summary()

	if summary.TotalFiles != 10 || summary.TotalFolders != 3 || summary.TotalSize != 5000 {
		t.Errorf("summary totals = %+v, want 10 files, 3 folders, 5000 bytes", summary)
	}
	if summary.DuplicateFileGroups != 2 {
		t.Errorf("DuplicateFileGroups = %d, want 2", summary.DuplicateFileGroups)
	}
	if summary.DuplicateFolderGroups != 1 {
		t.Errorf("DuplicateFolderGroups = %d, want 1", summary.DuplicateFolderGroups)
	}
	if summary.LargeFileCount != 3 {
		t.Errorf("LargeFileCount = %d, want 3", summary.LargeFileCount)
	}
	if summary.ExecutableCount != 1 {
		t.Errorf("ExecutableCount = %d, want 1", summary.ExecutableCount)
	}
	if summary.WastedSpace != 550 {
		t.Errorf("WastedSpace = %d, want 550", summary.WastedSpace)
	}
}

func TestScanSnapshot_WastedSpaceMatchesGroups(t *testing.T) {
	snapshot := &ScanSnapshot{
		DuplicateFiles: []DuplicateFileGroup{
			{Size: 1000, Count: 3, WastedSpace: 2000},
		},
		DuplicateFolders: []DuplicateFolderGroup{
			{Size: 10, Count: 2, WastedSpace: 10},
		},
	}

	var manual int64
	for _, g := range snapshot.DuplicateFiles {
		manual += g.WastedSpace
	}
	for _, g := range snapshot.DuplicateFolders {
		manual += g.WastedSpace
	}

	if got := snapshot.WastedSpace(); got != manual {
		t.Errorf("WastedSpace() = %d, want %d", got, manual)
	}
}
