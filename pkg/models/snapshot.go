package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// Key identifies one snapshot: which provider and which account it belongs to.
type Key struct {
	Provider string `json:"provider"`
	Account  string `json:"account"`
}

// CacheKey returns the stable string used to address the snapshot in storage.
func (k Key) CacheKey() string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s", k.Provider, k.Account)))
	return hex.EncodeToString(sum[:])
}

// ScanSnapshot is the persisted result of one full analysis pass.
type ScanSnapshot struct {
	Provider    string    `json:"provider"`
	Account     string    `json:"account"`
	ScanTime    time.Time `json:"scan_time"`
	LastUpdated time.Time `json:"last_updated"`

	Statistics       Statistics              `json:"statistics"`
	DuplicateFiles   []DuplicateFileGroup    `json:"duplicate_files"`
	DuplicateFolders []DuplicateFolderGroup  `json:"duplicate_folders"`
	LargeFiles       map[string][]FileDetail `json:"large_files"`
	Executables      []FileDetail            `json:"executables"`
}

// Summary is the condensed view of a snapshot returned after a scan.
type Summary struct {
	TotalFiles            int   `json:"total_files"`
	TotalFolders          int   `json:"total_folders"`
	TotalSize             int64 `json:"total_size"`
	DuplicateFileGroups   int   `json:"duplicate_file_groups"`
	DuplicateFolderGroups int   `json:"duplicate_folder_groups"`
	LargeFileCount        int   `json:"large_file_count"`
	ExecutableCount       int   `json:"executable_count"`
	WastedSpace           int64 `json:"wasted_space"`
}

// WastedSpace sums the recoverable bytes over both duplicate group kinds.
func (s *ScanSnapshot) WastedSpace() int64 {
	var total int64
	for _, g := range s.DuplicateFiles {
		total += g.WastedSpace
	}
	for _, g := range s.DuplicateFolders {
		total += g.WastedSpace
	}
	return total
}

// Summary derives the condensed view from the snapshot contents.
func (s *ScanSnapshot) Summary() Summary {
	largeCount := 0
	for _, files := range s.LargeFiles {
		largeCount += len(files)
	}
	return Summary{
		TotalFiles:            s.Statistics.TotalFiles,
		TotalFolders:          s.Statistics.TotalFolders,
		TotalSize:             s.Statistics.TotalSize,
		DuplicateFileGroups:   len(s.DuplicateFiles),
		DuplicateFolderGroups: len(s.DuplicateFolders),
		LargeFileCount:        largeCount,
		ExecutableCount:       len(s.Executables),
		WastedSpace:           s.WastedSpace(),
	}
}
