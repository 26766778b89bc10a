package models

// CategoryStats holds the count and byte total for one file category.
type CategoryStats struct {
	Count int   `json:"count"`
	Size  int64 `json:"size"`
}

// LargeFileStats aggregates the files over the large-file threshold.
type LargeFileStats struct {
	Count      int                      `json:"count"`
	Size       int64                    `json:"size"`
	ByCategory map[string]CategoryStats `json:"by_category"`
}

// Statistics contains the aggregate numbers for one catalog.
type Statistics struct {
	TotalFiles   int                      `json:"total_files"`
	TotalFolders int                      `json:"total_folders"`
	TotalSize    int64                    `json:"total_size"`
	Categories   map[string]CategoryStats `json:"categories"`
	LargeFiles   LargeFileStats           `json:"large_files"`
	Executables  CategoryStats            `json:"executables"`
}
