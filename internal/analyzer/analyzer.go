package analyzer

import (
	"sort"
	"strings"

	"github.com/rootliu/pan-cleaner/pkg/models"
)

// DefaultLargeFileThreshold is 100 MiB.
const DefaultLargeFileThreshold int64 = 100 * 1024 * 1024

// Analyzer classifies the entries of one catalog and computes aggregate
// statistics. All methods are pure functions over the catalog.
type Analyzer struct {
	files      []models.Entry
	dirCount   int
	categories []CategoryDef
	execSet    map[string]struct{}
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCategories overrides the built-in category priority list.
func WithCategories(defs []CategoryDef) Option {
	return func(a *Analyzer) {
		a.categories = defs
	}
}

// New creates an analyzer over one catalog.
func New(catalog models.Catalog, opts ...Option) *Analyzer {
	a := &Analyzer{
		categories: DefaultCategories(),
		execSet:    make(map[string]struct{}),
	}
	for _, e := range catalog {
		if e.IsDir {
			a.dirCount++
		} else {
			a.files = append(a.files, e)
		}
	}
	for _, opt := range opts {
		opt(a)
	}
	for _, ext := range ExecutableExtensions() {
		a.execSet[ext] = struct{}{}
	}
	return a
}

// CategoryOf returns the first category whose extension set contains ext,
// or "other" when none matches.
func (a *Analyzer) CategoryOf(ext string) string {
	ext = strings.ToLower(ext)
	for _, def := range a.categories {
		for _, e := range def.Extensions {
			if e == ext {
				return def.Name
			}
		}
	}
	return CategoryOther
}

// LargeFiles returns the files at or over threshold, grouped by category,
// each group sorted by size descending.
func (a *Analyzer) LargeFiles(threshold int64) map[string][]models.Entry {
	large := make(map[string][]models.Entry)
	for _, f := range a.files {
		if f.Size >= threshold {
			cat := a.CategoryOf(f.Extension)
			large[cat] = append(large[cat], f)
		}
	}
	for cat := range large {
		files := large[cat]
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].Size > files[j].Size
		})
	}
	return large
}

// Executables returns the files whose extension is in the executable set,
// sorted by size descending.
func (a *Analyzer) Executables() []models.Entry {
	var execs []models.Entry
	for _, f := range a.files {
		if _, ok := a.execSet[strings.ToLower(f.Extension)]; ok {
			execs = append(execs, f)
		}
	}
	sort.SliceStable(execs, func(i, j int) bool {
		return execs[i].Size > execs[j].Size
	})
	return execs
}

// TopLargest returns the n largest files across all categories.
func (a *Analyzer) TopLargest(n int) []models.Entry {
	files := make([]models.Entry, len(a.files))
	copy(files, a.files)
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Size > files[j].Size
	})
	if n > len(files) {
		n = len(files)
	}
	return files[:n]
}

// Statistics computes the aggregate counts and sizes for the catalog,
// using threshold for the large-file numbers.
func (a *Analyzer) Statistics(threshold int64) models.Statistics {
	stats := models.Statistics{
		TotalFiles:   len(a.files),
		TotalFolders: a.dirCount,
		Categories:   make(map[string]models.CategoryStats),
		LargeFiles: models.LargeFileStats{
			ByCategory: make(map[string]models.CategoryStats),
		},
	}

	for _, f := range a.files {
		stats.TotalSize += f.Size
		cat := a.CategoryOf(f.Extension)
		cs := stats.Categories[cat]
		cs.Count++
		cs.Size += f.Size
		stats.Categories[cat] = cs
	}

	for cat, files := range a.LargeFiles(threshold) {
		var size int64
		for _, f := range files {
			size += f.Size
		}
		stats.LargeFiles.Count += len(files)
		stats.LargeFiles.Size += size
		stats.LargeFiles.ByCategory[cat] = models.CategoryStats{Count: len(files), Size: size}
	}

	for _, f := range a.Executables() {
		stats.Executables.Count++
		stats.Executables.Size += f.Size
	}

	return stats
}
