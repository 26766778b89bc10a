package duplicates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/rootliu/pan-cleaner/pkg/models"
)

// Finder detects duplicate files and duplicate folders within one catalog.
// Detection runs once; the memoized Results are reused by every accessor.
type Finder struct {
	files   []models.Entry
	folders []models.Entry

	// files sorted by path, for descendant range lookups
	sortedFiles []models.Entry

	results *Results
}

// Results holds the outcome of one detection pass.
type Results struct {
	Files   []models.DuplicateFileGroup
	Folders []models.DuplicateFolderGroup
}

// TotalWastedSpace sums the recoverable bytes over both group kinds.
func (r *Results) TotalWastedSpace() int64 {
	var total int64
	for _, g := range r.Files {
		total += g.WastedSpace
	}
	for _, g := range r.Folders {
		total += g.WastedSpace
	}
	return total
}

// Summary condenses the detection outcome into group and member counts.
type Summary struct {
	FileGroups       int   `json:"duplicate_file_groups"`
	FilesTotal       int   `json:"duplicate_files_total"`
	FolderGroups     int   `json:"duplicate_folder_groups"`
	FoldersTotal     int   `json:"duplicate_folders_total"`
	TotalWastedSpace int64 `json:"total_wasted_space"`
}

// NewFinder creates a finder over one catalog.
func NewFinder(catalog models.Catalog) *Finder {
	f := &Finder{}
	for _, e := range catalog {
		if e.IsDir {
			f.folders = append(f.folders, e)
		} else {
			f.files = append(f.files, e)
		}
	}
	f.sortedFiles = make([]models.Entry, len(f.files))
	copy(f.sortedFiles, f.files)
	sort.Slice(f.sortedFiles, func(i, j int) bool {
		return f.sortedFiles[i].Path < f.sortedFiles[j].Path
	})
	return f
}

// Results runs both detectors on first call and returns the memoized outcome.
func (f *Finder) Results() *Results {
	if f.results == nil {
		f.results = &Results{
			Files:   f.findDuplicateFiles(),
			Folders: f.findDuplicateFolders(),
		}
	}
	return f.results
}

// DuplicateFiles returns the duplicate file groups, largest waste first.
func (f *Finder) DuplicateFiles() []models.DuplicateFileGroup {
	return f.Results().Files
}

// DuplicateFolders returns the duplicate folder groups, largest waste first.
func (f *Finder) DuplicateFolders() []models.DuplicateFolderGroup {
	return f.Results().Folders
}

// TotalWastedSpace sums wasted space over both group kinds.
func (f *Finder) TotalWastedSpace() int64 {
	return f.Results().TotalWastedSpace()
}

// Summarize reports group and member counts for both kinds.
func (f *Finder) Summarize() Summary {
	r := f.Results()
	s := Summary{
		FileGroups:       len(r.Files),
		FolderGroups:     len(r.Folders),
		TotalWastedSpace: r.TotalWastedSpace(),
	}
	for _, g := range r.Files {
		s.FilesTotal += g.Count
	}
	for _, g := range r.Folders {
		s.FoldersTotal += g.Count
	}
	return s
}

// findDuplicateFiles groups files by size, then by hash within each size
// bucket. Zero-size files are ignored; files without a hash can never be
// proven duplicate and are skipped.
func (f *Finder) findDuplicateFiles() []models.DuplicateFileGroup {
	sizeBuckets := make(map[int64][]models.Entry)
	for _, file := range f.files {
		if file.Size > 0 {
			sizeBuckets[file.Size] = append(sizeBuckets[file.Size], file)
		}
	}

	// Iterate sizes in ascending order so group discovery order, and with
	// it the tie order of the final sort, is deterministic.
	sizes := make([]int64, 0, len(sizeBuckets))
	for size := range sizeBuckets {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	var groups []models.DuplicateFileGroup
	for _, size := range sizes {
		bucket := sizeBuckets[size]
		if len(bucket) < 2 {
			continue
		}

		hashBuckets := make(map[string][]models.Entry)
		var hashOrder []string
		for _, file := range bucket {
			if file.Hash == "" {
				continue
			}
			if _, seen := hashBuckets[file.Hash]; !seen {
				hashOrder = append(hashOrder, file.Hash)
			}
			hashBuckets[file.Hash] = append(hashBuckets[file.Hash], file)
		}

		for _, hash := range hashOrder {
			members := hashBuckets[hash]
			if len(members) < 2 {
				continue
			}
			group := models.DuplicateFileGroup{
				Hash:        hash,
				Size:        size,
				Count:       len(members),
				WastedSpace: size * int64(len(members)-1),
			}
			for _, m := range members {
				group.Files = append(group.Files, models.FileRef{Path: m.Path, Name: m.Name, Size: m.Size})
			}
			groups = append(groups, group)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].WastedSpace > groups[j].WastedSpace
	})
	return groups
}

// findDuplicateFolders groups folders by a signature over their descendant
// files. Folders with no descendant files have no signature and never match.
func (f *Finder) findDuplicateFolders() []models.DuplicateFolderGroup {
	type member struct {
		folder models.Entry
		size   int64
	}

	sigMembers := make(map[string][]member)
	var sigOrder []string

	// Folders in path order so signature discovery order is deterministic.
	folders := make([]models.Entry, len(f.folders))
	copy(folders, f.folders)
	sort.Slice(folders, func(i, j int) bool { return folders[i].Path < folders[j].Path })

	for _, folder := range folders {
		sig, size := f.folderSignature(folder.Path)
		if sig == "" {
			continue
		}
		if _, seen := sigMembers[sig]; !seen {
			sigOrder = append(sigOrder, sig)
		}
		sigMembers[sig] = append(sigMembers[sig], member{folder: folder, size: size})
	}

	var groups []models.DuplicateFolderGroup
	for _, sig := range sigOrder {
		members := sigMembers[sig]
		if len(members) < 2 {
			continue
		}

		var totalSize int64
		for _, m := range members {
			totalSize += m.size
		}
		avgSize := totalSize / int64(len(members))

		group := models.DuplicateFolderGroup{
			Signature:   sig,
			Count:       len(members),
			Size:        avgSize,
			WastedSpace: avgSize * int64(len(members)-1),
		}
		for _, m := range members {
			group.Folders = append(group.Folders, models.FolderRef{Path: m.folder.Path, Name: m.folder.Name})
		}
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].WastedSpace > groups[j].WastedSpace
	})
	return groups
}

// folderSignature hashes the sorted "relpath:size:hash" lines of every file
// under folderPath and returns the signature together with the total content
// size. An empty signature means the folder has no descendant files.
func (f *Finder) folderSignature(folderPath string) (string, int64) {
	prefix := folderPath + "/"

	// Binary search the sorted file list for the descendant range instead
	// of scanning every file per folder.
	start := sort.Search(len(f.sortedFiles), func(i int) bool {
		return f.sortedFiles[i].Path >= prefix
	})

	var lines []string
	var totalSize int64
	for i := start; i < len(f.sortedFiles); i++ {
		file := f.sortedFiles[i]
		if !strings.HasPrefix(file.Path, prefix) {
			break
		}
		rel := file.Path[len(prefix):]
		lines = append(lines, fmt.Sprintf("%s:%d:%s", rel, file.Size, file.Hash))
		totalSize += file.Size
	}

	if len(lines) == 0 {
		return "", 0
	}

	sort.Strings(lines)
	digest := xxh3.HashString(strings.Join(lines, "\n"))
	return fmt.Sprintf("%016x", digest), totalSize
}
