package catalog

import (
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rootliu/pan-cleaner/pkg/models"
)

// Walker builds a catalog from a local directory tree. File contents are
// never read, so entries carry no hash and local files are never reported
// as duplicates; the walker exists for statistics, large-file and folder
// structure analysis over local data.
type Walker struct {
	logger *zap.Logger
}

// NewWalker creates a new catalog walker
func NewWalker(logger *zap.Logger) *Walker {
	return &Walker{logger: logger}
}

// Walk enumerates root recursively into catalog entries. Paths are recorded
// relative to root with a leading slash, matching provider listing layout.
func (w *Walker) Walk(root string) (models.Catalog, error) {
	var catalog models.Catalog

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("Skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		entryPath := "/" + filepath.ToSlash(rel)

		if d.IsDir() {
			catalog = append(catalog, models.NewDirEntry(entryPath, d.Name()))
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			w.logger.Warn("Skipping unreadable file", zap.String("path", path), zap.Error(infoErr))
			return nil
		}

		entry := models.NewFileEntry(entryPath, d.Name(), info.Size(), "")
		entry.Modified = info.ModTime()
		catalog = append(catalog, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.logger.Debug("Walked local tree",
		zap.String("root", root),
		zap.Int("entries", len(catalog)))
	return catalog, nil
}
