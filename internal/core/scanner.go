package core

import (
	"time"

	"go.uber.org/zap"

	"github.com/rootliu/pan-cleaner/internal/analyzer"
	"github.com/rootliu/pan-cleaner/internal/config"
	"github.com/rootliu/pan-cleaner/internal/duplicates"
	"github.com/rootliu/pan-cleaner/pkg/models"
)

// ProgressCallback is called to report scan progress
type ProgressCallback func(phase string, current, total int, message string)

// Scanner runs one analysis pass over a materialized catalog and assembles
// the result into a ScanSnapshot. It never persists anything itself; the
// caller hands the finished snapshot to the cache service.
type Scanner struct {
	config           *config.Config
	logger           *zap.Logger
	categories       []analyzer.CategoryDef
	progressCallback ProgressCallback
}

// NewScanner creates a new scanner instance
func NewScanner(cfg *config.Config, logger *zap.Logger) (*Scanner, error) {
	s := &Scanner{
		config: cfg,
		logger: logger,
	}

	if cfg.CategoriesFile != "" {
		defs, err := analyzer.LoadCategories(cfg.CategoriesFile)
		if err != nil {
			return nil, err
		}
		s.categories = defs
		logger.Info("Loaded custom categories",
			zap.String("file", cfg.CategoriesFile),
			zap.Int("categories", len(defs)))
	} else {
		s.categories = analyzer.DefaultCategories()
	}

	return s, nil
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(cb ProgressCallback) {
	s.progressCallback = cb
}

// reportProgress calls the progress callback if set
func (s *Scanner) reportProgress(phase string, current, total int, message string) {
	if s.progressCallback != nil {
		s.progressCallback(phase, current, total, message)
	}
}

// Scan analyzes the catalog and returns the assembled snapshot. The
// snapshot's time stamps are set on save, not here.
func (s *Scanner) Scan(catalog models.Catalog, key models.Key) (*models.ScanSnapshot, error) {
	start := time.Now()
	s.logger.Info("Starting scan",
		zap.String("provider", key.Provider),
		zap.String("account", key.Account),
		zap.Int("entries", len(catalog)))

	threshold, err := s.config.ThresholdBytes()
	if err != nil {
		return nil, err
	}

	for i := range catalog {
		catalog[i].Normalize()
	}

	s.reportProgress("analyzing", 0, len(catalog), "Categorizing entries...")
	an := analyzer.New(catalog, analyzer.WithCategories(s.categories))
	stats := an.Statistics(threshold)
	largeFiles := an.LargeFiles(threshold)
	executables := an.Executables()

	s.reportProgress("duplicates", 0, len(catalog), "Detecting duplicates...")
	finder := duplicates.NewFinder(catalog)
	results := finder.Results()

	snapshot := &models.ScanSnapshot{
		Provider:         key.Provider,
		Account:          key.Account,
		Statistics:       stats,
		DuplicateFiles:   results.Files,
		DuplicateFolders: results.Folders,
		LargeFiles:       make(map[string][]models.FileDetail, len(largeFiles)),
		Executables:      make([]models.FileDetail, 0, len(executables)),
	}
	for cat, files := range largeFiles {
		details := make([]models.FileDetail, 0, len(files))
		for _, f := range files {
			details = append(details, fileDetail(f))
		}
		snapshot.LargeFiles[cat] = details
	}
	for _, f := range executables {
		snapshot.Executables = append(snapshot.Executables, fileDetail(f))
	}

	s.logger.Info("Scan complete",
		zap.Int("duplicate_file_groups", len(results.Files)),
		zap.Int("duplicate_folder_groups", len(results.Folders)),
		zap.Int64("wasted_space", results.TotalWastedSpace()),
		zap.Duration("duration", time.Since(start)))

	return snapshot, nil
}

func fileDetail(e models.Entry) models.FileDetail {
	return models.FileDetail{
		Path:      e.Path,
		Name:      e.Name,
		Size:      e.Size,
		Extension: e.Extension,
	}
}
