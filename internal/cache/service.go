package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rootliu/pan-cleaner/pkg/models"
)

// Service wraps a Store and serializes read-modify-write operations per key,
// so a full-rescan Save and a post-delete InvalidatePaths can not interleave
// and persist a snapshot reflecting neither state.
type Service struct {
	store  Store
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// test hook
	now func() time.Time
}

// NewService creates a cache service over the given store.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
		now:    time.Now,
	}
}

// keyLock returns the mutex guarding one cache key.
func (s *Service) keyLock(key models.Key) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	ck := key.CacheKey()
	lock, ok := s.locks[ck]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[ck] = lock
	}
	return lock
}

// Save stamps the snapshot with the current scan time and writes it,
// unconditionally replacing any prior snapshot under the key.
func (s *Service) Save(ctx context.Context, key models.Key, snapshot *models.ScanSnapshot) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()
	snapshot.Provider = key.Provider
	snapshot.Account = key.Account
	snapshot.ScanTime = now
	snapshot.LastUpdated = now

	if err := s.store.Save(ctx, key, snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.logger.Info("Saved scan snapshot",
		zap.String("provider", key.Provider),
		zap.String("account", key.Account))
	return nil
}

// Load returns the stored snapshot for key, or found=false when no scan has
// been cached yet. Absence is a normal outcome, not an error.
func (s *Service) Load(ctx context.Context, key models.Key) (*models.ScanSnapshot, bool, error) {
	return s.store.Load(ctx, key)
}

// Clear removes the snapshot for key.
func (s *Service) Clear(ctx context.Context, key models.Key) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()
	return s.store.Clear(ctx, key)
}

// Info returns snapshot timestamps without loading the payload.
func (s *Service) Info(ctx context.Context, key models.Key) (*Info, bool, error) {
	return s.store.Info(ctx, key)
}

// InvalidatePaths removes the deleted paths from the stored snapshot and
// persists the shrunk result, without re-running any analysis. A missing
// snapshot is a no-op. The operation is idempotent: applying the same path
// set twice leaves the snapshot unchanged after the first application.
func (s *Service) InvalidatePaths(ctx context.Context, key models.Key, deletedPaths []string) error {
	if len(deletedPaths) == 0 {
		return nil
	}

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	snapshot, found, err := s.store.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if !found {
		s.logger.Debug("No snapshot to invalidate",
			zap.String("provider", key.Provider),
			zap.String("account", key.Account))
		return nil
	}

	deleted := make(map[string]struct{}, len(deletedPaths))
	for _, p := range deletedPaths {
		deleted[p] = struct{}{}
	}

	applyDeletions(snapshot, deleted)
	snapshot.LastUpdated = s.now()

	if err := s.store.Save(ctx, key, snapshot); err != nil {
		return fmt.Errorf("failed to save invalidated snapshot: %w", err)
	}

	s.logger.Info("Invalidated snapshot paths",
		zap.String("provider", key.Provider),
		zap.String("account", key.Account),
		zap.Int("paths", len(deletedPaths)))
	return nil
}

// applyDeletions shrinks every snapshot section in place. Groups falling
// below two members are dropped; counts and wasted space are recomputed
// from the remaining members.
func applyDeletions(snapshot *models.ScanSnapshot, deleted map[string]struct{}) {
	fileGroups := snapshot.DuplicateFiles[:0]
	for _, group := range snapshot.DuplicateFiles {
		files := group.Files[:0]
		for _, f := range group.Files {
			if _, gone := deleted[f.Path]; !gone {
				files = append(files, f)
			}
		}
		if len(files) < 2 {
			continue
		}
		group.Files = files
		group.Count = len(files)
		group.WastedSpace = group.Size * int64(len(files)-1)
		fileGroups = append(fileGroups, group)
	}
	snapshot.DuplicateFiles = fileGroups

	folderGroups := snapshot.DuplicateFolders[:0]
	for _, group := range snapshot.DuplicateFolders {
		folders := group.Folders[:0]
		for _, f := range group.Folders {
			if _, gone := deleted[f.Path]; !gone {
				folders = append(folders, f)
			}
		}
		if len(folders) < 2 {
			continue
		}
		group.Folders = folders
		group.Count = len(folders)
		group.WastedSpace = group.Size * int64(len(folders)-1)
		folderGroups = append(folderGroups, group)
	}
	snapshot.DuplicateFolders = folderGroups

	for cat, files := range snapshot.LargeFiles {
		kept := files[:0]
		for _, f := range files {
			if _, gone := deleted[f.Path]; !gone {
				kept = append(kept, f)
			}
		}
		snapshot.LargeFiles[cat] = kept
	}

	execs := snapshot.Executables[:0]
	for _, f := range snapshot.Executables {
		if _, gone := deleted[f.Path]; !gone {
			execs = append(execs, f)
		}
	}
	snapshot.Executables = execs
}
