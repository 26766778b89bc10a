package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rootliu/pan-cleaner/pkg/models"
)

// Info describes a stored snapshot without carrying its payload.
type Info struct {
	Provider    string    `json:"provider"`
	Account     string    `json:"account"`
	ScanTime    time.Time `json:"scan_time"`
	LastUpdated time.Time `json:"last_updated"`
}

// Store persists one ScanSnapshot per key. Implementations report failures
// as errors; a missing snapshot is signalled by found=false, not an error.
type Store interface {
	Save(ctx context.Context, key models.Key, snapshot *models.ScanSnapshot) error
	Load(ctx context.Context, key models.Key) (*models.ScanSnapshot, bool, error)
	Clear(ctx context.Context, key models.Key) error
	Info(ctx context.Context, key models.Key) (*Info, bool, error)
}

// MemoryStore keeps encoded snapshots in process memory. Used in tests and
// as a fallback when no database path is configured. Snapshots are stored
// as JSON payloads so loaded copies never alias stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[string][]byte)}
}

// Save stores the encoded snapshot under key, replacing any prior one.
func (s *MemoryStore) Save(ctx context.Context, key models.Key, snapshot *models.ScanSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[key.CacheKey()] = data
	return nil
}

// Load returns the snapshot under key, or found=false when none exists.
func (s *MemoryStore) Load(ctx context.Context, key models.Key) (*models.ScanSnapshot, bool, error) {
	s.mu.RLock()
	data, ok := s.payloads[key.CacheKey()]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	var snapshot models.ScanSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, true, nil
}

// Clear removes the snapshot under key. Clearing an absent key is not an error.
func (s *MemoryStore) Clear(ctx context.Context, key models.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.payloads, key.CacheKey())
	return nil
}

// Info returns the snapshot timestamps without the payload.
func (s *MemoryStore) Info(ctx context.Context, key models.Key) (*Info, bool, error) {
	snapshot, found, err := s.Load(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	return &Info{
		Provider:    snapshot.Provider,
		Account:     snapshot.Account,
		ScanTime:    snapshot.ScanTime,
		LastUpdated: snapshot.LastUpdated,
	}, true, nil
}
