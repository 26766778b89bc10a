package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rootliu/pan-cleaner/internal/cache"
	"github.com/rootliu/pan-cleaner/pkg/models"
)

// Store persists scan snapshots inside a SQLite database, one row per
// cache key with the snapshot serialized as a JSON payload.
type Store struct {
	db *sql.DB
}

// Open initializes (or reuses) a SQLite database at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path cannot be empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS scan_snapshots (
        cache_key TEXT PRIMARY KEY,
        provider TEXT NOT NULL,
        account TEXT NOT NULL,
        scan_time INTEGER NOT NULL,
        last_updated INTEGER NOT NULL,
        payload BLOB NOT NULL
);
`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Save writes the snapshot under its key, replacing any prior row.
func (s *Store) Save(ctx context.Context, key models.Key, snapshot *models.ScanSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO scan_snapshots(cache_key, provider, account, scan_time, last_updated, payload)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(cache_key) DO UPDATE SET
        provider=excluded.provider,
        account=excluded.account,
        scan_time=excluded.scan_time,
        last_updated=excluded.last_updated,
        payload=excluded.payload
`, key.CacheKey(), key.Provider, key.Account,
		snapshot.ScanTime.UnixNano(), snapshot.LastUpdated.UnixNano(), payload)
	if err != nil {
		return fmt.Errorf("save snapshot %s/%s: %w", key.Provider, key.Account, err)
	}
	return nil
}

// Load retrieves the snapshot stored under key.
func (s *Store) Load(ctx context.Context, key models.Key) (*models.ScanSnapshot, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
SELECT payload FROM scan_snapshots WHERE cache_key = ?
`, key.CacheKey()).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query snapshot: %w", err)
	}

	var snapshot models.ScanSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snapshot, true, nil
}

// Clear deletes the snapshot stored under key, if any.
func (s *Store) Clear(ctx context.Context, key models.Key) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scan_snapshots WHERE cache_key = ?`, key.CacheKey()); err != nil {
		return fmt.Errorf("clear snapshot %s/%s: %w", key.Provider, key.Account, err)
	}
	return nil
}

// Info returns snapshot timestamps without decoding the payload.
func (s *Store) Info(ctx context.Context, key models.Key) (*cache.Info, bool, error) {
	var (
		provider    string
		account     string
		scanTime    int64
		lastUpdated int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT provider, account, scan_time, last_updated FROM scan_snapshots WHERE cache_key = ?
`, key.CacheKey()).Scan(&provider, &account, &scanTime, &lastUpdated)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query snapshot info: %w", err)
	}

	return &cache.Info{
		Provider:    provider,
		Account:     account,
		ScanTime:    time.Unix(0, scanTime),
		LastUpdated: time.Unix(0, lastUpdated),
	}, true, nil
}
