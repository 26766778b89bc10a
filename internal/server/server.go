package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rootliu/pan-cleaner/internal/cache"
	"github.com/rootliu/pan-cleaner/pkg/models"
)

// Server exposes the cached scan results over a small JSON API. It serves
// whatever the cache holds; running scans and deletions is the caller's
// business, the server only reads snapshots and applies invalidations.
type Server struct {
	cache  *cache.Service
	logger *zap.Logger
}

// New creates a Server over the given cache service.
func New(cacheSvc *cache.Service, logger *zap.Logger) *Server {
	return &Server{cache: cacheSvc, logger: logger}
}

// Routes returns the HTTP handler that exposes the API endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/results/", s.handleResults)
	mux.HandleFunc("/api/cache/info", s.handleCacheInfo)
	mux.HandleFunc("/api/cache/clear", s.handleCacheClear)
	mux.HandleFunc("/api/invalidate", s.handleInvalidate)
	return mux
}

// Start runs the HTTP server until the provided context is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// keyFromRequest reads the snapshot key from query parameters. The key is
// always explicit per request; there is no ambient session state.
func keyFromRequest(r *http.Request) (models.Key, error) {
	provider := r.URL.Query().Get("provider")
	account := r.URL.Query().Get("account")
	if provider == "" || account == "" {
		return models.Key{}, errors.New("provider and account are required")
	}
	return models.Key{Provider: provider, Account: account}, nil
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key, err := keyFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snapshot, found, err := s.cache.Load(r.Context(), key)
	if err != nil {
		http.Error(w, fmt.Sprintf("load snapshot: %v", err), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "no scan snapshot, run a scan first", http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]any{
		"scan_time":    snapshot.ScanTime,
		"last_updated": snapshot.LastUpdated,
		"summary":      snapshot.Summary(),
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resultType := strings.TrimPrefix(r.URL.Path, "/api/results/")

	key, err := keyFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snapshot, found, err := s.cache.Load(r.Context(), key)
	if err != nil {
		http.Error(w, fmt.Sprintf("load snapshot: %v", err), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "no scan snapshot, run a scan first", http.StatusNotFound)
		return
	}

	var payload any
	switch resultType {
	case "statistics":
		payload = snapshot.Statistics
	case "duplicate_files":
		payload = snapshot.DuplicateFiles
	case "duplicate_folders":
		payload = snapshot.DuplicateFolders
	case "large_files":
		payload = snapshot.LargeFiles
	case "executables":
		payload = snapshot.Executables
	default:
		http.Error(w, fmt.Sprintf("unknown result type %q", resultType), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]any{resultType: payload})
}

func (s *Server) handleCacheInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key, err := keyFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	info, found, err := s.cache.Info(r.Context(), key)
	if err != nil {
		http.Error(w, fmt.Sprintf("cache info: %v", err), http.StatusInternalServerError)
		return
	}
	if !found {
		writeJSON(w, map[string]any{"exists": false})
		return
	}

	writeJSON(w, map[string]any{"exists": true, "info": info})
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key, err := keyFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.cache.Clear(r.Context(), key); err != nil {
		http.Error(w, fmt.Sprintf("clear cache: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"cleared": true})
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key, err := keyFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var payload struct {
		Paths []string `json:"paths"`
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}

	if err := s.cache.InvalidatePaths(r.Context(), key, payload.Paths); err != nil {
		http.Error(w, fmt.Sprintf("invalidate: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"invalidated": len(payload.Paths)})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf("encode response: %v", err), http.StatusInternalServerError)
	}
}
