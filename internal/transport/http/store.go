// Package http exposes the generated dashboard dataset over a chi
// router.
package http

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"salespulse/internal/dataset"
)

// DatasetProvider supplies the current dashboard dataset.
type DatasetProvider interface {
	Dataset() (*dataset.Dataset, error)
}

// FileStore serves the dataset from the JSON file the processor
// writes, reloading it when the file's mtime changes so a re-run of
// the processor shows up without restarting the server.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	current *dataset.Dataset
	modTime time.Time
}

// NewFileStore creates a file-backed dataset store.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Dataset returns the current dataset, reloading from disk if the
// file changed since the last read.
func (s *FileStore) Dataset() (*dataset.Dataset, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("dataset file unavailable: %w", err)
	}

	s.mu.RLock()
	if s.current != nil && info.ModTime().Equal(s.modTime) {
		ds := s.current
		s.mu.RUnlock()
		return ds, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && info.ModTime().Equal(s.modTime) {
		return s.current, nil
	}

	ds, err := dataset.ReadJSON(s.path)
	if err != nil {
		return nil, err
	}
	s.current = ds
	s.modTime = info.ModTime()
	s.logger.Info("dataset loaded",
		slog.String("path", s.path),
		slog.Int("locations", ds.Locations.TotalDispensaries),
		slog.Int("companies", ds.Companies.TotalCompanies))
	return ds, nil
}
