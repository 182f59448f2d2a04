package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/openkraft/docsync/internal/domain"
)

// Store is a file-based implementation of domain.AnalysisCache.
type Store struct{}

// New creates a new file-based cache store.
func New() *Store {
	return &Store{}
}

// Load reads the analysis snapshot for root. Returns (nil, nil) if no
// snapshot exists or it was written by an incompatible version.
func (s *Store) Load(root string) (*domain.AnalysisSnapshot, error) {
	data, err := os.ReadFile(cachePath(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var snap domain.AnalysisSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Version != domain.AnalysisCacheVersion {
		return nil, nil
	}
	return &snap, nil
}

// Save writes the snapshot, creating directories as needed.
func (s *Store) Save(root string, snap *domain.AnalysisSnapshot) error {
	if err := os.MkdirAll(filepath.Dir(cachePath(root)), 0755); err != nil {
		return err
	}
	snap.Version = domain.AnalysisCacheVersion

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	tmp := cachePath(root) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, cachePath(root))
}

// Invalidate removes the snapshot for root.
func (s *Store) Invalidate(root string) error {
	if err := os.Remove(cachePath(root)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func cachePath(root string) string {
	return filepath.Join(root, ".docsync", "cache", "analysis.json")
}
