package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openkraft/docsync/internal/domain"
)

// File is the history log location relative to the project root.
const File = ".docsync/history/reports.json"

// DefaultLimit is the number of entries retained per project.
const DefaultLimit = 100

// FileHistory implements domain.ReportHistory as a JSON array on disk.
// Only the most recent Limit entries are kept.
type FileHistory struct {
	Limit int
}

func New() *FileHistory {
	return &FileHistory{Limit: DefaultLimit}
}

func (h *FileHistory) Save(projectPath string, entry domain.HistoryEntry) error {
	entries, err := h.Load(projectPath)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	if h.Limit > 0 && len(entries) > h.Limit {
		entries = entries[len(entries)-h.Limit:]
	}

	fp := filepath.Join(projectPath, File)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	// Write then rename so a crash never leaves a truncated log.
	tmp := fp + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, fp)
}

func (h *FileHistory) Load(projectPath string) ([]domain.HistoryEntry, error) {
	fp := filepath.Join(projectPath, File)
	data, err := os.ReadFile(fp)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", File, err)
	}
	return entries, nil
}
