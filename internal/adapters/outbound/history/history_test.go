package history_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/docsync/internal/adapters/outbound/history"
	"github.com/openkraft/docsync/internal/domain"
)

func entry(id string, errs int) domain.HistoryEntry {
	status := domain.StatusValid
	if errs > 0 {
		status = domain.StatusInvalid
	}
	return domain.HistoryEntry{
		ValidationID: id,
		Timestamp:    time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC),
		Status:       status,
		TotalIssues:  errs,
		Errors:       errs,
		CommitHash:   "abc1234",
	}
}

func TestHistory_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	require.NoError(t, h.Save(dir, entry("r1", 2)))

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry("r1", 2), entries[0])
}

func TestHistory_AppendMultiple(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	require.NoError(t, h.Save(dir, entry("r1", 3)))
	require.NoError(t, h.Save(dir, entry("r2", 1)))
	require.NoError(t, h.Save(dir, entry("r3", 0)))

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "r1", entries[0].ValidationID)
	assert.Equal(t, domain.StatusValid, entries[2].Status)
}

func TestHistory_KeepsMostRecent(t *testing.T) {
	dir := t.TempDir()
	h := &history.FileHistory{Limit: 2}

	for _, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, h.Save(dir, entry(id, 0)))
	}

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "r2", entries[0].ValidationID)
	assert.Equal(t, "r3", entries[1].ValidationID)
}

func TestHistory_LoadEmpty(t *testing.T) {
	entries, err := history.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, history.New().Save(dir, entry("r1", 0)))

	_, err := os.Stat(filepath.Join(dir, history.File))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, history.File+".tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestHistory_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, history.File)
	require.NoError(t, os.MkdirAll(filepath.Dir(fp), 0755))
	require.NoError(t, os.WriteFile(fp, []byte("{not json"), 0644))

	_, err := history.New().Load(dir)
	assert.ErrorContains(t, err, "parsing")
}
