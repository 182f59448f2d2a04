package gitinfo_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/docsync/internal/adapters/outbound/gitinfo"
)

func commitFile(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "App.java"), []byte("class App {}"), 0644))
	_, err = wt.Add("src/App.java")
	require.NoError(t, err)

	hash, err := wt.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestRepo_IsGitRepo(t *testing.T) {
	dir := t.TempDir()
	gi := gitinfo.New()
	assert.False(t, gi.IsGitRepo(dir))

	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	assert.True(t, gi.IsGitRepo(dir))
}

func TestRepo_CommitHashFromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	want := commitFile(t, dir)

	hash, err := gitinfo.New().CommitHash(filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Equal(t, want, hash)
	assert.Len(t, hash, 40)
}

func TestRepo_CommitHashWithoutCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = gitinfo.New().CommitHash(dir)
	assert.ErrorContains(t, err, "getting HEAD")
}

func TestRepo_CommitHashNotGitRepo(t *testing.T) {
	_, err := gitinfo.New().CommitHash(t.TempDir())
	assert.Error(t, err)
}
