package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	ggit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepoWithCommit(t *testing.T) (repoPath, commit string) {
	t.Helper()

	repoPath = t.TempDir()
	repo, err := ggit.PlainInit(repoPath, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(repoPath, "declarations"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "declarations", "a.d.ts"), []byte("declare const a: 1;\n"), 0o600))
	_, err = wt.Add("declarations/a.d.ts")
	require.NoError(t, err)
	hash, err := wt.Commit("add declarations", &ggit.CommitOptions{
		Author: &object.Signature{Name: "t", Email: "t@example.invalid", When: time.Now()},
	})
	require.NoError(t, err)
	return repoPath, hash.String()
}

func TestHeadRevision_FromSubdirectory(t *testing.T) {
	repoPath, commit := initRepoWithCommit(t)

	rev, err := HeadRevision(filepath.Join(repoPath, "declarations"))
	require.NoError(t, err)
	assert.Equal(t, commit, rev.Commit)
	assert.Equal(t, "master", rev.Branch)
	assert.False(t, rev.Dirty)
	assert.Len(t, rev.Short(), 8)
}

func TestHeadRevision_Dirty(t *testing.T) {
	repoPath, _ := initRepoWithCommit(t)
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "declarations", "a.d.ts"), []byte("changed\n"), 0o600))

	rev, err := HeadRevision(repoPath)
	require.NoError(t, err)
	assert.True(t, rev.Dirty)
}

func TestHeadRevision_NotARepository(t *testing.T) {
	rev, err := HeadRevision(t.TempDir())
	require.NoError(t, err)
	assert.True(t, rev.IsZero())
}

func TestHeadRevision_NoCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := ggit.PlainInit(dir, false)
	require.NoError(t, err)

	rev, err := HeadRevision(dir)
	require.NoError(t, err)
	assert.True(t, rev.IsZero())
}
