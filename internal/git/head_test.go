package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	ggit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, dir string) string {
	t.Helper()
	repo, err := ggit.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &ggit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Unix(1700000000, 0)},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestReadRevision_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	want := commitFile(t, dir)
	sub := filepath.Join(dir, "content", "blog")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	rev, err := ReadRevision(sub)
	require.NoError(t, err)
	require.Equal(t, want, rev.Commit)
	require.Equal(t, "master", rev.Branch)
	require.Equal(t, want[:7], rev.Short())
}

func TestReadRevision_NotRepository(t *testing.T) {
	_, err := ReadRevision(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
}

func TestReadRevision_NoCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := ggit.PlainInit(dir, false)
	require.NoError(t, err)

	rev, err := ReadRevision(dir)
	require.NoError(t, err)
	require.Empty(t, rev.Commit)
}

func TestRevision_ShortOfEmpty(t *testing.T) {
	require.Empty(t, Revision{}.Short())
}
