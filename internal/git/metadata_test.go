package git

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *git.Repository, plumbing.Hash) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "web", "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "web", "src", "app.ts"), []byte("export {}\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("web/src/app.ts")
	require.NoError(t, err)
	hash, err := wt.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, repo, hash
}

func TestInfo(t *testing.T) {
	dir, repo, hash := initRepo(t)
	_, err := repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"git@github.com:acme/web.git"}})
	require.NoError(t, err)

	info, err := Info(filepath.Join(dir, "web", "src"))
	require.NoError(t, err)
	assert.Equal(t, "master", info.Branch)
	assert.Equal(t, hash.String()[:ShortHashLen], info.Commit)
	assert.Equal(t, "git@github.com:acme/web.git", info.Remote)
}

func TestBranchFallsBackToOriginHead(t *testing.T) {
	dir, repo, hash := initRepo(t)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, hash)))

	_, err := Branch(dir)
	assert.True(t, errors.Is(err, ErrNoBranch))

	require.NoError(t, repo.Storer.SetReference(plumbing.NewSymbolicReference(
		plumbing.NewRemoteHEADReferenceName("origin"),
		plumbing.NewRemoteReferenceName("origin", "develop"),
	)))
	b, err := Branch(dir)
	require.NoError(t, err)
	assert.Equal(t, "develop", b)
}

func TestBranchCurrent(t *testing.T) {
	dir, _, _ := initRepo(t)
	b, err := Branch(filepath.Join(dir, "web"))
	require.NoError(t, err)
	assert.Equal(t, "master", b)
}

func TestOpenOutsideRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
	_, err = Open("bad\x00path")
	assert.Error(t, err)
}
