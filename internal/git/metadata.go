// Package git reads branch, remote and commit metadata from the repository
// that contains a scanned project.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNoBranch is returned when HEAD does not point at a branch.
var ErrNoBranch = errors.New("no branch")

// ShortHashLen is the length of abbreviated commit hashes.
const ShortHashLen = 7

// RepoInfo is the metadata reported for a project path.
type RepoInfo struct {
	Root   string `json:"root"`
	Branch string `json:"branch,omitempty"`
	Remote string `json:"remote_url,omitempty"`
	Commit string `json:"commit_hash,omitempty"`
}

// validateRoot validates and normalizes a path inside a repository.
func validateRoot(root string) (string, error) {
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	return abs, nil
}

// Open opens the repository containing path, searching parent directories.
func Open(path string) (*git.Repository, error) {
	p, err := validateRoot(path)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(p, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", p, err)
	}
	return repo, nil
}

// CurrentBranch returns the short name of the branch HEAD points at.
func CurrentBranch(repo *git.Repository) (string, error) {
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", ErrNoBranch
	}
	return head.Name().Short(), nil
}

// RemoteDefaultBranch returns the branch origin/HEAD points at.
func RemoteDefaultBranch(repo *git.Repository) (string, error) {
	ref, err := repo.Reference(plumbing.NewRemoteHEADReferenceName("origin"), false)
	if err != nil {
		return "", fmt.Errorf("read origin/HEAD: %w", err)
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", ErrNoBranch
	}
	return strings.TrimPrefix(ref.Target().Short(), "origin/"), nil
}

// Branch resolves the branch used for links at path: the current branch,
// then origin/HEAD. It returns ErrNoBranch when neither is available.
func Branch(path string) (string, error) {
	repo, err := Open(path)
	if err != nil {
		return "", err
	}
	if b, err := CurrentBranch(repo); err == nil && b != "" {
		return b, nil
	}
	if b, err := RemoteDefaultBranch(repo); err == nil && b != "" {
		return b, nil
	}
	return "", ErrNoBranch
}

// Info returns best-effort metadata for the repository containing path.
// Missing pieces are left empty.
func Info(path string) (RepoInfo, error) {
	repo, err := Open(path)
	if err != nil {
		return RepoInfo{}, err
	}
	info := RepoInfo{}
	if wt, err := repo.Worktree(); err == nil {
		info.Root = wt.Filesystem.Root()
	}
	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			info.Branch = head.Name().Short()
		}
		h := head.Hash().String()
		info.Commit = h[:min(ShortHashLen, len(h))]
	}
	if remote, err := repo.Remote("origin"); err == nil {
		if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
			info.Remote = cfg.URLs[0]
		}
	}
	return info, nil
}
