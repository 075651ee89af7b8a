// Package linker builds source-control URLs for findings and projects.
package linker

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/redactyl/ddscan/internal/git"
	"github.com/redactyl/ddscan/internal/logging"
)

const (
	DefaultBaseURL = "https://github.com/Volley-Inc"
	DefaultBranch  = "main"
	unknownProject = "unknown"
	branchCacheLen = 256
)

// Linker is safe for concurrent use by scan workers.
type Linker struct {
	baseURL       string
	defaultBranch string
	branches      *lru.Cache[string, string]
	log           hclog.Logger

	// resolveBranch is swapped in tests.
	resolveBranch func(projectPath string) (string, error)
}

// New returns a Linker. Empty arguments fall back to DefaultBaseURL and
// DefaultBranch.
func New(baseURL, defaultBranch string, log hclog.Logger) *Linker {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if defaultBranch == "" {
		defaultBranch = DefaultBranch
	}
	cache, err := lru.New[string, string](branchCacheLen)
	if err != nil {
		panic(fmt.Sprintf("linker: branch cache: %v", err))
	}
	return &Linker{
		baseURL:       strings.TrimRight(baseURL, "/"),
		defaultBranch: defaultBranch,
		branches:      cache,
		log:           logging.OrDiscard(log).Named("linker"),
		resolveBranch: git.Branch,
	}
}

func (l *Linker) BaseURL() string       { return l.baseURL }
func (l *Linker) DefaultBranch() string { return l.defaultBranch }

// ProjectName is the first path segment of path below scanRoot. Paths outside
// scanRoot fall back to the third-from-last element.
func (l *Linker) ProjectName(path, scanRoot string) string {
	if parts, ok := relParts(path, scanRoot); ok {
		return parts[0]
	}
	elems := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	if len(elems) >= 3 && elems[len(elems)-3] != "" {
		return elems[len(elems)-3]
	}
	return unknownProject
}

// Branch resolves the branch for projectPath: the checked out branch, then
// origin/HEAD, then the default branch. Results are cached per path.
func (l *Linker) Branch(projectPath string) string {
	if b, ok := l.branches.Get(projectPath); ok {
		return b
	}
	b, err := l.resolveBranch(projectPath)
	if err != nil || b == "" {
		l.log.Debug("using default branch", "project", projectPath, "error", err)
		b = l.defaultBranch
	}
	l.branches.Add(projectPath, b)
	return b
}

// FileURL links to line of path. Line 0 or less omits the anchor. An empty
// projectPath uses the default branch without consulting git.
func (l *Linker) FileURL(path string, line int, scanRoot, projectPath string) string {
	project := l.ProjectName(path, scanRoot)
	rest := filepath.Base(path)
	if parts, ok := relParts(path, scanRoot); ok && len(parts) > 1 {
		rest = strings.Join(parts[1:], "/")
	}
	branch := l.defaultBranch
	if projectPath != "" {
		branch = l.Branch(projectPath)
	}
	u := fmt.Sprintf("%s/%s/blob/%s/%s", l.baseURL, project, branch, rest)
	if line > 0 {
		u += fmt.Sprintf("#L%d", line)
	}
	return u
}

// StripAnchor drops a "#L.." fragment from a file URL.
func StripAnchor(u string) string {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i]
	}
	return u
}

func (l *Linker) ProjectURL(name string) string {
	return l.baseURL + "/" + name
}

// RepoInfo reports branch, origin URL and short commit for projectPath. The
// branch follows the same fallback chain as Branch.
func (l *Linker) RepoInfo(projectPath string) git.RepoInfo {
	info, err := git.Info(projectPath)
	if err != nil {
		l.log.Debug("no repository metadata", "project", projectPath, "error", err)
	}
	info.Branch = l.Branch(projectPath)
	return info
}

func relParts(path, root string) ([]string, bool) {
	if root == "" {
		return nil, false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, false
	}
	return strings.Split(filepath.ToSlash(rel), "/"), true
}
