package linker

import (
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
)

func TestProjectName(t *testing.T) {
	l := New("", "", hclog.NewNullLogger())
	tests := []struct {
		name, path, root, want string
	}{
		{"web project", "/dev/ccm/cocomelon-mobile/src/app.ts", "/dev/ccm", "cocomelon-mobile"},
		{"unity project", "/dev/ccm/cocomelon-unity/Assets/Scripts/test.cs", "/dev/ccm", "cocomelon-unity"},
		{"outside root", "/completely/different/path/file.ts", "/dev/ccm", "different"},
		{"too short", "/file.ts", "/dev/ccm", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.ProjectName(filepath.FromSlash(tt.path), filepath.FromSlash(tt.root)))
		})
	}
}

func TestFileURL(t *testing.T) {
	l := New("https://github.com/acme/", "main", nil)
	l.resolveBranch = func(string) (string, error) { return "feature-x", nil }

	path := filepath.FromSlash("/dev/ccm/web/src/app.ts")
	root := filepath.FromSlash("/dev/ccm")

	assert.Equal(t, "https://github.com/acme/web/blob/feature-x/src/app.ts#L42",
		l.FileURL(path, 42, root, filepath.FromSlash("/dev/ccm/web")))
	assert.Equal(t, "https://github.com/acme/web/blob/main/src/app.ts",
		l.FileURL(path, 0, root, ""))
	assert.Equal(t, "https://github.com/acme/web/blob/main/src/app.ts",
		StripAnchor(l.FileURL(path, 1, root, "")))
}

func TestBranchFallbackAndCache(t *testing.T) {
	var calls atomic.Int32
	l := New("", "trunk", nil)
	l.resolveBranch = func(string) (string, error) {
		calls.Add(1)
		return "", errors.New("not a repository")
	}
	assert.Equal(t, "trunk", l.Branch("/p"))
	assert.Equal(t, "trunk", l.Branch("/p"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestProjectURL(t *testing.T) {
	l := New("", "", nil)
	assert.Equal(t, "https://github.com/Volley-Inc/game", l.ProjectURL("game"))
	assert.Equal(t, DefaultBranch, l.DefaultBranch())
}

func TestRepoInfoOutsideRepository(t *testing.T) {
	l := New("", "", nil)
	info := l.RepoInfo(t.TempDir())
	assert.Equal(t, DefaultBranch, info.Branch)
	assert.Empty(t, info.Commit)
}
