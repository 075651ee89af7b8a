package engine

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/redactyl/ddscan/internal/linker"
	"github.com/redactyl/ddscan/internal/logging"
	"github.com/redactyl/ddscan/internal/types"
)

var projectIndicators = []string{"package.json", "Assets", "ProjectSettings", "src", "tsconfig.json", "next.config.js"}

func isProjectRoot(dir string) bool {
	for _, name := range projectIndicators {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return hasCSProj(dir)
}

// DiscoverProjects returns the projects under roots. A root that is itself a
// project yields one entry; otherwise each visible child directory that looks
// like a project does. Missing roots are logged and skipped.
func DiscoverProjects(roots []string, l *linker.Linker, log hclog.Logger) []types.ProjectInfo {
	log = logging.OrDiscard(log)
	if l == nil {
		l = linker.New("", "", log)
	}
	var out []types.ProjectInfo
	seen := map[string]bool{}
	add := func(dir string) {
		if seen[dir] {
			return
		}
		seen[dir] = true
		name := filepath.Base(dir)
		out = append(out, types.ProjectInfo{
			Name: name,
			Path: dir,
			Type: DetectProjectType(dir),
			Link: l.ProjectURL(name),
		})
	}

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			log.Warn("invalid root", "root", root, "error", err)
			continue
		}
		if !isDir(abs) {
			log.Warn("root does not exist", "root", root)
			continue
		}
		if isProjectRoot(abs) {
			add(abs)
			continue
		}
		entries, err := os.ReadDir(abs)
		if err != nil {
			log.Warn("root unreadable", "root", root, "error", err)
			continue
		}
		var found int
		for _, e := range entries {
			if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			dir := filepath.Join(abs, e.Name())
			if isProjectRoot(dir) {
				add(dir)
				found++
			}
		}
		if found == 0 {
			log.Info("no projects found", "root", root)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
