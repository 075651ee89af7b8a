package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Project types.
const (
	ProjectNextJS  = "nextjs"
	ProjectReact   = "react"
	ProjectNode    = "node"
	ProjectUnity   = "unity"
	ProjectUnknown = "unknown"
)

var (
	nodeIgnores  = []string{"node_modules/**", "build/**", "dist/**", "coverage/**", "*.min.js", "*.bundle.js"}
	reactIgnores = []string{"node_modules/**", "build/**", "dist/**", ".next/**", "coverage/**", "*.min.js", "*.bundle.js"}
	unityIgnores = []string{"Library/**", "Temp/**", "Build/**", "Builds/**", "obj/**", "bin/**", "*.meta"}
)

// DefaultIgnorePatterns returns the patterns always ignored for a project of
// the given type.
func DefaultIgnorePatterns(projectType string) []string {
	switch projectType {
	case ProjectReact:
		return append([]string(nil), reactIgnores...)
	case ProjectNextJS:
		return append(append([]string(nil), reactIgnores...), "out/**")
	case ProjectUnity:
		return append([]string(nil), unityIgnores...)
	case ProjectNode:
		return append([]string(nil), nodeIgnores...)
	}
	return nil
}

type packageManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (m packageManifest) has(name string) bool {
	_, a := m.Dependencies[name]
	_, b := m.DevDependencies[name]
	return a || b
}

// DetectProjectType classifies the project rooted at dir. An unreadable
// package.json still marks a node project.
func DetectProjectType(dir string) string {
	if b, err := os.ReadFile(filepath.Join(dir, "package.json")); err == nil {
		var m packageManifest
		if json.Unmarshal(b, &m) == nil {
			switch {
			case m.has("next"):
				return ProjectNextJS
			case m.has("react"):
				return ProjectReact
			}
		}
		return ProjectNode
	}
	if isDir(filepath.Join(dir, "Assets")) && isDir(filepath.Join(dir, "ProjectSettings")) {
		return ProjectUnity
	}
	if hasCSProj(dir) {
		return ProjectUnity
	}
	return ProjectUnknown
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

func hasCSProj(dir string) bool {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.csproj"))
	return len(matches) > 0
}
