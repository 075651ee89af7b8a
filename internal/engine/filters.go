package engine

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var defaultExcludeDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".next":        true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
}

// suffixes of generated or bundled sources that never hold hand-written SDK calls
var defaultExcludeFileSuffixes = []string{
	".min.js", ".bundle.js", ".map",
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name] || strings.HasPrefix(name, ".git")
}

func isDefaultFileExcluded(lowerRel string) bool {
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	return strings.Contains(lowerRel, ".gen.")
}

// matchIgnore reports whether any pattern matches rel, its base name, or one
// of its directory segments.
func matchIgnore(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	segments := strings.Split(rel, "/")
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
		seg := strings.TrimSuffix(p, "/**")
		if seg == "" || seg == p || strings.Contains(seg, "/") {
			continue
		}
		for _, s := range segments[:len(segments)-1] {
			if ok, _ := doublestar.Match(seg, s); ok {
				return true
			}
		}
	}
	return false
}

// prefilterKeywords are lowercase substrings at least one of which appears in
// any file that can produce a finding.
var prefilterKeywords = []string{
	"datadog", "dd_rum", "dd_logs", "browser-rum", "browser-logs",
	"addaction", "adderror", "addtiming", "datadogrum", "datadoglogs",
	"logger.info", "logger.error",
}

// hasSDKContent is a cheap substring test run before the detectors.
func hasSDKContent(content string, scopes []string) bool {
	lower := strings.ToLower(content)
	for _, k := range prefilterKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	for _, s := range scopes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
