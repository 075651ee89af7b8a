// Package ignore reads .ddscanignore files. Each non-comment line is a
// doublestar pattern matched against slash-separated paths relative to the
// directory holding the file. A trailing "/" matches a directory and
// everything beneath it; a pattern without "/" also matches any base name.
package ignore

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileName is the ignore file looked up at each project root.
const FileName = ".ddscanignore"

type Matcher struct {
	patterns []string
}

// Load reads patterns from the file at p.
func Load(p string) (Matcher, error) {
	f, err := os.Open(p)
	if err != nil {
		return Matcher{}, err
	}
	defer f.Close()

	var pats []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pats = append(pats, line)
	}
	return Matcher{patterns: pats}, sc.Err()
}

// LoadDir loads FileName from dir. A missing file yields an empty matcher.
func LoadDir(dir string) (Matcher, error) {
	m, err := Load(filepath.Join(dir, FileName))
	if os.IsNotExist(err) {
		return Matcher{}, nil
	}
	return m, err
}

// Patterns returns the doublestar form of every pattern, suitable for merging
// with other ignore lists.
func (m Matcher) Patterns() []string {
	out := make([]string, 0, len(m.patterns))
	for _, p := range m.patterns {
		if strings.HasSuffix(p, "/") {
			p += "**"
		}
		out = append(out, p)
	}
	return out
}

// Match reports whether rel (relative, slash or OS separated) is ignored.
func (m Matcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	for _, p := range m.patterns {
		if dir, ok := strings.CutSuffix(p, "/"); ok {
			if rel == dir || strings.HasPrefix(rel, dir+"/") || strings.Contains(rel, "/"+dir+"/") {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
		}
	}
	return false
}

func (m Matcher) Empty() bool { return len(m.patterns) == 0 }
