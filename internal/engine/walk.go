package engine

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/redactyl/ddscan/internal/ignore"
	"github.com/redactyl/ddscan/internal/types"
)

// selector decides which files of one project are scanned.
type selector struct {
	exts     map[string]bool
	patterns []string
	maxBytes int64
}

func newSelector(cfg Config, exts map[string]bool, p types.ProjectInfo) (selector, error) {
	patterns := append([]string(nil), cfg.IgnorePatterns...)
	patterns = append(patterns, DefaultIgnorePatterns(p.Type)...)
	m, err := ignore.LoadDir(p.Path)
	patterns = append(patterns, m.Patterns()...)
	return selector{exts: exts, patterns: patterns, maxBytes: cfg.MaxBytes}, err
}

func (s selector) wantDir(name string) bool {
	return !isDefaultDirExcluded(name)
}

func (s selector) wantFile(rel string, size int64) bool {
	if !s.exts[strings.ToLower(filepath.Ext(rel))] {
		return false
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return false
	}
	if isDefaultFileExcluded(strings.ToLower(filepath.ToSlash(rel))) {
		return false
	}
	return !matchIgnore(s.patterns, rel)
}

// collectFiles returns the project-relative paths selected under root in
// lexical order. Unreadable directories are skipped.
func collectFiles(ctx context.Context, root string, sel selector) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != root && !sel.wantDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}
		if sel.wantFile(rel, size) {
			out = append(out, rel)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

// CountTargets returns the number of files a scan of cfg would read, without
// reading any of them.
func CountTargets(cfg Config) (int, error) {
	cfg = cfg.withDefaults()
	exts := selectExtensions(cfg.Extensions, defaultRegistry(cfg))
	if len(exts) == 0 {
		return 0, ErrNoExtensions
	}
	n := 0
	for _, p := range DiscoverProjects(cfg.Roots, cfg.Linker, cfg.Logger) {
		sel, _ := newSelector(cfg, exts, p)
		files, err := collectFiles(context.Background(), p.Path, sel)
		if err != nil {
			return n, err
		}
		n += len(files)
	}
	return n, nil
}
