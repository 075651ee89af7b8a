// Package files edits ignore files kept alongside scanned repositories.
package files

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// AppendIgnore ensures each pattern is present in .gitignore at repoRoot.
// It creates the file if missing and adds a newline before appending when
// the file does not end with one. It returns the patterns it added.
func AppendIgnore(repoRoot string, patterns ...string) ([]string, error) {
	path := filepath.Join(repoRoot, ".gitignore")
	existing := map[string]bool{}
	endsWithNewline := true
	if b, err := os.ReadFile(path); err == nil {
		sc := bufio.NewScanner(strings.NewReader(string(b)))
		for sc.Scan() {
			existing[strings.TrimSpace(sc.Text())] = true
		}
		endsWithNewline = len(b) == 0 || b[len(b)-1] == '\n'
	}

	var add []string
	for _, p := range patterns {
		if p != "" && !existing[p] {
			existing[p] = true
			add = append(add, p)
		}
	}
	if len(add) == 0 {
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var b strings.Builder
	if !endsWithNewline {
		b.WriteByte('\n')
	}
	for _, p := range add {
		b.WriteString(p + "\n")
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return nil, err
	}
	return add, nil
}

// ScanArtifacts returns the files ddscan writes inside scanned trees.
func ScanArtifacts() []string {
	return []string{
		".ddscancache.json",
		"datadog_reports/",
	}
}
