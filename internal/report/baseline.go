package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/redactyl/ddscan/internal/types"
)

// BaselineFile is the default baseline location inside a scan root.
const BaselineFile = "ddscan.baseline.json"

// Baseline is a set of finding fingerprints accepted as known.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

// LoadBaseline reads path. A missing file yields an empty baseline and no error.
func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	buf, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(buf, &b); err != nil {
		return Baseline{Items: map[string]bool{}}, err
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[Fingerprint(f)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// FilterNew drops findings already present in base.
func FilterNew(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if !base.Items[Fingerprint(f)] {
			out = append(out, f)
		}
	}
	return out
}

// Fingerprint identifies a finding independent of its line number and of
// where the project is checked out, so edits above a call site do not
// resurface it.
func Fingerprint(f types.Finding) string {
	key := f.ProjectName + "|" + projectRelPath(f) + "|" + string(f.OperationType) + "|" + f.CodeSnippet
	return fmt.Sprintf("%016x", xxhash.Sum64String(key))
}

// projectRelPath trims everything up to the last project directory segment.
func projectRelPath(f types.Finding) string {
	p := filepath.ToSlash(f.FilePath)
	if f.ProjectName == "" {
		return p
	}
	if i := strings.LastIndex(p, "/"+f.ProjectName+"/"); i >= 0 {
		return p[i+len(f.ProjectName)+2:]
	}
	return p
}

// Keys returns the sorted fingerprints.
func (b Baseline) Keys() []string {
	out := make([]string, 0, len(b.Items))
	for k := range b.Items {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
