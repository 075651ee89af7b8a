package detectors

import (
	"strconv"

	"github.com/redactyl/ddscan/internal/types"
)

// dedupe keeps one finding per (file, line). The first candidate wins unless a
// later one carries more data or a resolved-symbol field the kept one lacks.
// Distinct operations chained on one line collapse into a single finding.
func dedupe(findings []types.Finding) []types.Finding {
	if len(findings) == 0 {
		return findings
	}
	index := make(map[string]int, len(findings))
	out := make([]types.Finding, 0, len(findings))
	for _, f := range findings {
		key := f.FilePath + "|" + strconv.Itoa(f.LineNumber)
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, f)
			continue
		}
		if richer(f, out[i]) {
			out[i] = f
		}
	}
	return out
}

func richer(candidate, kept types.Finding) bool {
	if len(serialize(candidate.Data)) > len(serialize(kept.Data)) {
		return true
	}
	return hasSymbolField(candidate.Data) && !hasSymbolField(kept.Data)
}

func hasSymbolField(data map[string]any) bool {
	if _, ok := data["method_name"]; ok {
		return true
	}
	_, ok := data["type_name"]
	return ok
}
