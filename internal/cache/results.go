package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/redactyl/ddscan/internal/types"
)

// LastScan is the stored aggregate of the most recent scan.
type LastScan struct {
	Results   types.ScanResults `json:"results"`
	Roots     []string          `json:"roots"`
	Timestamp time.Time         `json:"timestamp"`
}

// ResultsFile is written into the report output directory.
const ResultsFile = ".ddscan_last_scan.json"

func resultsPath(dir string) string {
	return filepath.Join(dir, ResultsFile)
}

// SaveResults stores res under dir, creating dir when needed.
func SaveResults(dir string, roots []string, res types.ScanResults) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(LastScan{Results: res, Roots: roots, Timestamp: time.Now()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(resultsPath(dir), b, 0o644)
}

// LoadResults loads the last scan stored under dir.
func LoadResults(dir string) (LastScan, error) {
	var last LastScan
	b, err := os.ReadFile(resultsPath(dir))
	if err != nil {
		return last, err
	}
	if err := json.Unmarshal(b, &last); err != nil {
		return last, err
	}
	return last, nil
}
