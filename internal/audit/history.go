// Package audit keeps an append-only JSON Lines history of scans so trends in
// telemetry usage can be followed over time.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redactyl/ddscan/internal/types"
)

// FileName is the history file kept in the output directory.
const FileName = "ddscan_history.jsonl"

// topLimit bounds the findings summarized in each record.
const topLimit = 10

type ScanRecord struct {
	Timestamp      time.Time                   `json:"timestamp"`
	ScanID         string                      `json:"scan_id"`
	Roots          []string                    `json:"roots"`
	Projects       []string                    `json:"projects"`
	TotalFindings  int                         `json:"total_findings"`
	NewFindings    int                         `json:"new_findings"`
	BaselinedCount int                         `json:"baselined_count"`
	CategoryCounts map[types.DataCategory]int  `json:"category_counts"`
	OperationCount map[types.OperationType]int `json:"operation_counts"`
	FilesScanned   int                         `json:"files_scanned"`
	FilesFailed    int                         `json:"files_failed"`
	Duration       string                      `json:"duration"`
	BaselineFile   string                      `json:"baseline_file,omitempty"`
	TopFindings    []FindingSummary            `json:"top_findings,omitempty"`
}

// FindingSummary is the slim form of a finding kept in history. Data values
// are never stored.
type FindingSummary struct {
	Project   string              `json:"project"`
	Path      string              `json:"path"`
	Line      int                 `json:"line"`
	Operation types.OperationType `json:"operation_type"`
	Category  types.DataCategory  `json:"data_category"`
}

type Log struct {
	path string
}

// NewLog returns the history log kept in dir.
func NewLog(dir string) *Log {
	return &Log{path: filepath.Join(dir, FileName)}
}

func (l *Log) Path() string { return l.path }

// LoadHistory returns records newest first. Malformed lines are skipped; a
// missing log yields no records.
func (l *Log) LoadHistory() ([]ScanRecord, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open scan history: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record ScanRecord
		if err := decoder.Decode(&record); err != nil {
			break
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (l *Log) LogScan(record ScanRecord) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open scan history: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write scan record: %w", err)
	}
	return nil
}

// NewScanRecord summarizes res. fresh holds the findings left after baseline
// filtering and equals res.Findings when no baseline is used.
func NewScanRecord(roots []string, res types.ScanResults, fresh []types.Finding, baselineFile string, now time.Time) ScanRecord {
	projects := make([]string, 0, len(res.Projects))
	for _, p := range res.Projects {
		projects = append(projects, p.Name)
	}

	sorted := append([]types.Finding(nil), fresh...)
	types.SortFindings(sorted)
	top := make([]FindingSummary, 0, min(topLimit, len(sorted)))
	for _, f := range sorted[:min(topLimit, len(sorted))] {
		top = append(top, FindingSummary{
			Project:   f.ProjectName,
			Path:      f.FilePath,
			Line:      f.LineNumber,
			Operation: f.OperationType,
			Category:  f.Category,
		})
	}

	return ScanRecord{
		Timestamp:      now,
		ScanID:         res.ScanID,
		Roots:          roots,
		Projects:       projects,
		TotalFindings:  len(res.Findings),
		NewFindings:    len(fresh),
		BaselinedCount: len(res.Findings) - len(fresh),
		CategoryCounts: res.CategoryCounts(),
		OperationCount: res.OperationCounts(),
		FilesScanned:   res.FilesScanned,
		FilesFailed:    res.FilesFailed,
		Duration:       res.Duration.String(),
		BaselineFile:   baselineFile,
		TopFindings:    top,
	}
}
