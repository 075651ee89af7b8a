package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/redactyl/ddscan/internal/types"
)

// Summary aggregates a result set for the report header.
type Summary struct {
	TotalFindings int                         `json:"total_findings"`
	FilesScanned  int                         `json:"total_files_scanned"`
	FilesFailed   int                         `json:"files_failed"`
	Projects      int                         `json:"projects_scanned"`
	DurationSecs  float64                     `json:"scan_duration_seconds"`
	ByCategory    map[types.DataCategory]int  `json:"by_category"`
	ByOperation   map[types.OperationType]int `json:"by_operation"`
}

// Document is the JSON report file.
type Document struct {
	ScanID      string              `json:"scan_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Summary     Summary             `json:"summary"`
	Projects    []types.ProjectInfo `json:"projects"`
	Findings    []types.Finding     `json:"findings"`
}

func Summarize(res types.ScanResults) Summary {
	return Summary{
		TotalFindings: len(res.Findings),
		FilesScanned:  res.FilesScanned,
		FilesFailed:   res.FilesFailed,
		Projects:      len(res.Projects),
		DurationSecs:  res.Duration.Seconds(),
		ByCategory:    res.CategoryCounts(),
		ByOperation:   res.OperationCounts(),
	}
}

// NewDocument builds the JSON report for res. Findings are sorted.
func NewDocument(res types.ScanResults, now time.Time) Document {
	fs := append([]types.Finding(nil), res.Findings...)
	types.SortFindings(fs)
	if fs == nil {
		fs = []types.Finding{}
	}
	projects := res.Projects
	if projects == nil {
		projects = []types.ProjectInfo{}
	}
	return Document{
		ScanID:      res.ScanID,
		GeneratedAt: now.UTC(),
		Summary:     Summarize(res),
		Projects:    projects,
		Findings:    fs,
	}
}

// WriteJSON writes the indented JSON report.
func WriteJSON(w io.Writer, res types.ScanResults, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(res, now))
}
