package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redactyl/ddscan/internal/types"
)

// Report formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatSARIF = "sarif"
	FormatHTML  = "html"
)

// FileBase is the base name of every report file.
const FileBase = "datadog_findings"

// Formats lists every supported format.
func Formats() []string {
	return []string{FormatTable, FormatJSON, FormatCSV, FormatSARIF, FormatHTML}
}

// ParseFormats splits a comma separated list and rejects unknown names.
func ParseFormats(s string) ([]string, error) {
	known := map[string]bool{}
	for _, f := range Formats() {
		known[f] = true
	}
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if !known[f] {
			return nil, fmt.Errorf("unknown format %q (want one of %s)", f, strings.Join(Formats(), ", "))
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// WriteFiles writes a report file for each file format in formats into dir
// and returns the written paths. The table format is terminal only and is
// skipped here.
func WriteFiles(dir string, res types.ScanResults, formats []string, now time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var written []string
	for _, format := range formats {
		if format == FormatTable {
			continue
		}
		path := filepath.Join(dir, FileBase+"."+format)
		if err := writeFile(path, format, res, now); err != nil {
			return written, fmt.Errorf("write %s report: %w", format, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path, format string, res types.ScanResults, now time.Time) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	switch format {
	case FormatJSON:
		return WriteJSON(f, res, now)
	case FormatCSV:
		return WriteCSV(f, res.Findings)
	case FormatSARIF:
		return WriteSARIF(f, res.Findings)
	case FormatHTML:
		return WriteHTML(f, res, now)
	}
	return fmt.Errorf("unknown format %q", format)
}
