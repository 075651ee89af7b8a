package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/redactyl/ddscan/internal/types"
)

// TableOptions controls the terminal findings table.
type TableOptions struct {
	// MaxSnippet truncates code snippets; 0 uses 60 runes.
	MaxSnippet int
	// RelativeTo strips this prefix from file paths.
	RelativeTo string
}

// PrintTable writes findings as a table sorted by project, file and line.
func PrintTable(w io.Writer, findings []types.Finding, opts TableOptions) error {
	if len(findings) == 0 {
		_, err := fmt.Fprintln(w, "No telemetry SDK usage found.")
		return err
	}
	fs := append([]types.Finding(nil), findings...)
	types.SortFindings(fs)

	limit := opts.MaxSnippet
	if limit <= 0 {
		limit = 60
	}
	table := tablewriter.NewWriter(w)
	table.Header("Project", "Location", "Operation", "Category", "Snippet")
	for _, f := range fs {
		path := f.FilePath
		if opts.RelativeTo != "" {
			path = strings.TrimPrefix(strings.TrimPrefix(path, opts.RelativeTo), "/")
		}
		row := []string{
			f.ProjectName,
			path + ":" + strconv.Itoa(f.LineNumber),
			string(f.OperationType),
			string(f.Category),
			truncate(f.CodeSnippet, limit),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
