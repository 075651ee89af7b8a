package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/redactyl/ddscan/internal/types"
)

var csvHeader = []string{
	"Project", "File Path", "Line Number", "Operation Type",
	"Data Category", "Code Snippet", "Data Being Sent", "GitHub URL",
}

// WriteCSV writes one row per finding in sorted order.
func WriteCSV(w io.Writer, findings []types.Finding) error {
	fs := append([]types.Finding(nil), findings...)
	types.SortFindings(fs)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range fs {
		data, err := json.Marshal(f.Data)
		if err != nil {
			return err
		}
		row := []string{
			f.ProjectName,
			f.FilePath,
			strconv.Itoa(f.LineNumber),
			string(f.OperationType),
			string(f.Category),
			f.CodeSnippet,
			string(data),
			f.Link,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
