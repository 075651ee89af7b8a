package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/redactyl/ddscan/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)
	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// SummaryOptions controls PrintSummary.
type SummaryOptions struct {
	NoColor bool
}

// ColorEnabled reports whether styled output should be written to f.
func ColorEnabled(f *os.File, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// PrintSummary writes totals, per-category and per-project counts.
func PrintSummary(w io.Writer, res types.ScanResults, opts SummaryOptions) {
	render := func(s lipgloss.Style, text string) string {
		if opts.NoColor {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	fmt.Fprintln(&b, render(titleStyle, "Scan summary"))
	fmt.Fprintf(&b, "%s %s\n", render(labelStyle, "Findings:     "), render(countStyle, fmt.Sprint(len(res.Findings))))
	fmt.Fprintf(&b, "%s %d\n", render(labelStyle, "Files scanned:"), res.FilesScanned)
	if res.FilesFailed > 0 {
		fmt.Fprintf(&b, "%s %d\n", render(labelStyle, "Files failed: "), res.FilesFailed)
	}
	fmt.Fprintf(&b, "%s %.2fs\n", render(labelStyle, "Duration:     "), res.Duration.Seconds())

	counts := res.CategoryCounts()
	if len(counts) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, render(titleStyle, "By category"))
		for _, c := range types.DataCategories() {
			if n := counts[c]; n > 0 {
				fmt.Fprintf(&b, "  %-20s %d\n", c, n)
			}
		}
	}
	if len(res.Projects) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, render(titleStyle, "By project"))
		for _, p := range res.Projects {
			fmt.Fprintf(&b, "  %-20s %-8s %d\n", p.Name, p.Type, p.FindingsCount)
		}
	}

	out := strings.TrimRight(b.String(), "\n")
	if !opts.NoColor {
		out = boxStyle.Render(out)
	}
	fmt.Fprintln(w, out)
}
