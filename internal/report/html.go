package report

import (
	"bytes"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/redactyl/ddscan/internal/types"
)

type htmlFinding struct {
	types.Finding
	Code template.HTML
}

type htmlProject struct {
	types.ProjectInfo
	Findings []htmlFinding
}

type htmlPage struct {
	Document
	Categories []categoryCount
	Sections   []htmlProject
}

type categoryCount struct {
	Category types.DataCategory
	Count    int
}

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"seconds": func(f float64) string { return time.Duration(f * float64(time.Second)).Round(time.Millisecond).String() },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>ddscan report {{.ScanID}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
table.summary td { padding: 0.2rem 1rem 0.2rem 0; }
.finding { border: 1px solid #ddd; border-radius: 4px; margin: 1rem 0; padding: 0.5rem 1rem; }
.meta { color: #555; font-size: 0.9rem; }
.cat { font-weight: bold; }
pre { overflow-x: auto; }
</style>
</head>
<body>
<h1>Telemetry SDK usage</h1>
<p class="meta">Scan {{.ScanID}} generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>
<table class="summary">
<tr><td>Findings</td><td>{{.Summary.TotalFindings}}</td></tr>
<tr><td>Files scanned</td><td>{{.Summary.FilesScanned}}</td></tr>
<tr><td>Files failed</td><td>{{.Summary.FilesFailed}}</td></tr>
<tr><td>Projects</td><td>{{.Summary.Projects}}</td></tr>
<tr><td>Duration</td><td>{{seconds .Summary.DurationSecs}}</td></tr>
{{range .Categories}}<tr><td>{{.Category}}</td><td>{{.Count}}</td></tr>
{{end}}</table>
{{range .Sections}}
<h2 id="{{.Name}}">{{.Name}} <small class="meta">{{.Type}}</small></h2>
<p class="meta"><a href="{{.Link}}">{{.Link}}</a> · {{.FindingsCount}} findings</p>
{{range .Findings}}
<div class="finding">
<div><span class="cat">{{.OperationType}}</span> · {{.Category}}</div>
<div class="meta"><a href="{{.Link}}">{{.FilePath}}:{{.LineNumber}}</a></div>
{{.Code}}
</div>
{{end}}
{{end}}
</body>
</html>
`))

// WriteHTML writes a standalone HTML report with highlighted context.
func WriteHTML(w io.Writer, res types.ScanResults, now time.Time) error {
	doc := NewDocument(res, now)
	page := htmlPage{Document: doc}
	counts := doc.Summary.ByCategory
	for _, c := range types.DataCategories() {
		if counts[c] > 0 {
			page.Categories = append(page.Categories, categoryCount{c, counts[c]})
		}
	}
	byProject := map[string][]htmlFinding{}
	for _, f := range doc.Findings {
		byProject[f.ProjectName] = append(byProject[f.ProjectName], htmlFinding{Finding: f, Code: highlightContext(f)})
	}
	for _, p := range doc.Projects {
		page.Sections = append(page.Sections, htmlProject{ProjectInfo: p, Findings: byProject[p.Name]})
	}
	return pageTemplate.Execute(w, page)
}

// contextStart returns the line number of the first context line.
func contextStart(f types.Finding) int {
	for i, l := range f.ContextLines {
		if f.LineNumber-i >= 1 && strings.TrimSpace(l) == f.CodeSnippet {
			return f.LineNumber - i
		}
	}
	return f.LineNumber
}

func highlightContext(f types.Finding) template.HTML {
	code := strings.Join(f.ContextLines, "\n")
	start := contextStart(f)
	if code == "" {
		code = f.CodeSnippet
		start = f.LineNumber
	}
	fallback := template.HTML("<pre>" + template.HTMLEscapeString(code) + "</pre>")

	lexer := lexers.Match(filepath.Base(f.FilePath))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}
	formatter := chromahtml.New(
		chromahtml.WithLineNumbers(true),
		chromahtml.BaseLineNumber(start),
		chromahtml.HighlightLines([][2]int{{f.LineNumber, f.LineNumber}}),
	)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return fallback
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return fallback
	}
	return template.HTML(buf.String())
}
