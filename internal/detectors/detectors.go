package detectors

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/redactyl/ddscan/internal/types"
)

// Detector finds telemetry SDK call sites in the source of one language.
type Detector interface {
	// ID is a short stable identifier such as "script" or "unity".
	ID() string
	Language() string
	Extensions() []string
	CanHandle(path string) bool
	// Detect returns at most one finding per line, in ascending line order.
	// baseLink is stored on every finding until the caller backfills it.
	Detect(path, content, project, baseLink string) []types.Finding
}

// DefaultScopes are the npm scopes treated as the telemetry SDK.
var DefaultScopes = []string{"@datadog", "@telemetry"}

// DefaultContextLines is the context radius used when none is configured.
const DefaultContextLines = 3

// Options tune detector output. A zero Options is usable.
type Options struct {
	ContextLines int
	Detailed     bool
	Scopes       []string
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{ContextLines: DefaultContextLines, Scopes: append([]string(nil), DefaultScopes...)}
}

func (o Options) scopes() []string {
	var out []string
	for _, s := range o.Scopes {
		s = strings.TrimSuffix(strings.TrimSpace(s), "/")
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return DefaultScopes
	}
	return out
}

// Pattern group kinds.
const (
	kindImports          = "imports"
	kindInit             = "init"
	kindRUMAction        = "rum_action"
	kindRUMError         = "rum_error"
	kindRUMTiming        = "rum_timing"
	kindRUMView          = "rum_view"
	kindRUMAttribute     = "rum_attribute"
	kindLogCreate        = "log_create"
	kindLogInfo          = "log_info"
	kindLogWarn          = "log_warn"
	kindLogError         = "log_error"
	kindLogDebug         = "log_debug"
	kindUserInfo         = "user_info"
	kindGlobalContext    = "global_context"
	kindGlobalAttributes = "global_attributes"
	kindClearData        = "clear_data"
)

// patternGroup is one named entry of a language's pattern table. A line
// matches the group when any of its patterns matches.
type patternGroup struct {
	kind     string
	op       types.OperationType
	patterns []*regexp.Regexp
}

func group(kind string, op types.OperationType, exprs ...string) patternGroup {
	g := patternGroup{kind: kind, op: op}
	for _, e := range exprs {
		g.patterns = append(g.patterns, ci(e))
	}
	return g
}

func (g patternGroup) match(line string) bool {
	for _, re := range g.patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// symbolMatch is a candidate produced by a resolved import rather than the
// literal pattern table.
type symbolMatch struct {
	op   types.OperationType
	cat  types.DataCategory
	data map[string]any
	args string
}

// symbolFinder matches one line against the symbols resolved for a file.
type symbolFinder interface {
	find(line string) []symbolMatch
}

// variant supplies everything language specific to lineDetector.
type variant interface {
	table() []patternGroup
	resolveImports(content string) []types.ImportedSymbol
	finder(syms []types.ImportedSymbol) symbolFinder
	extract(kind, line string) map[string]any
}

// lineDetector runs the two-pass algorithm shared by every language: resolve
// imports once, then test each line against the pattern table and, when the
// table is silent, against the resolved symbols.
type lineDetector struct {
	id       string
	language string
	exts     []string
	groups   []patternGroup
	v        variant
	opts     Options
}

func newLineDetector(id, language string, exts []string, v variant, opts Options) *lineDetector {
	return &lineDetector{id: id, language: language, exts: exts, groups: v.table(), v: v, opts: opts}
}

func (d *lineDetector) ID() string       { return d.id }
func (d *lineDetector) Language() string { return d.language }

func (d *lineDetector) Extensions() []string {
	return append([]string(nil), d.exts...)
}

func (d *lineDetector) CanHandle(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range d.exts {
		if ext == e {
			return true
		}
	}
	return false
}

func (d *lineDetector) Detect(path, content, project, baseLink string) []types.Finding {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil
	}
	syms := d.v.resolveImports(content)
	var finder symbolFinder
	if len(syms) > 0 {
		finder = d.v.finder(syms)
	}

	var out []types.Finding
	for i, line := range lines {
		n := i + 1
		matched := false
		for _, g := range d.groups {
			if !g.match(line) {
				continue
			}
			data := d.v.extract(g.kind, line)
			f := d.finding(path, project, baseLink, lines, n, g.op, data, classifyKind(g.kind, data))
			if d.opts.Detailed {
				f.ExtractedParameters = detailedParameters(firstCallArgs(line))
			}
			out = append(out, f)
			matched = true
		}
		if matched || finder == nil {
			continue
		}
		for _, m := range finder.find(line) {
			f := d.finding(path, project, baseLink, lines, n, m.op, m.data, m.cat)
			if d.opts.Detailed {
				f.ExtractedParameters = detailedParameters(m.args)
			}
			out = append(out, f)
		}
	}
	return dedupe(out)
}

func (d *lineDetector) finding(path, project, link string, lines []string, n int, op types.OperationType, data map[string]any, cat types.DataCategory) types.Finding {
	if data == nil {
		data = map[string]any{}
	}
	for k, v := range data {
		if s, ok := v.(string); ok {
			data[k] = redactTokenText(s)
		}
	}
	return types.Finding{
		FilePath:      path,
		LineNumber:    n,
		CodeSnippet:   strings.TrimSpace(lines[n-1]),
		OperationType: op,
		Data:          data,
		Category:      cat,
		ContextLines:  contextWindow(lines, n, d.opts.ContextLines),
		Link:          link,
		ProjectName:   project,
	}
}
