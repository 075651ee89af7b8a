package detectors

import (
	"regexp"
	"strings"

	"github.com/redactyl/ddscan/internal/types"
)

// ScriptExtensions are the file extensions owned by the web script detector.
var ScriptExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// NewScriptDetector returns the detector for the browser RUM and logs SDKs in
// TypeScript and JavaScript sources.
func NewScriptDetector(opts Options) Detector {
	return newLineDetector("script", "TypeScript/JavaScript", ScriptExtensions, newScriptVariant(opts.scopes()), opts)
}

type scriptVariant struct {
	groups  []patternGroup
	imports scriptImports

	reImportItems *regexp.Regexp
	rePackage     *regexp.Regexp
	reRUMCall     *regexp.Regexp
	reLogCall     *regexp.Regexp
	reUserCall    *regexp.Regexp
	reContextCall *regexp.Regexp
}

func scopeAlternation(scopes []string) string {
	quoted := make([]string, 0, len(scopes))
	for _, s := range scopes {
		quoted = append(quoted, regexp.QuoteMeta(s))
	}
	return strings.Join(quoted, "|")
}

func newScriptVariant(scopes []string) *scriptVariant {
	alt := scopeAlternation(scopes)
	pkg := `['"](?:` + alt + `)/`
	return &scriptVariant{
		groups: []patternGroup{
			group(kindImports, types.OpImport,
				`\bimport\s+.*`+pkg,
				`\bfrom\s+`+pkg,
				`\brequire\s*\(\s*`+pkg,
			),
			group(kindInit, types.OpInit,
				`\bdatadogRum\.init\s*\(`,
				`\bdatadogLogs\.init\s*\(`,
				`\bdatadogLogs\.createLogger\s*\(`,
				`\bDD_RUM\.init\s*\(`,
				`\bDD_LOGS\.init\s*\(`,
			),
			group(kindRUMAction, types.OpRUMAction, `\bdatadogRum\.addAction\s*\(`, `\bDD_RUM\.addAction\s*\(`),
			group(kindRUMError, types.OpRUMError, `\bdatadogRum\.addError\s*\(`, `\bDD_RUM\.addError\s*\(`),
			group(kindRUMTiming, types.OpRUMTiming, `\bdatadogRum\.addTiming\s*\(`, `\bDD_RUM\.addTiming\s*\(`),
			group(kindLogInfo, types.OpLogInfo, `\blogger\.info\s*\(`, `\bdatadogLogs\.logger\.info\s*\(`),
			group(kindLogError, types.OpLogError, `\blogger\.error\s*\(`, `\bdatadogLogs\.logger\.error\s*\(`),
			group(kindLogWarn, types.OpLogWarn, `\blogger\.warn\s*\(`, `\bdatadogLogs\.logger\.warn\s*\(`),
			group(kindLogDebug, types.OpLogDebug, `\blogger\.debug\s*\(`, `\bdatadogLogs\.logger\.debug\s*\(`),
			group(kindUserInfo, types.OpConfiguration,
				`\b(?:datadogRum|DD_RUM)\.(?:setUser|setUserProperty|removeUserProperty|clearUser)\s*\(`,
			),
			group(kindGlobalContext, types.OpCustomAttribute,
				`\b(?:datadogRum|datadogLogs|DD_RUM|DD_LOGS)\.(?:setGlobalContext|setGlobalContextProperty|removeGlobalContextProperty|addRumGlobalContext|setRumGlobalContext)\s*\(`,
			),
		},
		imports:       newScriptImports(alt),
		reImportItems: ci(`\bimport\s+(\{[^}]*\}|\*\s*as\s+\w+|\w+)`),
		rePackage:     ci(`['"]((?:` + alt + `)/[^'"]+)['"]`),
		reRUMCall:     ci(`\.(?:addAction|addError|addTiming)\s*\(`),
		reLogCall:     ci(`\.(?:info|error|warn|debug)\s*\(`),
		reUserCall:    ci(`\.(?:setUser|setUserProperty|removeUserProperty|clearUser)\s*\(`),
		reContextCall: ci(`\.(?:setGlobalContext|setGlobalContextProperty|removeGlobalContextProperty|addRumGlobalContext|setRumGlobalContext)\s*\(`),
	}
}

func (v *scriptVariant) table() []patternGroup { return v.groups }

func (v *scriptVariant) resolveImports(content string) []types.ImportedSymbol {
	return v.imports.resolve(content)
}

// reLeadingLiteral matches a string literal as the first argument of a call.
var reLeadingLiteral = ci("^\\s*['\"`]([^'\"`]*)['\"`]")

func (v *scriptVariant) extract(kind, line string) map[string]any {
	data := map[string]any{}
	switch kind {
	case kindImports:
		if m := v.reImportItems.FindStringSubmatch(line); m != nil {
			data["imported_items"] = strings.TrimSpace(m[1])
		}
		if m := v.rePackage.FindStringSubmatch(line); m != nil {
			data["package"] = m[1]
		}
	case kindInit:
		return extractInit(line)
	case kindRUMAction, kindRUMError, kindRUMTiming:
		if args, ok := argsAfter(line, v.reRUMCall); ok {
			if m := reLeadingLiteral.FindStringSubmatch(args); m != nil {
				data["action_name"] = m[1]
			}
			data["parameters"] = args
		}
	case kindLogInfo, kindLogError, kindLogWarn, kindLogDebug:
		if args, ok := argsAfter(line, v.reLogCall); ok {
			if m := reLeadingLiteral.FindStringSubmatch(args); m != nil {
				data["log_message"] = m[1]
			}
			data["parameters"] = args
		}
	case kindUserInfo:
		if args, ok := argsAfter(line, v.reUserCall); ok {
			data["parameters"] = args
		}
	case kindGlobalContext:
		if args, ok := argsAfter(line, v.reContextCall); ok {
			if m := reLeadingLiteral.FindStringSubmatch(args); m != nil {
				data["attribute_key"] = m[1]
			}
			data["parameters"] = args
		}
	}
	return data
}

func (v *scriptVariant) finder(syms []types.ImportedSymbol) symbolFinder {
	f := &scriptFinder{}
	for _, s := range syms {
		q := regexp.QuoteMeta(s.Local)
		f.entries = append(f.entries, scriptSymbol{
			sym: s,
			surfaces: []*regexp.Regexp{
				ci(`(?:^|[^\w$])(` + q + `)\s*\(`),
				ci(`\.\s*(` + q + `)\s*\(`),
				ci(`(?:^|[^\w$])(` + q + `)(?:[^\w$]|$)`),
			},
		})
	}
	return f
}

type scriptSymbol struct {
	sym      types.ImportedSymbol
	surfaces []*regexp.Regexp
}

// scriptFinder matches the local names bound by imports: direct calls,
// member calls and bare references that are not object-literal keys.
type scriptFinder struct {
	entries []scriptSymbol
}

var reMemberAccess = regexp.MustCompile(`^\s*\.\s*([A-Za-z_$][\w$]*)`)

func (f *scriptFinder) find(line string) []symbolMatch {
	var out []symbolMatch
	for _, e := range f.entries {
		for i, re := range e.surfaces {
			for _, loc := range re.FindAllStringSubmatchIndex(line, -1) {
				start, end := loc[2], loc[3]
				if i == 2 && followedByColon(line, end) {
					continue
				}
				out = append(out, e.match(line, start, end))
			}
		}
	}
	return out
}

func (e scriptSymbol) match(line string, start, end int) symbolMatch {
	data := map[string]any{
		"method_name":  e.sym.Local,
		"package":      e.sym.Package,
		"import_style": string(e.sym.Style),
		"call_type":    callType(line, start, end),
	}
	setIf(data, "original_name", e.sym.Original)

	name := e.sym.Original
	if m := reMemberAccess.FindStringSubmatch(line[end:]); m != nil {
		data["member_name"] = m[1]
		name = m[1]
	}

	context, args := callContext(line, start, end)
	data["call_context"] = context
	setIf(data, "parameters", args)

	return symbolMatch{
		op:   methodOperation(name, e.sym.Package),
		cat:  classifyMethod(name, e.sym.Package),
		data: data,
		args: args,
	}
}

func followedByColon(line string, end int) bool {
	rest := strings.TrimLeft(line[end:], " \t")
	return strings.HasPrefix(rest, ":")
}

// callType tags the lexical shape of a symbol usage.
func callType(line string, start, end int) string {
	before := strings.TrimRight(line[:start], " \t")
	switch {
	case strings.HasSuffix(before, "."):
		return "method_call"
	case strings.HasSuffix(before, "=") && !isComparison(before):
		return "assignment"
	}
	from := start - 10
	if from < 0 {
		from = 0
	}
	if strings.Contains(strings.ToLower(line[from:start]), "new ") {
		return "constructor"
	}
	to := end + 20
	if to > len(line) {
		to = len(line)
	}
	if strings.Contains(line[end:to], "(") {
		return "function_call"
	}
	return "reference"
}

func isComparison(before string) bool {
	for _, op := range []string{"==", "!=", "<=", ">="} {
		if strings.HasSuffix(before, op) {
			return true
		}
	}
	return false
}

// callContext returns the text around a usage, spanning the whole call when
// the symbol is directly invoked, and the call's argument text.
func callContext(line string, start, end int) (context, args string) {
	open := parenFollows(line, end)
	if open < 0 {
		return strings.TrimSpace(line), ""
	}
	inner, closeIdx, _ := balancedArgs(line, open)
	from := start - 10
	if from < 0 {
		from = 0
	}
	return strings.TrimSpace(line[from : closeIdx+1]), strings.TrimSpace(inner)
}
