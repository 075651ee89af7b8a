package detectors

import (
	"regexp"
	"sort"
	"strings"

	"github.com/redactyl/ddscan/internal/types"
)

const identExpr = `[A-Za-z_$][\w$]*`

var (
	reIdent        = regexp.MustCompile(`^` + identExpr + `$`)
	reAsAlias      = ci(`\s+as\s+`)
	reTypeModifier = ci(`^type\s+`)
)

// symbolTable collects bindings in source order; rebinding a local name
// replaces the earlier entry in place.
type symbolTable struct {
	order []types.ImportedSymbol
	index map[string]int
}

func (t *symbolTable) add(s types.ImportedSymbol) {
	if t.index == nil {
		t.index = map[string]int{}
	}
	if i, ok := t.index[s.Local]; ok {
		t.order[i] = s
		return
	}
	t.index[s.Local] = len(t.order)
	t.order = append(t.order, s)
}

type binding struct {
	pos  int
	syms []types.ImportedSymbol
}

func lineAt(content string, pos int) int {
	return strings.Count(content[:pos], "\n") + 1
}

// scriptImports resolves ES module and CommonJS bindings of packages under the
// configured scopes.
type scriptImports struct {
	named          *regexp.Regexp
	defaultImport  *regexp.Regexp
	namespace      *regexp.Regexp
	mixed          *regexp.Regexp
	requireNamed   *regexp.Regexp
	requireDefault *regexp.Regexp
}

func newScriptImports(scopeAlt string) scriptImports {
	pkg := `['"]((?:` + scopeAlt + `)/[^'"]+)['"]`
	return scriptImports{
		named:          ci(`\bimport\s+(?:type\s+)?\{([^}]*)\}\s*from\s*` + pkg),
		defaultImport:  ci(`\bimport\s+(?:type\s+)?(` + identExpr + `)\s+from\s*` + pkg),
		namespace:      ci(`\bimport\s+\*\s*as\s+(` + identExpr + `)\s+from\s*` + pkg),
		mixed:          ci(`\bimport\s+(` + identExpr + `)\s*,\s*(?:\{([^}]*)\}|\*\s*as\s+(` + identExpr + `))\s*from\s*` + pkg),
		requireNamed:   ci(`\b(?:const|let|var)\s+\{([^}]*)\}\s*=\s*require\s*\(\s*` + pkg + `\s*\)`),
		requireDefault: ci(`\b(?:const|let|var)\s+(` + identExpr + `)\s*=\s*require\s*\(\s*` + pkg + `\s*\)`),
	}
}

// resolve never fails; content without recognizable imports yields nil.
func (s scriptImports) resolve(content string) []types.ImportedSymbol {
	var found []binding
	collect := func(re *regexp.Regexp, build func(m []string, line int) []types.ImportedSymbol) {
		for _, loc := range re.FindAllStringSubmatchIndex(content, -1) {
			m := submatches(content, loc)
			line := lineAt(content, loc[0])
			if syms := build(m, line); len(syms) > 0 {
				found = append(found, binding{pos: loc[0], syms: syms})
			}
		}
	}

	collect(s.named, func(m []string, line int) []types.ImportedSymbol {
		return namedBindings(m[1], m[2], line, reAsAlias)
	})
	collect(s.defaultImport, func(m []string, line int) []types.ImportedSymbol {
		return single(m[1], m[2], types.BindDefault, line)
	})
	collect(s.namespace, func(m []string, line int) []types.ImportedSymbol {
		return single(m[1], m[2], types.BindNamespace, line)
	})
	collect(s.mixed, func(m []string, line int) []types.ImportedSymbol {
		pkg := m[4]
		out := single(m[1], pkg, types.BindDefault, line)
		if m[2] != "" {
			out = append(out, namedBindings(m[2], pkg, line, reAsAlias)...)
		}
		if m[3] != "" {
			out = append(out, single(m[3], pkg, types.BindNamespace, line)...)
		}
		return out
	})
	collect(s.requireNamed, func(m []string, line int) []types.ImportedSymbol {
		return namedBindings(m[1], m[2], line, reColonAlias)
	})
	collect(s.requireDefault, func(m []string, line int) []types.ImportedSymbol {
		return single(m[1], m[2], types.BindDefault, line)
	})

	return flatten(found)
}

var reColonAlias = regexp.MustCompile(`\s*:\s*`)

// namedBindings parses "a, b as c" (or "a, b: c" for destructuring) and binds
// the local alias of every item.
func namedBindings(list, pkg string, line int, alias *regexp.Regexp) []types.ImportedSymbol {
	var out []types.ImportedSymbol
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(reTypeModifier.ReplaceAllString(strings.TrimSpace(item), ""))
		if item == "" {
			continue
		}
		original, local := item, item
		if parts := alias.Split(item, 2); len(parts) == 2 {
			original, local = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		}
		if !reIdent.MatchString(local) {
			continue
		}
		out = append(out, types.ImportedSymbol{
			Local:    local,
			Original: original,
			Package:  pkg,
			Style:    types.BindNamed,
			Line:     line,
		})
	}
	return out
}

func single(name, pkg string, style types.BindingStyle, line int) []types.ImportedSymbol {
	if !reIdent.MatchString(name) {
		return nil
	}
	return []types.ImportedSymbol{{Local: name, Original: name, Package: pkg, Style: style, Line: line}}
}

func submatches(s string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] >= 0 {
			out[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return out
}

func flatten(found []binding) []types.ImportedSymbol {
	if len(found) == 0 {
		return nil
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })
	var t symbolTable
	for _, b := range found {
		for _, s := range b.syms {
			t.add(s)
		}
	}
	return t.order
}

// unityImports resolves "using Datadog.Unity..." directives. Each directive
// binds its last namespace segment and, for the RUM and Logs families, the
// well-known types those namespaces declare.
type unityImports struct{}

var (
	reUsing      = ci(`\busing\s+(Datadog\.Unity(?:\.[A-Za-z]+)*)\s*;`)
	reUsingAlias = ci(`\busing\s+([A-Za-z_]\w*)\s*=\s*(Datadog\.Unity(?:\.[A-Za-z]+)*)\s*;`)
)

type knownType struct {
	name string
	kind string
}

var (
	rumKnownTypes  = []knownType{{"RumUserActionType", "enum"}, {"IDdRum", "interface"}}
	logsKnownTypes = []knownType{{"DdLogLevel", "enum"}, {"DdLogger", "class"}}
)

func (unityImports) resolve(content string) []types.ImportedSymbol {
	var found []binding
	for _, loc := range reUsing.FindAllStringSubmatchIndex(content, -1) {
		ns := content[loc[2]:loc[3]]
		seg := lastSegment(ns)
		line := lineAt(content, loc[0])
		syms := []types.ImportedSymbol{{Local: seg, Original: seg, Package: ns, Style: types.BindNamespace, Line: line}}
		found = append(found, binding{pos: loc[0], syms: append(syms, wellKnown(ns, line)...)})
	}
	for _, loc := range reUsingAlias.FindAllStringSubmatchIndex(content, -1) {
		alias, ns := content[loc[2]:loc[3]], content[loc[4]:loc[5]]
		line := lineAt(content, loc[0])
		syms := []types.ImportedSymbol{{Local: alias, Original: lastSegment(ns), Package: ns, Style: types.BindDefault, Line: line}}
		found = append(found, binding{pos: loc[0], syms: append(syms, wellKnown(ns, line)...)})
	}
	return flatten(found)
}

func wellKnown(ns string, line int) []types.ImportedSymbol {
	var known []knownType
	if hasSegment(ns, "Rum") {
		known = append(known, rumKnownTypes...)
	}
	if hasSegment(ns, "Logs") {
		known = append(known, logsKnownTypes...)
	}
	out := make([]types.ImportedSymbol, 0, len(known))
	for _, k := range known {
		out = append(out, types.ImportedSymbol{
			Local: k.name, Original: k.name, Package: ns, Style: types.BindNamed, Kind: k.kind, Line: line,
		})
	}
	return out
}

// hasSegment reports whether one dot-separated part of ns is seg, ignoring case.
func hasSegment(ns, seg string) bool {
	for _, part := range strings.Split(ns, ".") {
		if strings.EqualFold(part, seg) {
			return true
		}
	}
	return false
}

func lastSegment(ns string) string {
	if i := strings.LastIndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
