package detectors

import (
	"regexp"
	"strings"

	"github.com/redactyl/ddscan/internal/types"
)

// UnityExtensions are the file extensions owned by the Unity detector.
var UnityExtensions = []string{".cs"}

// NewUnityDetector returns the detector for the Datadog Unity SDK in C# sources.
func NewUnityDetector(opts Options) Detector {
	return newLineDetector("unity", "C#", UnityExtensions, newUnityVariant(), opts)
}

type unityVariant struct {
	groups []patternGroup
}

func newUnityVariant() *unityVariant {
	return &unityVariant{groups: []patternGroup{
		group(kindImports, types.OpImport, `\busing\s+Datadog\.Unity`),
		group(kindInit, types.OpInit,
			`\bDatadogSdk\.InitWithPlatform\s*\(`,
			`\bDatadogSdk\.Instance\.SetTrackingConsent\s*\(`,
			`\bDatadogSdk\.Instance\.SetSdkVerbosity\s*\(`,
		),
		group(kindRUMAction, types.OpRUMAction, `\.Rum\.(?:Add|Start|Stop)Action\s*\(`),
		group(kindRUMError, types.OpRUMError, `\.Rum\.AddError\s*\(`),
		group(kindRUMTiming, types.OpRUMTiming, `\.Rum\.AddTiming\s*\(`),
		group(kindRUMView, types.OpCustomAttribute, `\.Rum\.(?:Start|Stop)View\s*\(`),
		group(kindRUMAttribute, types.OpCustomAttribute, `\.Rum\.(?:Add|Remove)Attribute\s*\(`),
		group(kindLogCreate, types.OpInit, `\bDatadogSdk\.Instance\.CreateLogger\s*\(`, `\.CreateLogger\s*\(`),
		group(kindLogInfo, types.OpLogInfo, `\.Log\s*\(\s*DdLogLevel\.Info`, `\.Info\s*\(`),
		group(kindLogError, types.OpLogError, `\.Log\s*\(\s*DdLogLevel\.Error`, `\.Error\s*\(`),
		group(kindLogWarn, types.OpLogWarn, `\.Log\s*\(\s*DdLogLevel\.Warn`, `\.Warn\s*\(`),
		group(kindLogDebug, types.OpLogDebug, `\.Log\s*\(\s*DdLogLevel\.Debug`, `\.Debug\s*\(`),
		group(kindUserInfo, types.OpConfiguration, `\.(?:SetUserInfo|AddUserExtraInfo)\s*\(`),
		group(kindGlobalAttributes, types.OpCustomAttribute, `\.(?:Add|Remove)LogsAttributes?\s*\(`),
		group(kindClearData, types.OpConfiguration, `\.ClearAllData\s*\(`),
	}}
}

var (
	reUnityNamespace = ci(`\busing\s+(Datadog\.[A-Za-z.]+)`)
	reUnityLogCall   = ci(`\.(?:Log|Info|Error|Warn|Debug)\s*\(`)
	reUnityLogMsg    = ci(`^\s*(?:DdLogLevel\.\w+\s*,\s*)?["']([^"']*)["']`)
	reUnityRUMCall   = ci(`\.(?:Add|Start|Stop)(?:Action|Error|Timing)\s*\(`)
	reUnityRUMName   = ci(`^\s*(?:RumUserActionType\.(\w+)\s*,\s*)?["']([^"']*)["']`)
	reUnityViewCall  = ci(`\.(?:Start|Stop)View\s*\(`)
	reUnityAttribute = ci(`\.(?:Add|Remove)Attribute\s*\(\s*["']([^"']*)["'](?:\s*,\s*([^)]+))?`)
	reUnityUserCall  = ci(`\.(?:SetUserInfo|AddUserExtraInfo)\s*\(`)
	reUnityAttrsCall = ci(`\.(?:Add|Remove)LogsAttributes?\s*\(`)
	reUnityLogger    = ci(`\.CreateLogger\s*\(`)
	reUnityLiteral   = ci(`^\s*["']([^"']*)["']`)
)

func (v *unityVariant) table() []patternGroup { return v.groups }

func (v *unityVariant) resolveImports(content string) []types.ImportedSymbol {
	return unityImports{}.resolve(content)
}

func (v *unityVariant) extract(kind, line string) map[string]any {
	data := map[string]any{}
	switch kind {
	case kindImports:
		if m := reUnityNamespace.FindStringSubmatch(line); m != nil {
			data["namespace"] = strings.TrimRight(m[1], ".")
		}
	case kindInit:
		return extractInit(line)
	case kindLogInfo, kindLogError, kindLogWarn, kindLogDebug:
		if args, ok := argsAfter(line, reUnityLogCall); ok {
			if m := reUnityLogMsg.FindStringSubmatch(args); m != nil {
				data["log_message"] = m[1]
			}
			data["parameters"] = args
		}
	case kindRUMAction, kindRUMError, kindRUMTiming:
		if args, ok := argsAfter(line, reUnityRUMCall); ok {
			if m := reUnityRUMName.FindStringSubmatch(args); m != nil {
				actionType := m[1]
				if actionType == "" {
					actionType = "Custom"
				}
				data["action_type"] = actionType
				data["action_name"] = m[2]
			}
			data["parameters"] = args
		}
	case kindRUMView:
		if args, ok := argsAfter(line, reUnityViewCall); ok {
			if m := reUnityLiteral.FindStringSubmatch(args); m != nil {
				data["view_name"] = m[1]
			}
			data["parameters"] = args
		}
	case kindRUMAttribute:
		if m := reUnityAttribute.FindStringSubmatch(line); m != nil {
			data["attribute_key"] = m[1]
			setIf(data, "attribute_value", strings.TrimSpace(m[2]))
		}
	case kindUserInfo:
		if args, ok := argsAfter(line, reUnityUserCall); ok {
			data["parameters"] = args
		}
	case kindGlobalAttributes:
		if args, ok := argsAfter(line, reUnityAttrsCall); ok {
			if m := reUnityLiteral.FindStringSubmatch(args); m != nil {
				data["attribute_key"] = m[1]
			}
			data["parameters"] = args
		}
	case kindLogCreate:
		if args, ok := argsAfter(line, reUnityLogger); ok {
			data["parameters"] = args
		}
	}
	return data
}

func (v *unityVariant) finder(syms []types.ImportedSymbol) symbolFinder {
	f := &unityFinder{}
	for _, s := range syms {
		q := regexp.QuoteMeta(s.Local)
		f.entries = append(f.entries, unitySymbol{
			sym: s,
			surfaces: []*regexp.Regexp{
				ci(`\b(` + q + `)\.(\w+)`),
				ci(`\b(` + q + `)\.(\w+)\s*\(`),
				ci(`\b(` + q + `)\s+(\w+)`),
			},
		})
	}
	return f
}

type unitySymbol struct {
	sym      types.ImportedSymbol
	surfaces []*regexp.Regexp
}

// unityFinder matches member access, member calls and declarations of the
// types brought in by using directives.
type unityFinder struct {
	entries []unitySymbol
}

func (f *unityFinder) find(line string) []symbolMatch {
	var out []symbolMatch
	for _, e := range f.entries {
		for _, re := range e.surfaces {
			for _, loc := range re.FindAllStringSubmatchIndex(line, -1) {
				out = append(out, e.match(line, loc[0], loc[1], line[loc[4]:loc[5]]))
			}
		}
	}
	return out
}

func (e unitySymbol) match(line string, start, end int, member string) symbolMatch {
	context, args := usageContext(line, start)
	data := map[string]any{
		"type_name":     e.sym.Local,
		"member_name":   member,
		"namespace":     e.sym.Package,
		"usage_context": context,
		"usage_type":    usageType(line, start, end),
	}
	setIf(data, "type_kind", e.sym.Kind)
	setIf(data, "parameters", args)
	return symbolMatch{
		op:   typeOperation(e.sym.Original, member),
		cat:  classifyType(e.sym.Original, member),
		data: data,
		args: args,
	}
}

// usageType tags how a Unity type is used at a match.
func usageType(line string, start, end int) string {
	matched := line[start:end]
	after := line[end:min(len(line), end+10)]
	before := line[max(0, start-10):start]
	switch {
	case strings.Contains(after, "(") || strings.HasSuffix(strings.TrimSpace(matched), "("):
		return "method_call"
	case strings.Contains(matched, "."):
		return "property_access"
	case containsAny(before, []string{"new ", "var ", "public ", "private "}):
		return "declaration"
	case strings.HasSuffix(strings.TrimSpace(before), "="):
		return "assignment"
	default:
		return "reference"
	}
}

// usageContext spans a method call when one starts within 50 characters of the
// match, otherwise a fixed window around it.
func usageContext(line string, start int) (context, args string) {
	from := max(0, start-10)
	window := line[start:min(len(line), start+50)]
	if strings.Contains(window, "(") {
		open := strings.IndexByte(line[start:], '(') + start
		inner, closeIdx, _ := balancedArgs(line, open)
		return strings.TrimSpace(line[from : closeIdx+1]), strings.TrimSpace(inner)
	}
	return strings.TrimSpace(line[from:min(len(line), start+50)]), ""
}
