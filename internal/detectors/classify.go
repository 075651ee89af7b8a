package detectors

import (
	"encoding/json"
	"strings"

	"github.com/redactyl/ddscan/internal/types"
)

// interactionKeywords mark an action as user-driven.
var interactionKeywords = []string{"click", "tap", "swipe", "scroll", "input", "select", "submit", "touch"}

// configurationKinds are pattern groups whose matches always describe SDK setup.
var configurationKinds = map[string]bool{
	kindImports:          true,
	kindInit:             true,
	kindLogCreate:        true,
	kindUserInfo:         true,
	kindGlobalAttributes: true,
	kindClearData:        true,
}

// classifyKind assigns a data category to a literal pattern-table match.
func classifyKind(kind string, data map[string]any) types.DataCategory {
	switch {
	case configurationKinds[kind]:
		return types.CatConfiguration
	case kind == kindLogError || kind == kindRUMError:
		return types.CatError
	case kind == kindRUMTiming:
		return types.CatPerformance
	case kind == kindRUMAction && containsAny(strings.ToLower(serialize(data)), interactionKeywords):
		return types.CatUser
	default:
		return types.CatSystem
	}
}

// classifyMethod assigns a category to a resolved web import by the name it was
// exported under and the package it came from.
func classifyMethod(name, pkg string) types.DataCategory {
	n, p := strings.ToLower(name), strings.ToLower(pkg)
	switch {
	case strings.Contains(n, "error") || strings.Contains(p, "error"):
		return types.CatError
	case strings.Contains(n, "timing") || strings.Contains(n, "performance"):
		return types.CatPerformance
	case strings.Contains(n, "action") && containsAny(n, interactionKeywords):
		return types.CatUser
	case strings.Contains(p, "react") || strings.Contains(n, "plugin"):
		return types.CatConfiguration
	default:
		return types.CatSystem
	}
}

// methodOperation maps a resolved web import to an operation type.
func methodOperation(name, pkg string) types.OperationType {
	n, p := strings.ToLower(name), strings.ToLower(pkg)
	switch {
	case strings.Contains(p, "rum") || n == "addaction" || n == "adderror" || n == "addtiming":
		switch {
		case strings.Contains(n, "action"):
			return types.OpRUMAction
		case strings.Contains(n, "error"):
			return types.OpRUMError
		case strings.Contains(n, "timing"):
			return types.OpRUMTiming
		}
		return types.OpCustomAttribute
	case strings.Contains(p, "log") || n == "logger" || n == "createlogger":
		return logLevel(n)
	case strings.Contains(p, "react") || n == "reactplugin" || n == "createbrowserrouter":
		return types.OpConfiguration
	default:
		return types.OpCustomAttribute
	}
}

// classifyType assigns a category to a resolved Unity type usage.
func classifyType(typeName, member string) types.DataCategory {
	t, m := strings.ToLower(typeName), strings.ToLower(member)
	switch {
	case strings.Contains(t, "error") || strings.Contains(m, "error"):
		return types.CatError
	case strings.Contains(m, "timing") || strings.Contains(m, "performance"):
		return types.CatPerformance
	case strings.Contains(m, "action") && containsAny(m, interactionKeywords):
		return types.CatUser
	case strings.Contains(t, "config") || strings.Contains(m, "init") || strings.Contains(m, "setup"):
		return types.CatConfiguration
	default:
		return types.CatSystem
	}
}

// typeOperation maps a resolved Unity type usage to an operation type.
func typeOperation(typeName, member string) types.OperationType {
	t, m := strings.ToLower(typeName), strings.ToLower(member)
	switch {
	case strings.Contains(t, "rum"):
		switch {
		case strings.Contains(m, "action"):
			return types.OpRUMAction
		case strings.Contains(m, "error"):
			return types.OpRUMError
		case strings.Contains(m, "timing"):
			return types.OpRUMTiming
		}
		return types.OpCustomAttribute
	case strings.Contains(t, "log"):
		return logLevel(m)
	case strings.Contains(t, "datadog") && strings.Contains(t, "sdk"):
		return types.OpConfiguration
	default:
		return types.OpCustomAttribute
	}
}

func logLevel(lowerName string) types.OperationType {
	switch {
	case strings.Contains(lowerName, "error"):
		return types.OpLogError
	case strings.Contains(lowerName, "warn"):
		return types.OpLogWarn
	case strings.Contains(lowerName, "debug"):
		return types.OpLogDebug
	default:
		return types.OpLogInfo
	}
}

// serialize renders extracted data deterministically; encoding/json sorts map
// keys. The length of this string is also the dedupe richness measure.
func serialize(data map[string]any) string {
	if len(data) == 0 {
		return "{}"
	}
	b, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return string(b)
}
