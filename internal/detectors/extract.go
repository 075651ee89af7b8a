package detectors

import (
	"strings"
	"unicode/utf8"
)

// TokenPrefixLen is how much of an access token survives redaction.
const TokenPrefixLen = 10

const redactionMarker = "..."

var (
	reInitConfig    = ci(`\(\s*(\{[^}]+\})`)
	reApplicationID = ci(`\bapplication_?id\s*[:=]\s*['"]([^'"]+)['"]`)
	reClientToken   = ci(`\bclient_?token\s*[:=]\s*['"]([^'"]+)['"]`)
	reSite          = ci(`\bsite\s*[:=]\s*['"]([^'"]+)['"]`)

	reKeyValue     = ci(`(\w+)\s*[:=]\s*([^,}]+)`)
	reStringLit    = ci(`['"]([^'"]+)['"]`)
	reTokenLikeKey = ci(`^(?:client_?token|token|api_?key|app_?key|secret)$`)
	reTokenAssign  = ci(`\b(?:client_?token|token|api_?key|app_?key|secret)\s*[:=]\s*['"]([^'"]+)['"]`)
)

// RedactToken keeps the first TokenPrefixLen characters of a token followed
// by "...". Values shorter than TokenPrefixLen are not treated as tokens and
// are returned unchanged.
func RedactToken(v string) string {
	if utf8.RuneCountInString(v) < TokenPrefixLen {
		return v
	}
	r := []rune(v)
	return string(r[:TokenPrefixLen]) + redactionMarker
}

// redactTokenText redacts every quoted value assigned to a token-like key in
// s. Already redacted values are left as they are.
func redactTokenText(s string) string {
	return reTokenAssign.ReplaceAllStringFunc(s, func(m string) string {
		loc := reTokenAssign.FindStringSubmatchIndex(m)
		return m[:loc[2]] + RedactToken(m[loc[2]:loc[3]]) + m[loc[3]:]
	})
}

// extractInit pulls the configuration literal and the well-known keys out of
// an initialization call. Any client token is redacted wherever it is stored.
func extractInit(line string) map[string]any {
	data := map[string]any{}
	var rawToken, redacted string
	if m := reClientToken.FindStringSubmatch(line); m != nil {
		rawToken = m[1]
		redacted = RedactToken(rawToken)
		data["client_token"] = redacted
	}
	if m := reInitConfig.FindStringSubmatch(line); m != nil {
		cfg := m[1]
		if rawToken != "" && redacted != rawToken {
			cfg = strings.ReplaceAll(cfg, rawToken, redacted)
		}
		data["configuration"] = cfg
	}
	if m := reApplicationID.FindStringSubmatch(line); m != nil {
		data["application_id"] = m[1]
	}
	if m := reSite.FindStringSubmatch(line); m != nil {
		data["site"] = m[1]
	}
	return data
}

// detailedParameters harvests key/value pairs and string literals from a
// call's argument text. It returns nil when there is nothing to report.
func detailedParameters(args string) map[string]any {
	args = strings.TrimSpace(args)
	if args == "" {
		return nil
	}
	out := map[string]any{}
	for _, m := range reKeyValue.FindAllStringSubmatch(args, -1) {
		key := m[1]
		val := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(m[2]), ")"))
		if val == "" {
			continue
		}
		if reTokenLikeKey.MatchString(key) {
			val = redactQuoted(val)
		}
		out[key] = val
	}
	var lits []string
	for _, m := range reStringLit.FindAllStringSubmatch(args, -1) {
		lits = append(lits, m[1])
	}
	if len(lits) > 0 {
		redactLiterals(lits, args)
		out["string_literals"] = lits
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// redactQuoted redacts a possibly quoted value, keeping the quotes.
func redactQuoted(v string) string {
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		return string(v[0]) + RedactToken(v[1:len(v)-1]) + string(v[0])
	}
	return RedactToken(v)
}

// redactLiterals redacts any string literal that is the value of a token-like
// key in args.
func redactLiterals(lits []string, args string) {
	tokens := map[string]bool{}
	for _, m := range reKeyValue.FindAllStringSubmatch(args, -1) {
		if !reTokenLikeKey.MatchString(m[1]) {
			continue
		}
		v := strings.Trim(strings.TrimSpace(m[2]), `'")`)
		if v != "" {
			tokens[v] = true
		}
	}
	for i, l := range lits {
		if tokens[l] {
			lits[i] = RedactToken(l)
		}
	}
}
