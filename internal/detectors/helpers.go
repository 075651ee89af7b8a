package detectors

import (
	"regexp"
	"strings"
)

// ci compiles a case-insensitive pattern. Every table and extraction regex in
// this package goes through it.
func ci(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + expr)
}

// splitLines splits on "\n" and trims a trailing "\r" so CRLF files match the
// same patterns as LF files. An empty string yields no lines.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// contextWindow returns up to radius lines on each side of the 1-based line n,
// clipped at file boundaries.
func contextWindow(lines []string, n, radius int) []string {
	if radius < 0 {
		radius = 0
	}
	start := n - 1 - radius
	if start < 0 {
		start = 0
	}
	end := n + radius
	if end > len(lines) {
		end = len(lines)
	}
	out := make([]string, end-start)
	copy(out, lines[start:end])
	return out
}

// balancedArgs returns the text between the '(' at index open and its matching
// ')'. When the call is not closed on this line the rest of the line is
// returned with ok=false; the caller keeps it as partial data.
func balancedArgs(line string, open int) (args string, end int, ok bool) {
	if open < 0 || open >= len(line) || line[open] != '(' {
		return "", -1, false
	}
	depth := 0
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return line[open+1 : i], i, true
			}
		}
	}
	return line[open+1:], len(line) - 1, false
}

// argsAfter locates the first match of re in line, which must end at an
// opening parenthesis, and returns the trimmed argument text of that call.
func argsAfter(line string, re *regexp.Regexp) (string, bool) {
	loc := re.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	open := strings.LastIndexByte(line[:loc[1]], '(')
	if open < loc[0] {
		return "", false
	}
	args, _, _ := balancedArgs(line, open)
	args = strings.TrimSpace(args)
	return args, args != ""
}

// firstCallArgs returns the argument text of the first call on the line.
func firstCallArgs(line string) string {
	open := strings.IndexByte(line, '(')
	if open < 0 {
		return ""
	}
	args, _, _ := balancedArgs(line, open)
	return strings.TrimSpace(args)
}

// parenFollows reports the index of a '(' that directly follows pos, allowing
// only whitespace in between, or -1.
func parenFollows(line string, pos int) int {
	for i := pos; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t':
			continue
		case '(':
			return i
		default:
			return -1
		}
	}
	return -1
}

func setIf(m map[string]any, key, val string) {
	if val != "" {
		m[key] = val
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
