package loader

import (
	"regexp"
	"strings"
)

// copyDirective matches \copy <table> FROM '<path>'. Column lists and
// options are not supported. A directive inside a string literal or comment
// still matches.
var copyDirective = regexp.MustCompile(`(?i)\\copy\s+([A-Za-z_][A-Za-z0-9_.]*)\s+from\s+'([^']+)'[ \t]*;?`)

// CopyDirective is one \copy line found in a script.
type CopyDirective struct {
	Table string
	Path  string
}

// ParseDirectives returns the \copy directives in script, in order.
func ParseDirectives(script string) []CopyDirective {
	matches := copyDirective.FindAllStringSubmatch(script, -1)
	if len(matches) == 0 {
		return nil
	}

	out := make([]CopyDirective, len(matches))
	for i, m := range matches {
		out[i] = CopyDirective{Table: m[1], Path: m[2]}
	}
	return out
}

// StripDirectives removes every \copy directive and returns what is left, trimmed.
func StripDirectives(script string) string {
	return strings.TrimSpace(copyDirective.ReplaceAllString(script, ""))
}
