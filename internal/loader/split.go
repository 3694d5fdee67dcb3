package loader

import (
	"regexp"
	"strings"
)

// statementEnd is a semicolon followed by a line break or the end of input.
// Semicolons inside string literals or comments are not recognised as such.
var statementEnd = regexp.MustCompile(`;[ \t]*(?:\r?\n|$)`)

// SplitStatements splits script into trimmed, non-empty statements.
func SplitStatements(script string) []string {
	parts := statementEnd.Split(script, -1)

	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			stmts = append(stmts, p)
		}
	}
	return stmts
}
