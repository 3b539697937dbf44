package reference

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold returns the caseless form of s. A Caser is stateful, so each call
// takes a fresh one.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func equalFold(a, b string) bool {
	return fold(a) == fold(b)
}

// matches reports whether any field contains q after case folding.
func matches(q string, fields ...string) bool {
	q = fold(q)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(fold(f), q) {
			return true
		}
	}
	return false
}
