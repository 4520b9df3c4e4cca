package utils

import (
	"strings"
)

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitList splits repeated and comma/semicolon separated query values into
// trimmed, non-empty items. Order is kept.
func SplitList(raw ...string) []string {
	out := []string{}
	for _, r := range raw {
		parts := strings.FieldsFunc(r, func(c rune) bool {
			return c == ',' || c == ';' || c == '\n'
		})
		for _, p := range parts {
			p = NormalizeSpace(p)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// Fallback returns v trimmed, or fallback when v is blank.
func Fallback(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
