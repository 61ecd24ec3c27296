package util

import "strings"

// NormalizeKey lowercases and trims a string for use as a consistent
// lookup key. Plan codes and datacenter identifiers are matched this way
// everywhere.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseOptionArg splits a "family=code" CLI argument into its parts.
// ok is false when either side is empty or the separator is missing.
func ParseOptionArg(arg string) (family, code string, ok bool) {
	family, code, found := strings.Cut(arg, "=")
	family = strings.TrimSpace(family)
	code = strings.TrimSpace(code)
	if !found || family == "" || code == "" {
		return "", "", false
	}
	return family, code, true
}
