package pure_utils

import "strings"

// NormalizeLogin maps a login (or any identifier-ish string) to the form all
// matching happens on: trimmed and lower-cased. Matching is exact on this
// normalized key; there is no fuzzy matching anywhere.
func NormalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// ContainsAnyFold reports whether value contains any of the markers,
// case-insensitively. Empty markers never match.
func ContainsAnyFold(value string, markers []string) bool {
	lowered := strings.ToLower(value)
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
