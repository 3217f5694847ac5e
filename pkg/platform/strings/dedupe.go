// Package strings holds small slice-of-string helpers used when normalizing
// request payloads and token claims.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each element and drops blanks and repeats, keeping the
// first occurrence order.
//
//	DedupeAndTrim([]string{" read:privileged ", "write", "read:privileged", ""})
//	// []string{"read:privileged", "write"}
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimLower is DedupeAndTrim with lower-casing, for identifiers that
// compare case-insensitively such as UUIDs.
func DedupeAndTrimLower(values []string) []string {
	return dedupe(values, func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
}

// SplitFields splits a whitespace-separated claim such as an OAuth scope and
// dedupes the parts.
func SplitFields(s string) []string {
	return DedupeAndTrim(strings.Fields(s))
}

func dedupe(values []string, canon func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		c := canon(v)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}
	return result
}
