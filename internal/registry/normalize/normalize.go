// Package normalize canonicalizes free-form request fields before validation.
// Every function here is idempotent.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// PhoneFormatMessage is the field error reported for malformed phone numbers.
const PhoneFormatMessage = "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."

// Placeholder values substituted for blank optional address fields.
const (
	BlankAddressLine = "-"
	BlankPostcode    = "0"
)

var (
	phonePattern   = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	phoneStripper  = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	fold           = cases.Fold()
	countryAliases = map[string]string{
		"uae":                      "AE",
		"united arab emirates":     "AE",
		"usa":                      "US",
		"united states":            "US",
		"united states of america": "US",
		"uk":                       "GB",
		"united kingdom":           "GB",
		"great britain":            "GB",
	}
)

// foldKey produces the lookup key for case-insensitive alias tables.
func foldKey(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	return strings.Join(strings.Fields(fold.String(s)), " ")
}

// Country maps known names and aliases to ISO-3166 alpha-2 codes. Two-letter
// codes are upper-cased; anything else is returned trimmed but unchanged.
func Country(s string) string {
	trimmed := strings.TrimSpace(s)
	if code, ok := countryAliases[foldKey(trimmed)]; ok {
		return code
	}
	if len(trimmed) == 2 && isASCIILetters(trimmed) {
		return strings.ToUpper(trimmed)
	}
	return trimmed
}

func isASCIILetters(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// Website prefixes a scheme onto non-empty values that lack one.
func Website(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	return "https://" + s
}

// Phone strips separators and reports whether the result is a valid number.
// The stripped form is returned either way so callers can echo it back.
func Phone(s string) (string, bool) {
	stripped := phoneStripper.Replace(strings.TrimSpace(s))
	return stripped, phonePattern.MatchString(stripped)
}

// Email trims and lower-cases the domain part.
func Email(s string) string {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return s
	}
	return s[:at] + strings.ToLower(s[at:])
}

// ESN trims and upper-cases a serial number.
func ESN(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// OrDefault returns def when s is blank, otherwise s trimmed.
func OrDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

var operatorTypeAliases = map[string]int{
	"na":      0,
	"luc":     1,
	"non-luc": 2,
	"non_luc": 2,
	"private": 2,
	"auth":    3,
	"dec":     4,
}

// OperatorTypeAlias resolves a case-insensitive operator type alias.
func OperatorTypeAlias(s string) (int, bool) {
	v, ok := operatorTypeAliases[foldKey(s)]
	return v, ok
}
