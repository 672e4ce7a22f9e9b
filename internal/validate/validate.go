// Package validate holds request-level input hygiene: free-text
// sanitization and UK postcode checks. Numeric business bounds live with
// the evaluator policy, not here.
package validate

import (
	"html"
	"regexp"
	"strings"
)

// UK postcode, e.g. "SW1A 1AA" or "m1 1ae". The space is optional.
var postcodeRe = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]?\s?[0-9][A-Z]{2}$`)

// Postcode reports whether s is a well-formed UK postcode. Matching is
// case-insensitive and tolerant of surrounding whitespace.
func Postcode(s string) bool {
	return postcodeRe.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// NormalizePostcode uppercases and canonicalizes the inward-code space,
// returning "" when the postcode does not validate.
func NormalizePostcode(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	if !postcodeRe.MatchString(up) {
		return ""
	}
	compact := strings.ReplaceAll(up, " ", "")
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}

// Sanitize trims, HTML-escapes and truncates free-text input such as
// addresses before it reaches templates or reports.
func Sanitize(s string, maxLen int) string {
	out := html.EscapeString(strings.TrimSpace(s))
	if maxLen > 0 && len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}
