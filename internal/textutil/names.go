// Package textutil cleans up names and contact details coming from
// scheduling integrations before they are stored as customer reports.
package textutil

import (
	"regexp"
	"strings"
)

// UnknownName is the placeholder some schedulers use for anonymous bookings.
const UnknownName = "Unknown"

type rule struct {
	name string
	re   *regexp.Regexp
	repl string
}

// Applied in order. Timestamps go first so "10:30 - A (x) and B" reduces to "A".
var nameRules = []rule{
	{
		name: "leading timestamp",
		re:   regexp.MustCompile(`^\s*\d{1,2}[:.h]\d{2}(\s*[aApP][mM])?\s*[-–:|,]?\s*`),
	},
	{
		name: "parenthetical",
		re:   regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`),
	},
	{
		name: "trailing companion",
		re:   regexp.MustCompile(`(?i)\s+(and|&|và)\s+.*$`),
	},
	{
		name: "whitespace",
		re:   regexp.MustCompile(`\s+`),
		repl: " ",
	},
}

// NormalizeName strips leading timestamps, parenthetical text and trailing
// "and <name>" companions, then collapses whitespace.
func NormalizeName(raw string) string {
	s := raw
	for _, r := range nameRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return strings.TrimSpace(strings.Trim(s, "-–:|, "))
}

// IsPlaceholderName reports names that must not be imported.
func IsPlaceholderName(name string) bool {
	n := strings.TrimSpace(name)
	return n == "" || strings.EqualFold(n, UnknownName)
}

// NameKey is the de-duplication key: case-insensitive exact match.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var phonePattern = regexp.MustCompile(`\+?\(?\d[\d\s().-]{6,}\d`)

// ExtractPhone returns the first phone-like sequence in free text, or "".
// Separators inside the match are kept except surrounding whitespace.
func ExtractPhone(text string) string {
	for _, m := range phonePattern.FindAllString(text, -1) {
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		// Dates and times such as "2026-10-19" match the pattern but are too short.
		if digits >= 9 {
			return strings.TrimSpace(m)
		}
	}
	return ""
}
