// Package slug turns free-text display names into identifier-safe slugs.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)
	disallowed    = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// Normalize returns the slug for name. Accents are decomposed and dropped,
// the result is lowercased and trimmed, whitespace runs become a single
// hyphen, anything outside [a-z0-9-] is removed, repeated hyphens are
// collapsed and hyphens at either end are dropped.
//
// Normalize is total and idempotent: Normalize(Normalize(s)) == Normalize(s).
// A non-empty result always contains a letter or digit; input with none
// (punctuation, non-Latin scripts) yields "".
func Normalize(name string) string {
	// A transform chain keeps internal state, so build one per call.
	stripped, _, err := transform.String(stripMarks(), name)
	if err != nil {
		stripped = name
	}

	s := strings.TrimSpace(strings.ToLower(stripped))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// WithSuffix returns the n-th collision candidate for base ("base-n").
// n <= 0 returns base unchanged.
func WithSuffix(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

