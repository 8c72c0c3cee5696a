package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// \p{Zs} covers the no-break and figure spaces PDF text layers emit.
	reSpaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)
	reNumero   = regexp.MustCompile(`(?i)n[°º]\s*`)
	reApos     = regexp.MustCompile("[’ʼ`´]")
	reHyphen   = regexp.MustCompile(`[‐‑‒–—―]`)
)

var reRuleLine = regexp.MustCompile(`(?m)^\s*_{3,}\s*$`)

// Normalize collapses whitespace runs into single spaces and trims the ends.
// Every extracted field goes through this before comparison or storage.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(reSpaceRun.ReplaceAllString(s, " "))
}

// NormalizeLoose additionally unifies the print variants of "n°", apostrophes
// and hyphens before collapsing whitespace. Scanned orders mix these freely,
// which would otherwise defeat the parcel reference patterns.
func NormalizeLoose(s string) string {
	if s == "" {
		return s
	}
	s = reNumero.ReplaceAllString(s, "n° ")
	s = reApos.ReplaceAllString(s, "'")
	s = reHyphen.ReplaceAllString(s, "-")
	return Normalize(s)
}

// StripRuleLines removes horizontal "______" separator lines so they are not
// mistaken for text.
func StripRuleLines(s string) string {
	return reRuleLine.ReplaceAllString(s, "")
}

// Fold lowercases s and strips combining diacritics. Commune lookups and
// notified-party dedup compare folded forms.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
