// Package cadastre finds cadastral parcel references in page text and
// normalizes them into the identifiers of the parcelle table.
//
// Marseille references carry their own arrondissement and quarter prefix
// ("213886 E0047"); other communes only give section and number ("C n° 245"),
// which need the commune INSEE code to become an identifier.
package cadastre

import (
	"regexp"

	"github.com/ampmetropole/arretes-peril/internal/geo"
	"github.com/ampmetropole/arretes-peril/internal/textutil"
)

const (
	fragNo   = `n[°º]`
	fragArrt = `2[01]\d`
	fragQuar = `\d{3}`
	fragSec  = `[A-Z]{1,2}`
	fragNum  = `\d{1,4}`

	fragCadMars  = `(?:(?:` + fragNo + `\s*)?` + fragArrt + `\s*` + fragQuar + `\s*` + fragSec + `\s?` + fragNum + `)`
	fragCadAutre = `(?:(?:` + fragNo + `\s*)?` + fragSec + `(?:\s` + fragNo + `)?\s*` + fragNum + `)`
	fragCadAny   = `(?:` + fragCadMars + `|` + fragCadAutre + `)`
)

var (
	// a cadastral mention followed by one or more references
	reParcelle = regexp.MustCompile(`(?i)(?:` +
		`cadastr[ée](?:e|es|s)?(?:\s+section)?` +
		`|r[ée]f[ée]rence(?:s)?\s+cadastrale(?:s)?` +
		`|r[ée]f[ée]renc[ée](?:e|es|s)?\s+au\s+cadastre\s+sous\s+le` +
		`|parcelle(?:s)?` +
		`)\s+` +
		`(` + fragCadAny + `(?:(?:,|\s+et|\s+-)\s+` + fragCadAny + `)*)`)

	// bare Marseille references are specific enough to match without a
	// cadastral mention; the arrondissement and quarter prefix keeps the
	// false positive risk low
	reParcelleMarsNoCtx = regexp.MustCompile(`(?i)(` + fragCadMars +
		`(?:(?:,|\s+et|\s+&|\s+-)\s+` + fragCadMars + `)*)`)

	reCadMars  = regexp.MustCompile(`(?i)(?:` + fragNo + `\s*)?(` + fragArrt + `)\s*(` + fragQuar + `)\s*(` + fragSec + `)\s?(` + fragNum + `)`)
	reCadAutre = regexp.MustCompile(`(?i)(?:` + fragNo + `\s*)?(` + fragSec + `)(?:\s` + fragNo + `)?\s*(` + fragNum + `)`)
)

// Parcelle returns the first parcel reference zone of the page: the
// reference list following a cadastral mention, or a bare Marseille
// reference run. The zone may hold several references; normalization keeps
// the first.
func Parcelle(pageTxt string) string {
	txt := textutil.NormalizeLoose(pageTxt)
	if m := reParcelle.FindStringSubmatch(txt); m != nil {
		return m[1]
	}
	if m := reParcelleMarsNoCtx.FindStringSubmatch(txt); m != nil {
		return m[1]
	}
	return ""
}

// NormalizeRef builds the parcelle table identifier from the first usable
// reference in refCad. Marseille identifiers are arrondissement INSEE +
// quarter + section + number; other communes use the commune INSEE + "000".
// A non-empty codeInsee wins over the arrondissement embedded in the
// reference; the returned conflict flag reports the contradiction.
// The identifier is empty when refCad holds no usable reference.
func NormalizeRef(codeInsee, refCad string) (ref string, conflict bool) {
	if refCad == "" {
		return "", false
	}
	if m := reCadMars.FindStringSubmatch(refCad); m != nil {
		arrt, quar, sec, num := m[1], m[2], m[3], m[4]
		if codeInsee != "" && codeInsee != geo.MarseilleInsee {
			conflict = len(codeInsee) < 3 || codeInsee[len(codeInsee)-3:] != arrt
		} else {
			codeInsee = "13" + arrt
		}
		return codeInsee + quar + padLeft(sec, 2) + padLeft(num, 4), conflict
	}
	if m := reCadAutre.FindStringSubmatch(refCad); m != nil {
		return codeInsee + "000" + padLeft(m[1], 2) + padLeft(m[2], 4), false
	}
	return "", false
}

func padLeft(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
