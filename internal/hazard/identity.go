// Package hazard extracts the identity and typology of a building hazard
// order from page text: signature date, order number, title, issuing
// commune, and the classification columns of the orders table.
//
// Every detector takes the body text of one page and returns the raw value
// as written, or the empty string when the page has no match. Normalization
// happens downstream, at aggregation.
package hazard

import (
	"regexp"
	"strings"

	"github.com/ampmetropole/arretes-peril/internal/dates"
	"github.com/ampmetropole/arretes-peril/internal/geo"
)

// fragNo matches the "n°" glyph and its degree-sign variant.
const fragNo = `n[°º]`

// Signature date, introduced by a per-commune closing or heading formula:
// "Fait à X, le", "Gardanne, le", "Signé le :", "Arrêté n° ... du", etc.
var reDateSignat = regexp.MustCompile(`(?mi)(?:` +
	`^fait\s+à\s+\S+[,]?\s+le` +
	`|^fait\s+à\s+aix-en-provence,\s+en\s+l['’]hôtel\s+de\s+ville,\nle` +
	`|^gardanne,\s+le` +
	`|^signé\s+le\s*:\s+` +
	`|^arrêté\s+du\s+maire\s+` + fragNo + `[^\n]+\nen\s+date\s+du\s+` +
	`|^arrêté\s+` + fragNo + `[\s\S]+?\s+du` +
	`|^peyrolles-en-provence,\s+le` +
	`)\s+(` + dates.Pattern + `)`)

// Date returns the signature date of the order as written on the page.
func Date(pageTxt string) string {
	if m := reDateSignat.FindStringSubmatch(pageTxt); m != nil {
		return m[1]
	}
	return ""
}

// Order number, introduced by the register or reference formula of each
// commune. The fallback pattern is generic and only runs when the first
// finds nothing.
var (
	reNumArr = regexp.MustCompile(`(?mi)(?:` +
		`extrait\s+du\s+registre\s+des\s+arrêtés\s+` + fragNo +
		`|extrait\s+du\s+registre\s+des\s+arretes\s+du\s+maire\n` + fragNo + `\s+` +
		`|réf\s+:` +
		`|^nos\s+réf\s+:` +
		`|^a\.m\s+` + fragNo +
		`|^décision\s+` + fragNo +
		`|^arrêté\s+du\s+maire\s+` + fragNo +
		`|arrêté\s+` + fragNo +
		`|arrete\s+` + fragNo +
		`)\s*([^,;\n(]+)`)

	reNumArrFallback = regexp.MustCompile(`(?mi)(?:` +
		`^` + fragNo +
		`|^arr-[^-]{2,3}-` +
		`)\s*([^,;\n(]+)`)
)

// Num returns the order number as written on the page.
func Num(pageTxt string) string {
	if m := reNumArr.FindStringSubmatch(pageTxt); m != nil {
		return m[1]
	}
	if m := reNumArrFallback.FindStringSubmatch(pageTxt); m != nil {
		return m[1]
	}
	return ""
}

var reNomArr = regexp.MustCompile(`(?mi)objet:\s+([^\n]+)`)

// Nom returns the title of the order, taken from its "Objet:" line.
func Nom(pageTxt string) string {
	if m := reNomArr.FindStringSubmatch(pageTxt); m != nil {
		return m[1]
	}
	return ""
}

// Issuing authority: "Le Maire de X" or "Nous, (name,)? Maire de X". The
// commune alternation prefers the known métropole names and falls back on a
// generic capitalized-token run that stays on one line.
const fragMaireCommDe = `maire\s+(?:de\s+la\s+(?:commune|ville)\s+)?(?:de\s+|d['’]\s*)`

var (
	fragCommune = `(?:` + geo.Default().NamePattern() +
		`|[A-Za-zÀ-ÿ]+(?:['’ \t-][A-Za-zÀ-ÿ]+){0,4})`

	reMaireCommune = regexp.MustCompile(`(?mi)(?:` +
		`^le\s+` + fragMaireCommDe +
		`|nous[,.]\s+(?:[^,]+,\s+)?` + fragMaireCommDe +
		`)(` + fragCommune + `),?`)

	// transmission initials glued to the commune by layout accidents
	reCommuneCleanup = regexp.MustCompile(`(?i)\s+(?:CB|JFF)\s+accusé\s+de\s+réception[\s\S]*$`)
)

// CommuneOfAuthority returns the commune named in the authority formula of
// the order, cleaned of transmission-stamp fragments.
func CommuneOfAuthority(pageTxt string) string {
	m := reMaireCommune.FindStringSubmatch(pageTxt)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(reCommuneCleanup.ReplaceAllString(m[1], ""))
}
