// Package parties extracts the notified parties of a hazard order from page
// text: the owner, the syndic or court-appointed administrator, and the
// property manager.
//
// Each detector returns the identity as written on the page, or the empty
// string. Orders use a small set of notification formulas ("pris en la
// personne de", "représenté par", "appartient en toute propriété à") that
// anchor the extraction; the identity capture stops at the first comma or
// period except for the civility and company forms that legitimately
// contain one.
package parties

import "regexp"

const (
	// "en|ne" absorbs a common scan confusion
	fragPris       = `pris\s+(?:en|ne)\s+la\s+personne\s+(?:de\s+|du\s+|d['’]\s*)?`
	fragSyndic     = `syndic(?:\s+(?:bénévole|judiciaire|provisoire))?(?:\s+de\s+copropriété)?`
	fragAdmin      = `administrateur\s+(?:judiciaire|provisoire)`
	fragSyndAdmin  = `(?:` + fragSyndic + `|` + fragAdmin + `)`
	fragSyndicat   = `syndicat\s+des\s+copropriétaires`
	fragImmeuble   = `(?:\s+de\s+(?:cet\s+|l['’]\s*)(?:immeuble|ensemble\s+immobilier))?`
	fragSisDom     = `(?:sis(?:e|es)?|domicilié(?:e|s|es)?)`
	fragCabinet    = `(?:(?:le\s+)?cabinet|(?:le\s+)?groupe|(?:l['’]\s*)?agence(?:\s+immobili[èe]re)?)`
	fragInfosJour  = `(?:\s*,\s+selon\s+nos\s+informations\s+à\s+ce\s+jour\s*[:,])?`
	fragRepresente = `(?:,?\s+représenté(?:e)?\s+par\s+(?:[,–-]\s*)?[^,–]+)?`
)

var (
	// sole ownership: "appartient (selon nos informations à ce jour)? en
	// toute propriété à <identity>, (représenté par ...)? sis <adresse>"
	reProprioMono = regexp.MustCompile(`(?mi)appartient` + fragInfosJour +
		`\s+en\s+toute\s+propriété\s+` +
		`(?:[àa]\s+(?:la\s+|l['’]\s*)?|au(?:x)?)` +
		`([^,–]+)` +
		fragRepresente +
		`,?\s+` + fragSisDom + `\s+(?:[,–-]\s*)?\S`)

	// co-ownership through a company: "appartenant à la SCI <nom>, sise ..."
	reProprioMulti = regexp.MustCompile(`(?mi)(?:appartenant\s+à|appartient\s+à|propriété\s+de)\s+la\s+` +
		`((?:société\s+civile\s+immobilière|SCI).+?)` +
		`,?\s+` + fragSisDom + `\s+`)

	reSyndic = regexp.MustCompile(`(?mi)(?:` +
		fragSyndAdmin + fragImmeuble + `(?:\s+est|\s*,)?\s+` + fragPris +
		`|` + fragSyndicat + fragImmeuble + `(?:\s+est|\s*,)?\s+` + fragPris +
		`|` + fragSyndicat + fragImmeuble + `(?:\s+est|\s*,)?\s+représenté\s+par\s+` +
		`(?:(?:l['’]\s*` + fragAdmin + `|le\s+` + fragSyndic + `)\s+(?:` + fragPris + `)?` +
		`|un\s+` + fragSyndAdmin + `\s+` + fragPris +
		`)?` +
		`)` +
		`(` +
		`(?:M\s*[.]|Mr(?:\s*[.])?|Mme|Monsieur|Madame)\s+[^,]+?` +
		`|(?:le\s+)?cabinet\s+ACTIV['’]?\s+SYNDIC` +
		`|(?:le\s+)?cabinet\s+LE\s+BON\s+SYNDIC` +
		`|` + fragCabinet + `\s+[^,]+?` +
		`|[^,.]+?` +
		`)` +
		`(?:\s*[.]\s+|\s*,\s+|,?\s+` + fragSisDom + `\b|,?\s+` + fragSyndAdmin + `\b)`)

	reGest = regexp.MustCompile(`(?mi)gestionnaire` +
		`(?:\s+de\s+(?:cet\s+|l['’]\s*)immeuble)?` +
		`(?:(?:\s+est|\s*,)?\s+` + fragPris + `|\s+est\s+)` +
		`(` + fragCabinet + `\s+[^,]+?|[^,.]+?)` +
		`(?:[,.]|,?\s+` + fragSisDom + `\b)`)
)

// Proprio returns the owner identity mentioned on the page. Sole-ownership
// formulas win over the company form.
func Proprio(pageTxt string) string {
	if m := reProprioMono.FindStringSubmatch(pageTxt); m != nil {
		return m[1]
	}
	if m := reProprioMulti.FindStringSubmatch(pageTxt); m != nil {
		return m[1]
	}
	return ""
}

// Syndic returns the syndic or administrator identity mentioned on the page.
func Syndic(pageTxt string) string {
	if m := reSyndic.FindStringSubmatch(pageTxt); m != nil {
		return m[1]
	}
	return ""
}

// Gestionnaire returns the property manager identity mentioned on the page.
func Gestionnaire(pageTxt string) string {
	if m := reGest.FindStringSubmatch(pageTxt); m != nil {
		return m[1]
	}
	return ""
}
