// Package template recognizes the fixed furniture of order pages: municipal
// letterheads, footers, télétransmission stamps, accusé de réception pages
// and the trailing bordereau de formalités. Detectors run on pages with this
// furniture stripped, so a phone number in a footer is never read as a
// parcel and an accusé page never contributes fields.
package template

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ampmetropole/arretes-peril/internal/textutil"
)

// PageKind classifies one page of a document.
type PageKind uint8

const (
	PageBody PageKind = iota
	PageAccuse
	PageBordereau
)

func (k PageKind) String() string {
	switch k {
	case PageAccuse:
		return "accuse"
	case PageBordereau:
		return "bordereau"
	default:
		return "body"
	}
}

// Label tags a template zone inside a page.
type Label uint8

const (
	LabelHeader Label = iota
	LabelFooter
	LabelStamp
)

func (l Label) String() string {
	switch l {
	case LabelFooter:
		return "footer"
	case LabelStamp:
		return "stamp"
	default:
		return "header"
	}
}

// Span is one template zone, in byte offsets of the page text.
type Span struct {
	Start int
	End   int
	Label Label
}

// boilerplate ties a letterhead or footer pattern to the commune it was
// collected from. An empty commune marks a pattern too generic to identify
// the issuer (page numbers, "République Française").
type boilerplate struct {
	commune string
	re      *regexp.Regexp
}

var headerPatterns = []boilerplate{
	{"Marseille", regexp.MustCompile(`(?mi)^Le\s+Maire\nAncien\s+Ministre\nVice-président\s+honoraire\s+du\s+Sénat$`)},
	{"Marseille", regexp.MustCompile(`(?mi)^La\s+Maire$`)},
	{"Marseille", regexp.MustCompile(`(?mi)^Le\s+Maire$`)},
	{"Aix-en-Provence", regexp.MustCompile(`(?mi)(?:` +
		`DEPARTEMENT\s+OPERATIONS\s+JURIDIQUES\s+COMPLEXES\s+ET\s+CONTROLE\s+ET\s+SUIVI\s+DES\s+PROCEDURES\s+CONTENTIEUSES\n` +
		`|SECRETARIAT\s+GENERAL\n` +
		`)Direction\s+Etudes\s+Juridiques\s+&\s+Contentieux\n`)},
	{"Allauch", regexp.MustCompile(`(?mi)^DEPARTEMENT\s+DES\nBOUCHES\s+DU\s+RHONE\n\nAllauch\n\nun\s+certain\s+art\s+de\s+ville`)},
	{"Cabriès", regexp.MustCompile(`(?mi)^EXTRAIT\s+DU\s+REGISTRE\s+DES\s+ARRETES\s+DU\s+MAIRE`)},
	{"Cabriès", regexp.MustCompile(`(?mi)^MAIRIE\s+DE\s+CABRIES`)},
	{"Cabriès", regexp.MustCompile(`(?mi)^Tel\s+:\s+04\.42\.28\.14\.00`)},
	{"Cabriès", regexp.MustCompile(`(?mi)^Fax\s+:\s+04\.42\.28\.14\.20`)},
	{"Cabriès", regexp.MustCompile(`(?mi)^Mail\s+:\s+maire@cabries\.fr`)},
	{"Châteauneuf-les-Martigues", regexp.MustCompile(`(?mi)^[CG]ommune\s+de\s+Châteauneuf-les-Martigues\s+-\s+` +
		`Arrondissement\s+d['’][Il]stres\s+-\s+Bouches\s+du\s+Rhône`)},
	{"Gardanne", regexp.MustCompile(`(?mi)^Ville\s+de\s+Gardanne$`)},
	{"Gardanne", regexp.MustCompile(`(?mi)Arrêté\s+n[°º]\d{4}-\d{2}-ARR-SIHI\s+Page\s+\d{1,2}/\d{1,2}`)},
	{"", regexp.MustCompile(`(?mi)^République\s+Française$`)}, // Berre-l'Étang p.1
	{"Gémenos", regexp.MustCompile(`(?mi)^DÉPARTEMENT\nDES\s+BOUCHES-DU-RHÔNE\n`)},
	{"Gémenos", regexp.MustCompile(`(?mi)^Ville\s+de\s+Gémenos$`)},
	// [:;] and [.-] absorb common OCR confusions
	{"Gémenos", regexp.MustCompile(`(?mi)TÉL\s*[:;]\s*04\s+42\s+32\s+89\s+00\nFAX\s*[:;]\s*04\s+42\s+32\s+71\s+41\nwww[.-]mairie-gemenos[.-]fr`)},
	{"Gémenos", regexp.MustCompile(`(?mi)^ARRÊTÉ\s+DU\s+MAIRE$`)},
	{"Jouques", regexp.MustCompile(`(?mi)^REPUBLIQUE\s+FRANCAISE\nDEPARTEMENT\s+DES\s+BOUCHES\s+DU\s+RHONE\nCOMMUNE\s+DE\s+JOUQUES`)},
	{"Martigues", regexp.MustCompile(`(?mi)^Département\s+des\nBouches-du-Rhône\nArrondissement\s+d['’]Istres$`)},
	{"Martigues", regexp.MustCompile(`(?mi)^Direction\s+des\s+Affaires\s+Civiles,\nJuridiques\s+et\s+Funéraires\nRéglementation\s+Administrative$`)},
	{"Meyrargues", regexp.MustCompile(`(?mi)^REPUBLIQUE\n\nFRANÇAISE$`)},
	{"Meyrargues", regexp.MustCompile(`(?mi)^DEPARTEMENT\s+DES\s+BOUCHES-DU-RHONE\n` +
		`CANTON\s+DE\s+TRETS\n` +
		`ARRONDISSEMENT\s+D['’]AIX\s+EN\s+PROVENCE\n` +
		`METROPOLE\s+D['’]AIX-MARSEILLE-PROVENCE\n` +
		`\n` +
		`COMMUNE\s+DE\s+MEYRARGUES\n`)},
	{"Peyrolles-en-Provence", regexp.MustCompile(`(?mi)^Mairie\s+de\s+Peyrolles-en-Provence$`)},
	{"Peyrolles-en-Provence", regexp.MustCompile(`(?mi)^Affaire\s+suivie\s+par\s+:\s+[^\n]+\n(?:[^\n]+\n)?`)},
	{"Peyrolles-en-Provence", regexp.MustCompile(`(?mi)^Service\s+:\s+[^\n]+\n(?:[^\n]+\n)?`)},
	{"Peyrolles-en-Provence", regexp.MustCompile(`(?mi)^Tél\s+:\s+\d{2}\.\d{2}\.\d{2}\.\d{2}\.\d{2}$`)},
	{"Roquevaire", regexp.MustCompile(`(?mi)^COMMUNE\s+DE\s+ROQUEVAIRE\n+` +
		`(?:COMMUNE\s+DE\s+ROQUEVAIRE\nLiberté\s+-\s+Egalité\s+-\s+Fraternité\n+)?` +
		`ARRETE\n+`)},
	{"Roquevaire", regexp.MustCompile(`(?mi)^Secteur\s+concerné\s+:\s+Libertés\s+publiques\s+et\s+pouvoirs\s+de\s+police$`)},
}

var footerPatterns = []boilerplate{
	{"Marseille", regexp.MustCompile(`(?mi)^Ville\s+de\s+Marseille,\s+2\s+quai\s+du\s+Port\s+[–-]\s+13233\s+MARSEILLE\s+CEDEX\s+20`)},
	{"", regexp.MustCompile(`(?mi)^\d{1,2}/\d{1,2}$`)}, // page number, Marseille
	{"Aix-en-Provence", regexp.MustCompile(`(?mi)^Hotel\s+de\s+Ville\s+13616\s+AIX-EN-PROVENCE\s+CEDEX\s+1\s+-\s+France\s+-\s+` +
		`Tél[.]\s+[+]\s+33[(]0[)]4[.]42[.]91[.]90[.]00\s+-\s+` +
		`Télécopie\s+[+]\s+33[(]0[)]4[.]42[.]91[.]94[.]92\s+-\s+` +
		`www[.]mairie[-]aixenprovence[.]fr[.]$`)},
	// [+e] absorbs the bullet glyph the extracted text renders as + or e
	{"Allauch", regexp.MustCompile(`(?mi)Hôtel\s+de\s+Ville\s+[+e]\s+Place\s+Pierre\s+Bellot\s+[+e]\s+BP\s+27\s+[+e]\s+` +
		`13718\s+Allauch\s+cedex\s+[+e]\s+Tél[.]\s+04\s+91\s+10\s+48\s+00\s+[+e]\s+Fax\s+04\s+91\s+10\s+48\s+23\n` +
		`Web\s+[:]\s+http[:]//www[.]allauch[.]com\s+[+e]\s+Courriel\s+[:]\s+info@allauch[.]com`)},
	{"Aubagne", regexp.MustCompile(`(?mi)Hôtel\s+de\s+Ville\s+BP\s+41465\s+13785\s+Aubagne\s+Cedex\s+` +
		`T\s*04\s*42\s*18\s*19\s*19\s+F\s*04\s*42\s*18\s*18\s*18\s+www[.]aubagne[.]fr$`)},
	{"", regexp.MustCompile(`(?mi)Page\s+\d{1,2}\s+sur\s+\d{1,2}$`)}, // page number, Auriol
	{"Berre-l'Étang", regexp.MustCompile(`(?mi)VILLE\s+DE\s+BERRE-L['’]ETANG\n` +
		`HOTEL\s+DE\s+VILLE\s+-\s+B\.P\s+30221\s+-\s+13138\s+BERRE\s+L['’]ÉTANG\s+CEDEX\n` +
		`Téléphone\s+:\s+04\.42\.74\.93\.00\s+-\s+Télécopie\s+:\s+04\.42\.74\.93\.02\s+-\s+` +
		`Site\s+internet\s+:\s+www\.berreletang\.fr`)},
	{"Châteauneuf-les-Martigues", regexp.MustCompile(`(?mi)Hôtel\s+de\s+ville\s+-\s+BP\s+70024\s+-\s+` +
		`13168\s+Châteauneuf-les-Martigues\s+cedex\s+-\s+04\.42\.76\.89\.00\s+-\s+04\.42\.79\.80\.25$`)},
}

// télétransmission stamps added by the @ctes platform; the text layer
// carries them verbatim, so the patterns stay literal
const (
	fragDateSlash = `\d{2}/\d{2}/\d{4}`
	fragActesID   = `\d{3}-\d{9}-\d{8}-[^-]+-(?:AI|AR)`

	patStamp1 = `Envoyé en préfecture le ` + fragDateSlash + `\n` +
		`Reçu en préfecture le ` + fragDateSlash + `\n` +
		`Affiché le\n` +
		`ID : ` + fragActesID

	patStamp2 = `Accusé de réception en préfecture\n` +
		fragActesID + `\n` +
		`Date de télétransmission : ` + fragDateSlash + `\n` +
		`Date de réception préfecture : ` + fragDateSlash + `\n`
)

var reStamp = regexp.MustCompile(`(?:(?:` + patStamp1 + `)|(?:` + patStamp2 + `))`)

// accusé de réception page generated by @ctes, matched from the first byte
var reAccuse = regexp.MustCompile(`\AAccusé de réception\n` +
	`Acte reçu par: Préfecture des Bouches du Rhône\n` +
	`Nature transaction: AR de transmission d'acte\n` +
	`Date d'émission de l'accusé de réception: \d{4}-\d{2}-\d{2}[(]GMT[+-]\d[)]\n` +
	`Nombre de pièces jointes: \d+\n` +
	`Nom émetteur: [^\n]+\n` +
	`N° de SIREN: \d{9}\n` +
	`Numéro Acte de la collectivité locale: [^\n]+\n` +
	`Objet acte: (?:[\s\S]+?)\n` +
	`Nature de l'acte: (?:Actes individuels|Actes réglementaires|Autres)\n` +
	`Matière: \d[.]\d-[^\n]+\n` +
	`Identifiant Acte: \d{3}-\d{9}-\d{8}-[^-]+-(?:AI|AR|AU)`)

// bordereau de formalités, a formality sheet appended by Aix-en-Provence
var reBordereau = regexp.MustCompile(`(?mi)^BORDEREAU\s+DE\s+FORMALITES$`)

// ClassifyPage tags one page. pageIdx is 1-based; the bordereau form only
// counts on the last page, where Aix-en-Provence appends it.
func ClassifyPage(pageTxt string, pageIdx, pageCount int) PageKind {
	if reAccuse.MatchString(pageTxt) {
		return PageAccuse
	}
	if pageIdx == pageCount && reBordereau.MatchString(pageTxt) {
		return PageBordereau
	}
	return PageBody
}

// Zones returns every template zone of the page, ordered by position.
func Zones(pageTxt string) []Span {
	var spans []Span
	collect := func(label Label, pats []boilerplate) {
		for _, bp := range pats {
			for _, loc := range bp.re.FindAllStringIndex(pageTxt, -1) {
				spans = append(spans, Span{Start: loc[0], End: loc[1], Label: label})
			}
		}
	}
	collect(LabelHeader, headerPatterns)
	collect(LabelFooter, footerPatterns)
	for _, loc := range reStamp.FindAllStringIndex(pageTxt, -1) {
		spans = append(spans, Span{Start: loc[0], End: loc[1], Label: LabelStamp})
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	return spans
}

// Strip removes the template zones and rule lines from a page, leaving the
// body the detectors read.
func Strip(pageTxt string) string {
	spans := Zones(pageTxt)
	if len(spans) == 0 {
		return textutil.StripRuleLines(pageTxt)
	}
	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.Start > pos {
			b.WriteString(pageTxt[pos:sp.Start])
		}
		if sp.End > pos {
			pos = sp.End
		}
	}
	if pos < len(pageTxt) {
		b.WriteString(pageTxt[pos:])
	}
	return textutil.StripRuleLines(b.String())
}

// CommuneHint names the commune whose letterhead or footer the page carries,
// or "" when no distinctive pattern matches.
func CommuneHint(pageTxt string) string {
	for _, pats := range [][]boilerplate{headerPatterns, footerPatterns} {
		for _, bp := range pats {
			if bp.commune == "" {
				continue
			}
			if bp.re.MatchString(pageTxt) {
				return bp.commune
			}
		}
	}
	return ""
}
