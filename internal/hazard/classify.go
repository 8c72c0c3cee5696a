package hazard

import (
	"regexp"

	"github.com/ampmetropole/arretes-peril/constants"
)

// Pattern fragments shared by the typology matchers. The published corpus
// mixes the current terminology (mise en sécurité) with the legacy one
// (péril), each with ordinary, urgent and modificatif variants.
const (
	fragArrete      = `arr[êeé]t[ée](?:\s+municipal)?`
	fragProcOrd     = `(?:\s*-)?\s+proc[ée]dure\s+ordinaire`
	fragProcUrg     = `(?:(?:\s*-)?\s+proc[ée]dure\s+(?:urgente|d['’]\s*urgence)|\s+d['’]\s*urgence)`
	fragPerilSimple = `p[ée]ril\s+(?:simple|ordinaire|non\s+imminent)`
	fragMES         = `mise\s+en\s+s[ée]curit[ée]`
	fragArrMES      = fragArrete + `\s+de\s+` + fragMES
	fragPerilImm    = `p[ée]ril(?:\s+grave(?:\s+et)?)?\s+imminent`
	fragMainlevee   = `main[-]?\s*lev[ée]e`
	fragInterdOccup = `interdiction\s+d['’]\s*(?:occuper|occupation)`
)

var (
	patPSPO = fragArrete + `\s+de\s+` + fragPerilSimple

	patPSPOMod = `(?:` +
		fragArrete + `\s+de\s+` + fragPerilSimple + `\s+modificatif` +
		`|` + fragArrete + `\s+modificatif\s+de\s+l['’]\s*` + fragArrete + `\s+de\s+` + fragPerilSimple +
		`|` + fragArrete + `\s+modificatif\s+d[eu]\s+` + fragPerilSimple +
		`)`

	patMESOrd = fragArrMES + fragProcOrd

	patMESMod = `(?:` +
		fragArrMES + `\s+modificatif` + fragProcOrd +
		`|` + fragArrete + `\s+modificatif\s+de\s+l['’]\s*` + fragArrMES +
		`|` + fragArrete + `\s+modificatif\s+de\s+` + fragMES +
		`)`

	patPGI = fragArrete + `(?:\s+portant\s+proc[ée]dure)?\s+de\s+` + fragPerilImm

	patPGIMod = `(?:` +
		fragArrete + `(?:\s+portant\s+proc[ée]dure)?\s+de\s+` + fragPerilImm + `\s+modificatif` +
		`|(?:` + fragArrete + `\s+modificatif|modification)\s+de\s+l['’]\s*` +
		fragArrete + `(?:\s+portant\s+proc[ée]dure)?\s+de\s+` + fragPerilImm +
		`|` + fragArrete + `\s+modificatif\s+de\s+` + fragPerilImm +
		`)`

	patMSU = fragArrMES + fragProcUrg

	patMSUMod = `(?:` +
		fragArrMES + `\s+modificatif` + fragProcUrg +
		`|` + fragArrete + `\s+modificatif\s+de\s+l['’]\s*` + fragArrMES + fragProcUrg +
		`|` + fragArrete + `\s+modificatif\s+de\s+` + fragMES + fragProcUrg +
		`)`

	patArrML   = fragArrete + `(?:\s+de)?\s+` + fragMainlevee
	patMLOfArr = fragMainlevee + `\s+(?:de\s+l['’]|d['’])\s*` + fragArrete

	patMLPA = `(?:` +
		fragArrete + `\s+(?:de\s+)?` + fragMainlevee + `\s+partielle` +
		`|` + fragMainlevee + `\s+partielle\s+de` +
		`)`

	patDE = fragArrete +
		`\s+(?:de\s+|portant\s+sur\s+(?:l['’]installation\s+d['’]un\s+p[ée]rim[èe]tre\s+de\s+s[ée]curit[ée]\s+et\s+)?la\s+)` +
		`(?:d[ée]construction|d[ée]molition)`

	patAbroDE = `abrogation\s+de\s+l['’]` + fragArrete +
		`\s+de\s+(?:d[ée]construction|d[ée]molition)`

	patINS = fragArrete + `\s+d['’]\s*ins[ée]curit[ée]\s+des\s+[ée]quipements\s+communs`

	patINT = fragArrete + `\s+(?:portant\s+(?:l['’]\s*)?|d['’]\s*)` + fragInterdOccup

	patAbroINT = `(?:` +
		fragArrete + `\s+d['’]\s*abrogation\s+de\s+l['’]\s*` + fragInterdOccup +
		`|` + fragArrete + `\s+d['’]\s*abrogation\s+d['’]\s*` + fragArrete + `\s+portant\s+(?:(?:sur\s+)?l['’]\s*)?` + fragInterdOccup +
		`|abrogation\s+de\s+l['’]\s*` + fragArrete + `\s+[\S\s]+?portant\s+(?:(?:sur\s+)?l['’]\s*)?` + fragInterdOccup +
		`|` + fragArrete + `\s+portant\s+abrogation\s+de\s+l['’]\s*` + fragArrete + `\s+[\S\s]+?portant\s+(?:(?:sur\s+)?l['’]\s*)?` + fragInterdOccup +
		`|abrogation\s+d['’]\s*` + fragInterdOccup +
		`)`
)

// ClassPattern matches any typology mention. Identity and address contexts
// embed it, as in "Objet: <classe> - <adresse>". Modificatif and partielle
// forms come before their base form so an embedding consumes the whole
// mention; the tail filtering of the page matchers does not apply here.
var ClassPattern = `(?:` +
	patPGIMod + `|` + patPGI +
	`|` + patPSPOMod + `|` + patPSPO +
	`|` + patMSUMod + `|` + patMSU +
	`|` + patMESMod + `|` + fragArrMES +
	`|` + patMLPA + `|(?:` + patArrML + `|` + patMLOfArr + `)` +
	`|` + patAbroDE + `|` + patDE +
	`|` + patAbroINT + `|` + patINT +
	`|` + patINS +
	`)`

var (
	rePSPO    = regexp.MustCompile(`(?mi)` + patPSPO)
	rePSPOMod = regexp.MustCompile(`(?mi)` + patPSPOMod)

	// plain "mise en sécurité": reMESOrd matches the explicit ordinary
	// procedure, reArrMES every mention; matchMES filters out the mentions
	// whose tail flags them as modificatif or urgent.
	reMESOrd  = regexp.MustCompile(`(?mi)` + patMESOrd)
	reArrMES  = regexp.MustCompile(`(?mi)` + fragArrMES)
	reMESTail = regexp.MustCompile(`(?i)^(?:\s+modificatif|` + fragProcUrg + `)`)

	reMESMod = regexp.MustCompile(`(?mi)` + patMESMod)

	rePGI    = regexp.MustCompile(`(?mi)` + patPGI)
	rePGIMod = regexp.MustCompile(`(?mi)` + patPGIMod)

	reMSU    = regexp.MustCompile(`(?mi)` + patMSU)
	reMSUMod = regexp.MustCompile(`(?mi)` + patMSUMod)

	// mainlevée: reArrML catches "arrêté (de) mainlevée", reMLOfArr the
	// reversed "mainlevée de l'arrêté"; matchML drops "partielle" tails,
	// which belong to the modificatif bucket.
	reArrML   = regexp.MustCompile(`(?mi)` + patArrML)
	reMLOfArr = regexp.MustCompile(`(?mi)` + patMLOfArr)
	reMLTail  = regexp.MustCompile(`(?i)^\s+partielle`)

	reMLPA = regexp.MustCompile(`(?mi)` + patMLPA)

	reDE     = regexp.MustCompile(`(?mi)` + patDE)
	reAbroDE = regexp.MustCompile(`(?mi)` + patAbroDE)

	reINS = regexp.MustCompile(`(?mi)` + patINS)

	reINT     = regexp.MustCompile(`(?mi)` + patINT)
	reAbroINT = regexp.MustCompile(`(?mi)` + patAbroINT)
)

// matchMES reports a plain "arrêté de mise en sécurité" mention, ignoring
// occurrences whose tail marks them as modificatif or urgent.
func matchMES(pageTxt string) bool {
	if reMESOrd.MatchString(pageTxt) {
		return true
	}
	for _, loc := range reArrMES.FindAllStringIndex(pageTxt, -1) {
		if !reMESTail.MatchString(pageTxt[loc[1]:]) {
			return true
		}
	}
	return false
}

// matchML reports a full mainlevée mention, ignoring partial ones.
func matchML(pageTxt string) bool {
	for _, loc := range reArrML.FindAllStringIndex(pageTxt, -1) {
		if !reMLTail.MatchString(pageTxt[loc[1]:]) {
			return true
		}
	}
	return reMLOfArr.MatchString(pageTxt)
}

// Classification collapses the typology mentions of a page onto the three
// published classification labels. Modificatif variants are checked first so
// they are not shadowed by their base form, then the base procedures, last
// the mainlevées and abrogations.
func Classification(pageTxt string) string {
	switch {
	case rePSPOMod.MatchString(pageTxt),
		reMESMod.MatchString(pageTxt),
		rePGIMod.MatchString(pageTxt),
		reMSUMod.MatchString(pageTxt),
		reMLPA.MatchString(pageTxt):
		return string(constants.MiseEnSecuriteModificatif)
	case rePSPO.MatchString(pageTxt),
		matchMES(pageTxt),
		rePGI.MatchString(pageTxt),
		reMSU.MatchString(pageTxt),
		reDE.MatchString(pageTxt),
		reINS.MatchString(pageTxt),
		reINT.MatchString(pageTxt):
		return string(constants.MiseEnSecurite)
	case matchML(pageTxt),
		reAbroDE.MatchString(pageTxt),
		reAbroINT.MatchString(pageTxt):
		return string(constants.Mainlevee)
	}
	return ""
}

// Urgence derives the proc_urgence column from the typology mentions.
// matchMES keeps urgent mise-en-sécurité mentions out of the first branch,
// so "mise en sécurité - procédure urgente" lands on "oui".
func Urgence(pageTxt string) string {
	switch {
	case rePSPO.MatchString(pageTxt),
		rePSPOMod.MatchString(pageTxt),
		matchMES(pageTxt),
		reMESMod.MatchString(pageTxt):
		return constants.UrgenceNon
	case rePGI.MatchString(pageTxt),
		rePGIMod.MatchString(pageTxt),
		reMSU.MatchString(pageTxt),
		reMSUMod.MatchString(pageTxt):
		return constants.UrgenceOui
	case reMLPA.MatchString(pageTxt),
		reDE.MatchString(pageTxt),
		reAbroDE.MatchString(pageTxt),
		reINS.MatchString(pageTxt),
		reINT.MatchString(pageTxt):
		return constants.UrgenceIncertain
	case matchML(pageTxt), reAbroINT.MatchString(pageTxt):
		return constants.UrgenceSansObjet
	}
	return ""
}

// Flag columns: matched pages set the column to "oui", the rest leave it
// empty so a later page can still decide.
var (
	reIntHab = regexp.MustCompile(`(?mi)(?:` +
		`interdiction\s+d['’]habiter\s+et\s+d['’]occuper` +
		`|interdiction\s+d['’]habiter\s+l['’]appartement` +
		`)`)

	reDemo = regexp.MustCompile(`(?mi)(?:d[ée]molir|d[ée]molition|d[ée]construction)`)

	reEquCom = regexp.MustCompile(`(?mi)(?:ins[ée]curit[ée]|s[ée]curit[ée]\s+imminente)\s+des\s+[ée]quipements\s+communs`)
)

// Demolition reports a demolition or deconstruction order on the page.
func Demolition(pageTxt string) string {
	if reDemo.MatchString(pageTxt) {
		return "oui"
	}
	return ""
}

// InterdictionHabiter reports an occupancy interdiction on the page.
func InterdictionHabiter(pageTxt string) string {
	if reIntHab.MatchString(pageTxt) {
		return "oui"
	}
	return ""
}

// EquipementsCommuns reports an unsafe-common-equipment mention on the page.
func EquipementsCommuns(pageTxt string) string {
	if reEquCom.MatchString(pageTxt) {
		return "oui"
	}
	return ""
}
