// Package address turns the address mentions of an order into normalized
// address records: zone spotting, decomposition into short addresses, and
// reconciliation against the commune table.
//
// A zone is the raw text span naming the building ("12 rue X, 13001
// Marseille"); it can carry several short addresses sharing one postal code
// and commune. Scanned orders leave no reliable punctuation, so the
// decomposition works from a voie anchor outward: find the street type and
// name, attach the number list on its left, then the complement, postal code
// and commune on its right.
package address

import (
	"regexp"
	"strings"

	"github.com/ampmetropole/arretes-peril/internal/hazard"
)

// left contexts introducing the building address. "Risques, sise" is the
// address of a municipal service, filtered out by the caller.
var reZoneCtx = regexp.MustCompile(`(?mi)(?:` +
	`situ[ée](?:\s+(?:au|du))?` +
	`|désordres\s+(?:importants\s+)?(?:sur|affectant)\s+(?:le\s+bâtiment|l['’]immeuble)\s+sis` +
	`|un\s+péril\s+grave\s+et\s+imminent\s+(?:à|au)` +
	`|immeuble\s+(?:du|numéroté)` +
	`|sis[e]?[,]?(?:\s+(?:[àa]|au|du))?` +
	`|Objet\s*:(?:\s+` + hazard.ClassPattern + `(?:\s*[,:–-]|\s+au)?)?` +
	`|` + hazard.ClassPattern + `\s*[–-]` +
	`)\s+`)

// narrative right contexts: anything from these words on belongs to the
// order text, not the address
const fragZoneRCont = `(?:` +
	`parcelle|section|référence|cadastr[ée]|situé` +
	`|concernant|concerné` +
	`|à\s+l['’]exception` +
	`|à\s+leur\s+jonction` +
	`|ainsi` +
	`|appartenant` +
	`|assorti` +
	`|avec\s+risque` +
	`|ce\s+diagnostic` +
	`|ces\s+derniers` +
	`|condamner` +
	`|copropriété` +
	`|de\s+mettre\s+fin` +
	`|depuis` +
	`|(?:doit|doivent|devra|devront|il\s+devra|peut|peuvent)\s+(?:être|exploiter|prendre|(?:dans|sous)\s+un\s+délai)` +
	`|(?:est|sont)\s+(?:à\s+l['’]état|de\s+nouveau|dans|à)` +
	`|(?:est|sont)\s+mis\s+en\s+demeure` +
	`|(?:est|sont|reste|restent)\s+(?:(?:strictement\s+)?interdit|accessible|pris)` +
	`|(?:(?:est|sont|ont\s+été|est\s+de|doit|doivent)$)` +
	`|et(?:\s+à\s+en)?\s+interdire` +
	`|et\s+au\s+cabinet` +
	`|et\s+(?:concerné|donnant\s+sur)` +
	`|et\s+de\s+l['’]appartement` +
	`|et\s+des\s+risques` +
	`|et\s+installation` +
	`|et\s+l['’]immeuble` +
	`|et\s+l['’]arr[êeé]t[ée](?:\s+municipal)?` +
	`|(?:et\s+(?:l['’]\s*|son\s+))?occupation` +
	`|et\s+notamment` +
	`|et\s+ordonne` +
	`|et\s+repr[ée]sentant` +
	`|et\s+sur\s+l` +
	`|étaiement` +
	`|évacuation` +
	`|faire\s+réaliser` +
	`|figurant` +
	`|fragilisé` +
	`|il\s+sera` +
	`|jusqu['’](?:au|à)` +
	`|le\s+rapport` +
	`|leur\s+demandant` +
	`|lors\s+de` +
	`|menace\s+de` +
	`|mentionné` +
	`|^Nomenclature\s+ACTES` +
	`|n['’](?:a|ont)\s+pas` +
	`|n[°º]` +
	`|ont\s+été\s+évacués` +
	`|permettant` +
	`|(?:pour$)` +
	`|préconise` +
	`|présence\s+de` +
	`|présente` +
	`|pris\s+en\s+l` +
	`|(?:pris$)` +
	`|propri[ée]taire` +
	`|qui\s+se\s+retrouve` +
	`|réalisé|effectué|établi` +
	`|représenté` +
	`|selon\s+les\s+hachures` +
	`|signé` +
	`|sur\s+une\s+largeur` +
	`|sur\s+la\s+(?:base|parcelle)` +
	`|susceptible` +
	`|suivant\s+annexe` +
	`|(?:^Nous,\s+)|(?:^le\s+maire)|(?:^vu)|(?:^consid[ée]rant)|(?:^article)` +
	`)`

var reZoneCut = regexp.MustCompile(`(?mi)(?:[(]|(?:\s*[-–,])?\s*)` + fragZoneRCont + `[\s\S]*`)

// ExtractZone returns the building address zone of the page: the first left
// context followed by a parseable address, cut at the first narrative right
// context, trailing punctuation dropped and newlines flattened. Empty when
// the page names no address.
func ExtractZone(pageTxt string) string {
	for _, loc := range reZoneCtx.FindAllStringIndex(pageTxt, -1) {
		if sisAt(pageTxt, loc[0]) && precededByRisques(pageTxt, loc[0]) {
			continue
		}
		p, ok := parseAdresse(pageTxt, loc[1], true)
		if !ok {
			continue
		}
		zone := pageTxt[p.start:p.end]
		zone = reZoneCut.ReplaceAllString(zone, "")
		if strings.HasSuffix(zone, ".") || strings.HasSuffix(zone, ",") {
			zone = zone[:len(zone)-1]
		}
		return strings.ReplaceAll(zone, "\n", " ")
	}
	return ""
}

func sisAt(text string, pos int) bool {
	return len(text) >= pos+3 && strings.EqualFold(text[pos:pos+3], "sis")
}

func precededByRisques(text string, pos int) bool {
	const ctx = "Risques, "
	return pos >= len(ctx) && strings.EqualFold(text[pos-len(ctx):pos], ctx)
}
