package address

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ampmetropole/arretes-peril/internal/geo"
)

// Fields is one decomposed short address. CPostal and Commune are shared by
// every short address of the zone they come from.
type Fields struct {
	Num     string
	Ind     string
	Voie    string
	Compl   string
	CPostal string
	Commune string
}

const (
	fragTok = `[A-Za-zÀ-ÿ]+`

	fragNumVoie = `\d+`
	// single letters rely on the word boundary to stay clear of the "et"
	// and "à" joiners in "12 ET 14" or "15 À 21"
	fragIndVoie = `(?:bis|quater|ter|[A-Z]\b)`
	fragIndSep  = `(?:(?:\s*[,/-]\s*)|(?:\s+et\s+)|(?:\s+))`

	fragNumInd = fragNumVoie + `(?:\s*(?:` +
		`(?:[(]` + fragIndVoie + `(?:` + fragIndSep + fragIndVoie + `)+[)])` +
		`|(?:` + fragIndVoie + `(?:` + fragIndSep + fragIndVoie + `)+)` +
		`|` + fragIndVoie +
		`))?`

	fragNumIndSep  = `(?:(?:\s*[,/-]\s*)|(?:\s+(?:et|à)\s+)|(?:\s+))`
	fragNumIndList = `(?:` + fragNumInd + `(?:` + fragNumIndSep + fragNumInd + `)*)`

	fragTypVoie = `(?:\b(?:rue|avenue|boulevard|bld|bd|place|cours|route|traverse|impasse|all[ée]e[s]?|quai|ancien\s+chemin|chemin|che|ch|mont[ée]e|vc|domaine))`

	fragCP = `\d{5}`

	// streets with no leading type word, spelled out in full
	fragVoieSpecial = `(?:` +
		`(?:la\s+Can[n]?ebi[èe]re)` +
		`|(?:grand(?:e)?\s+rue)` +
		`|(?:place\s+de\s+l['’\s]église\s+-\s+François\s+Maleterre)` +
		`|(?:chemin\s+de\s+(?:` +
		`(?:la\s+Valbarelle\s+[àa]\s+Saint\s+Marcel)` +
		`|(?:Saint\s+Antoine\s+[àa]\s+Saint\s+Joseph)` +
		`|(?:Saint\s+Louis\s+au\s+Rove)` +
		`|(?:Saint\s+Menet\s+aux\s+Accates)` +
		`))` +
		`)`

	fragResid = `(?:r[ée]sidence|cit[ée])`
	fragBat   = `(?:B[âa]timent(?:s)?|B[âa]t|Immeuble(?:s)?|Villa)`
	fragApt   = `(?:Appartement|Appart|Apt)`
	fragDocks = `Les\s+Docks\s+Atrium\s+[\d.]+`
)

// fragCommune prefers the known commune spellings; the fallback accepts an
// uppercase-led run of up to five tokens. The separator class leaves
// newlines out so a commune at end of line cannot swallow the next line.
var fragCommune = `(?:` + geo.Default().NamePattern() +
	`|[A-ZÀ-Ý]` + fragTok + `(?:['’ \t-]` + fragTok + `){0,4})`

var (
	reVoieSpecial   = regexp.MustCompile(`(?i)` + fragVoieSpecial)
	reVoieSpecialAt = regexp.MustCompile(`(?i)^` + fragVoieSpecial)
	reTypVoie       = regexp.MustCompile(`(?i)` + fragTypVoie)
	reTypVoieAt     = regexp.MustCompile(`(?i)^` + fragTypVoie)
	reSpacesAt      = regexp.MustCompile(`^\s+`)

	reNumIndList   = regexp.MustCompile(`(?i)` + fragNumIndList)
	reNumIndListAt = regexp.MustCompile(`(?i)^` + fragNumIndList)
	reNumInd       = regexp.MustCompile(`(?i)` + fragNumInd)
	reNum          = regexp.MustCompile(fragNumVoie)
	reInd          = regexp.MustCompile(`(?i)` + fragIndVoie)

	// right bounds of a voie name, searched from its second character on
	reNomBoundPlain = regexp.MustCompile(`(?i)(?:` +
		`\s*,\s+` +
		`|(?:\s*[-–])?\s*` + fragCP +
		`|\s*–\s*` +
		`|\s+-\s*` +
		`|\s*/\s*` +
		`|\s+et\s+` +
		`|\s+b[âa]t\s+` +
		`)`)
	reNomBoundAddr = regexp.MustCompile(`(?i)(?:\s*[-–,])?\s*` + fragNumIndList + `,?\s+` + fragTypVoie)
	reNomBoundA    = regexp.MustCompile(`(?i)\s+à\s+`)
	reVentAfter    = regexp.MustCompile(`(?i)^vent\s`)
	reNomBoundBat  = regexp.MustCompile(`(?i)b[âa]timent`)

	reBridgeFull = regexp.MustCompile(`(?i)\A(?:\s*,)?\s+\z`)
	reBridgeAt   = regexp.MustCompile(`(?i)^(?:\s*,)?\s+`)

	reListSepAt = regexp.MustCompile(`(?i)^(?:(?:\s*[,/–-]\s*)|(?:\s+et\s+)|(?:\s+))(?:angle\s+)?`)

	// complement leads and the right bounds of their free-text part
	reDocksAt     = regexp.MustCompile(`(?i)^` + fragDocks)
	reComplLeadAt = regexp.MustCompile(`(?i)^(?:` + fragResid + `|` + fragBat + `|` + fragApt + `)`)
	reComplLead   = regexp.MustCompile(`(?i)(?:` + fragDocks + `|` + fragResid + `|` + fragBat + `|` + fragApt + `)`)
	reBatReject   = regexp.MustCompile(`(?i)^\s+(?:sis|menaçant)`)
	reComplBound  = regexp.MustCompile(`(?i)(?:` +
		`\s*,\s+` +
		`|(?:\s*[-–])?\s*` + fragCP +
		`|\s*–\s*` +
		`|\s+-\s+` +
		`|\s*` + fragNumIndList + `(?:\s*,)?\s+(?:la\s+Can[n]?ebi[èe]re|grand(?:e)?\s+rue|` + fragTypVoie + `)` +
		`)`)
	reComplBoundAt = regexp.MustCompile(`(?i)^(?:` +
		`\s*,\s+` +
		`|(?:\s*[-–])?\s*` + fragCP +
		`|\s*–\s*` +
		`|\s+-\s+` +
		`|\s*` + fragNumIndList + `(?:\s*,)?\s+(?:la\s+Can[n]?ebi[èe]re|grand(?:e)?\s+rue|` + fragTypVoie + `)` +
		`)`)
	reComplContent = regexp.MustCompile(`\A\s*[^,–]*\z`)
	reChainSepAt   = regexp.MustCompile(`^\s*[,–-]\s*`)
	reComplBridge  = regexp.MustCompile(`\A(?:\s*[,–-])?\s*\z`)
	reComplSepAt   = regexp.MustCompile(`^(?:\s*[,–-])?\s*`)

	reTailSepAt = regexp.MustCompile(`^(?:(?:\s*[,–-])|(?:\s+à))`)
	reCPAt      = regexp.MustCompile(`^(\s*)(` + fragCP + `)`)

	reCommuneAt = regexp.MustCompile(`(?i)^\s*(` + fragCommune + `)`)
)

type span struct{ start, end int }

func (s span) empty() bool { return s.start >= s.end }

// item is one short address inside a zone.
type item struct {
	num  span // zero when the address has no number list
	voie span
}

// parsed locates the composed parts of one address match inside a zone.
type parsed struct {
	start, end int
	complIni   span
	listStart  int
	listEnd    int
	complFin   span
	cpostal    span
	commune    span
}

// nomEnd bounds a voie name starting at from: the name runs to the first
// right bound found at or after its second character. No bound anywhere
// after the name means no name at all.
func nomEnd(text string, from int) (int, bool) {
	_, sz := utf8.DecodeRuneInString(text[from:])
	if sz == 0 {
		return 0, false
	}
	min1 := from + sz
	if min1 >= len(text) {
		return 0, false
	}
	best := -1
	if loc := reNomBoundPlain.FindStringIndex(text[min1:]); loc != nil {
		best = min1 + loc[0]
	}
	if loc := reNomBoundAddr.FindStringIndex(text[min1:]); loc != nil {
		if p := min1 + loc[0]; best < 0 || p < best {
			best = p
		}
	}
	for off := min1; off < len(text); {
		loc := reNomBoundA.FindStringIndex(text[off:])
		if loc == nil {
			break
		}
		p := off + loc[0]
		// "à vent" belongs to the name (moulin à vent)
		if !reVentAfter.MatchString(text[off+loc[1]:]) {
			if best < 0 || p < best {
				best = p
			}
			break
		}
		off = p + 1
	}
	for off := min1; off < len(text); {
		loc := reNomBoundBat.FindStringIndex(text[off:])
		if loc == nil {
			break
		}
		p := off + loc[0]
		// "chemin du Bâtiment" keeps its last word
		if p < 3 || !strings.EqualFold(text[p-3:p], "du ") {
			if best < 0 || p < best {
				best = p
			}
			break
		}
		off = p + 1
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// findVoieFrom finds the leftmost voie at or after from: a special
// whole-name form, or a street type followed by a bounded name.
func findVoieFrom(text string, from int) (int, int, bool) {
	ss, se := -1, -1
	if loc := reVoieSpecial.FindStringIndex(text[from:]); loc != nil {
		ss, se = from+loc[0], from+loc[1]
	}
	gs, ge := -1, -1
	for off := from; off < len(text); {
		loc := reTypVoie.FindStringIndex(text[off:])
		if loc == nil {
			break
		}
		ts, te := off+loc[0], off+loc[1]
		if ss >= 0 && ss < ts {
			break
		}
		sp := reSpacesAt.FindStringIndex(text[te:])
		if sp != nil {
			if end, ok := nomEnd(text, te+sp[1]); ok {
				gs, ge = ts, end
				break
			}
		}
		off = ts + 1
	}
	switch {
	case ss < 0 && gs < 0:
		return 0, 0, false
	case gs < 0 || (ss >= 0 && ss <= gs):
		return ss, se, true
	default:
		return gs, ge, true
	}
}

// findVoieAt parses a voie exactly at pos and returns its end.
func findVoieAt(text string, pos int) (int, bool) {
	if loc := reVoieSpecialAt.FindStringIndex(text[pos:]); loc != nil {
		return pos + loc[1], true
	}
	loc := reTypVoieAt.FindStringIndex(text[pos:])
	if loc == nil {
		return 0, false
	}
	sp := reSpacesAt.FindStringIndex(text[pos+loc[1]:])
	if sp == nil {
		return 0, false
	}
	return nomEnd(text, pos+loc[1]+sp[1])
}

// parseItemAt parses one short address exactly at pos: a number list bridged
// to its voie, or a bare voie.
func parseItemAt(text string, pos int) (item, bool) {
	if loc := reNumIndListAt.FindStringIndex(text[pos:]); loc != nil {
		numEnd := pos + loc[1]
		if br := reBridgeAt.FindStringIndex(text[numEnd:]); br != nil {
			if end, ok := findVoieAt(text, numEnd+br[1]); ok {
				return item{num: span{pos, numEnd}, voie: span{numEnd + br[1], end}}, true
			}
		}
	}
	if end, ok := findVoieAt(text, pos); ok {
		return item{voie: span{pos, end}}, true
	}
	return item{}, false
}

// parseItemFrom finds the leftmost short address at or after from, attaching
// the nearest number list whose gap to the voie is pure separator.
func parseItemFrom(text string, from int) (item, bool) {
	vs, ve, ok := findVoieFrom(text, from)
	if !ok {
		return item{}, false
	}
	for _, loc := range reNumIndList.FindAllStringIndex(text[from:vs], -1) {
		ns, ne := from+loc[0], from+loc[1]
		if reBridgeFull.MatchString(text[ne:vs]) {
			return item{num: span{ns, ne}, voie: span{vs, ve}}, true
		}
	}
	return item{voie: span{vs, ve}}, true
}

// parseList extends the short-address list from its first item.
func parseList(text string, first item) (int, int) {
	start := first.voie.start
	if !first.num.empty() {
		start = first.num.start
	}
	end := first.voie.end
	for {
		sep := reListSepAt.FindStringIndex(text[end:])
		if sep == nil {
			break
		}
		next, ok := parseItemAt(text, end+sep[1])
		if !ok {
			break
		}
		end = next.voie.end
	}
	return start, end
}

// eltAt parses one complement element exactly at pos.
func eltAt(text string, pos int) (int, bool) {
	if loc := reDocksAt.FindStringIndex(text[pos:]); loc != nil {
		end := pos + loc[1]
		if reComplBoundAt.MatchString(text[end:]) {
			return end, true
		}
		return 0, false
	}
	loc := reComplLeadAt.FindStringIndex(text[pos:])
	if loc == nil {
		return 0, false
	}
	leadEnd := pos + loc[1]
	if isBatLead(text[pos:leadEnd]) && reBatReject.MatchString(text[leadEnd:]) {
		return 0, false
	}
	bound := reComplBound.FindStringIndex(text[leadEnd:])
	if bound == nil {
		return 0, false
	}
	end := leadEnd + bound[0]
	if !reComplContent.MatchString(text[leadEnd:end]) {
		return 0, false
	}
	return end, true
}

// "bâtiment sis" and "immeuble menaçant" open narrative, not a complement;
// only the bât, immeuble and villa leads carry that ambiguity.
func isBatLead(lead string) bool {
	switch r, _ := utf8.DecodeRuneInString(lead); r {
	case 'b', 'B', 'i', 'I', 'v', 'V':
		return true
	}
	return false
}

// complChainAt parses a run of complement elements starting exactly at pos.
func complChainAt(text string, pos int) (int, bool) {
	end, ok := eltAt(text, pos)
	if !ok {
		return 0, false
	}
	for {
		next := end
		if sep := reChainSepAt.FindStringIndex(text[next:]); sep != nil {
			next += sep[1]
		}
		e, ok := eltAt(text, next)
		if !ok {
			return end, true
		}
		end = e
	}
}

// firstItem anchors the parse: the first short address, with any leading
// complement bridged to it.
func firstItem(text string, from int, anchored bool, p *parsed) (item, bool) {
	if anchored {
		if end, ok := complChainAt(text, from); ok {
			sep := reComplSepAt.FindStringIndex(text[end:])
			if it, ok2 := parseItemAt(text, end+sep[1]); ok2 {
				p.complIni = span{from, end}
				return it, true
			}
		}
		return parseItemAt(text, from)
	}
	it, ok := parseItemFrom(text, from)
	if !ok {
		return item{}, false
	}
	anchor := it.voie.start
	if !it.num.empty() {
		anchor = it.num.start
	}
	// a leading complement can pull the match start further left
	for _, loc := range reComplLead.FindAllStringIndex(text[from:anchor], -1) {
		ls := from + loc[0]
		end, ok2 := complChainAt(text, ls)
		if !ok2 || end > anchor {
			continue
		}
		if reComplBridge.MatchString(text[end:anchor]) {
			p.complIni = span{ls, end}
			break
		}
	}
	return it, true
}

// parseAdresse locates one composed address: optional leading complement,
// the short-address list, optional trailing complement, then optional
// separator, postal code and commune. When anchored, the address must start
// exactly at from.
func parseAdresse(text string, from int, anchored bool) (parsed, bool) {
	var p parsed
	first, ok := firstItem(text, from, anchored, &p)
	if !ok {
		return parsed{}, false
	}
	p.listStart, p.listEnd = parseList(text, first)
	p.start = p.listStart
	if !p.complIni.empty() {
		p.start = p.complIni.start
	}
	pos := p.listEnd
	if sep := reComplSepAt.FindStringIndex(text[pos:]); sep != nil {
		if end, ok := complChainAt(text, pos+sep[1]); ok {
			p.complFin = span{pos + sep[1], end}
			pos = end
		}
	}
	if loc := reTailSepAt.FindStringIndex(text[pos:]); loc != nil {
		pos += loc[1]
	}
	if m := reCPAt.FindStringSubmatchIndex(text[pos:]); m != nil {
		ok := true
		if m[2] == m[3] {
			// no space before the code: an immediately preceding digit or
			// "P" marks a phone or permit number, not a postal code
			if r, _ := utf8.DecodeLastRuneInString(text[:pos]); r == 'P' || r == 'p' || (r >= '0' && r <= '9') {
				ok = false
			}
		}
		if ok {
			p.cpostal = span{pos + m[4], pos + m[5]}
			pos += m[1]
		}
	}
	if m := reCommuneAt.FindStringSubmatchIndex(text[pos:]); m != nil {
		p.commune = span{pos + m[2], pos + m[3]}
		pos += m[1]
	}
	p.end = pos
	return p, true
}

// NumInd is one unfolded number with its repetition indicator.
type NumInd struct {
	Num string
	Ind string
}

// Unfold expands a number list into its numbers: "10-12-14" gives three
// entries, "1 bis" one with its indicator, "12 A et B" one per indicator.
func Unfold(numList string) []NumInd {
	var out []NumInd
	for _, ni := range reNumInd.FindAllString(numList, -1) {
		num := reNum.FindString(ni)
		inds := reInd.FindAllString(ni, -1)
		if len(inds) == 0 {
			out = append(out, NumInd{Num: num})
			continue
		}
		for _, ind := range inds {
			out = append(out, NumInd{Num: num, Ind: ind})
		}
	}
	return out
}

// Decompose splits an address zone into its short addresses, unfolding
// number lists: "10-12 rue X, 13001 Marseille" yields one Fields per number.
// A zone where no address parses yields a single zero Fields so the caller
// still gets a row carrying the raw zone.
func Decompose(zone string) []Fields {
	p, ok := parseAdresse(zone, 0, false)
	if !ok {
		return []Fields{{}}
	}
	compl := joinCompl(zone, p)
	cpostal := textFor(zone, p.cpostal)
	commune := textFor(zone, p.commune)

	var out []Fields
	for off := p.listStart; off < len(zone); {
		it, ok := parseItemFrom(zone, off)
		if !ok {
			break
		}
		voie := strings.TrimSpace(textFor(zone, it.voie))
		if it.num.empty() {
			out = append(out, Fields{Voie: voie, Compl: compl, CPostal: cpostal, Commune: commune})
		} else {
			for _, ni := range Unfold(textFor(zone, it.num)) {
				out = append(out, Fields{Num: ni.Num, Ind: ni.Ind, Voie: voie, Compl: compl, CPostal: cpostal, Commune: commune})
			}
		}
		off = it.voie.end
	}
	if len(out) == 0 {
		return []Fields{{}}
	}
	return out
}

func textFor(zone string, s span) string {
	if s.empty() {
		return ""
	}
	return zone[s.start:s.end]
}

func joinCompl(zone string, p parsed) string {
	parts := make([]string, 0, 2)
	for _, s := range []span{p.complIni, p.complFin} {
		if !s.empty() {
			parts = append(parts, strings.TrimSpace(textFor(zone, s)))
		}
	}
	return strings.Join(parts, " ")
}
