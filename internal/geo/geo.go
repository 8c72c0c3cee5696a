// Package geo holds the geographic knowledge base for the Aix-Marseille
// métropole: commune names with their INSEE and postal codes, plus the
// Marseille arrondissement arithmetic that several extractors depend on.
package geo

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ampmetropole/arretes-peril/internal/textutil"
)

//go:embed communes.csv
var communesCSV string

// MarseilleInsee is the INSEE code of Marseille as a whole. Individual
// arrondissements carry 13201..13216 instead.
const MarseilleInsee = "13055"

// Commune is one knowledge-base row. Postal is empty for communes that span
// several postal codes (Marseille, Aix-en-Provence): no single value is right.
type Commune struct {
	Name   string `json:"commune"`
	Insee  string `json:"code_insee"`
	Postal string `json:"code_postal,omitempty"`
}

// Knowledge resolves commune names to codes and back.
type Knowledge struct {
	communes []Commune
	byName   map[string]int
	byInsee  map[string]int
}

// Load builds the knowledge base from the embedded commune table.
func Load() (*Knowledge, error) {
	rows, err := csv.NewReader(strings.NewReader(communesCSV)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read commune table: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("commune table is empty")
	}

	k := &Knowledge{
		byName:  make(map[string]int),
		byInsee: make(map[string]int),
	}
	for _, row := range rows[1:] {
		if len(row) != 3 {
			return nil, fmt.Errorf("commune table: want 3 columns, got %d", len(row))
		}
		k.add(Commune{Name: row[0], Insee: row[1], Postal: row[2]})
	}
	return k, nil
}

var (
	defaultOnce sync.Once
	defaultKnow *Knowledge
)

// Default returns the Knowledge built from the embedded commune table alone,
// without overrides. Detector packages use it to build their match patterns
// at init time. The result is shared and must not be mutated.
func Default() *Knowledge {
	defaultOnce.Do(func() {
		k, err := Load()
		if err != nil {
			panic("geo: embedded commune table: " + err.Error())
		}
		defaultKnow = k
	})
	return defaultKnow
}

func (k *Knowledge) add(c Commune) {
	key := Simplify(c.Name)
	if i, ok := k.byName[key]; ok {
		delete(k.byInsee, k.communes[i].Insee)
		k.communes[i] = c
		k.byInsee[c.Insee] = i
		return
	}
	k.communes = append(k.communes, c)
	k.byName[key] = len(k.communes) - 1
	k.byInsee[c.Insee] = len(k.communes) - 1
}

// Simplify reduces a commune name to its matching key: folded case and
// accents, separators removed. "Châteauneuf les Martigues" and
// "CHATEAUNEUF-LES-MARTIGUES" simplify to the same key.
func Simplify(name string) string {
	s := textutil.Fold(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\'', '’':
			return -1
		}
		return r
	}, s)
}

// Lookup finds a commune by any spelling of its name.
func (k *Knowledge) Lookup(name string) (Commune, bool) {
	i, ok := k.byName[Simplify(name)]
	if !ok {
		return Commune{}, false
	}
	return k.communes[i], true
}

var reArrondissement = regexp.MustCompile(`^marseille(\d{1,2})(?:er|eme|e)?$`)

// InseeCode resolves a commune name to its INSEE code. The postal code, when
// known, disambiguates Marseille arrondissements (13001 -> 13201). An unknown
// commune yields the empty string.
func (k *Knowledge) InseeCode(commune, cpostal string) string {
	if commune == "" {
		return ""
	}
	if IsMarseilleCP(cpostal) {
		return "132" + cpostal[3:]
	}
	key := Simplify(commune)
	if m := reArrondissement.FindStringSubmatch(key); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= 16 {
			return fmt.Sprintf("132%02d", n)
		}
	}
	if i, ok := k.byName[key]; ok {
		return k.communes[i].Insee
	}
	return ""
}

// PostalCode resolves a postal code from a commune name and INSEE code.
// Arrondissement codes map back arithmetically (13207 -> 13007); otherwise the
// table decides. Multi-postal communes yield the empty string.
func (k *Knowledge) PostalCode(commune, insee string) string {
	if IsMarseilleArrondissement(insee) {
		return "130" + insee[3:]
	}
	if i, ok := k.byInsee[insee]; ok {
		return k.communes[i].Postal
	}
	if c, ok := k.Lookup(commune); ok {
		return c.Postal
	}
	return ""
}

// NamePattern returns a regexp alternation matching every known commune name
// in its common spelling variants (flexible separators, optional accents,
// Marseille arrondissement suffixes). Callers embed it in case-insensitive
// patterns. Longer names come first so they win over shared prefixes.
func (k *Knowledge) NamePattern() string {
	names := make([]string, len(k.communes))
	for i, c := range k.communes {
		names[i] = c.Name
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	alts := make([]string, 0, len(names))
	for _, name := range names {
		alt := namePattern(name)
		if Simplify(name) == "marseille" {
			alt += `(?:\s*\d{1,2}\s*(?:er|[èe]me|e))?`
		}
		alts = append(alts, alt)
	}
	return "(?:" + strings.Join(alts, "|") + ")"
}

// accentClasses maps each accented letter of the table to a class accepting
// both spellings. Scanned text loses accents often enough to matter.
var accentClasses = map[rune]string{
	'à': "[àa]", 'â': "[âa]", 'ç': "[çc]", 'é': "[ée]", 'è': "[èe]",
	'ê': "[êe]", 'ë': "[ëe]", 'î': "[îi]", 'ï': "[ïi]", 'ô': "[ôo]",
	'û': "[ûu]", 'ü': "[üu]",
}

func namePattern(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ' || r == '-':
			b.WriteString(`['’\s-]+`)
		case r == '\'' || r == '’':
			b.WriteString(`['’\s-]*`)
		default:
			if class, ok := accentClasses[r]; ok {
				b.WriteString(class)
			} else {
				b.WriteString(regexp.QuoteMeta(string(r)))
			}
		}
	}
	return b.String()
}

// IsMarseilleCP reports whether cp is one of the sixteen Marseille
// arrondissement postal codes, 13001 through 13016.
func IsMarseilleCP(cp string) bool {
	if len(cp) != 5 || !strings.HasPrefix(cp, "130") {
		return false
	}
	n, err := strconv.Atoi(cp[3:])
	return err == nil && n >= 1 && n <= 16
}

// IsMarseilleArrondissement reports whether insee is an arrondissement code,
// 13201 through 13216.
func IsMarseilleArrondissement(insee string) bool {
	if len(insee) != 5 || !strings.HasPrefix(insee, "132") {
		return false
	}
	n, err := strconv.Atoi(insee[3:])
	return err == nil && n >= 1 && n <= 16
}
