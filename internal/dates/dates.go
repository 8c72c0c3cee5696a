// Package dates recognizes the date forms found in municipal hazard orders
// and renders them in the dd/mm/yyyy form the output tables use.
package dates

import (
	"strconv"
	"strings"
	"time"

	"github.com/ampmetropole/arretes-peril/internal/textutil"
)

const monthPattern = `(?:janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre|jan|f[ée]v|avr|juil|aou|sep|oct|nov|d[ée]c)`

// Pattern matches a date as printed in the orders: dotted numeric
// (Peyrolles letterhead), slashed numeric, or "12 mars 2021" with a full or
// abbreviated month name. Callers embed it inside case-insensitive patterns.
const Pattern = `(?:\d{2}[.]\d{2}[.]\d{4}|\d{2}/\d{2}/\d{4}|\d{1,2} ` + monthPattern + ` \d{4})`

var months = map[string]time.Month{
	"janvier":   time.January,
	"février":   time.February,
	"mars":      time.March,
	"avril":     time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"août":      time.August,
	"septembre": time.September,
	"octobre":   time.October,
	"novembre":  time.November,
	"décembre":  time.December,
	"jan":       time.January,
	"fév":       time.February,
	"fev":       time.February,
	"avr":       time.April,
	"juil":      time.July,
	"aou":       time.August,
	"sep":       time.September,
	"oct":       time.October,
	"nov":       time.November,
	"déc":       time.December,
	"dec":       time.December,
}

// ParseLoose parses a raw date span in any of the recognized forms.
func ParseLoose(raw string) (time.Time, bool) {
	s := textutil.Normalize(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{"02.01.2006", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	fields := strings.Fields(s)
	if len(fields) != 3 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return time.Time{}, false
	}
	month, ok := months[strings.ToLower(fields[1])]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return time.Time{}, false
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// Canonical renders raw as dd/mm/yyyy. Unparseable input comes back
// whitespace-normalized but otherwise untouched, so a malformed date still
// lands in the output for a human to inspect.
func Canonical(raw string) string {
	if t, ok := ParseLoose(raw); ok {
		return t.Format("02/01/2006")
	}
	return textutil.Normalize(raw)
}

// Year reports the year of a parseable date span.
func Year(raw string) (int, bool) {
	t, ok := ParseLoose(raw)
	if !ok {
		return 0, false
	}
	return t.Year(), true
}
