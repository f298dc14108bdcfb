package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// unitAliases maps every accepted unit spelling to its canonical name. The
// single-letter "m" is minute; month must be written "mo".
var unitAliases = map[string]string{
	"s":       "second",
	"sec":     "second",
	"secs":    "second",
	"second":  "second",
	"seconds": "second",
	"m":       "minute",
	"min":     "minute",
	"mins":    "minute",
	"minute":  "minute",
	"minutes": "minute",
	"h":       "hour",
	"hr":      "hour",
	"hrs":     "hour",
	"hour":    "hour",
	"hours":   "hour",
	"d":       "day",
	"day":     "day",
	"days":    "day",
	"w":       "week",
	"wk":      "week",
	"wks":     "week",
	"week":    "week",
	"weeks":   "week",
	"mo":      "month",
	"mos":     "month",
	"month":   "month",
	"months":  "month",
	"y":       "year",
	"yr":      "year",
	"yrs":     "year",
	"year":    "year",
	"years":   "year",
}

func canonicalUnit(alias string) (string, bool) {
	unit, ok := unitAliases[alias]
	return unit, ok
}

var (
	agoRe   = regexp.MustCompile(`^(\d+)\s*([a-z]+)\s+ago$`)
	inRe    = regexp.MustCompile(`^in\s+(\d+)\s*([a-z]+)$`)
	minusRe = regexp.MustCompile(`^minus\s+(\d+)\s*([a-z]+)$`)
	plusRe  = regexp.MustCompile(`^plus\s+(\d+)\s*([a-z]+)$`)
)

// NormalizeTimeExpression rewrites abbreviated relative expressions ("1d ago",
// "in 5min", "minus 2 hours", "plus 1 w") into the canonical phrases the
// natural-language parser understands. The whole trimmed string must match
// one of the four patterns; anything else is returned verbatim. Matching is
// case-insensitive and the transform is pure.
func NormalizeTimeExpression(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))

	if m := agoRe.FindStringSubmatch(s); m != nil {
		if unit, ok := canonicalUnit(m[2]); ok {
			return fmt.Sprintf("%s %s ago", m[1], pluralize(unit, m[1]))
		}
	}
	if m := inRe.FindStringSubmatch(s); m != nil {
		if unit, ok := canonicalUnit(m[2]); ok {
			return fmt.Sprintf("in %s %s", m[1], pluralize(unit, m[1]))
		}
	}
	if m := minusRe.FindStringSubmatch(s); m != nil {
		if unit, ok := canonicalUnit(m[2]); ok {
			return fmt.Sprintf("%s %s ago", m[1], pluralize(unit, m[1]))
		}
	}
	if m := plusRe.FindStringSubmatch(s); m != nil {
		if unit, ok := canonicalUnit(m[2]); ok {
			return fmt.Sprintf("in %s %s", m[1], pluralize(unit, m[1]))
		}
	}

	return input
}

// pluralize appends "s" to the canonical unit unless the magnitude is
// exactly 1.
func pluralize(unit, value string) string {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil && n == 1 {
		return unit
	}
	return unit + "s"
}
