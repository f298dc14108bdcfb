package datetime

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// casualSpans covers span phrases the rule library does not recognize on its
// own. These use real calendar arithmetic, unlike the fixed-length units of
// the shorthand tiers.
var casualSpans = map[string]func(time.Time) time.Time{
	"last week":  func(t time.Time) time.Time { return t.AddDate(0, 0, -7) },
	"last month": func(t time.Time) time.Time { return t.AddDate(0, -1, 0) },
	"last year":  func(t time.Time) time.Time { return t.AddDate(-1, 0, 0) },
	"next week":  func(t time.Time) time.Time { return t.AddDate(0, 0, 7) },
	"next month": func(t time.Time) time.Time { return t.AddDate(0, 1, 0) },
	"next year":  func(t time.Time) time.Time { return t.AddDate(1, 0, 0) },
}

// whenParser is the production NaturalLanguageParser, backed by
// github.com/olebedev/when with the English and common rule sets. The parser
// is built once; Parse is safe for concurrent use.
type whenParser struct {
	w *when.Parser
}

func newWhenParser() *whenParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &whenParser{w: w}
}

func (p *whenParser) Parse(phrase string, anchor time.Time) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(phrase))
	if s == "" {
		return time.Time{}, false
	}
	if shift, ok := casualSpans[s]; ok {
		return shift(anchor), true
	}
	result, err := p.w.Parse(s, anchor)
	if err != nil || result == nil {
		return time.Time{}, false
	}
	return result.Time, true
}
