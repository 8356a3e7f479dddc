package temporal

import (
	"regexp"
	"time"
)

type periodRule struct {
	name  string
	re    string
	clock Clock
}

// specific phrases sit above the bare period word they contain
var periodRules = []periodRule{
	{"fim_do_dia", `\b(?:no\s+)?(?:fim|final)\s+do\s+dia\b`, Clock{23, 59}},
	{"fim_da_tarde", `\b(?:no\s+)?(?:fim|final)\s+(?:da|de)\s+tarde\b`, Clock{17, 30}},
	{"inicio_da_tarde", `\b(?:no\s+)?(?:inicio|comeco)\s+(?:da|de)\s+tarde\b`, Clock{13, 30}},
	{"noite", `\b(?:(?:de|a|pela)\s+)?noite\b`, Clock{23, 59}},
	{"fim_da_manha", `\b(?:no\s+)?(?:fim|final)\s+(?:da|de)\s+manha\b`, Clock{11, 30}},
	{"tarde", `\b(?:(?:de|a|pela)\s+)?tarde\b`, Clock{15, 0}},
	{"manha", `\b(?:(?:de|pela|a)\s+)?manha\b`, Clock{9, 0}},
	{"cedo", `\b(?:bem\s+cedo|cedo|(?:na\s+)?primeira\s+hora)\b`, Clock{8, 0}},
	{"almoco", `\b(?:(?:na\s+)?hora\s+do\s+almoco|(?:no\s+)?almoco)\b`, Clock{12, 0}},
	{"madrugada", `\b(?:(?:de|na|pela)\s+)?madrugada\b`, Clock{2, 0}},
}

var agoraRE = regexp.MustCompile(`\bagora\b`)

func (m *Matcher) compileContexts() {
	m.contextRules = make([]rule[Clock], 0, len(periodRules)+1)
	for _, pr := range periodRules {
		re := regexp.MustCompile(pr.re)
		c := pr.clock
		m.contextRules = append(m.contextRules, rule[Clock]{
			name: pr.name,
			match: func(s string, _ time.Time) (Span, Clock, bool) {
				loc := findOne(re, s)
				if loc == nil {
					return Span{}, Clock{}, false
				}
				return Span{loc[0], loc[1]}, c, true
			},
		})
	}
	m.contextRules = append(m.contextRules, rule[Clock]{name: "agora", match: matchAgora})
}

func matchAgora(s string, now time.Time) (Span, Clock, bool) {
	loc := findOne(agoraRE, s)
	if loc == nil {
		return Span{}, Clock{}, false
	}
	return Span{loc[0], loc[1]}, RoundUp5(now), true
}

// RoundUp5 moves now up to the next five minute mark, seconds are ignored
// and a time already on a mark stays; past 23:55 it wraps to 00:00
func RoundUp5(now time.Time) Clock {
	total := now.Hour()*60 + now.Minute()
	total += (5 - total%5) % 5
	total %= 24 * 60
	return Clock{Hour: total / 60, Minute: total % 60}
}
