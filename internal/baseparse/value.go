package baseparse

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-extractor/internal/token"
)

// ValueParser matches any of a configured set of regexes against the
// joined text of a token window, trying the longest window first.
type ValueParser struct {
	patterns     []*regexp.Regexp
	maxLookahead int
}

// NewValueParser compiles patterns and derives the overall max_lookahead
// as the largest per-pattern lookahead (whitespace-separator count + 1).
func NewValueParser(patterns []string) *ValueParser {
	v := &ValueParser{}
	for _, p := range patterns {
		re := regexp.MustCompile(p)
		v.patterns = append(v.patterns, re)
		if n := deriveMaxLookahead(p); n > v.maxLookahead {
			v.maxLookahead = n
		}
	}
	if v.maxLookahead == 0 {
		v.maxLookahead = 1
	}
	return v
}

var separatorToken = regexp.MustCompile(`\\s[*+]?|[ ]`)

// deriveMaxLookahead counts whitespace-separator occurrences in the
// pattern source (`\s`, `\s+`, `\s*`, or a literal space) and adds 1,
// giving the number of whitespace-separated tokens the pattern can span.
func deriveMaxLookahead(pattern string) int {
	return len(separatorToken.FindAllString(pattern, -1)) + 1
}

// MaxLookahead returns the derived maximum token window.
func (v *ValueParser) MaxLookahead() int { return v.maxLookahead }

// Parse tries window sizes from min(maxLookahead, len(tokens)) down to 1,
// matching the joined text against every configured pattern. Returns the
// matched text and consumed count, or ("", 0) on no match.
func (v *ValueParser) Parse(tokens []token.Token) (string, int) {
	limit := min(v.maxLookahead, len(tokens))
	for k := limit; k >= 1; k-- {
		phrase := strings.Join(texts(tokens[:k]), " ")
		for _, re := range v.patterns {
			if re.MatchString(phrase) {
				return phrase, k
			}
		}
	}
	return "", 0
}
