package baseparse

import (
	"strings"

	"github.com/insightdelivered/statement-extractor/internal/token"
)

// TermsParser (the "ParserPrimer") matches any of a configured set of
// phrases, case-insensitively, trying the longest multi-token window
// first.
type TermsParser struct {
	terms        []string
	maxLookahead int
	primed       bool
	item         token.Token
}

// NewTermsParser builds a parser for the given phrases. Phrases are
// compared case-insensitively; maxLookahead is the token count of the
// longest configured phrase.
func NewTermsParser(terms []string) *TermsParser {
	p := &TermsParser{terms: terms}
	for _, t := range terms {
		if n := len(strings.Fields(t)); n > p.maxLookahead {
			p.maxLookahead = n
		}
	}
	if p.maxLookahead == 0 {
		p.maxLookahead = 1
	}
	return p
}

// Reset clears primed state.
func (p *TermsParser) Reset() {
	p.primed = false
	p.item = token.Token{}
}

// Primed reports whether the last Parse call matched.
func (p *TermsParser) Primed() bool { return p.primed }

// Item returns the synthesized bounding item of the last match.
func (p *TermsParser) Item() token.Token { return p.item }

// Parse tries window sizes from min(maxLookahead, len(tokens)) down to 1,
// matching the joined phrase case-insensitively against the configured
// terms. Returns the consumed count, or 0 on no match.
func (p *TermsParser) Parse(tokens []token.Token) int {
	limit := min(p.maxLookahead, len(tokens))
	for k := limit; k >= 1; k-- {
		phrase := strings.Join(texts(tokens[:k]), " ")
		for _, term := range p.terms {
			if strings.EqualFold(phrase, term) {
				p.primed = true
				p.item = synthItem(phrase, tokens[:k])
				return k
			}
		}
	}
	return 0
}
