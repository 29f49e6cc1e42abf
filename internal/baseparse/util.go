// Package baseparse implements the token-consuming primitives the primed
// field parsers and transaction state machine are built from: a term
// (phrase) matcher, an amount matcher, a date matcher, and a regex value
// matcher. Every parser here shares one contract: Parse(tokens) returns
// the number of leading tokens consumed, 0 meaning "no match".
package baseparse

import "github.com/insightdelivered/statement-extractor/internal/token"

func texts(tokens []token.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// synthItem builds the bounding item a primer/value match reports to
// gating code: x1/x2 span the first-to-last token, y1/y2 intentionally
// cross first.Y2/last.Y1 rather than first.Y1/last.Y2, matching the
// reference parser's own bounds convention for multi-token matches.
func synthItem(text string, tokens []token.Token) token.Token {
	first, last := tokens[0], tokens[len(tokens)-1]
	return token.Token{Text: text, X1: first.X1, Y1: first.Y2, X2: last.X2, Y2: last.Y1, Page: first.Page}
}
