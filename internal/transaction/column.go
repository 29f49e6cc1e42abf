// Package transaction implements the per-config row-by-row transaction
// state machine: a start/stop-gated driver that walks a token stream,
// extracting date/description/amount/balance fields per row through
// header-gated, x-range-clipped sub-parsers.
package transaction

import (
	"github.com/insightdelivered/statement-extractor/internal/baseparse"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// columnGate remembers a header's x-range (once found) and clips
// subsequent values to it. descClip relaxes the check to the half-open
// form the description column uses (§4.7): x1 >= header.x1-tol and
// x2 <= header.x2+tol, without an upper bound on x1 or lower bound on x2.
type columnGate struct {
	header    *baseparse.TermsParser
	xTol      int
	headerSet bool
	x1, x2    int
	descClip  bool
}

func newColumnGate(headerTerms []string, xTol int, descClip bool) *columnGate {
	return &columnGate{header: baseparse.NewTermsParser(headerTerms), xTol: xTol, descClip: descClip}
}

// tryHeader attempts to consume the header phrase, recording its x-range
// on first success. Returns the consumed count (0 if already set or no
// match).
func (g *columnGate) tryHeader(tokens []token.Token) int {
	if g.headerSet {
		return 0
	}
	n := g.header.Parse(tokens)
	if n == 0 {
		return 0
	}
	h := g.header.Item()
	g.x1, g.x2 = h.X1, h.X2
	g.headerSet = true
	return n
}

// inRange reports whether item falls within this column's x-range.
func (g *columnGate) inRange(item token.Token) bool {
	if !g.headerSet {
		return false
	}
	lo, hi := g.x1-g.xTol, g.x2+g.xTol
	if g.descClip {
		return item.X1 >= lo && item.X2 <= hi
	}
	return item.X1 >= lo && item.X1 <= hi && item.X2 >= lo && item.X2 <= hi
}
