package baseparse

import (
	"strings"

	"github.com/insightdelivered/statement-extractor/internal/formats/amount"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

// AmountParser matches one amount micro-format. It is only active once
// primed (by an external caller, typically a primer) and not yet holding
// a value.
type AmountParser struct {
	dispatcher *amount.Dispatcher
	primed     bool
	ready      bool
	value      float64
	item       token.Token
}

// NewAmountParser builds a parser dispatching over the given formats.
func NewAmountParser(formats []amount.Format) *AmountParser {
	return &AmountParser{dispatcher: amount.NewDispatcher(formats)}
}

// Prime arms the parser to attempt a match on the next Parse call.
func (p *AmountParser) Prime() { p.primed = true }

// Primed reports whether the parser is armed.
func (p *AmountParser) Primed() bool { return p.primed }

// Ready reports whether a value has been captured.
func (p *AmountParser) Ready() bool { return p.ready }

// Reset clears any captured value and un-arms the parser.
func (p *AmountParser) Reset() {
	p.primed = false
	p.ready = false
	p.value = 0
	p.item = token.Token{}
}

// Value returns the captured amount and whether one has been captured.
func (p *AmountParser) Value() (float64, bool) { return p.value, p.ready }

// Item returns the bounding item of the captured value.
func (p *AmountParser) Item() token.Token { return p.item }

// Invert negates the captured value.
func (p *AmountParser) Invert() { p.value = -p.value }

// Parse attempts to consume an amount from the front of tokens. Inactive
// (returns 0) unless primed and not yet ready.
func (p *AmountParser) Parse(tokens []token.Token) int {
	if !p.primed || p.ready || len(tokens) == 0 {
		return 0
	}
	n := min(len(tokens), p.dispatcher.MaxTerms())
	terms := texts(tokens[:n])
	v, consumed, ok := p.dispatcher.Parse(terms)
	if !ok {
		return 0
	}
	p.value = v
	p.ready = true
	p.item = synthItem(strings.Join(terms[:consumed], " "), tokens[:consumed])
	return consumed
}
