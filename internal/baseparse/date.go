package baseparse

import (
	"strings"

	"github.com/insightdelivered/statement-extractor/internal/formats/date"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

// DateParser matches one date micro-format, optionally using an external
// year hint for formats that need one.
type DateParser struct {
	dispatcher *date.Dispatcher
	yearHint   string
	primed     bool
	ready      bool
	value      int64
	item       token.Token
}

// NewDateParser builds a parser dispatching over the given formats.
func NewDateParser(formats []date.Format) *DateParser {
	return &DateParser{dispatcher: date.NewDispatcher(formats)}
}

// SetYearHint supplies the year used by formats that need one (e.g. "DD MMM").
func (p *DateParser) SetYearHint(hint string) { p.yearHint = hint }

// Prime arms the parser to attempt a match on the next Parse call.
func (p *DateParser) Prime() { p.primed = true }

// Primed reports whether the parser is armed.
func (p *DateParser) Primed() bool { return p.primed }

// Ready reports whether a value has been captured.
func (p *DateParser) Ready() bool { return p.ready }

// Reset clears any captured value and un-arms the parser.
func (p *DateParser) Reset() {
	p.primed = false
	p.ready = false
	p.value = 0
	p.item = token.Token{}
}

// Value returns the captured date (UTC millis) and whether one is set.
func (p *DateParser) Value() (int64, bool) { return p.value, p.ready }

// Item returns the bounding item of the captured value.
func (p *DateParser) Item() token.Token { return p.item }

// Parse attempts to consume a date from the front of tokens.
func (p *DateParser) Parse(tokens []token.Token) int {
	if !p.primed || p.ready || len(tokens) == 0 {
		return 0
	}
	n := min(len(tokens), p.dispatcher.MaxTerms())
	terms := texts(tokens[:n])
	v, consumed, ok := p.dispatcher.Parse(terms, p.yearHint)
	if !ok {
		return 0
	}
	p.value = v
	p.ready = true
	p.item = synthItem(strings.Join(terms[:consumed], " "), tokens[:consumed])
	return consumed
}
