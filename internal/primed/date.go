package primed

import (
	"github.com/insightdelivered/statement-extractor/internal/baseparse"
	"github.com/insightdelivered/statement-extractor/internal/formats/date"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

// Date composes a header term primer with a DateParser under geometric
// gating. Unlike Amount, Date never supports Invert — see
// ErrDateInvertUnsupported.
type Date struct {
	primer *baseparse.TermsParser
	value  *baseparse.DateParser
	gate   GateParams
}

// NewDate builds a primed date field parser. Returns
// ErrDateInvertUnsupported if gate.Invert is set.
func NewDate(primerTerms []string, formats []date.Format, gate GateParams) (*Date, error) {
	if gate.Invert {
		return nil, ErrDateInvertUnsupported
	}
	return &Date{
		primer: baseparse.NewTermsParser(primerTerms),
		value:  baseparse.NewDateParser(formats),
		gate:   gate,
	}, nil
}

// SetYearHint supplies the year used by formats that need one.
func (d *Date) SetYearHint(hint string) { d.value.SetYearHint(hint) }

// Ready reports whether a value has been captured.
func (d *Date) Ready() bool { return d.value.Ready() }

// Value returns the captured date (UTC millis).
func (d *Date) Value() (int64, bool) { return d.value.Value() }

// Reset clears both the primer and value state.
func (d *Date) Reset() {
	d.primer.Reset()
	d.value.Reset()
}

// Parse implements the same primed-field step contract as Amount.Parse.
func (d *Date) Parse(tokens []token.Token) int {
	if d.Ready() {
		return 0
	}
	if n := d.primer.Parse(tokens); n > 0 {
		d.value.Prime()
		return n
	}
	if !d.primer.Primed() {
		return 0
	}
	n := d.value.Parse(tokens)
	if n == 0 {
		return 0
	}
	if !passesGate(d.gate, d.primer.Item(), d.value.Item()) {
		d.value.Reset()
		d.value.Prime()
		return 0
	}
	return n
}
