package primed

import (
	"github.com/insightdelivered/statement-extractor/internal/baseparse"
	"github.com/insightdelivered/statement-extractor/internal/formats/amount"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

// Amount composes a header term primer with an AmountParser under
// geometric gating.
type Amount struct {
	primer *baseparse.TermsParser
	value  *baseparse.AmountParser
	gate   GateParams
}

// NewAmount builds a primed amount field parser.
func NewAmount(primerTerms []string, formats []amount.Format, gate GateParams) *Amount {
	return &Amount{
		primer: baseparse.NewTermsParser(primerTerms),
		value:  baseparse.NewAmountParser(formats),
		gate:   gate,
	}
}

// Ready reports whether a value has been captured.
func (a *Amount) Ready() bool { return a.value.Ready() }

// Value returns the captured amount.
func (a *Amount) Value() (float64, bool) { return a.value.Value() }

// Reset clears both the primer and value state.
func (a *Amount) Reset() {
	a.primer.Reset()
	a.value.Reset()
}

// Parse implements the primed-field step contract: return 0 immediately if
// a value is already captured; try the primer and, if it consumes, return
// without attempting the value on the same slice; otherwise, if primed,
// attempt the value and gate it geometrically against the primer's
// position, resetting the value parser on gate failure.
func (a *Amount) Parse(tokens []token.Token) int {
	if a.Ready() {
		return 0
	}
	if n := a.primer.Parse(tokens); n > 0 {
		a.value.Prime()
		return n
	}
	if !a.primer.Primed() {
		return 0
	}
	n := a.value.Parse(tokens)
	if n == 0 {
		return 0
	}
	if !passesGate(a.gate, a.primer.Item(), a.value.Item()) {
		a.value.Reset()
		a.value.Prime()
		return 0
	}
	if a.gate.Invert {
		a.value.Invert()
	}
	return n
}
