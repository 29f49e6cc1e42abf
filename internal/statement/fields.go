package statement

import (
	"github.com/insightdelivered/statement-extractor/internal/config"
	"github.com/insightdelivered/statement-extractor/internal/formats/amount"
	"github.com/insightdelivered/statement-extractor/internal/formats/date"
	"github.com/insightdelivered/statement-extractor/internal/primed"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

// gateFor maps a config alignment string ("", "x1", "y1") plus its
// tolerance onto primed.GateParams' two-axis form, and folds in the
// invert flag.
func gateFor(alignment string, tol int, invert bool) primed.GateParams {
	g := primed.GateParams{Invert: invert}
	switch alignment {
	case "x1":
		g.SameX1 = true
		g.X1Tol = tol
	case "y1":
		g.SameY1 = true
		g.Y1Tol = tol
	}
	return g
}

// FieldParsers are the statement-level (not per-transaction) field
// parsers built from one config: opening/closing balance, start date, and
// account number.
type FieldParsers struct {
	OpeningBalance *primed.Amount
	ClosingBalance *primed.Amount
	StartDate      *primed.Date
	AccountNumber  *primed.Value
}

// NewFieldParsers builds the statement-level field parsers for cfg.
// Returns an error only if primed.NewDate rejects the start-date gate; that
// gate is always built with invert off, since the config carries no
// start-date invert flag.
func NewFieldParsers(cfg *config.Compiled) (*FieldParsers, error) {
	fp := &FieldParsers{
		OpeningBalance: primed.NewAmount(
			cfg.OpeningBalanceTerms,
			amount.ByNames(cfg.OpeningBalanceFormats),
			gateFor(cfg.OpeningBalanceAlignment, cfg.OpeningBalanceAlignmentTol, cfg.OpeningBalanceInvert)),
		ClosingBalance: primed.NewAmount(
			cfg.ClosingBalanceTerms,
			amount.ByNames(cfg.ClosingBalanceFormats),
			gateFor(cfg.ClosingBalanceAlignment, cfg.ClosingBalanceAlignmentTol, cfg.ClosingBalanceInvert)),
	}

	startDate, err := primed.NewDate(
		cfg.StartDateTerms,
		date.ByNames(cfg.StartDateFormats),
		gateFor(cfg.StartDateAlignment, cfg.StartDateAlignmentTol, false))
	if err != nil {
		return nil, err
	}
	fp.StartDate = startDate

	fp.AccountNumber = primed.NewValue(
		cfg.AccountNumberTerms,
		cfg.Config.AccountNumberPatterns,
		cfg.AccountNumberAlignment,
		cfg.AccountNumberAlignmentTol)

	return fp, nil
}

// SetYearHint propagates a year hint (typically resolved after the start
// date itself is known, or from the account examples) to the start-date
// parser.
func (fp *FieldParsers) SetYearHint(hint string) {
	fp.StartDate.SetYearHint(hint)
}

// Step feeds one token window to every not-yet-ready field parser and
// returns the largest count any of them consumed (0 if none matched).
func (fp *FieldParsers) Step(tokens []token.Token) int {
	best := 0
	if n := fp.OpeningBalance.Parse(tokens); n > best {
		best = n
	}
	if n := fp.ClosingBalance.Parse(tokens); n > best {
		best = n
	}
	if n := fp.StartDate.Parse(tokens); n > best {
		best = n
	}
	if n := fp.AccountNumber.Parse(tokens); n > best {
		best = n
	}
	return best
}

// ApplyTo copies every ready field parser's value into sd.
func (fp *FieldParsers) ApplyTo(sd *StatementData) {
	if v, ok := fp.OpeningBalance.Value(); ok {
		sd.OpeningBalance = &v
	}
	if v, ok := fp.ClosingBalance.Value(); ok {
		sd.ClosingBalance = &v
	}
	if v, ok := fp.StartDate.Value(); ok {
		sd.SetStartDate(v)
	}
	if v, ok := fp.AccountNumber.Text(); ok {
		sd.AccountNumber = v
	}
}
