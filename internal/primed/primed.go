// Package primed composes a header/label primer with a value extractor
// under geometric constraints, giving the statement- and transaction-level
// field parsers (opening balance, start date, per-row amount, …) a single
// gated matching contract.
package primed

import (
	"github.com/insightdelivered/statement-extractor/internal/pipelineerr"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

// GateParams are the geometric constraints a captured value must satisfy
// relative to its primer's position before it is accepted.
type GateParams struct {
	SameX1 bool
	X1Tol  int
	SameY1 bool
	Y1Tol  int
	Invert bool
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func passesGate(gate GateParams, primerItem, valueItem token.Token) bool {
	if valueItem.Page != primerItem.Page {
		return false
	}
	if gate.SameX1 && abs(valueItem.X1-primerItem.X1) > gate.X1Tol {
		return false
	}
	if gate.SameY1 && abs(valueItem.Y1-primerItem.Y1) > gate.Y1Tol {
		return false
	}
	return true
}

// ErrDateInvertUnsupported is returned when a PrimedDate is configured
// with Invert=true: negative epoch milliseconds have no meaning in this
// domain, so that configuration is rejected rather than silently applied.
var ErrDateInvertUnsupported = pipelineerr.NewConfigStateViolation("PrimedDate does not support invert=true")
