// Package statement holds the mutable records the transaction state
// machine, fixers, and checkers build up and validate: ProtoTransaction
// and its container, StatementData.
package statement

import "time"

// ProtoTransaction is a single row of the transaction table as it is
// built up by the transaction state machine, then repaired by fixers.
type ProtoTransaction struct {
	Date        *int64 // UTC millis
	Index       uint
	Description string
	Amount      *float64
	Balance     *float64
}

// Ready reports whether every field required downstream is set.
func (p *ProtoTransaction) Ready() bool {
	return p.Date != nil && p.Amount != nil && p.Balance != nil && p.Description != ""
}

// Clone returns a value copy with independently-owned pointer fields.
func (p *ProtoTransaction) Clone() ProtoTransaction {
	cp := *p
	if p.Date != nil {
		d := *p.Date
		cp.Date = &d
	}
	if p.Amount != nil {
		a := *p.Amount
		cp.Amount = &a
	}
	if p.Balance != nil {
		b := *p.Balance
		cp.Balance = &b
	}
	return cp
}

// StatementData is the mutable container produced by one (config, token
// store) attempt: statement-level fields plus the transaction rows and
// any checker error messages.
type StatementData struct {
	Key                string
	AccountNumber      string
	OpeningBalance     *float64
	ClosingBalance     *float64
	StartDate          *int64
	StartDateYear      *int
	ProtoTransactions  []ProtoTransaction
	Errors             []string
}

// SetStartDate sets the start date and derives StartDateYear from it
// (invariant I2).
func (s *StatementData) SetStartDate(millis int64) {
	s.StartDate = &millis
	y := time.UnixMilli(millis).UTC().Year()
	s.StartDateYear = &y
}

// AddError appends a checker message.
func (s *StatementData) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}

// OK reports whether this attempt produced no checker errors — the
// orchestrator's success criterion.
func (s *StatementData) OK() bool {
	return len(s.Errors) == 0
}
