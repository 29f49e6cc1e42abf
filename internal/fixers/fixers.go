// Package fixers repairs the raw transaction rows a Machine produces: banks
// print dates, balances, and signs inconsistently (a date shown once for a
// run of same-day transactions, balances only every few rows, amounts whose
// sign must be inferred from the balance delta), and the 8-step pipeline
// here recovers what a human reader would infer from context.
package fixers

import (
	"fmt"
	"sort"
	"time"

	"github.com/insightdelivered/statement-extractor/internal/pipelineerr"
	"github.com/insightdelivered/statement-extractor/internal/statement"
)

const tolerance = 0.01

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func closeEnough(a, b float64) bool {
	return absFloat(a-b) < tolerance
}

// Run applies all 8 fixers in order to sd, mutating it in place. It
// returns an InvariantViolation if a fixer encounters data that violates
// a precondition it assumes the earlier steps have already established
// (a transaction with no date at the ordering or indexing steps).
func Run(sd *statement.StatementData) error {
	fillImplicitDates(sd)
	fixYearCrossover(sd)
	if err := fixTransactionOrder(sd); err != nil {
		return err
	}
	fixOpeningBalance(sd)
	fixAmountSigns(sd)
	fillImplicitBalances(sd)
	if err := setIndices(sd); err != nil {
		return err
	}
	fixClosingBalanceSign(sd)
	return nil
}

// fillImplicitDates seeds a running date from the statement's start date
// and carries it forward onto any transaction missing one — statements
// commonly print a date once for a run of same-day rows, and the very
// first rows may carry no date at all, relying on start_date instead. A
// no-op if start_date was never captured.
func fillImplicitDates(sd *statement.StatementData) {
	if sd.StartDate == nil {
		return
	}
	date := *sd.StartDate
	for i := range sd.ProtoTransactions {
		tx := &sd.ProtoTransactions[i]
		if tx.Date == nil {
			d := date
			tx.Date = &d
			continue
		}
		date = *tx.Date
	}
}

// fixYearCrossover moves every transaction dated before the statement's
// start date into the year after the start date's year, keeping its
// month, day, and time of day. The move is always forward (start year + 1),
// never backward. A no-op if start_date was never captured.
func fixYearCrossover(sd *statement.StatementData) {
	if sd.StartDate == nil {
		return
	}
	year := time.UnixMilli(*sd.StartDate).UTC().Year()
	for i := range sd.ProtoTransactions {
		tx := &sd.ProtoTransactions[i]
		if tx.Date == nil || *tx.Date >= *sd.StartDate {
			continue
		}
		t := time.UnixMilli(*tx.Date).UTC()
		adjusted := time.Date(year+1, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
		millis := adjusted.UnixMilli()
		tx.Date = &millis
	}
}

// fixTransactionOrder sorts rows by date when no row carries a balance —
// once any balance is present the print order already reflects the bank's
// ledger order and must not be disturbed. Every transaction must have a
// date by this step; one that doesn't is an upstream bug, not recoverable
// input data, since fillImplicitDates/fixYearCrossover have already run.
func fixTransactionOrder(sd *statement.StatementData) error {
	hasBalance := false
	for i, tx := range sd.ProtoTransactions {
		if tx.Date == nil {
			return pipelineerr.NewInvariantViolation(
				fmt.Sprintf("transaction %d has no date at the transaction-order step", i))
		}
		if tx.Balance != nil {
			hasBalance = true
		}
	}
	if hasBalance {
		return nil
	}
	sort.SliceStable(sd.ProtoTransactions, func(i, j int) bool {
		return *sd.ProtoTransactions[i].Date < *sd.ProtoTransactions[j].Date
	})
	return nil
}

// fixOpeningBalance checks the declared opening balance against the first
// transaction's stated amount/balance; if it only reconciles once negated,
// the opening balance's sign is corrected, and otherwise, if it reconciles
// once the first amount is negated, that amount's sign is corrected.
func fixOpeningBalance(sd *statement.StatementData) {
	if sd.OpeningBalance == nil || len(sd.ProtoTransactions) == 0 {
		return
	}
	first := sd.ProtoTransactions[0]
	if first.Amount == nil || first.Balance == nil {
		return
	}
	if closeEnough(*sd.OpeningBalance+*first.Amount, *first.Balance) {
		return
	}
	negated := -*sd.OpeningBalance
	if closeEnough(negated+*first.Amount, *first.Balance) {
		sd.OpeningBalance = &negated
		return
	}
	if closeEnough(*sd.OpeningBalance-*first.Amount, *first.Balance) {
		negatedAmount := -*first.Amount
		sd.ProtoTransactions[0].Amount = &negatedAmount
	}
}

// fixAmountSigns corrects an amount's sign when the balance delta matches
// the negated amount within tolerance, and more closely than the amount
// as given, then anchors the
// running balance to the row's STATED value (not the computed running
// total) so sign errors never compound across rows.
func fixAmountSigns(sd *statement.StatementData) {
	running := sd.OpeningBalance
	for i := range sd.ProtoTransactions {
		tx := &sd.ProtoTransactions[i]
		if tx.Amount != nil && running != nil && tx.Balance != nil {
			diff := *tx.Balance - *running
			if absFloat(diff+*tx.Amount) < tolerance && absFloat(diff+*tx.Amount) < absFloat(diff-*tx.Amount) {
				negated := -*tx.Amount
				tx.Amount = &negated
			}
		}
		switch {
		case tx.Balance != nil:
			b := *tx.Balance
			running = &b
		case running != nil && tx.Amount != nil:
			nb := *running + *tx.Amount
			running = &nb
		}
	}
}

// fillImplicitBalances fills any missing balance by running the opening
// balance (or nearest prior stated balance) forward through the amounts.
func fillImplicitBalances(sd *statement.StatementData) {
	running := sd.OpeningBalance
	for i := range sd.ProtoTransactions {
		tx := &sd.ProtoTransactions[i]
		if tx.Balance != nil {
			b := *tx.Balance
			running = &b
			continue
		}
		if running != nil && tx.Amount != nil {
			nb := *running + *tx.Amount
			tx.Balance = &nb
			running = &nb
		}
	}
}

// setIndices numbers transactions from 0, restarting the count at the
// start of every run of same-date transactions. Dates must be
// non-decreasing by this step — fixTransactionOrder already sorted or
// verified them — so any decrease or missing date here is an upstream bug.
func setIndices(sd *statement.StatementData) error {
	var lastDate *int64
	var idx uint
	for i := range sd.ProtoTransactions {
		tx := &sd.ProtoTransactions[i]
		if tx.Date == nil {
			return pipelineerr.NewInvariantViolation(
				fmt.Sprintf("transaction %d has no date at the indexing step", i))
		}
		if lastDate != nil && *tx.Date < *lastDate {
			return pipelineerr.NewInvariantViolation(
				fmt.Sprintf("transaction %d date is out of order at the indexing step (dates must be non-decreasing)", i))
		}
		if lastDate == nil || *tx.Date != *lastDate {
			idx = 0
			d := *tx.Date
			lastDate = &d
		}
		tx.Index = idx
		idx++
	}
	return nil
}

// fixClosingBalanceSign sums the opening balance and every transaction
// amount, and corrects the declared closing balance's sign when it matches
// the negated sum within tolerance, and more closely than the sum itself.
// A no-op unless both opening and closing balances were captured.
func fixClosingBalanceSign(sd *statement.StatementData) {
	if sd.ClosingBalance == nil || sd.OpeningBalance == nil {
		return
	}
	sum := *sd.OpeningBalance
	for _, tx := range sd.ProtoTransactions {
		if tx.Amount != nil {
			sum += *tx.Amount
		}
	}
	closing := *sd.ClosingBalance
	if absFloat(-sum-closing) < tolerance && absFloat(-sum-closing) < absFloat(sum-closing) {
		negated := -closing
		sd.ClosingBalance = &negated
	}
}
