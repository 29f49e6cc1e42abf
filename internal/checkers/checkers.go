// Package checkers validates a fixed-up StatementData and records any
// problems as human-readable messages on StatementData.Errors — the
// orchestrator's success criterion is simply that no checker added one.
package checkers

import (
	"fmt"
	"math"
	"strings"

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

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// CheckFields reports every missing statement-level field — account
// number, opening balance, closing balance — as a single combined
// message, rather than one message per field.
func CheckFields(sd *statement.StatementData) {
	var missing []string
	if sd.AccountNumber == "" {
		missing = append(missing, "account number")
	}
	if sd.OpeningBalance == nil {
		missing = append(missing, "opening balance")
	}
	if sd.ClosingBalance == nil {
		missing = append(missing, "closing balance")
	}
	if len(missing) == 0 {
		return
	}
	sd.AddError(fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
}

// CheckBalances verifies that a running balance, started at
// opening_balance and advanced by each transaction's amount, reconciles
// against every transaction's stated balance and finally against
// closing_balance, rounding to 2dp at every step. If either opening or
// closing balance is missing, it reports a single error and does not
// attempt a partial check. A transaction missing its amount or balance at
// this point is an InvariantViolation: the fixer pipeline is responsible
// for guaranteeing both are set before checkers run.
func CheckBalances(sd *statement.StatementData) error {
	if sd.OpeningBalance == nil || sd.ClosingBalance == nil {
		sd.AddError("Cannot check balances if opening or closing balance is missing")
		return nil
	}

	running := round2(*sd.OpeningBalance)
	for i, tx := range sd.ProtoTransactions {
		if tx.Amount == nil {
			return pipelineerr.NewInvariantViolation(
				fmt.Sprintf("transaction %d has no amount set for CheckBalances", i))
		}
		if tx.Balance == nil {
			return pipelineerr.NewInvariantViolation(
				fmt.Sprintf("transaction %d has no balance set for CheckBalances", i))
		}

		running = round2(running + *tx.Amount)
		stated := round2(*tx.Balance)
		if absFloat(running-stated) > tolerance {
			sd.AddError(fmt.Sprintf(
				"Transaction %d balance mismatch. Calculated: %.2f, Stated: %.2f, Difference: %.2f",
				i+1, running, stated, absFloat(running-stated)))
		}
	}

	closing := round2(*sd.ClosingBalance)
	if absFloat(running-closing) > tolerance {
		sd.AddError(fmt.Sprintf(
			"Final balance mismatch. Calculated: %.2f, Stated: %.2f, Difference: %.2f",
			running, closing, absFloat(running-closing)))
	}
	return nil
}

// Run applies every checker to sd.
func Run(sd *statement.StatementData) error {
	CheckFields(sd)
	return CheckBalances(sd)
}
