package checkers

import (
	"testing"

	"github.com/insightdelivered/statement-extractor/internal/pipelineerr"
	"github.com/insightdelivered/statement-extractor/internal/statement"
)

func f(v float64) *float64 { return &v }

func TestCheckFieldsAllMissing(t *testing.T) {
	sd := &statement.StatementData{}
	CheckFields(sd)
	if len(sd.Errors) != 1 {
		t.Fatalf("expected exactly one combined error, got %v", sd.Errors)
	}
	want := "Missing required fields: account number, opening balance, closing balance"
	if sd.Errors[0] != want {
		t.Fatalf("expected %q, got %q", want, sd.Errors[0])
	}
}

func TestCheckFieldsMissingOpeningBalance(t *testing.T) {
	sd := &statement.StatementData{ClosingBalance: f(1000)}
	CheckFields(sd)
	if len(sd.Errors) != 1 {
		t.Fatalf("expected one error, got %v", sd.Errors)
	}
	want := "Missing required fields: account number, opening balance"
	if sd.Errors[0] != want {
		t.Fatalf("expected %q, got %q", want, sd.Errors[0])
	}
}

func TestCheckFieldsAllPresent(t *testing.T) {
	sd := &statement.StatementData{
		AccountNumber:  "1234 5678 9012",
		OpeningBalance: f(1000),
		ClosingBalance: f(900),
	}
	CheckFields(sd)
	if len(sd.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", sd.Errors)
	}
}

func TestCheckFieldsDoesNotCareAboutTransactions(t *testing.T) {
	// Transaction-level completeness is not this checker's concern — only
	// the statement-level fields are.
	sd := &statement.StatementData{
		AccountNumber:  "1234",
		OpeningBalance: f(100),
		ClosingBalance: f(100),
		ProtoTransactions: []statement.ProtoTransaction{
			{Amount: f(1)}, // missing date/balance/description
		},
	}
	CheckFields(sd)
	if len(sd.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", sd.Errors)
	}
}

func TestCheckBalancesMissingOpeningBalance(t *testing.T) {
	sd := &statement.StatementData{ClosingBalance: f(1000)}
	if err := CheckBalances(sd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sd.Errors) != 1 || sd.Errors[0] != "Cannot check balances if opening or closing balance is missing" {
		t.Fatalf("expected short-circuit error, got %v", sd.Errors)
	}
}

func TestCheckBalancesMissingClosingBalance(t *testing.T) {
	sd := &statement.StatementData{OpeningBalance: f(1000)}
	if err := CheckBalances(sd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sd.Errors) != 1 || sd.Errors[0] != "Cannot check balances if opening or closing balance is missing" {
		t.Fatalf("expected short-circuit error, got %v", sd.Errors)
	}
}

func TestCheckBalancesFatalOnMissingAmount(t *testing.T) {
	sd := &statement.StatementData{
		OpeningBalance: f(1000),
		ClosingBalance: f(900),
		ProtoTransactions: []statement.ProtoTransaction{
			{Balance: f(900)}, // no amount
		},
	}
	err := CheckBalances(sd)
	if err == nil {
		t.Fatalf("expected InvariantViolation, got nil")
	}
	if _, ok := err.(*pipelineerr.InvariantViolation); !ok {
		t.Fatalf("expected *pipelineerr.InvariantViolation, got %T", err)
	}
}

func TestCheckBalancesFatalOnMissingBalance(t *testing.T) {
	sd := &statement.StatementData{
		OpeningBalance: f(1000),
		ClosingBalance: f(900),
		ProtoTransactions: []statement.ProtoTransaction{
			{Amount: f(-100)}, // no balance
		},
	}
	err := CheckBalances(sd)
	if err == nil {
		t.Fatalf("expected InvariantViolation, got nil")
	}
	if _, ok := err.(*pipelineerr.InvariantViolation); !ok {
		t.Fatalf("expected *pipelineerr.InvariantViolation, got %T", err)
	}
}

func TestCheckBalancesNoTransactionsBalanced(t *testing.T) {
	sd := &statement.StatementData{OpeningBalance: f(1000), ClosingBalance: f(1000)}
	if err := CheckBalances(sd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sd.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", sd.Errors)
	}
}

func TestCheckBalancesSingleTransactionMismatch(t *testing.T) {
	sd := &statement.StatementData{
		OpeningBalance: f(1000),
		ClosingBalance: f(900),
		ProtoTransactions: []statement.ProtoTransaction{
			{Amount: f(-100), Balance: f(850)}, // should be 900
		},
	}
	if err := CheckBalances(sd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sd.Errors) != 1 {
		t.Fatalf("expected one mismatch error, got %v", sd.Errors)
	}
	want := "Transaction 1 balance mismatch. Calculated: 900.00, Stated: 850.00, Difference: 50.00"
	if sd.Errors[0] != want {
		t.Fatalf("expected %q, got %q", want, sd.Errors[0])
	}
}

func TestCheckBalancesFinalBalanceMismatchOnly(t *testing.T) {
	sd := &statement.StatementData{
		OpeningBalance: f(1000),
		ClosingBalance: f(800),
		ProtoTransactions: []statement.ProtoTransaction{
			{Amount: f(-100), Balance: f(900)},
		},
	}
	if err := CheckBalances(sd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sd.Errors) != 1 {
		t.Fatalf("expected one final-balance error, got %v", sd.Errors)
	}
	want := "Final balance mismatch. Calculated: 900.00, Stated: 800.00, Difference: 100.00"
	if sd.Errors[0] != want {
		t.Fatalf("expected %q, got %q", want, sd.Errors[0])
	}
}

func TestCheckBalancesRoundingConsistency(t *testing.T) {
	sd := &statement.StatementData{
		OpeningBalance: f(100),
		ClosingBalance: f(99.67),
		ProtoTransactions: []statement.ProtoTransaction{
			{Amount: f(-0.33), Balance: f(99.67)},
		},
	}
	if err := CheckBalances(sd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sd.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", sd.Errors)
	}
}

func TestCheckBalancesFloatingPointPrecision(t *testing.T) {
	sd := &statement.StatementData{
		OpeningBalance: f(1000),
		ClosingBalance: f(999.90),
		ProtoTransactions: []statement.ProtoTransaction{
			{Amount: f(-0.1), Balance: f(999.899999)},
		},
	}
	if err := CheckBalances(sd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sd.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", sd.Errors)
	}
}

func TestCheckBalancesMultipleTransactionsBalanced(t *testing.T) {
	sd := &statement.StatementData{
		OpeningBalance: f(1000),
		ClosingBalance: f(925),
		ProtoTransactions: []statement.ProtoTransaction{
			{Amount: f(-50), Balance: f(950)},
			{Amount: f(100), Balance: f(1050)},
			{Amount: f(-125), Balance: f(925)},
		},
	}
	if err := CheckBalances(sd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sd.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", sd.Errors)
	}
}
