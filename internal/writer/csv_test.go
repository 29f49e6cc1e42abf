package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/insightdelivered/statement-extractor/internal/statement"
)

func float64ptr(f float64) *float64 { return &f }
func int64ptr(n int64) *int64       { return &n }

func TestCSVWriter_Write(t *testing.T) {
	sd := &statement.StatementData{
		Key:            "gb__metro__personal__1",
		AccountNumber:  "12345678",
		OpeningBalance: float64ptr(1000.00),
		ClosingBalance: float64ptr(3734.56),
		StartDate:      int64ptr(1704067200000), // 2024-01-01
		ProtoTransactions: []statement.ProtoTransaction{
			{Date: int64ptr(1705276800000), Description: "CARD PAYMENT TESCO", Amount: float64ptr(25.99), Balance: float64ptr(1234.56)},
			{Date: int64ptr(1705363200000), Description: "SALARY", Amount: float64ptr(-2500.00), Balance: float64ptr(3734.56)},
		},
	}

	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, sd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "# Config") {
		t.Error("expected config metadata header")
	}
	if !strings.Contains(output, "# Account Number") {
		t.Error("expected account number metadata")
	}

	if !strings.Contains(output, "Date,Description,Type,Amount,Balance") {
		t.Error("expected column headers")
	}

	if !strings.Contains(output, "2024-01-15") {
		t.Error("expected first transaction date")
	}
	if !strings.Contains(output, "CARD PAYMENT TESCO") {
		t.Error("expected first transaction description")
	}
	if !strings.Contains(output, "25.99") {
		t.Error("expected first transaction amount")
	}
	if !strings.Contains(output, "CREDIT") {
		t.Error("expected the negated salary row to read CREDIT")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// 5 metadata lines + 1 header + 2 transactions = 8
	if len(lines) != 8 {
		t.Errorf("expected 8 lines, got %d", len(lines))
	}
}

func TestCSVWriter_WriteNoHeader(t *testing.T) {
	sd := &statement.StatementData{
		ProtoTransactions: []statement.ProtoTransaction{
			{Date: int64ptr(1705276800000), Description: "PAYMENT", Amount: float64ptr(10.00), Balance: float64ptr(0)},
		},
	}

	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: false}
	if err := w.Write(&buf, sd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if strings.Contains(output, "# Config") {
		t.Error("should not have config metadata when header=false")
	}

	if !strings.Contains(output, "Date,Description,Type,Amount,Balance") {
		t.Error("expected column headers even without metadata")
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{25.99, "25.99"},
		{1234.56, "1234.56"},
		{0, ""},
		{2500.00, "2500.00"},
	}

	for _, tt := range tests {
		got := formatAmount(tt.input)
		if got != tt.expected {
			t.Errorf("formatAmount(%f): got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTransactionType(t *testing.T) {
	debit := 25.99
	credit := -25.99
	if got := transactionType(&debit); got != "DEBIT" {
		t.Errorf("expected DEBIT for positive amount, got %q", got)
	}
	if got := transactionType(&credit); got != "CREDIT" {
		t.Errorf("expected CREDIT for negative amount, got %q", got)
	}
	if got := transactionType(nil); got != "" {
		t.Errorf("expected empty string for nil amount, got %q", got)
	}
}
