package transaction

import (
	"testing"

	"github.com/insightdelivered/statement-extractor/internal/config"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

func tk(text string, x1, y1, x2, y2 int) token.Token {
	return token.Token{Text: text, X1: x1, Y1: y1, X2: x2, Y2: y2, Page: 1}
}

func testConfig() *config.Compiled {
	raw := config.Config{
		Key:                  "gb__test__current__1",
		TransactionTerms:     []string{"Date Description Amount Balance"},
		TransactionNewLineTol: 2,
		TransactionAlignmentTol: 50,
		TransactionFormats: [][]config.TransactionField{
			{config.FieldDate, config.FieldDescription, config.FieldAmount, config.FieldBalance},
		},
		TransactionDateFormats:    []string{"YYYY-MM-DD"},
		TransactionAmountFormats:  []string{"F1"},
		TransactionBalanceFormats: []string{"F1"},
	}
	registry, err := config.NewRegistry([]config.Config{raw})
	if err != nil {
		panic(err)
	}
	cc, _ := registry.Get(raw.Key)
	return cc
}

func TestMachineExtractsSingleRow(t *testing.T) {
	cfg := testConfig()
	m := New(cfg, "2024")

	tokens := []token.Token{
		tk("Date", 0, 100, 10, 110),
		tk("Description", 20, 100, 40, 110),
		tk("Amount", 60, 100, 80, 110),
		tk("Balance", 100, 100, 120, 110),

		tk("2024-03-01", 0, 80, 15, 90),
		tk("Coffee", 20, 80, 40, 90),
		tk("Shop", 41, 80, 55, 90),
		tk("10.00", 60, 80, 80, 90),
		tk("90.00", 100, 80, 120, 90),
	}

	rows := m.Run(tokens)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d: %+v", len(rows), rows)
	}
	row := rows[0]
	if row.Amount == nil || *row.Amount != 10.00 {
		t.Fatalf("expected amount 10.00, got %+v", row.Amount)
	}
	if row.Balance == nil || *row.Balance != 90.00 {
		t.Fatalf("expected balance 90.00, got %+v", row.Balance)
	}
	if row.Date == nil {
		t.Fatalf("expected date set")
	}
}

func TestComputeDerivedCompulsoryAcrossShapes(t *testing.T) {
	formats := [][]config.TransactionField{
		{config.FieldDate, config.FieldDescription, config.FieldAmount, config.FieldBalance},
		{config.FieldDescription, config.FieldAmount, config.FieldBalance},
	}
	newLine, endLine, all, compulsory := computeDerived(formats)
	if !newLine[config.FieldDate] || !newLine[config.FieldDescription] {
		t.Fatalf("expected both shapes' first fields in newLine, got %v", newLine)
	}
	if !endLine[config.FieldBalance] {
		t.Fatalf("expected balance in endLine, got %v", endLine)
	}
	if compulsory[config.FieldDate] {
		t.Fatalf("date isn't in every shape, shouldn't be compulsory: %v", compulsory)
	}
	if !compulsory[config.FieldAmount] || !compulsory[config.FieldBalance] || !compulsory[config.FieldDescription] {
		t.Fatalf("expected amount/balance/description compulsory, got %v", compulsory)
	}
	if !all[config.FieldDate] {
		t.Fatalf("expected date present in all-fields alphabet, got %v", all)
	}
}
