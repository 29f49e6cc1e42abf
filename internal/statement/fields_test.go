package statement

import (
	"testing"

	"github.com/insightdelivered/statement-extractor/internal/config"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

func tok(text string, x1, y1, x2, y2 int) token.Token {
	return token.Token{Text: text, X1: x1, Y1: y1, X2: x2, Y2: y2, Page: 1}
}

func TestFieldParsersCaptureOpeningBalance(t *testing.T) {
	cfg := &config.Compiled{Config: config.Config{
		Key:                 "gb__test__current__1",
		OpeningBalanceTerms: []string{"Opening Balance"},
		OpeningBalanceFormats: []string{"F1"},
		OpeningBalanceAlignment: "y1",
		OpeningBalanceAlignmentTol: 5,
	}}
	fp, err := NewFieldParsers(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokens := []token.Token{
		tok("Opening", 0, 100, 20, 110),
		tok("Balance", 21, 100, 45, 110),
		tok("1,234.56", 50, 100, 80, 110),
	}
	pos := 0
	for pos < len(tokens) {
		n := fp.Step(tokens[pos:])
		if n == 0 {
			pos++
			continue
		}
		pos += n
	}

	sd := &StatementData{}
	fp.ApplyTo(sd)
	if sd.OpeningBalance == nil || *sd.OpeningBalance != 1234.56 {
		t.Fatalf("expected opening balance 1234.56, got %v", sd.OpeningBalance)
	}
}
