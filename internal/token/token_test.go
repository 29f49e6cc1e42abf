package token

import "testing"

func TestStoreAppendSplitsOnWhitespace(t *testing.T) {
	s := NewStore()
	s.Append("Date Description Amount", 0, 100, 90, 110, 1)
	if s.Len() != 3 {
		t.Fatalf("expected 3 tokens, got %d", s.Len())
	}
	for _, tok := range s.All() {
		if len(tok.Text) == 0 {
			t.Fatalf("unexpected empty token text")
		}
	}
}

func TestLayoutTextRoundTrip(t *testing.T) {
	s := NewStore()
	s.AppendToken(Token{Text: "15/01/2024", X1: 10, Y1: 700, X2: 60, Y2: 712, Page: 1})
	s.AppendToken(Token{Text: "Coffee", X1: 70, Y1: 700, X2: 110, Y2: 712, Page: 1})
	s.AppendToken(Token{Text: "-3.50", X1: 400, Y1: 700, X2: 430, Y2: 712, Page: 1})
	s.AppendToken(Token{Text: "Rent", X1: 70, Y1: 680, X2: 100, Y2: 692, Page: 1})

	text := s.ToLayoutText()
	parsed, err := FromLayoutText(text)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if parsed.Len() != s.Len() {
		t.Fatalf("round trip token count mismatch: got %d want %d", parsed.Len(), s.Len())
	}
	if parsed.ToLayoutText() != text {
		t.Fatalf("round trip not byte-exact:\n%q\nvs\n%q", parsed.ToLayoutText(), text)
	}
}

func TestLayoutTextQuoteAwareParsing(t *testing.T) {
	line := `[Page 1]` + "\n" + `["pay][ment",0,40,10,20]`
	parsed, err := FromLayoutText(line)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if parsed.Len() != 1 {
		t.Fatalf("expected 1 token (text has no internal whitespace), got %d", parsed.Len())
	}
	if parsed.At(0).Text != "pay][ment" {
		t.Fatalf("expected literal ][ preserved in text, got %q", parsed.At(0).Text)
	}
}

func TestCommonLineHeight(t *testing.T) {
	s := NewStore()
	s.AppendToken(Token{Text: "a", X1: 0, Y1: 0, X2: 10, Y2: 12, Page: 1})
	s.AppendToken(Token{Text: "b", X1: 0, Y1: 20, X2: 10, Y2: 32, Page: 1})
	s.AppendToken(Token{Text: "c", X1: 0, Y1: 40, X2: 10, Y2: 55, Page: 1})
	if got := s.CommonLineHeight(); got != 12 {
		t.Fatalf("expected common line height 12, got %d", got)
	}
}

func TestSortMergesCloseInX(t *testing.T) {
	s := NewStore()
	s.AppendToken(Token{Text: "Hel", X1: 0, Y1: 0, X2: 15, Y2: 10, Page: 1})
	s.AppendToken(Token{Text: "lo", X1: 15, Y1: 0, X2: 25, Y2: 10, Page: 1})
	s.Sort(2.0, 5)
	if s.Len() != 1 {
		t.Fatalf("expected tokens to merge into 1, got %d", s.Len())
	}
	if s.At(0).Text != "Hel lo" {
		t.Fatalf("unexpected merged text %q", s.At(0).Text)
	}
}

func TestFixYDisorderGroupsWithinTolerance(t *testing.T) {
	s := NewStore()
	s.AppendToken(Token{Text: "a", X1: 0, Y1: 100, X2: 10, Y2: 112, Page: 1})
	s.AppendToken(Token{Text: "b", X1: 20, Y1: 101, X2: 30, Y2: 113, Page: 1})
	s.AppendToken(Token{Text: "c", X1: 0, Y1: 80, X2: 10, Y2: 92, Page: 1})
	s.FixYDisorder()
	all := s.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 tokens preserved, got %d", len(all))
	}
}

func TestYPatchSnapsToLineGrid(t *testing.T) {
	s := NewStore()
	s.AppendToken(Token{Text: "a", X1: 0, Y1: 101, X2: 10, Y2: 113, Page: 1})
	s.AppendToken(Token{Text: "b", X1: 20, Y1: 99, X2: 30, Y2: 111, Page: 1})
	s.YPatch(12)
	all := s.All()
	if all[0].Y1 != 96 || all[1].Y1 != 96 {
		t.Fatalf("expected both tokens snapped to the same grid line, got %+v", all)
	}
	if all[0].Height() != 12 || all[1].Height() != 12 {
		t.Fatalf("expected heights preserved, got %+v", all)
	}
}
