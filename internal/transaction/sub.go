package transaction

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-extractor/internal/baseparse"
	"github.com/insightdelivered/statement-extractor/internal/formats/amount"
	"github.com/insightdelivered/statement-extractor/internal/formats/date"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

// DateSub is the date column: a header search that fixes the column's
// x-range once, then a re-primable DateParser gated to that range.
type DateSub struct {
	gate  *columnGate
	value *baseparse.DateParser
}

// NewDateSub builds a date column sub-parser. headers may be empty, in
// which case the column is considered always in range (no header gate).
func NewDateSub(headers []string, xTol int, formats []date.Format) *DateSub {
	s := &DateSub{value: baseparse.NewDateParser(formats)}
	if len(headers) > 0 {
		s.gate = newColumnGate(headers, xTol, false)
	}
	return s
}

func (s *DateSub) SetYearHint(hint string) { s.value.SetYearHint(hint) }

// TryHeader attempts to consume the column header phrase at the front of
// tokens. No-op (returns 0) if this sub has no header or it is already found.
func (s *DateSub) TryHeader(tokens []token.Token) int {
	if s.gate == nil {
		return 0
	}
	return s.gate.tryHeader(tokens)
}

func (s *DateSub) Ready() bool { return s.value.Ready() }

// Prime arms the value parser for the next row's attempt.
func (s *DateSub) Prime() { s.value.Prime() }

// Reset clears any captured value.
func (s *DateSub) Reset() { s.value.Reset() }

// Value returns the captured date and whether the gate (if any) accepted it.
func (s *DateSub) Value() (int64, bool) { return s.value.Value() }

// Parse attempts to consume a date, rejecting (and re-arming) on a
// column-range mismatch.
func (s *DateSub) Parse(tokens []token.Token) int {
	n := s.value.Parse(tokens)
	if n == 0 {
		return 0
	}
	if s.gate != nil && !s.gate.inRange(s.value.Item()) {
		s.value.Reset()
		s.value.Prime()
		return 0
	}
	return n
}

// AmountSub is an amount-shaped column (amount, balance, or the invert
// column): a header search fixing the x-range, a re-primable AmountParser,
// and an optional sign flip applied to every captured value.
type AmountSub struct {
	gate   *columnGate
	value  *baseparse.AmountParser
	invert bool
}

// NewAmountSub builds an amount-shaped column sub-parser.
func NewAmountSub(headers []string, xTol int, formats []amount.Format, invert bool) *AmountSub {
	s := &AmountSub{value: baseparse.NewAmountParser(formats), invert: invert}
	if len(headers) > 0 {
		s.gate = newColumnGate(headers, xTol, false)
	}
	return s
}

func (s *AmountSub) TryHeader(tokens []token.Token) int {
	if s.gate == nil {
		return 0
	}
	return s.gate.tryHeader(tokens)
}

func (s *AmountSub) Ready() bool { return s.value.Ready() }
func (s *AmountSub) Prime()      { s.value.Prime() }
func (s *AmountSub) Reset()      { s.value.Reset() }

func (s *AmountSub) Value() (float64, bool) { return s.value.Value() }

func (s *AmountSub) Parse(tokens []token.Token) int {
	n := s.value.Parse(tokens)
	if n == 0 {
		return 0
	}
	if s.gate != nil && !s.gate.inRange(s.value.Item()) {
		s.value.Reset()
		s.value.Prime()
		return 0
	}
	if s.invert {
		s.value.Invert()
	}
	return n
}

// DescriptionSub accumulates tokens into the description column, one
// token at a time, for as long as new tokens keep falling within the
// column's x-range — unlike the single-capture date/amount/balance subs.
type DescriptionSub struct {
	gate    *columnGate
	exclude []*regexp.Regexp
	text    []string
}

// NewDescriptionSub builds the description column sub-parser.
func NewDescriptionSub(headers []string, xTol int, exclude []*regexp.Regexp) *DescriptionSub {
	s := &DescriptionSub{exclude: exclude}
	if len(headers) > 0 {
		s.gate = newColumnGate(headers, xTol, true)
	}
	return s
}

func (s *DescriptionSub) TryHeader(tokens []token.Token) int {
	if s.gate == nil {
		return 0
	}
	return s.gate.tryHeader(tokens)
}

// Reset clears the accumulated description text.
func (s *DescriptionSub) Reset() { s.text = nil }

// Text returns the accumulated description, tokens joined by a single
// space, with every exclude-pattern match removed and runs of whitespace
// collapsed.
func (s *DescriptionSub) Text() string {
	text := strings.Join(s.text, " ")
	for _, re := range s.exclude {
		text = re.ReplaceAllString(text, "")
	}
	return strings.Join(strings.Fields(text), " ")
}

// Parse consumes exactly one leading token into the description if it
// falls within the column's x-range; otherwise it consumes nothing.
func (s *DescriptionSub) Parse(tokens []token.Token) int {
	if len(tokens) == 0 {
		return 0
	}
	head := tokens[0]
	if s.gate != nil && !s.gate.inRange(head) {
		return 0
	}
	s.text = append(s.text, head.Text)
	return 1
}
