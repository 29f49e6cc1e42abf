package primed

import (
	"github.com/insightdelivered/statement-extractor/internal/baseparse"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

// Value composes a header term primer with a regex ValueParser, gated by
// a single alignment axis instead of the two-axis GateParams used by
// Amount/Date (account numbers and similar single-token fields only ever
// need one alignment check).
type Value struct {
	primer        *baseparse.TermsParser
	patterns      []string
	value         *baseparse.ValueParser
	alignment     string // "", "x1", "x2", "y1", "y2"
	alignmentTol  int
	primed        bool
	ready         bool
	text          string
	item          token.Token
}

// NewValue builds a primed regex-value field parser.
func NewValue(primerTerms []string, patterns []string, alignment string, alignmentTol int) *Value {
	return &Value{
		primer:       baseparse.NewTermsParser(primerTerms),
		patterns:     patterns,
		value:        baseparse.NewValueParser(patterns),
		alignment:    alignment,
		alignmentTol: alignmentTol,
	}
}

// Ready reports whether a value has been captured.
func (v *Value) Ready() bool { return v.ready }

// Text returns the captured matched text.
func (v *Value) Text() (string, bool) { return v.text, v.ready }

// Reset clears both the primer and value state.
func (v *Value) Reset() {
	v.primer.Reset()
	v.primed = false
	v.ready = false
	v.text = ""
	v.item = token.Token{}
}

func axisValue(t token.Token, axis string) int {
	switch axis {
	case "x1":
		return t.X1
	case "x2":
		return t.X2
	case "y1":
		return t.Y1
	case "y2":
		return t.Y2
	default:
		return 0
	}
}

// Parse implements the same primed-field step contract as Amount.Parse,
// using a single-axis alignment check in place of GateParams.
func (v *Value) Parse(tokens []token.Token) int {
	if v.ready {
		return 0
	}
	if n := v.primer.Parse(tokens); n > 0 {
		v.primed = true
		return n
	}
	if !v.primed {
		return 0
	}
	text, n := v.value.Parse(tokens)
	if n == 0 {
		return 0
	}
	item := synthItem(text, tokens[:n])
	if item.Page != v.primer.Item().Page {
		return 0
	}
	if v.alignment != "" {
		if abs(axisValue(item, v.alignment)-axisValue(v.primer.Item(), v.alignment)) > v.alignmentTol {
			return 0
		}
	}
	v.ready = true
	v.text = text
	v.item = item
	return n
}

func synthItem(text string, tokens []token.Token) token.Token {
	first, last := tokens[0], tokens[len(tokens)-1]
	return token.Token{Text: text, X1: first.X1, Y1: first.Y2, X2: last.X2, Y2: last.Y1, Page: first.Page}
}
