package pdfextract

import (
	"bytes"
	"strconv"

	"github.com/insightdelivered/statement-extractor/internal/token"
)

// matrix is a standard PDF 2x3 affine transform [a b c d e f], mapping
// (x,y) -> (a*x+c*y+e, b*x+d*y+f).
type matrix [6]float64

func identityMatrix() matrix { return matrix{1, 0, 0, 1, 0, 0} }

// mul computes m applied after n (n then m, PDF's left-to-right CTM order:
// result = n * m when n is the existing matrix and m is the new one being
// concatenated on top of it).
func (n matrix) mul(m matrix) matrix {
	return matrix{
		n[0]*m[0] + n[1]*m[2],
		n[0]*m[1] + n[1]*m[3],
		n[2]*m[0] + n[3]*m[2],
		n[2]*m[1] + n[3]*m[3],
		n[4]*m[0] + n[5]*m[2] + m[4],
		n[4]*m[1] + n[5]*m[3] + m[5],
	}
}

func translation(tx, ty float64) matrix { return matrix{1, 0, 0, 1, tx, ty} }

// textState is the interpreter's running text state, per §4.1.
type textState struct {
	tm, tlm       matrix
	leading       float64
	fontSize      float64
	hscale        float64
	charSpacing   float64
	wordSpacing   float64
	fontName      string
}

func newTextState() textState {
	return textState{tm: identityMatrix(), tlm: identityMatrix(), hscale: 1.0}
}

// resourceFonts maps a page's font resource names (as used by Tf) to their
// metrics, resolved by whichever substrate located the page's Resources.
type resourceFonts map[string]fontMetrics

// interpretContentStream walks one page's decoded content stream bytes and
// emits one token.Token per Tj/TJ show operation, per §4.1. cm, if
// non-nil, is consulted before the raw-byte decode precedence. Malformed
// operators are skipped; the function never returns an error since a
// malformed page is simply skipped by the caller.
func interpretContentStream(data []byte, fonts resourceFonts, cm *cmap, page int) []token.Token {
	var out []token.Token
	st := newTextState()
	sc := newCSScanner(data)
	var stack []csValue

	curFont := defaultFontMetrics()

	for {
		item, ok := sc.next()
		if !ok {
			break
		}
		switch item.kind {
		case csNumber, csName, csString, csArray:
			stack = append(stack, item)
			continue
		case csKeyword:
			switch item.op {
			case "BT":
				st.tm = identityMatrix()
				st.tlm = identityMatrix()
			case "ET":
				// no-op: text object end, state persists to next BT per
				// common producer behavior (only matrices are reset above)
			case "Tf":
				if len(stack) >= 2 && stack[len(stack)-2].kind == csName {
					st.fontName = stack[len(stack)-2].name
					st.fontSize = stack[len(stack)-1].num
					if fm, ok := fonts[st.fontName]; ok {
						curFont = fm
					} else {
						curFont = defaultFontMetrics()
					}
				}
			case "Tc":
				if len(stack) >= 1 {
					st.charSpacing = stack[len(stack)-1].num
				}
			case "Tw":
				if len(stack) >= 1 {
					st.wordSpacing = stack[len(stack)-1].num
				}
			case "Tz":
				if len(stack) >= 1 {
					st.hscale = stack[len(stack)-1].num / 100.0
				}
			case "TL":
				if len(stack) >= 1 {
					st.leading = stack[len(stack)-1].num
				}
			case "Tm":
				if len(stack) >= 6 {
					m := matrix{
						stack[len(stack)-6].num, stack[len(stack)-5].num,
						stack[len(stack)-4].num, stack[len(stack)-3].num,
						stack[len(stack)-2].num, stack[len(stack)-1].num,
					}
					st.tm = m
					st.tlm = m
				}
			case "Td":
				if len(stack) >= 2 {
					tx, ty := stack[len(stack)-2].num, stack[len(stack)-1].num
					st.tlm = translation(tx, ty).mul(st.tlm)
					st.tm = st.tlm
				}
			case "TD":
				if len(stack) >= 2 {
					tx, ty := stack[len(stack)-2].num, stack[len(stack)-1].num
					st.leading = -ty
					st.tlm = translation(tx, ty).mul(st.tlm)
					st.tm = st.tlm
				}
			case "T*":
				st.tlm = translation(0, -st.leading).mul(st.tlm)
				st.tm = st.tlm
			case "'":
				st.tlm = translation(0, -st.leading).mul(st.tlm)
				st.tm = st.tlm
				if len(stack) >= 1 && stack[len(stack)-1].kind == csString {
					emitShow(&out, &st, curFont, cm, stack[len(stack)-1].raw, page)
				}
			case "Tj":
				if len(stack) >= 1 && stack[len(stack)-1].kind == csString {
					emitShow(&out, &st, curFont, cm, stack[len(stack)-1].raw, page)
				}
			case "TJ":
				if len(stack) >= 1 && stack[len(stack)-1].kind == csArray {
					emitShowArray(&out, &st, curFont, cm, stack[len(stack)-1].array, page)
				}
			}
			stack = stack[:0]
		}
	}
	return out
}

// emitShow implements the Tj case: one token at the pre-advance position,
// then the text matrix is translated by the total glyph advance.
func emitShow(out *[]token.Token, st *textState, fm fontMetrics, cm *cmap, raw []byte, page int) {
	if len(raw) == 0 {
		return
	}
	x1, y1 := st.tm[4], st.tm[5]
	advance := 0.0
	for _, b := range raw {
		advance += glyphAdvance(fm, b, st)
	}
	text := decodeShowBytes(raw, cm)
	appendToken(out, text, x1, y1, advance, st.fontSize, page)
	st.tm = translation(advance, 0).mul(st.tm)
}

// emitShowArray implements the TJ case: decoded strings concatenate into
// one token starting at the pre-advance position; numeric elements (already
// in 1/1000-em glyph-space units) subtract directly from the accumulated
// advance, same convention the PDF spec uses for TJ adjustments.
func emitShowArray(out *[]token.Token, st *textState, fm fontMetrics, cm *cmap, elems []csValue, page int) {
	x1, y1 := st.tm[4], st.tm[5]
	var text bytesBuilder
	advance := 0.0
	any := false
	for _, e := range elems {
		switch e.kind {
		case csString:
			if len(e.raw) == 0 {
				continue
			}
			for _, b := range e.raw {
				advance += glyphAdvance(fm, b, st)
			}
			text.writeString(decodeShowBytes(e.raw, cm))
			any = true
		case csNumber:
			adj := (-e.num / 1000.0) * st.fontSize * st.hscale
			advance += adj
		}
	}
	if any {
		appendToken(out, text.String(), x1, y1, advance, st.fontSize, page)
	}
	st.tm = translation(advance, 0).mul(st.tm)
}

// glyphAdvance is the per-byte advance formula from §4.1.
func glyphAdvance(fm fontMetrics, b byte, st *textState) float64 {
	w := fm.widthOf(b)
	extra := st.charSpacing * 1000 / orOne(st.fontSize)
	if b == 0x20 {
		extra += st.wordSpacing * 1000 / orOne(st.fontSize)
	}
	return ((w + extra) / 1000.0) * st.fontSize * st.hscale
}

func orOne(f float64) float64 {
	if f == 0 {
		return 1
	}
	return f
}

// appendToken truncates the emitted token's bounding box to integers, per
// §4.1's "Coordinates truncated to integers".
func appendToken(out *[]token.Token, text string, x1, y1, advanceTextSpace, fontSize float64, page int) {
	if text == "" {
		return
	}
	*out = append(*out, token.Token{
		Text: text,
		X1:   int(x1),
		Y1:   int(y1),
		X2:   int(x1 + advanceTextSpace),
		Y2:   int(y1 + fontSize),
		Page: page,
	})
}

type bytesBuilder struct{ buf bytes.Buffer }

func (b *bytesBuilder) writeString(s string) { b.buf.WriteString(s) }
func (b *bytesBuilder) String() string        { return b.buf.String() }

// csValueKind tags what a stack/array slot holds.
type csValueKind int

const (
	csNumber csValueKind = iota
	csName
	csString
	csArray
	csKeyword
)

type csValue struct {
	kind  csValueKind
	num   float64
	name  string
	raw   []byte
	array []csValue
	op    string
}

// csScanner tokenizes a content stream far enough to drive interpretContentStream:
// numbers, /Names, (literal) and <hex> strings, [arrays] of numbers/strings,
// <<...>> dicts (skipped whole, balanced), inline images (BI...ID...EI,
// skipped whole), and bareword operators.
type csScanner struct {
	data []byte
	pos  int
}

func newCSScanner(data []byte) *csScanner { return &csScanner{data: data} }

func (s *csScanner) skipWS() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c == '%' {
			for s.pos < len(s.data) && s.data[s.pos] != '\n' {
				s.pos++
			}
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0 {
			s.pos++
			continue
		}
		break
	}
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isWS(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

// next returns the next lexical item, or ok=false at end of input.
func (s *csScanner) next() (csValue, bool) {
	s.skipWS()
	if s.pos >= len(s.data) {
		return csValue{}, false
	}
	c := s.data[s.pos]
	switch {
	case c == '/':
		return s.scanName(), true
	case c == '(':
		return s.scanLiteralString(), true
	case c == '<':
		if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
			s.skipDict()
			return s.next()
		}
		return s.scanHexString(), true
	case c == '[':
		s.pos++
		return csValue{kind: csArray, array: s.scanArrayElems()}, true
	case c == ']':
		// stray close, skip
		s.pos++
		return s.next()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return s.scanNumber(), true
	default:
		return s.scanKeyword(), true
	}
}

func (s *csScanner) scanName() csValue {
	s.pos++ // skip '/'
	start := s.pos
	for s.pos < len(s.data) && !isDelim(s.data[s.pos]) && !isWS(s.data[s.pos]) {
		s.pos++
	}
	return csValue{kind: csName, name: string(s.data[start:s.pos])}
}

func (s *csScanner) scanNumber() csValue {
	start := s.pos
	if s.data[s.pos] == '-' || s.data[s.pos] == '+' {
		s.pos++
	}
	for s.pos < len(s.data) && (s.data[s.pos] == '.' || (s.data[s.pos] >= '0' && s.data[s.pos] <= '9')) {
		s.pos++
	}
	f, _ := strconv.ParseFloat(string(s.data[start:s.pos]), 64)
	return csValue{kind: csNumber, num: f}
}

func (s *csScanner) scanLiteralString() csValue {
	s.pos++ // skip '('
	depth := 1
	start := s.pos
	for s.pos < len(s.data) && depth > 0 {
		switch s.data[s.pos] {
		case '\\':
			s.pos++ // skip escaped char (and whatever it is) on next iter
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				raw := decodeLiteralOperand(string(s.data[start:s.pos]))
				s.pos++
				return csValue{kind: csString, raw: raw}
			}
		}
		s.pos++
	}
	raw := decodeLiteralOperand(string(s.data[start:s.pos]))
	return csValue{kind: csString, raw: raw}
}

func (s *csScanner) scanHexString() csValue {
	s.pos++ // skip '<'
	start := s.pos
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		s.pos++
	}
	hexStr := string(bytes.Map(func(r rune) rune {
		if isWS(byte(r)) {
			return -1
		}
		return r
	}, s.data[start:s.pos]))
	if s.pos < len(s.data) {
		s.pos++ // skip '>'
	}
	if len(hexStr)%2 != 0 {
		hexStr += "0"
	}
	raw := make([]byte, 0, len(hexStr)/2)
	for i := 0; i+1 < len(hexStr); i += 2 {
		v, err := strconv.ParseUint(hexStr[i:i+2], 16, 8)
		if err != nil {
			continue
		}
		raw = append(raw, byte(v))
	}
	return csValue{kind: csString, raw: raw}
}

func (s *csScanner) scanArrayElems() []csValue {
	var elems []csValue
	for {
		s.skipWS()
		if s.pos >= len(s.data) {
			return elems
		}
		if s.data[s.pos] == ']' {
			s.pos++
			return elems
		}
		item, ok := s.next()
		if !ok {
			return elems
		}
		if item.kind == csNumber || item.kind == csString {
			elems = append(elems, item)
		}
	}
}

func (s *csScanner) skipDict() {
	// pos at first '<' of '<<'
	s.pos += 2
	depth := 1
	for s.pos < len(s.data) && depth > 0 {
		if s.pos+1 < len(s.data) && s.data[s.pos] == '<' && s.data[s.pos+1] == '<' {
			depth++
			s.pos += 2
			continue
		}
		if s.pos+1 < len(s.data) && s.data[s.pos] == '>' && s.data[s.pos+1] == '>' {
			depth--
			s.pos += 2
			continue
		}
		s.pos++
	}
}

func (s *csScanner) scanKeyword() csValue {
	start := s.pos
	for s.pos < len(s.data) && !isDelim(s.data[s.pos]) && !isWS(s.data[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		// unrecognized delimiter byte we don't otherwise handle (e.g. '{','}');
		// consume one byte so the scanner always makes progress.
		s.pos++
		return csValue{kind: csKeyword, op: ""}
	}
	op := string(s.data[start:s.pos])
	if op == "BI" {
		s.skipInlineImage()
		return csValue{kind: csKeyword, op: ""}
	}
	return csValue{kind: csKeyword, op: op}
}

// skipInlineImage consumes a BI...ID...EI inline image, whose data between
// ID and EI is arbitrary binary and not tokenizable as content-stream syntax.
func (s *csScanner) skipInlineImage() {
	idIdx := bytes.Index(s.data[s.pos:], []byte("ID"))
	if idIdx < 0 {
		s.pos = len(s.data)
		return
	}
	s.pos += idIdx + 2
	eiIdx := bytes.Index(s.data[s.pos:], []byte("EI"))
	if eiIdx < 0 {
		s.pos = len(s.data)
		return
	}
	s.pos += eiIdx + 2
}
