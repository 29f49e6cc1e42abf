package pdfextract

import "testing"

func TestInterpretSimpleTjToken(t *testing.T) {
	stream := []byte("BT /F1 12 Tf 100 700 Td (Hello) Tj ET")
	fonts := resourceFonts{"F1": defaultFontMetrics()}

	tokens := interpretContentStream(stream, fonts, nil, 1)
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d: %+v", len(tokens), tokens)
	}
	tok := tokens[0]
	if tok.Text != "Hello" {
		t.Fatalf("unexpected text %q", tok.Text)
	}
	if tok.X1 != 100 || tok.Y1 != 700 {
		t.Fatalf("unexpected origin: %+v", tok)
	}
	// 5 glyphs * (500/1000)*12 = 30 units of advance.
	if tok.X2 != 130 {
		t.Fatalf("expected x2=130, got %d", tok.X2)
	}
	if tok.Y2 != 712 {
		t.Fatalf("expected y2=712 (y1+font size), got %d", tok.Y2)
	}
}

func TestInterpretTJArrayConcatenatesAndAdjusts(t *testing.T) {
	stream := []byte("BT /F1 10 Tf 0 0 Td [(AB) -250 (C)] TJ ET")
	fonts := resourceFonts{"F1": defaultFontMetrics()}

	tokens := interpretContentStream(stream, fonts, nil, 1)
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d: %+v", len(tokens), tokens)
	}
	tok := tokens[0]
	if tok.Text != "ABC" {
		t.Fatalf("expected concatenated text ABC, got %q", tok.Text)
	}
	// AB: 2*(500/1000)*10=10; adjustment -250 thousandths -> +2.5; C: 5. Total 17.5 -> truncated 17.
	if tok.X2 != 17 {
		t.Fatalf("expected x2=17, got %d", tok.X2)
	}
}

func TestInterpretTdThenTStarAdvancesLines(t *testing.T) {
	stream := []byte("BT /F1 12 Tf 20 TL 0 100 Td (One) Tj T* (Two) Tj ET")
	fonts := resourceFonts{"F1": defaultFontMetrics()}

	tokens := interpretContentStream(stream, fonts, nil, 1)
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Y1 != 100 {
		t.Fatalf("expected first line at y1=100, got %d", tokens[0].Y1)
	}
	if tokens[1].Y1 != 80 {
		t.Fatalf("expected T* to drop by leading (20) to y1=80, got %d", tokens[1].Y1)
	}
}

func TestInterpretSkipsInlineImage(t *testing.T) {
	stream := []byte("BT /F1 12 Tf 0 0 Td (Before) Tj ET\nBI /W 2 /H 2 ID \x00\x01\xff\xfe EI\nBT /F1 12 Tf 0 0 Td (After) Tj ET")
	fonts := resourceFonts{"F1": defaultFontMetrics()}

	tokens := interpretContentStream(stream, fonts, nil, 1)
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens around the skipped inline image, got %d: %+v", len(tokens), tokens)
	}
	if tokens[0].Text != "Before" || tokens[1].Text != "After" {
		t.Fatalf("unexpected token text: %+v", tokens)
	}
}

func TestGlyphAdvanceUsesFontWidthsArray(t *testing.T) {
	fm := arrayFontMetrics{firstChar: 65, widths: []float64{600, 700}, avgWidth: computeAvgWidth([]float64{600, 700})}
	stream := []byte("BT /F1 10 Tf 0 0 Td (AB) Tj ET")
	tokens := interpretContentStream(stream, resourceFonts{"F1": fm}, nil, 1)
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(tokens))
	}
	// A=600, B=700 thousandths * fontsize 10 => 6 + 7 = 13.
	if tokens[0].X2 != 13 {
		t.Fatalf("expected x2=13, got %d", tokens[0].X2)
	}
}

func TestDecodeRawBytesUTF16BEWithBOM(t *testing.T) {
	raw := []byte{0xFE, 0xFF, 0x00, 0x41, 0x00, 0x42}
	if got := decodeRawBytes(raw); got != "AB" {
		t.Fatalf("expected AB, got %q", got)
	}
}

func TestDecodeRawBytesUntaggedUTF16BEHeuristic(t *testing.T) {
	raw := []byte{0x00, 0x41, 0x00, 0x42, 0x00, 0x43}
	if got := decodeRawBytes(raw); got != "ABC" {
		t.Fatalf("expected ABC via untagged UTF-16BE heuristic, got %q", got)
	}
}

func TestDecodeRawBytesPlainASCIIFallsThroughToUTF8(t *testing.T) {
	raw := []byte("hello")
	if got := decodeRawBytes(raw); got != "hello" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestDecodeLiteralOperandHandlesEscapes(t *testing.T) {
	got := decodeLiteralOperand(`\050Hi\051\n`)
	if string(got) != "(Hi)\n" {
		t.Fatalf("unexpected decode: %q", string(got))
	}
}
