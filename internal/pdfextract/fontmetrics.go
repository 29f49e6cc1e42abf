// Package pdfextract turns a PDF file into a token.Store by interpreting
// each page's content stream operators directly, rather than reconstructing
// already-joined lines of text. Two substrates supply the interpreter with
// its raw bytes: a structured one built on github.com/ledongthuc/pdf, and a
// raw byte-scanning one used when the structured path can't resolve a page.
package pdfextract

// fontMetrics answers the one question the interpreter needs of a font:
// a glyph's advance width in 1/1000-em units. The structured substrate
// answers it from the ledongthuc/pdf Font's own Widths lookup; the raw
// substrate answers it from a FirstChar/Widths array it parsed by hand.
type fontMetrics interface {
	widthOf(code byte) float64
}

// arrayFontMetrics is the raw substrate's implementation: a literal
// FirstChar/Widths array read out of a font dictionary's source bytes,
// also used as the across-the-board default when no font resolves.
type arrayFontMetrics struct {
	firstChar int
	widths    []float64
	// avgWidth is used for codes outside [firstChar, firstChar+len(widths))
	// and whenever widths itself is empty (spec: unknown/widthless glyphs
	// use 500 glyph units absent a better estimate).
	avgWidth float64
}

func defaultFontMetrics() fontMetrics {
	return arrayFontMetrics{firstChar: 0, widths: nil, avgWidth: 500}
}

// widthOf returns the glyph width, in 1/1000 em units, for byte code.
func (fm arrayFontMetrics) widthOf(code byte) float64 {
	i := int(code) - fm.firstChar
	if i >= 0 && i < len(fm.widths) {
		w := fm.widths[i]
		if w == 0 {
			return fm.avgWidth
		}
		return w
	}
	return fm.avgWidth
}

// computeAvgWidth derives the average of a Widths array, used when a code
// falls outside the array's range. Falls back to 500 (the spec's default
// for fonts that carry no widths array at all) when the array is empty.
func computeAvgWidth(widths []float64) float64 {
	if len(widths) == 0 {
		return 500
	}
	sum := 0.0
	n := 0
	for _, w := range widths {
		if w > 0 {
			sum += w
			n++
		}
	}
	if n == 0 {
		return 500
	}
	return sum / float64(n)
}
