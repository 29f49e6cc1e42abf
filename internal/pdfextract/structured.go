package pdfextract

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-extractor/internal/token"
)

// libraryFontMetrics adapts a ledongthuc/pdf Font's own width table to the
// fontMetrics interface, so the structured substrate never has to parse a
// Widths array by hand — Font.Width already resolves FirstChar/Widths/
// MissingWidth for us.
type libraryFontMetrics struct{ f pdf.Font }

func (l libraryFontMetrics) widthOf(code byte) float64 {
	w := l.f.Width(rune(code))
	if w <= 0 {
		return 500
	}
	return w
}

// extractStructured opens filePath with the structured library and
// interprets every page's content stream directly. A page whose content
// stream or resources can't be read is skipped (per §4.1's "malformed
// pages are skipped silently"); the page's failure is recorded so the
// caller can decide whether the raw substrate should be tried at all.
func extractStructured(filePath string, cm *cmap) (tokens []token.Token, failedPages int, err error) {
	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, 0, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, 0, fmt.Errorf("pdf has no pages")
	}

	for i := 1; i <= numPages; i++ {
		pageTokens, ok := extractStructuredPage(r, i, cm)
		if !ok {
			failedPages++
			continue
		}
		tokens = append(tokens, pageTokens...)
	}
	return tokens, failedPages, nil
}

// extractStructuredPage interprets one page; any panic from the library
// (malformed object graph) is recovered and reported as a skip, matching
// the teacher's own recover-and-continue posture around this library.
func extractStructuredPage(r *pdf.Reader, pageNum int, cm *cmap) (tokens []token.Token, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
		}
	}()

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return nil, false
	}

	fonts := make(resourceFonts)
	for _, name := range page.Fonts() {
		fonts[name] = libraryFontMetrics{f: page.Font(name)}
	}

	contentValue := page.V.Key("Contents")
	data, streamErr := readContentValue(contentValue)
	if streamErr != nil || len(data) == 0 {
		return nil, false
	}

	return interpretContentStream(data, fonts, cm, pageNum), true
}

// readContentValue reads a page's /Contents, which may be a single stream
// or an array of streams (concatenated with a separating newline, as the
// PDF spec requires content-stream operators never span an array element
// boundary mid-token).
func readContentValue(v pdf.Value) ([]byte, error) {
	if v.Kind() == pdf.Array {
		var all []byte
		for i := 0; i < v.Len(); i++ {
			chunk, err := readStreamValue(v.Index(i))
			if err != nil {
				continue
			}
			all = append(all, chunk...)
			all = append(all, '\n')
		}
		if len(all) == 0 {
			return nil, fmt.Errorf("no readable content streams")
		}
		return all, nil
	}
	return readStreamValue(v)
}

func readStreamValue(v pdf.Value) ([]byte, error) {
	if v.Kind() != pdf.Stream {
		return nil, fmt.Errorf("not a stream")
	}
	reader := v.Reader()
	if reader == nil {
		return nil, fmt.Errorf("not a stream")
	}
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := reader.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}
	return buf, nil
}
