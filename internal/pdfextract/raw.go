package pdfextract

import (
	"bytes"
	"compress/zlib"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/insightdelivered/statement-extractor/internal/token"
)

// pdfObject is one "N G obj ... endobj" block: its dictionary text (for
// regex-based key lookup) and its stream bytes, if it carries one.
type pdfObject struct {
	num       int
	dictText  string
	streamRaw []byte
}

var objHeaderRe = regexp.MustCompile(`(\d+)\s+\d+\s+obj`)

// parseObjects scans the whole file for indirect objects without walking
// the xref table, the same "find markers in the byte soup" posture as the
// teacher's stream/endstream scan, generalized to also capture the object
// number so Resources/Font/Contents references can be resolved afterward.
// A later occurrence of the same object number overwrites an earlier one,
// approximating how an incremental update's newest object wins.
func parseObjects(data []byte) map[int]*pdfObject {
	objects := make(map[int]*pdfObject)
	headers := objHeaderRe.FindAllSubmatchIndex(data, -1)

	for i, h := range headers {
		num, err := strconv.Atoi(string(data[h[2]:h[3]]))
		if err != nil {
			continue
		}
		blockStart := h[1]
		blockEnd := len(data)
		if i+1 < len(headers) {
			blockEnd = headers[i+1][0]
		}
		if eo := bytes.Index(data[blockStart:blockEnd], []byte("endobj")); eo >= 0 {
			blockEnd = blockStart + eo
		}
		block := data[blockStart:blockEnd]

		obj := &pdfObject{num: num}
		if si := bytes.Index(block, []byte("stream")); si >= 0 {
			obj.dictText = string(block[:si])
			start := si + len("stream")
			if start < len(block) && block[start] == '\r' {
				start++
			}
			if start < len(block) && block[start] == '\n' {
				start++
			}
			if ei := bytes.Index(block[start:], []byte("endstream")); ei >= 0 {
				obj.streamRaw = block[start : start+ei]
			}
		} else {
			obj.dictText = string(block)
		}
		objects[num] = obj
	}
	return objects
}

var pageTypeRe = regexp.MustCompile(`/Type\s*/Page(?:[^s]|$)`)

func isPageObject(dictText string) bool {
	return pageTypeRe.MatchString(dictText)
}

var (
	contentsArrayRe  = regexp.MustCompile(`/Contents\s*\[([^\]]*)\]`)
	contentsSingleRe = regexp.MustCompile(`/Contents\s+(\d+)\s+\d+\s+R`)
	indirectRefNumRe = regexp.MustCompile(`(\d+)\s+\d+\s+R`)
)

func findContentsRefs(dictText string) []int {
	if m := contentsArrayRe.FindStringSubmatch(dictText); m != nil {
		var nums []int
		for _, mm := range indirectRefNumRe.FindAllStringSubmatch(m[1], -1) {
			n, _ := strconv.Atoi(mm[1])
			nums = append(nums, n)
		}
		return nums
	}
	if m := contentsSingleRe.FindStringSubmatch(dictText); m != nil {
		n, _ := strconv.Atoi(m[1])
		return []int{n}
	}
	return nil
}

// resolveContentBytes concatenates (and inflates) every content stream a
// page object references, in declared order.
func resolveContentBytes(objects map[int]*pdfObject, dictText string) []byte {
	var buf []byte
	for _, num := range findContentsRefs(dictText) {
		obj, ok := objects[num]
		if !ok || obj.streamRaw == nil {
			continue
		}
		buf = append(buf, tryInflate(obj.streamRaw)...)
		buf = append(buf, '\n')
	}
	return buf
}

// tryInflate attempts zlib decompression (PDF's FlateDecode), returning the
// input unchanged if it isn't zlib-framed — content streams are not always
// compressed.
func tryInflate(data []byte) []byte {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return data
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return data
	}
	return out
}

// findInlineDict returns the text inside the nearest "<<...>>" following
// "/key" in s, if the key's value is an inline dictionary rather than an
// indirect reference. Handles one level of nested "<<...>>" balancing.
func findInlineDict(s, key string) (string, bool) {
	idx := strings.Index(s, "/"+key)
	if idx < 0 {
		return "", false
	}
	rest := s[idx+len(key)+1:]
	i := 0
	for i < len(rest) && isWS(rest[i]) {
		i++
	}
	if i+1 >= len(rest) || rest[i] != '<' || rest[i+1] != '<' {
		return "", false
	}
	depth := 1
	j := i + 2
	for j+1 < len(rest) && depth > 0 {
		if rest[j] == '<' && rest[j+1] == '<' {
			depth++
			j += 2
			continue
		}
		if rest[j] == '>' && rest[j+1] == '>' {
			depth--
			j += 2
			continue
		}
		j++
	}
	if depth != 0 {
		return "", false
	}
	return rest[i+2 : j-2], true
}

func findIndirectRef(s, key string) (int, bool) {
	re := regexp.MustCompile(`/` + key + `\s+(\d+)\s+\d+\s+R`)
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, _ := strconv.Atoi(m[1])
	return n, true
}

var fontEntryRe = regexp.MustCompile(`/([A-Za-z0-9+\-_.]+)\s+(\d+)\s+\d+\s+R`)

// resolveFontsForPage walks dictText's /Resources (inline or by reference)
// to its /Font subdictionary (inline or by reference) and parses each
// referenced font object's FirstChar/Widths, best effort: a font that
// can't be resolved this way is simply absent from the map, and the
// interpreter falls back to the default 500-unit metrics for it.
func resolveFontsForPage(objects map[int]*pdfObject, dictText string) resourceFonts {
	fonts := make(resourceFonts)

	resText, ok := findInlineDict(dictText, "Resources")
	if !ok {
		if num, ok2 := findIndirectRef(dictText, "Resources"); ok2 {
			if obj, ok3 := objects[num]; ok3 {
				resText = obj.dictText
			}
		}
	}
	if resText == "" {
		return fonts
	}

	fontText, ok := findInlineDict(resText, "Font")
	if !ok {
		if num, ok2 := findIndirectRef(resText, "Font"); ok2 {
			if obj, ok3 := objects[num]; ok3 {
				fontText = obj.dictText
			}
		}
	}
	if fontText == "" {
		return fonts
	}

	for _, m := range fontEntryRe.FindAllStringSubmatch(fontText, -1) {
		name, num := m[1], m[2]
		n, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		obj, ok := objects[n]
		if !ok {
			continue
		}
		fonts[name] = parseFontMetrics(obj.dictText)
	}
	return fonts
}

var (
	firstCharRe = regexp.MustCompile(`/FirstChar\s+(\d+)`)
	widthsRe    = regexp.MustCompile(`(?s)/Widths\s*\[([^\]]*)\]`)
)

func parseFontMetrics(dictText string) fontMetrics {
	fm := arrayFontMetrics{avgWidth: 500}
	if m := firstCharRe.FindStringSubmatch(dictText); m != nil {
		fm.firstChar, _ = strconv.Atoi(m[1])
	}
	if m := widthsRe.FindStringSubmatch(dictText); m != nil {
		for _, tok := range strings.Fields(m[1]) {
			w, err := strconv.ParseFloat(tok, 64)
			if err == nil {
				fm.widths = append(fm.widths, w)
			}
		}
	}
	fm.avgWidth = computeAvgWidth(fm.widths)
	return fm
}

// extractRaw is the byte-scanning fallback substrate: it locates page
// objects without relying on a parsed xref table, resolves each one's
// fonts and content streams by regex, and hands the decompressed bytes to
// the same operator interpreter the structured substrate uses.
func extractRaw(data []byte, cm *cmap) []token.Token {
	objects := parseObjects(data)

	var pageNums []int
	for num, obj := range objects {
		if isPageObject(obj.dictText) {
			pageNums = append(pageNums, num)
		}
	}
	sort.Ints(pageNums)

	var tokens []token.Token
	for i, num := range pageNums {
		obj := objects[num]
		fonts := resolveFontsForPage(objects, obj.dictText)
		content := resolveContentBytes(objects, obj.dictText)
		if len(content) == 0 {
			continue
		}
		tokens = append(tokens, interpretContentStream(content, fonts, cm, i+1)...)
	}
	return tokens
}
