package pdfextract

import (
	"strings"
	"unicode/utf16"
)

// decodeShowBytes turns the raw bytes of a Tj/TJ string operand into text,
// trying a CMap first (for CID/Type0 fonts whose codes aren't Latin bytes),
// then falling back to the BOM/UTF-16/UTF-8 precedence.
func decodeShowBytes(raw []byte, cm *cmap) string {
	if cm != nil {
		if s := cm.decode(raw); s != "" {
			return stripControl(s)
		}
	}
	return stripControl(decodeRawBytes(raw))
}

// decodeRawBytes implements the string-decoding precedence: BOM-tagged
// UTF-16, then a NUL-parity heuristic for untagged UTF-16BE, then lossy
// UTF-8.
func decodeRawBytes(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		return utf16beToString(raw[2:])
	}
	if len(raw) >= 2 && raw[0] == 0xFF && raw[1] == 0xFE {
		return utf16leToString(raw[2:])
	}
	if looksLikeUTF16BE(raw) {
		return utf16beToString(raw)
	}
	return string(raw)
}

// looksLikeUTF16BE reports whether at least half the bytes are NUL and
// those NULs fall uniformly on even or uniformly on odd indices, the
// signature of untagged big-endian UTF-16 Latin text.
func looksLikeUTF16BE(raw []byte) bool {
	if len(raw) < 2 {
		return false
	}
	nulCount, evenNul, oddNul := 0, 0, 0
	for i, b := range raw {
		if b == 0 {
			nulCount++
			if i%2 == 0 {
				evenNul++
			} else {
				oddNul++
			}
		}
	}
	if nulCount*2 < len(raw) {
		return false
	}
	return evenNul == nulCount || oddNul == nulCount
}

func utf16beToString(raw []byte) string {
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
	}
	return string(utf16.Decode(units))
}

func utf16leToString(raw []byte) string {
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		units = append(units, uint16(raw[i])|uint16(raw[i+1])<<8)
	}
	return string(utf16.Decode(units))
}

// stripControl removes embedded NUL and control characters except tab and
// newline, per the decoding spec's final step.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		if r < 0x20 && r != '\t' && r != '\n' {
			return -1
		}
		return r
	}, s)
}

// decodeLiteralOperand unescapes a PDF literal string operand's contents
// (the bytes between the outer parentheses), honoring \n \r \t \b \f \( \)
// \\ and up-to-three-digit octal escapes, same rules the teacher's raw
// extractor used for line reconstruction.
func decodeLiteralOperand(s string) []byte {
	var buf []byte
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '(':
				buf = append(buf, '(')
			case ')':
				buf = append(buf, ')')
			case '\\':
				buf = append(buf, '\\')
			case '\n':
				// backslash-newline is a line-continuation, emits nothing
			default:
				if s[i] >= '0' && s[i] <= '7' {
					val := int(s[i] - '0')
					for j := 1; j < 3 && i+j < len(s) && s[i+j] >= '0' && s[i+j] <= '7'; j++ {
						val = val*8 + int(s[i+j]-'0')
						i++
					}
					if val >= 0 && val < 256 {
						buf = append(buf, byte(val))
					}
				} else {
					buf = append(buf, s[i])
				}
			}
		} else {
			buf = append(buf, s[i])
		}
		i++
	}
	return buf
}
