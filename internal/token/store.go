package token

import (
	"sort"
	"strings"
)

// Store is an ordered collection of Tokens with the geometry utilities the
// rest of the pipeline needs to read them in visual order.
type Store struct {
	tokens []Token
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append inserts text at the given bounds, splitting on whitespace so every
// stored Token is a single word (invariant I1). Each resulting word token
// shares the original bounds; callers that have true per-word geometry
// should call AppendToken directly instead.
func (s *Store) Append(text string, x1, y1, x2, y2, page int) {
	for _, w := range strings.Fields(text) {
		s.tokens = append(s.tokens, Token{Text: w, X1: x1, Y1: y1, X2: x2, Y2: y2, Page: page})
	}
}

// AppendToken inserts an already-split token verbatim.
func (s *Store) AppendToken(t Token) {
	s.tokens = append(s.tokens, t)
}

// Len returns the number of tokens currently stored.
func (s *Store) Len() int {
	return len(s.tokens)
}

// At returns the token at index i.
func (s *Store) At(i int) Token {
	return s.tokens[i]
}

// Slice returns tokens [start, start+n), clamped to the store's length.
func (s *Store) Slice(start, n int) []Token {
	if start >= len(s.tokens) {
		return nil
	}
	end := start + n
	if end > len(s.tokens) {
		end = len(s.tokens)
	}
	return s.tokens[start:end]
}

// All returns every token, in current order. The returned slice aliases the
// store's internal slice and must not be mutated.
func (s *Store) All() []Token {
	return s.tokens
}

// Clone returns a deep-enough copy (the token slice is copied; Token values
// are immutable so a shallow element copy suffices) for use when a caller
// needs to try a destructive operation (e.g. a y-patch) without disturbing
// the original.
func (s *Store) Clone() *Store {
	cp := make([]Token, len(s.tokens))
	copy(cp, s.tokens)
	return &Store{tokens: cp}
}

// CommonLineHeight returns the most frequently occurring positive Y2-Y1
// across all tokens, used as the line-grouping tolerance by both
// FixYDisorder and the LayoutText codec. Returns 1 if no token has a
// positive height.
func (s *Store) CommonLineHeight() int {
	counts := make(map[int]int)
	for _, t := range s.tokens {
		h := t.Height()
		if h > 0 {
			counts[h]++
		}
	}
	best, bestCount := 1, 0
	for h, c := range counts {
		if c > bestCount || (c == bestCount && h < best) {
			best, bestCount = h, c
		}
	}
	return best
}

// ascendingOrientation reports whether a majority of tokens have y1>=y2
// (ascending-origin convention) versus y1<y2 (descending-origin).
func ascendingOrientation(tokens []Token) bool {
	var ascending, descending int
	for _, t := range tokens {
		if t.Y1 < t.Y2 {
			descending++
		} else {
			ascending++
		}
	}
	return ascending >= descending
}

type binKey struct {
	page int
	bin  int
}

// Sort stabilizes token order across pages: majority-vote y orientation,
// page/y-bin grouping, x-ascending order within a bin, then
// merge-close-in-x to recombine kerned-apart glyph runs that the extractor
// emitted as separate tokens.
func (s *Store) Sort(xGap float64, yBin int) {
	if yBin <= 0 {
		yBin = 1
	}
	ascending := ascendingOrientation(s.tokens)

	byBin := make(map[binKey][]Token)
	var bins []binKey
	for _, t := range s.tokens {
		k := binKey{page: t.Page, bin: floorDiv(t.Y1, yBin)}
		if _, ok := byBin[k]; !ok {
			bins = append(bins, k)
		}
		byBin[k] = append(byBin[k], t)
	}

	sort.Slice(bins, func(i, j int) bool {
		if bins[i].page != bins[j].page {
			return bins[i].page < bins[j].page
		}
		if ascending {
			return bins[i].bin < bins[j].bin
		}
		return bins[i].bin > bins[j].bin
	})

	out := make([]Token, 0, len(s.tokens))
	for _, k := range bins {
		line := byBin[k]
		sort.Slice(line, func(i, j int) bool { return line[i].X1 < line[j].X1 })
		out = append(out, mergeCloseInX(line, xGap)...)
	}
	s.tokens = out
}

// YPatch snaps every token's Y1/Y2 onto a fixed-height line grid,
// preserving each token's height. Some layouts emit Y jitter too fine for
// FixYDisorder's common-height tolerance to absorb; configs that declare
// apply_y_patch_line_height call this first with that fixed height instead
// of relying on the store's own computed CommonLineHeight. No-op if
// lineHeight <= 0.
func (s *Store) YPatch(lineHeight int) {
	if lineHeight <= 0 {
		return
	}
	for i, t := range s.tokens {
		bucket := floorDiv(t.Y1, lineHeight)
		snapped := bucket * lineHeight
		delta := snapped - t.Y1
		s.tokens[i].Y1 = t.Y1 + delta
		s.tokens[i].Y2 = t.Y2 + delta
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mergeCloseInX merges adjacent tokens (already x-sorted) whose gap is
// within xGap times the average character width of the running token.
func mergeCloseInX(line []Token, xGap float64) []Token {
	if len(line) == 0 {
		return nil
	}
	out := make([]Token, 0, len(line))
	cur := line[0]
	for _, next := range line[1:] {
		tol := xGap * cur.AvgCharWidth()
		if float64(next.X1) <= float64(cur.X2)+tol && float64(next.X1) >= float64(cur.X1)-tol {
			cur = mergeTokens(cur, next)
			continue
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)
	return out
}

func mergeTokens(a, b Token) Token {
	m := a
	m.Text = a.Text + " " + b.Text
	if b.X2 > m.X2 {
		m.X2 = b.X2
	}
	if b.X1 < m.X1 {
		m.X1 = b.X1
	}
	if b.Y2 > m.Y2 {
		m.Y2 = b.Y2
	}
	if b.Y1 < m.Y1 {
		m.Y1 = b.Y1
	}
	return m
}

type openLine struct {
	y      int
	tokens []Token
}

// FixYDisorder reorders tokens whose vertical position slightly disagrees
// with reading order, using the store's common line height as grouping
// tolerance. It replaces the store's contents with the corrected order.
func (s *Store) FixYDisorder() {
	h := s.CommonLineHeight()
	if h <= 0 {
		h = 1
	}

	var out []Token
	var lines []openLine
	currentPage := -1
	currentY := 0
	haveCurrent := false

	flush := func() {
		for _, l := range lines {
			out = append(out, l.tokens...)
		}
		lines = nil
	}

	for _, t := range s.tokens {
		if t.Page != currentPage {
			flush()
			currentPage = t.Page
			haveCurrent = false
		}
		switch {
		case haveCurrent && abs(t.Y1-currentY) < h:
			lines[len(lines)-1].tokens = append(lines[len(lines)-1].tokens, t)
		case haveCurrent && t.Y1 < currentY:
			lines = append(lines, openLine{y: t.Y1, tokens: []Token{t}})
			currentY = t.Y1
			sortLinesDesc(lines)
		default:
			placed := false
			for i := range lines {
				if abs(lines[i].y-t.Y1) < h {
					lines[i].tokens = append(lines[i].tokens, t)
					placed = true
					break
				}
			}
			if !placed {
				lines = append(lines, openLine{y: t.Y1, tokens: []Token{t}})
				sortLinesDesc(lines)
			}
			if !haveCurrent {
				currentY = t.Y1
			}
			haveCurrent = true
		}
	}
	flush()
	s.tokens = out
}

func sortLinesDesc(lines []openLine) {
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })
}
