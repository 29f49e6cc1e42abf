// Package typer identifies which statement configs apply to a token
// stream by matching each config's account_terms as case-sensitive
// prefixes of sliding token windows.
package typer

import (
	"strings"

	"github.com/insightdelivered/statement-extractor/internal/config"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

// Typer precomputes the term/key indices needed for fast identification.
type Typer struct {
	keys               []string // registry order
	keysByTerm         map[string][]string
	expectedTermsByKey map[string]int
	maxLookahead        int
}

// New precomputes a Typer from the registry's configs.
func New(registry *config.Registry) *Typer {
	t := &Typer{
		keysByTerm:         make(map[string][]string),
		expectedTermsByKey: make(map[string]int),
	}
	for _, c := range registry.All() {
		t.keys = append(t.keys, c.Key)
		t.expectedTermsByKey[c.Key] = len(c.AccountTerms)
		for _, term := range c.AccountTerms {
			t.keysByTerm[term] = append(t.keysByTerm[term], c.Key)
			if n := len(strings.Fields(term)); n > t.maxLookahead {
				t.maxLookahead = n
			}
		}
	}
	if t.maxLookahead == 0 {
		t.maxLookahead = 1
	}
	return t
}

// Identify returns the set of config keys whose account_terms are all
// present, at least once, as a case-sensitive prefix of some sliding
// window of tokens, in registry order.
func (t *Typer) Identify(tokens []token.Token) []string {
	matches := make(map[string]int)
	seenTerms := make(map[string]bool)

	for i := 0; i < len(tokens); i++ {
		limit := t.maxLookahead
		if i+limit > len(tokens) {
			limit = len(tokens) - i
		}
		phrase := joinTexts(tokens[i : i+limit])
		for term, keys := range t.keysByTerm {
			if seenTerms[term] {
				continue
			}
			if len(term) > len(phrase) {
				continue
			}
			if strings.HasPrefix(phrase, term) {
				seenTerms[term] = true
				for _, k := range keys {
					matches[k]++
				}
			}
		}
	}

	var identified []string
	for _, key := range t.keys {
		expected := t.expectedTermsByKey[key]
		if matches[key] == expected && expected > 0 {
			identified = append(identified, key)
		}
	}
	return identified
}

func joinTexts(tokens []token.Token) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}
