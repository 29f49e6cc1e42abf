package typer

import (
	"testing"

	"github.com/insightdelivered/statement-extractor/internal/config"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

func tok(text string) token.Token { return token.Token{Text: text, Page: 1} }

func TestIdentifyRequiresAllTerms(t *testing.T) {
	registry, err := config.NewRegistry([]config.Config{
		{Key: "gb__metro__current__1", AccountTerms: []string{"Metro", "Bank"}},
		{Key: "gb__hsbc__current__1", AccountTerms: []string{"HSBC"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ty := New(registry)

	tokens := []token.Token{tok("Metro"), tok("Bank"), tok("Statement")}
	keys := ty.Identify(tokens)
	if len(keys) != 1 || keys[0] != "gb__metro__current__1" {
		t.Fatalf("expected only metro config identified, got %v", keys)
	}
}

func TestIdentifyEmptyOnNoMatch(t *testing.T) {
	registry, _ := config.NewRegistry([]config.Config{
		{Key: "gb__metro__current__1", AccountTerms: []string{"Metro"}},
	})
	ty := New(registry)
	if keys := ty.Identify([]token.Token{tok("Nothing")}); len(keys) != 0 {
		t.Fatalf("expected no matches, got %v", keys)
	}
}

func TestIdentifyMultiWordTermPrefix(t *testing.T) {
	registry, _ := config.NewRegistry([]config.Config{
		{Key: "gb__metro__current__1", AccountTerms: []string{"Metro Bank PLC"}},
	})
	ty := New(registry)
	tokens := []token.Token{tok("Metro"), tok("Bank"), tok("PLC"), tok("Statement")}
	keys := ty.Identify(tokens)
	if len(keys) != 1 {
		t.Fatalf("expected match via multi-word prefix, got %v", keys)
	}
}
