package config

import "testing"

func TestValidateKey(t *testing.T) {
	cases := map[string]bool{
		"gb__metro__current__1": true,
		"us__chase__checking__2": true,
		"GB__metro__current__1": true,
		"gb__metro__current__0": false,
		"gb__metro__current":    false,
	}
	for key, want := range cases {
		if got := ValidateKey(key); got != want {
			t.Errorf("ValidateKey(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestNewRegistryRejectsDuplicateKeys(t *testing.T) {
	configs := []Config{
		{Key: "gb__metro__current__1"},
		{Key: "gb__metro__current__1"},
	}
	if _, err := NewRegistry(configs); err == nil {
		t.Fatalf("expected error for duplicate key")
	}
}

func TestRegistryCompilesPatterns(t *testing.T) {
	configs := []Config{
		{Key: "gb__metro__current__1", AccountNumberPatterns: []string{`^\d{8}$`}},
	}
	r, err := NewRegistry(configs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := r.Get("gb__metro__current__1")
	if !ok {
		t.Fatalf("expected config to be found")
	}
	if len(c.AccountNumberPatterns) != 1 || !c.AccountNumberPatterns[0].MatchString("12345678") {
		t.Fatalf("expected compiled pattern to match")
	}
}
