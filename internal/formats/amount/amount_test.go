package amount

import "testing"

func TestF1(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234.56", 1234.56, true},
		{"-1,234.56", -1234.56, true},
		{"1,234.56-", -1234.56, true},
		{"12.00", 12.00, true},
		{"nil", 0, false},
		{"$12.00", 0, false},
	}
	for _, c := range cases {
		got, ok := (f1{}).Parse(c.in)
		if ok != c.ok {
			t.Fatalf("F1.Parse(%q) ok=%v want %v", c.in, ok, c.ok)
		}
		if ok && got != c.want {
			t.Fatalf("F1.Parse(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestF3CRDR(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"$1,234.56 CR", 1234.56},
		{"$1,234.56 cr", 1234.56},
		{"$1,234.56 DR", -1234.56},
		{"-$1,234.56 CR", -1234.56},
		{"-$1,234.56 DR", 1234.56},
	}
	for _, c := range cases {
		got, ok := (f3{}).Parse(c.in)
		if !ok {
			t.Fatalf("F3.Parse(%q) expected match", c.in)
		}
		if got != c.want {
			t.Fatalf("F3.Parse(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestF5Nil(t *testing.T) {
	got, ok := (f5{}).Parse("NIL")
	if !ok || got != 0 {
		t.Fatalf("F5.Parse(NIL)=%v,%v want 0,true", got, ok)
	}
	if _, ok := (f5{}).Parse("nile"); ok {
		t.Fatalf("F5 should not match partial word")
	}
}

func TestDispatcherTriesLongestFirst(t *testing.T) {
	d := NewDispatcher(DefaultFormats())
	if d.MaxTerms() != 2 {
		t.Fatalf("expected max terms 2, got %d", d.MaxTerms())
	}
	v, n, ok := d.Parse([]string{"$1,234.56", "CR", "extra"})
	if !ok || n != 2 || v != 1234.56 {
		t.Fatalf("dispatcher parse = %v,%v,%v", v, n, ok)
	}
	v, n, ok = d.Parse([]string{"1,234.56", "extra"})
	if !ok || n != 1 || v != 1234.56 {
		t.Fatalf("dispatcher single-term parse = %v,%v,%v", v, n, ok)
	}
}
