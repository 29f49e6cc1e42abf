package date

import "testing"

func TestParsePrimitives(t *testing.T) {
	if _, ok := ParseDay("32"); ok {
		t.Fatalf("day 32 should be rejected")
	}
	if _, ok := ParseMonth("13"); ok {
		t.Fatalf("month 13 should be rejected")
	}
	if m, ok := ParseMonth("Jan"); !ok || m != 1 {
		t.Fatalf("ParseMonth(Jan) = %v, %v", m, ok)
	}
	if y, ok := ParseYear("23"); !ok || y != 2023 {
		t.Fatalf("ParseYear(23) = %v, %v", y, ok)
	}
	if _, ok := ParseYear("1969"); ok {
		t.Fatalf("year 1969 should be rejected")
	}
}

func TestCivilMillisRejectsInvalidDates(t *testing.T) {
	if _, ok := CivilMillis(30, 2, 2024); ok {
		t.Fatalf("Feb 30 should be rejected")
	}
	ms, ok := CivilMillis(15, 1, 2024)
	if !ok {
		t.Fatalf("expected valid date")
	}
	if ms != 1705276800000 {
		t.Fatalf("unexpected millis %d", ms)
	}
}

func TestISODateFormat(t *testing.T) {
	f, _ := ByName("YYYY-MM-DD")
	ms, ok := f.Parse([]string{"2024-01-15"}, "")
	if !ok {
		t.Fatalf("expected ISO date to parse")
	}
	want, _ := CivilMillis(15, 1, 2024)
	if ms != want {
		t.Fatalf("got %d want %d", ms, want)
	}
}

func TestMMDDNeedsYearHint(t *testing.T) {
	f, _ := ByName("MM/DD")
	if _, ok := f.Parse([]string{"03/24"}, ""); ok {
		t.Fatalf("expected failure without a year hint")
	}
	ms, ok := f.Parse([]string{"03/24"}, "2024")
	if !ok {
		t.Fatalf("expected success with year hint")
	}
	want, _ := CivilMillis(24, 3, 2024)
	if ms != want {
		t.Fatalf("got %d want %d", ms, want)
	}
}

func TestDispatcherPrefersLongerFormats(t *testing.T) {
	d := NewDispatcherByNames([]string{"DD MMM", "DD MMM YYYY"})
	ms, consumed, ok := d.Parse([]string{"15", "Jan", "2024"}, "")
	if !ok || consumed != 3 {
		t.Fatalf("expected 3-term format to win, got consumed=%d ok=%v", consumed, ok)
	}
	want, _ := CivilMillis(15, 1, 2024)
	if ms != want {
		t.Fatalf("got %d want %d", ms, want)
	}
}

func TestMonDDCommaYYYY(t *testing.T) {
	f, _ := ByName("MMM DD YYYY")
	ms, ok := f.Parse([]string{"March", "24,", "2020"}, "")
	if !ok {
		t.Fatalf("expected match")
	}
	want, _ := CivilMillis(24, 3, 2020)
	if ms != want {
		t.Fatalf("got %d want %d", ms, want)
	}
}
