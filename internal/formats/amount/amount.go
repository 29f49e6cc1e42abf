// Package amount implements the small, named amount micro-formats banks
// use in their statement PDFs, plus a dispatcher that tries the longest
// (most multi-token) formats first.
package amount

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Format is a single named amount micro-format.
type Format interface {
	// Name identifies the format for diagnostics and config wiring.
	Name() string
	// NumTerms is how many whitespace-separated tokens this format
	// consumes (e.g. "$1,234.56 CR" is 2).
	NumTerms() int
	// Parse attempts to read s (already whitespace-joined to NumTerms
	// tokens) as this format. ok is false on any mismatch.
	Parse(s string) (value float64, ok bool)
}

func stripGroupSeparators(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// f1 matches "1,234.56", "-1,234.56", "1,234.56-" (trailing minus).
type f1 struct{}

var f1Pattern = regexp.MustCompile(`^-?\d{1,3}(,\d{3})*\.\d{2}(-|\s)?$`)

func (f1) Name() string  { return "F1" }
func (f1) NumTerms() int { return 1 }
func (f1) Parse(raw string) (float64, bool) {
	if !f1Pattern.MatchString(raw) {
		return 0, false
	}
	s := strings.TrimSpace(raw)
	neg := strings.HasSuffix(s, "-")
	s = strings.TrimSuffix(s, "-")
	v, err := strconv.ParseFloat(stripGroupSeparators(s), 64)
	if err != nil {
		return 0, false
	}
	if neg && v > 0 {
		v = -v
	}
	return v, true
}

// f2 is F1 with a leading '$'.
type f2 struct{}

var f2Pattern = regexp.MustCompile(`^-?\$\d{1,3}(,\d{3})*\.\d{2}(-|\s)?$`)

func (f2) Name() string  { return "F2" }
func (f2) NumTerms() int { return 1 }
func (f2) Parse(raw string) (float64, bool) {
	if !f2Pattern.MatchString(raw) {
		return 0, false
	}
	s := strings.TrimSpace(raw)
	neg := strings.HasSuffix(s, "-")
	body := strings.TrimSuffix(s, "-")
	body = strings.Replace(body, "$", "", 1)
	v, err := strconv.ParseFloat(stripGroupSeparators(body), 64)
	if err != nil {
		return 0, false
	}
	if neg && v > 0 {
		v = -v
	}
	return v, true
}

// f3 matches "$1,234.56 CR" / "$1,234.56 DR" case-insensitively. DR negates,
// CR is positive; a leading minus toggles the resulting sign.
type f3 struct{}

var f3Pattern = regexp.MustCompile(`(?i)^-?\$\d{1,3}(,\d{3})*\.\d{2} (cr|dr)$`)

func (f3) Name() string  { return "F3" }
func (f3) NumTerms() int { return 2 }
func (f3) Parse(s string) (float64, bool) {
	return parseCRDR(s, f3Pattern, true)
}

// f4 is F3 without the leading '$' (the spec's "reserved" slot, filled as
// the no-currency-symbol counterpart of F3; same CR/DR and sign rules).
type f4 struct{}

var f4Pattern = regexp.MustCompile(`(?i)^-?\d{1,3}(,\d{3})*\.\d{2} (cr|dr)$`)

func (f4) Name() string  { return "F4" }
func (f4) NumTerms() int { return 2 }
func (f4) Parse(s string) (float64, bool) {
	return parseCRDR(s, f4Pattern, false)
}

func parseCRDR(s string, pattern *regexp.Regexp, hasDollar bool) (float64, bool) {
	s = strings.TrimSpace(s)
	if !pattern.MatchString(s) {
		return 0, false
	}
	leadingMinus := strings.HasPrefix(s, "-")
	body := strings.TrimPrefix(s, "-")
	parts := strings.Fields(body)
	if len(parts) != 2 {
		return 0, false
	}
	numPart := parts[0]
	if hasDollar {
		numPart = strings.Replace(numPart, "$", "", 1)
	}
	v, err := strconv.ParseFloat(stripGroupSeparators(numPart), 64)
	if err != nil {
		return 0, false
	}
	suffix := strings.ToLower(parts[1])
	if suffix == "dr" {
		v = -v
	}
	if leadingMinus {
		v = -v
	}
	return v, true
}

// f5 matches the literal "nil" (case-insensitive), producing 0.0.
type f5 struct{}

func (f5) Name() string  { return "F5" }
func (f5) NumTerms() int { return 1 }
func (f5) Parse(s string) (float64, bool) {
	if strings.EqualFold(strings.TrimSpace(s), "nil") {
		return 0, true
	}
	return 0, false
}

// DefaultFormats returns the five built-in amount micro-formats.
func DefaultFormats() []Format {
	return []Format{f1{}, f2{}, f3{}, f4{}, f5{}}
}

// ByName looks up one built-in format by its Name().
func ByName(name string) (Format, bool) {
	for _, f := range DefaultFormats() {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// ByNames resolves a list of format names against the built-in registry,
// silently skipping any name that isn't recognized.
func ByNames(names []string) []Format {
	var out []Format
	for _, n := range names {
		if f, ok := ByName(n); ok {
			out = append(out, f)
		}
	}
	return out
}

// Dispatcher tries a set of formats longest-first (by NumTerms descending).
type Dispatcher struct {
	formats []Format
}

// NewDispatcher builds a dispatcher from formats, sorting them once by
// NumTerms descending so the greedy multi-token formats are attempted
// before single-token ones.
func NewDispatcher(formats []Format) *Dispatcher {
	sorted := make([]Format, len(formats))
	copy(sorted, formats)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].NumTerms() > sorted[j].NumTerms() })
	return &Dispatcher{formats: sorted}
}

// MaxTerms returns the largest NumTerms across the dispatcher's formats.
func (d *Dispatcher) MaxTerms() int {
	max := 0
	for _, f := range d.formats {
		if f.NumTerms() > max {
			max = f.NumTerms()
		}
	}
	return max
}

// Parse tries each format in order against terms joined with single spaces,
// truncated (from the front) to each format's NumTerms, returning the first
// match and how many terms it consumed.
func (d *Dispatcher) Parse(terms []string) (value float64, consumed int, ok bool) {
	for _, f := range d.formats {
		n := f.NumTerms()
		if n > len(terms) {
			continue
		}
		candidate := strings.Join(terms[:n], " ")
		if v, matched := f.Parse(candidate); matched {
			return v, n, true
		}
	}
	return 0, 0, false
}
