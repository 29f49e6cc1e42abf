// Package date implements the named date micro-formats banks use in
// their statement PDFs and the day/month/year primitives they're built
// from, plus a dispatcher that tries the longest (most multi-token)
// formats first.
package date

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var monthNames = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// ParseDay accepts an integer (1-31), tolerating a trailing comma.
func ParseDay(s string) (int, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ",")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 31 {
		return 0, false
	}
	return n, true
}

// ParseMonth accepts a numeric month (1-12) or a case-insensitive English
// name/abbreviation.
func ParseMonth(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, false
		}
		return n, true
	}
	if m, ok := monthNames[strings.ToLower(s)]; ok {
		return m, true
	}
	return 0, false
}

// ParseYear accepts a 2-digit year (mapped to 2000+n) or a 4-digit year in
// [1970, 2100).
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	switch len(s) {
	case 2:
		return 2000 + n, true
	case 4:
		if n >= 1970 && n < 2100 {
			return n, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// CivilMillis validates (day, month, year) as a real civil date and returns
// UTC milliseconds at 00:00:00, or false if the date does not exist (e.g.
// Feb 30).
func CivilMillis(day, month, year int) (int64, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return 0, false
	}
	return t.UnixMilli(), true
}

// Format is a single named date micro-format.
type Format interface {
	Name() string
	NumTerms() int
	NeedsYearHint() bool
	// Parse attempts to read terms (joined or inspected individually) as
	// this format. yearHint is used only when NeedsYearHint is true.
	Parse(terms []string, yearHint string) (millis int64, ok bool)
}

type needsYear bool

func (n needsYear) NeedsYearHint() bool { return bool(n) }

func resolveYear(raw string, yearHint string, needsHint bool) (int, bool) {
	if needsHint {
		return ParseYear(yearHint)
	}
	return ParseYear(raw)
}

// ddMon: "DD MMM", needs a year hint.
type ddMon struct{ needsYear }

func (ddMon) Name() string  { return "DD MMM" }
func (ddMon) NumTerms() int { return 2 }
func (f ddMon) Parse(terms []string, yearHint string) (int64, bool) {
	if len(terms) < 2 {
		return 0, false
	}
	d, ok := ParseDay(terms[0])
	if !ok {
		return 0, false
	}
	m, ok := ParseMonth(strings.TrimSuffix(terms[1], ","))
	if !ok {
		return 0, false
	}
	y, ok := ParseYear(yearHint)
	if !ok {
		return 0, false
	}
	return CivilMillis(d, m, y)
}

// ddMonYYYY: "DD MMM YYYY".
type ddMonYYYY struct{ needsYear }

func (ddMonYYYY) Name() string  { return "DD MMM YYYY" }
func (ddMonYYYY) NumTerms() int { return 3 }
func (ddMonYYYY) Parse(terms []string, _ string) (int64, bool) {
	if len(terms) < 3 {
		return 0, false
	}
	d, ok := ParseDay(terms[0])
	if !ok {
		return 0, false
	}
	m, ok := ParseMonth(strings.TrimSuffix(terms[1], ","))
	if !ok {
		return 0, false
	}
	y, ok := ParseYear(strings.TrimSuffix(terms[2], ","))
	if !ok {
		return 0, false
	}
	return CivilMillis(d, m, y)
}

// monDDYYYY: "MMM DD YYYY" ("March 24, 2020").
type monDDYYYY struct{ needsYear }

func (monDDYYYY) Name() string  { return "MMM DD YYYY" }
func (monDDYYYY) NumTerms() int { return 3 }
func (monDDYYYY) Parse(terms []string, _ string) (int64, bool) {
	if len(terms) < 3 {
		return 0, false
	}
	m, ok := ParseMonth(terms[0])
	if !ok {
		return 0, false
	}
	d, ok := ParseDay(terms[1])
	if !ok {
		return 0, false
	}
	y, ok := ParseYear(strings.TrimSuffix(terms[2], ","))
	if !ok {
		return 0, false
	}
	return CivilMillis(d, m, y)
}

// monDD: "MMM DD", needs a year hint.
type monDD struct{ needsYear }

func (monDD) Name() string  { return "MMM DD" }
func (monDD) NumTerms() int { return 2 }
func (f monDD) Parse(terms []string, yearHint string) (int64, bool) {
	if len(terms) < 2 {
		return 0, false
	}
	m, ok := ParseMonth(terms[0])
	if !ok {
		return 0, false
	}
	d, ok := ParseDay(terms[1])
	if !ok {
		return 0, false
	}
	y, ok := ParseYear(yearHint)
	if !ok {
		return 0, false
	}
	return CivilMillis(d, m, y)
}

// regexFormat covers the single-token slash/dash/ISO forms, each a
// 3-group regex producing (day, month, year), (month, day, year) or
// (year, month, day) per monthFirst/yearFirst, with the year hint used
// when the year group is absent.
type regexFormat struct {
	needsYear
	name       string
	pattern    *regexp.Regexp
	yearFirst  bool // true for YYYY-MM-DD
	monthFirst bool // true for the MM/DD forms
	yearInText bool // false => group 3 absent, use hint (MM/DD)
}

func (r regexFormat) Name() string  { return r.name }
func (r regexFormat) NumTerms() int { return 1 }
func (r regexFormat) Parse(terms []string, yearHint string) (int64, bool) {
	if len(terms) < 1 {
		return 0, false
	}
	m := r.pattern.FindStringSubmatch(strings.TrimSpace(terms[0]))
	if m == nil {
		return 0, false
	}
	var d, mo, y int
	var ok bool
	if r.yearFirst {
		y, ok = ParseYear(m[1])
		if !ok {
			return 0, false
		}
		mo, ok = ParseMonth(m[2])
		if !ok {
			return 0, false
		}
		d, ok = ParseDay(m[3])
		if !ok {
			return 0, false
		}
	} else {
		dayGroup, monthGroup := m[1], m[2]
		if r.monthFirst {
			dayGroup, monthGroup = m[2], m[1]
		}
		d, ok = ParseDay(dayGroup)
		if !ok {
			return 0, false
		}
		mo, ok = ParseMonth(monthGroup)
		if !ok {
			return 0, false
		}
		if r.yearInText {
			y, ok = ParseYear(m[3])
		} else {
			y, ok = ParseYear(yearHint)
		}
		if !ok {
			return 0, false
		}
	}
	return CivilMillis(d, mo, y)
}

// rangeForm captures the first date of a "MMM DD, YYYY-MMM DD, YYYY" range.
type rangeForm struct{ needsYear }

var rangePattern = regexp.MustCompile(`^([A-Za-z]+) (\d{1,2}),?\s*(\d{4})\s*-`)

func (rangeForm) Name() string  { return "RANGE" }
func (rangeForm) NumTerms() int { return 7 }
func (rangeForm) Parse(terms []string, _ string) (int64, bool) {
	joined := strings.Join(terms, " ")
	m := rangePattern.FindStringSubmatch(joined)
	if m == nil {
		return 0, false
	}
	mo, ok := ParseMonth(m[1])
	if !ok {
		return 0, false
	}
	d, ok := ParseDay(m[2])
	if !ok {
		return 0, false
	}
	y, ok := ParseYear(m[3])
	if !ok {
		return 0, false
	}
	return CivilMillis(d, mo, y)
}

// DefaultFormats returns every named format in the registry.
func DefaultFormats() []Format {
	return []Format{
		ddMon{needsYear: true},
		ddMonYYYY{},
		monDDYYYY{},
		monDD{needsYear: true},
		rangeForm{},
		regexFormat{name: "DD/M/YYYY", pattern: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), yearInText: true},
		regexFormat{name: "DD/M/YY", pattern: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`), yearInText: true},
		regexFormat{name: "DD-M-YYYY", pattern: regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`), yearInText: true},
		regexFormat{name: "DD-M-YY", pattern: regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{2})$`), yearInText: true},
		regexFormat{name: "MM/DD/YYYY", pattern: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), monthFirst: true, yearInText: true},
		regexFormat{name: "MM/DD/YY", pattern: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`), monthFirst: true, yearInText: true},
		regexFormat{name: "YYYY-MM-DD", pattern: regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`), yearFirst: true, yearInText: true},
		regexFormat{needsYear: true, name: "MM/DD", pattern: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`), monthFirst: true, yearInText: false},
	}
}

// ByNames resolves a list of format names against the built-in registry,
// silently skipping unknown names.
func ByNames(names []string) []Format {
	var formats []Format
	for _, n := range names {
		if f, ok := ByName(n); ok {
			formats = append(formats, f)
		}
	}
	return formats
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

// Dispatcher tries a set of formats longest-first (by NumTerms descending,
// ties preserving registration order).
type Dispatcher struct {
	formats []Format
}

// NewDispatcher builds a dispatcher from an explicit list of formats (a
// StatementConfig names exactly the formats valid for its layout — many
// single-token formats are mutually ambiguous, e.g. DD/M/YYYY vs
// MM/DD/YYYY, and are never enabled together for one statement).
func NewDispatcher(formats []Format) *Dispatcher {
	sorted := make([]Format, len(formats))
	copy(sorted, formats)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].NumTerms() > sorted[j].NumTerms() })
	return &Dispatcher{formats: sorted}
}

// NewDispatcherByNames resolves format names against the built-in registry.
func NewDispatcherByNames(names []string) *Dispatcher {
	var formats []Format
	for _, n := range names {
		if f, ok := ByName(n); ok {
			formats = append(formats, f)
		}
	}
	return NewDispatcher(formats)
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

// Parse tries each format in order, truncating terms (from the front) to
// each format's NumTerms, returning the first match and terms consumed.
func (d *Dispatcher) Parse(terms []string, yearHint string) (millis int64, consumed int, ok bool) {
	for _, f := range d.formats {
		n := f.NumTerms()
		if n > len(terms) {
			continue
		}
		if v, matched := f.Parse(terms[:n], yearHint); matched {
			return v, n, true
		}
	}
	return 0, 0, false
}
