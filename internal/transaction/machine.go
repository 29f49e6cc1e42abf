package transaction

import (
	"github.com/insightdelivered/statement-extractor/internal/baseparse"
	"github.com/insightdelivered/statement-extractor/internal/config"
	"github.com/insightdelivered/statement-extractor/internal/formats/amount"
	"github.com/insightdelivered/statement-extractor/internal/formats/date"
	"github.com/insightdelivered/statement-extractor/internal/statement"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

// Machine drives one config's transaction table extraction over a single
// token stream: a start/stop-gated loop that feeds tokens to column
// sub-parsers in a fixed field order and assembles ProtoTransaction rows.
type Machine struct {
	cfg *config.Compiled

	startPrimer *baseparse.TermsParser
	stopPrimer  *baseparse.TermsParser

	date    *DateSub
	amount  *AmountSub
	invert  *AmountSub
	balance *AmountSub
	desc    *DescriptionSub

	newLineTol int

	newLineFields  map[config.TransactionField]bool
	endLineFields  map[config.TransactionField]bool
	allFields      map[config.TransactionField]bool
	compulsory     map[config.TransactionField]bool

	started bool
	stopped bool

	row      statement.ProtoTransaction
	haveRow  bool
	lastY    int
	haveLastY bool

	rows []statement.ProtoTransaction
}

// New builds a Machine for cfg. yearHint seeds the date sub's year for
// formats that need one (typically the statement's start-date year).
func New(cfg *config.Compiled, yearHint string) *Machine {
	m := &Machine{cfg: cfg, newLineTol: cfg.TransactionNewLineTol}

	m.startPrimer = baseparse.NewTermsParser(cfg.TransactionTerms)
	if len(cfg.TransactionTermsStop) > 0 {
		m.stopPrimer = baseparse.NewTermsParser(cfg.TransactionTermsStop)
	}

	tol := cfg.TransactionAlignmentTol
	m.date = NewDateSub(cfg.TransactionDateHeaders, tol, date.ByNames(cfg.TransactionDateFormats))
	m.date.SetYearHint(yearHint)
	m.amount = NewAmountSub(cfg.TransactionAmountHeaders, tol, amount.ByNames(cfg.TransactionAmountFormats), false)
	m.balance = NewAmountSub(cfg.TransactionBalanceHeaders, tol, amount.ByNames(cfg.TransactionBalanceFormats), cfg.TransactionBalanceInvert)
	if len(cfg.TransactionAmountInvertHeaders) > 0 {
		m.invert = NewAmountSub(cfg.TransactionAmountInvertHeaders, tol, amount.ByNames(cfg.TransactionAmountFormats), true)
	}
	m.desc = NewDescriptionSub(cfg.TransactionDescriptionHeaders, tol, cfg.DescriptionExcludeRegex)

	m.newLineFields, m.endLineFields, m.allFields, m.compulsory = computeDerived(cfg.TransactionFormats)

	m.date.Prime()
	m.amount.Prime()
	m.balance.Prime()
	if m.invert != nil {
		m.invert.Prime()
	}

	return m
}

// computeDerived reduces a config's row-shape alternatives to the sets the
// driver needs: which fields legitimately open a row, which close one, the
// full alphabet of fields this config uses, and which fields are present in
// every alternative (required for a row to be considered complete).
func computeDerived(formats [][]config.TransactionField) (newLine, endLine, all, compulsory map[config.TransactionField]bool) {
	newLine = map[config.TransactionField]bool{}
	endLine = map[config.TransactionField]bool{}
	all = map[config.TransactionField]bool{}
	counts := map[config.TransactionField]int{}

	for _, shape := range formats {
		if len(shape) == 0 {
			continue
		}
		newLine[shape[0]] = true
		endLine[shape[len(shape)-1]] = true
		seen := map[config.TransactionField]bool{}
		for _, f := range shape {
			all[f] = true
			if !seen[f] {
				counts[f] = counts[f] + 1
				seen[f] = true
			}
		}
	}
	compulsory = map[config.TransactionField]bool{}
	for f, c := range counts {
		if c == len(formats) {
			compulsory[f] = true
		}
	}
	return
}

// Run drives the machine to completion over tokens and returns the
// assembled rows.
func (m *Machine) Run(tokens []token.Token) []statement.ProtoTransaction {
	pos := 0
	for pos < len(tokens) && !m.stopped {
		n := m.step(tokens[pos:])
		if n == 0 {
			pos++
			continue
		}
		pos += n
	}
	m.flushIfComplete()
	return m.rows
}

func (m *Machine) rowComplete() bool {
	if !m.haveRow {
		return false
	}
	for f := range m.compulsory {
		switch f {
		case config.FieldDate:
			if m.row.Date == nil {
				return false
			}
		case config.FieldAmount:
			if m.row.Amount == nil {
				return false
			}
		case config.FieldBalance:
			if m.row.Balance == nil {
				return false
			}
		case config.FieldDescription:
			if m.row.Description == "" {
				return false
			}
		}
	}
	return true
}

func (m *Machine) flushIfComplete() {
	m.flushRow(false)
}

// flushRow emits the current row if force is set, or if it already
// satisfies every compulsory field, then resets row-scoped state.
func (m *Machine) flushRow(force bool) {
	if !force && !m.rowComplete() {
		return
	}
	if !m.haveRow {
		return
	}
	m.row.Index = uint(len(m.rows))
	m.rows = append(m.rows, m.row.Clone())
	m.row = statement.ProtoTransaction{}
	m.haveRow = false
	if m.desc != nil {
		m.desc.Reset()
	}
}

func (m *Machine) step(tokens []token.Token) int {
	if !m.started {
		if n := m.startPrimer.Parse(tokens); n > 0 {
			m.started = true
			return n
		}
		return 0
	}

	if m.stopPrimer != nil {
		if n := m.stopPrimer.Parse(tokens); n > 0 {
			m.stopped = true
			return n
		}
	}

	if n := m.tryHeaders(tokens); n > 0 {
		return n
	}

	head := tokens[0]
	if m.haveLastY && absInt(head.Y1-m.lastY) > m.newLineTol {
		m.handleNewLine(head)
	}
	m.lastY = head.Y1
	m.haveLastY = true

	if n := m.tryFields(tokens); n > 0 {
		return n
	}
	return 0
}

func (m *Machine) tryHeaders(tokens []token.Token) int {
	if n := m.date.TryHeader(tokens); n > 0 {
		return n
	}
	if n := m.amount.TryHeader(tokens); n > 0 {
		return n
	}
	if m.invert != nil {
		if n := m.invert.TryHeader(tokens); n > 0 {
			return n
		}
	}
	if n := m.balance.TryHeader(tokens); n > 0 {
		return n
	}
	if n := m.desc.TryHeader(tokens); n > 0 {
		return n
	}
	return 0
}

// hasNewLineFields reports whether every field that can open a row (the
// first field of some configured shape) is already set on the current row.
func (m *Machine) hasNewLineFields() bool {
	if !m.haveRow {
		return false
	}
	for f := range m.newLineFields {
		switch f {
		case config.FieldDate:
			if m.row.Date == nil {
				return false
			}
		case config.FieldAmount:
			if m.row.Amount == nil {
				return false
			}
		case config.FieldBalance:
			if m.row.Balance == nil {
				return false
			}
		case config.FieldDescription:
			if m.row.Description == "" {
				return false
			}
		}
	}
	return true
}

// handleNewLine flushes the current row up front when a new text line
// begins and the row already satisfies every compulsory field, or has
// already captured every field able to open a row (covering shapes whose
// compulsory intersection is small but whose row-opening field is a clear
// boundary) — a fresh line beginning means what follows starts a new row,
// not a continuation (e.g. a wrapped description) of the current one.
func (m *Machine) handleNewLine(head token.Token) {
	if m.rowComplete() || m.hasNewLineFields() {
		m.flushRow(true)
	}
}

// tryFields attempts date/amount/balance/description in order, skipping a
// field already captured for the current row: a sub stays re-primed after
// each capture (afterFieldParsed), but it must not overwrite the row's
// value with a second, unrelated match before the row flushes.
func (m *Machine) tryFields(tokens []token.Token) int {
	if m.allFields[config.FieldDate] && m.row.Date == nil {
		if n := m.date.Parse(tokens); n > 0 {
			v, _ := m.date.Value()
			m.row.Date = &v
			m.haveRow = true
			m.afterFieldParsed(config.FieldDate, m.date)
			return n
		}
	}
	if m.allFields[config.FieldAmount] && m.row.Amount == nil {
		if n := m.amount.Parse(tokens); n > 0 {
			v, _ := m.amount.Value()
			m.row.Amount = &v
			m.haveRow = true
			m.afterFieldParsed(config.FieldAmount, m.amount)
			return n
		}
	}
	if m.invert != nil && m.row.Amount == nil {
		if n := m.invert.Parse(tokens); n > 0 {
			v, _ := m.invert.Value()
			m.row.Amount = &v
			m.haveRow = true
			m.afterFieldParsed(config.FieldAmount, m.invert)
			return n
		}
	}
	if m.allFields[config.FieldBalance] && m.row.Balance == nil {
		if n := m.balance.Parse(tokens); n > 0 {
			v, _ := m.balance.Value()
			m.row.Balance = &v
			m.haveRow = true
			m.afterFieldParsed(config.FieldBalance, m.balance)
			return n
		}
	}
	if m.allFields[config.FieldDescription] {
		if n := m.desc.Parse(tokens); n > 0 {
			m.row.Description = m.desc.Text()
			m.haveRow = true
			return n
		}
	}
	return 0
}

// reprimable is the subset of sub-parser behavior afterFieldParsed needs to
// re-arm a column after it captures a value.
type reprimable interface {
	Reset()
	Prime()
}

// afterFieldParsed performs both actions the driver takes once a field is
// captured, in order: emit the row if field closes it and every compulsory
// field is already set, then unconditionally re-prime the sub so it can
// capture the field's next occurrence.
func (m *Machine) afterFieldParsed(field config.TransactionField, sub reprimable) {
	if m.endLineFields[field] && m.rowComplete() {
		m.flushIfComplete()
	}
	sub.Reset()
	sub.Prime()
}
