// Package orchestrator drives one extracted token stream through every
// candidate config the typer identifies, returning the first attempt that
// comes out clean — mirroring how a human would try one bank's layout
// after another until the numbers reconcile.
package orchestrator

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-extractor/internal/checkers"
	"github.com/insightdelivered/statement-extractor/internal/config"
	"github.com/insightdelivered/statement-extractor/internal/fixers"
	"github.com/insightdelivered/statement-extractor/internal/pipelineerr"
	"github.com/insightdelivered/statement-extractor/internal/statement"
	"github.com/insightdelivered/statement-extractor/internal/token"
	"github.com/insightdelivered/statement-extractor/internal/transaction"
	"github.com/insightdelivered/statement-extractor/internal/typer"
)

// Orchestrator ties the typer and per-config attempt pipeline together
// over one config registry.
type Orchestrator struct {
	registry *config.Registry
	typer    *typer.Typer
	log      zerolog.Logger
}

// New builds an Orchestrator over registry, logging one line per attempt
// through logger.
func New(registry *config.Registry, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{registry: registry, typer: typer.New(registry), log: logger}
}

// Attempt runs one (config, token store) pair end to end: y-patch, the
// statement-level field parsers, the transaction machine, the fixer
// pipeline, and the checkers. Returns the resulting StatementData
// regardless of whether it came out clean — callers use (*StatementData).OK.
func Attempt(cfg *config.Compiled, store *token.Store) *statement.StatementData {
	work := store.Clone()
	if cfg.ApplyYPatch {
		work.YPatch(cfg.ApplyYPatchLineHeight)
		work.FixYDisorder()
	}

	sd := &statement.StatementData{Key: cfg.Key}

	fp, err := statement.NewFieldParsers(cfg)
	if err != nil {
		sd.AddError(err.Error())
		return sd
	}

	tokens := work.All()
	pos := 0
	for pos < len(tokens) {
		n := fp.Step(tokens[pos:])
		if n == 0 {
			pos++
			continue
		}
		pos += n
	}
	fp.ApplyTo(sd)

	if cfg.TransactionStartDateRequired && sd.StartDate == nil {
		sd.AddError(pipelineerr.NewConfigStateViolation(
			"transaction_start_date_required but no start date was captured").Error())
		return sd
	}

	yearHint := ""
	if sd.StartDateYear != nil {
		yearHint = strconv.Itoa(*sd.StartDateYear)
	}
	machine := transaction.New(cfg, yearHint)
	sd.ProtoTransactions = machine.Run(tokens)

	if err := fixers.Run(sd); err != nil {
		sd.AddError(err.Error())
		return sd
	}
	if err := checkers.Run(sd); err != nil {
		sd.AddError(err.Error())
		return sd
	}

	return sd
}

// Run identifies every candidate config for store and returns the first
// attempt with no checker errors. If every candidate fails its checks, it
// returns an AllConfigsFailedChecks error carrying every attempt's
// messages for diagnostics.
func (o *Orchestrator) Run(store *token.Store) (*statement.StatementData, error) {
	keys := o.typer.Identify(store.All())
	if len(keys) == 0 {
		return nil, pipelineerr.NewUnsupportedStatement()
	}

	attempts := make(map[string][]string)
	for _, key := range keys {
		cfg, ok := o.registry.Get(key)
		if !ok {
			continue
		}
		sd := Attempt(cfg, store)
		o.log.Info().Str("config", key).Bool("ok", sd.OK()).Int("transactions", len(sd.ProtoTransactions)).Msg("attempted config")
		if sd.OK() {
			return sd, nil
		}
		attempts[key] = sd.Errors
	}
	return nil, pipelineerr.NewAllConfigsFailedChecks(attempts)
}

// RunAll is the debug variant of Run: it identifies every candidate and
// returns every attempt's StatementData, not just the first clean one.
func (o *Orchestrator) RunAll(store *token.Store) []*statement.StatementData {
	keys := o.typer.Identify(store.All())
	results := make([]*statement.StatementData, 0, len(keys))
	for _, key := range keys {
		cfg, ok := o.registry.Get(key)
		if !ok {
			continue
		}
		results = append(results, Attempt(cfg, store))
	}
	return results
}
