// Package engine runs a full rebate calculation over a transaction set.
package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"rebate-engine/internal/domain"
	"rebate-engine/internal/matcher"
	"rebate-engine/internal/rateselect"
	"rebate-engine/internal/refdata"
)

// Options configures a calculation run.
type Options struct {
	// Period picks the monthly or yearly table slots. It is never derived from transaction dates.
	Period domain.RatePeriod
	// Levels assigns the rebate tier per transaction. Defaults to level 1 for everyone.
	Levels rateselect.LevelResolver
	// Workers > 1 shards the transaction set. Output order is unaffected.
	Workers int
	// EmitZeroRebates emits a zero-amount record when the matched tier is unset.
	EmitZeroRebates bool
}

// Engine orchestrates matching and rate selection across a transaction set.
type Engine struct {
	opts Options
}

// New creates an engine. A zero Period means monthly.
func New(opts Options) *Engine {
	if opts.Period == "" {
		opts.Period = domain.PeriodMonthly
	}
	if opts.Levels == nil {
		opts.Levels = rateselect.StaticLevels{Default: 1}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{opts: opts}
}

// outcome is the per-transaction result, assembled in input order after all work is done.
type outcome struct {
	rebates    []domain.CalculatedRebate
	errs       []error
	skipped    bool
	matched    bool
	ambiguous  int
	zeroRate   int
	suppressed int
}

// CalculateAll computes rebates for every transaction against the snapshot.
// Per-row problems are collected in the result's Errors; only a nil snapshot
// or a cancelled context returns an error.
func (e *Engine) CalculateAll(ctx context.Context, transactions []domain.TransactionRecord, snap *refdata.Snapshot) (*domain.CalculationResult, error) {
	if snap == nil {
		return nil, domain.ErrNilReferenceData
	}

	result := &domain.CalculationResult{
		Summary: domain.Summary{
			RatePeriod:     e.opts.Period,
			TotalRebateEUR: make(map[domain.CalculationType]decimal.Decimal),
		},
		CalculatedRebates: make([]domain.CalculatedRebate, 0),
		Unmatched:         make([]string, 0),
		Errors:            make([]error, 0),
	}
	if len(transactions) == 0 {
		return result, nil
	}

	result.Errors = append(result.Errors, e.checkTables(snap)...)

	duplicates := domain.TransactionSet(transactions).DuplicateIDs()
	m := matcher.New(snap, e.opts.Period)
	outcomes := make([]outcome, len(transactions))

	if err := e.run(ctx, len(transactions), func(i int) {
		if id, dup := duplicates[i]; dup {
			outcomes[i] = outcome{
				skipped: true,
				errs:    []error{&domain.ValidationError{TransactionID: id, Field: "transaction_id", Message: "duplicate transaction id"}},
			}
			return
		}
		outcomes[i] = e.calculate(m, transactions[i])
	}); err != nil {
		return nil, fmt.Errorf("calculation aborted: %w", err)
	}

	for i, out := range outcomes {
		result.Summary.TotalTransactions++
		result.Errors = append(result.Errors, out.errs...)
		result.Summary.AmbiguousMatches += out.ambiguous
		result.Summary.ZeroRateMatches += out.zeroRate
		result.Summary.SpecialCasesSuppressed += out.suppressed

		switch {
		case out.skipped:
			result.Summary.SkippedTransactions++
			continue
		case !out.matched:
			result.Summary.UnmatchedTransactions++
			result.Unmatched = append(result.Unmatched, transactions[i].TransactionID)
			continue
		}

		if len(out.rebates) > 0 {
			result.Summary.RebatedTransactions++
		}
		for _, r := range out.rebates {
			total := result.Summary.TotalRebateEUR[r.CalculationType]
			result.Summary.TotalRebateEUR[r.CalculationType] = total.Add(r.RebateAmountEUR)
		}
		result.CalculatedRebates = append(result.CalculatedRebates, out.rebates...)
	}

	log.Info().
		Str("period", string(e.opts.Period)).
		Int("transactions", result.Summary.TotalTransactions).
		Int("rebates", len(result.CalculatedRebates)).
		Int("unmatched", result.Summary.UnmatchedTransactions).
		Int("skipped", result.Summary.SkippedTransactions).
		Int("ambiguous", result.Summary.AmbiguousMatches).
		Int("errors", len(result.Errors)).
		Msg("calculation run completed")

	return result, nil
}

// checkTables reports each rate table of the run period that was never imported, once per run.
func (e *Engine) checkTables(snap *refdata.Snapshot) []error {
	var errs []error
	for _, id := range []domain.TableID{
		domain.CardNetworkTable(e.opts.Period),
		domain.PartnerPaymentTable(e.opts.Period),
	} {
		if !snap.Imported(id) {
			errs = append(errs, &domain.ConfigurationError{Table: id, Message: "table was never imported; no rebates will be calculated on this path"})
		}
	}
	return errs
}

// run calls fn for every index in [0, n). With more than one worker the range is split
// into contiguous shards; fn writes only its own index, so no further synchronisation is needed.
func (e *Engine) run(ctx context.Context, n int, fn func(i int)) error {
	workers := e.opts.Workers
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			if i%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			fn(i)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	shard := (n + workers - 1) / workers
	for start := 0; start < n; start += shard {
		start, end := start, start+shard
		if end > n {
			end = n
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				fn(i)
			}
			return nil
		})
	}
	return g.Wait()
}
