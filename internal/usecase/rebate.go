package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"rebate-engine/internal/domain"
	"rebate-engine/internal/engine"
	"rebate-engine/internal/refdata"
)

// ReferenceFiles lists the reference tables to import for one rate period.
// Empty paths leave the corresponding table untouched.
type ReferenceFiles struct {
	Period         domain.RatePeriod
	CardNetwork    string
	PartnerPayment string
	SpecialCases   string
}

// CalculateCommand contains the parameters of one calculation run.
type CalculateCommand struct {
	TransactionsPath string
	Period           domain.RatePeriod
	ReportingYear    int
	ReportingMonth   int
	ExportPath       string
}

// RunReport is the top-level structure for the final JSON output.
type RunReport struct {
	Run    domain.CalculationRun     `json:"run"`
	Result *domain.CalculationResult `json:"result"`
}

// RebateUseCase orchestrates import, calculation and persistence.
type RebateUseCase struct {
	importer ImportRepository
	store    *refdata.Store
	rebates  RebateRepository
	exporter RebateExporter
	options  engine.Options
	now      func() time.Time
	newRunID func() string
}

// NewRebateUseCase creates a new instance of the usecase. rebates and exporter may be nil.
func NewRebateUseCase(importer ImportRepository, store *refdata.Store, rebates RebateRepository, exporter RebateExporter, options engine.Options) *RebateUseCase {
	return &RebateUseCase{
		importer: importer,
		store:    store,
		rebates:  rebates,
		exporter: exporter,
		options:  options,
		now:      time.Now,
		newRunID: func() string { return uuid.NewString() },
	}
}

// ImportReferenceData replaces each reference table named in files.
// A table that fails to load or validate is left as it was.
func (uc *RebateUseCase) ImportReferenceData(ctx context.Context, files ReferenceFiles) error {
	if files.CardNetwork != "" {
		rows, err := uc.importer.GetCardNetworkRates(ctx, files.CardNetwork)
		if err != nil {
			return fmt.Errorf("could not get card-network rates: %w", err)
		}
		if err := uc.store.ReplaceCardNetworkRates(files.Period, rows); err != nil {
			return fmt.Errorf("could not replace card-network rates: %w", err)
		}
		log.Info().Str("table", string(domain.CardNetworkTable(files.Period))).Int("rows", len(rows)).Msg("reference table imported")
	}

	if files.PartnerPayment != "" {
		rows, err := uc.importer.GetPartnerPaymentRates(ctx, files.PartnerPayment)
		if err != nil {
			return fmt.Errorf("could not get partner-payment rates: %w", err)
		}
		if err := uc.store.ReplacePartnerPaymentRates(files.Period, rows); err != nil {
			return fmt.Errorf("could not replace partner-payment rates: %w", err)
		}
		log.Info().Str("table", string(domain.PartnerPaymentTable(files.Period))).Int("rows", len(rows)).Msg("reference table imported")
	}

	if files.SpecialCases != "" {
		rows, err := uc.importer.GetSpecialCases(ctx, files.SpecialCases)
		if err != nil {
			return fmt.Errorf("could not get special cases: %w", err)
		}
		if err := uc.store.ReplaceSpecialCases(rows); err != nil {
			return fmt.Errorf("could not replace special cases: %w", err)
		}
		log.Info().Str("table", string(domain.TableSpecialCases)).Int("rows", len(rows)).Msg("reference table imported")
	}

	return nil
}

// Calculate loads the transaction set, runs the engine against a snapshot of the
// reference data and hands the result to the persistence and export collaborators.
func (uc *RebateUseCase) Calculate(ctx context.Context, cmd CalculateCommand) (*RunReport, error) {
	transactions, err := uc.importer.GetTransactions(ctx, cmd.TransactionsPath)
	if err != nil {
		return nil, fmt.Errorf("could not get transactions: %w", err)
	}

	opts := uc.options
	opts.Period = cmd.Period
	result, err := engine.New(opts).CalculateAll(ctx, transactions, uc.store.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("could not calculate rebates: %w", err)
	}

	report := &RunReport{
		Run: domain.CalculationRun{
			ID:             uc.newRunID(),
			RatePeriod:     result.Summary.RatePeriod,
			ReportingYear:  cmd.ReportingYear,
			ReportingMonth: cmd.ReportingMonth,
			CalculatedAt:   uc.now().UTC(),
		},
		Result: result,
	}

	if uc.rebates != nil {
		if err := uc.rebates.ReplaceRebates(ctx, report.Run, result); err != nil {
			return nil, fmt.Errorf("could not store rebates: %w", err)
		}
		log.Info().Str("run_id", report.Run.ID).Int("rebates", len(result.CalculatedRebates)).Msg("rebates stored")
	}

	if uc.exporter != nil && cmd.ExportPath != "" {
		if err := uc.exporter.ExportRebates(ctx, cmd.ExportPath, result.CalculatedRebates); err != nil {
			return nil, fmt.Errorf("could not export rebates: %w", err)
		}
	}

	return report, nil
}
