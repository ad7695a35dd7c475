package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rebate-engine/internal/config"
	"rebate-engine/internal/engine"
	"rebate-engine/internal/gateway"
	"rebate-engine/internal/rateselect"
	"rebate-engine/internal/refdata"
	"rebate-engine/internal/usecase"
)

func main() {
	// Define command-line flags
	configFile := flag.String("config", "", "Path to a JSON config file")
	transactionsFile := flag.String("transactions", "", "Path to the transactions CSV file (required)")
	cardRatesFile := flag.String("card-rates", "", "Path to the card-network rate table CSV")
	partnerRatesFile := flag.String("partner-rates", "", "Path to the partner-payment rate table CSV")
	specialCasesFile := flag.String("special-cases", "", "Path to the special-case rules CSV")
	period := flag.String("period", "", "Rate table slot to use: monthly or yearly")
	year := flag.Int("year", 0, "Reporting year label")
	month := flag.Int("month", 0, "Reporting month label")
	level := flag.Int("level", 0, "Default rebate level (1-8)")
	workers := flag.Int("workers", 0, "Number of calculation workers")
	dbPath := flag.String("db", "", "SQLite database for storing the result")
	exportFile := flag.String("export", "", "Write calculated rebates to this CSV file")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if *transactionsFile == "" {
		fmt.Fprintln(os.Stderr, "Error: the -transactions flag is required.")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Flags override file and environment configuration
	if *period != "" {
		cfg.Reporting.Period = *period
	}
	if *year != 0 {
		cfg.Reporting.Year = *year
	}
	if *month != 0 {
		cfg.Reporting.Month = *month
	}
	if *level != 0 {
		cfg.Calculation.DefaultLevel = *level
	}
	if *workers != 0 {
		cfg.Calculation.Workers = *workers
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	files := inputFiles{
		Transactions:   *transactionsFile,
		CardNetwork:    *cardRatesFile,
		PartnerPayment: *partnerRatesFile,
		SpecialCases:   *specialCasesFile,
		Export:         *exportFile,
	}
	if err := run(context.Background(), cfg, files, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("rebate calculation failed")
	}
}

// inputFiles are the paths a single run reads from and writes to.
type inputFiles struct {
	Transactions   string
	CardNetwork    string
	PartnerPayment string
	SpecialCases   string
	Export         string
}

// run wires the application and prints the JSON report to out. It returns instead of exiting
// so deferred cleanup such as closing the database always happens.
func run(ctx context.Context, cfg *config.Config, files inputFiles, out io.Writer) error {
	ratePeriod, err := cfg.RatePeriod()
	if err != nil {
		return err
	}

	// --- Dependency Injection (Wiring the application) ---
	reader := gateway.NewCSVReader()
	store := refdata.NewStore()

	var rebates usecase.RebateRepository
	if cfg.Database.Path != "" {
		sqliteStore, err := gateway.NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database %s: %w", cfg.Database.Path, err)
		}
		defer sqliteStore.Close()
		rebates = sqliteStore
	}

	uc := usecase.NewRebateUseCase(reader, store, rebates, gateway.NewCSVWriter(), engine.Options{
		Levels: rateselect.StaticLevels{
			Default:    cfg.Calculation.DefaultLevel,
			ByProvider: cfg.Calculation.ProviderLevels,
		},
		Workers:         cfg.Calculation.Workers,
		EmitZeroRebates: cfg.Calculation.EmitZeroRebates,
	})

	// --- Execute the Usecase ---
	err = uc.ImportReferenceData(ctx, usecase.ReferenceFiles{
		Period:         ratePeriod,
		CardNetwork:    files.CardNetwork,
		PartnerPayment: files.PartnerPayment,
		SpecialCases:   files.SpecialCases,
	})
	if err != nil {
		return fmt.Errorf("reference data import failed: %w", err)
	}

	report, err := uc.Calculate(ctx, usecase.CalculateCommand{
		TransactionsPath: files.Transactions,
		Period:           ratePeriod,
		ReportingYear:    cfg.Reporting.Year,
		ReportingMonth:   cfg.Reporting.Month,
		ExportPath:       files.Export,
	})
	if err != nil {
		return fmt.Errorf("calculation failed: %w", err)
	}

	// --- Present the Output ---
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate JSON report: %w", err)
	}
	_, err = fmt.Fprintln(out, string(output))
	return err
}
