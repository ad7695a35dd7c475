package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"rebate-engine/internal/domain"
)

// SQLiteStore persists the latest calculation run and its rebates.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens the database at path and initializes the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared between calls
	conn.SetMaxOpenConns(1)

	store := &SQLiteStore{conn: conn}
	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS calculation_runs (
			id TEXT PRIMARY KEY,
			rate_period TEXT NOT NULL,
			reporting_year INTEGER NOT NULL,
			reporting_month INTEGER NOT NULL,
			calculated_at TEXT NOT NULL,
			total_transactions INTEGER NOT NULL,
			unmatched_transactions INTEGER NOT NULL,
			skipped_transactions INTEGER NOT NULL,
			ambiguous_matches INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS calculated_rebates (
			run_id TEXT NOT NULL REFERENCES calculation_runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			transaction_id TEXT NOT NULL,
			provider_customer_code TEXT NOT NULL,
			product_name TEXT NOT NULL,
			rebate_level INTEGER NOT NULL,
			rebate_percentage TEXT NOT NULL,
			rebate_amount TEXT NOT NULL,
			rebate_amount_eur TEXT NOT NULL,
			currency TEXT NOT NULL,
			calculation_type TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE TABLE IF NOT EXISTS run_unmatched (
			run_id TEXT NOT NULL REFERENCES calculation_runs(id) ON DELETE CASCADE,
			transaction_id TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_errors (
			run_id TEXT NOT NULL REFERENCES calculation_runs(id) ON DELETE CASCADE,
			message TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rebates_transaction ON calculated_rebates(transaction_id)`,
	}

	for _, query := range queries {
		if _, err := s.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}
	return nil
}

// ReplaceRebates stores a run, clearing every previously stored run in the same transaction.
func (s *SQLiteStore) ReplaceRebates(ctx context.Context, run domain.CalculationRun, result *domain.CalculationResult) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM calculation_runs`); err != nil {
		return fmt.Errorf("failed to clear previous runs: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO calculation_runs (
		id, rate_period, reporting_year, reporting_month, calculated_at,
		total_transactions, unmatched_transactions, skipped_transactions, ambiguous_matches
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		string(run.RatePeriod),
		run.ReportingYear,
		run.ReportingMonth,
		run.CalculatedAt.UTC().Format(time.RFC3339),
		result.Summary.TotalTransactions,
		result.Summary.UnmatchedTransactions,
		result.Summary.SkippedTransactions,
		result.Summary.AmbiguousMatches,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO calculated_rebates (
		run_id, seq, transaction_id, provider_customer_code, product_name, rebate_level,
		rebate_percentage, rebate_amount, rebate_amount_eur, currency, calculation_type
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range result.CalculatedRebates {
		_, err := stmt.ExecContext(ctx,
			run.ID,
			i,
			r.TransactionID,
			r.ProviderCode,
			r.ProductName,
			r.RebateLevel,
			r.RebatePercentage.String(),
			r.RebateAmount.StringFixed(2),
			r.RebateAmountEUR.StringFixed(2),
			r.Currency,
			string(r.CalculationType),
		)
		if err != nil {
			return fmt.Errorf("failed to insert rebate for transaction %s: %w", r.TransactionID, err)
		}
	}

	for _, id := range result.Unmatched {
		if _, err := tx.ExecContext(ctx, `INSERT INTO run_unmatched (run_id, transaction_id) VALUES (?, ?)`, run.ID, id); err != nil {
			return fmt.Errorf("failed to insert unmatched transaction %s: %w", id, err)
		}
	}
	for _, msg := range result.ErrorMessages() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO run_errors (run_id, message) VALUES (?, ?)`, run.ID, msg); err != nil {
			return fmt.Errorf("failed to insert run error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LatestRun returns the stored run, if any.
func (s *SQLiteStore) LatestRun(ctx context.Context) (domain.CalculationRun, bool, error) {
	var (
		run          domain.CalculationRun
		period       string
		calculatedAt string
	)
	err := s.conn.QueryRowContext(ctx, `SELECT id, rate_period, reporting_year, reporting_month, calculated_at
		FROM calculation_runs ORDER BY calculated_at DESC LIMIT 1`).
		Scan(&run.ID, &period, &run.ReportingYear, &run.ReportingMonth, &calculatedAt)
	if err == sql.ErrNoRows {
		return domain.CalculationRun{}, false, nil
	}
	if err != nil {
		return domain.CalculationRun{}, false, fmt.Errorf("failed to query latest run: %w", err)
	}
	run.RatePeriod = domain.RatePeriod(period)
	if run.CalculatedAt, err = time.Parse(time.RFC3339, calculatedAt); err != nil {
		return domain.CalculationRun{}, false, fmt.Errorf("failed to parse calculated_at: %w", err)
	}
	return run, true, nil
}

// ListRebates returns the stored rebates of a run in calculation order.
func (s *SQLiteStore) ListRebates(ctx context.Context, runID string) ([]domain.CalculatedRebate, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT r.transaction_id, r.provider_customer_code, r.product_name,
			r.rebate_level, r.rebate_percentage, r.rebate_amount, r.rebate_amount_eur,
			r.currency, r.calculation_type, c.rate_period
		FROM calculated_rebates r
		JOIN calculation_runs c ON c.id = r.run_id
		WHERE r.run_id = ?
		ORDER BY r.seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rebates: %w", err)
	}
	defer rows.Close()

	var rebates []domain.CalculatedRebate
	for rows.Next() {
		var (
			r                domain.CalculatedRebate
			pct, amount, eur string
			calcType, period string
		)
		if err := rows.Scan(&r.TransactionID, &r.ProviderCode, &r.ProductName, &r.RebateLevel,
			&pct, &amount, &eur, &r.Currency, &calcType, &period); err != nil {
			return nil, fmt.Errorf("failed to scan rebate: %w", err)
		}
		if r.RebatePercentage, err = decimal.NewFromString(pct); err != nil {
			return nil, fmt.Errorf("failed to parse rebate_percentage: %w", err)
		}
		if r.RebateAmount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse rebate_amount: %w", err)
		}
		if r.RebateAmountEUR, err = decimal.NewFromString(eur); err != nil {
			return nil, fmt.Errorf("failed to parse rebate_amount_eur: %w", err)
		}
		r.CalculationType = domain.CalculationType(calcType)
		r.RatePeriod = domain.RatePeriod(period)
		rebates = append(rebates, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rebates: %w", err)
	}
	return rebates, nil
}
