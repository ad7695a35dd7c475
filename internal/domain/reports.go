package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CalculationType identifies the path that produced a rebate.
type CalculationType string

const (
	CalcSpecialCase    CalculationType = "special-case"
	CalcCardNetwork    CalculationType = "card-network"
	CalcPartnerPayment CalculationType = "partner-payment"
)

// CalculatedRebate is the output of one (transaction, matched rate) pairing.
type CalculatedRebate struct {
	TransactionID    string          `json:"transaction_id"`
	ProviderCode     string          `json:"provider_customer_code"`
	ProductName      string          `json:"product_name"`
	RebateLevel      int             `json:"rebate_level"`
	RebatePercentage decimal.Decimal `json:"rebate_percentage"`
	RebateAmount     decimal.Decimal `json:"rebate_amount"`
	RebateAmountEUR  decimal.Decimal `json:"rebate_amount_eur"`
	Currency         string          `json:"currency"`
	CalculationType  CalculationType `json:"calculation_type"`
	RatePeriod       RatePeriod      `json:"rate_period"`
}

// Summary provides high-level statistics of a calculation run.
type Summary struct {
	RatePeriod             RatePeriod                          `json:"rate_period"`
	TotalTransactions      int                                 `json:"total_transactions"`
	RebatedTransactions    int                                 `json:"rebated_transactions"`
	UnmatchedTransactions  int                                 `json:"unmatched_transactions"`
	SkippedTransactions    int                                 `json:"skipped_transactions"`
	ZeroRateMatches        int                                 `json:"zero_rate_matches"`
	AmbiguousMatches       int                                 `json:"ambiguous_matches"`
	SpecialCasesSuppressed int                                 `json:"special_cases_suppressed"`
	TotalRebateEUR         map[CalculationType]decimal.Decimal `json:"total_rebate_eur"`
}

// CalculationResult is everything a run returns. A new run replaces the previous result as a unit.
type CalculationResult struct {
	Summary           Summary            `json:"summary"`
	CalculatedRebates []CalculatedRebate `json:"calculated_rebates"`
	Unmatched         []string           `json:"unmatched"`
	Errors            []error            `json:"-"`
}

// ErrorMessages renders the collected per-row and run-level errors.
func (r *CalculationResult) ErrorMessages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// MarshalJSON includes the error list as strings.
func (r *CalculationResult) MarshalJSON() ([]byte, error) {
	type plain CalculationResult
	return json.Marshal(struct {
		*plain
		Errors []string `json:"errors"`
	}{
		plain:  (*plain)(r),
		Errors: r.ErrorMessages(),
	})
}

// CalculationRun labels a persisted run. The reporting year and month come from configuration
// and are stored as-is.
type CalculationRun struct {
	ID             string     `json:"id"`
	RatePeriod     RatePeriod `json:"rate_period"`
	ReportingYear  int        `json:"reporting_year"`
	ReportingMonth int        `json:"reporting_month,omitempty"`
	CalculatedAt   time.Time  `json:"calculated_at"`
}
