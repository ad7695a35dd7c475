package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord represents a single card transaction imported for a calculation run.
type TransactionRecord struct {
	TransactionID     string          `json:"transaction_id"`
	ProviderCode      string          `json:"provider_customer_code"`
	ProductName       string          `json:"product_name"`
	CardType          string          `json:"card_type"`
	TransactionDate   time.Time       `json:"transaction_date"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	AmountEUR         decimal.Decimal `json:"amount_eur"`
	FXRate            decimal.Decimal `json:"fx_rate"`
	InterchangeAmount decimal.Decimal `json:"interchange_amount"`
	InterchangePct    decimal.Decimal `json:"interchange_pct"`
	MerchantName      string          `json:"merchant_name"`
	MerchantCountry   string          `json:"merchant_country"`
	MCC               int             `json:"mcc"`
	BIN               int             `json:"bin"`
	Region            string          `json:"region"`
	RegionMarketCode  string          `json:"region_market_code"`

	// Airline is the partner-payment join key. Imports that leave it empty fall back to MerchantName.
	Airline string `json:"airline,omitempty"`
	// RebateLevel is the externally assigned tier (1-8). Zero means "resolve from configuration".
	RebateLevel int `json:"rebate_level,omitempty"`
}

// PartnerAirline returns the airline used to join against partner-payment rates.
func (t TransactionRecord) PartnerAirline() string {
	if t.Airline != "" {
		return t.Airline
	}
	return t.MerchantName
}

// BINString returns the card prefix as a string, or "" when no BIN was imported.
func (t TransactionRecord) BINString() string {
	if t.BIN <= 0 {
		return ""
	}
	return strconv.Itoa(t.BIN)
}

// NormalizeBIN brings a rate-table BIN into the form BINString produces, so "01234" becomes "1234".
// Empty input stays empty; anything that is not a positive integer is rejected.
func NormalizeBIN(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("bin %q is not an integer", raw)
	}
	if n <= 0 {
		return "", fmt.Errorf("bin %q must be positive", raw)
	}
	return strconv.Itoa(n), nil
}

// EURAmount converts the transaction amount to EUR.
// An imported EUR amount wins; otherwise EUR transactions pass through and
// other currencies are multiplied by FXRate. ok is false when no conversion is possible.
func (t TransactionRecord) EURAmount() (amount decimal.Decimal, ok bool) {
	switch {
	case !t.AmountEUR.IsZero():
		return t.AmountEUR, true
	case t.Currency == "EUR":
		return t.Amount, true
	case t.FXRate.IsPositive():
		return t.Amount.Mul(t.FXRate), true
	}
	return decimal.Zero, false
}

// Validate checks the fields every calculation path joins on.
func (t TransactionRecord) Validate() error {
	switch {
	case t.TransactionID == "":
		return &ValidationError{Field: "transaction_id", Message: "is required"}
	case t.ProviderCode == "":
		return &ValidationError{TransactionID: t.TransactionID, Field: "provider_customer_code", Message: "is required"}
	case t.ProductName == "":
		return &ValidationError{TransactionID: t.TransactionID, Field: "product_name", Message: "is required"}
	case t.RebateLevel < 0 || t.RebateLevel > MaxRebateLevel:
		return &ValidationError{
			TransactionID: t.TransactionID,
			Field:         "rebate_level",
			Message:       "must be between 1 and " + strconv.Itoa(MaxRebateLevel),
		}
	}
	return nil
}

// TransactionSet is the ordered collection of transactions processed by one calculation run.
type TransactionSet []TransactionRecord

// DuplicateIDs returns the positions of records whose transaction ID already appeared earlier in the set.
func (s TransactionSet) DuplicateIDs() map[int]string {
	seen := make(map[string]struct{}, len(s))
	dups := make(map[int]string)
	for i, tx := range s {
		if tx.TransactionID == "" {
			continue
		}
		if _, ok := seen[tx.TransactionID]; ok {
			dups[i] = tx.TransactionID
			continue
		}
		seen[tx.TransactionID] = struct{}{}
	}
	return dups
}
