package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxRebateLevel is the number of tier slots carried by every rate row.
const MaxRebateLevel = 8

// RatePeriod selects which imported table slot a run reads from.
type RatePeriod string

const (
	PeriodMonthly RatePeriod = "monthly"
	PeriodYearly  RatePeriod = "yearly"
)

// ParseRatePeriod accepts "monthly" or "yearly" in any case.
func ParseRatePeriod(s string) (RatePeriod, error) {
	switch p := RatePeriod(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodMonthly, PeriodYearly:
		return p, nil
	}
	return "", fmt.Errorf("unknown rate period %q", s)
}

// TableID names one reference table slot.
type TableID string

const (
	TableCardNetworkMonthly    TableID = "card_network_monthly"
	TableCardNetworkYearly     TableID = "card_network_yearly"
	TablePartnerPaymentMonthly TableID = "partner_payment_monthly"
	TablePartnerPaymentYearly  TableID = "partner_payment_yearly"
	TableSpecialCases          TableID = "special_cases"
)

// CardNetworkTable returns the card-network slot for the period.
func CardNetworkTable(p RatePeriod) TableID {
	if p == PeriodYearly {
		return TableCardNetworkYearly
	}
	return TableCardNetworkMonthly
}

// PartnerPaymentTable returns the partner-payment slot for the period.
func PartnerPaymentTable(p RatePeriod) TableID {
	if p == PeriodYearly {
		return TablePartnerPaymentYearly
	}
	return TablePartnerPaymentMonthly
}

// TierRates holds the rebate percentage per level. Index 0 is level 1; nil means unset.
type TierRates [MaxRebateLevel]*decimal.Decimal

// Clone returns a copy whose slots do not share pointers with r.
func (r TierRates) Clone() TierRates {
	var out TierRates
	for i, slot := range r {
		if slot != nil {
			d := *slot
			out[i] = &d
		}
	}
	return out
}

// CardNetworkRate is one row of a card-network rebate table.
type CardNetworkRate struct {
	ProviderCode string    `json:"provider_customer_code"`
	ProductName  string    `json:"product_name"`
	Rates        TierRates `json:"rates"`
}

// CardNetworkKey is the unique key of a card-network row.
type CardNetworkKey struct {
	ProviderCode string
	ProductName  string
}

// Key returns the row's join key.
func (r CardNetworkRate) Key() CardNetworkKey {
	return CardNetworkKey{ProviderCode: r.ProviderCode, ProductName: r.ProductName}
}

// Validate rejects rows with empty join keys.
func (r CardNetworkRate) Validate() error {
	if r.ProviderCode == "" {
		return &ValidationError{Table: "card_network", Field: "provider_customer_code", Message: "is required"}
	}
	if r.ProductName == "" {
		return &ValidationError{Table: "card_network", Field: "product_name", Message: "is required"}
	}
	return nil
}

// PartnerPaymentRate is one row of a partner-payment rebate table.
// Empty Airline or BIN are ordinary key values; the matcher never uses them to break ties.
type PartnerPaymentRate struct {
	ProviderCode string    `json:"provider_customer_code"`
	ProductName  string    `json:"product_name"`
	Airline      string    `json:"airline"`
	BIN          string    `json:"bin"`
	Rates        TierRates `json:"rates"`
}

// PartnerPaymentKey is the unique key of a partner-payment row.
type PartnerPaymentKey struct {
	ProviderCode string
	ProductName  string
	Airline      string
	BIN          string
}

// Key returns the row's join key.
func (r PartnerPaymentRate) Key() PartnerPaymentKey {
	return PartnerPaymentKey{
		ProviderCode: r.ProviderCode,
		ProductName:  r.ProductName,
		Airline:      r.Airline,
		BIN:          r.BIN,
	}
}

// Validate rejects rows with empty provider or product. A BIN without an airline is also rejected
// since it could never be reached by the matcher.
func (r PartnerPaymentRate) Validate() error {
	if r.ProviderCode == "" {
		return &ValidationError{Table: "partner_payment", Field: "provider_customer_code", Message: "is required"}
	}
	if r.ProductName == "" {
		return &ValidationError{Table: "partner_payment", Field: "product_name", Message: "is required"}
	}
	if r.BIN != "" && r.Airline == "" {
		return &ValidationError{Table: "partner_payment", Field: "airline", Message: "is required when bin is set"}
	}
	if bin, err := NormalizeBIN(r.BIN); err != nil || bin != r.BIN {
		return &ValidationError{Table: "partner_payment", Field: "bin", Message: fmt.Sprintf("%q is not a canonical positive integer", r.BIN)}
	}
	return nil
}

// SpecialCaseRuleType discriminates special-case rules.
type SpecialCaseRuleType string

const (
	RuleRegionCountry SpecialCaseRuleType = "region_country"
	RuleProvider      SpecialCaseRuleType = "provider"
)

// Condition fields a special case can test.
const (
	CondMerchantCountry  = "merchant_country"
	CondRegion           = "region"
	CondRegionMarketCode = "region_market_code"
	CondProductName      = "product_name"
	CondCardType         = "card_type"
	CondMerchantName     = "merchant_name"
	CondMCC              = "mcc"
	CondBIN              = "bin"
	CondAirline          = "airline"
	CondCurrency         = "currency"
)

var knownConditions = map[string]struct{}{
	CondMerchantCountry: {}, CondRegion: {}, CondRegionMarketCode: {}, CondProductName: {},
	CondCardType: {}, CondMerchantName: {}, CondMCC: {}, CondBIN: {}, CondAirline: {}, CondCurrency: {},
}

// SpecialCaseRow overrides normal rate lookup for transactions that satisfy its conditions.
type SpecialCaseRow struct {
	ProviderCode string              `json:"provider_customer_code"`
	RuleType     SpecialCaseRuleType `json:"rule_type"`
	Conditions   map[string]string   `json:"conditions"`
	Percentage   decimal.Decimal     `json:"rebate_percentage"`
}

// Validate checks the join key, the rule type and the condition payload.
func (r SpecialCaseRow) Validate() error {
	if r.ProviderCode == "" {
		return &ValidationError{Table: "special_cases", Field: "provider_customer_code", Message: "is required"}
	}
	switch r.RuleType {
	case RuleRegionCountry:
		if r.Conditions[CondMerchantCountry] == "" && r.Conditions[CondRegion] == "" && r.Conditions[CondRegionMarketCode] == "" {
			return &ValidationError{Table: "special_cases", Field: "conditions", Message: "region_country rule needs merchant_country, region or region_market_code"}
		}
	case RuleProvider:
	default:
		return &ValidationError{Table: "special_cases", Field: "rule_type", Message: fmt.Sprintf("unknown rule type %q", r.RuleType)}
	}
	for field := range r.Conditions {
		if _, ok := knownConditions[field]; !ok {
			return &ValidationError{Table: "special_cases", Field: "conditions", Message: fmt.Sprintf("unknown condition field %q", field)}
		}
	}
	if r.Percentage.IsNegative() {
		return &ValidationError{Table: "special_cases", Field: "rebate_percentage", Message: "must be non-negative"}
	}
	return nil
}
