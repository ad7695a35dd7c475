package matcher

import (
	"strconv"
	"strings"

	"rebate-engine/internal/domain"
)

// ruleOrder fixes precedence between rule types. Lower runs first.
var ruleOrder = map[domain.SpecialCaseRuleType]int{
	domain.RuleRegionCountry: 0,
	domain.RuleProvider:      1,
}

// MatchSpecialCases returns every special-case rule that applies to the transaction.
// Region/country rules come before provider rules; within a type, import order is kept.
func (m *Matcher) MatchSpecialCases(tx domain.TransactionRecord) []domain.SpecialCaseRow {
	rules := m.ref.SpecialCasesByProvider(tx.ProviderCode)
	if len(rules) == 0 {
		return nil
	}

	buckets := make([][]domain.SpecialCaseRow, len(ruleOrder))
	for _, rule := range rules {
		order, ok := ruleOrder[rule.RuleType]
		if !ok || !conditionsHold(rule.Conditions, tx) {
			continue
		}
		buckets[order] = append(buckets[order], rule)
	}

	var matched []domain.SpecialCaseRow
	for _, b := range buckets {
		matched = append(matched, b...)
	}
	return matched
}

// conditionsHold reports whether every condition matches the transaction.
// Values are compared case-insensitively; "A|B" accepts either alternative.
func conditionsHold(conds map[string]string, tx domain.TransactionRecord) bool {
	for field, want := range conds {
		got, ok := transactionField(tx, field)
		if !ok || !matchesAny(want, got) {
			return false
		}
	}
	return true
}

func matchesAny(want, got string) bool {
	got = strings.TrimSpace(got)
	for _, alt := range strings.Split(want, "|") {
		if strings.EqualFold(strings.TrimSpace(alt), got) {
			return true
		}
	}
	return false
}

func transactionField(tx domain.TransactionRecord, field string) (string, bool) {
	switch field {
	case domain.CondMerchantCountry:
		return tx.MerchantCountry, true
	case domain.CondRegion:
		return tx.Region, true
	case domain.CondRegionMarketCode:
		return tx.RegionMarketCode, true
	case domain.CondProductName:
		return tx.ProductName, true
	case domain.CondCardType:
		return tx.CardType, true
	case domain.CondMerchantName:
		return tx.MerchantName, true
	case domain.CondMCC:
		return strconv.Itoa(tx.MCC), true
	case domain.CondBIN:
		return tx.BINString(), true
	case domain.CondAirline:
		return tx.PartnerAirline(), true
	case domain.CondCurrency:
		return tx.Currency, true
	}
	return "", false
}
