// Package matcher finds the reference row that applies to a transaction in each rebate table.
package matcher

import (
	"fmt"

	"rebate-engine/internal/domain"
	"rebate-engine/internal/refdata"
)

// ReferenceData is the read side of the reference data store the matcher needs.
// *refdata.Snapshot satisfies it.
type ReferenceData interface {
	LookupCardNetwork(period domain.RatePeriod, key domain.CardNetworkKey) (domain.CardNetworkRate, bool)
	LookupPartnerPayment(period domain.RatePeriod, key domain.PartnerPaymentKey) (domain.PartnerPaymentRate, bool)
	LookupPartnerPaymentByPartialKey(period domain.RatePeriod, key refdata.PartialPartnerKey) []domain.PartnerPaymentRate
	SpecialCasesByProvider(providerCode string) []domain.SpecialCaseRow
}

var _ ReferenceData = (*refdata.Snapshot)(nil)

// Step records which key combination produced a partner-payment match.
type Step int

const (
	StepNone Step = iota
	StepExact
	StepAirline
	StepProduct
)

func (s Step) String() string {
	switch s {
	case StepExact:
		return "provider+product+airline+bin"
	case StepAirline:
		return "provider+product+airline"
	case StepProduct:
		return "provider+product"
	}
	return "none"
}

// PartnerMatch is the outcome of a partner-payment lookup.
type PartnerMatch struct {
	Row       domain.PartnerPaymentRate
	Step      Step
	Ambiguous []*domain.AmbiguousMatchError
}

// Found reports whether a row was selected.
func (m PartnerMatch) Found() bool {
	return m.Step != StepNone
}

// Matcher matches transactions against one rate period of a reference data snapshot.
type Matcher struct {
	ref    ReferenceData
	period domain.RatePeriod
}

// New creates a matcher reading the given period's table slots.
func New(ref ReferenceData, period domain.RatePeriod) *Matcher {
	return &Matcher{ref: ref, period: period}
}

// MatchCardNetwork requires an exact (provider, product) match. There is no fallback.
func (m *Matcher) MatchCardNetwork(tx domain.TransactionRecord) (domain.CardNetworkRate, bool) {
	return m.ref.LookupCardNetwork(m.period, domain.CardNetworkKey{
		ProviderCode: tx.ProviderCode,
		ProductName:  tx.ProductName,
	})
}

// MatchPartnerPayment tries, in order: the exact four-part key, then the
// (provider, product, airline) prefix, then the (provider, product) prefix.
// A prefix step only succeeds when exactly one row shares the prefix. Several rows
// are recorded as ambiguous and the next step is tried. Without an airline only the
// (provider, product) step can apply.
func (m *Matcher) MatchPartnerPayment(tx domain.TransactionRecord) PartnerMatch {
	var match PartnerMatch
	table := domain.PartnerPaymentTable(m.period)

	if airline := tx.PartnerAirline(); airline != "" {
		if bin := tx.BINString(); bin != "" {
			row, ok := m.ref.LookupPartnerPayment(m.period, domain.PartnerPaymentKey{
				ProviderCode: tx.ProviderCode,
				ProductName:  tx.ProductName,
				Airline:      airline,
				BIN:          bin,
			})
			if ok {
				match.Row, match.Step = row, StepExact
				return match
			}
		}

		candidates := m.ref.LookupPartnerPaymentByPartialKey(m.period, refdata.PartialPartnerKey{
			ProviderCode: tx.ProviderCode,
			ProductName:  tx.ProductName,
			Airline:      airline,
			ByAirline:    true,
		})
		if row, ok := single(candidates); ok {
			match.Row, match.Step = row, StepAirline
			return match
		}
		if len(candidates) > 1 {
			match.Ambiguous = append(match.Ambiguous, &domain.AmbiguousMatchError{
				TransactionID: tx.TransactionID,
				Table:         table,
				Key:           fmt.Sprintf("%s/%s/%s", tx.ProviderCode, tx.ProductName, airline),
				Candidates:    len(candidates),
			})
		}
	}

	candidates := m.ref.LookupPartnerPaymentByPartialKey(m.period, refdata.PartialPartnerKey{
		ProviderCode: tx.ProviderCode,
		ProductName:  tx.ProductName,
	})
	if row, ok := single(candidates); ok {
		match.Row, match.Step = row, StepProduct
		return match
	}
	if len(candidates) > 1 {
		match.Ambiguous = append(match.Ambiguous, &domain.AmbiguousMatchError{
			TransactionID: tx.TransactionID,
			Table:         table,
			Key:           fmt.Sprintf("%s/%s", tx.ProviderCode, tx.ProductName),
			Candidates:    len(candidates),
		})
	}

	return match
}

// single returns the candidate when it is the only one. Several candidates are never resolved by guessing.
func single(candidates []domain.PartnerPaymentRate) (domain.PartnerPaymentRate, bool) {
	if len(candidates) != 1 {
		return domain.PartnerPaymentRate{}, false
	}
	return candidates[0], true
}
