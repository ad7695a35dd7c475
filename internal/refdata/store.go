// Package refdata holds the imported rebate rate tables and special-case rules.
//
// Every replace builds a new immutable table and swaps it in, so a Snapshot taken before a replace
// keeps seeing the old rows and a snapshot taken after sees only the new ones.
package refdata

import (
	"sync"

	"rebate-engine/internal/domain"
)

// Store is the reference data store. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore returns an empty store with no table imported.
func NewStore() *Store {
	return &Store{snap: emptySnapshot()}
}

// Snapshot returns an immutable view of all tables as they are right now.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// ReplaceCardNetworkRates replaces the card-network table for the period.
// Nothing is written when any row fails validation.
func (s *Store) ReplaceCardNetworkRates(period domain.RatePeriod, rows []domain.CardNetworkRate) error {
	table, err := newCardNetworkTable(rows)
	if err != nil {
		return err
	}
	s.swap(func(next *Snapshot) {
		next.cardNetwork[domain.CardNetworkTable(period)] = table
	})
	return nil
}

// ReplacePartnerPaymentRates replaces the partner-payment table for the period.
// Nothing is written when any row fails validation.
func (s *Store) ReplacePartnerPaymentRates(period domain.RatePeriod, rows []domain.PartnerPaymentRate) error {
	table, err := newPartnerPaymentTable(rows)
	if err != nil {
		return err
	}
	s.swap(func(next *Snapshot) {
		next.partnerPayment[domain.PartnerPaymentTable(period)] = table
	})
	return nil
}

// ReplaceSpecialCases replaces the special-case rule table.
// Nothing is written when any row fails validation.
func (s *Store) ReplaceSpecialCases(rows []domain.SpecialCaseRow) error {
	table, err := newSpecialCaseTable(rows)
	if err != nil {
		return err
	}
	s.swap(func(next *Snapshot) {
		next.specialCases = table
	})
	return nil
}

// LookupCardNetwork is a convenience for Snapshot().LookupCardNetwork.
func (s *Store) LookupCardNetwork(period domain.RatePeriod, key domain.CardNetworkKey) (domain.CardNetworkRate, bool) {
	return s.Snapshot().LookupCardNetwork(period, key)
}

// LookupPartnerPayment is a convenience for Snapshot().LookupPartnerPayment.
func (s *Store) LookupPartnerPayment(period domain.RatePeriod, key domain.PartnerPaymentKey) (domain.PartnerPaymentRate, bool) {
	return s.Snapshot().LookupPartnerPayment(period, key)
}

// LookupPartnerPaymentByPartialKey is a convenience for Snapshot().LookupPartnerPaymentByPartialKey.
func (s *Store) LookupPartnerPaymentByPartialKey(period domain.RatePeriod, key PartialPartnerKey) []domain.PartnerPaymentRate {
	return s.Snapshot().LookupPartnerPaymentByPartialKey(period, key)
}

// swap copies the current table pointers, applies mutate and publishes the copy.
// Tables themselves are never modified after construction.
func (s *Store) swap(mutate func(next *Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.clone()
	mutate(next)
	s.snap = next
}
