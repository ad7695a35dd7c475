package refdata

import (
	"rebate-engine/internal/domain"
)

// PartialPartnerKey selects partner-payment rows by a key prefix.
// With Airline set it matches (provider, product, airline); otherwise (provider, product).
type PartialPartnerKey struct {
	ProviderCode string
	ProductName  string
	Airline      string
	ByAirline    bool
}

// Snapshot is an immutable, point-in-time view of every reference table.
type Snapshot struct {
	cardNetwork    map[domain.TableID]*cardNetworkTable
	partnerPayment map[domain.TableID]*partnerPaymentTable
	specialCases   *specialCaseTable
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		cardNetwork:    make(map[domain.TableID]*cardNetworkTable),
		partnerPayment: make(map[domain.TableID]*partnerPaymentTable),
	}
}

func (s *Snapshot) clone() *Snapshot {
	next := emptySnapshot()
	for id, t := range s.cardNetwork {
		next.cardNetwork[id] = t
	}
	for id, t := range s.partnerPayment {
		next.partnerPayment[id] = t
	}
	next.specialCases = s.specialCases
	return next
}

// Imported reports whether the table slot has ever been populated, even with zero rows.
func (s *Snapshot) Imported(id domain.TableID) bool {
	if id == domain.TableSpecialCases {
		return s.specialCases != nil
	}
	if _, ok := s.cardNetwork[id]; ok {
		return true
	}
	_, ok := s.partnerPayment[id]
	return ok
}

// Len returns the number of rows held in the table slot.
func (s *Snapshot) Len(id domain.TableID) int {
	if id == domain.TableSpecialCases {
		if s.specialCases == nil {
			return 0
		}
		return len(s.specialCases.rows)
	}
	if t, ok := s.cardNetwork[id]; ok {
		return len(t.rows)
	}
	if t, ok := s.partnerPayment[id]; ok {
		return len(t.rows)
	}
	return 0
}

// LookupCardNetwork returns the row with the exact (provider, product) key.
func (s *Snapshot) LookupCardNetwork(period domain.RatePeriod, key domain.CardNetworkKey) (domain.CardNetworkRate, bool) {
	t, ok := s.cardNetwork[domain.CardNetworkTable(period)]
	if !ok {
		return domain.CardNetworkRate{}, false
	}
	idx, ok := t.byKey[key]
	if !ok {
		return domain.CardNetworkRate{}, false
	}
	return ownCardRow(t.rows[idx]), true
}

// LookupCardNetworkByProvider returns every card-network row of a provider in import order.
func (s *Snapshot) LookupCardNetworkByProvider(period domain.RatePeriod, providerCode string) []domain.CardNetworkRate {
	t, ok := s.cardNetwork[domain.CardNetworkTable(period)]
	if !ok {
		return []domain.CardNetworkRate{}
	}
	idxs := t.byProvider[providerCode]
	out := make([]domain.CardNetworkRate, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, ownCardRow(t.rows[idx]))
	}
	return out
}

// LookupPartnerPayment returns the row with the exact (provider, product, airline, bin) key.
func (s *Snapshot) LookupPartnerPayment(period domain.RatePeriod, key domain.PartnerPaymentKey) (domain.PartnerPaymentRate, bool) {
	t, ok := s.partnerPayment[domain.PartnerPaymentTable(period)]
	if !ok {
		return domain.PartnerPaymentRate{}, false
	}
	idx, ok := t.byKey[key]
	if !ok {
		return domain.PartnerPaymentRate{}, false
	}
	return ownPartnerRow(t.rows[idx]), true
}

// LookupPartnerPaymentByPartialKey returns every row sharing the key prefix, in import order.
// It returns an empty slice, never nil, when nothing matches.
func (s *Snapshot) LookupPartnerPaymentByPartialKey(period domain.RatePeriod, key PartialPartnerKey) []domain.PartnerPaymentRate {
	t, ok := s.partnerPayment[domain.PartnerPaymentTable(period)]
	if !ok {
		return []domain.PartnerPaymentRate{}
	}

	var idxs []int
	if key.ByAirline {
		idxs = t.byAirline[airlineKey{providerCode: key.ProviderCode, productName: key.ProductName, airline: key.Airline}]
	} else {
		idxs = t.byProduct[productKey{providerCode: key.ProviderCode, productName: key.ProductName}]
	}

	out := make([]domain.PartnerPaymentRate, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, ownPartnerRow(t.rows[idx]))
	}
	return out
}

// SpecialCases returns the special-case rules in import order.
func (s *Snapshot) SpecialCases() []domain.SpecialCaseRow {
	if s.specialCases == nil {
		return []domain.SpecialCaseRow{}
	}
	out := make([]domain.SpecialCaseRow, len(s.specialCases.rows))
	copy(out, s.specialCases.rows)
	return out
}

// SpecialCasesByProvider returns the special-case rules of one provider in import order.
func (s *Snapshot) SpecialCasesByProvider(providerCode string) []domain.SpecialCaseRow {
	if s.specialCases == nil {
		return []domain.SpecialCaseRow{}
	}
	idxs := s.specialCases.byProvider[providerCode]
	out := make([]domain.SpecialCaseRow, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, s.specialCases.rows[idx])
	}
	return out
}

// ownCardRow and ownPartnerRow hand out rows whose tier slots cannot be used to modify the table.
func ownCardRow(row domain.CardNetworkRate) domain.CardNetworkRate {
	row.Rates = row.Rates.Clone()
	return row
}

func ownPartnerRow(row domain.PartnerPaymentRate) domain.PartnerPaymentRate {
	row.Rates = row.Rates.Clone()
	return row
}
