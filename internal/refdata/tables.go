package refdata

import (
	"rebate-engine/internal/domain"
)

type cardNetworkTable struct {
	rows       []domain.CardNetworkRate
	byKey      map[domain.CardNetworkKey]int
	byProvider map[string][]int
}

func newCardNetworkTable(rows []domain.CardNetworkRate) (*cardNetworkTable, error) {
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, withRow(err, i)
		}
	}

	t := &cardNetworkTable{
		rows:       make([]domain.CardNetworkRate, 0, len(rows)),
		byKey:      make(map[domain.CardNetworkKey]int, len(rows)),
		byProvider: make(map[string][]int),
	}
	for _, row := range rows {
		row.Rates = row.Rates.Clone()
		key := row.Key()
		if idx, ok := t.byKey[key]; ok {
			// last import wins, position of the first occurrence is kept
			t.rows[idx] = row
			continue
		}
		t.byKey[key] = len(t.rows)
		t.byProvider[row.ProviderCode] = append(t.byProvider[row.ProviderCode], len(t.rows))
		t.rows = append(t.rows, row)
	}
	return t, nil
}

type productKey struct {
	providerCode string
	productName  string
}

type airlineKey struct {
	providerCode string
	productName  string
	airline      string
}

type partnerPaymentTable struct {
	rows      []domain.PartnerPaymentRate
	byKey     map[domain.PartnerPaymentKey]int
	byAirline map[airlineKey][]int
	byProduct map[productKey][]int
}

func newPartnerPaymentTable(rows []domain.PartnerPaymentRate) (*partnerPaymentTable, error) {
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, withRow(err, i)
		}
	}

	t := &partnerPaymentTable{
		rows:      make([]domain.PartnerPaymentRate, 0, len(rows)),
		byKey:     make(map[domain.PartnerPaymentKey]int, len(rows)),
		byAirline: make(map[airlineKey][]int),
		byProduct: make(map[productKey][]int),
	}
	for _, row := range rows {
		row.Rates = row.Rates.Clone()
		key := row.Key()
		if idx, ok := t.byKey[key]; ok {
			t.rows[idx] = row
			continue
		}
		idx := len(t.rows)
		t.byKey[key] = idx

		ak := airlineKey{providerCode: row.ProviderCode, productName: row.ProductName, airline: row.Airline}
		t.byAirline[ak] = append(t.byAirline[ak], idx)
		pk := productKey{providerCode: row.ProviderCode, productName: row.ProductName}
		t.byProduct[pk] = append(t.byProduct[pk], idx)

		t.rows = append(t.rows, row)
	}
	return t, nil
}

type specialCaseTable struct {
	rows       []domain.SpecialCaseRow
	byProvider map[string][]int
}

func newSpecialCaseTable(rows []domain.SpecialCaseRow) (*specialCaseTable, error) {
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, withRow(err, i)
		}
	}

	t := &specialCaseTable{
		rows:       make([]domain.SpecialCaseRow, len(rows)),
		byProvider: make(map[string][]int),
	}
	for i, row := range rows {
		conds := make(map[string]string, len(row.Conditions))
		for k, v := range row.Conditions {
			conds[k] = v
		}
		row.Conditions = conds
		t.rows[i] = row
		t.byProvider[row.ProviderCode] = append(t.byProvider[row.ProviderCode], i)
	}
	return t, nil
}

func withRow(err error, index int) error {
	if ve, ok := err.(*domain.ValidationError); ok {
		ve.Row = index + 1
	}
	return err
}
