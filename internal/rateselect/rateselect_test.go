package rateselect

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebate-engine/internal/domain"
)

func pct(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestSelect(t *testing.T) {
	rates := domain.TierRates{pct("2.5"), nil, pct("0"), pct("1.125")}

	tests := []struct {
		name    string
		level   int
		want    string
		wantOK  bool
		wantErr bool
	}{
		{name: "level 1", level: 1, want: "2.5", wantOK: true},
		{name: "unset slot", level: 2},
		{name: "zero slot", level: 3},
		{name: "precision kept", level: 4, want: "1.125", wantOK: true},
		{name: "slot beyond imported columns", level: 8},
		{name: "level zero", level: 0, wantErr: true},
		{name: "level nine", level: 9, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Select(rates, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		amount string
		pct    string
		want   string
	}{
		{amount: "1000", pct: "2.5", want: "25.00"},
		{amount: "1", pct: "12.5", want: "0.13"},
		{amount: "1", pct: "12.4", want: "0.12"},
		{amount: "-1", pct: "12.5", want: "-0.13"},
		{amount: "333.33", pct: "1.125", want: "3.75"},
		{amount: "0", pct: "5", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+"x"+tt.pct, func(t *testing.T) {
			got := Amount(decimal.RequireFromString(tt.amount), decimal.RequireFromString(tt.pct))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestStaticLevels_Level(t *testing.T) {
	levels := StaticLevels{Default: 3, ByProvider: map[string]int{"P2": 5}}

	assert.Equal(t, 7, levels.Level(domain.TransactionRecord{ProviderCode: "P2", RebateLevel: 7}))
	assert.Equal(t, 5, levels.Level(domain.TransactionRecord{ProviderCode: "P2"}))
	assert.Equal(t, 3, levels.Level(domain.TransactionRecord{ProviderCode: "P1"}))
	assert.Equal(t, 1, StaticLevels{}.Level(domain.TransactionRecord{ProviderCode: "P1"}))
}
