// Package rateselect maps a rebate level to a percentage and turns percentages into amounts.
package rateselect

import (
	"fmt"

	"github.com/shopspring/decimal"

	"rebate-engine/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Select returns the percentage stored for level (1-based).
// ok is false when the slot is unset or zero, meaning no rebate at that tier.
func Select(rates domain.TierRates, level int) (pct decimal.Decimal, ok bool, err error) {
	if level < 1 || level > domain.MaxRebateLevel {
		return decimal.Zero, false, fmt.Errorf("rebate level %d out of range 1-%d", level, domain.MaxRebateLevel)
	}
	slot := rates[level-1]
	if slot == nil || slot.IsZero() {
		return decimal.Zero, false, nil
	}
	return *slot, true, nil
}

// Amount computes amount * pct / 100 rounded half-up to two decimals.
func Amount(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred).Round(2)
}

// LevelResolver assigns the rebate level for a transaction.
type LevelResolver interface {
	Level(tx domain.TransactionRecord) int
}

// StaticLevels resolves levels from the transaction, then a per-provider table, then a default.
type StaticLevels struct {
	Default    int
	ByProvider map[string]int
}

// Level implements LevelResolver.
func (s StaticLevels) Level(tx domain.TransactionRecord) int {
	if tx.RebateLevel > 0 {
		return tx.RebateLevel
	}
	if lvl, ok := s.ByProvider[tx.ProviderCode]; ok && lvl > 0 {
		return lvl
	}
	if s.Default > 0 {
		return s.Default
	}
	return 1
}
