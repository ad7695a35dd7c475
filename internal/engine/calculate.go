package engine

import (
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"rebate-engine/internal/domain"
	"rebate-engine/internal/matcher"
	"rebate-engine/internal/rateselect"
)

// calculate runs the calculation paths for one transaction.
// The first applicable special case suppresses both normal paths; otherwise
// card-network and partner-payment are independent programs and may both emit.
func (e *Engine) calculate(m *matcher.Matcher, tx domain.TransactionRecord) outcome {
	var out outcome

	if err := tx.Validate(); err != nil {
		out.skipped = true
		out.errs = append(out.errs, err)
		return out
	}

	level := e.opts.Levels.Level(tx)
	if level < 1 || level > domain.MaxRebateLevel {
		out.skipped = true
		out.errs = append(out.errs, &domain.ValidationError{
			TransactionID: tx.TransactionID,
			Field:         "rebate_level",
			Message:       "resolved level is out of range",
		})
		return out
	}

	if rules := m.MatchSpecialCases(tx); len(rules) > 0 {
		out.matched = true
		out.suppressed = len(rules) - 1
		rule := rules[0]
		if rule.Percentage.IsZero() && !e.opts.EmitZeroRebates {
			out.zeroRate++
			return out
		}
		out.add(e.rebate(tx, level, rule.Percentage, domain.CalcSpecialCase))
		return out
	}

	if row, ok := m.MatchCardNetwork(tx); ok {
		out.matched = true
		e.applyTier(&out, tx, level, row.Rates, domain.CalcCardNetwork)
	}

	pm := m.MatchPartnerPayment(tx)
	for _, amb := range pm.Ambiguous {
		out.ambiguous++
		log.Debug().Err(amb).Msg("partner-payment fallback skipped")
	}
	if pm.Found() {
		out.matched = true
		e.applyTier(&out, tx, level, pm.Row.Rates, domain.CalcPartnerPayment)
	}

	return out
}

func (e *Engine) applyTier(out *outcome, tx domain.TransactionRecord, level int, rates domain.TierRates, calc domain.CalculationType) {
	pct, ok, err := rateselect.Select(rates, level)
	if err != nil {
		out.errs = append(out.errs, &domain.ValidationError{TransactionID: tx.TransactionID, Field: "rebate_level", Message: err.Error()})
		return
	}
	if !ok {
		out.zeroRate++
		if !e.opts.EmitZeroRebates {
			return
		}
	}
	out.add(e.rebate(tx, level, pct, calc))
}

type rebateWithWarning struct {
	rebate  domain.CalculatedRebate
	warning error
}

func (out *outcome) add(r rebateWithWarning) {
	out.rebates = append(out.rebates, r.rebate)
	if r.warning != nil {
		out.errs = append(out.errs, r.warning)
	}
}

func (e *Engine) rebate(tx domain.TransactionRecord, level int, pct decimal.Decimal, calc domain.CalculationType) rebateWithWarning {
	r := domain.CalculatedRebate{
		TransactionID:    tx.TransactionID,
		ProviderCode:     tx.ProviderCode,
		ProductName:      tx.ProductName,
		RebateLevel:      level,
		RebatePercentage: pct,
		RebateAmount:     rateselect.Amount(tx.Amount, pct),
		Currency:         tx.Currency,
		CalculationType:  calc,
		RatePeriod:       e.opts.Period,
	}

	eur, ok := tx.EURAmount()
	if !ok {
		r.RebateAmountEUR = decimal.Zero
		return rebateWithWarning{
			rebate: r,
			warning: &domain.ValidationError{
				TransactionID: tx.TransactionID,
				Field:         "amount_eur",
				Message:       "no EUR amount or fx rate; EUR rebate set to 0",
			},
		}
	}
	r.RebateAmountEUR = rateselect.Amount(eur, pct)
	return rebateWithWarning{rebate: r}
}
