package calculation

import (
	"fmt"

	"github.com/bdtax/income-tax-calculator/internal/domain"
	money "github.com/bdtax/income-tax-calculator/pkg/decimal"
)

// walkSlabs spreads taxable income across the slabs from the lowest band
// upward. Each slab's tax is rounded up on its own, and the gross tax is the
// sum of those rounded amounts. Walking stops once income is used up.
func walkSlabs(taxable money.Money, slabs []domain.TaxSlab, logger Logger) ([]domain.TaxSlabLine, money.Money) {
	lines := make([]domain.TaxSlabLine, 0, len(slabs))
	grossTax := money.Zero()
	remaining := taxable
	cumulative := money.Zero()

	for _, slab := range slabs {
		if !remaining.IsPositive() {
			break
		}

		width := remaining
		if !slab.Unbounded() {
			width = money.NewMoneyFromDecimal(*slab.Width)
		}
		inSlab := money.Min(remaining, width)
		tax := inSlab.TaxAt(slab.Rate).Ceil()
		grossTax = grossTax.Add(tax)

		lines = append(lines, domain.TaxSlabLine{
			Description:         describeSlab(slab, cumulative, width),
			TaxableAmountInSlab: inSlab.Decimal,
			Rate:                slab.Rate,
			TaxOnSlab:           tax.Decimal,
		})
		logger.Debugf("slab from %s: %s at %s = %s", cumulative, inSlab, slab.Rate, tax)

		remaining = remaining.Sub(inSlab)
		if !slab.Unbounded() {
			cumulative = cumulative.Add(width)
		}
	}

	return lines, grossTax
}

// describeSlab renders "Up to N" for the opening zero-rate band, "Above N"
// for the open-ended top band and "On next N (from A to B)" otherwise.
func describeSlab(slab domain.TaxSlab, start, width money.Money) string {
	switch {
	case slab.Unbounded():
		return "Above " + start.Format(false)
	case start.IsZero() && slab.Rate.IsZero():
		return "Up to " + width.Format(false)
	default:
		from := start.Add(money.NewMoneyFromInt(1))
		to := start.Add(width)
		return fmt.Sprintf("On next %s (from %s to %s)", width.Format(false), from.Format(false), to.Format(false))
	}
}

// allowableInvestmentLimit is the largest investment that earns a rebate:
// a fraction of taxable income, capped in absolute terms, rounded up.
// It is reported even when no investment was claimed.
func allowableInvestmentLimit(taxable money.Money, rules domain.InvestmentRebateRules) money.Money {
	if !taxable.IsPositive() {
		return money.Zero()
	}
	byIncome := taxable.Mul(rules.MaxFractionOfTaxableIncome)
	return money.Min(byIncome, money.NewMoneyFromDecimal(rules.AbsoluteCap)).Ceil()
}

// investmentRebate credits a share of the eligible investment. The caller
// clamps the result to the gross tax.
func investmentRebate(include bool, investment, taxable, allowable money.Money, rules domain.InvestmentRebateRules) money.Money {
	if !include || !investment.IsPositive() || !taxable.IsPositive() {
		return money.Zero()
	}
	eligible := money.Min(investment, allowable)
	return eligible.Mul(rules.Rate).Ceil()
}

// applyMinimumTax raises a small positive liability to the minimum tax once
// taxable income is above the zero-rate threshold.
func applyMinimumTax(taxable, netTax, threshold, minimumTax money.Money) (money.Money, bool) {
	final := netTax
	applied := false
	if taxable.GreaterThan(threshold) && netTax.IsPositive() && netTax.LessThan(minimumTax) {
		final = minimumTax
		applied = true
	} else if taxable.LessThanOrEqual(threshold) && !netTax.IsPositive() {
		final = money.Zero()
	}
	return final.Ceil(), applied
}
