package output

import (
	"github.com/bdtax/income-tax-calculator/internal/domain"
	money "github.com/bdtax/income-tax-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatCurrency renders an amount as whole taka with lakh/crore grouping.
func FormatCurrency(amount decimal.Decimal) string { return money.FormatDecimal(amount, true) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.15) as a percentage (15.00%).
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(rate.Mul(decimalHundred)) }

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// showInvestment mirrors when the rebate lines are worth printing.
func showInvestment(r *domain.TaxResult) bool {
	return r.InvestmentAmountConsidered.IsPositive() && r.TaxableIncome.IsPositive()
}

// showBreakdown reports whether any slab actually carried tax.
func showBreakdown(r *domain.TaxResult) bool {
	return r.TaxableIncome.IsPositive() && r.GrossTax.IsPositive()
}
