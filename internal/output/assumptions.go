package output

import (
	"fmt"

	"github.com/bdtax/income-tax-calculator/internal/domain"
)

// Assumptions lists the rule facts behind a result for detailed outputs.
func Assumptions(r *domain.TaxResult) []string {
	notes := []string{
		fmt.Sprintf("Slab rates and caps of income year %s", r.RulesYear),
		"Standard exemption: one third of total income, capped per income year",
		fmt.Sprintf("Zero-rate threshold for %s: %s", r.Category.Label(), FormatCurrency(r.MinimumTaxThreshold)),
		fmt.Sprintf("Minimum tax applies when taxable income exceeds %s", FormatCurrency(r.MinimumTaxThreshold)),
		"Investment rebate: 15% of investment up to 20% of taxable income (max BDT 1,00,00,000)",
		"Every tax amount is rounded up to the next whole taka",
	}
	if r.RulesYear != r.IncomeYear {
		notes = append(notes, fmt.Sprintf("No separate rules for %s; %s rules applied", r.IncomeYear, r.RulesYear))
	}
	return notes
}
