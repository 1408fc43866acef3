package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bdtax/income-tax-calculator/internal/domain"
)

// FormatComparison lays results for several income years side by side.
func FormatComparison(results []*domain.TaxResult) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "INCOME YEAR COMPARISON")
	fmt.Fprintln(&buf, "================================")

	fmt.Fprintf(&buf, "%-30s", "")
	for _, r := range results {
		label := r.IncomeYear
		if r.RulesYear != r.IncomeYear {
			label += "*"
		}
		fmt.Fprintf(&buf, " %16s", label)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, strings.Repeat("-", 30+17*len(results)))

	rows := []struct {
		label string
		value func(*domain.TaxResult) string
	}{
		{"Total Annual Income", func(r *domain.TaxResult) string { return FormatCurrency(r.TotalAnnualIncome) }},
		{"Standard Exemption", func(r *domain.TaxResult) string { return FormatCurrency(r.StandardExemptionApplied) }},
		{"Taxable Income", func(r *domain.TaxResult) string { return FormatCurrency(r.TaxableIncome) }},
		{"Gross Tax", func(r *domain.TaxResult) string { return FormatCurrency(r.GrossTax) }},
		{"Tax Rebate", func(r *domain.TaxResult) string { return FormatCurrency(r.TaxRebate) }},
		{"Total Yearly Tax Due", func(r *domain.TaxResult) string { return FormatCurrency(r.FinalTaxDue) }},
		{"Monthly Tax Deduction", func(r *domain.TaxResult) string { return FormatCurrency(r.MonthlyTaxDeduction) }},
		{"Effective Tax Rate", func(r *domain.TaxResult) string { return FormatPercentage(r.EffectiveTaxRate) }},
	}
	for _, row := range rows {
		fmt.Fprintf(&buf, "%-30s", row.label)
		for _, r := range results {
			fmt.Fprintf(&buf, " %16s", row.value(r))
		}
		fmt.Fprintln(&buf)
	}

	for _, r := range results {
		if r.RulesYear != r.IncomeYear {
			fmt.Fprintf(&buf, "* %s uses %s rules\n", r.IncomeYear, r.RulesYear)
		}
	}
	return buf.Bytes()
}
