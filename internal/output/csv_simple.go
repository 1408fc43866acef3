package output

import (
	"bytes"
	"encoding/csv"

	"github.com/bdtax/income-tax-calculator/internal/domain"
)

// CSVSummarizer writes the result as Field,Value rows.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(r *domain.TaxResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	rows := [][]string{
		{"Field", "Value"},
		{"IncomeYear", r.IncomeYear},
		{"RulesYear", r.RulesYear},
		{"AssessmentYear", r.AssessmentYear},
		{"Category", string(r.Category)},
		{"MonthlyGrossSalary", r.MonthlyGrossSalary.StringFixed(2)},
		{"TotalAnnualIncome", r.TotalAnnualIncome.StringFixed(2)},
		{"StandardExemptionApplied", r.StandardExemptionApplied.StringFixed(2)},
		{"TaxableIncome", r.TaxableIncome.StringFixed(2)},
		{"GrossTax", r.GrossTax.StringFixed(2)},
		{"InvestmentAmountConsidered", r.InvestmentAmountConsidered.StringFixed(2)},
		{"AllowableInvestmentLimit", r.AllowableInvestmentLimit.StringFixed(2)},
		{"TaxRebate", r.TaxRebate.StringFixed(2)},
		{"NetTaxPayable", r.NetTaxPayable.StringFixed(2)},
		{"MinimumTaxThreshold", r.MinimumTaxThreshold.StringFixed(2)},
		{"MinimumTaxApplied", boolToString(r.MinimumTaxApplied)},
		{"FinalTaxDue", r.FinalTaxDue.StringFixed(2)},
		{"MonthlyTaxDeduction", r.MonthlyTaxDeduction.StringFixed(2)},
		{"EffectiveTaxRate", r.EffectiveTaxRate.StringFixed(2)},
		{"NetAnnualIncome", r.NetAnnualIncome.StringFixed(2)},
		{"NetMonthlySalaryAfterTax", r.NetMonthlySalaryAfterTax.StringFixed(2)},
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
