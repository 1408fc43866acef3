package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bdtax/income-tax-calculator/internal/domain"
)

// ConsoleFormatter prints the summary and the final tax the way the result
// cards present them.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.TaxResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "TAX CALCULATION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	writeHeader(&buf, result)
	fmt.Fprintln(&buf)
	writeSummary(&buf, result)
	fmt.Fprintln(&buf)
	writeFinal(&buf, result)
	return buf.Bytes(), nil
}

func writeHeader(w io.Writer, r *domain.TaxResult) {
	fmt.Fprintf(w, "Income Year: %s (Assessment Year %s)\n", r.IncomeYear, r.AssessmentYear)
	if r.RulesYear != r.IncomeYear {
		fmt.Fprintf(w, "Rules Applied: %s\n", r.RulesYear)
	}
	fmt.Fprintf(w, "Taxpayer Category: %s\n", r.Category.Label())
}

func writeLine(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%-34s %s\n", label+":", value)
}

func writeSummary(w io.Writer, r *domain.TaxResult) {
	writeLine(w, "Total Annual Income", FormatCurrency(r.TotalAnnualIncome))
	writeLine(w, "Standard Exemption Applied", "-"+FormatCurrency(r.StandardExemptionApplied))
	writeLine(w, "Taxable Income", FormatCurrency(r.TaxableIncome))
	writeLine(w, "Gross Tax Liability", FormatCurrency(r.GrossTax))
	if showInvestment(r) {
		writeLine(w, "Investment Amount Considered", FormatCurrency(r.InvestmentAmountConsidered))
		writeLine(w, "Allowable Investment for Rebate", FormatCurrency(r.AllowableInvestmentLimit))
		writeLine(w, "Tax Rebate", "-"+FormatCurrency(r.TaxRebate))
	}
	writeLine(w, "Net Tax Payable (after rebate)", FormatCurrency(r.NetTaxPayable))
	if r.MinimumTaxApplied {
		fmt.Fprintf(w, "Minimum tax applied: taxable income exceeds %s\n", FormatCurrency(r.MinimumTaxThreshold))
	}
}

func writeFinal(w io.Writer, r *domain.TaxResult) {
	writeLine(w, "Total Yearly Tax Due", FormatCurrency(r.FinalTaxDue))
	writeLine(w, "Suggested Monthly Tax Deduction", FormatCurrency(r.MonthlyTaxDeduction))
}
