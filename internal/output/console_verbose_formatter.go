package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bdtax/income-tax-calculator/internal/domain"
)

// ConsoleVerboseFormatter adds the slab table, take-home pay and the
// assumptions behind the figures.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "verbose" }

func (c ConsoleVerboseFormatter) Format(result *domain.TaxResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf, "DETAILED INCOME TAX COMPUTATION")
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	writeHeader(&buf, result)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range Assumptions(result) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "INCOME & TAX SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	writeLine(&buf, "Monthly Gross Salary", FormatCurrency(result.MonthlyGrossSalary))
	writeSummary(&buf, result)
	fmt.Fprintln(&buf)

	if showBreakdown(result) {
		writeSlabTable(&buf, result)
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, "FINAL TAX & MONTHLY DEDUCTION")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	writeFinal(&buf, result)
	writeLine(&buf, "Effective Tax Rate", FormatPercentage(result.EffectiveTaxRate))
	writeLine(&buf, "Net Annual Income", FormatCurrency(result.NetAnnualIncome))
	writeLine(&buf, "Net Monthly Salary After Tax", FormatCurrency(result.NetMonthlySalaryAfterTax))
	return buf.Bytes(), nil
}

func writeSlabTable(w io.Writer, r *domain.TaxResult) {
	fmt.Fprintln(w, "TAX SLAB BREAKDOWN")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%-48s %16s %8s %14s\n", "Slab Description", "Taxable Amount", "Rate", "Tax on Slab")
	for _, line := range r.TaxSlabBreakdown {
		fmt.Fprintf(w, "%-48s %16s %8s %14s\n",
			line.Description,
			FormatCurrency(line.TaxableAmountInSlab),
			FormatRate(line.Rate),
			FormatCurrency(line.TaxOnSlab),
		)
	}
	fmt.Fprintf(w, "%-74s %14s\n", "Total Gross Tax", FormatCurrency(r.GrossTax))
}
