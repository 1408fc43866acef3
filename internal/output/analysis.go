package output

import (
	"bytes"
	"fmt"

	"github.com/bdtax/income-tax-calculator/internal/domain"
)

// FormatInvestmentImpact renders the what-if comparison of investment levels.
func FormatInvestmentImpact(impact *domain.InvestmentImpact) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "INVESTMENT IMPACT")
	fmt.Fprintln(&buf, "================================")
	writeLine(&buf, "Tax Without Investment", FormatCurrency(impact.WithoutInvestment))
	writeLine(&buf, "Tax With Stated Investment", FormatCurrency(impact.WithClaimed))
	writeLine(&buf, "Tax With Maximum Investment", FormatCurrency(impact.WithMaximum))
	writeLine(&buf, "Saving From Stated Investment", FormatCurrency(impact.ClaimedSaving))
	writeLine(&buf, "Further Saving Available", FormatCurrency(impact.AdditionalSaving))
	fmt.Fprintln(&buf)
	for _, note := range impact.KeyConsiderations {
		fmt.Fprintf(&buf, "• %s\n", note)
	}
	return buf.Bytes()
}
