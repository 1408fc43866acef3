package calculation

import (
	"fmt"

	"github.com/bdtax/income-tax-calculator/internal/domain"
	money "github.com/bdtax/income-tax-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// AnalyzeInvestment recalculates the input with no investment and with the
// full allowable limit invested, and reports how much tax each choice saves.
func (te *TaxEngine) AnalyzeInvestment(input domain.TaxInput) (*domain.InvestmentImpact, error) {
	claimed, err := te.Calculate(input)
	if err != nil {
		return nil, err
	}

	bare := input
	bare.IncludeInvestments = false
	bare.TotalAnnualInvestment = decimal.Zero
	without, err := te.Calculate(bare)
	if err != nil {
		return nil, err
	}

	maximum, err := te.Calculate(input.WithInvestment(claimed.AllowableInvestmentLimit))
	if err != nil {
		return nil, err
	}

	impact := &domain.InvestmentImpact{
		WithoutInvestment: without.FinalTaxDue,
		WithClaimed:       claimed.FinalTaxDue,
		WithMaximum:       maximum.FinalTaxDue,
		ClaimedSaving:     without.FinalTaxDue.Sub(claimed.FinalTaxDue),
		AdditionalSaving:  decimal.Max(decimal.Zero, claimed.FinalTaxDue.Sub(maximum.FinalTaxDue)),
		UnusedLimit:       decimal.Max(decimal.Zero, claimed.AllowableInvestmentLimit.Sub(claimed.InvestmentAmountConsidered)),
		ExcessInvestment:  decimal.Max(decimal.Zero, claimed.InvestmentAmountConsidered.Sub(claimed.AllowableInvestmentLimit)),
		MinimumTaxBinding: claimed.MinimumTaxApplied || maximum.MinimumTaxApplied,
	}
	impact.KeyConsiderations = considerations(claimed, impact)
	return impact, nil
}

func considerations(res *domain.TaxResult, impact *domain.InvestmentImpact) []string {
	var notes []string
	if !res.GrossTax.IsPositive() {
		return append(notes, "No tax is due before rebate, so investment earns no rebate")
	}
	if impact.AdditionalSaving.IsPositive() {
		notes = append(notes, fmt.Sprintf("Investing a further %s could reduce tax by %s",
			money.FormatDecimal(impact.UnusedLimit, true), money.FormatDecimal(impact.AdditionalSaving, true)))
	}
	if impact.ExcessInvestment.IsPositive() {
		notes = append(notes, fmt.Sprintf("%s of the stated investment is above the allowable limit and earns no rebate",
			money.FormatDecimal(impact.ExcessInvestment, true)))
	}
	if impact.MinimumTaxBinding {
		notes = append(notes, fmt.Sprintf("Minimum tax applies above %s; rebates cannot reduce the liability below it",
			money.FormatDecimal(res.MinimumTaxThreshold, true)))
	}
	if len(notes) == 0 {
		notes = append(notes, "Investment rebate is fully used")
	}
	return notes
}
