package domain

import (
	"github.com/shopspring/decimal"
)

// TaxInput carries everything the engine needs for one calculation.
type TaxInput struct {
	MonthlyGrossSalary    decimal.Decimal  `yaml:"monthly_gross_salary" json:"monthly_gross_salary"`
	AnnualBonuses         decimal.Decimal  `yaml:"annual_bonuses" json:"annual_bonuses"`
	IncludeInvestments    bool             `yaml:"include_investments" json:"include_investments"`
	TotalAnnualInvestment decimal.Decimal  `yaml:"total_annual_investment" json:"total_annual_investment"`
	IncomeYear            string           `yaml:"income_year" json:"income_year"`
	Category              TaxpayerCategory `yaml:"category" json:"category"`

	// annualGross is the figure entered in annual mode. Dividing it by twelve
	// is inexact, so the total is taken from here rather than rebuilt.
	annualGross *decimal.Decimal
}

var twelve = decimal.NewFromInt(12)

// NewAnnualTaxInput builds an input from a single annual gross figure, the
// way the "annual income" entry mode does: the salary is spread over twelve
// months and no separate bonus is recorded. The total annual income stays
// exactly annualGross.
func NewAnnualTaxInput(annualGross decimal.Decimal, year string, category TaxpayerCategory) TaxInput {
	return TaxInput{
		MonthlyGrossSalary: annualGross.Div(twelve),
		IncomeYear:         year,
		Category:           category,
		annualGross:        &annualGross,
	}
}

// TotalAnnualIncome is monthly salary times twelve plus bonuses, without
// rounding. Inputs from NewAnnualTaxInput return the entered annual figure.
func (in TaxInput) TotalAnnualIncome() decimal.Decimal {
	if in.annualGross != nil {
		return *in.annualGross
	}
	return in.MonthlyGrossSalary.Mul(twelve).Add(in.AnnualBonuses)
}

// WithInvestment returns a copy of the input that claims the given investment.
func (in TaxInput) WithInvestment(amount decimal.Decimal) TaxInput {
	in.IncludeInvestments = true
	in.TotalAnnualInvestment = amount
	return in
}

// TaxSlabLine is one row of the slab breakdown.
type TaxSlabLine struct {
	Description         string          `json:"description"`
	TaxableAmountInSlab decimal.Decimal `json:"taxable_amount_in_slab"`
	Rate                decimal.Decimal `json:"rate"`
	TaxOnSlab           decimal.Decimal `json:"tax_on_slab"`
}

// RatePercent returns the slab rate as a percentage.
func (l TaxSlabLine) RatePercent() decimal.Decimal {
	return l.Rate.Mul(decimal.NewFromInt(100))
}

// TaxResult is the fully itemized outcome of a calculation.
type TaxResult struct {
	IncomeYear     string           `json:"income_year"`
	RulesYear      string           `json:"rules_year"`
	AssessmentYear string           `json:"assessment_year"`
	Category       TaxpayerCategory `json:"category"`

	MonthlyGrossSalary       decimal.Decimal `json:"monthly_gross_salary"`
	TotalAnnualIncome        decimal.Decimal `json:"total_annual_income"`
	StandardExemptionApplied decimal.Decimal `json:"standard_exemption_applied"`
	TaxableIncome            decimal.Decimal `json:"taxable_income"`
	GrossTax                 decimal.Decimal `json:"gross_tax"`

	InvestmentAmountConsidered decimal.Decimal `json:"investment_amount_considered"`
	AllowableInvestmentLimit   decimal.Decimal `json:"allowable_investment_limit"`
	TaxRebate                  decimal.Decimal `json:"tax_rebate"`
	NetTaxPayable              decimal.Decimal `json:"net_tax_payable"`

	MinimumTaxThreshold decimal.Decimal `json:"minimum_tax_threshold"`
	MinimumTaxApplied   bool            `json:"minimum_tax_applied"`
	FinalTaxDue         decimal.Decimal `json:"final_tax_due"`
	MonthlyTaxDeduction decimal.Decimal `json:"monthly_tax_deduction"`
	EffectiveTaxRate    decimal.Decimal `json:"effective_tax_rate"`

	NetAnnualIncome          decimal.Decimal `json:"net_annual_income"`
	NetMonthlySalaryAfterTax decimal.Decimal `json:"net_monthly_salary_after_tax"`

	TaxSlabBreakdown []TaxSlabLine `json:"tax_slab_breakdown"`
}

// HasRebate reports whether an investment rebate reduced the tax.
func (r *TaxResult) HasRebate() bool {
	return r.TaxRebate.IsPositive()
}

// RateCurvePoint is one sample of effective tax rate against gross income.
type RateCurvePoint struct {
	AnnualIncome  decimal.Decimal `json:"annual_income"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
	FinalTaxDue   decimal.Decimal `json:"final_tax_due"`
	Investment    decimal.Decimal `json:"investment"`
	IsUser        bool            `json:"is_user"`
}

// InvestmentImpact compares the tax due with no investment, with the
// investment actually claimed and with the full allowable limit invested.
type InvestmentImpact struct {
	WithoutInvestment decimal.Decimal `json:"tax_without_investment"`
	WithClaimed       decimal.Decimal `json:"tax_with_claimed_investment"`
	WithMaximum       decimal.Decimal `json:"tax_with_maximum_investment"`
	ClaimedSaving     decimal.Decimal `json:"claimed_saving"`
	AdditionalSaving  decimal.Decimal `json:"additional_saving_available"`
	UnusedLimit       decimal.Decimal `json:"unused_investment_limit"`
	ExcessInvestment  decimal.Decimal `json:"excess_investment"`
	MinimumTaxBinding bool            `json:"minimum_tax_binding"`
	KeyConsiderations []string        `json:"key_considerations"`
}
