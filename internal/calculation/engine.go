package calculation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bdtax/income-tax-calculator/internal/config"
	"github.com/bdtax/income-tax-calculator/internal/domain"
	money "github.com/bdtax/income-tax-calculator/pkg/decimal"
	"github.com/bdtax/income-tax-calculator/pkg/incomeyear"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned when a TaxInput violates the engine's contract:
// negative salary, bonuses or investment, or an unrecognised category.
var ErrInvalidInput = errors.New("invalid tax input")

var hundred = decimal.NewFromInt(100)

// TaxEngine computes itemized tax results. It holds only an immutable rule
// book and a logger, so a single engine may serve concurrent callers.
type TaxEngine struct {
	Rules  *domain.RuleBook
	Logger Logger
}

// NewTaxEngine creates a new engine over the embedded default rules
func NewTaxEngine() *TaxEngine {
	return NewTaxEngineWithRules(config.DefaultRules())
}

// NewTaxEngineWithRules creates a new engine over a caller-supplied rule book
func NewTaxEngineWithRules(rules *domain.RuleBook) *TaxEngine {
	if rules == nil {
		rules = config.DefaultRules()
	}
	return &TaxEngine{Rules: rules, Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (te *TaxEngine) SetLogger(l Logger) {
	if l == nil {
		te.Logger = NopLogger{}
		return
	}
	te.Logger = l
}

// Calculate runs a single calculation with the default engine.
func Calculate(input domain.TaxInput) (*domain.TaxResult, error) {
	return NewTaxEngine().Calculate(input)
}

// Calculate computes the full tax breakdown for one taxpayer and income year.
// It has no side effects besides debug logging; identical inputs always
// produce identical results.
func (te *TaxEngine) Calculate(input domain.TaxInput) (*domain.TaxResult, error) {
	category, err := validateInput(input)
	if err != nil {
		return nil, err
	}

	yearCfg, rulesYear, fellBack := te.Rules.Resolve(input.IncomeYear)
	if fellBack {
		te.Logger.Warnf("no rules for income year %q, applying %s rules", input.IncomeYear, rulesYear)
	}

	monthly := money.NewMoneyFromDecimal(input.MonthlyGrossSalary)
	totalIncome := money.NewMoneyFromDecimal(input.TotalAnnualIncome())

	exemption := te.standardExemption(totalIncome, yearCfg)
	taxableIncome := money.Max(money.Zero(), totalIncome.Sub(exemption))

	lines, grossTax := walkSlabs(taxableIncome, yearCfg.SlabsFor(category), te.Logger)

	rebateRules := te.Rules.InvestmentRebate
	allowable := allowableInvestmentLimit(taxableIncome, rebateRules)

	investment := money.Zero()
	if input.IncludeInvestments {
		investment = money.NewMoneyFromDecimal(input.TotalAnnualInvestment)
	}
	rebate := investmentRebate(input.IncludeInvestments, investment, taxableIncome, allowable, rebateRules)
	rebate = money.Min(rebate, grossTax)
	netTax := money.Max(money.Zero(), grossTax.Sub(rebate))

	threshold := money.NewMoneyFromDecimal(yearCfg.ZeroRateLimit(category))
	finalTax, minApplied := applyMinimumTax(taxableIncome, netTax, threshold, money.NewMoneyFromDecimal(yearCfg.MinimumTax))

	monthlyDeduction := money.Zero()
	if finalTax.IsPositive() {
		monthlyDeduction = finalTax.Monthly().Ceil()
	}

	effectiveRate := decimal.Zero
	if totalIncome.IsPositive() {
		effectiveRate = finalTax.Decimal.Div(totalIncome.Decimal).Mul(hundred).Round(2)
	}

	assessmentYear, err := incomeyear.AssessmentYearOf(input.IncomeYear)
	if err != nil {
		assessmentYear = yearCfg.AssessmentYear
	}

	te.Logger.Debugf("income year %s (rules %s), category %s: taxable %s, gross %s, rebate %s, due %s",
		input.IncomeYear, rulesYear, category, taxableIncome, grossTax, rebate, finalTax)

	return &domain.TaxResult{
		IncomeYear:     input.IncomeYear,
		RulesYear:      rulesYear,
		AssessmentYear: assessmentYear,
		Category:       category,

		MonthlyGrossSalary:       monthly.Round().Decimal,
		TotalAnnualIncome:        totalIncome.Decimal,
		StandardExemptionApplied: exemption.Decimal,
		TaxableIncome:            taxableIncome.Decimal,
		GrossTax:                 grossTax.Decimal,

		InvestmentAmountConsidered: investment.Decimal,
		AllowableInvestmentLimit:   allowable.Decimal,
		TaxRebate:                  rebate.Decimal,
		NetTaxPayable:              netTax.Decimal,

		MinimumTaxThreshold: threshold.Decimal,
		MinimumTaxApplied:   minApplied,
		FinalTaxDue:         finalTax.Decimal,
		MonthlyTaxDeduction: monthlyDeduction.Decimal,
		EffectiveTaxRate:    effectiveRate,

		NetAnnualIncome:          totalIncome.Sub(finalTax).Decimal,
		NetMonthlySalaryAfterTax: monthly.Sub(monthlyDeduction).Round().Decimal,

		TaxSlabBreakdown: lines,
	}, nil
}

// standardExemption is a fixed fraction of total income, capped per year and
// rounded up to whole taka.
func (te *TaxEngine) standardExemption(totalIncome money.Money, yearCfg domain.TaxYearConfig) money.Money {
	byIncome := totalIncome.Div(te.Rules.StandardExemptionDivisor)
	exemption := money.Min(money.NewMoneyFromDecimal(yearCfg.StandardExemptionCap), byIncome).Ceil()
	return money.Max(money.Zero(), exemption)
}

// CompareYears calculates the same input under several income years. With no
// years given, every year that has its own rules is used, oldest first.
func (te *TaxEngine) CompareYears(input domain.TaxInput, years ...string) ([]*domain.TaxResult, error) {
	if len(years) == 0 {
		for y := range te.Rules.IncomeYears {
			years = append(years, y)
		}
		sort.Strings(years)
	}
	results := make([]*domain.TaxResult, 0, len(years))
	for _, y := range years {
		in := input
		in.IncomeYear = y
		res, err := te.Calculate(in)
		if err != nil {
			return nil, fmt.Errorf("income year %s: %w", y, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func validateInput(input domain.TaxInput) (domain.TaxpayerCategory, error) {
	if input.MonthlyGrossSalary.IsNegative() {
		return "", fmt.Errorf("%w: monthly gross salary cannot be negative", ErrInvalidInput)
	}
	if input.AnnualBonuses.IsNegative() {
		return "", fmt.Errorf("%w: annual bonuses cannot be negative", ErrInvalidInput)
	}
	if input.IncludeInvestments && input.TotalAnnualInvestment.IsNegative() {
		return "", fmt.Errorf("%w: investment cannot be negative", ErrInvalidInput)
	}
	category := input.Category
	if category == "" {
		category = domain.CategoryMen
	}
	if !category.Valid() {
		return "", fmt.Errorf("%w: unknown taxpayer category %q", ErrInvalidInput, input.Category)
	}
	return category, nil
}
