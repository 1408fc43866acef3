package calculation

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bdtax/income-tax-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func monthlyInput(monthly int64, year string, category domain.TaxpayerCategory) domain.TaxInput {
	return domain.TaxInput{
		MonthlyGrossSalary: d(monthly),
		IncomeYear:         year,
		Category:           category,
	}
}

func assertDec(t *testing.T, expected int64, actual decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, actual.Equal(d(expected)), "%s: expected %d, got %s", field, expected, actual)
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	debug int
}

func (l *recordingLogger) Debugf(string, ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug++
}
func (l *recordingLogger) Infof(string, ...any) {}
func (l *recordingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Errorf(string, ...any) {}

func TestCalculate_MinimumTaxWorkedExample(t *testing.T) {
	res, err := NewTaxEngine().Calculate(monthlyInput(50000, "2025-2026", domain.CategoryMen))
	require.NoError(t, err)

	assert.Equal(t, "2025-2026", res.RulesYear)
	assert.Equal(t, "2026-2027", res.AssessmentYear)
	assertDec(t, 600000, res.TotalAnnualIncome, "total")
	assertDec(t, 200000, res.StandardExemptionApplied, "exemption")
	assertDec(t, 400000, res.TaxableIncome, "taxable")
	assertDec(t, 2500, res.GrossTax, "gross")
	assertDec(t, 80000, res.AllowableInvestmentLimit, "limit")
	assertDec(t, 0, res.TaxRebate, "rebate")
	assertDec(t, 2500, res.NetTaxPayable, "net")
	assertDec(t, 375000, res.MinimumTaxThreshold, "threshold")
	assert.True(t, res.MinimumTaxApplied)
	assertDec(t, 5000, res.FinalTaxDue, "final")
	assertDec(t, 417, res.MonthlyTaxDeduction, "monthly deduction")
	assertDec(t, 595000, res.NetAnnualIncome, "net annual")
	assertDec(t, 49583, res.NetMonthlySalaryAfterTax, "net monthly")
	assert.Equal(t, "0.83", res.EffectiveTaxRate.StringFixed(2))

	require.Len(t, res.TaxSlabBreakdown, 2)
	assert.Equal(t, "Up to 3,75,000", res.TaxSlabBreakdown[0].Description)
	assertDec(t, 375000, res.TaxSlabBreakdown[0].TaxableAmountInSlab, "slab 1 amount")
	assertDec(t, 0, res.TaxSlabBreakdown[0].TaxOnSlab, "slab 1 tax")
	assert.Equal(t, "On next 3,00,000 (from 3,75,001 to 6,75,000)", res.TaxSlabBreakdown[1].Description)
	assertDec(t, 25000, res.TaxSlabBreakdown[1].TaxableAmountInSlab, "slab 2 amount")
	assertDec(t, 2500, res.TaxSlabBreakdown[1].TaxOnSlab, "slab 2 tax")
}

func TestCalculate_BelowThreshold(t *testing.T) {
	res, err := Calculate(monthlyInput(20000, "2025-2026", domain.CategoryMen))
	require.NoError(t, err)

	assertDec(t, 240000, res.TotalAnnualIncome, "total")
	assertDec(t, 80000, res.StandardExemptionApplied, "exemption")
	assertDec(t, 160000, res.TaxableIncome, "taxable")
	assertDec(t, 0, res.GrossTax, "gross")
	assertDec(t, 0, res.FinalTaxDue, "final")
	assertDec(t, 0, res.MonthlyTaxDeduction, "monthly deduction")
	assertDec(t, 20000, res.NetMonthlySalaryAfterTax, "net monthly")
	assert.False(t, res.MinimumTaxApplied)
	assert.True(t, res.EffectiveTaxRate.IsZero())

	require.Len(t, res.TaxSlabBreakdown, 1)
	assert.Equal(t, "Up to 3,75,000", res.TaxSlabBreakdown[0].Description)
	assertDec(t, 160000, res.TaxSlabBreakdown[0].TaxableAmountInSlab, "slab amount")
}

func TestCalculate_HighIncomeWithInvestment(t *testing.T) {
	input := domain.TaxInput{
		MonthlyGrossSalary:    d(200000),
		AnnualBonuses:         d(400000),
		IncludeInvestments:    true,
		TotalAnnualInvestment: d(500000),
		IncomeYear:            "2025-2026",
		Category:              domain.CategoryMen,
	}
	res, err := NewTaxEngine().Calculate(input)
	require.NoError(t, err)

	assertDec(t, 2800000, res.TotalAnnualIncome, "total")
	assertDec(t, 500000, res.StandardExemptionApplied, "exemption capped")
	assertDec(t, 2300000, res.TaxableIncome, "taxable")
	assertDec(t, 371250, res.GrossTax, "gross")
	assertDec(t, 500000, res.InvestmentAmountConsidered, "investment considered")
	assertDec(t, 460000, res.AllowableInvestmentLimit, "limit")
	assertDec(t, 69000, res.TaxRebate, "rebate")
	assertDec(t, 302250, res.NetTaxPayable, "net")
	assertDec(t, 302250, res.FinalTaxDue, "final")
	assertDec(t, 25188, res.MonthlyTaxDeduction, "monthly deduction")
	assertDec(t, 2497750, res.NetAnnualIncome, "net annual")
	assertDec(t, 174812, res.NetMonthlySalaryAfterTax, "net monthly")
	assert.Equal(t, "10.79", res.EffectiveTaxRate.StringFixed(2))
	assert.True(t, res.HasRebate())

	require.Len(t, res.TaxSlabBreakdown, 5)
	last := res.TaxSlabBreakdown[4]
	assert.Equal(t, "On next 20,00,000 (from 15,75,001 to 35,75,000)", last.Description)
	assertDec(t, 725000, last.TaxableAmountInSlab, "slab 5 amount")
	assertDec(t, 181250, last.TaxOnSlab, "slab 5 tax")
}

func TestCalculate_TopSlabDescription(t *testing.T) {
	res, err := Calculate(monthlyInput(400000, "2025-2026", domain.CategoryMen))
	require.NoError(t, err)

	// 4,800,000 total, 500,000 exemption, 4,300,000 taxable.
	require.Len(t, res.TaxSlabBreakdown, 6)
	top := res.TaxSlabBreakdown[5]
	assert.Equal(t, "Above 35,75,000", top.Description)
	assertDec(t, 725000, top.TaxableAmountInSlab, "top amount")
	assertDec(t, 217500, top.TaxOnSlab, "top tax")
	assert.Equal(t, "30", top.RatePercent().String())
}

func TestCalculate_RebateClampedToGrossTax(t *testing.T) {
	input := monthlyInput(50000, "2025-2026", domain.CategoryMen).WithInvestment(d(80000))
	res, err := Calculate(input)
	require.NoError(t, err)

	assertDec(t, 2500, res.GrossTax, "gross")
	assertDec(t, 2500, res.TaxRebate, "rebate clamped")
	assertDec(t, 0, res.NetTaxPayable, "net")
	assertDec(t, 0, res.FinalTaxDue, "final")
	assert.False(t, res.MinimumTaxApplied)
}

func TestCalculate_InvestmentIgnoredWhenNotIncluded(t *testing.T) {
	input := monthlyInput(100000, "2025-2026", domain.CategoryMen)
	input.TotalAnnualInvestment = d(100000)

	res, err := Calculate(input)
	require.NoError(t, err)
	assertDec(t, 0, res.InvestmentAmountConsidered, "investment considered")
	assertDec(t, 0, res.TaxRebate, "rebate")
}

func TestCalculate_CategoryAndAliasYear(t *testing.T) {
	tests := []struct {
		name      string
		monthly   int64
		category  domain.TaxpayerCategory
		threshold int64
		final     int64
		minTax    bool
	}{
		{"women below raised threshold", 45000, domain.CategoryWomen, 400000, 0, false},
		{"men above threshold pays minimum", 45000, domain.CategoryMen, 350000, 5000, true},
		{"disabled threshold", 45000, domain.CategoryDisabledOrThirdGender, 475000, 0, false},
		{"freedom fighter threshold", 45000, domain.CategoryFreedomFighter, 500000, 0, false},
	}
	engine := NewTaxEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Calculate(monthlyInput(tt.monthly, "2023-2024", tt.category))
			require.NoError(t, err)

			assert.Equal(t, "2023-2024", res.IncomeYear)
			assert.Equal(t, "2024-2025", res.RulesYear)
			assert.Equal(t, "2024-2025", res.AssessmentYear)
			assertDec(t, 360000, res.TaxableIncome, "taxable")
			assertDec(t, tt.threshold, res.MinimumTaxThreshold, "threshold")
			assertDec(t, tt.final, res.FinalTaxDue, "final")
			assert.Equal(t, tt.minTax, res.MinimumTaxApplied)
		})
	}
}

func TestCalculate_UnknownYearFallsBack(t *testing.T) {
	logger := &recordingLogger{}
	engine := NewTaxEngine()
	engine.SetLogger(logger)

	res, err := engine.Calculate(monthlyInput(50000, "1999-2000", domain.CategoryMen))
	require.NoError(t, err)
	assert.Equal(t, "2024-2025", res.RulesYear)
	assert.Equal(t, "1999-2000", res.IncomeYear)
	assert.Equal(t, "2000-2001", res.AssessmentYear)
	require.Len(t, logger.warns, 1)
	assert.Contains(t, logger.warns[0], "1999-2000")
	assert.Positive(t, logger.debug)
}

func TestCalculate_EmptyCategoryDefaultsToMen(t *testing.T) {
	res, err := Calculate(monthlyInput(50000, "2025-2026", ""))
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryMen, res.Category)
	assertDec(t, 375000, res.MinimumTaxThreshold, "threshold")
}

func TestCalculate_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input domain.TaxInput
	}{
		{"negative salary", domain.TaxInput{MonthlyGrossSalary: d(-1)}},
		{"negative bonus", domain.TaxInput{MonthlyGrossSalary: d(1000), AnnualBonuses: d(-5)}},
		{"negative investment", domain.TaxInput{MonthlyGrossSalary: d(1000)}.WithInvestment(d(-10))},
		{"unknown category", domain.TaxInput{MonthlyGrossSalary: d(1000), Category: "retired"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestCalculate_ZeroIncome(t *testing.T) {
	res, err := Calculate(domain.TaxInput{IncomeYear: "2025-2026"})
	require.NoError(t, err)
	assert.True(t, res.FinalTaxDue.IsZero())
	assert.True(t, res.AllowableInvestmentLimit.IsZero())
	assert.Empty(t, res.TaxSlabBreakdown)
}

func TestCalculate_AnnualEntryMode(t *testing.T) {
	res, err := Calculate(domain.NewAnnualTaxInput(d(1000000), "2025-2026", domain.CategoryWomen))
	require.NoError(t, err)
	assertDec(t, 1000000, res.TotalAnnualIncome, "total")
	assertDec(t, 333334, res.StandardExemptionApplied, "exemption rounded up")
	assertDec(t, 666666, res.TaxableIncome, "taxable")
	assertDec(t, 24167, res.FinalTaxDue, "final")
	assert.Equal(t, "83333.33", res.MonthlyGrossSalary.String())
	assert.Equal(t, "81319.33", res.NetMonthlySalaryAfterTax.String())
}

func TestCalculate_FractionalSalaryKeepsFullPrecision(t *testing.T) {
	res, err := Calculate(domain.TaxInput{
		MonthlyGrossSalary: decimal.RequireFromString("50000.0003333"),
		IncomeYear:         "2025-2026",
		Category:           domain.CategoryMen,
	})
	require.NoError(t, err)
	assert.Equal(t, "600000.0039996", res.TotalAnnualIncome.String())
	assertDec(t, 200001, res.StandardExemptionApplied, "exemption rounds the exact third up")
	assert.Equal(t, "399999.0039996", res.TaxableIncome.String())
	assertDec(t, 2500, res.GrossTax, "gross")
	assertDec(t, 5000, res.FinalTaxDue, "final")
	assert.Equal(t, "50000", res.MonthlyGrossSalary.String())
	assert.Equal(t, "49583", res.NetMonthlySalaryAfterTax.String())
}

func TestCalculate_Properties(t *testing.T) {
	engine := NewTaxEngine()
	years := []string{"2023-2024", "2024-2025", "2025-2026"}
	investments := []int64{0, 25000, 150000, 2000000}

	for _, year := range years {
		for _, category := range domain.AllCategories {
			var prev decimal.Decimal
			for monthly := int64(0); monthly <= 600000; monthly += 7500 {
				base := monthlyInput(monthly, year, category)
				res, err := engine.Calculate(base)
				require.NoError(t, err)

				sum := decimal.Zero
				for _, line := range res.TaxSlabBreakdown {
					sum = sum.Add(line.TaxOnSlab)
				}
				assert.True(t, sum.Equal(res.GrossTax), "slab sum %s != gross %s", sum, res.GrossTax)
				assert.False(t, res.FinalTaxDue.IsNegative())
				assert.True(t, res.FinalTaxDue.Equal(res.FinalTaxDue.Ceil()), "final tax must be whole taka")
				assert.True(t, res.FinalTaxDue.GreaterThanOrEqual(prev), "%s %s: tax decreased at %d", year, category, monthly)
				prev = res.FinalTaxDue

				if res.TaxableIncome.LessThanOrEqual(res.MinimumTaxThreshold) {
					assert.True(t, res.FinalTaxDue.IsZero(), "no tax at or below threshold")
				}

				for _, inv := range investments {
					withInv, err := engine.Calculate(base.WithInvestment(d(inv)))
					require.NoError(t, err)

					assert.True(t, withInv.TaxRebate.LessThanOrEqual(withInv.GrossTax))
					eligible := decimal.Min(d(inv), withInv.AllowableInvestmentLimit, d(10000000))
					assert.True(t, withInv.TaxRebate.LessThanOrEqual(eligible.Mul(decimal.NewFromFloat(0.15)).Ceil()))
					assert.True(t, withInv.GrossTax.GreaterThanOrEqual(withInv.NetTaxPayable))
					assert.False(t, withInv.NetTaxPayable.IsNegative())
					assert.True(t, withInv.FinalTaxDue.GreaterThanOrEqual(withInv.NetTaxPayable))
					if withInv.TaxableIncome.GreaterThan(withInv.MinimumTaxThreshold) {
						inGap := withInv.FinalTaxDue.IsPositive() && withInv.FinalTaxDue.LessThan(d(5000))
						assert.False(t, inGap, "final %s inside minimum tax gap", withInv.FinalTaxDue)
					}
				}
			}
		}
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	input := domain.TaxInput{
		MonthlyGrossSalary:    decimal.RequireFromString("123456.78"),
		AnnualBonuses:         d(250000),
		IncludeInvestments:    true,
		TotalAnnualInvestment: d(90000),
		IncomeYear:            "2024-2025",
		Category:              domain.CategoryFreedomFighter,
	}
	engine := NewTaxEngine()
	first, err := engine.Calculate(input)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, err := engine.Calculate(input)
			if assert.NoError(t, err) {
				assert.Equal(t, first, again)
			}
		}()
	}
	wg.Wait()
}

func TestCompareYears(t *testing.T) {
	engine := NewTaxEngine()
	results, err := engine.CompareYears(monthlyInput(50000, "", domain.CategoryMen))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "2024-2025", results[0].IncomeYear)
	assert.Equal(t, "2025-2026", results[1].IncomeYear)

	results, err = engine.CompareYears(monthlyInput(50000, "", domain.CategoryMen), "2025-2026", "2023-2024")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "2024-2025", results[1].RulesYear)

	_, err = engine.CompareYears(domain.TaxInput{MonthlyGrossSalary: d(-1)}, "2025-2026")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetLoggerNil(t *testing.T) {
	engine := NewTaxEngine()
	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}
