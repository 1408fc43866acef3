package calculation

import (
	"testing"

	"github.com/bdtax/income-tax-calculator/internal/domain"
	money "github.com/bdtax/income-tax-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func slab(width int64, rate string) domain.TaxSlab {
	w := decimal.NewFromInt(width)
	return domain.TaxSlab{Width: &w, Rate: decimal.RequireFromString(rate)}
}

func TestWalkSlabs(t *testing.T) {
	slabs := []domain.TaxSlab{
		slab(100000, "0"),
		slab(100000, "0.10"),
		{Rate: decimal.RequireFromString("0.25")},
	}

	tests := []struct {
		name     string
		taxable  int64
		lines    int
		grossTax int64
	}{
		{"nothing taxable", 0, 0, 0},
		{"inside first slab", 50000, 1, 0},
		{"exactly fills first slab", 100000, 1, 0},
		{"partial second slab", 150000, 2, 5000},
		{"into top slab", 300000, 3, 35000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, gross := walkSlabs(money.NewMoneyFromInt(tt.taxable), slabs, NopLogger{})
			assert.Len(t, lines, tt.lines)
			assert.True(t, gross.Equal(money.NewMoneyFromInt(tt.grossTax)), "gross got %s", gross)
		})
	}
}

func TestWalkSlabs_PerSlabCeiling(t *testing.T) {
	slabs := []domain.TaxSlab{
		slab(10, "0.15"),
		{Rate: decimal.RequireFromString("0.15")},
	}
	// 10 × 0.15 = 1.5 → 2 and 1 × 0.15 = 0.15 → 1
	_, gross := walkSlabs(money.NewMoneyFromInt(11), slabs, NopLogger{})
	assert.Equal(t, "3.00", gross.String())
}

func TestDescribeSlab(t *testing.T) {
	zero := money.Zero()
	assert.Equal(t, "Up to 3,75,000", describeSlab(slab(375000, "0"), zero, money.NewMoneyFromInt(375000)))
	assert.Equal(t, "On next 1,00,000 (from 1 to 1,00,000)",
		describeSlab(slab(100000, "0.05"), zero, money.NewMoneyFromInt(100000)))
	assert.Equal(t, "On next 3,00,000 (from 3,75,001 to 6,75,000)",
		describeSlab(slab(300000, "0.10"), money.NewMoneyFromInt(375000), money.NewMoneyFromInt(300000)))
	assert.Equal(t, "Above 35,75,000",
		describeSlab(domain.TaxSlab{Rate: decimal.RequireFromString("0.30")}, money.NewMoneyFromInt(3575000), money.NewMoneyFromInt(1)))
}

func TestAllowableInvestmentLimit(t *testing.T) {
	rules := domain.InvestmentRebateRules{
		Rate:                       decimal.RequireFromString("0.15"),
		MaxFractionOfTaxableIncome: decimal.RequireFromString("0.20"),
		AbsoluteCap:                decimal.NewFromInt(10000000),
	}
	assert.True(t, allowableInvestmentLimit(money.Zero(), rules).IsZero())
	assert.Equal(t, "80000.00", allowableInvestmentLimit(money.NewMoneyFromInt(400000), rules).String())
	assert.Equal(t, "66668.00", allowableInvestmentLimit(money.NewMoneyFromInt(333339), rules).String())
	assert.Equal(t, "10000000.00", allowableInvestmentLimit(money.NewMoneyFromInt(90000000), rules).String())

	limit := money.NewMoneyFromInt(80000)
	assert.True(t, investmentRebate(false, money.NewMoneyFromInt(50000), money.NewMoneyFromInt(400000), limit, rules).IsZero())
	assert.True(t, investmentRebate(true, money.NewMoneyFromInt(50000), money.Zero(), limit, rules).IsZero())
	assert.Equal(t, "7500.00", investmentRebate(true, money.NewMoneyFromInt(50000), money.NewMoneyFromInt(400000), limit, rules).String())
	assert.Equal(t, "12000.00", investmentRebate(true, money.NewMoneyFromInt(500000), money.NewMoneyFromInt(400000), limit, rules).String())
	assert.Equal(t, "2.00", investmentRebate(true, money.NewMoneyFromDecimal(decimal.RequireFromString("10.5")), money.NewMoneyFromInt(400000), limit, rules).String())
}

func TestApplyMinimumTax(t *testing.T) {
	threshold := money.NewMoneyFromInt(375000)
	minTax := money.NewMoneyFromInt(5000)

	tests := []struct {
		name    string
		taxable int64
		net     int64
		final   int64
		applied bool
	}{
		{"below threshold no tax", 300000, 0, 0, false},
		{"at threshold no tax", 375000, 0, 0, false},
		{"above threshold small tax raised", 380000, 500, 5000, true},
		{"above threshold tax at floor", 425000, 5000, 5000, false},
		{"above threshold tax above floor", 700000, 32500, 32500, false},
		{"above threshold fully rebated", 400000, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, applied := applyMinimumTax(money.NewMoneyFromInt(tt.taxable), money.NewMoneyFromInt(tt.net), threshold, minTax)
			assert.True(t, final.Equal(money.NewMoneyFromInt(tt.final)), "final got %s", final)
			assert.Equal(t, tt.applied, applied)
		})
	}
}
