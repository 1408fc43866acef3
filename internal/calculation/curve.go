package calculation

import (
	"fmt"
	"sort"

	"github.com/bdtax/income-tax-calculator/internal/domain"
	money "github.com/bdtax/income-tax-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Default sampling for the effective-rate curve.
var (
	DefaultCurveFrom = decimal.NewFromInt(350000)
	DefaultCurveTo   = decimal.NewFromInt(5000000)
	DefaultCurveStep = decimal.NewFromInt(50000)
)

// maxCurvePoints guards against a tiny step over a huge range.
const maxCurvePoints = 10000

// CurveRequest describes an effective-rate curve. A nil From, To or Step
// uses the package default; an explicit zero is kept.
type CurveRequest struct {
	Year     string
	Category domain.TaxpayerCategory
	From     *decimal.Decimal
	To       *decimal.Decimal
	Step     *decimal.Decimal

	// MaxInvestment invests exactly the engine's allowable limit at every
	// point (a share of taxable income, capped). This is not the same as
	// investing a share of gross income, so high-income points invest more.
	MaxInvestment bool

	// UserAnnualIncome, when positive, is marked on the curve and inserted
	// in order if it does not fall on a tick.
	UserAnnualIncome decimal.Decimal
}

func (r CurveRequest) bounds() (from, to, step decimal.Decimal) {
	from, to, step = DefaultCurveFrom, DefaultCurveTo, DefaultCurveStep
	if r.From != nil {
		from = *r.From
	}
	if r.To != nil {
		to = *r.To
	}
	if r.Step != nil {
		step = *r.Step
	}
	return from, to, step
}

// SuggestedInvestment returns the allowable investment limit for a
// prospective annual gross income: the most that still earns a rebate.
func (te *TaxEngine) SuggestedInvestment(annualGross decimal.Decimal, year string, category domain.TaxpayerCategory) (decimal.Decimal, error) {
	res, err := te.Calculate(domain.NewAnnualTaxInput(annualGross, year, category))
	if err != nil {
		return decimal.Zero, err
	}
	return res.AllowableInvestmentLimit, nil
}

// EffectiveRateCurve samples final tax and effective rate across a range of
// annual incomes.
func (te *TaxEngine) EffectiveRateCurve(req CurveRequest) ([]domain.RateCurvePoint, error) {
	from, to, step := req.bounds()
	if from.IsNegative() || to.LessThan(from) {
		return nil, fmt.Errorf("%w: curve range %s..%s", ErrInvalidInput, from, to)
	}
	if !step.IsPositive() {
		return nil, fmt.Errorf("%w: curve step must be positive", ErrInvalidInput)
	}
	if to.Sub(from).Div(step).GreaterThan(decimal.NewFromInt(maxCurvePoints)) {
		return nil, fmt.Errorf("%w: curve would exceed %d points", ErrInvalidInput, maxCurvePoints)
	}

	var incomes []decimal.Decimal
	userOnTick := false
	for inc := from; inc.LessThanOrEqual(to); inc = inc.Add(step) {
		incomes = append(incomes, inc)
		if inc.Equal(req.UserAnnualIncome) {
			userOnTick = true
		}
	}
	if req.UserAnnualIncome.IsPositive() && !userOnTick {
		incomes = append(incomes, req.UserAnnualIncome)
		sort.Slice(incomes, func(i, j int) bool { return incomes[i].LessThan(incomes[j]) })
	}

	points := make([]domain.RateCurvePoint, 0, len(incomes))
	for _, inc := range incomes {
		point, err := te.curvePoint(inc, req)
		if err != nil {
			return nil, err
		}
		point.IsUser = req.UserAnnualIncome.IsPositive() && inc.Equal(req.UserAnnualIncome)
		points = append(points, point)
	}
	return points, nil
}

func (te *TaxEngine) curvePoint(income decimal.Decimal, req CurveRequest) (domain.RateCurvePoint, error) {
	input := domain.NewAnnualTaxInput(income, req.Year, req.Category)
	res, err := te.Calculate(input)
	if err != nil {
		return domain.RateCurvePoint{}, err
	}
	if req.MaxInvestment && res.AllowableInvestmentLimit.IsPositive() {
		res, err = te.Calculate(input.WithInvestment(res.AllowableInvestmentLimit))
		if err != nil {
			return domain.RateCurvePoint{}, err
		}
	}

	rate := decimal.Zero
	if income.IsPositive() {
		rate = money.NewMoneyFromDecimal(res.FinalTaxDue).Div(income).Mul(hundred).Round().Decimal
	}
	return domain.RateCurvePoint{
		AnnualIncome:  income,
		EffectiveRate: rate,
		FinalTaxDue:   res.FinalTaxDue,
		Investment:    res.InvestmentAmountConsidered,
	}, nil
}
