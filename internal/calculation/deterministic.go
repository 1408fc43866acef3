package calculation

import (
	"time"

	"github.com/bdtax/income-tax-calculator/pkg/incomeyear"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// CurrentIncomeYear returns the income year containing today when the rule
// book covers it, and the rule book's default year otherwise.
func (te *TaxEngine) CurrentIncomeYear() string {
	current := incomeyear.For(nowFunc()).String()
	if _, _, fellBack := te.Rules.Resolve(current); !fellBack {
		return current
	}
	return te.Rules.DefaultYear
}
