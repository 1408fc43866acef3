package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bdtax/income-tax-calculator/internal/domain"
	"github.com/bdtax/income-tax-calculator/pkg/incomeyear"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRules is returned when a rule book fails validation.
var ErrInvalidRules = errors.New("invalid tax rules")

//go:embed rules.yaml
var defaultRulesYAML []byte

var (
	defaultRulesOnce sync.Once
	defaultRules     *domain.RuleBook
)

// DefaultRules returns the rule book compiled into the binary. It is parsed
// once; callers must treat the result as read-only.
func DefaultRules() *domain.RuleBook {
	defaultRulesOnce.Do(func() {
		rb, err := NewRuleLoader().Parse(defaultRulesYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded rules.yaml: %v", err))
		}
		defaultRules = rb
	})
	return defaultRules
}

// DefaultRulesYAML returns the raw embedded rule book.
func DefaultRulesYAML() []byte {
	out := make([]byte, len(defaultRulesYAML))
	copy(out, defaultRulesYAML)
	return out
}

// RuleLoader reads and validates rule books.
type RuleLoader struct{}

// NewRuleLoader creates a new rule loader
func NewRuleLoader() *RuleLoader {
	return &RuleLoader{}
}

// LoadFromFile loads a rule book from a YAML file. An empty filename yields
// the embedded defaults.
func (rl *RuleLoader) LoadFromFile(filename string) (*domain.RuleBook, error) {
	if filename == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}
	return rl.Parse(data)
}

// Parse decodes and validates a rule book.
func (rl *RuleLoader) Parse(data []byte) (*domain.RuleBook, error) {
	var rb domain.RuleBook
	if err := yaml.Unmarshal(data, &rb); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	if err := rl.ValidateRules(&rb); err != nil {
		return nil, err
	}
	return &rb, nil
}

// Marshal renders a rule book back to YAML.
func (rl *RuleLoader) Marshal(rb *domain.RuleBook) ([]byte, error) {
	return yaml.Marshal(rb)
}

// ValidateRules checks that a rule book is complete and internally consistent.
func (rl *RuleLoader) ValidateRules(rb *domain.RuleBook) error {
	if len(rb.IncomeYears) == 0 {
		return fmt.Errorf("%w: no income years defined", ErrInvalidRules)
	}
	if _, ok := rb.IncomeYears[rb.FallbackYear]; !ok {
		return fmt.Errorf("%w: fallback income year %q has no rules", ErrInvalidRules, rb.FallbackYear)
	}
	if rb.DefaultYear != "" {
		if _, _, fellBack := rb.Resolve(rb.DefaultYear); fellBack {
			return fmt.Errorf("%w: default income year %q has no rules", ErrInvalidRules, rb.DefaultYear)
		}
	}
	if !rb.StandardExemptionDivisor.IsPositive() {
		return fmt.Errorf("%w: standard exemption divisor must be positive", ErrInvalidRules)
	}
	if err := validateRebate(rb.InvestmentRebate); err != nil {
		return err
	}

	for alias, target := range rb.Aliases {
		if _, ok := rb.IncomeYears[target]; !ok {
			return fmt.Errorf("%w: alias %s points to unknown income year %s", ErrInvalidRules, alias, target)
		}
	}

	for key, year := range rb.IncomeYears {
		if err := validateYear(key, year); err != nil {
			return fmt.Errorf("%w: income year %s: %v", ErrInvalidRules, key, err)
		}
	}
	return nil
}

func validateRebate(r domain.InvestmentRebateRules) error {
	if !isFraction(r.Rate) {
		return fmt.Errorf("%w: investment rebate rate must be between 0 and 1", ErrInvalidRules)
	}
	if !isFraction(r.MaxFractionOfTaxableIncome) {
		return fmt.Errorf("%w: investment allowance fraction must be between 0 and 1", ErrInvalidRules)
	}
	if r.AbsoluteCap.IsNegative() {
		return fmt.Errorf("%w: investment absolute cap cannot be negative", ErrInvalidRules)
	}
	return nil
}

func validateYear(key string, year domain.TaxYearConfig) error {
	iy, err := incomeyear.Parse(key)
	if err != nil {
		return err
	}
	if year.AssessmentYear != "" && year.AssessmentYear != iy.AssessmentYear().String() {
		return fmt.Errorf("assessment year %s does not follow income year %s", year.AssessmentYear, key)
	}
	if len(year.Slabs) == 0 {
		return fmt.Errorf("no slabs defined")
	}
	for i, slab := range year.Slabs {
		last := i == len(year.Slabs)-1
		if !isFraction(slab.Rate) {
			return fmt.Errorf("slab %d rate must be between 0 and 1", i+1)
		}
		if last && !slab.Unbounded() {
			return fmt.Errorf("final slab must be unbounded (omit width)")
		}
		if !last && (slab.Unbounded() || !slab.Width.IsPositive()) {
			return fmt.Errorf("slab %d width must be positive", i+1)
		}
	}
	if year.StandardExemptionCap.IsNegative() {
		return fmt.Errorf("standard exemption cap cannot be negative")
	}
	if year.MinimumTax.IsNegative() {
		return fmt.Errorf("minimum tax cannot be negative")
	}
	for _, c := range domain.AllCategories {
		limit, ok := year.ZeroRateLimits[c]
		if !ok {
			return fmt.Errorf("zero rate limit missing for category %s", c)
		}
		if !limit.IsPositive() {
			return fmt.Errorf("zero rate limit for category %s must be positive", c)
		}
	}
	for c := range year.ZeroRateLimits {
		if !c.Valid() {
			return fmt.Errorf("unknown category %q in zero rate limits", c)
		}
	}
	return nil
}

func isFraction(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}
