package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/bdtax/income-tax-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidProfile is returned when a tax profile fails caller-side validation.
var ErrInvalidProfile = errors.New("invalid tax profile")

// TaxProfile is the on-disk description of a taxpayer, in YAML or JSON.
// Income is given either monthly (salary plus bonuses) or as one annual figure.
type TaxProfile struct {
	Name        string            `yaml:"name,omitempty" json:"name,omitempty"`
	IncomeYear  string            `yaml:"income_year" json:"income_year"`
	Category    string            `yaml:"category" json:"category"`
	Income      ProfileIncome     `yaml:"income" json:"income"`
	Investments ProfileInvestment `yaml:"investments,omitempty" json:"investments,omitempty"`
}

// ProfileIncome holds the gross income figures.
type ProfileIncome struct {
	MonthlyGrossSalary decimal.Decimal `yaml:"monthly_gross_salary,omitempty" json:"monthly_gross_salary,omitempty"`
	AnnualBonuses      decimal.Decimal `yaml:"annual_bonuses,omitempty" json:"annual_bonuses,omitempty"`
	AnnualGrossIncome  decimal.Decimal `yaml:"annual_gross_income,omitempty" json:"annual_gross_income,omitempty"`
}

// ProfileInvestment holds the rebate election.
type ProfileInvestment struct {
	Include               bool            `yaml:"include" json:"include"`
	TotalAnnualInvestment decimal.Decimal `yaml:"total_annual_investment,omitempty" json:"total_annual_investment,omitempty"`
}

// AnnualMode reports whether income was entered as a single annual figure.
func (p *TaxProfile) AnnualMode() bool {
	return !p.Income.AnnualGrossIncome.IsZero()
}

// InputParser handles parsing and validation of tax profiles
type InputParser struct {
	rules       *domain.RuleBook
	defaultYear string
}

// NewInputParser creates a new input parser validating against rules.
// A nil rule book means the embedded defaults.
func NewInputParser(rules *domain.RuleBook) *InputParser {
	if rules == nil {
		rules = DefaultRules()
	}
	return &InputParser{rules: rules}
}

// WithDefaultYear sets the income year given to profiles that omit one.
// Empty means the rule book's default year.
func (ip *InputParser) WithDefaultYear(year string) *InputParser {
	ip.defaultYear = year
	return ip
}

func (ip *InputParser) fallbackYear() string {
	if ip.defaultYear != "" {
		return ip.defaultYear
	}
	return ip.rules.DefaultYear
}

// LoadFromFile loads a profile from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*TaxProfile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var profile TaxProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateProfile(&profile); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	return &profile, nil
}

// ValidateProfile enforces the checks the calculator leaves to its callers:
// a positive income, a non-negative investment, a known category and a
// selectable income year. An empty year is replaced by the parser's default year.
func (ip *InputParser) ValidateProfile(p *TaxProfile) error {
	if p.IncomeYear == "" {
		p.IncomeYear = ip.fallbackYear()
	}
	if !ip.knownYear(p.IncomeYear) {
		return fmt.Errorf("%w: income year %q is not one of %v", ErrInvalidProfile, p.IncomeYear, ip.rules.Years())
	}
	if _, err := domain.ParseCategory(p.Category); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	inc := p.Income
	if p.AnnualMode() {
		if !inc.MonthlyGrossSalary.IsZero() || !inc.AnnualBonuses.IsZero() {
			return fmt.Errorf("%w: give either annual_gross_income or monthly salary and bonuses, not both", ErrInvalidProfile)
		}
		if !inc.AnnualGrossIncome.IsPositive() {
			return fmt.Errorf("%w: total annual gross income must be a positive number", ErrInvalidProfile)
		}
	} else {
		if !inc.MonthlyGrossSalary.IsPositive() {
			return fmt.Errorf("%w: monthly gross salary must be a positive number", ErrInvalidProfile)
		}
		if inc.AnnualBonuses.IsNegative() {
			return fmt.Errorf("%w: annual bonuses cannot be negative", ErrInvalidProfile)
		}
	}

	if p.Investments.Include && p.Investments.TotalAnnualInvestment.IsNegative() {
		return fmt.Errorf("%w: investment amount must be a non-negative number", ErrInvalidProfile)
	}
	return nil
}

// ToTaxInput converts a validated profile to an engine input.
func (ip *InputParser) ToTaxInput(p *TaxProfile) (domain.TaxInput, error) {
	category, err := domain.ParseCategory(p.Category)
	if err != nil {
		return domain.TaxInput{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	var in domain.TaxInput
	if p.AnnualMode() {
		in = domain.NewAnnualTaxInput(p.Income.AnnualGrossIncome, p.IncomeYear, category)
	} else {
		in = domain.TaxInput{
			MonthlyGrossSalary: p.Income.MonthlyGrossSalary,
			AnnualBonuses:      p.Income.AnnualBonuses,
			IncomeYear:         p.IncomeYear,
			Category:           category,
		}
	}
	if p.Investments.Include {
		in = in.WithInvestment(p.Investments.TotalAnnualInvestment)
	}
	return in, nil
}

func (ip *InputParser) knownYear(year string) bool {
	for _, y := range ip.rules.Years() {
		if y == year {
			return true
		}
	}
	return false
}

// CreateExampleProfile returns a filled-in profile used by `bdtax example`.
func (ip *InputParser) CreateExampleProfile() *TaxProfile {
	return &TaxProfile{
		Name:       "Example salaried taxpayer",
		IncomeYear: ip.fallbackYear(),
		Category:   string(domain.CategoryMen),
		Income: ProfileIncome{
			MonthlyGrossSalary: decimal.NewFromInt(85000),
			AnnualBonuses:      decimal.NewFromInt(170000),
		},
		Investments: ProfileInvestment{
			Include:               true,
			TotalAnnualInvestment: decimal.NewFromInt(120000),
		},
	}
}

// SaveProfile writes a profile as YAML.
func SaveProfile(p *TaxProfile, filename string) error {
	b, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
