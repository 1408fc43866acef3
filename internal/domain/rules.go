package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TaxSlab is one band of taxable income. A nil Width marks the final,
// unbounded slab which absorbs all remaining income.
type TaxSlab struct {
	Width *decimal.Decimal `yaml:"width,omitempty" json:"width,omitempty"`
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
}

// Unbounded reports whether the slab has no upper limit.
func (s TaxSlab) Unbounded() bool { return s.Width == nil }

// UnmarshalYAML implements custom YAML unmarshaling for TaxSlab
func (s *TaxSlab) UnmarshalYAML(value *yaml.Node) error {
	type Alias struct {
		Width *string `yaml:"width,omitempty"`
		Rate  string  `yaml:"rate"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	rate, err := decimal.NewFromString(aux.Rate)
	if err != nil {
		return fmt.Errorf("slab rate %q: %w", aux.Rate, err)
	}
	s.Rate = rate
	s.Width = nil

	if aux.Width != nil {
		width, err := decimal.NewFromString(*aux.Width)
		if err != nil {
			return fmt.Errorf("slab width %q: %w", *aux.Width, err)
		}
		s.Width = &width
	}
	return nil
}

// MarshalYAML writes widths and rates as plain numbers.
func (s TaxSlab) MarshalYAML() (interface{}, error) {
	out := yaml.Node{Kind: yaml.MappingNode}
	if s.Width != nil {
		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "width"},
			&yaml.Node{Kind: yaml.ScalarNode, Value: s.Width.String()},
		)
	}
	out.Content = append(out.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "rate"},
		&yaml.Node{Kind: yaml.ScalarNode, Value: s.Rate.String()},
	)
	return &out, nil
}

// TaxYearConfig holds the rules for one income year.
type TaxYearConfig struct {
	AssessmentYear       string                               `yaml:"assessment_year" json:"assessment_year"`
	Slabs                []TaxSlab                            `yaml:"slabs" json:"slabs"`
	StandardExemptionCap decimal.Decimal                      `yaml:"standard_exemption_cap" json:"standard_exemption_cap"`
	MinimumTax           decimal.Decimal                      `yaml:"minimum_tax" json:"minimum_tax"`
	ZeroRateLimits       map[TaxpayerCategory]decimal.Decimal `yaml:"zero_rate_limits" json:"zero_rate_limits"`
}

// ZeroRateLimit returns the category's zero-rate bound, which is also the
// minimum tax threshold. Unknown categories use the men's limit.
func (c TaxYearConfig) ZeroRateLimit(category TaxpayerCategory) decimal.Decimal {
	if limit, ok := c.ZeroRateLimits[category]; ok {
		return limit
	}
	return c.ZeroRateLimits[CategoryMen]
}

// SlabsFor returns a copy of the slab table with the first slab's width
// replaced by the category's zero-rate limit when that slab is taxed at 0%.
func (c TaxYearConfig) SlabsFor(category TaxpayerCategory) []TaxSlab {
	slabs := make([]TaxSlab, len(c.Slabs))
	copy(slabs, c.Slabs)
	if len(slabs) > 0 && slabs[0].Rate.IsZero() && !slabs[0].Unbounded() {
		limit := c.ZeroRateLimit(category)
		slabs[0].Width = &limit
	}
	return slabs
}

// InvestmentRebateRules describes the investment tax rebate.
type InvestmentRebateRules struct {
	Rate                       decimal.Decimal `yaml:"rate" json:"rate"`
	MaxFractionOfTaxableIncome decimal.Decimal `yaml:"max_fraction_of_taxable_income" json:"max_fraction_of_taxable_income"`
	AbsoluteCap                decimal.Decimal `yaml:"absolute_cap" json:"absolute_cap"`
}

// RulesMetadata documents the provenance of a rule book.
type RulesMetadata struct {
	Jurisdiction string `yaml:"jurisdiction" json:"jurisdiction"`
	Currency     string `yaml:"currency" json:"currency"`
	Description  string `yaml:"description" json:"description"`
	LastUpdated  string `yaml:"last_updated" json:"last_updated"`
}

// RuleBook is the immutable registry of per-year tax rules. It is built once
// at load time and only read afterwards, so it may be shared between goroutines.
type RuleBook struct {
	Metadata                 RulesMetadata            `yaml:"metadata" json:"metadata"`
	DefaultYear              string                   `yaml:"default_income_year" json:"default_income_year"`
	FallbackYear             string                   `yaml:"fallback_income_year" json:"fallback_income_year"`
	StandardExemptionDivisor decimal.Decimal          `yaml:"standard_exemption_divisor" json:"standard_exemption_divisor"`
	InvestmentRebate         InvestmentRebateRules    `yaml:"investment_rebate" json:"investment_rebate"`
	Aliases                  map[string]string        `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	IncomeYears              map[string]TaxYearConfig `yaml:"income_years" json:"income_years"`
}

// Resolve finds the rules for an income year. Exact keys win, then aliases,
// then the fallback year. The returned key names the rules actually applied;
// fellBack is true only when the fallback was needed.
func (rb *RuleBook) Resolve(year string) (cfg TaxYearConfig, key string, fellBack bool) {
	if c, ok := rb.IncomeYears[year]; ok {
		return c, year, false
	}
	if target, ok := rb.Aliases[year]; ok {
		if c, ok := rb.IncomeYears[target]; ok {
			return c, target, false
		}
	}
	return rb.IncomeYears[rb.FallbackYear], rb.FallbackYear, true
}

// Years lists every selectable income year (rule years and aliases), sorted.
func (rb *RuleBook) Years() []string {
	seen := make(map[string]struct{}, len(rb.IncomeYears)+len(rb.Aliases))
	for k := range rb.IncomeYears {
		seen[k] = struct{}{}
	}
	for k := range rb.Aliases {
		seen[k] = struct{}{}
	}
	years := make([]string, 0, len(seen))
	for k := range seen {
		years = append(years, k)
	}
	sort.Strings(years)
	return years
}
