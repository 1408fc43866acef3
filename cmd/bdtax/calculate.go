package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bdtax/income-tax-calculator/internal/config"
	"github.com/bdtax/income-tax-calculator/internal/domain"
	"github.com/bdtax/income-tax-calculator/internal/output"
	money "github.com/bdtax/income-tax-calculator/pkg/decimal"
)

// inputFlags are the income flags shared by calculate and compare.
type inputFlags struct {
	monthlySalary string
	bonuses       string
	annualIncome  string
	investment    string
	year          string
	category      string
	inputFile     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.monthlySalary, "monthly-salary", "", "monthly gross salary in BDT")
	cmd.Flags().StringVar(&f.bonuses, "bonuses", "0", "total annual bonuses in BDT")
	cmd.Flags().StringVar(&f.annualIncome, "annual-income", "", "annual gross income in BDT (instead of --monthly-salary)")
	cmd.Flags().StringVar(&f.investment, "investment", "", "total annual eligible investment in BDT")
	cmd.Flags().StringVar(&f.year, "year", "", "income year, e.g. 2025-2026 (default: current income year)")
	cmd.Flags().StringVar(&f.category, "category", "men", "taxpayer category: men, women, disabled_or_third_gender, freedom_fighter")
	cmd.Flags().StringVar(&f.inputFile, "input", "", "tax profile (YAML or JSON) instead of income flags")
	cmd.MarkFlagsMutuallyExclusive("monthly-salary", "annual-income")
	cmd.MarkFlagsMutuallyExclusive("input", "monthly-salary")
	cmd.MarkFlagsMutuallyExclusive("input", "annual-income")
}

// parseAmount accepts grouped figures such as 5,00,000.
func parseAmount(flag, raw string) (decimal.Decimal, error) {
	m, err := money.NewMoneyFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %q is not a number", flag, raw)
	}
	return m.Decimal, nil
}

// toInput builds the engine input from a profile file or from flags,
// applying the form-level checks: income must be positive and investment
// cannot be negative.
func (f *inputFlags) toInput(a *app) (domain.TaxInput, error) {
	if f.inputFile != "" {
		parser := config.NewInputParser(a.rules).WithDefaultYear(a.defaultYear())
		profile, err := parser.LoadFromFile(f.inputFile)
		if err != nil {
			return domain.TaxInput{}, err
		}
		a.logger.Debug("loaded tax profile", zap.String("file", f.inputFile), zap.String("name", profile.Name))
		return parser.ToTaxInput(profile)
	}

	category, err := domain.ParseCategory(f.category)
	if err != nil {
		return domain.TaxInput{}, err
	}
	year := f.year
	if year == "" {
		year = a.defaultYear()
	}

	var input domain.TaxInput
	switch {
	case f.annualIncome != "":
		annual, err := parseAmount("annual-income", f.annualIncome)
		if err != nil {
			return domain.TaxInput{}, err
		}
		if !annual.IsPositive() {
			return domain.TaxInput{}, errors.New("annual gross income must be a positive number")
		}
		input = domain.NewAnnualTaxInput(annual, year, category)
	case f.monthlySalary != "":
		monthly, err := parseAmount("monthly-salary", f.monthlySalary)
		if err != nil {
			return domain.TaxInput{}, err
		}
		if !monthly.IsPositive() {
			return domain.TaxInput{}, errors.New("monthly gross salary must be a positive number")
		}
		bonuses, err := parseAmount("bonuses", f.bonuses)
		if err != nil {
			return domain.TaxInput{}, err
		}
		if bonuses.IsNegative() {
			return domain.TaxInput{}, errors.New("annual bonuses cannot be negative")
		}
		input = domain.TaxInput{MonthlyGrossSalary: monthly, AnnualBonuses: bonuses, IncomeYear: year, Category: category}
	default:
		return domain.TaxInput{}, errors.New("one of --monthly-salary, --annual-income or --input is required")
	}

	if f.investment != "" {
		investment, err := parseAmount("investment", f.investment)
		if err != nil {
			return domain.TaxInput{}, err
		}
		if investment.IsNegative() {
			return domain.TaxInput{}, errors.New("investment amount cannot be negative")
		}
		input = input.WithInvestment(investment)
	}
	return input, nil
}

func newCalculateCmd(opts *globalOptions) *cobra.Command {
	var (
		in        inputFlags
		format    string
		outputDir string
		analyze   bool
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate income tax for one income year",
		Example: `  bdtax calculate --monthly-salary 50000 --year 2025-2026
  bdtax calculate --annual-income 1200000 --investment 150000 --category women --format verbose
  bdtax calculate --input profile.yaml --format html --output-dir reports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.load("")
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			input, err := in.toInput(a)
			if err != nil {
				return err
			}
			result, err := a.engine.Calculate(input)
			if err != nil {
				return err
			}

			if outputDir != "" {
				files, err := output.GenerateReport(result, format, outputDir)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", f)
				}
				return nil
			}

			formatter, err := output.LookupFormatter(format)
			if err != nil {
				return err
			}
			data, err := formatter.Format(result)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}

			if analyze {
				impact, err := a.engine.AnalyzeInvestment(input)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
				_, err = cmd.OutOrStdout().Write(output.FormatInvestmentImpact(impact))
				return err
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "write a timestamped report file to this directory instead of stdout (format \"all\" writes text and CSV)")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "also show how much tax different investment levels would save")
	return cmd
}

func newCompareCmd(opts *globalOptions) *cobra.Command {
	var (
		in    inputFlags
		years []string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the same income across income years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.load("")
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			input, err := in.toInput(a)
			if err != nil {
				return err
			}
			results, err := a.engine.CompareYears(input, years...)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(output.FormatComparison(results))
			return err
		},
	}

	in.register(cmd)
	cmd.Flags().StringSliceVar(&years, "years", nil, "income years to compare (default: every year with its own rules)")
	return cmd
}
