package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bdtax/income-tax-calculator/internal/calculation"
	"github.com/bdtax/income-tax-calculator/internal/config"
	"github.com/bdtax/income-tax-calculator/internal/domain"
	"github.com/bdtax/income-tax-calculator/internal/observability"
	"github.com/bdtax/income-tax-calculator/internal/output"
	"github.com/bdtax/income-tax-calculator/internal/server"
	"github.com/bdtax/income-tax-calculator/pkg/incomeyear"
)

func newCurveCmd(opts *globalOptions) *cobra.Command {
	var (
		year, category, format  string
		from, to, step, userInc string
		maxInvestment           bool
	)

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the effective tax rate across a range of annual incomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.load("")
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			cat, err := domain.ParseCategory(category)
			if err != nil {
				return err
			}
			req := calculation.CurveRequest{Year: year, Category: cat, MaxInvestment: maxInvestment}
			if req.Year == "" {
				req.Year = a.defaultYear()
			}
			for _, f := range []struct {
				flag, raw string
				target    **decimal.Decimal
			}{
				{"from", from, &req.From},
				{"to", to, &req.To},
				{"step", step, &req.Step},
			} {
				if f.raw == "" {
					continue
				}
				v, err := parseAmount(f.flag, f.raw)
				if err != nil {
					return err
				}
				*f.target = &v
			}
			if userInc != "" {
				if req.UserAnnualIncome, err = parseAmount("user-income", userInc); err != nil {
					return err
				}
			}

			points, err := a.engine.EffectiveRateCurve(req)
			if err != nil {
				return err
			}
			data, err := output.FormatCurve(points, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "income year (default: current income year)")
	cmd.Flags().StringVar(&category, "category", "men", "taxpayer category")
	cmd.Flags().StringVar(&from, "from", "", "lowest annual income (default 350000)")
	cmd.Flags().StringVar(&to, "to", "", "highest annual income (default 5000000)")
	cmd.Flags().StringVar(&step, "step", "", "income step (default 50000)")
	cmd.Flags().StringVar(&userInc, "user-income", "", "mark this annual income on the curve")
	cmd.Flags().BoolVar(&maxInvestment, "max-investment", false, "invest the full allowable limit at every point")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format: console, csv, json")
	return cmd
}

func newYearsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List supported income years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.load("")
			if err != nil {
				return err
			}
			def := a.defaultYear()
			for _, y := range a.rules.Years() {
				cfg, rulesYear, _ := a.rules.Resolve(y)
				assessment, err := incomeyear.AssessmentYearOf(y)
				if err != nil {
					assessment = cfg.AssessmentYear
				}
				line := fmt.Sprintf("%s  assessment year %s", y, assessment)
				if rulesYear != y {
					line += fmt.Sprintf("  (uses %s rules)", rulesYear)
				}
				if y == def {
					line += "  [default]"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newRulesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective tax rule book as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.load("")
			if err != nil {
				return err
			}
			data, err := config.NewRuleLoader().Marshal(a.rules)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newExampleCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example tax profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load("")
			if err != nil {
				return err
			}
			filename := "tax_profile.yaml"
			if len(args) == 1 {
				filename = args[0]
			}
			profile := config.NewInputParser(a.rules).WithDefaultYear(a.defaultYear()).CreateExampleProfile()
			if err := config.SaveProfile(profile, filename); err != nil {
				return fmt.Errorf("failed to write example profile: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example profile written to %s\n", filename)
			return nil
		},
	}
}

func newServeCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tax API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.load(observability.FormatJSON)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()
			if addr != "" {
				a.cfg.HTTPAddr = addr
			}

			handlers := server.NewTaxHandlers(a.engine, a.cfg.DefaultYear)
			router := server.NewRouter(handlers, server.WithLogger(a.logger))
			srv := server.New(a.cfg.HTTPAddr, router, a.logger, a.cfg.ShutdownTimeout)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Run(ctx); err != nil {
				a.logger.Error("server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
