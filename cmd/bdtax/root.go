package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bdtax/income-tax-calculator/internal/calculation"
	"github.com/bdtax/income-tax-calculator/internal/config"
	"github.com/bdtax/income-tax-calculator/internal/domain"
	"github.com/bdtax/income-tax-calculator/internal/observability"
)

type globalOptions struct {
	configFile string
	rulesFile  string
	logLevel   string
}

// app is everything a command needs once flags and config are resolved.
type app struct {
	cfg    *config.AppConfig
	rules  *domain.RuleBook
	logger *zap.Logger
	engine *calculation.TaxEngine
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "bdtax",
		Short: "Bangladesh personal income tax calculator",
		Long: `bdtax computes Bangladesh personal income tax from salary, bonuses and
investments: progressive slabs, the standard exemption, the investment
rebate and the minimum tax, for each supported income year.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "application config file (YAML, JSON, TOML or .env)")
	root.PersistentFlags().StringVar(&opts.rulesFile, "rules", "", "tax rules YAML overriding the built-in rule book")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newCalculateCmd(opts),
		newCompareCmd(opts),
		newCurveCmd(opts),
		newYearsCmd(opts),
		newRulesCmd(opts),
		newExampleCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return root
}

// load resolves config, rules and logging. logFormat overrides the
// configured encoding when non-empty.
func (o *globalOptions) load(logFormat string) (*app, error) {
	cfg, err := config.LoadAppConfig(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.rulesFile != "" {
		cfg.RulesFile = o.rulesFile
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	rules, err := config.NewRuleLoader().LoadFromFile(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	if cfg.RulesFile != "" {
		logger.Info("loaded tax rules", zap.String("file", cfg.RulesFile), zap.Strings("years", rules.Years()))
	}

	engine := calculation.NewTaxEngineWithRules(rules)
	engine.SetLogger(observability.NewEngineLogger(logger))

	return &app{cfg: cfg, rules: rules, logger: logger, engine: engine}, nil
}

// defaultYear is the configured year, else the income year containing today.
func (a *app) defaultYear() string {
	if a.cfg.DefaultYear != "" {
		return a.cfg.DefaultYear
	}
	return a.engine.CurrentIncomeYear()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bdtax %s (%s)\n", version, commit)
		},
	}
}
