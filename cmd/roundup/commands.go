package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rgehrsitz/roundup/internal/api"
	"github.com/rgehrsitz/roundup/internal/calculation"
	"github.com/rgehrsitz/roundup/internal/config"
	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/rgehrsitz/roundup/internal/importer"
	"github.com/rgehrsitz/roundup/internal/logging"
	"github.com/rgehrsitz/roundup/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once flags and config are resolved
type app struct {
	cfg       *config.AppConfig
	logger    logging.Logger
	engine    *calculation.CalculationEngine
	parser    *config.InputParser
	formatter output.Formatter
}

// load resolves configuration, logging, engine and output format from cmd's flags
func (a *app) load(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	format, _ := cmd.Flags().GetString("format")
	debugMode, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.LoadAppConfig(config.LoadOptions{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if debugMode {
		level = "debug"
	}

	formatter, err := output.NewFormatter(format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.NewLogrusAdapter(level, cfg.Log.Format, cmd.ErrOrStderr())
	a.engine = calculation.NewCalculationEngineWithRules(cfg.Rules)
	a.engine.SetWorkers(cfg.Engine.Workers)
	a.engine.SetLogger(a.logger)
	a.parser = config.NewInputParser()
	a.formatter = formatter
	return nil
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// loadExpenses reads expenses from a CSV export or a YAML/JSON list
func (a *app) loadExpenses(path string) ([]domain.Expense, error) {
	if isCSV(path) {
		return importer.NewCSVImporter(a.logger).ReadFile(path)
	}
	return a.parser.LoadExpenses(path)
}

func parseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [expenses-file]",
		Short: "Enrich expenses with ceiling and remanent",
		Long:  "Reads expenses from a CSV (date,amount) or a YAML/JSON list and prints the enriched transactions.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			expenses, err := a.loadExpenses(args[0])
			if err != nil {
				return err
			}
			return a.formatter.Transactions(cmd.OutOrStdout(), a.engine.Parse(expenses))
		},
	}
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Split transactions into valid and invalid",
		Long: "Accepts a validator request ({wage, transactions}) in YAML/JSON, or a CSV of raw\n" +
			"expenses which is enriched before validation.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			var transactions []domain.Transaction
			if isCSV(args[0]) {
				expenses, err := a.loadExpenses(args[0])
				if err != nil {
					return err
				}
				transactions = a.engine.Parse(expenses)
			} else {
				req, err := a.parser.LoadValidatorRequest(args[0])
				if err != nil {
					return err
				}
				transactions = req.Transactions
			}
			return a.formatter.Validation(cmd.OutOrStdout(), a.engine.Validate(transactions))
		},
	}
}

func filterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "filter [request-file]",
		Short: "Apply q/p periods and mark k membership",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			req, err := a.parser.LoadFilterRequest(args[0])
			if err != nil {
				return err
			}
			result, err := a.engine.Filter(*req)
			if err != nil {
				return err
			}
			return a.formatter.Filter(cmd.OutOrStdout(), result)
		},
	}
}

func returnsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "returns [request-file]",
		Short: "Project returns for every k period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			strategyID, _ := cmd.Flags().GetString("strategy")
			req, err := a.parser.LoadReturnsRequest(args[0])
			if err != nil {
				return err
			}
			report, err := a.engine.Returns(contextOrBackground(cmd), strategyID, *req)
			if err != nil {
				return err
			}
			return a.formatter.Returns(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringP("strategy", "s", "nps", "Investment strategy (see 'roundup strategies')")
	return cmd
}

func strategiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List available investment strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tANNUAL RATE\t")
			for _, id := range a.engine.Registry.Available() {
				s, err := a.engine.Registry.Get(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s%%\t\n", s.ID(), s.Name(), s.AnnualRate().Mul(decimal.NewFromInt(100)).StringFixed(2))
			}
			return w.Flush()
		},
	}
}

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			addr := a.cfg.Addr()
			if override, _ := cmd.Flags().GetString("addr"); override != "" {
				addr = override
			}
			if a.cfg.DevMode() {
				a.logger.Warn("API key authentication disabled (dev key in use)")
			}

			ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(a.engine, api.Options{APIKey: a.cfg.Server.APIKey}, a.logger)
			return server.Run(ctx, addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address, overrides server.host and server.port")
	return cmd
}

// contextOrBackground keeps Returns usable when a command runs without Execute
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
