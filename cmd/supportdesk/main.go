package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/supportdesk/internal/audit"
	"github.com/railzwaylabs/supportdesk/internal/authorization"
	"github.com/railzwaylabs/supportdesk/internal/bookingfee"
	"github.com/railzwaylabs/supportdesk/internal/catalog"
	"github.com/railzwaylabs/supportdesk/internal/clock"
	"github.com/railzwaylabs/supportdesk/internal/commissionrule"
	commissiondomain "github.com/railzwaylabs/supportdesk/internal/commissionrule/domain"
	"github.com/railzwaylabs/supportdesk/internal/config"
	"github.com/railzwaylabs/supportdesk/internal/migration"
	"github.com/railzwaylabs/supportdesk/internal/observability"
	"github.com/railzwaylabs/supportdesk/internal/pricerule"
	pricedomain "github.com/railzwaylabs/supportdesk/internal/pricerule/domain"
	"github.com/railzwaylabs/supportdesk/internal/pricing"
	"github.com/railzwaylabs/supportdesk/internal/pricing/document"
	pricingdomain "github.com/railzwaylabs/supportdesk/internal/pricing/domain"
	"github.com/railzwaylabs/supportdesk/internal/redis"
	"github.com/railzwaylabs/supportdesk/internal/rulecache"
	"github.com/railzwaylabs/supportdesk/internal/seed"
	"github.com/railzwaylabs/supportdesk/internal/server"
	"github.com/railzwaylabs/supportdesk/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:     "supportdesk",
		Short:   "Support desk pricing service",
		Version: readVersionFromEnv(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv("SUPPORTDESK_CONFIG", configPath)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file")
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd(), newQuoteCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations, then serve the pricing API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				coreModules(),
				migration.Module,
				bookingfee.Module,
				authorization.Module,
				server.Module,
			)
			app.Run()
			return app.Err()
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				config.Module,
				observability.Module,
				db.Module,
				migration.Module,
			)
			return startStop(app, nil)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default price and commission rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat         *catalog.Catalog
				prices      pricedomain.Service
				commissions commissiondomain.Service
				log         *zap.Logger
			)
			app := fx.New(
				coreModules(),
				migration.Module,
				fx.Populate(&cat, &prices, &commissions, &log),
			)
			return startStop(app, func(ctx context.Context) error {
				ctx = authorization.WithRole(ctx, authorization.RoleSystem)
				res, err := seed.EnsureDefaultRules(ctx, cat, prices, commissions, log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d price rules, %d commission rules\n",
					res.PriceRulesCreated, res.CommissionRulesCreated)
				return nil
			})
		},
	}
}

type quoteFlags struct {
	service   string
	urgency   string
	duration  int
	distance  float64
	outOfTown bool
	timeOfDay string
	asJSON    bool
	pdfPath   string
}

func newQuoteCmd() *cobra.Command {
	var f quoteFlags

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print a quote without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.service, "service", "", "catalog service id")
	cmd.Flags().StringVar(&f.urgency, "urgency", "low", "low, medium, high or urgent")
	cmd.Flags().IntVar(&f.duration, "duration", 0, "estimated duration in minutes, defaults to the service minimum")
	cmd.Flags().Float64Var(&f.distance, "distance", 0, "travel distance in miles")
	cmd.Flags().BoolVar(&f.outOfTown, "out-of-town", false, "customer is out of town")
	cmd.Flags().StringVar(&f.timeOfDay, "time-of-day", "", "simulate a bucket instead of reading the clock")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the full quote as JSON")
	cmd.Flags().StringVar(&f.pdfPath, "pdf", "", "also write the quote as a PDF to this path")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}

func runQuote(cmd *cobra.Command, f quoteFlags) error {
	var svc pricingdomain.Service
	app := fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		catalog.Module,
		pricing.Module,
		fx.Populate(&svc),
		fx.NopLogger,
	)

	urgency, err := pricingdomain.ParseUrgency(f.urgency)
	if err != nil {
		return err
	}
	req := pricingdomain.QuoteRequest{
		ServiceID:   f.service,
		Urgency:     urgency,
		IsOutOfTown: f.outOfTown,
	}
	if cmd.Flags().Changed("duration") {
		req.EstimatedDuration = &f.duration
	}
	if cmd.Flags().Changed("distance") {
		req.Distance = &f.distance
	}
	if f.timeOfDay != "" {
		bucket, err := pricingdomain.ParseTimeOfDay(f.timeOfDay)
		if err != nil {
			return err
		}
		req.TimeOfDay = &bucket
	}

	return startStop(app, func(ctx context.Context) error {
		q, err := svc.Quote(ctx, req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if f.asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(q); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "%s (%s, %s)\n", q.Service.Name, q.Factors.TimeOfDay, q.Factors.DayOfWeek)
			fmt.Fprintln(out, strings.Join(q.Calculation.Breakdown, "\n"))
			fmt.Fprintf(out, "Total: $%s\n", q.Calculation.FinalPrice.StringFixed(2))
			if q.Insight.PotentialSavings.IsPositive() {
				fmt.Fprintf(out, "Best case: $%s (save $%s)\n",
					q.Insight.BestCasePrice.StringFixed(2), q.Insight.PotentialSavings.StringFixed(2))
			}
		}

		if f.pdfPath == "" {
			return nil
		}
		pdf, err := document.Render(q)
		if err != nil {
			return err
		}
		return os.WriteFile(f.pdfPath, pdf, 0o644)
	})
}

// coreModules wires everything the rule services need.
func coreModules() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		redis.Module,
		rulecache.Module,
		audit.Module,
		catalog.Module,
		pricing.Module,
		pricerule.Module,
		commissionrule.Module,
	)
}

func startStop(app *fx.App, run func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(context.Background()) }()

	if run == nil {
		return nil
	}
	return run(ctx)
}

func registerSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.Snowflake.Node)
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
