package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/quant/autotrader"
	"github.com/rustyeddy/quant/broker/paper"
	"github.com/rustyeddy/quant/config"
	"github.com/rustyeddy/quant/decision"
	"github.com/rustyeddy/quant/feed"
	"github.com/rustyeddy/quant/journal"
	"github.com/rustyeddy/quant/market"
	"github.com/rustyeddy/quant/metrics"
	"github.com/rustyeddy/quant/pkg/logx"
	"github.com/rustyeddy/quant/risk"
	sig "github.com/rustyeddy/quant/signal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the auto-trading scheduler against a paper broker",
	Long: `Run the auto-trading scheduler using settings from a configuration file.

Price history comes from the configured feed, orders fill against an
in-memory paper broker, and every decision is journaled when a journal is
configured.

Example:
  quant run --config quant.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runCash       float64
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (required)")
	runCmd.Flags().Float64Var(&runCash, "cash", 100000, "paper broker starting cash")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logx.New(cfg.App.LogLevel)

	if cfg.App.MetricsAddr != "" {
		srv := metrics.Serve(cfg.App.MetricsAddr)
		defer srv.Close()
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics endpoint up")
	}

	if cfg.Feed.Type != "csv" {
		return fmt.Errorf("run requires a csv feed for history, got %q", cfg.Feed.Type)
	}
	history, err := feed.NewCSVHistory(cfg.Feed.Files)
	if err != nil {
		return fmt.Errorf("load feed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A stream URL upgrades quotes to live data; history stays file-backed.
	var quotes market.QuoteProvider = history
	if cfg.Feed.StreamURL != "" {
		stream := feed.NewStream(cfg.Feed.StreamURL, log)
		go stream.Run(ctx)
		quotes = stream
	}

	var jnl journal.Journal
	switch cfg.Journal.Type {
	case "csv":
		jnl, err = journal.NewCSV(cfg.Journal.Path)
	case "sqlite":
		jnl, err = journal.NewSQLite(cfg.Journal.Path)
	}
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if jnl != nil {
		defer jnl.Close()
	}

	pb := paper.New(runCash, quotes, log)

	interval, _ := cfg.Scheduler.ParseInterval()
	opts := []autotrader.Option{
		autotrader.WithObserver(func(d decision.TradeDecision) {
			log.Info().
				Str("instrument", d.Instrument).
				Str("action", d.Action.String()).
				Int("qty", d.Quantity).
				Str("rationale", d.Rationale).
				Msg("decision published")
		}),
	}
	if interval > 0 {
		opts = append(opts, autotrader.WithInterval(interval))
	}
	if cfg.Scheduler.LookbackBars > 0 {
		opts = append(opts, autotrader.WithLookback(cfg.Scheduler.LookbackBars))
	}

	trader := autotrader.New(autotrader.Deps{
		History:    history,
		Generator:  sig.NewGenerator(log),
		Engine:     decision.NewEngine(quotes, log),
		Positions:  pb,
		Orders:     pb,
		Journal:    jnl,
		LoadConfig: func() risk.Config { return reloadRisk(log, cfg) },
		Log:        log,
	}, opts...)

	trader.Start()
	defer trader.Stop()

	log.Info().
		Strs("universe", cfg.Risk.Universe).
		Bool("enabled", cfg.Risk.Enabled).
		Msg("scheduler started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	for _, d := range trader.Decisions() {
		fmt.Printf("%s  %-6s %-4s qty=%-5d %s\n",
			d.Time.Format("15:04:05"), d.Instrument, d.Action, d.Quantity, d.Rationale)
	}
	fmt.Printf("paper cash remaining: %.2f\n", pb.Cash())
	return nil
}

// reloadRisk re-reads the config file so ReloadConfig picks up edits made
// while the scheduler is running; a read failure keeps the last known risk
// section.
func reloadRisk(log zerolog.Logger, cfg *config.Config) risk.Config {
	fresh, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		log.Warn().Err(err).Msg("config reload failed, keeping previous risk settings")
		return cfg.Risk
	}
	cfg.Risk = fresh.Risk
	return cfg.Risk
}
