package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"

	"Rebalancer/internal/collector"
	"Rebalancer/internal/config"
	"Rebalancer/internal/logger"
	"Rebalancer/internal/notifier"
	"Rebalancer/internal/planner"
	"Rebalancer/internal/pricecache"
	"Rebalancer/internal/report"
	"Rebalancer/internal/scheduler"
)

// optionalFloat records whether a float flag was set on the command line.
type optionalFloat struct {
	value *float64
}

func (f *optionalFloat) String() string {
	if f.value == nil {
		return ""
	}
	return strconv.FormatFloat(*f.value, 'f', -1, 64)
}

func (f *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.value = &v
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}

	var (
		cfgPath   = flag.String("config", defaultPath, "path to the YAML config file")
		asJSON    = flag.Bool("json", false, "print the plan as JSON instead of a table")
		watch     = flag.Bool("watch", false, "run on the configured cron schedule and answer Telegram commands")
		allowSell = flag.String("allow-sell", "", "override portfolio.allow_sell (true|false)")
		cash      optionalFloat
	)
	flag.Var(&cash, "cash", "override portfolio.cash")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		return 1
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)

	opts := planner.Options{Cash: cash.value}
	if *allowSell != "" {
		v, err := strconv.ParseBool(*allowSell)
		if err != nil {
			log.Error().Err(err).Str("value", *allowSell).Msg("invalid -allow-sell")
			return 2
		}
		opts.AllowSell = &v
	}

	cache := openCache(cfg, log)
	defer cache.Close()

	fetcher := newFetcher(cfg)
	log.Info().Str("source", fetcher.Name()).Int("assets", len(cfg.Portfolio.Assets)).Msg("rebalancer starting")

	col := collector.NewCollector(fetcher, cache, cfg.Cache.TTL.Std(), cfg.DataSource.Concurrency, log)
	svc := planner.NewService(planner.Portfolio{
		Assets:    cfg.Portfolio.Assets,
		Cash:      cfg.Portfolio.Cash,
		AllowSell: cfg.Portfolio.AllowSell,
	}, col, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *watch {
		if err := runWatch(ctx, cfg, svc, log); err != nil {
			log.Error().Err(err).Msg("watch mode failed")
			return 1
		}
		return 0
	}

	res, err := svc.Plan(ctx, opts)
	if err != nil {
		log.Error().Err(err).Msg("rebalance failed")
		return 1
	}
	if *asJSON {
		err = report.JSON(os.Stdout, res.Plan, res.Quotes, res.GeneratedAt)
	} else {
		err = report.RenderTerminal(os.Stdout, res.Plan, res.Quotes, res.GeneratedAt)
	}
	if err != nil {
		log.Error().Err(err).Msg("write report")
		return 1
	}
	return 0
}

func runWatch(ctx context.Context, cfg *config.Config, svc *planner.Service, log zerolog.Logger) error {
	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		sender = tn
	} else {
		log.Warn().Msg("telegram not configured, scheduled plans are only logged")
	}

	sched := scheduler.NewScheduler(ctx, svc, sender, log)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, computing plan now")
		go sched.RunNow()
	}

	log.Info().Msg("rebalancer is running, press Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")
	return nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderQuoteAPI:
		return collector.NewQuoteAPIFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy, ds.Timeout.Std())
	case config.ProviderStatic:
		return collector.NewStaticFetcher(ds.StaticPrices)
	default:
		return collector.NewYahooFetcher(cfg.Proxy, ds.Timeout.Std(), ds.SymbolMap)
	}
}

func openCache(cfg *config.Config, log zerolog.Logger) pricecache.Cache {
	if cfg.Cache.SQLitePath == "" {
		return pricecache.NewNoopCache()
	}
	c, err := pricecache.NewSQLiteCache(cfg.Cache.SQLitePath, log)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite quote cache failed, using noop")
		return pricecache.NewNoopCache()
	}
	return c
}
