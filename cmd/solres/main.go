package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SanderBuruma/solana-research/config"
	"github.com/SanderBuruma/solana-research/internal/adapters/cache"
	"github.com/SanderBuruma/solana-research/internal/adapters/report"
	"github.com/SanderBuruma/solana-research/internal/adapters/solscan"
	"github.com/SanderBuruma/solana-research/internal/adapters/storage"
	"github.com/SanderBuruma/solana-research/internal/analyzer"
	"github.com/SanderBuruma/solana-research/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	wallet := flag.String("wallet", "", "wallet address to analyze")

	balance := flag.Bool("balance", false, "print SOL balance and exit")
	transfers := flag.Bool("transfers", false, "print transfer history and exit")
	runs := flag.Bool("runs", false, "print saved analysis runs and exit")
	flag.Bool("summary", false, "full trading summary (default mode)")
	vanityPattern := flag.String("vanity", "", "search a keypair whose public key matches this regex")

	days := flag.Int("days", 0, "limit analysis to the last N days")
	fromStr := flag.String("from", "", "start of absolute window (unix or YYYY-MM-DD); bypasses cache")
	toStr := flag.String("to", "", "end of absolute window (unix or YYYY-MM-DD); bypasses cache")
	refStr := flag.String("ref", "", "reference timestamp (unix or YYYY-MM-DD) to anchor the fetch")
	refDir := flag.String("ref-dir", "before", "side of the reference to keep: before|after")
	filterExpr := flag.String("filter", "", `token filter, e.g. "t:>500;roi:>=100" (see docs)`)

	quiet := flag.Bool("quiet", false, "suppress portfolio statistics block")
	cacheOnly := flag.Bool("cache-only", false, "serve cached trades only, no network")
	noPrice := flag.Bool("no-price", false, "skip live price lookups, value positions at last rate")

	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *vanityPattern != "" {
		if err := runVanity(ctx, *vanityPattern); err != nil {
			slog.Error("vanity search failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if *wallet == "" {
		fmt.Fprintln(os.Stderr, "a wallet address is required (use -wallet)")
		flag.Usage()
		os.Exit(2)
	}

	fromTime, err := parseTimeArg(*fromStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -from value: %v\n", err)
		os.Exit(2)
	}
	toTime, err := parseTimeArg(*toStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -to value: %v\n", err)
		os.Exit(2)
	}

	var ref *analyzer.ReferenceFilter
	if *refStr != "" {
		refTime, err := parseTimeArg(*refStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -ref value: %v\n", err)
			os.Exit(2)
		}
		if *refDir != "before" && *refDir != "after" {
			fmt.Fprintln(os.Stderr, "-ref-dir must be before or after")
			os.Exit(2)
		}
		ref = &analyzer.ReferenceFilter{Time: float64(refTime), Direction: *refDir}
	}

	var filter *analyzer.Filter
	if *filterExpr != "" {
		filter, err = analyzer.ParseFilter(*filterExpr)
		if err != nil {
			// Un filtro malformado no tira el análisis: se avisa y se
			// continúa sin filtrar.
			fmt.Fprintf(os.Stderr, "%v\n", err)
			filter = nil
		}
	}

	proxyURL := ""
	if cfg.API.ProxyEnabled {
		proxyURL = cfg.API.ProxyURL
	}
	client := solscan.NewClient(cfg.API.BaseURL, proxyURL)
	console := report.NewConsole(*quiet)

	var store ports.RunStore
	if !*balance && !*transfers {
		store, err = storage.NewSQLiteRunStore(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open run store", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer store.Close()
	}

	switch {
	case *balance:
		err = runBalance(ctx, client, console, *wallet)
	case *transfers:
		err = runTransfers(ctx, client, console, *wallet)
	case *runs:
		err = runHistory(ctx, store, console, *wallet)
	default:
		app := &analysis{
			cfg:     cfg,
			client:  client,
			cache:   cache.NewCSVCache(cfg.Cache.Dir),
			console: console,
			store:   store,
			filter:  filter,
			opts: analyzer.FetchOptions{
				RecentDays: *days,
				FromTime:   fromTime,
				ToTime:     toTime,
				Reference:  ref,
				CacheOnly:  *cacheOnly,
			},
			noPrice: *noPrice,
		}
		err = app.run(ctx, *wallet)
	}
	if err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// runHistory imprime las ejecuciones guardadas de la wallet.
func runHistory(ctx context.Context, store ports.RunStore, console *report.Console, wallet string) error {
	runs, err := store.History(ctx, wallet, 20)
	if err != nil {
		return err
	}
	console.PrintRuns(wallet, runs)
	return nil
}
