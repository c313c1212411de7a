package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/SanderBuruma/solana-research/config"
	"github.com/SanderBuruma/solana-research/internal/adapters/cache"
	"github.com/SanderBuruma/solana-research/internal/adapters/report"
	"github.com/SanderBuruma/solana-research/internal/adapters/solscan"
	"github.com/SanderBuruma/solana-research/internal/analyzer"
	"github.com/SanderBuruma/solana-research/internal/domain"
	"github.com/SanderBuruma/solana-research/internal/ports"
	"github.com/SanderBuruma/solana-research/internal/vanity"
)

// analysis agrupa las dependencias del modo por defecto (resumen de trading).
type analysis struct {
	cfg     *config.Config
	client  *solscan.Client
	cache   *cache.CSVCache
	console *report.Console
	store   ports.RunStore
	filter  *analyzer.Filter
	opts    analyzer.FetchOptions
	noPrice bool
}

// run ejecuta el pipeline completo: fetch, agregación, estadísticas, informes
// y persistencia del resumen de la ejecución.
func (a *analysis) run(ctx context.Context, wallet string) error {
	fetcher := analyzer.NewFetcher(a.client, a.cache)
	trades, err := fetcher.History(ctx, wallet, a.opts)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}
	if len(trades) == 0 {
		fmt.Printf("no trades found for %s\n", wallet)
		return nil
	}

	agg := analyzer.NewAggregator(a.client, analyzer.AggregatorConfig{
		Fees:       a.cfg.Fees,
		SkipPrices: a.noPrice,
	})
	res, err := agg.Aggregate(ctx, trades)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	if a.filter != nil {
		res.Positions = a.filter.Apply(res.Positions)
	}
	stats := analyzer.Summarize(res)

	a.console.PrintSummary(wallet, res, stats)

	if path, err := report.NewCSVReport(a.cfg.Reports.Dir).Write(wallet, res); err != nil {
		slog.Warn("could not write CSV report", "err", err)
	} else {
		fmt.Printf("\nreport saved to %s\n", path)
	}

	a.saveRun(ctx, wallet, res, stats)
	return nil
}

// saveRun persiste el resumen de la ejecución en el histórico. Un fallo aquí
// no invalida el análisis ya impreso.
func (a *analysis) saveRun(ctx context.Context, wallet string, res *analyzer.Result, stats domain.PortfolioStats) {
	if a.store == nil {
		return
	}

	run := domain.AnalysisRun{
		ID:             uuid.NewString(),
		Wallet:         wallet,
		RanAt:          res.GeneratedAt,
		Tokens:         len(res.Positions),
		Invested:       res.Invested(),
		Received:       res.Received(),
		RealizedProfit: res.RealizedProfit(),
		TotalProfit:    res.TotalProfit(),
		WinRate:        stats.WinRate,
		MedianROI:      stats.MedianROIPercent,
	}
	if err := a.store.SaveRun(ctx, run); err != nil {
		slog.Warn("could not save run", "err", err)
	}
}

func runBalance(ctx context.Context, client *solscan.Client, console *report.Console, wallet string) error {
	sol, err := client.Balance(ctx, wallet)
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}

	var solUSD float64
	if price, err := client.TokenPrice(ctx, domain.SOLMint); err == nil && price != nil {
		solUSD = price.PriceUSDT
	}
	console.PrintBalance(wallet, sol, solUSD)
	return nil
}

func runTransfers(ctx context.Context, client *solscan.Client, console *report.Console, wallet string) error {
	const pageSize = 100

	var all []domain.Transfer
	for page := 1; ; page++ {
		transfers, err := client.Transfers(ctx, wallet, page, pageSize)
		if err != nil {
			return fmt.Errorf("transfers: page %d: %w", page, err)
		}
		all = append(all, transfers...)
		if len(transfers) < pageSize {
			break
		}
	}

	console.PrintTransfers(wallet, all)
	return nil
}

// runVanity busca un keypair cuya public key matchee el patrón y lo añade a
// found_addresses.txt.
func runVanity(ctx context.Context, pattern string) error {
	fmt.Printf("searching for pattern %q (Ctrl+C to stop)\n", pattern)

	res, err := vanity.Search(ctx, pattern, 0, func(p vanity.Progress) {
		fmt.Printf("\rattempts: %d  rate: %.0f addr/s  workers: %d ",
			p.Attempts, p.Rate(), p.Workers)
	})
	if err != nil {
		fmt.Println()
		if ctx.Err() != nil {
			fmt.Println("search cancelled")
			return nil
		}
		return err
	}

	fmt.Printf("\n\nfound matching address after %d attempts (%.2fs)\n",
		res.Attempts, res.Elapsed.Seconds())
	fmt.Printf("Public Key:  %s\n", res.PublicKey)
	fmt.Printf("Private Key (Phantom compatible): %s\n", res.PrivateKey)
	fmt.Printf("Match position: %d-%d\n", res.MatchStart, res.MatchEnd)

	f, err := os.OpenFile("found_addresses.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("save address: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "\nFound at %s:\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(f, "Public Key: %s\n", res.PublicKey)
	fmt.Fprintf(f, "Private Key: %s\n", res.PrivateKey)
	fmt.Fprintln(f, "--------------------------------------------------------------------------------")

	fmt.Println("\naddress details saved to found_addresses.txt")
	return nil
}

// parseTimeArg acepta un unix timestamp o una fecha YYYY-MM-DD.
func parseTimeArg(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a unix timestamp nor YYYY-MM-DD", s)
	}
	return t.Unix(), nil
}
