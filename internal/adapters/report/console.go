package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/SanderBuruma/solana-research/internal/analyzer"
	"github.com/SanderBuruma/solana-research/internal/domain"
)

// Console imprime los informes del análisis en texto tabulado.
type Console struct {
	out   io.Writer
	quiet bool
}

// NewConsole crea un reporter que escribe a stdout.
func NewConsole(quiet bool) *Console {
	return &Console{out: os.Stdout, quiet: quiet}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// PrintSummary imprime el informe completo: posiciones por token con fila
// TOTAL, ROI por ventana temporal y métricas de cartera.
func (c *Console) PrintSummary(wallet string, res *analyzer.Result, stats domain.PortfolioStats) {
	if len(res.Positions) == 0 {
		fmt.Fprintf(c.out, "no DEX trading activity found for %s\n", wallet)
		return
	}

	fmt.Fprintf(c.out, "\nDEX trading summary for %s — %d tokens, %d transactions\n",
		shortMint(wallet), len(res.Positions), res.TotalTransactions)
	if res.SOLPriceUSD > 0 {
		fmt.Fprintf(c.out, "SOL price: $%.2f\n", res.SOLPriceUSD)
	}

	c.printPositions(res)
	c.printPeriods(res)
	c.printStats(stats)
}

func (c *Console) printPositions(res *analyzer.Result) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Token", "First Trade", "Hold", "Entry MC", "Invested", "Received",
		"Profit", "Remaining", "Total Profit", "ROI%", "Trades")

	for _, p := range res.Positions {
		roiLabel := "-"
		if roi, ok := p.ROIPercent(); ok {
			roiLabel = fmt.Sprintf("%+.1f%%", roi)
		}
		table.Append(
			tokenLabel(p),
			p.FirstTrade.Format("2006-01-02 15:04"),
			formatDuration(p.HoldTime()),
			formatCompact(p.EntryMarketCap),
			fmt.Sprintf("%.3f ◎", p.SOLInvested),
			fmt.Sprintf("%.3f ◎", p.SOLReceived),
			fmt.Sprintf("%+.3f ◎", p.RealizedProfit()),
			fmt.Sprintf("%.3f ◎", p.RemainingValue),
			fmt.Sprintf("%+.3f ◎", p.TotalProfit()),
			roiLabel,
			fmt.Sprintf("%d", p.TradeCount),
		)
	}

	totalTrades := 0
	for _, p := range res.Positions {
		totalTrades += p.TradeCount
	}
	table.Append(
		"TOTAL", "", "", "",
		fmt.Sprintf("%.3f ◎", res.Invested()),
		fmt.Sprintf("%.3f ◎", res.Received()),
		fmt.Sprintf("%+.3f ◎", res.RealizedProfit()),
		"",
		fmt.Sprintf("%+.3f ◎", res.TotalProfit()),
		"",
		fmt.Sprintf("%d", totalTrades),
	)
	table.Render()
}

func (c *Console) printPeriods(res *analyzer.Result) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Period", "Invested", "Received", "Fees", "Profit", "ROI")

	for _, period := range domain.Periods {
		stats, ok := res.Periods[period.Name]
		if !ok {
			continue
		}
		roiLabel := "-"
		if roi, hasROI := stats.ROIPercent(); hasROI {
			roiLabel = fmt.Sprintf("%+.1f%%", roi)
		}
		table.Append(
			period.Name,
			fmt.Sprintf("%.3f ◎", stats.Invested),
			fmt.Sprintf("%.3f ◎", stats.Received),
			fmt.Sprintf("%.3f ◎", stats.Fees),
			fmt.Sprintf("%+.3f ◎", stats.Profit()),
			roiLabel,
		)
	}

	fmt.Fprintln(c.out, "\nROI by period")
	table.Render()
}

func (c *Console) printStats(stats domain.PortfolioStats) {
	if c.quiet {
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Metric", "Value")
	table.Append("Win Rate", fmt.Sprintf("%.1f%% (%d/%d tokens)", stats.WinRate, stats.Winners, stats.Scored))
	table.Append("Median Investment", fmt.Sprintf("%.3f ◎", stats.MedianInvestment))
	table.Append("Median ROI", fmt.Sprintf("%+.1f%% (σ %.1f)", stats.MedianROIPercent, stats.ROIStdDev))
	table.Append("Median Hold Time", formatDuration(stats.MedianHoldTime))
	table.Append("Median Market Entry", formatCompact(stats.MedianMarketEntry))
	table.Append("Median % of MC at Entry", fmt.Sprintf("%.4f%%", stats.MedianMCPercent))
	table.Append("Median Profit per Token", fmt.Sprintf("%+.3f ◎", stats.MedianProfit))
	table.Append("Median Loss per Token", fmt.Sprintf("%+.3f ◎", stats.MedianLoss))
	table.Append("Non-SOL Swaps", fmt.Sprintf("%d", stats.NonSOLSwaps))

	fmt.Fprintln(c.out, "\nTransaction summary")
	table.Render()
}

// PrintBalance imprime el balance de la cuenta, con equivalente USD si hay
// cotización.
func (c *Console) PrintBalance(wallet string, sol, solUSD float64) {
	if solUSD > 0 {
		fmt.Fprintf(c.out, "%s: %.9f ◎ ($%.2f)\n", shortMint(wallet), sol, sol*solUSD)
		return
	}
	fmt.Fprintf(c.out, "%s: %.9f ◎\n", shortMint(wallet), sol)
}

// PrintTransfers imprime el historial de transferencias de la cuenta.
func (c *Console) PrintTransfers(wallet string, transfers []domain.Transfer) {
	if len(transfers) == 0 {
		fmt.Fprintf(c.out, "no transfers found for %s\n", wallet)
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Time", "Type", "Flow", "Amount", "Value", "Counterparty")
	for _, tr := range transfers {
		counterparty := tr.ToAddress
		if tr.Flow == "in" {
			counterparty = tr.FromAddress
		}
		sec := int64(tr.BlockTime)
		table.Append(
			time.Unix(sec, 0).Format("2006-01-02 15:04"),
			tr.ActivityType,
			tr.Flow,
			formatCompact(tr.AmountHuman()),
			fmt.Sprintf("$%.2f", tr.Value),
			shortMint(counterparty),
		)
	}

	fmt.Fprintf(c.out, "\ntransfer history for %s — %d movements\n", shortMint(wallet), len(transfers))
	table.Render()
}

// PrintRuns imprime el histórico de ejecuciones guardadas de la wallet.
func (c *Console) PrintRuns(wallet string, runs []domain.AnalysisRun) {
	if len(runs) == 0 {
		fmt.Fprintf(c.out, "no saved runs for %s\n", wallet)
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Ran At", "Tokens", "Invested", "Received", "Realized", "Total", "Win Rate", "Median ROI")
	for _, run := range runs {
		table.Append(
			run.RanAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", run.Tokens),
			fmt.Sprintf("%.3f ◎", run.Invested),
			fmt.Sprintf("%.3f ◎", run.Received),
			fmt.Sprintf("%+.3f ◎", run.RealizedProfit),
			fmt.Sprintf("%+.3f ◎", run.TotalProfit),
			fmt.Sprintf("%.1f%%", run.WinRate),
			fmt.Sprintf("%+.1f%%", run.MedianROI),
		)
	}

	fmt.Fprintf(c.out, "\nanalysis history for %s\n", shortMint(wallet))
	table.Render()
}

// --- helpers de formato ---

// tokenLabel prefiere el symbol del price source; sin metadata cae al mint
// truncado.
func tokenLabel(p domain.TokenPosition) string {
	if p.Symbol != "" {
		return p.Symbol
	}
	return shortMint(p.Mint)
}

func shortMint(mint string) string {
	if len(mint) <= 12 {
		return mint
	}
	return mint[:4] + ".." + mint[len(mint)-4:]
}

// formatCompact abrevia cantidades grandes con sufijos k/M/B.
func formatCompact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fk", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// formatDuration imprime una duración como "2d 4h 13m". Por debajo del
// minuto baja a segundos.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
