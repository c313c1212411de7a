package report

// csv.go — informe CSV por wallet, pensado para abrirse en hojas de cálculo
// con configuración regional europea: separador ';' y coma decimal. El orden
// de columnas y los anchos decimales son contrato externo, no se cambian.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SanderBuruma/solana-research/internal/analyzer"
)

const reportHeader = "Token;First Trade;Hold Time;Last Trade;First MC;" +
	"SOL Invested;SOL Received;SOL Profit (after fees);Buy Fees;Sell Fees;" +
	"Total Fees;Remaining Value;Total Profit (after fees);Token Price (USDT);Trades\n"

// CSVReport escribe el informe de posiciones bajo el directorio dado.
type CSVReport struct {
	dir string
}

func NewCSVReport(dir string) *CSVReport {
	return &CSVReport{dir: dir}
}

// Write genera reports/<wallet>.csv con una fila por token más la fila TOTAL.
// Devuelve la ruta escrita.
func (r *CSVReport) Write(wallet string, res *analyzer.Result) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("report.Write: mkdir: %w", err)
	}
	path := filepath.Join(r.dir, wallet+".csv")

	var sb strings.Builder
	sb.WriteString(reportHeader)

	totalTrades := 0
	var totalBuyFees, totalSellFees float64
	for _, p := range res.Positions {
		totalTrades += p.TradeCount
		totalBuyFees += p.BuyFees
		totalSellFees += p.SellFees

		fmt.Fprintf(&sb, "%s;%s;%s;%s;%.2f;%.3f;%.3f;%s;%s;%s;%s;%s;%s;%s;%d\n",
			p.Mint,
			p.FirstTrade.Format("2006-01-02 15:04"),
			formatDuration(p.HoldTime()),
			p.LastTrade.Format("2006-01-02 15:04"),
			p.EntryMarketCap,
			p.SOLInvested,
			p.SOLReceived,
			decimalComma(p.RealizedProfit(), 2),
			decimalComma(p.BuyFees, 2),
			decimalComma(p.SellFees, 2),
			decimalComma(p.TotalFees, 2),
			decimalComma(p.RemainingValue, 2),
			decimalComma(p.TotalProfit(), 2),
			decimalComma(p.PriceUSDT, 6),
			p.TradeCount,
		)
	}

	fmt.Fprintf(&sb, "TOTAL;;;;;%s;%s;%s;%s;%s;%s;%s;%s;;%d\n",
		decimalComma(res.Invested(), 2),
		decimalComma(res.Received(), 2),
		decimalComma(res.RealizedProfit(), 2),
		decimalComma(totalBuyFees, 2),
		decimalComma(totalSellFees, 2),
		decimalComma(totalBuyFees+totalSellFees, 2),
		decimalComma(res.TotalProfit()-res.RealizedProfit(), 2),
		decimalComma(res.TotalProfit(), 2),
		totalTrades,
	)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("report.Write: %s: %w", path, err)
	}
	return path, nil
}

// decimalComma formatea con coma como separador decimal.
func decimalComma(v float64, decimals int) string {
	s := fmt.Sprintf("%.*f", decimals, v)
	return strings.Replace(s, ".", ",", 1)
}
