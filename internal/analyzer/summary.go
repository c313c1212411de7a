package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/SanderBuruma/solana-research/internal/domain"
)

// Summarize reduce un resultado de agregación a las métricas de cartera.
// Todas las medianas usan el elemento s[len/2] de la lista ordenada (con
// cuenta par no se promedian los centrales); la desviación típica es
// poblacional.
func Summarize(res *Result) domain.PortfolioStats {
	stats := domain.PortfolioStats{
		TotalTransactions: res.TotalTransactions,
		NonSOLSwaps:       res.NonSOLSwaps,
	}

	var (
		investments []float64
		rois        []float64
		holds       []float64
		entries     []float64
		mcPercents  []float64
		profits     []float64
		losses      []float64
	)

	for _, p := range res.Positions {
		if p.SOLInvested > 0 {
			investments = append(investments, p.SOLInvested)
		}
		if roi, ok := p.ROIPercent(); ok {
			rois = append(rois, roi)
		}
		if hold := p.HoldTime(); hold > 0 {
			holds = append(holds, hold.Seconds())
		}
		if p.EntryMarketCap > 0 {
			entries = append(entries, p.EntryMarketCap)
			mcPercents = append(mcPercents, p.MCEntryPercent)
		}

		// Win rate: solo puntúan los tokens con resultado realizado no
		// nulo; un token gana si su beneficio total (incluida la posición
		// abierta) es positivo.
		if p.RealizedProfit() != 0 {
			stats.Scored++
			if p.TotalProfit() > 0 {
				stats.Winners++
			}
		}

		if total := p.TotalProfit(); total > 0 {
			profits = append(profits, total)
		} else if total < 0 {
			losses = append(losses, total)
		}
	}

	if stats.Scored > 0 {
		stats.WinRate = float64(stats.Winners) / float64(stats.Scored) * 100
	}

	stats.MedianInvestment = lowerMedian(investments)
	stats.MedianROIPercent = lowerMedian(rois)
	stats.ROIStdDev = populationStdDev(rois)
	stats.MedianHoldTime = time.Duration(lowerMedian(holds) * float64(time.Second))
	stats.MedianMarketEntry = lowerMedian(entries)
	stats.MedianMCPercent = lowerMedian(mcPercents)
	stats.MedianProfit = lowerMedian(profits)
	stats.MedianLoss = lowerMedian(losses)

	return stats
}

// lowerMedian devuelve el elemento s[len/2] de la lista ordenada, o 0 si está
// vacía. No muta el slice de entrada.
func lowerMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// populationStdDev calcula la desviación típica poblacional (divide por N).
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
