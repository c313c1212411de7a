package analyzer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SanderBuruma/solana-research/internal/analyzer"
	"github.com/SanderBuruma/solana-research/internal/domain"
)

// position fabrica una posición cerrada con la inversión y retorno dados,
// sin fees, para que el ROI sea exacto.
func position(mint string, invested, received float64) domain.TokenPosition {
	now := time.Now()
	return domain.TokenPosition{
		Mint:        mint,
		SOLInvested: invested,
		SOLReceived: received,
		TradeCount:  2,
		FirstTrade:  now.Add(-time.Hour),
		LastTrade:   now,
	}
}

func TestSummarize_MedianPicksMiddleElement(t *testing.T) {
	// ROIs: -50, +10, +20, +1000000 → ordenados, el elemento [len/2] es 20.
	// Con cuenta par NO se promedian los dos centrales.
	res := &analyzer.Result{Positions: []domain.TokenPosition{
		position("m1", 1.0, 0.5),     // -50%
		position("m2", 1.0, 1.1),     // +10%
		position("m3", 1.0, 1.2),     // +20%
		position("m4", 1.0, 10001.0), // +1000000%
	}}

	stats := analyzer.Summarize(res)
	assert.InDelta(t, 20.0, stats.MedianROIPercent, 1e-9,
		"un outlier extremo no debe arrastrar la mediana")
}

func TestSummarize_WinRate(t *testing.T) {
	res := &analyzer.Result{Positions: []domain.TokenPosition{
		position("w1", 1.0, 2.0), // ganador
		position("w2", 1.0, 3.0), // ganador
		position("l1", 1.0, 0.2), // perdedor
		position("z1", 1.0, 1.0), // resultado cero: no puntúa
		{Mint: "never-traded"},   // sin actividad: no puntúa
	}}

	stats := analyzer.Summarize(res)
	assert.Equal(t, 3, stats.Scored)
	assert.Equal(t, 2, stats.Winners)
	assert.InDelta(t, 66.666, stats.WinRate, 0.01)
}

func TestSummarize_ProfitAndLossMedians(t *testing.T) {
	res := &analyzer.Result{Positions: []domain.TokenPosition{
		position("p1", 1.0, 1.5),
		position("p2", 1.0, 4.0),
		position("l1", 1.0, 0.5),
	}}

	stats := analyzer.Summarize(res)
	// profits [0.5, 3.0] → mediana [1] = 3.0; losses [-0.5] → -0.5
	assert.InDelta(t, 3.0, stats.MedianProfit, 1e-9)
	assert.InDelta(t, -0.5, stats.MedianLoss, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	stats := analyzer.Summarize(&analyzer.Result{})
	assert.Zero(t, stats.WinRate)
	assert.Zero(t, stats.MedianROIPercent)
	assert.Zero(t, stats.MedianHoldTime)
}

func TestSummarize_HoldTimeMedian(t *testing.T) {
	mk := func(hold time.Duration) domain.TokenPosition {
		now := time.Now()
		return domain.TokenPosition{
			SOLInvested: 1, SOLReceived: 2,
			FirstTrade: now.Add(-hold), LastTrade: now,
		}
	}
	res := &analyzer.Result{Positions: []domain.TokenPosition{
		mk(time.Minute), mk(time.Hour), mk(24 * time.Hour),
	}}

	stats := analyzer.Summarize(res)
	assert.InDelta(t, time.Hour.Seconds(), stats.MedianHoldTime.Seconds(), 1.0)
}
