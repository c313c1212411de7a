package analyzer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanderBuruma/solana-research/internal/analyzer"
	"github.com/SanderBuruma/solana-research/internal/domain"
)

type fakePrices struct {
	prices map[string]*domain.TokenPrice
	calls  int
}

func (p *fakePrices) TokenPrice(_ context.Context, mint string) (*domain.TokenPrice, error) {
	p.calls++
	return p.prices[mint], nil
}

func newAggregator(prices *fakePrices) *analyzer.Aggregator {
	return analyzer.NewAggregator(prices, analyzer.AggregatorConfig{
		Fees: domain.DefaultFeeConfig(),
	})
}

func TestAggregator_ClosedRoundTrip(t *testing.T) {
	now := time.Now()
	trades := []domain.Trade{
		sellTrade("sell", now, 1000, 1.2),
		buyTrade("buy", now.Add(-time.Hour), 1.0, 1000),
	}

	agg := newAggregator(&fakePrices{})
	res, err := agg.Aggregate(context.Background(), trades)
	require.NoError(t, err)
	require.Len(t, res.Positions, 1)

	p := res.Positions[0]
	assert.Equal(t, memeMint, p.Mint)
	assert.InDelta(t, 1.0, p.SOLInvested, 1e-9)
	assert.InDelta(t, 1.2, p.SOLReceived, 1e-9)
	assert.Zero(t, p.RemainingTokens, "posición cerrada sin resto")
	assert.Zero(t, p.RemainingValue)

	// fees = (0.002 + 1.0*0.022912) + (0.002 + 1.2*0.063)
	wantFees := 0.002 + 1.0*0.022912 + 0.002 + 1.2*0.063
	assert.InDelta(t, wantFees, p.TotalFees, 1e-9)

	// El beneficio siempre descuenta fees
	assert.InDelta(t, 1.2-1.0-wantFees, p.RealizedProfit(), 1e-9)
	assert.InDelta(t, p.RealizedProfit(), p.TotalProfit(), 1e-9)

	assert.InDelta(t, time.Hour.Seconds(), p.HoldTime().Seconds(), 1.0)
}

func TestAggregator_RoundTripWithoutFees(t *testing.T) {
	now := time.Now()
	trades := []domain.Trade{
		buyTrade("buy", now.Add(-time.Hour), 1.0, 1000),
		sellTrade("sell", now, 1000, 1.2),
	}

	// Fees a cero para aislar la contabilidad pura del fold
	agg := analyzer.NewAggregator(&fakePrices{}, analyzer.AggregatorConfig{})
	res, err := agg.Aggregate(context.Background(), trades)
	require.NoError(t, err)
	require.Len(t, res.Positions, 1)

	p := res.Positions[0]
	assert.InDelta(t, 1.0, p.SOLInvested, 1e-9)
	assert.InDelta(t, 1.2, p.SOLReceived, 1e-9)
	assert.Zero(t, p.TotalFees)
	assert.InDelta(t, 0.2, p.RealizedProfit(), 1e-9)
	assert.Zero(t, p.RemainingTokens)
	assert.InDelta(t, time.Hour.Seconds(), p.HoldTime().Seconds(), 1.0)
}

func TestAggregator_OrderIndependent(t *testing.T) {
	now := time.Now()
	trades := []domain.Trade{
		buyTrade("b1", now.Add(-3*time.Hour), 1.0, 1000),
		sellTrade("s1", now.Add(-2*time.Hour), 400, 0.5),
		buyTrade("b2", now.Add(-time.Hour), 0.5, 300),
		sellTrade("s2", now, 900, 1.1),
	}
	reversed := []domain.Trade{trades[3], trades[2], trades[1], trades[0]}

	agg := newAggregator(&fakePrices{})
	a, err := agg.Aggregate(context.Background(), trades)
	require.NoError(t, err)
	b, err := newAggregator(&fakePrices{}).Aggregate(context.Background(), reversed)
	require.NoError(t, err)

	require.Len(t, a.Positions, 1)
	require.Len(t, b.Positions, 1)
	assert.InDelta(t, a.Positions[0].RealizedProfit(), b.Positions[0].RealizedProfit(), 1e-9)
	assert.InDelta(t, a.Positions[0].TotalFees, b.Positions[0].TotalFees, 1e-9)
	assert.Equal(t, a.Positions[0].HoldTime(), b.Positions[0].HoldTime(),
		"el hold time no depende del orden de llegada")
	assert.InDelta(t, a.Positions[0].LastSOLRate, b.Positions[0].LastSOLRate, 1e-12)
}

func TestAggregator_OpenPositionLivePrice(t *testing.T) {
	now := time.Now()
	prices := &fakePrices{prices: map[string]*domain.TokenPrice{
		domain.SOLMint: {PriceUSDT: 200},
		memeMint:       {PriceUSDT: 0.01, Name: "Meme", Symbol: "MEME", Decimals: 6},
	}}

	agg := newAggregator(prices)
	res, err := agg.Aggregate(context.Background(), []domain.Trade{
		buyTrade("b1", now.Add(-time.Hour), 1.0, 1000),
	})
	require.NoError(t, err)
	require.Len(t, res.Positions, 1)

	p := res.Positions[0]
	assert.InDelta(t, 1000, p.RemainingTokens, 1e-9)
	// 1000 tokens * 0.01 USD / 200 USD/SOL = 0.05 SOL
	assert.InDelta(t, 0.05, p.RemainingValue, 1e-9)
	assert.Equal(t, "MEME", p.Symbol)

	// La posición sigue abierta: el hold corre hasta ahora
	assert.GreaterOrEqual(t, p.HoldTime(), time.Hour)

	// Entry MC: (1.0/1000) SOL/token * 200 USD/SOL * 1e9 supply
	assert.InDelta(t, 1.0/1000*200*1e9, p.EntryMarketCap, 1e-3)
}

func TestAggregator_LastRateFallbackWithoutPrice(t *testing.T) {
	now := time.Now()
	agg := newAggregator(&fakePrices{}) // sin cotizaciones

	res, err := agg.Aggregate(context.Background(), []domain.Trade{
		buyTrade("b1", now, 2.0, 1000),
	})
	require.NoError(t, err)
	require.Len(t, res.Positions, 1)

	p := res.Positions[0]
	// rate = 2.0 SOL / 1000 tokens; resto = 1000 → valor 2.0 SOL
	assert.InDelta(t, 2.0, p.RemainingValue, 1e-9)
}

func TestAggregator_DustRemainderIsClosed(t *testing.T) {
	now := time.Now()
	trades := []domain.Trade{
		buyTrade("b", now.Add(-time.Hour), 1.0, 1000),
		sellTrade("s", now, 999.9999999, 1.0),
	}

	agg := newAggregator(&fakePrices{})
	res, err := agg.Aggregate(context.Background(), trades)
	require.NoError(t, err)

	p := res.Positions[0]
	assert.Zero(t, p.RemainingTokens, "restos por debajo del epsilon se absorben")
	assert.Zero(t, p.RemainingValue)
}

func TestAggregator_SkipsNonDirectionalSwaps(t *testing.T) {
	now := time.Now()
	usdcSwap := domain.Trade{
		TransactionID: "stable",
		BlockTime:     float64(now.Unix()),
		TokenA:        domain.SOLMint,
		TokenB:        "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		TokenADec:     9,
		TokenBDec:     6,
		AmountARaw:    1e9,
		AmountBRaw:    150e6,
	}

	agg := newAggregator(&fakePrices{})
	res, err := agg.Aggregate(context.Background(), []domain.Trade{
		usdcSwap,
		buyTrade("real", now, 0.5, 1000),
	})
	require.NoError(t, err)

	assert.Len(t, res.Positions, 1, "el swap contra stablecoin no abre posición")
	assert.Equal(t, 1, res.NonSOLSwaps)
	assert.Equal(t, 2, res.TotalTransactions)
}

func TestAggregator_PeriodAttribution(t *testing.T) {
	now := time.Now()
	trades := []domain.Trade{
		buyTrade("recent", now.Add(-2*time.Hour), 1.0, 1000),
		buyTrade("older", now.Add(-10*24*time.Hour), 2.0, 500),
	}

	agg := newAggregator(&fakePrices{})
	res, err := agg.Aggregate(context.Background(), trades)
	require.NoError(t, err)

	// El trade de hace 10 días cae en 60d/30d pero no en 7d/24h.
	assert.InDelta(t, 3.0, res.Periods["60d"].Invested, 1e-9)
	assert.InDelta(t, 3.0, res.Periods["30d"].Invested, 1e-9)
	assert.InDelta(t, 1.0, res.Periods["7d"].Invested, 1e-9)
	assert.InDelta(t, 1.0, res.Periods["24h"].Invested, 1e-9)
}

func TestAggregator_SkipPricesMakesNoCalls(t *testing.T) {
	prices := &fakePrices{prices: map[string]*domain.TokenPrice{
		domain.SOLMint: {PriceUSDT: 200},
	}}
	agg := analyzer.NewAggregator(prices, analyzer.AggregatorConfig{
		Fees:       domain.DefaultFeeConfig(),
		SkipPrices: true,
	})

	_, err := agg.Aggregate(context.Background(), []domain.Trade{
		buyTrade("b", time.Now(), 1.0, 1000),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, prices.calls)
}
