package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SanderBuruma/solana-research/internal/domain"
)

const memeMint = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"

func TestTrade_Qualifies(t *testing.T) {
	base := domain.Trade{
		TokenA:     domain.SOLMint,
		TokenB:     memeMint,
		AmountARaw: 1e9,
		AmountBRaw: 1000e6,
	}
	assert.True(t, base.Qualifies())

	// La forma legacy del mint de SOL cuenta igual
	legacy := base
	legacy.TokenA = domain.SOLMintLegacy
	assert.True(t, legacy.Qualifies())

	// Stablecoin en cualquier pierna descalifica
	stable := base
	stable.TokenB = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	assert.False(t, stable.Qualifies())

	// Token-a-token: ninguna pierna SOL
	tokenOnly := base
	tokenOnly.TokenA = memeMint
	assert.False(t, tokenOnly.Qualifies())

	// SOL contra SOL tampoco es direccional
	solSol := base
	solSol.TokenB = domain.SOLMint
	assert.False(t, solSol.Qualifies())

	// Mints o cantidades vacías
	noMint := base
	noMint.TokenB = ""
	assert.False(t, noMint.Qualifies())

	zeroAmt := base
	zeroAmt.AmountBRaw = 0
	assert.False(t, zeroAmt.Qualifies())
}

func TestTrade_DirectionAndAmounts(t *testing.T) {
	buy := domain.Trade{
		TokenA:     domain.SOLMint,
		TokenB:     memeMint,
		TokenADec:  9,
		TokenBDec:  6,
		AmountARaw: 1.5e9,
		AmountBRaw: 1000e6,
	}
	assert.True(t, buy.IsPurchase())
	assert.False(t, buy.IsSale())
	assert.InDelta(t, 1.5, buy.AmountA(), 1e-9)
	assert.InDelta(t, 1000, buy.AmountB(), 1e-9)

	sell := domain.Trade{TokenA: memeMint, TokenB: domain.SOLMint}
	assert.True(t, sell.IsSale())
	assert.False(t, sell.IsPurchase())
}

func TestTrade_TimeKeepsFraction(t *testing.T) {
	tr := domain.Trade{BlockTime: 1700000000.5}
	assert.Equal(t, int64(1700000000), tr.Time().Unix())
	assert.Equal(t, 500*time.Millisecond, time.Duration(tr.Time().Nanosecond()))
}

func TestTokenPosition_Profit(t *testing.T) {
	p := domain.TokenPosition{
		SOLInvested:    2.0,
		SOLReceived:    3.0,
		TotalFees:      0.25,
		RemainingValue: 0.5,
	}
	assert.InDelta(t, 0.75, p.RealizedProfit(), 1e-9)
	assert.InDelta(t, 1.25, p.TotalProfit(), 1e-9)

	roi, ok := p.ROIPercent()
	assert.True(t, ok)
	assert.InDelta(t, 62.5, roi, 1e-9)

	// Sin inversión no hay ROI
	_, ok = domain.TokenPosition{SOLReceived: 1}.ROIPercent()
	assert.False(t, ok)
}

func TestTokenPosition_HoldTimeNeverNegative(t *testing.T) {
	now := time.Now()
	inverted := domain.TokenPosition{FirstTrade: now, LastTrade: now.Add(-time.Hour)}
	assert.Equal(t, time.Hour, inverted.HoldTime())

	assert.Zero(t, domain.TokenPosition{}.HoldTime())
}

func TestPeriodStats_ROI(t *testing.T) {
	s := domain.PeriodStats{Invested: 2, Received: 1, RemainingValue: 2, Fees: 0.5}
	assert.InDelta(t, 0.5, s.Profit(), 1e-9)

	roi, ok := s.ROIPercent()
	assert.True(t, ok)
	assert.InDelta(t, 25, roi, 1e-9)

	_, ok = domain.PeriodStats{Received: 5}.ROIPercent()
	assert.False(t, ok, "ventana sin inversión no tiene ROI")
}
