package analyzer

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/SanderBuruma/solana-research/internal/domain"
	"github.com/SanderBuruma/solana-research/internal/ports"
)

const (
	// Posiciones con menos tokens restantes que esto no justifican una
	// llamada de precio: su valor residual es ruido.
	defaultMaterialityThreshold = 100.0

	// Supply asumido para estimar la FDV de entrada cuando el indexador no
	// reporta supply real. La mayoría de memecoins lanzan con 1e9.
	defaultAssumedSupply = 1e9

	// Restos por debajo de este epsilon se tratan como posición cerrada.
	dustEpsilon = 1e-6
)

// AggregatorConfig parametriza el plegado de trades en posiciones.
type AggregatorConfig struct {
	Fees                 domain.FeeConfig
	MaterialityThreshold float64 // 0 usa defaultMaterialityThreshold
	AssumedSupply        float64 // 0 usa defaultAssumedSupply
	SkipPrices           bool    // no cotizar nada; valora todo por last rate
}

// Result es la salida completa de una pasada del agregador.
type Result struct {
	Positions   []domain.TokenPosition
	Periods     map[string]domain.PeriodStats
	SOLPriceUSD float64

	TotalTransactions int
	NonSOLSwaps       int

	GeneratedAt time.Time
}

// Invested devuelve el SOL total invertido en todas las posiciones.
func (r Result) Invested() float64 {
	var sum float64
	for _, p := range r.Positions {
		sum += p.SOLInvested
	}
	return sum
}

// Received devuelve el SOL total recuperado en ventas.
func (r Result) Received() float64 {
	var sum float64
	for _, p := range r.Positions {
		sum += p.SOLReceived
	}
	return sum
}

// RealizedProfit devuelve el beneficio realizado agregado, neto de fees.
func (r Result) RealizedProfit() float64 {
	var sum float64
	for _, p := range r.Positions {
		sum += p.RealizedProfit()
	}
	return sum
}

// TotalProfit añade al realizado el valor de las posiciones abiertas.
func (r Result) TotalProfit() float64 {
	var sum float64
	for _, p := range r.Positions {
		sum += p.TotalProfit()
	}
	return sum
}

// Aggregator pliega trades en posiciones por token y ventanas temporales.
type Aggregator struct {
	prices ports.PriceSource
	cfg    AggregatorConfig
	now    func() time.Time
}

func NewAggregator(prices ports.PriceSource, cfg AggregatorConfig) *Aggregator {
	if cfg.MaterialityThreshold <= 0 {
		cfg.MaterialityThreshold = defaultMaterialityThreshold
	}
	if cfg.AssumedSupply <= 0 {
		cfg.AssumedSupply = defaultAssumedSupply
	}
	return &Aggregator{prices: prices, cfg: cfg, now: time.Now}
}

// Aggregate pliega el historial completo en posiciones por token. El orden de
// entrada de los trades es irrelevante: los acumuladores son conmutativos y
// los extremos temporales se calculan por min/max.
func (a *Aggregator) Aggregate(ctx context.Context, trades []domain.Trade) (*Result, error) {
	now := a.now()
	res := &Result{
		Periods:           make(map[string]domain.PeriodStats, len(domain.Periods)),
		TotalTransactions: len(trades),
		GeneratedAt:       now,
	}

	positions := make(map[string]*domain.TokenPosition)

	for _, t := range trades {
		if !t.Qualifies() {
			res.NonSOLSwaps++
			continue
		}

		var mint string
		var solAmt, tokAmt float64
		buy := t.IsPurchase()
		if buy {
			mint, solAmt, tokAmt = t.TokenB, t.AmountA(), t.AmountB()
		} else {
			mint, solAmt, tokAmt = t.TokenA, t.AmountB(), t.AmountA()
		}

		p := positions[mint]
		if p == nil {
			p = &domain.TokenPosition{Mint: mint}
			positions[mint] = p
		}

		ts := t.Time()
		if p.FirstTrade.IsZero() || ts.Before(p.FirstTrade) {
			p.FirstTrade = ts
		}
		if ts.After(p.LastTrade) {
			p.LastTrade = ts
			if tokAmt > 0 {
				p.LastSOLRate = solAmt / tokAmt
			}
		}
		p.TradeCount++

		var fee float64
		if buy {
			fee = a.cfg.Fees.BuyFixed + solAmt*a.cfg.Fees.BuyPercent
			p.SOLInvested += solAmt
			p.TokensBought += tokAmt
			p.BuyFees += fee
		} else {
			fee = a.cfg.Fees.SellFixed + solAmt*a.cfg.Fees.SellPercent
			p.SOLReceived += solAmt
			p.TokensSold += tokAmt
			p.SellFees += fee
		}
		p.TotalFees += fee

		// Invested/Received se atribuyen a cada ventana por el timestamp
		// del trade individual.
		for _, period := range domain.Periods {
			if now.Sub(ts) > period.Duration {
				continue
			}
			stats := res.Periods[period.Name]
			if buy {
				stats.Invested += solAmt
			} else {
				stats.Received += solAmt
			}
			res.Periods[period.Name] = stats
		}
	}

	res.SOLPriceUSD = a.solPriceUSD(ctx)

	for _, p := range positions {
		a.finalize(ctx, p, res.SOLPriceUSD)

		// El valor restante y las fees de un token pertenecen a la ventana
		// que contiene su último trade: la posición "vive" donde se tocó
		// por última vez.
		for _, period := range domain.Periods {
			if now.Sub(p.LastTrade) > period.Duration {
				continue
			}
			stats := res.Periods[period.Name]
			stats.RemainingValue += p.RemainingValue
			stats.Fees += p.TotalFees
			res.Periods[period.Name] = stats
		}

		// Las posiciones abiertas siguen corriendo: su hold time llega
		// hasta ahora. Se ajusta después de la atribución por ventanas.
		if p.RemainingTokens > 0 {
			p.LastTrade = now
		}

		res.Positions = append(res.Positions, *p)
	}

	sort.Slice(res.Positions, func(i, j int) bool {
		return res.Positions[i].LastTrade.After(res.Positions[j].LastTrade)
	})
	return res, nil
}

// finalize calcula los derivados de una posición ya plegada.
func (a *Aggregator) finalize(ctx context.Context, p *domain.TokenPosition, solUSD float64) {
	remaining := p.TokensBought - p.TokensSold
	if remaining < dustEpsilon {
		remaining = 0
	}
	p.RemainingTokens = remaining

	if remaining >= a.cfg.MaterialityThreshold && !a.cfg.SkipPrices {
		price, err := a.prices.TokenPrice(ctx, p.Mint)
		if err != nil {
			slog.Debug("price lookup failed, valuing at last rate", "mint", p.Mint, "err", err)
		} else if price != nil {
			p.PriceUSDT = price.PriceUSDT
			p.Decimals = price.Decimals
			p.Name = price.Name
			p.Symbol = price.Symbol
		}
	}

	// Valoración del resto: precio vivo si lo hay, si no el último tipo de
	// cambio observado, y cero como último recurso.
	switch {
	case remaining == 0:
		p.RemainingValue = 0
	case p.PriceUSDT > 0 && solUSD > 0:
		p.RemainingValue = remaining * p.PriceUSDT / solUSD
	default:
		p.RemainingValue = remaining * p.LastSOLRate
	}

	// FDV estimada a la entrada: precio medio de compra por el supply
	// asumido, convertido a USD.
	if p.TokensBought > 0 && solUSD > 0 {
		p.EntryMarketCap = p.SOLInvested / p.TokensBought * solUSD * a.cfg.AssumedSupply
		if p.EntryMarketCap > 0 {
			p.MCEntryPercent = p.SOLInvested * solUSD / p.EntryMarketCap * 100
		}
	}
}

// solPriceUSD cotiza SOL una sola vez por análisis. Sin precio devuelve 0 y
// las valoraciones caen al last rate.
func (a *Aggregator) solPriceUSD(ctx context.Context) float64 {
	if a.cfg.SkipPrices {
		return 0
	}
	price, err := a.prices.TokenPrice(ctx, domain.SOLMint)
	if err != nil || price == nil {
		slog.Warn("could not quote SOL, market caps unavailable", "err", err)
		return 0
	}
	return price.PriceUSDT
}
