package domain

import "time"

// FeeConfig son las cuatro constantes del modelo de fees fijo + porcentual.
// Se inyecta explícitamente en el agregador — nunca se lee del entorno
// dentro del loop de procesamiento.
type FeeConfig struct {
	BuyFixed    float64 `yaml:"buy_fixed"`
	BuyPercent  float64 `yaml:"buy_percent"`
	SellFixed   float64 `yaml:"sell_fixed"`
	SellPercent float64 `yaml:"sell_percent"`
}

// DefaultFeeConfig devuelve los valores observados en mainnet con agregadores
// tipo Jupiter/Photon. Son aproximaciones configurables, no verdad on-chain.
func DefaultFeeConfig() FeeConfig {
	return FeeConfig{
		BuyFixed:    0.002,
		BuyPercent:  0.022912,
		SellFixed:   0.002,
		SellPercent: 0.063,
	}
}

// TokenPosition es el ledger acumulado de un token (no-SOL) a lo largo del
// historial de una wallet. Se construye trade a trade y se finaliza una vez
// plegados todos los trades; después no se muta dentro de un mismo análisis.
type TokenPosition struct {
	Mint string

	SOLInvested  float64
	SOLReceived  float64
	TokensBought float64
	TokensSold   float64
	BuyFees      float64
	SellFees     float64
	TotalFees    float64
	TradeCount   int

	FirstTrade time.Time
	LastTrade  time.Time

	// LastSOLRate es el último tipo de cambio SOL/token observado; sirve de
	// fallback de valoración cuando no hay precio vivo.
	LastSOLRate float64

	// Metadata del price source (vacía si el token no se cotizó).
	PriceUSDT float64
	Decimals  int
	Name      string
	Symbol    string

	// Derivados, calculados al finalizar la agregación.
	RemainingTokens float64 // bought - sold, con epsilon absorbido
	RemainingValue  float64 // en SOL, a precio vivo o last rate
	EntryMarketCap  float64 // FDV estimada a la entrada (supply asumido)
	MCEntryPercent  float64 // % del MC estimado que representó la inversión
}

// RealizedProfit devuelve el beneficio realizado, siempre neto de fees.
func (p TokenPosition) RealizedProfit() float64 {
	return p.SOLReceived - p.SOLInvested - p.TotalFees
}

// TotalProfit suma al realizado el valor de la posición abierta.
func (p TokenPosition) TotalProfit() float64 {
	return p.RealizedProfit() + p.RemainingValue
}

// ROIPercent devuelve el ROI por token en %. ok=false si no hubo inversión.
func (p TokenPosition) ROIPercent() (float64, bool) {
	if p.SOLInvested <= 0 {
		return 0, false
	}
	return p.TotalProfit() / p.SOLInvested * 100, true
}

// HoldTime es el tiempo que la posición estuvo (o sigue) abierta. Nunca
// negativo: si los extremos vienen invertidos se intercambian.
func (p TokenPosition) HoldTime() time.Duration {
	if p.FirstTrade.IsZero() || p.LastTrade.IsZero() {
		return 0
	}
	d := p.LastTrade.Sub(p.FirstTrade)
	if d < 0 {
		return -d
	}
	return d
}

// Period es una ventana fija hacia atrás desde "ahora".
type Period struct {
	Name     string
	Duration time.Duration
}

// Periods son las ventanas del informe, de mayor a menor (orden de display).
var Periods = []Period{
	{Name: "60d", Duration: 60 * 24 * time.Hour},
	{Name: "30d", Duration: 30 * 24 * time.Hour},
	{Name: "7d", Duration: 7 * 24 * time.Hour},
	{Name: "24h", Duration: 24 * time.Hour},
}

// PeriodStats acumula la actividad del portfolio dentro de una ventana.
// Invested/Received se atribuyen por timestamp del trade; RemainingValue y
// Fees por el last-trade del token (membresía por último trade, ver DESIGN).
type PeriodStats struct {
	Invested       float64
	Received       float64
	RemainingValue float64
	Fees           float64
}

// Profit devuelve el beneficio de la ventana, neto de fees.
func (s PeriodStats) Profit() float64 {
	return s.Received + s.RemainingValue - s.Invested - s.Fees
}

// ROIPercent devuelve el ROI de la ventana. ok=false si no hubo inversión.
func (s PeriodStats) ROIPercent() (float64, bool) {
	if s.Invested <= 0 {
		return 0, false
	}
	return s.Profit() / s.Invested * 100, true
}

// PortfolioStats son las métricas descriptivas a nivel de cartera.
// Todas las medianas usan el elemento s[len/2] de la lista ordenada: con
// cuenta par NO se promedian los dos centrales. Es una decisión fija del
// formato de salida, no un bug.
type PortfolioStats struct {
	TotalTransactions int
	NonSOLSwaps       int

	WinRate float64 // % de tokens con total_profit > 0
	Winners int
	Scored  int // tokens con resultado realizado no nulo

	MedianInvestment  float64
	MedianROIPercent  float64
	ROIStdDev         float64 // desviación típica poblacional
	MedianHoldTime    time.Duration
	MedianMarketEntry float64
	MedianMCPercent   float64
	MedianProfit      float64
	MedianLoss        float64
}

// AnalysisRun es el resumen persistido de una ejecución del análisis.
type AnalysisRun struct {
	ID             string
	Wallet         string
	RanAt          time.Time
	Tokens         int
	Invested       float64
	Received       float64
	RealizedProfit float64
	TotalProfit    float64
	WinRate        float64
	MedianROI      float64
}
