package domain

import (
	"math"
	"time"
)

// Direcciones canónicas del mint de SOL nativo (forma actual y legacy).
const (
	SOLMint       = "So11111111111111111111111111111111111111112"
	SOLMintLegacy = "So11111111111111111111111111111111111111111"
)

// Stablecoins ancladas a USD (USDT, USDC). Un swap con una de estas en
// cualquier pierna no es una apuesta direccional y queda fuera del análisis.
var stableMints = map[string]bool{
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": true,
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": true,
}

// IsSOL indica si el mint es SOL nativo (cualquiera de sus dos formas).
func IsSOL(mint string) bool {
	return mint == SOLMint || mint == SOLMintLegacy
}

// IsStable indica si el mint es una stablecoin USD conocida.
func IsStable(mint string) bool {
	return stableMints[mint]
}

// Trade representa un swap DEX normalizado. Es inmutable una vez creado:
// el pipeline entero (cache, fetcher, agregador) opera sobre copias por valor.
type Trade struct {
	TransactionID string  // clave primaria de de-duplicación
	BlockTime     float64 // unix seconds, fraccional permitido; define el orden
	BlockID       int64   // slot — informativo, no se usa para ordenar
	TokenA        string  // mint de la primera pierna
	TokenB        string  // mint de la segunda pierna
	TokenADec     int
	TokenBDec     int
	AmountARaw    float64 // cantidad cruda antes de escalar por decimales
	AmountBRaw    float64
	FromAddress   string

	// Metadata opcional que viaja en el cache. Columnas antiguas pueden
	// faltar — cero/vacío es un valor válido.
	PriceUSDT float64
	Decimals  int
	Name      string
	Symbol    string
	Flow      string
	Value     float64
}

// AmountA devuelve la cantidad humana de la pierna A (raw / 10^decimales).
func (t Trade) AmountA() float64 {
	return t.AmountARaw / math.Pow(10, float64(t.TokenADec))
}

// AmountB devuelve la cantidad humana de la pierna B.
func (t Trade) AmountB() float64 {
	return t.AmountBRaw / math.Pow(10, float64(t.TokenBDec))
}

// IsPurchase indica si el trade compra TokenB pagando con SOL.
func (t Trade) IsPurchase() bool {
	return IsSOL(t.TokenA) && !IsSOL(t.TokenB)
}

// IsSale indica si el trade vende TokenA a cambio de SOL.
func (t Trade) IsSale() bool {
	return IsSOL(t.TokenB) && !IsSOL(t.TokenA)
}

// Qualifies indica si el trade entra en el análisis: exactamente una pierna
// SOL, ninguna stablecoin, ambos mints presentes y cantidades no nulas.
func (t Trade) Qualifies() bool {
	if t.TokenA == "" || t.TokenB == "" {
		return false
	}
	if IsStable(t.TokenA) || IsStable(t.TokenB) {
		return false
	}
	if IsSOL(t.TokenA) == IsSOL(t.TokenB) {
		return false
	}
	return t.AmountARaw != 0 && t.AmountBRaw != 0
}

// Time devuelve el instante de ejecución como time.Time.
func (t Trade) Time() time.Time {
	sec := int64(t.BlockTime)
	nsec := int64((t.BlockTime - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// Transfer es un movimiento simple de la cuenta (no-swap), usado solo por
// el modo de historial de transferencias.
type Transfer struct {
	BlockTime     float64
	ActivityType  string
	Amount        float64 // raw
	TokenDecimals int
	Flow          string // "in" | "out"
	FromAddress   string
	ToAddress     string
	Value         float64 // USD
}

// AmountHuman devuelve la cantidad escalada por decimales.
func (t Transfer) AmountHuman() float64 {
	return t.Amount / math.Pow(10, float64(t.TokenDecimals))
}

// TokenPrice es la respuesta del price source: precio USD opcional más
// metadata básica. La ausencia de precio es un resultado normal, no un error.
type TokenPrice struct {
	PriceUSDT float64
	Decimals  int
	Name      string
	Symbol    string
}
