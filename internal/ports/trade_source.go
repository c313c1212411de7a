package ports

import (
	"context"

	"github.com/SanderBuruma/solana-research/internal/domain"
)

// TradeSource obtiene la actividad DEX de una dirección desde el indexador
// externo. El core depende solo de esta forma, no del transporte concreto.
type TradeSource interface {
	// TotalTrades devuelve cuántos swaps tiene la dirección según el
	// indexador (puede venir acotado por el proveedor).
	TotalTrades(ctx context.Context, address string) (int, error)

	// TradesPage devuelve una página de swaps, del más reciente al más
	// antiguo. fromTime/toTime (unix seconds) acotan la consulta upstream
	// cuando son > 0.
	TradesPage(ctx context.Context, address string, page, pageSize int, fromTime, toTime int64) ([]domain.Trade, error)
}
